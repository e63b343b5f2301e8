package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexai/igs/internal/config"
)

const liteHTML = `<html><body><table>
<tr><td><a rel="nofollow" href="https://en.wikipedia.org/wiki/Tom_Cruise" class='result-link'>Tom Cruise - Wikipedia</a></td></tr>
<tr><td class='result-snippet'>Thomas Cruise Mapother IV (born July 3, 1962) is an <b>American</b> actor &amp; producer.</td></tr>
<tr><td><a rel="nofollow" href="https://www.imdb.com/name/nm0000129/" class='result-link'>Tom Cruise - IMDb</a></td></tr>
<tr><td class='result-snippet'>Actor, producer.</td></tr>
</table></body></html>`

func newTestDuckDuckGo(url string) *DuckDuckGo {
	d := NewDuckDuckGoWithClient(url, &http.Client{Timeout: 5 * time.Second})
	d.minInterval = 0
	return d
}

func TestParseLiteResults(t *testing.T) {
	results := parseLiteResults(liteHTML)
	require.Len(t, results, 2)
	assert.Equal(t, "Tom Cruise - Wikipedia", results[0].Title)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Tom_Cruise", results[0].URL)
	assert.Equal(t, "Thomas Cruise Mapother IV (born July 3, 1962) is an American actor & producer.", results[0].Snippet)
	assert.Equal(t, "Actor, producer.", results[1].Snippet)
}

func TestParseLiteResultsEmpty(t *testing.T) {
	assert.Empty(t, parseLiteResults("<html><body>No results.</body></html>"))
}

func TestDuckDuckGoSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "tom cruise age", r.PostForm.Get("q"))
		io.WriteString(w, liteHTML)
	}))
	defer srv.Close()

	results, err := newTestDuckDuckGo(srv.URL).Search(context.Background(), "tom cruise age")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Tom Cruise - Wikipedia", results[0].Title)
}

func TestDuckDuckGoRetriesOn429(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		io.WriteString(w, liteHTML)
	}))
	defer srv.Close()

	results, err := newTestDuckDuckGo(srv.URL).Search(context.Background(), "q")
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.EqualValues(t, 2, calls.Load())
}

func TestDuckDuckGoHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestDuckDuckGo(srv.URL).Search(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestDuckDuckGoEmptyQuery(t *testing.T) {
	_, err := newTestDuckDuckGo("http://127.0.0.1:0").Search(context.Background(), "  ")
	assert.EqualError(t, err, "duckduckgo: query is empty")
}

func TestGoogleSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/customsearch/v1"), r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("key"))
		assert.Equal(t, "engine-1", q.Get("cx"))
		assert.Equal(t, "france population", q.Get("q"))
		assert.Equal(t, "1", q.Get("num"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]string{
				{"title": "France - Wikipedia", "link": "https://en.wikipedia.org/wiki/France", "snippet": " 68 million "},
			},
		})
	}))
	defer srv.Close()

	g, err := NewGoogle(context.Background(), "test-key", "engine-1", srv.URL+"/", srv.Client())
	require.NoError(t, err)

	results, err := g.Search(context.Background(), "france population")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, Result{Title: "France - Wikipedia", URL: "https://en.wikipedia.org/wiki/France", Snippet: "68 million"}, results[0])
}

func TestGoogleNoItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"kind":"customsearch#search"}`)
	}))
	defer srv.Close()

	g, err := NewGoogle(context.Background(), "k", "cx", srv.URL+"/", nil)
	require.NoError(t, err)
	results, err := g.Search(context.Background(), "zzzz")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestGoogleRequiresCredentials(t *testing.T) {
	_, err := NewGoogle(context.Background(), "", "cx", "", nil)
	assert.Error(t, err)
	_, err = NewGoogle(context.Background(), "key", "", "", nil)
	assert.Error(t, err)
}

func newESServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
}

func TestElasticsearchSearch(t *testing.T) {
	srv := newESServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/kb/_search", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 1, body["size"])
		io.WriteString(w, `{"hits":{"total":{"value":1},"hits":[{"_source":{"title":"France","url":"https://kb/france","content":"Population: 68000000"}}]}}`)
	})
	defer srv.Close()

	es, err := NewElasticsearch(ElasticsearchConfig{Addresses: []string{srv.URL}, Index: "kb", VerifyCerts: true})
	require.NoError(t, err)

	results, err := es.Search(context.Background(), "france population")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "France (https://kb/france): Population: 68000000", results[0].Summary())
}

func TestElasticsearchError(t *testing.T) {
	srv := newESServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":{"type":"index_not_found_exception"},"status":404}`)
	})
	defer srv.Close()

	es, err := NewElasticsearch(ElasticsearchConfig{Addresses: []string{srv.URL}, Index: "missing", VerifyCerts: true})
	require.NoError(t, err)

	_, err = es.Search(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index_not_found_exception")
}

func TestElasticsearchRequiresIndex(t *testing.T) {
	_, err := NewElasticsearch(ElasticsearchConfig{Addresses: []string{"http://localhost:9200"}})
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "T (u)", Result{Title: "T", URL: "u"}.Summary())
	assert.Equal(t, "T: s", Result{Title: "T", Snippet: "s"}.Summary())
	assert.Equal(t, "u", Result{URL: "u"}.Summary())
}

func TestNewFallsBackToDuckDuckGo(t *testing.T) {
	cfg := &config.Config{SearchProvider: "bing", SearchTimeout: 5}
	s, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, ProviderDuckDuckGo, s.Name())
}
