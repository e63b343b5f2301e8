package search

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
)

// ElasticsearchConfig configures the Elasticsearch lookup backend.
type ElasticsearchConfig struct {
	// Addresses overrides Scheme/Host/Port when set.
	Addresses    []string
	Scheme       string
	Host         string
	Port         int
	User         string
	Password     string
	VerifyCerts  bool
	MaxRetries   int
	Index        string
	TitleField   string
	URLField     string
	ContentField string
}

// Elasticsearch answers lookups from a self-hosted document index instead of
// the public web.
type Elasticsearch struct {
	client       *elasticsearch.Client
	index        string
	titleField   string
	urlField     string
	contentField string
}

// NewElasticsearch creates the backend using go-elasticsearch/v8.
func NewElasticsearch(cfg ElasticsearchConfig) (*Elasticsearch, error) {
	if cfg.Index == "" {
		return nil, fmt.Errorf("elasticsearch: index is required")
	}
	addrs := cfg.Addresses
	if len(addrs) == 0 {
		addrs = []string{fmt.Sprintf("%s://%s:%d", cfg.Scheme, cfg.Host, cfg.Port)}
	}

	esCfg := elasticsearch.Config{
		Addresses:  addrs,
		MaxRetries: cfg.MaxRetries,
	}
	if cfg.User != "" {
		esCfg.Username = cfg.User
		esCfg.Password = cfg.Password
	}
	if !cfg.VerifyCerts {
		esCfg.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, // #nosec G402 - user explicitly disabled cert verification
			},
		}
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch.NewClient: %w", err)
	}
	return &Elasticsearch{
		client:       client,
		index:        cfg.Index,
		titleField:   orDefault(cfg.TitleField, "title"),
		urlField:     orDefault(cfg.URLField, "url"),
		contentField: orDefault(cfg.ContentField, "content"),
	}, nil
}

func (e *Elasticsearch) Name() string { return ProviderElasticsearch }

// Ping checks that the cluster is reachable.
func (e *Elasticsearch) Ping(ctx context.Context) error {
	res, err := e.client.Ping(e.client.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("ping error: %s", res.Status())
	}
	return nil
}

// Search runs a multi_match over the title and content fields and returns
// the top hit.
func (e *Elasticsearch) Search(ctx context.Context, query string) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errEmptyQuery(e.Name())
	}

	body := map[string]interface{}{
		"size": 1,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{e.titleField + "^2", e.contentField},
			},
		},
		"_source": []string{e.titleField, e.urlField, e.contentField},
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(bytes.NewReader(bodyBytes)),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search: %w", err)
	}
	defer res.Body.Close()

	return e.parseHits(res.Body, res.Status(), res.IsError())
}

func (e *Elasticsearch) parseHits(r io.Reader, status string, isError bool) ([]Result, error) {
	var raw struct {
		Hits struct {
			Hits []struct {
				Source map[string]interface{} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
		Error interface{} `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if isError {
		if raw.Error != nil {
			return nil, fmt.Errorf("elasticsearch error [%s]: %v", status, raw.Error)
		}
		return nil, fmt.Errorf("elasticsearch error: %s", status)
	}

	results := make([]Result, 0, len(raw.Hits.Hits))
	for _, h := range raw.Hits.Hits {
		results = append(results, Result{
			Title:   stringField(h.Source, e.titleField),
			URL:     stringField(h.Source, e.urlField),
			Snippet: truncate(stringField(h.Source, e.contentField), 300),
		})
	}
	return results, nil
}

func stringField(src map[string]interface{}, key string) string {
	s, _ := src[key].(string)
	return strings.TrimSpace(s)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
