package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"
)

// DefaultDuckDuckGoEndpoint is the HTML lite interface, which is stable
// enough to scrape and needs no API key.
const DefaultDuckDuckGoEndpoint = "https://lite.duckduckgo.com/lite/"

const maxBackoff = 30 * time.Second

// ddgGate enforces 1 query per second across every DuckDuckGo instance in
// the process.
var ddgGate struct {
	mu   sync.Mutex
	last time.Time
}

var (
	ddgLinkPattern    = regexp.MustCompile(`<a[^>]*class=['"]result-link['"][^>]*href=['"]([^'"]+)['"][^>]*>([^<]+)</a>`)
	ddgLinkPattern2   = regexp.MustCompile(`<a[^>]*href=['"]([^'"]+)['"][^>]*class=['"]result-link['"][^>]*>([^<]+)</a>`)
	ddgSnippetPattern = regexp.MustCompile(`<td[^>]*class=['"]result-snippet['"][^>]*>([^<]+(?:<[^>]+>[^<]*</[^>]+>)*[^<]*)</td>`)
	htmlTagPattern    = regexp.MustCompile(`<[^>]+>`)
)

// DuckDuckGo scrapes DuckDuckGo's HTML lite page.
type DuckDuckGo struct {
	endpoint string
	client   *http.Client
	// minInterval is the gap enforced between queries; zero disables the gate.
	minInterval time.Duration
}

// NewDuckDuckGo creates a DuckDuckGo searcher with a modest timeout.
func NewDuckDuckGo() *DuckDuckGo {
	return NewDuckDuckGoWithClient("", &http.Client{Timeout: 15 * time.Second})
}

// NewDuckDuckGoWithClient uses the supplied endpoint and HTTP client. An empty
// endpoint means DefaultDuckDuckGoEndpoint.
func NewDuckDuckGoWithClient(endpoint string, client *http.Client) *DuckDuckGo {
	if endpoint == "" {
		endpoint = DefaultDuckDuckGoEndpoint
	}
	return &DuckDuckGo{endpoint: endpoint, client: client, minInterval: time.Second}
}

func (d *DuckDuckGo) Name() string { return ProviderDuckDuckGo }

// Search posts the query to the lite page and scrapes up to five results.
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errEmptyQuery(d.Name())
	}
	if err := d.wait(ctx); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("q", query)

	var resp *http.Response
	delay := time.Second
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err = d.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("duckduckgo request: %w", err)
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		resp.Body.Close()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		if delay < maxBackoff {
			delay *= 2
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read duckduckgo response: %w", err)
	}
	return parseLiteResults(string(body)), nil
}

func (d *DuckDuckGo) wait(ctx context.Context) error {
	if d.minInterval <= 0 {
		return nil
	}
	ddgGate.mu.Lock()
	if wait := time.Until(ddgGate.last.Add(d.minInterval)); wait > 0 {
		ddgGate.mu.Unlock()
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
		ddgGate.mu.Lock()
	}
	ddgGate.last = time.Now()
	ddgGate.mu.Unlock()
	return nil
}

func parseLiteResults(html string) []Result {
	matches := ddgLinkPattern.FindAllStringSubmatch(html, -1)
	if len(matches) == 0 {
		matches = ddgLinkPattern2.FindAllStringSubmatch(html, -1)
	}
	snippets := ddgSnippetPattern.FindAllStringSubmatch(html, -1)

	var results []Result
	for i, m := range matches {
		link := strings.TrimSpace(m[1])
		title := cleanHTML(m[2])
		if link == "" || title == "" {
			continue
		}
		snippet := ""
		if i < len(snippets) {
			snippet = cleanHTML(snippets[i][1])
		}
		results = append(results, Result{Title: title, URL: link, Snippet: snippet})
		if len(results) >= 5 {
			break
		}
	}
	return results
}

var htmlEntities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&#x27;", "'",
	"&nbsp;", " ",
)

func cleanHTML(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(htmlEntities.Replace(s))
}
