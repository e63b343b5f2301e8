package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// Google queries a Programmable Search Engine through the Custom Search JSON
// API. Only the top hit is requested.
type Google struct {
	svc *customsearch.Service
	cx  string
}

// NewGoogle creates a Google searcher. endpoint overrides the API base URL
// and may be empty; client may be nil.
func NewGoogle(ctx context.Context, apiKey, cx, endpoint string, client *http.Client) (*Google, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("google: API key is missing")
	}
	if strings.TrimSpace(cx) == "" {
		return nil, errors.New("google: search engine ID (cx) is missing")
	}

	// option.WithHTTPClient takes precedence over option.WithAPIKey, so the key
	// is attached by the transport instead.
	transport := &apiKeyTransport{key: apiKey}
	hc := &http.Client{Transport: transport}
	if client != nil {
		hc.Timeout = client.Timeout
		transport.base = client.Transport
	}
	opts := []option.ClientOption{option.WithHTTPClient(hc)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("customsearch.NewService: %w", err)
	}
	return &Google{svc: svc, cx: cx}, nil
}

func (g *Google) Name() string { return ProviderGoogle }

// Search returns at most one result.
func (g *Google) Search(ctx context.Context, query string) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errEmptyQuery(g.Name())
	}
	res, err := g.svc.Cse.List().Cx(g.cx).Q(query).Num(1).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("google search: %w", err)
	}
	results := make([]Result, 0, len(res.Items))
	for _, item := range res.Items {
		results = append(results, Result{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: strings.TrimSpace(item.Snippet),
		})
	}
	return results, nil
}

type apiKeyTransport struct {
	key  string
	base http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	r := req.Clone(req.Context())
	q := r.URL.Query()
	q.Set("key", t.key)
	r.URL.RawQuery = q.Encode()
	return base.RoundTrip(r)
}
