// Package search provides the web lookup backends behind the WebLookup
// provider. Each backend returns results best-first; callers only ever look
// at the first one.
package search

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cortexai/igs/internal/config"
)

// Result is a single search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Summary renders the hit on one line.
func (r Result) Summary() string {
	var sb strings.Builder
	switch {
	case r.Title != "" && r.URL != "":
		sb.WriteString(r.Title + " (" + r.URL + ")")
	case r.Title != "":
		sb.WriteString(r.Title)
	default:
		sb.WriteString(r.URL)
	}
	if r.Snippet != "" {
		sb.WriteString(": " + r.Snippet)
	}
	return sb.String()
}

// Searcher executes a query and returns results, best first.
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string) ([]Result, error)
}

// Pinger is implemented by backends that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// New builds the searcher selected by cfg.SearchProvider. Unknown names fall
// back to DuckDuckGo.
func New(ctx context.Context, cfg *config.Config) (Searcher, error) {
	client := &http.Client{Timeout: time.Duration(cfg.SearchTimeout) * time.Second}

	switch strings.ToLower(cfg.SearchProvider) {
	case ProviderDuckDuckGo, "":
		return NewDuckDuckGoWithClient(cfg.DuckDuckGoEndpoint, client), nil
	case ProviderGoogle:
		return NewGoogle(ctx, cfg.GoogleAPIKey, cfg.GoogleCSEID, cfg.GoogleEndpoint, client)
	case ProviderElasticsearch:
		return NewElasticsearch(ElasticsearchConfig{
			Scheme:       cfg.ElasticsearchScheme,
			Host:         cfg.ElasticsearchHost,
			Port:         cfg.ElasticsearchPort,
			User:         cfg.ElasticsearchUser,
			Password:     cfg.ElasticsearchPassword,
			VerifyCerts:  cfg.ElasticsearchVerifyCerts,
			MaxRetries:   cfg.ElasticsearchMaxRetries,
			Index:        cfg.ElasticsearchIndex,
			TitleField:   cfg.ElasticsearchTitleField,
			URLField:     cfg.ElasticsearchURLField,
			ContentField: cfg.ElasticsearchContentField,
		})
	default:
		log.Warn().Str("provider", cfg.SearchProvider).Msg("unknown search provider, using duckduckgo")
		return NewDuckDuckGoWithClient(cfg.DuckDuckGoEndpoint, client), nil
	}
}

// Provider names accepted in configuration.
const (
	ProviderDuckDuckGo    = "duckduckgo"
	ProviderGoogle        = "google"
	ProviderElasticsearch = "elasticsearch"
)

func errEmptyQuery(backend string) error {
	return fmt.Errorf("%s: query is empty", backend)
}
