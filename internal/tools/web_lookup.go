package tools

import (
	"context"
	"fmt"

	"github.com/cortexai/igs/internal/search"
)

// NoResultsText is returned verbatim when a lookup finds nothing.
const NoResultsText = "No results found."

// WebLookup answers factual questions with the top hit of a search backend.
type WebLookup struct {
	searcher search.Searcher
}

func NewWebLookup(s search.Searcher) *WebLookup {
	return &WebLookup{searcher: s}
}

func (w *WebLookup) Kind() Kind   { return KindWebLookup }
func (w *WebLookup) Name() string { return w.searcher.Name() }

func (w *WebLookup) Description() string {
	return fmt.Sprintf("Look up a fact on the web (%s) and return the top result.", w.searcher.Name())
}

// Searcher exposes the backend, e.g. for health checks.
func (w *WebLookup) Searcher() search.Searcher { return w.searcher }

func (w *WebLookup) Process(ctx context.Context, text string) Result {
	results, err := w.searcher.Search(ctx, text)
	if err != nil {
		return Failure(KindWebLookup, CategoryLookupUnavailable, FailureText(KindWebLookup, "", err.Error()))
	}
	if len(results) == 0 {
		return Failure(KindWebLookup, CategoryNoResults, NoResultsText)
	}
	return Success(KindWebLookup, "Top result: "+results[0].Summary())
}
