package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/cortexai/igs/internal/config"
	"github.com/cortexai/igs/internal/llm"
	"github.com/cortexai/igs/internal/search"
	"github.com/cortexai/igs/internal/tools"
)

// NewDispatcherFromConfig builds the router and the three providers from cfg.
// A backend that cannot be built is replaced by tools.Unavailable so the
// dispatcher still answers, with a failure, for that kind. Each wrap is
// applied to every provider, e.g. metrics instrumentation.
func NewDispatcherFromConfig(ctx context.Context, cfg *config.Config, wrap ...func(tools.Provider) tools.Provider) *Dispatcher {
	router := NewIntentRouterWithFacts(cfg.Entities, cfg.FactTriggers)

	var lookup tools.Provider
	searcher, err := search.New(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Str("provider", cfg.SearchProvider).Msg("web lookup unavailable")
		lookup = tools.Unavailable(tools.KindWebLookup, err.Error())
	} else {
		lookup = tools.NewWebLookup(searcher)
	}

	var generative tools.Provider
	gen, err := llm.New(cfg)
	if err != nil {
		log.Warn().Err(err).Str("provider", cfg.GenerativeProvider).Msg("generative text unavailable")
		generative = tools.UnavailableFor(tools.KindGenerative, llm.DisplayName(cfg.GenerativeProvider), err.Error())
	} else {
		generative = tools.NewGenerative(gen, cfg.GenerativeMaxChars)
	}

	log.Info().
		Str("web_lookup", lookup.Name()).
		Str("generative", generative.Name()).
		Int("entities", len(cfg.Entities)).
		Int("fact_triggers", len(cfg.FactTriggers)).
		Msg("dispatcher ready")

	providers := []tools.Provider{tools.NewArithmetic(), lookup, generative}
	for _, w := range wrap {
		for i, p := range providers {
			providers[i] = w(p)
		}
	}
	return NewDispatcher(router, providers...)
}
