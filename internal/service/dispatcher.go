package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cortexai/igs/internal/tools"
)

// RuleCompound is reported when the query was decomposed.
const RuleCompound = "compound_multiplication"

// Outcome is the trace of one dispatch.
type Outcome struct {
	Query        string
	Route        RoutingResult
	Compound     *CompoundMatch
	SubjectRoute *RoutingResult
	Intermediate *tools.Result
	Result       tools.Result
	Duration     time.Duration
}

// Dispatcher is the single entry point for answering a query. It holds no
// mutable state and may be shared between goroutines.
type Dispatcher struct {
	router    *IntentRouter
	providers map[tools.Kind]tools.Provider
}

// NewDispatcher registers providers by kind. A later provider replaces an
// earlier one of the same kind; kinds left empty answer with a failure.
func NewDispatcher(router *IntentRouter, providers ...tools.Provider) *Dispatcher {
	d := &Dispatcher{
		router:    router,
		providers: make(map[tools.Kind]tools.Provider, len(providers)),
	}
	for _, p := range providers {
		if p != nil {
			d.providers[p.Kind()] = p
		}
	}
	return d
}

// Router returns the classifier used by the dispatcher.
func (d *Dispatcher) Router() *IntentRouter { return d.router }

// Provider returns the provider registered for kind, or nil.
func (d *Dispatcher) Provider(kind tools.Kind) tools.Provider {
	return d.providers[kind]
}

// Providers lists the registered providers in routing order.
func (d *Dispatcher) Providers() []tools.Provider {
	out := make([]tools.Provider, 0, len(d.providers))
	for _, k := range tools.Kinds {
		if p, ok := d.providers[k]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Process answers query. It always returns a Result.
func (d *Dispatcher) Process(ctx context.Context, query string) tools.Result {
	return d.Dispatch(ctx, query).Result
}

// Dispatch answers query and records how the answer was reached.
func (d *Dispatcher) Dispatch(ctx context.Context, query string) Outcome {
	start := time.Now()
	out := d.plan(query)

	switch {
	case out.Result.Failed():
		// decomposition error, nothing to invoke
	case out.Compound != nil:
		inter := d.invoke(ctx, out.SubjectRoute.Kind, out.Compound.Subject)
		out.Intermediate = &inter
		out.Result = d.invoke(ctx, tools.KindArithmetic, out.Compound.Expression(inter.Text))
	default:
		out.Result = d.invoke(ctx, out.Route.Kind, query)
	}

	out.Duration = time.Since(start)
	log.Debug().
		Str("kind", string(out.Route.Kind)).
		Str("rule", out.Route.Rule).
		Bool("compound", out.Compound != nil).
		Bool("failed", out.Result.Failed()).
		Dur("duration", out.Duration).
		Msg("query dispatched")
	return out
}

// Explain reports routing and decomposition for query without calling any
// provider.
func (d *Dispatcher) Explain(query string) Outcome {
	return d.plan(query)
}

func (d *Dispatcher) plan(query string) Outcome {
	out := Outcome{Query: query}

	cm, err := Decompose(query)
	switch {
	case err != nil:
		out.Route = RoutingResult{
			Kind:      tools.KindArithmetic,
			Rule:      RuleCompound,
			Reasoning: "compound query could not be parsed",
		}
		out.Result = tools.Failure(tools.KindArithmetic, tools.CategoryDecompositionUnparseable,
			"Error in processing complex query: "+err.Error())
	case cm != nil:
		sub := d.router.Route(cm.Subject)
		out.Compound = cm
		out.SubjectRoute = &sub
		out.Route = RoutingResult{
			Kind:      tools.KindArithmetic,
			Rule:      RuleCompound,
			Trigger:   cm.Operator,
			Reasoning: fmt.Sprintf("resolve %q with %s, then multiply by %d", cm.Subject, sub.Kind, cm.Multiplier),
		}
	default:
		out.Route = d.router.Route(query)
	}
	return out
}

// invoke runs one provider call. A missing provider or a panic becomes a
// failure Result of the kind's category.
func (d *Dispatcher) invoke(ctx context.Context, kind tools.Kind, text string) (res tools.Result) {
	p, ok := d.providers[kind]
	if !ok {
		p = tools.Unavailable(kind, "no provider registered")
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Error().
				Str("kind", string(kind)).
				Str("provider", p.Name()).
				Interface("panic", rec).
				Msg("provider panicked")
			res = tools.Failure(kind, tools.FailureCategory(kind),
				tools.FailureText(kind, tools.BackendLabel(p), fmt.Sprintf("%s provider failed: %v", p.Name(), rec)))
		}
	}()
	return p.Process(ctx, text)
}
