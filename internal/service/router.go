package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cortexai/igs/internal/tools"
)

// Rule names reported in RoutingResult.Rule.
const (
	RuleArithmetic = "arithmetic_expression"
	RuleQuestion   = "question_keyword"
	RuleEntity     = "named_entity"
	RuleFact       = "fact_keyword"
	RuleFallback   = "fallback"
)

var (
	// Two numeric literals joined by an operator or operator keyword.
	arithmeticPattern = regexp.MustCompile(`(?i)\d+\s*(\*|\+|-|/|\^|pow|raise)\s*\d+`)
	// pow(a, b) written as a call.
	powCallPattern = regexp.MustCompile(`(?i)\bpow\s*\(\s*\d+(\.\d+)?\s*,\s*-?\d+(\.\d+)?\s*\)`)
)

// Matched as substrings, so "show" carries "how" and "page" carries "age".
var questionKeywords = []string{
	"who", "what", "when", "where", "why", "how", "age",
}

// RoutingResult contains the classification and why it was chosen
type RoutingResult struct {
	Kind      tools.Kind
	Rule      string
	Trigger   string
	Reasoning string
}

type rule struct {
	name  string
	kind  tools.Kind
	match func(query string) (trigger string, ok bool)
}

// IntentRouter classifies queries with an ordered rule table. The first rule
// that matches wins; generative is the fallback. The table is read-only after
// construction, so one router may be shared between goroutines.
type IntentRouter struct {
	rules []rule
}

// Fact nouns that make a query a lookup on their own, e.g. "France population".
var defaultFactTriggers = []string{"population", "capital"}

// NewIntentRouter builds a router. entities are names that mark a query as a
// fact lookup even without a question word; none means the default list.
func NewIntentRouter(entities ...string) *IntentRouter {
	return NewIntentRouterWithFacts(entities, nil)
}

// NewIntentRouterWithFacts is NewIntentRouter with an explicit list of fact
// triggers. Both lists match whole words, case-insensitively; an empty list
// means the default one.
func NewIntentRouterWithFacts(entities, facts []string) *IntentRouter {
	if len(entities) == 0 {
		entities = []string{"Tom Cruise"}
	}
	if len(facts) == 0 {
		facts = defaultFactTriggers
	}
	entityPatterns := wordPatterns(entities)
	factPatterns := wordPatterns(facts)

	return &IntentRouter{rules: []rule{
		{name: RuleArithmetic, kind: tools.KindArithmetic, match: matchArithmetic},
		{name: RuleQuestion, kind: tools.KindWebLookup, match: matchQuestion},
		{name: RuleEntity, kind: tools.KindWebLookup, match: firstMatch(entityPatterns)},
		{name: RuleFact, kind: tools.KindWebLookup, match: firstMatch(factPatterns)},
	}}
}

func wordPatterns(words []string) []*regexp.Regexp {
	var out []*regexp.Regexp
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		out = append(out, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return out
}

func firstMatch(patterns []*regexp.Regexp) func(string) (string, bool) {
	return func(q string) (string, bool) {
		for _, p := range patterns {
			if m := p.FindString(q); m != "" {
				return m, true
			}
		}
		return "", false
	}
}

// Route analyses the query and returns the matching rule
func (r *IntentRouter) Route(query string) RoutingResult {
	for _, rl := range r.rules {
		if trigger, ok := rl.match(query); ok {
			return RoutingResult{
				Kind:      rl.kind,
				Rule:      rl.name,
				Trigger:   trigger,
				Reasoning: reasoning(rl.name, trigger),
			}
		}
	}
	return RoutingResult{
		Kind:      tools.KindGenerative,
		Rule:      RuleFallback,
		Reasoning: "no arithmetic or fact-seeking signal, using generative text",
	}
}

// Classify returns only the kind Route would pick.
func (r *IntentRouter) Classify(query string) tools.Kind {
	return r.Route(query).Kind
}

func matchArithmetic(q string) (string, bool) {
	if m := arithmeticPattern.FindString(q); m != "" {
		return m, true
	}
	if m := powCallPattern.FindString(q); m != "" {
		return m, true
	}
	return "", false
}

func matchQuestion(q string) (string, bool) {
	lower := strings.ToLower(q)
	for _, kw := range questionKeywords {
		if strings.Contains(lower, kw) {
			return kw, true
		}
	}
	return "", false
}

func reasoning(ruleName, trigger string) string {
	switch ruleName {
	case RuleArithmetic:
		return fmt.Sprintf("query contains the arithmetic expression %q", trigger)
	case RuleQuestion:
		return fmt.Sprintf("query contains the fact-seeking keyword %q", trigger)
	case RuleEntity:
		return fmt.Sprintf("query mentions the known entity %q", trigger)
	case RuleFact:
		return fmt.Sprintf("query asks for the fact %q", trigger)
	}
	return ""
}
