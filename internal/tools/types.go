// Package tools defines the Provider contract shared by the dispatcher and
// the three capability providers (arithmetic, web lookup, generative text).
package tools

import "context"

// Kind identifies which capability a provider offers. The router produces
// exactly one Kind per query.
type Kind string

const (
	KindArithmetic Kind = "arithmetic"
	KindWebLookup  Kind = "web_lookup"
	KindGenerative Kind = "generative"
)

// Kinds lists every capability in routing order.
var Kinds = []Kind{KindArithmetic, KindWebLookup, KindGenerative}

// Category tags a failed Result. The zero value means success.
type Category string

const (
	CategoryMalformedArithmetic      Category = "MalformedArithmeticExpression"
	CategoryLookupUnavailable        Category = "LookupUnavailable"
	CategoryNoResults                Category = "NoResultsFound"
	CategoryGenerativeUnavailable    Category = "GenerativeProviderUnavailable"
	CategoryDecompositionUnparseable Category = "DecompositionUnparseable"
)

// FailureCategory returns the category a provider of kind k reports when its
// backend cannot answer.
func FailureCategory(k Kind) Category {
	switch k {
	case KindArithmetic:
		return CategoryMalformedArithmetic
	case KindWebLookup:
		return CategoryLookupUnavailable
	default:
		return CategoryGenerativeUnavailable
	}
}

// FailureText renders detail with the prefix callers expect for kind k.
// Generative failures name the backend, as in "Error with OpenAI API: ...";
// backend is ignored for the other kinds and may be empty when unknown.
func FailureText(k Kind, backend, detail string) string {
	switch k {
	case KindArithmetic:
		return "Error in math computation: " + detail
	case KindWebLookup:
		return "Error in internet search: " + detail
	default:
		if backend == "" {
			backend = "generative"
		}
		return "Error with " + backend + " API: " + detail
	}
}

// BackendLabel is the backend name FailureText should use for p.
func BackendLabel(p Provider) string {
	for {
		u, ok := p.(interface{ Unwrap() Provider })
		if !ok {
			break
		}
		p = u.Unwrap()
	}
	switch v := p.(type) {
	case *Generative:
		return v.gen.Name()
	case *unavailable:
		return v.backend
	}
	return p.Name()
}

// Result is what every provider returns. Failures are carried as text so the
// caller always has something to show; Category says whether it is one.
type Result struct {
	Kind     Kind
	Text     string
	Category Category
}

// Failed reports whether the result describes a failure.
func (r Result) Failed() bool {
	return r.Category != ""
}

func (r Result) String() string {
	return r.Text
}

// Success builds a successful result.
func Success(k Kind, text string) Result {
	return Result{Kind: k, Text: text}
}

// Failure builds a failed result.
func Failure(k Kind, c Category, text string) Result {
	return Result{Kind: k, Text: text, Category: c}
}

// Provider answers a text payload. Process must never panic on bad input and
// must never return without a Result; backend errors become failure text.
type Provider interface {
	Kind() Kind
	// Name is the backend label, e.g. "duckduckgo" or "openai".
	Name() string
	Description() string
	Process(ctx context.Context, text string) Result
}
