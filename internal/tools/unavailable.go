package tools

import (
	"context"
	"fmt"
)

// UnavailableName is the Name of every provider built by Unavailable.
const UnavailableName = "unavailable"

type unavailable struct {
	kind    Kind
	backend string
	reason  string
}

// Unavailable returns a provider that always fails with the category of kind.
// It stands in for a backend that could not be configured.
func Unavailable(kind Kind, reason string) Provider {
	return &unavailable{kind: kind, reason: reason}
}

// UnavailableFor is Unavailable for a known backend, so failure text names it
// the same way the working backend would.
func UnavailableFor(kind Kind, backend, reason string) Provider {
	return &unavailable{kind: kind, backend: backend, reason: reason}
}

func (u *unavailable) Kind() Kind   { return u.kind }
func (u *unavailable) Name() string { return UnavailableName }

func (u *unavailable) Description() string {
	return fmt.Sprintf("%s is not configured: %s", u.kind, u.reason)
}

func (u *unavailable) Process(context.Context, string) Result {
	return Failure(u.kind, FailureCategory(u.kind), FailureText(u.kind, u.backend, u.reason))
}
