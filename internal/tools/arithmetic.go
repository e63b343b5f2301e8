package tools

import (
	"context"

	"github.com/cortexai/igs/internal/arith"
)

// Arithmetic evaluates plain arithmetic expressions.
type Arithmetic struct{}

func NewArithmetic() *Arithmetic {
	return &Arithmetic{}
}

func (a *Arithmetic) Kind() Kind   { return KindArithmetic }
func (a *Arithmetic) Name() string { return "arith" }

func (a *Arithmetic) Description() string {
	return "Evaluate an arithmetic expression with + - * / ^ ** parentheses and pow(a, b)."
}

func (a *Arithmetic) Process(_ context.Context, text string) Result {
	v, err := arith.Eval(text)
	if err != nil {
		return Failure(KindArithmetic, CategoryMalformedArithmetic, FailureText(KindArithmetic, "", err.Error()))
	}
	return Success(KindArithmetic, arith.Format(v))
}
