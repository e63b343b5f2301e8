package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cortexai/igs/internal/llm"
)

var errBlankPrompt = errors.New("prompt is empty")

// Generative answers open-ended prompts through a language model.
type Generative struct {
	gen      llm.Generator
	maxChars int
}

// NewGenerative wraps gen. Responses longer than maxChars runes are cut;
// maxChars <= 0 disables the cut.
func NewGenerative(gen llm.Generator, maxChars int) *Generative {
	return &Generative{gen: gen, maxChars: maxChars}
}

func (g *Generative) Kind() Kind   { return KindGenerative }
func (g *Generative) Name() string { return strings.ToLower(g.gen.Name()) }

func (g *Generative) Description() string {
	return fmt.Sprintf("Generate a free-text answer with %s.", g.gen.Name())
}

func (g *Generative) Process(ctx context.Context, text string) Result {
	if strings.TrimSpace(text) == "" {
		return g.fail(errBlankPrompt)
	}
	out, err := g.gen.Generate(ctx, text)
	if err != nil {
		return g.fail(err)
	}
	return Success(KindGenerative, truncateRunes(strings.TrimSpace(out), g.maxChars))
}

func (g *Generative) fail(err error) Result {
	return Failure(KindGenerative, CategoryGenerativeUnavailable,
		FailureText(KindGenerative, g.gen.Name(), err.Error()))
}

func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
