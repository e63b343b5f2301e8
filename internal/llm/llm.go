// Package llm holds the generative-text backends. Each backend is a thin
// single-turn client: one user message in, one completion out.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cortexai/igs/internal/config"
)

// Backend names accepted in configuration.
const (
	BackendOpenAI    = "openai"
	BackendAnthropic = "anthropic"
)

// Generator produces free text for a prompt.
type Generator interface {
	// Name is the human-readable backend label used in failure text, e.g. "OpenAI".
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Options are shared by every backend.
type Options struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
}

// New builds the generator selected by cfg.GenerativeProvider. It fails when
// the backend is unknown or its API key is missing.
func New(cfg *config.Config) (Generator, error) {
	opts := Options{
		Model:     cfg.GenerativeModel,
		BaseURL:   cfg.GenerativeBaseURL,
		MaxTokens: cfg.GenerativeMaxTokens,
	}
	switch strings.ToLower(cfg.GenerativeProvider) {
	case BackendOpenAI, "":
		opts.APIKey = cfg.OpenAIAPIKey
		if opts.APIKey == "" {
			return nil, fmt.Errorf("openai: API key is not set")
		}
		return NewOpenAI(opts), nil
	case BackendAnthropic:
		opts.APIKey = cfg.AnthropicAPIKey
		if opts.APIKey == "" {
			return nil, fmt.Errorf("anthropic: API key is not set")
		}
		return NewAnthropic(opts), nil
	default:
		return nil, fmt.Errorf("unknown generative provider %q", cfg.GenerativeProvider)
	}
}

// DisplayName maps a configured backend name to the label its failures use.
func DisplayName(backend string) string {
	switch strings.ToLower(backend) {
	case BackendOpenAI, "":
		return "OpenAI"
	case BackendAnthropic:
		return "Anthropic"
	default:
		return backend
	}
}

func maxTokensOrDefault(n int) int {
	if n <= 0 {
		return config.DefaultGenerativeMaxTokens
	}
	return n
}
