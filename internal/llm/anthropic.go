package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const DefaultAnthropicModel = "claude-sonnet-4-6"

// Anthropic generates text with the Messages API, or any compatible proxy
// reachable through BaseURL.
type Anthropic struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

func NewAnthropic(opts Options) *Anthropic {
	model := opts.Model
	if model == "" {
		model = DefaultAnthropicModel
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	return &Anthropic{
		client:    anthropic.NewClient(reqOpts...),
		model:     model,
		maxTokens: maxTokensOrDefault(opts.MaxTokens),
	}
}

func (a *Anthropic) Name() string { return "Anthropic" }

func (a *Anthropic) Model() string { return a.model }

func (a *Anthropic) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.F(anthropic.Model(a.model)),
		MaxTokens: anthropic.F(int64(a.maxTokens)),
		Messages: anthropic.F([]anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		}),
	})
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if b, ok := block.AsUnion().(anthropic.TextBlock); ok {
			text.WriteString(b.Text)
		}
	}
	if text.Len() == 0 {
		return "", errors.New("anthropic returned no text")
	}
	return strings.TrimSpace(text.String()), nil
}
