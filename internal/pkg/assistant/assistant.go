// Package assistant turns a price comparison report into shopping
// advice using an OpenAI-compatible chat completions API.
package assistant

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

// Environment variables the assistant is configured from. A .env file
// loaded at client startup can provide them.
const (
	EnvAPIKey  = "OPENAI_API_KEY"
	EnvBaseURL = "OPENAI_BASE_URL"
	EnvModel   = "OPENAI_MODEL"
)

const defaultModel = openai.GPT4oMini

const analysisPrompt = `You are a tech shopping assistant. Analyze this price comparison data and provide insights about the best deals, price differences, and shopping recommendations:

%s

Please provide a concise analysis focusing on:
1. Best value options
2. Price differences between stores
3. Shopping recommendations
4. Any notable deals or savings

Analysis:`

// Assistant generates analyses of price comparison reports.
type Assistant struct {
	client *openai.Client
	apiKey string
	base   string
	model  string
}

// Cfg configures an Assistant.
type Cfg func(*Assistant) error

// WithAPIKey sets the API key.
func WithAPIKey(key string) Cfg {
	return func(a *Assistant) error {
		a.apiKey = key
		return nil
	}
}

// WithBaseURL points the assistant at an alternative OpenAI-compatible
// endpoint, such as a local inference server.
func WithBaseURL(u string) Cfg {
	return func(a *Assistant) error {
		a.base = strings.TrimRight(u, "/")
		return nil
	}
}

// WithModel sets the model name.
func WithModel(model string) Cfg {
	return func(a *Assistant) error {
		a.model = model
		return nil
	}
}

// WithClient sets a pre-built API client. Used by tests.
func WithClient(c *openai.Client) Cfg {
	return func(a *Assistant) error {
		a.client = c
		return nil
	}
}

// NewAssistant creates a new Assistant with the given configuration.
func NewAssistant(cfgs ...Cfg) (*Assistant, error) {
	a := &Assistant{model: defaultModel}
	for _, cfg := range cfgs {
		if err := cfg(a); err != nil {
			return nil, errors.Wrap(err, "apply Assistant cfg failed")
		}
	}
	if a.client == nil {
		if a.apiKey == "" {
			return nil, ErrNotConfigured
		}
		cfg := openai.DefaultConfig(a.apiKey)
		if a.base != "" {
			cfg.BaseURL = a.base
		}
		a.client = openai.NewClientWithConfig(cfg)
	}
	return a, nil
}

// FromEnv builds an Assistant from the environment. ErrNotConfigured
// is returned when no API key is set; callers treat that as "analysis
// disabled", not as a failure.
func FromEnv() (*Assistant, error) {
	cfgs := []Cfg{WithAPIKey(os.Getenv(EnvAPIKey))}
	if base := os.Getenv(EnvBaseURL); base != "" {
		cfgs = append(cfgs, WithBaseURL(base))
	}
	if model := os.Getenv(EnvModel); model != "" {
		cfgs = append(cfgs, WithModel(model))
	}
	return NewAssistant(cfgs...)
}

// Analyze asks the model for an analysis of the price report.
func (a *Assistant) Analyze(ctx context.Context, priceData string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: 0.7,
		MaxTokens:   500,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(analysisPrompt, priceData),
			},
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "create chat completion failed")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
