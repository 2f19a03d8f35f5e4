// Package generate wraps one round trip to a language-model endpoint behind
// a provider-neutral Generator interface. Adapters never retry internally;
// retry policy belongs to the orchestrator.
package generate

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Error describes a failed round trip to the model endpoint: transport
// failure, non-success status or timeout.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s generation: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Prompt is a rendered system/user message pair ready to send.
type Prompt struct {
	System string
	User   string
}

// Generator performs one synchronous request to a language-model endpoint
// and returns the trimmed text response.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

// Config selects and configures a provider adapter.
type Config struct {
	Provider string // "openai" (default, any OpenAI-compatible API) or "anthropic"
	APIKey   string
	BaseURL  string
	Model    string // overrides the theme's model when set
	Timeout  time.Duration
}

// Params are the sampling parameters accompanying every request.
type Params struct {
	Model       string
	Temperature float32
	TopP        float32
	MaxTokens   int
}

// New builds the Generator for the configured provider.
func New(cfg Config, params Params) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no LLM API key configured")
	}
	if cfg.Model != "" {
		params.Model = cfg.Model
	}
	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		return newOpenAI(cfg, params), nil
	case "anthropic":
		return newAnthropic(cfg, params), nil
	}
	return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
}
