package generate

import (
	"context"
	"net/http"
	"strings"

	anthropic "github.com/liushuangls/go-anthropic/v2"
)

const defaultAnthropicModel = "claude-3-5-haiku-latest"

// anthropicGen adapts the Anthropic Messages API.
type anthropicGen struct {
	client *anthropic.Client
	params Params
}

func newAnthropic(cfg Config, params Params) *anthropicGen {
	var opts []anthropic.ClientOption
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, anthropic.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}
	if params.Model == "" {
		params.Model = defaultAnthropicModel
	}
	return &anthropicGen{client: anthropic.NewClient(cfg.APIKey, opts...), params: params}
}

func (g *anthropicGen) Generate(ctx context.Context, p Prompt) (string, error) {
	temp := g.params.Temperature
	topP := g.params.TopP
	resp, err := g.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(g.params.Model),
		System:      p.System,
		Messages:    []anthropic.Message{anthropic.NewUserTextMessage(p.User)},
		MaxTokens:   g.params.MaxTokens,
		Temperature: &temp,
		TopP:        &topP,
	})
	if err != nil {
		return "", &Error{Provider: "anthropic", Err: err}
	}
	return strings.TrimSpace(resp.GetFirstContentText()), nil
}
