package generate

import (
	"context"
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// openAI adapts any OpenAI-compatible chat-completion endpoint.
type openAI struct {
	client *openai.Client
	params Params
}

func newOpenAI(cfg Config, params Params) *openAI {
	c := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		c.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if params.Model == "" {
		params.Model = openai.GPT4oMini
	}
	return &openAI{client: openai.NewClientWithConfig(c), params: params}
}

func (g *openAI) Generate(ctx context.Context, p Prompt) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.params.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.System},
			{Role: openai.ChatMessageRoleUser, Content: p.User},
		},
		Temperature: g.params.Temperature,
		TopP:        g.params.TopP,
		MaxTokens:   g.params.MaxTokens,
	})
	if err != nil {
		return "", &Error{Provider: "openai", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Provider: "openai", Err: errors.New("empty choice list")}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
