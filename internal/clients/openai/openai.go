// Package openai adapts the OpenAI chat completions API to the gateway's
// completion contract using github.com/sashabaranov/go-openai.
package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/tbourn/go-chat-gateway/internal/config"
	"github.com/tbourn/go-chat-gateway/internal/observability"
	"github.com/tbourn/go-chat-gateway/internal/services"
)

// Client issues chat completion requests.
type Client struct {
	api *goopenai.Client
}

// New builds a client from cfg. An empty BaseURL keeps the public endpoint.
func New(cfg config.CompletionConfig) *Client {
	cc := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		cc.BaseURL = cfg.BaseURL
	}
	cc.HTTPClient = observability.HTTPClient(observability.UpstreamCompletion)
	return &Client{api: goopenai.NewClientWithConfig(cc)}
}

// CreateCompletion sends req and returns each choice's content in order.
func (c *Client) CreateCompletion(ctx context.Context, req services.CompletionRequest) ([]string, error) {
	msgs := make([]goopenai.ChatCompletionMessage, 0, len(req.Turns))
	for _, t := range req.Turns {
		msgs = append(msgs, goopenai.ChatCompletionMessage{Role: t.Role, Content: t.Content})
	}

	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: msgs,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: chat completion: %w", err)
	}

	out := make([]string, 0, len(resp.Choices))
	for _, ch := range resp.Choices {
		out = append(out, ch.Message.Content)
	}
	return out, nil
}

// compile-time interface check
var _ services.CompletionClient = (*Client)(nil)
