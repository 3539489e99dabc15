// Package anthropic adapts the Anthropic Messages API to the
// llm.Completer boundary.
package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/becomeliminal/agenter-go/core"
	"github.com/becomeliminal/agenter-go/llm"
)

const defaultMaxTokens = 2000

// Completer implements llm.Completer over the Anthropic client.
type Completer struct {
	client *anthropic.Client
}

// New creates a completer. baseURL may be empty to use the default
// endpoint.
func New(apiKey, baseURL string) *Completer {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := anthropic.NewClient(opts...)
	return &Completer{client: &client}
}

// Complete returns the full response text for the request.
func (c *Completer) Complete(ctx context.Context, req *llm.Request) (string, error) {
	resp, err := c.client.Messages.New(ctx, buildParams(req))
	if err != nil {
		return "", fmt.Errorf("anthropic message: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return text, nil
}

// Stream invokes onDelta per text chunk and returns the accumulated
// response.
func (c *Completer) Stream(ctx context.Context, req *llm.Request, onDelta func(string)) (string, error) {
	stream := c.client.Messages.NewStreaming(ctx, buildParams(req))
	defer stream.Close()

	var text string
	for stream.Next() {
		event := stream.Current()
		switch evt := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			switch delta := evt.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				text += delta.Text
				if onDelta != nil {
					onDelta(delta.Text)
				}
			}
		}
	}
	if err := stream.Err(); err != nil {
		return "", fmt.Errorf("anthropic stream: %w", err)
	}
	return text, nil
}

func buildParams(req *llm.Request) anthropic.MessageNewParams {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case core.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: maxTokens,
		Messages:  messages,
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	if req.TopP > 0 {
		params.TopP = anthropic.Float(req.TopP)
	}
	return params
}
