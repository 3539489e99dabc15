// Package mock provides a scripted completer for tests and offline
// development.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/becomeliminal/agenter-go/core"
	"github.com/becomeliminal/agenter-go/llm"
)

// Responder produces a response for a request. Returning an error
// simulates a transport failure.
type Responder func(req *llm.Request) (string, error)

// Completer implements llm.Completer with a queue of canned responses
// or a Responder function.
type Completer struct {
	mu        sync.Mutex
	queue     []string
	responder Responder

	// Requests records every request received, in order.
	Requests []*llm.Request
}

// New creates a completer that replays the given responses in order.
// When the queue runs out it echoes the last user message.
func New(responses ...string) *Completer {
	return &Completer{queue: responses}
}

// NewFunc creates a completer driven by a responder function.
func NewFunc(responder Responder) *Completer {
	return &Completer{responder: responder}
}

// Enqueue appends responses to the replay queue.
func (c *Completer) Enqueue(responses ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue = append(c.queue, responses...)
}

// Complete pops the next scripted response.
func (c *Completer) Complete(ctx context.Context, req *llm.Request) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Requests = append(c.Requests, req)

	if c.responder != nil {
		return c.responder(req)
	}
	if len(c.queue) > 0 {
		next := c.queue[0]
		c.queue = c.queue[1:]
		return next, nil
	}
	return fmt.Sprintf("Mock response to: %s", core.Truncate(lastUserContent(req), 50)), nil
}

// Stream completes, then delivers the response as a single delta.
func (c *Completer) Stream(ctx context.Context, req *llm.Request, onDelta func(string)) (string, error) {
	text, err := c.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	if onDelta != nil {
		onDelta(text)
	}
	return text, nil
}

func lastUserContent(req *llm.Request) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == core.RoleUser {
			return req.Messages[i].Content
		}
	}
	return ""
}
