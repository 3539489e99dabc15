// Package llm defines the text-completion boundary used by every
// cognition tool and the responder. The transport is opaque to the
// recall core: complete text, or stream text.
package llm

import (
	"context"

	"github.com/becomeliminal/agenter-go/core"
)

// Request is one completion request.
type Request struct {
	// Model is the model identifier, opaque to this package.
	Model string

	// System is the system instruction.
	System string

	// Messages is the conversation, oldest first.
	Messages []core.Message

	// Sampling parameters. Zero values use provider defaults.
	Temperature float64
	TopP        float64
	MaxTokens   int64
}

// Completer is the text-completion capability. Implementations:
// anthropic.Completer (production), mock.Completer (tests, offline).
type Completer interface {
	// Complete returns the full response text.
	Complete(ctx context.Context, req *Request) (string, error)

	// Stream invokes onDelta for each text chunk as it arrives and
	// returns the full accumulated response.
	Stream(ctx context.Context, req *Request, onDelta func(delta string)) (string, error)
}
