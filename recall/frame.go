package recall

import (
	"github.com/becomeliminal/agenter-go/cognition"
	"github.com/becomeliminal/agenter-go/core"
)

// FrameKind tags one progress frame in a recall stream.
type FrameKind string

const (
	FrameStart         FrameKind = "start"
	FrameActivate      FrameKind = "activate"
	FrameHold          FrameKind = "hold"
	FrameFeel          FrameKind = "feel"
	FrameCompare       FrameKind = "compare"
	FrameStateUpdate   FrameKind = "state_update"
	FrameMetacognition FrameKind = "metacognition"
	FrameComplete      FrameKind = "complete"
	FrameInterrupt     FrameKind = "interrupt"
)

// Frame is one ordered event in a recall stream. Only the fields for
// the frame's kind are set. Consumers must treat complete and
// interrupt as terminal; the stream channel closes after either.
type Frame struct {
	Kind FrameKind `json:"kind"`

	// start, and echoed nowhere else.
	Trigger string `json:"trigger,omitempty"`

	// activate
	Round    int                       `json:"round,omitempty"`
	Activate *cognition.ActivateResult `json:"activate,omitempty"`

	// hold. Slots carries the raw 4-slot array for display.
	Hold  *cognition.WorkingMemoryResult `json:"hold,omitempty"`
	Slots *[4]string                     `json:"slots,omitempty"`

	// feel
	Feel *cognition.EmotionResult `json:"feel,omitempty"`

	// state_update, and the interrupt reason.
	Field  string      `json:"field,omitempty"`
	Value  interface{} `json:"value,omitempty"`
	Reason string      `json:"reason,omitempty"`

	// metacognition (internal diagnostic, may be suppressed from
	// external consumers)
	Metacognition *cognition.MetacognitionResult `json:"metacognition,omitempty"`

	// complete
	State *core.CognitiveState `json:"state,omitempty"`
	Trace *Trace               `json:"trace,omitempty"`
}

// Terminal reports whether the frame ends the stream.
func (f Frame) Terminal() bool {
	return f.Kind == FrameComplete || f.Kind == FrameInterrupt
}

// Trace is the diagnostic record of one recall run. It is kept in
// memory for observability only and never persisted. Messages and
// RawResponse are populated by the non-streaming path only.
type Trace struct {
	Trigger      string         `json:"trigger"`
	RecentCount  int            `json:"recent_count"`
	RelatedCount int            `json:"related_count"`
	MergedCount  int            `json:"merged_count"`
	ToolCalls    []string       `json:"tool_calls"`
	Messages     []core.Message `json:"messages,omitempty"`
	RawResponse  string         `json:"raw_response,omitempty"`
}
