package cognition

import (
	"context"
	"encoding/json"
	"fmt"
)

// Valence classifies the emotional direction of a memory fragment.
type Valence string

const (
	ValencePositive Valence = "positive"
	ValenceNegative Valence = "negative"
	ValenceNeutral  Valence = "neutral"
)

// Priority ranks how strongly an emotional tag should weigh on the
// final cognitive state.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ActivatedMemory is one memory fragment returned by the activation
// tool.
type ActivatedMemory struct {
	Content      string  `json:"content"`
	Relevance    float64 `json:"relevance"`
	EmotionalTag string  `json:"emotional_tag,omitempty"`
	Timestamp    string  `json:"timestamp,omitempty"`
}

// ActivateResult is the activation tool's output.
type ActivateResult struct {
	Memories          []ActivatedMemory `json:"memories"`
	ActivationPattern string            `json:"activation_pattern"`
}

// WorkingMemoryResult is the working-memory tool's output. Slots is
// validated to at most 4 entries by Hold.
type WorkingMemoryResult struct {
	Slots      []string `json:"slots"`
	Operations []string `json:"operations"`
	Reason     string   `json:"reason"`
}

// EmotionResult is an emotional tag plus the tool's rationale. The tag
// is always attached to one activated memory fragment and never
// outlives the round that produced it.
type EmotionResult struct {
	Valence  Valence  `json:"valence"`
	Arousal  float64  `json:"arousal"`
	Priority Priority `json:"priority"`
	Reason   string   `json:"reason"`
}

// CompareResult is the comparison tool's output.
type CompareResult struct {
	Similarity  float64  `json:"similarity"`
	Differences []string `json:"differences"`
	Conclusion  string   `json:"conclusion"`
}

// MetacognitionResult is the continuation decision for the recall
// loop.
type MetacognitionResult struct {
	ShouldContinue   bool     `json:"should_continue"`
	Gaps             []string `json:"gaps"`
	SuggestedQueries []string `json:"suggested_queries"`
	Confidence       float64  `json:"confidence"`
}

// Activate asks the activation tool to recall memory fragments for a
// cue. Modality is "semantic" for the current core.
func (r *Registry) Activate(ctx context.Context, cue, modality string) (*ActivateResult, error) {
	content := fmt.Sprintf("Cue: %q\nModality: %s\nActivate related memory traces from long-term memory.", cue, modality)
	var result ActivateResult
	if err := r.invoke(ctx, ToolActivation, content, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Hold asks the working-memory tool to fold new information into the
// current slots. The returned slots are truncated to 4.
func (r *Registry) Hold(ctx context.Context, newInfo string, currentSlots []string) (*WorkingMemoryResult, error) {
	slotsJSON, err := json.Marshal(currentSlots)
	if err != nil {
		return nil, fmt.Errorf("marshal slots: %w", err)
	}
	content := fmt.Sprintf("Current slots: %s\nNew information: %s\nDecide how to update working memory.", slotsJSON, newInfo)

	var result WorkingMemoryResult
	if err := r.invoke(ctx, ToolWorkingMemory, content, &result); err != nil {
		return nil, err
	}
	if len(result.Slots) > 4 {
		result.Slots = result.Slots[:4]
	}
	return &result, nil
}

// Feel asks the emotion-tagging tool to tag one memory fragment.
func (r *Registry) Feel(ctx context.Context, content string) (*EmotionResult, error) {
	var result EmotionResult
	prompt := fmt.Sprintf("Content: %q\nAnalyze the emotional character.", content)
	if err := r.invoke(ctx, ToolEmotionTagging, prompt, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Compare asks the comparison tool to contrast two items along one
// aspect.
func (r *Registry) Compare(ctx context.Context, itemA, itemB, aspect string) (*CompareResult, error) {
	content := fmt.Sprintf("Item A: %q\nItem B: %q\nAspect: %s", itemA, itemB, aspect)
	var result CompareResult
	if err := r.invoke(ctx, ToolComparison, content, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Check asks the metacognitive tool whether the partial state answers
// the trigger, and what to query next if not.
func (r *Registry) Check(ctx context.Context, partialState interface{}, trigger string) (*MetacognitionResult, error) {
	stateJSON, err := json.Marshal(partialState)
	if err != nil {
		return nil, fmt.Errorf("marshal partial state: %w", err)
	}
	content := fmt.Sprintf("Current cognitive state: %s\nUser question: %q\nCheck whether this is sufficient to answer, or more information is needed.", stateJSON, trigger)

	var result MetacognitionResult
	if err := r.invoke(ctx, ToolMetacognitiveCheck, content, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
