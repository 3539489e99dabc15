package recall

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/becomeliminal/agenter-go/cognition"
	"github.com/becomeliminal/agenter-go/core"
)

// MaxRounds bounds the recall loop. Round 5's metacognition result is
// overridden by this bound even when it signals continuation.
const MaxRounds = 5

// Orchestrator drives bounded rounds of cognition-tool calls and
// streams progress frames. A run is single-flight: rounds execute
// strictly sequentially and each round's stages run in fixed order
// activate -> hold -> feel -> metacognition. The only parallelism is
// the emotion-tagging fan-out inside one round's feel stage.
type Orchestrator struct {
	registry *cognition.Registry
}

// NewOrchestrator creates an orchestrator over the tool registry.
func NewOrchestrator(registry *cognition.Registry) *Orchestrator {
	return &Orchestrator{registry: registry}
}

// activatedFact is one accumulated memory fragment with the round that
// activated it.
type activatedFact struct {
	Content   string
	Relevance float64
	Round     int
}

// taggedEmotion pairs an emotion result with its source content.
type taggedEmotion struct {
	Content string
	Emotion cognition.EmotionResult
}

// runState is the accumulator for one in-flight recall. It is owned by
// exactly one run and discarded when the stream ends.
type runState struct {
	trigger    string
	memory     WorkingMemory
	activated  []activatedFact
	emotions   []taggedEmotion
	round      int
	confidence float64
}

// Run starts a recall for the trigger message and returns the frame
// stream. The channel closes after a terminal complete or interrupt
// frame; the consumer must process frames in emission order.
func (o *Orchestrator) Run(ctx context.Context, trigger string) <-chan Frame {
	frames := make(chan Frame)
	go func() {
		defer close(frames)
		o.run(ctx, trigger, frames)
	}()
	return frames
}

func (o *Orchestrator) run(ctx context.Context, trigger string, frames chan<- Frame) {
	state := &runState{trigger: trigger}

	frames <- Frame{Kind: FrameStart, Trigger: trigger}

	for state.round < MaxRounds {
		// Cancellation checkpoint between rounds.
		if err := ctx.Err(); err != nil {
			o.interrupt(frames, fmt.Errorf("recall cancelled: %w", err))
			return
		}
		state.round++

		done, err := o.runRound(ctx, state, frames)
		if err != nil {
			o.interrupt(frames, err)
			return
		}
		if done {
			break
		}
	}

	finalState := buildFinalState(state)
	frames <- Frame{
		Kind:  FrameComplete,
		State: &finalState,
		Trace: buildTrace(state),
	}
}

// runRound executes one activate -> hold -> feel -> metacognition
// cycle. It returns done=true when the loop should stop.
func (o *Orchestrator) runRound(ctx context.Context, state *runState, frames chan<- Frame) (bool, error) {
	// ACTIVATE: the trigger cues round 1, working memory cues the
	// rest.
	cue := state.trigger
	if state.round > 1 {
		cue = state.memory.Join(" ")
	}
	activated, err := o.registry.Activate(ctx, cue, "semantic")
	if err != nil {
		return false, err
	}
	frames <- Frame{Kind: FrameActivate, Round: state.round, Activate: activated}

	contents := make([]string, 0, len(activated.Memories))
	for _, mem := range activated.Memories {
		state.activated = append(state.activated, activatedFact{
			Content:   mem.Content,
			Relevance: mem.Relevance,
			Round:     state.round,
		})
		contents = append(contents, mem.Content)
	}

	// HOLD: fold the round's activations into working memory.
	held, err := o.registry.Hold(ctx, strings.Join(contents, "; "), state.memory.Entries())
	if err != nil {
		return false, err
	}
	state.memory.Set(held.Slots)
	slots := state.memory.Slots()
	frames <- Frame{Kind: FrameHold, Hold: held, Slots: &slots}

	// FEEL: tag every activated fragment concurrently, join before
	// metacognition.
	emotions, err := o.feelAll(ctx, contents)
	if err != nil {
		return false, err
	}
	for _, tagged := range emotions {
		state.emotions = append(state.emotions, tagged)
		emotion := tagged.Emotion
		frames <- Frame{Kind: FrameFeel, Feel: &emotion}
		frames <- Frame{
			Kind:   FrameStateUpdate,
			Field:  "emotional_marker",
			Value:  emotion,
			Reason: fmt.Sprintf("emotional analysis of %q", core.Truncate(tagged.Content, 20)),
		}
	}

	// METACOGNITION: decide whether the state answers the trigger.
	meta, err := o.registry.Check(ctx, buildPartialState(state), state.trigger)
	if err != nil {
		return false, err
	}
	state.confidence = meta.Confidence
	frames <- Frame{Kind: FrameMetacognition, Metacognition: meta}

	if !meta.ShouldContinue || len(meta.SuggestedQueries) == 0 {
		return true, nil
	}
	for _, query := range meta.SuggestedQueries {
		state.memory.Push(query)
	}
	return false, nil
}

// feelAll fans out one emotion-tagging call per fragment and waits for
// all of them. Results keep fragment order regardless of completion
// order.
func (o *Orchestrator) feelAll(ctx context.Context, contents []string) ([]taggedEmotion, error) {
	results := make([]taggedEmotion, len(contents))
	g, gctx := errgroup.WithContext(ctx)
	for i, content := range contents {
		g.Go(func() error {
			emotion, err := o.registry.Feel(gctx, content)
			if err != nil {
				return err
			}
			results[i] = taggedEmotion{Content: content, Emotion: *emotion}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (o *Orchestrator) interrupt(frames chan<- Frame, err error) {
	log.Printf("[RECALL] Interrupted: %v", err)
	frames <- Frame{Kind: FrameInterrupt, Reason: err.Error()}
}

// partialEmotion is the truncated emotion view handed to the
// metacognitive check.
type partialEmotion struct {
	Content  string             `json:"content"`
	Valence  cognition.Valence  `json:"valence"`
	Priority cognition.Priority `json:"priority"`
}

// partialState is the summary object the metacognitive check judges.
type partialState struct {
	Trigger            string           `json:"trigger"`
	WorkingMemory      []string         `json:"working_memory"`
	ActivatedFactCount int              `json:"activated_facts_count"`
	Emotions           []partialEmotion `json:"emotions"`
	Confidence         float64          `json:"confidence"`
}

func buildPartialState(state *runState) partialState {
	emotions := make([]partialEmotion, 0, len(state.emotions))
	for _, tagged := range state.emotions {
		emotions = append(emotions, partialEmotion{
			Content:  core.Truncate(tagged.Content, 30),
			Valence:  tagged.Emotion.Valence,
			Priority: tagged.Emotion.Priority,
		})
	}
	return partialState{
		Trigger:            state.trigger,
		WorkingMemory:      state.memory.Entries(),
		ActivatedFactCount: len(state.activated),
		Emotions:           emotions,
		Confidence:         state.confidence,
	}
}

func buildTrace(state *runState) *Trace {
	recent, related := 0, 0
	for _, fact := range state.activated {
		if fact.Round == 1 {
			recent++
		} else {
			related++
		}
	}
	toolCalls := make([]string, 0, len(state.emotions))
	for _, tagged := range state.emotions {
		toolCalls = append(toolCalls, fmt.Sprintf("emotion_tagging(%q)", core.Truncate(tagged.Content, 15)))
	}
	return &Trace{
		Trigger:      state.trigger,
		RecentCount:  recent,
		RelatedCount: related,
		MergedCount:  len(state.activated),
		ToolCalls:    toolCalls,
	}
}
