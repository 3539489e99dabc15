package recall

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"

	"github.com/becomeliminal/agenter-go/cognition"
	"github.com/becomeliminal/agenter-go/config"
	"github.com/becomeliminal/agenter-go/core"
	"github.com/becomeliminal/agenter-go/llm"
	"github.com/becomeliminal/agenter-go/memory"
)

const (
	recentLimit  = 100
	relatedLimit = 50
)

// Rememberer is the non-streaming recall path: recent plus retrieved
// facts, one completion call, parse or derive.
type Rememberer struct {
	store     *memory.FactStore
	retriever *memory.HybridRetriever
	completer llm.Completer
	model     string
}

// NewRememberer creates a rememberer over the store and retriever.
func NewRememberer(store *memory.FactStore, retriever *memory.HybridRetriever, completer llm.Completer, model string) *Rememberer {
	return &Rememberer{
		store:     store,
		retriever: retriever,
		completer: completer,
		model:     model,
	}
}

// Result pairs the reconstructed state with its diagnostic trace.
type Result struct {
	State core.CognitiveState
	Trace Trace
}

// Recall returns just the cognitive state for a trigger message.
func (r *Rememberer) Recall(ctx context.Context, trigger string) (core.CognitiveState, error) {
	result, err := r.RecallWithTrace(ctx, trigger)
	if err != nil {
		return core.CognitiveState{}, err
	}
	return result.State, nil
}

// RecallWithTrace reconstructs the cognitive state and reports how it
// was assembled. Model output that does not parse into the required
// shape falls back to DeriveState over the merged facts; storage and
// transport faults surface as errors.
func (r *Rememberer) RecallWithTrace(ctx context.Context, trigger string) (*Result, error) {
	recent, err := r.store.Recent(ctx, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("recent facts: %w", err)
	}
	related, err := r.retriever.Search(ctx, trigger, relatedLimit)
	if err != nil {
		return nil, fmt.Errorf("search facts: %w", err)
	}
	merged := mergeFacts(recent, related.Facts)

	toolCalls := append(
		[]string{fmt.Sprintf("FactStore.recent(limit=%d) -> %d facts", recentLimit, len(recent))},
		related.Trace...,
	)

	factsJSON, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("marshal facts: %w", err)
	}
	messages := []core.Message{
		{Role: core.RoleSystem, Content: config.RemembererPrompt},
		{Role: core.RoleUser, Content: fmt.Sprintf("TRIGGER=%s\nRAW_FACTS_JSON=%s", trigger, factsJSON)},
	}

	raw, err := r.completer.Complete(ctx, &llm.Request{
		Model:    r.model,
		System:   messages[0].Content,
		Messages: messages[1:],
	})
	if err != nil {
		return nil, fmt.Errorf("rememberer completion: %w", err)
	}

	state, ok := parseCognitiveState(raw)
	if !ok {
		log.Printf("[RECALL] Unparseable cognitive state, deriving from %d facts", len(merged))
		state = DeriveState(merged)
	}

	return &Result{
		State: state,
		Trace: Trace{
			Trigger:      trigger,
			RecentCount:  len(recent),
			RelatedCount: len(related.Facts),
			MergedCount:  len(merged),
			ToolCalls:    toolCalls,
			Messages:     messages,
			RawResponse:  raw,
		},
	}, nil
}

// parseCognitiveState extracts and validates a CognitiveState from
// free text.
func parseCognitiveState(raw string) (core.CognitiveState, bool) {
	block, ok := cognition.ExtractJSONBlock(raw)
	if !ok {
		return core.CognitiveState{}, false
	}
	var state core.CognitiveState
	if err := json.Unmarshal(block, &state); err != nil {
		return core.CognitiveState{}, false
	}
	if !state.Valid() {
		return core.CognitiveState{}, false
	}
	return state, true
}

// mergeFacts combines related and recent facts, deduplicated by id and
// ordered by timestamp.
func mergeFacts(recent, related []core.ObjectiveFact) []core.ObjectiveFact {
	seen := make(map[string]bool, len(recent)+len(related))
	merged := make([]core.ObjectiveFact, 0, len(recent)+len(related))
	for _, fact := range append(append([]core.ObjectiveFact{}, related...), recent...) {
		if seen[fact.ID] {
			continue
		}
		seen[fact.ID] = true
		merged = append(merged, fact)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp < merged[j].Timestamp
	})
	return merged
}
