package memory

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/becomeliminal/agenter-go/core"
)

// SearchResult is the outcome of one hybrid search: deduplicated facts
// in similarity-first order, plus human-readable tool-call trace lines.
type SearchResult struct {
	Facts []core.ObjectiveFact
	Trace []string
}

// HybridRetriever combines similarity search over the derived index
// with a keyword-overlap ranker over the full fact log. Similarity
// results take priority in the merged output; when the index is absent
// or unreachable the retriever silently falls back to keyword-only.
type HybridRetriever struct {
	store    *FactStore
	index    Index
	embedder Embedder
}

// NewHybridRetriever creates a retriever over the store. index and
// embedder may be nil, which disables the similarity branch.
func NewHybridRetriever(store *FactStore, index Index, embedder Embedder) *HybridRetriever {
	return &HybridRetriever{
		store:    store,
		index:    index,
		embedder: embedder,
	}
}

// Search retrieves up to limit facts relevant to query.
func (r *HybridRetriever) Search(ctx context.Context, query string, limit int) (*SearchResult, error) {
	if limit <= 0 {
		return &SearchResult{}, nil
	}

	allFacts, err := r.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read facts: %w", err)
	}
	byID := make(map[string]core.ObjectiveFact, len(allFacts))
	for _, fact := range allFacts {
		byID[fact.ID] = fact
	}

	var trace []string

	similar := r.querySimilar(ctx, query, limit, byID)
	if r.index != nil {
		trace = append(trace, fmt.Sprintf("VectorIndex.query(text=%q, limit=%d) -> %d facts", query, limit, len(similar)))
	}

	remaining := limit - len(similar)
	var keyword []core.ObjectiveFact
	if remaining > 0 {
		keyword = keywordSearch(allFacts, query, remaining)
		trace = append(trace, fmt.Sprintf("FactStore.keywordSearch(query=%q, limit=%d) -> %d facts", query, remaining, len(keyword)))
	}

	// Merge: similarity first, dedup by id, first occurrence wins.
	seen := make(map[string]bool, len(similar)+len(keyword))
	merged := make([]core.ObjectiveFact, 0, len(similar)+len(keyword))
	for _, fact := range append(similar, keyword...) {
		if seen[fact.ID] {
			continue
		}
		seen[fact.ID] = true
		merged = append(merged, fact)
	}

	return &SearchResult{Facts: merged, Trace: trace}, nil
}

// querySimilar runs the similarity branch. Any failure is treated as
// zero results; the keyword branch covers for it.
func (r *HybridRetriever) querySimilar(ctx context.Context, query string, limit int, byID map[string]core.ObjectiveFact) []core.ObjectiveFact {
	if r.index == nil || r.embedder == nil {
		return nil
	}
	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		log.Printf("[MEMORY] Embed query failed: %v", err)
		return nil
	}
	ids, err := r.index.Query(ctx, embedding, limit)
	if err != nil {
		log.Printf("[MEMORY] Similarity query failed, keyword-only: %v", err)
		return nil
	}
	var facts []core.ObjectiveFact
	for _, id := range ids {
		// Stale index ids resolve to nothing; drop them.
		if fact, ok := byID[id]; ok {
			facts = append(facts, fact)
		}
	}
	return facts
}

// keywordSearch scores each fact by the number of distinct query
// tokens its normalized content contains, keeps positive scores, and
// returns the top limit facts. Ties keep store order.
func keywordSearch(facts []core.ObjectiveFact, query string, limit int) []core.ObjectiveFact {
	tokens := core.Tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	type scored struct {
		fact  core.ObjectiveFact
		score int
	}
	var matches []scored
	for _, fact := range facts {
		text := core.NormalizeText(fact.Content)
		score := 0
		for _, token := range tokens {
			if strings.Contains(text, token) {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{fact: fact, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	result := make([]core.ObjectiveFact, 0, len(matches))
	for _, m := range matches {
		result = append(result, m.fact)
	}
	return result
}
