// Package memory provides the append-only objective fact log and
// hybrid retrieval over it.
//
// The fact log is the only durable state in the system: every user
// message, agent thought, and tool result is appended as an
// ObjectiveFact, and the cognitive state is reconstructed from the log
// on every recall. Nothing else survives between interactions.
//
// Architecture:
//   - FactStore: newline-delimited JSON log, single-writer,
//     durable appends, recency/window reads, reset
//   - Index: similarity-search boundary (chromem-go locally,
//     a served vector database in production)
//   - Embedder: text-to-vector conversion (deterministic hashed
//     bag-of-tokens locally, a real embedding model in production)
//   - HybridRetriever: similarity results merged ahead of
//     keyword-overlap results, deduplicated by fact id
//
// The index is eventually consistent with the log: upsert failures are
// swallowed and retrieval degrades to keyword-only, so readers must
// tolerate index ids that no longer resolve to a fact.
package memory
