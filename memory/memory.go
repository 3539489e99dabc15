package memory

import "context"

// Index is the similarity-search boundary. Implementations:
// chromem.Index (local, embedded), or any served vector database.
//
// The index is derived state. It may lag the fact log or omit entries
// entirely; callers resolve returned ids against the log and drop ids
// with no matching fact.
type Index interface {
	// Upsert stores or replaces the embedding for a fact id.
	Upsert(ctx context.Context, id string, embedding []float32, document string, metadata map[string]string) error

	// Query returns the ids of the top limit nearest documents,
	// nearest first.
	Query(ctx context.Context, embedding []float32, limit int) ([]string, error)

	// Reset drops the collection and recreates it empty.
	Reset(ctx context.Context) error
}

// Embedder converts text to a fixed-dimension embedding vector.
// Implementations: hash.Embedder (deterministic, offline), or a real
// embedding model behind the same interface.
type Embedder interface {
	// Embed converts a single text to an embedding vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int
}
