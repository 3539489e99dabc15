// Package chromem implements the similarity-index boundary over
// chromem-go, a pure Go embedded vector database.
package chromem

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"
)

// Index implements memory.Index over a single chromem collection.
type Index struct {
	db   *chromem.DB
	name string

	mu         sync.Mutex
	collection *chromem.Collection
}

// New creates an index with the given collection name.
func New(collectionName string) (*Index, error) {
	db := chromem.NewDB()
	collection, err := db.CreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &Index{
		db:         db,
		name:       collectionName,
		collection: collection,
	}, nil
}

// Upsert stores or replaces the document for a fact id.
func (x *Index) Upsert(ctx context.Context, id string, embedding []float32, document string, metadata map[string]string) error {
	x.mu.Lock()
	collection := x.collection
	x.mu.Unlock()

	err := collection.AddDocument(ctx, chromem.Document{
		ID:        id,
		Content:   document,
		Embedding: embedding,
		Metadata:  metadata,
	})
	if err != nil {
		return fmt.Errorf("add document: %w", err)
	}
	return nil
}

// Query returns the ids of the nearest documents, nearest first.
// chromem requires nResults <= collection size, so the limit shrinks
// until the query fits; an empty collection returns no ids.
func (x *Index) Query(ctx context.Context, embedding []float32, limit int) ([]string, error) {
	x.mu.Lock()
	collection := x.collection
	x.mu.Unlock()

	var results []chromem.Result
	for currentLimit := limit; currentLimit >= 1; currentLimit-- {
		var err error
		results, err = collection.QueryEmbedding(ctx, embedding, currentLimit, nil, nil)
		if err == nil {
			break
		}
		if isInsufficientDocsError(err) {
			if currentLimit == 1 {
				log.Printf("[CHROMEM] Collection is empty")
				return nil, nil
			}
			continue
		}
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	ids := make([]string, 0, len(results))
	for _, result := range results {
		ids = append(ids, result.ID)
	}
	return ids, nil
}

// Reset drops the collection and recreates it empty.
func (x *Index) Reset(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if err := x.db.DeleteCollection(x.name); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	collection, err := x.db.CreateCollection(x.name, nil, nil)
	if err != nil {
		return fmt.Errorf("recreate collection: %w", err)
	}
	x.collection = collection
	return nil
}

// isInsufficientDocsError checks if the error is chromem rejecting a
// query larger than the collection.
func isInsufficientDocsError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "nResults must be") || strings.Contains(msg, "number of documents")
}
