package cache

import (
	"context"
	"testing"

	"github.com/becomeliminal/agenter-go/memory/embedder/hash"
)

// countingEmbedder counts how many times the inner embedder runs.
type countingEmbedder struct {
	inner *hash.Embedder
	calls int
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.calls++
	return c.inner.Embed(ctx, text)
}

func (c *countingEmbedder) Dimensions() int { return c.inner.Dimensions() }

func TestCachedEmbedMatchesInner(t *testing.T) {
	inner := &countingEmbedder{inner: hash.New(hash.DefaultDimensions)}
	cached, err := New(inner, 128)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ctx := context.Background()

	direct, err := inner.inner.Embed(ctx, "the same text")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	viaCache, err := cached.Embed(ctx, "the same text")
	if err != nil {
		t.Fatalf("Cached embed failed: %v", err)
	}
	if len(direct) != len(viaCache) {
		t.Fatalf("Dimension mismatch: %d vs %d", len(direct), len(viaCache))
	}
	for i := range direct {
		if direct[i] != viaCache[i] {
			t.Fatalf("Dimension %d differs through the cache", i)
		}
	}
}

func TestCacheHitSkipsInner(t *testing.T) {
	inner := &countingEmbedder{inner: hash.New(hash.DefaultDimensions)}
	cached, err := New(inner, 128)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ctx := context.Background()

	if _, err := cached.Embed(ctx, "repeated trigger"); err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	// Admission is asynchronous; flush the set buffers before the
	// second lookup.
	cached.cache.Wait()

	if _, err := cached.Embed(ctx, "repeated trigger"); err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("Expected 1 inner call, got %d", inner.calls)
	}
}

func TestDimensionsPassThrough(t *testing.T) {
	cached, err := New(hash.New(16), 8)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := cached.Dimensions(); got != 16 {
		t.Fatalf("Expected 16, got %d", got)
	}
}
