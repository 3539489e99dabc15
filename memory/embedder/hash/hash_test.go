package hash

import (
	"context"
	"math"
	"testing"
)

func TestEmbedIsDeterministic(t *testing.T) {
	embedder := New(DefaultDimensions)
	ctx := context.Background()

	first, err := embedder.Embed(ctx, "The quick brown fox")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	second, err := embedder.Embed(ctx, "The quick brown fox")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(first) != DefaultDimensions {
		t.Fatalf("Expected %d dimensions, got %d", DefaultDimensions, len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Dimension %d differs between identical inputs", i)
		}
	}
}

func TestEmbedIsCaseInsensitive(t *testing.T) {
	embedder := New(DefaultDimensions)
	ctx := context.Background()

	lower, err := embedder.Embed(ctx, "hello world")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	upper, err := embedder.Embed(ctx, "HELLO World")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	for i := range lower {
		if lower[i] != upper[i] {
			t.Fatalf("Dimension %d differs between case variants", i)
		}
	}
}

func TestEmbedIsUnitLength(t *testing.T) {
	embedder := New(DefaultDimensions)

	vec, err := embedder.Embed(context.Background(), "some tokens to hash into buckets")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if norm := math.Sqrt(sum); math.Abs(norm-1) > 1e-5 {
		t.Fatalf("Expected unit norm, got %f", norm)
	}
}

func TestEmbedEmptyTextIsZeroVector(t *testing.T) {
	embedder := New(DefaultDimensions)

	for _, text := range []string{"", "   ", ". , !"} {
		vec, err := embedder.Embed(context.Background(), text)
		if err != nil {
			t.Fatalf("Embed(%q) failed: %v", text, err)
		}
		if len(vec) != DefaultDimensions {
			t.Fatalf("Embed(%q): expected %d dimensions, got %d", text, DefaultDimensions, len(vec))
		}
		for i, v := range vec {
			if v != 0 {
				t.Fatalf("Embed(%q): expected zero vector, dimension %d is %f", text, i, v)
			}
		}
	}
}

func TestEmbedDifferentTextsDiffer(t *testing.T) {
	embedder := New(DefaultDimensions)
	ctx := context.Background()

	a, err := embedder.Embed(ctx, "cats chase mice")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	b, err := embedder.Embed(ctx, "quarterly revenue projections")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("Unrelated texts produced identical embeddings")
	}
}

func TestDimensions(t *testing.T) {
	if got := New(16).Dimensions(); got != 16 {
		t.Fatalf("Expected 16, got %d", got)
	}
	if got := New(0).Dimensions(); got != DefaultDimensions {
		t.Fatalf("Expected fallback to default, got %d", got)
	}
}
