// Package hash provides a deterministic, offline embedder: a bag of
// hashed tokens. Each token is FNV-1a hashed into a bucket modulo the
// embedding dimension and the vector is L2-normalized. The scheme has
// no semantic knowledge, but it is stable across runs and processes,
// which is what the derived similarity index requires.
package hash

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/becomeliminal/agenter-go/core"
)

// DefaultDimensions matches the AGENTER_EMBEDDING_DIM default.
const DefaultDimensions = 48

// Embedder implements memory.Embedder with hashed bag-of-tokens
// vectors.
type Embedder struct {
	dimensions int
}

// New creates an embedder with the given dimension. dim <= 0 uses
// DefaultDimensions.
func New(dim int) *Embedder {
	if dim <= 0 {
		dim = DefaultDimensions
	}
	return &Embedder{dimensions: dim}
}

// Embed converts text to a normalized bucket-count vector. Text with
// no tokens embeds to the zero vector.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vector := make([]float32, e.dimensions)
	for _, token := range core.Tokenize(text) {
		vector[bucket(token, e.dimensions)]++
	}
	return normalize(vector), nil
}

// Dimensions returns the embedding size.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

func bucket(token string, dim int) int {
	h := fnv.New32a()
	h.Write([]byte(token))
	return int(h.Sum32() % uint32(dim))
}

// normalize converts the vector to unit length. The zero vector stays
// zero.
func normalize(vec []float32) []float32 {
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = float32(math.Sqrt(float64(norm)))
	for i, v := range vec {
		vec[i] = v / norm
	}
	return vec
}
