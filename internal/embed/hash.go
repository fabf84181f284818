// ABOUTME: Deterministic hash-based embedding provider
// ABOUTME: Always available; used as fallback and in tests for reproducibility
package embed

import (
	"context"
	"hash/fnv"
	"math"
)

// HashDimensions is the vector size of the lightweight fallback embedder
const HashDimensions = 256

// HashProvider generates deterministic embeddings from a text hash.
// It requires no initialization and no network, so it is always
// available as a fallback behind the same Provider contract as the
// model-backed implementations.
type HashProvider struct {
	dimensions int
}

// NewHashProvider creates a hash provider with the default dimensions
func NewHashProvider() *HashProvider {
	return &HashProvider{dimensions: HashDimensions}
}

// NewHashProviderWithDimensions creates a hash provider producing
// vectors of the given size
func NewHashProviderWithDimensions(dims int) *HashProvider {
	if dims <= 0 {
		dims = HashDimensions
	}
	return &HashProvider{dimensions: dims}
}

// Embed produces the same unit vector for the same text on every call
func (p *HashProvider) Embed(_ context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, p.dimensions)
	for i := 0; i < p.dimensions; i++ {
		// LCG advance from the FNV seed
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = float32(int64(seed)) / float32(math.MaxInt64)
	}

	return normalize(vec), nil
}

// Dimensions returns the embedding size
func (p *HashProvider) Dimensions() int {
	return p.dimensions
}

// normalize scales a vector to unit length
func normalize(vec []float32) []float32 {
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}
