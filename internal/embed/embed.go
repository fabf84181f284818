// ABOUTME: Embedding service with fail-soft contract and cosine similarity
// ABOUTME: Wraps pluggable providers; degrades to zero vectors on failure
package embed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"
)

// MaxTextLength caps input size before embedding to bound latency and memory
const MaxTextLength = 10000

// DefaultTimeout bounds a single provider call; on expiry the service
// falls back to a zero vector per the fail-soft contract
const DefaultTimeout = 30 * time.Second

// ErrDimensionMismatch indicates vectors of different lengths were compared.
// This is a programming or configuration error, never a legitimate
// "no information" state, so it fails the call.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Provider converts text to a fixed-length embedding vector
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// ContextHints bias an embedding toward metadata relevant for code search
type ContextHints struct {
	Filename string
	Language string
	Purpose  string
}

// Service wraps a Provider with the embedding contract the rest of the
// subsystem relies on: calls never fail, over-long text is truncated,
// and internal errors degrade to a zero vector. A zero vector has
// similarity 0 against everything, signaling "no information".
type Service struct {
	provider Provider
	timeout  time.Duration
}

// NewService creates an embedding service around the given provider
func NewService(provider Provider) *Service {
	return &Service{
		provider: provider,
		timeout:  DefaultTimeout,
	}
}

// NewServiceWithTimeout creates a service with a custom per-call timeout
func NewServiceWithTimeout(provider Provider, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		provider: provider,
		timeout:  timeout,
	}
}

// Dimensions returns the vector size produced by this service
func (s *Service) Dimensions() int {
	return s.provider.Dimensions()
}

// Embed converts text to a vector. It never returns an error: provider
// failures and timeouts produce a zero vector of the expected dimension
// so downstream similarity math stays well-defined.
func (s *Service) Embed(ctx context.Context, text string) []float32 {
	if len(text) > MaxTextLength {
		text = text[:MaxTextLength]
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	vec, err := s.provider.Embed(callCtx, text)
	if err != nil {
		log.Printf("Warning: embedding failed, returning zero vector: %v", err)
		return make([]float32, s.provider.Dimensions())
	}
	if len(vec) != s.provider.Dimensions() {
		log.Printf("Warning: provider returned %d dims, expected %d; returning zero vector",
			len(vec), s.provider.Dimensions())
		return make([]float32, s.provider.Dimensions())
	}
	return vec
}

// EmbedBatch embeds texts sequentially. Batching is an optimization,
// not a correctness requirement.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) [][]float32 {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = s.Embed(ctx, text)
	}
	return vectors
}

// EmbedWithContext prepends a structured preamble before embedding so
// the vector is biased toward file and language metadata. The preamble
// format is load-bearing: any persisted index depends on it.
func (s *Service) EmbedWithContext(ctx context.Context, text string, hints ContextHints) []float32 {
	var sb strings.Builder
	if hints.Filename != "" {
		fmt.Fprintf(&sb, "File: %s\n", hints.Filename)
	}
	if hints.Language != "" {
		fmt.Fprintf(&sb, "Language: %s\n", hints.Language)
	}
	if hints.Purpose != "" {
		fmt.Fprintf(&sb, "Purpose: %s\n", hints.Purpose)
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString(text)
	return s.Embed(ctx, sb.String())
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths are a hard error. A zero-magnitude vector on either
// side yields 0, encoding "no signal" rather than NaN.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// IsZeroVector reports whether every component is zero. Callers that
// need to detect a degraded embedding check this explicitly.
func IsZeroVector(vec []float32) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}
