// ABOUTME: Unit tests for the deterministic hash embedding provider
// ABOUTME: Verifies reproducibility, unit norm, and text sensitivity
package embed

import (
	"context"
	"math"
	"testing"
)

func TestHashProvider_Deterministic(t *testing.T) {
	p := NewHashProvider()
	ctx := context.Background()

	texts := []string{"", "hello", "func main() {}", "the same text embedded twice"}
	for _, text := range texts {
		first, err := p.Embed(ctx, text)
		if err != nil {
			t.Fatalf("Embed(%q) failed: %v", text, err)
		}
		second, err := p.Embed(ctx, text)
		if err != nil {
			t.Fatalf("Embed(%q) failed on repeat: %v", text, err)
		}

		for i := range first {
			if first[i] != second[i] {
				t.Fatalf("Embed(%q) not deterministic at index %d: %v != %v",
					text, i, first[i], second[i])
			}
		}
	}
}

func TestHashProvider_Dimensions(t *testing.T) {
	p := NewHashProvider()
	if p.Dimensions() != HashDimensions {
		t.Errorf("Dimensions() = %d, want %d", p.Dimensions(), HashDimensions)
	}

	vec, err := p.Embed(context.Background(), "text")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vec) != HashDimensions {
		t.Errorf("Embedding length = %d, want %d", len(vec), HashDimensions)
	}

	custom := NewHashProviderWithDimensions(64)
	if custom.Dimensions() != 64 {
		t.Errorf("Custom Dimensions() = %d, want 64", custom.Dimensions())
	}
}

func TestHashProvider_UnitNorm(t *testing.T) {
	p := NewHashProvider()
	vec, err := p.Embed(context.Background(), "normalize me")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(norm)-1.0) > 1e-4 {
		t.Errorf("Embedding norm = %v, want 1.0", math.Sqrt(norm))
	}
}

func TestHashProvider_DifferentTextsDiffer(t *testing.T) {
	p := NewHashProvider()
	ctx := context.Background()

	a, _ := p.Embed(ctx, "first text")
	b, _ := p.Embed(ctx, "second text")

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("Different texts produced identical embeddings")
	}
}
