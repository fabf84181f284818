// ABOUTME: Project fingerprint aggregation via weighted modular folding
// ABOUTME: Reduces per-fragment embeddings into one fixed 4096-dim vector
package core

import (
	"fmt"
	"math"
	"sort"

	"github.com/mnemo-ai/mnemo/internal/embed"
	"github.com/mnemo-ai/mnemo/internal/models"
)

// FingerprintDimensions is the fixed size of a project fingerprint
const FingerprintDimensions = 4096

// fragmentTypeWeights make larger, more structurally significant
// fragments dominate the fingerprint
var fragmentTypeWeights = map[models.FragmentType]float64{
	models.FragmentClass:    2.0,
	models.FragmentFunction: 1.5,
	models.FragmentModule:   1.0,
	models.FragmentBlock:    0.5,
	models.FragmentComment:  0.3,
}

// FragmentWeight returns a fragment's contribution weight:
// its type weight scaled by log10(lines+1)
func FragmentWeight(frag models.CodeFragment) float64 {
	tw, ok := fragmentTypeWeights[frag.Type]
	if !ok {
		tw = fragmentTypeWeights[models.FragmentBlock]
	}
	return tw * math.Log10(float64(frag.Lines)+1)
}

// AggregateFingerprint folds a set of fragment embeddings into a fixed
// 4096-dimensional vector. Each fragment's embedding is folded into
// the accumulator via modular indexing (acc[i] += emb[i%d] * weight),
// then the accumulator is divided by the total weight.
//
// The modular fold is a reproducible dimensional-expansion heuristic,
// not a learned projection. It must stay byte-for-byte compatible
// across independently computed projects, so do not change the
// indexing or weighting scheme.
func AggregateFingerprint(fragments []models.CodeFragment) ([]float32, error) {
	if len(fragments) == 0 {
		return nil, fmt.Errorf("cannot aggregate fingerprint from zero fragments")
	}

	acc := make([]float64, FingerprintDimensions)
	var totalWeight float64

	for _, frag := range fragments {
		if len(frag.Embedding) == 0 {
			return nil, fmt.Errorf("fragment %q has no embedding", frag.ID)
		}
		weight := FragmentWeight(frag)
		if weight == 0 {
			continue
		}
		d := len(frag.Embedding)
		for i := 0; i < FingerprintDimensions; i++ {
			acc[i] += float64(frag.Embedding[i%d]) * weight
		}
		totalWeight += weight
	}

	if totalWeight == 0 {
		return nil, fmt.Errorf("total fragment weight is zero")
	}

	fingerprint := make([]float32, FingerprintDimensions)
	for i, v := range acc {
		fingerprint[i] = float32(v / totalWeight)
	}
	return fingerprint, nil
}

// CompareFingerprints returns the cosine similarity of two fingerprints
func CompareFingerprints(a, b *models.ProjectFingerprint) (float64, error) {
	return embed.CosineSimilarity(a.Embedding, b.Embedding)
}

// RankSimilarProjects orders candidates by similarity to the target,
// most similar first. No threshold is applied; that decision belongs
// to the caller.
func RankSimilarProjects(target *models.ProjectFingerprint, candidates []*models.ProjectFingerprint) ([]models.ProjectSimilarity, error) {
	ranked := make([]models.ProjectSimilarity, 0, len(candidates))
	for _, cand := range candidates {
		if cand.ProjectID == target.ProjectID {
			continue
		}
		sim, err := CompareFingerprints(target, cand)
		if err != nil {
			return nil, fmt.Errorf("comparing %s: %w", cand.ProjectID, err)
		}
		ranked = append(ranked, models.ProjectSimilarity{
			ProjectID:  cand.ProjectID,
			Similarity: sim,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})
	return ranked, nil
}
