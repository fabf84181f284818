// ABOUTME: Memory retriever turning free-text queries into ranked results
// ABOUTME: Applies relevance thresholds and type partitioning
package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mnemo-ai/mnemo/internal/embed"
	"github.com/mnemo-ai/mnemo/internal/index"
	"github.com/mnemo-ai/mnemo/internal/models"
)

// DefaultRecallLimit is used when callers pass a non-positive k
const DefaultRecallLimit = 5

// RecallOptions narrow a recall to a type, project, or relevance floor
type RecallOptions struct {
	Type         models.MemoryType
	Project      string
	MinRelevance float64
}

// Retriever issues semantic queries through the embedder and index
type Retriever struct {
	embedder *embed.Service
	index    index.Index
}

// NewRetriever creates a retriever over the given embedder and index
func NewRetriever(embedder *embed.Service, idx index.Index) *Retriever {
	return &Retriever{
		embedder: embedder,
		index:    idx,
	}
}

// Recall embeds the query, searches the index, and returns results
// ordered by decreasing relevance. Candidates below MinRelevance are
// discarded. When a post-filter will discard results, the search
// over-fetches up to 2k candidates.
func (r *Retriever) Recall(ctx context.Context, query string, k int, opts RecallOptions) ([]models.RecalledMemory, error) {
	if k <= 0 {
		k = DefaultRecallLimit
	}

	fetchK := k
	var filter *index.Filter
	if opts.Type != "" || opts.Project != "" {
		filter = &index.Filter{Type: opts.Type}
		if opts.Project != "" {
			filter.Where = map[string]string{"project": opts.Project}
		}
	}
	if filter != nil || opts.MinRelevance > 0 {
		fetchK = 2 * k
	}

	queryVec := r.embedder.Embed(ctx, query)
	hits, err := r.index.Search(ctx, queryVec, fetchK, filter)
	if err != nil {
		return nil, fmt.Errorf("recall search failed: %w", err)
	}

	recalled := make([]models.RecalledMemory, 0, len(hits))
	for _, hit := range hits {
		relevance := 1 - hit.Score
		if relevance < opts.MinRelevance {
			continue
		}
		recalled = append(recalled, recalledFromHit(hit, relevance))
		if len(recalled) == k {
			break
		}
	}
	return recalled, nil
}

// RelevantContext recalls memories for a task and partitions them into
// named buckets by type. Relevance order is preserved within buckets.
func (r *Retriever) RelevantContext(ctx context.Context, task string, limit int, minRelevance float64) (*models.ContextBundle, error) {
	if limit <= 0 {
		limit = 10
	}

	recalled, err := r.Recall(ctx, task, limit, RecallOptions{MinRelevance: minRelevance})
	if err != nil {
		return nil, err
	}

	bundle := &models.ContextBundle{}
	for _, mem := range recalled {
		switch mem.Type {
		case models.TypeCode:
			bundle.Code = append(bundle.Code, mem)
		case models.TypeDecision:
			bundle.Decisions = append(bundle.Decisions, mem)
		case models.TypeStyle:
			bundle.Styles = append(bundle.Styles, mem)
		case models.TypeArchitecture:
			bundle.Architecture = append(bundle.Architecture, mem)
		default:
			bundle.Conversations = append(bundle.Conversations, mem)
		}
	}
	return bundle, nil
}

// Recent returns the most recently accessed memories of a type.
// Recency ranking piggybacks on semantic search with a synthetic
// query, then re-sorts strictly by last access time. A dedicated
// recency index would avoid the throwaway query; current behavior is
// kept for compatibility with persisted indexes.
func (r *Retriever) Recent(ctx context.Context, memType models.MemoryType, limit int) ([]models.RecalledMemory, error) {
	if limit <= 0 {
		limit = DefaultRecallLimit
	}

	query := fmt.Sprintf("recent %s memories", memType)
	recalled, err := r.Recall(ctx, query, limit, RecallOptions{Type: memType})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(recalled, func(i, j int) bool {
		return recalled[i].LastAccessedAt.After(recalled[j].LastAccessedAt)
	})
	return recalled, nil
}

// recalledFromHit converts an index hit into a recalled memory,
// lifting the access timestamp out of reserved metadata
func recalledFromHit(hit index.Result, relevance float64) models.RecalledMemory {
	var lastAccessed time.Time
	metadata := make(map[string]string, len(hit.Metadata))
	for k, v := range hit.Metadata {
		if k == "last_accessed_at" {
			lastAccessed, _ = time.Parse(time.RFC3339Nano, v)
			continue
		}
		metadata[k] = v
	}

	return models.RecalledMemory{
		ID:             hit.ID,
		Type:           hit.Type,
		Content:        hit.Content,
		Metadata:       metadata,
		Relevance:      relevance,
		Timestamp:      hit.Timestamp,
		LastAccessedAt: lastAccessed,
	}
}
