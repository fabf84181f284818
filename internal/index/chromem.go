// ABOUTME: chromem-go backed vector index implementation
// ABOUTME: Embedded pure-Go vector store with optional on-disk persistence
package index

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/mnemo-ai/mnemo/internal/embed"
	"github.com/mnemo-ai/mnemo/internal/models"
)

const collectionName = "memories"

// Reserved metadata keys used to round-trip record fields
const (
	metaType         = "type"
	metaTimestamp    = "timestamp"
	metaLastAccessed = "last_accessed_at"
)

// ChromemIndex implements Index on top of chromem-go
type ChromemIndex struct {
	db   *chromem.DB
	col  *chromem.Collection
	path string
	mu   sync.RWMutex
}

// NewChromemIndex opens a persistent index at the given path.
// An empty path creates an in-memory index, useful for tests.
func NewChromemIndex(path string) (*ChromemIndex, error) {
	var (
		db  *chromem.DB
		err error
	)
	if path == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(path, false)
		if err != nil {
			return nil, fmt.Errorf("failed to open vector index at %s: %w", path, err)
		}
	}

	// Embeddings are always supplied by the caller, so no embedding func
	col, err := db.GetOrCreateCollection(collectionName, nil, noEmbedding)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	return &ChromemIndex{
		db:   db,
		col:  col,
		path: path,
	}, nil
}

// noEmbedding rejects documents without a precomputed embedding.
// Every insert path supplies vectors explicitly.
func noEmbedding(_ context.Context, _ string) ([]float32, error) {
	return nil, fmt.Errorf("index requires precomputed embeddings")
}

// Insert upserts records by ID. Records with a zero-magnitude
// embedding are skipped: a zero vector means the embedding degraded,
// and chromem's normalization would turn it into NaN components that
// poison every later search against the persisted index.
func (idx *ChromemIndex) Insert(ctx context.Context, records []Record) error {
	idx.mu.RLock()
	col := idx.col
	idx.mu.RUnlock()

	for _, rec := range records {
		if embed.IsZeroVector(rec.Embedding) {
			log.Printf("Warning: skipping record %s with degraded zero embedding", rec.ID)
			continue
		}
		metadata := make(map[string]string, len(rec.Metadata)+3)
		for k, v := range rec.Metadata {
			metadata[k] = v
		}
		metadata[metaType] = string(rec.Type)
		ts := rec.Timestamp
		if ts.IsZero() {
			ts = time.Now()
		}
		metadata[metaTimestamp] = ts.Format(time.RFC3339Nano)
		if _, ok := metadata[metaLastAccessed]; !ok {
			metadata[metaLastAccessed] = ts.Format(time.RFC3339Nano)
		}

		doc := chromem.Document{
			ID:        rec.ID,
			Content:   rec.Content,
			Embedding: rec.Embedding,
			Metadata:  metadata,
		}
		if err := col.AddDocument(ctx, doc); err != nil {
			return fmt.Errorf("failed to insert record %s: %w", rec.ID, err)
		}
	}
	return nil
}

// Search returns up to k nearest neighbors ranked by ascending cosine
// distance. A zero query vector carries no information and matches
// nothing.
func (idx *ChromemIndex) Search(ctx context.Context, query []float32, k int, filter *Filter) ([]Result, error) {
	if embed.IsZeroVector(query) {
		return nil, nil
	}

	idx.mu.RLock()
	col := idx.col
	idx.mu.RUnlock()

	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}
	if k <= 0 {
		return nil, nil
	}

	var where map[string]string
	if filter != nil {
		where = make(map[string]string, len(filter.Where)+1)
		for key, v := range filter.Where {
			where[key] = v
		}
		if filter.Type != "" {
			where[metaType] = string(filter.Type)
		}
		if len(where) == 0 {
			where = nil
		}
	}

	raw, err := col.QueryEmbedding(ctx, query, k, where, nil)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	results := make([]Result, 0, len(raw))
	for _, r := range raw {
		results = append(results, resultFromChromem(r))
	}
	return results, nil
}

// resultFromChromem converts a chromem hit, inverting similarity into
// the ascending-distance score the contract promises. A NaN similarity
// (zero-magnitude vector on either side) clamps to the maximum
// distance so the hit ranks last and never passes a relevance floor.
func resultFromChromem(r chromem.Result) Result {
	metadata := make(map[string]string, len(r.Metadata))
	var ts time.Time
	memType := models.MemoryType(r.Metadata[metaType])
	for k, v := range r.Metadata {
		switch k {
		case metaType:
			continue
		case metaTimestamp:
			ts, _ = time.Parse(time.RFC3339Nano, v)
			continue
		}
		metadata[k] = v
	}

	score := 1 - float64(r.Similarity)
	if math.IsNaN(score) {
		score = 1
	}

	return Result{
		ID:        r.ID,
		Content:   r.Content,
		Type:      memType,
		Metadata:  metadata,
		Score:     score,
		Timestamp: ts,
	}
}

// Delete removes records by ID. Missing IDs are ignored.
func (idx *ChromemIndex) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	idx.mu.RLock()
	col := idx.col
	idx.mu.RUnlock()

	if err := col.Delete(ctx, nil, nil, ids...); err != nil {
		return fmt.Errorf("failed to delete records: %w", err)
	}
	return nil
}

// Clear drops all records, recreating the collection
func (idx *ChromemIndex) Clear(_ context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if err := idx.db.DeleteCollection(collectionName); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}
	col, err := idx.db.GetOrCreateCollection(collectionName, nil, noEmbedding)
	if err != nil {
		return fmt.Errorf("failed to recreate collection: %w", err)
	}
	idx.col = col
	return nil
}

// Stats returns the current record count and storage path
func (idx *ChromemIndex) Stats() Stats {
	idx.mu.RLock()
	col := idx.col
	idx.mu.RUnlock()

	return Stats{
		TotalMemories: col.Count(),
		DBPath:        idx.path,
	}
}
