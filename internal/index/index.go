// ABOUTME: Vector index contract for memory records
// ABOUTME: Insert, k-NN search by cosine distance, delete, clear, stats
package index

import (
	"context"
	"time"

	"github.com/mnemo-ai/mnemo/internal/models"
)

// Record is what the index stores for each memory
type Record struct {
	ID        string
	Content   string
	Type      models.MemoryType
	Metadata  map[string]string
	Embedding []float32
	Timestamp time.Time
}

// Result is a search hit. Score is cosine distance: 0 is identical,
// results are ranked ascending (closest first).
type Result struct {
	ID        string
	Content   string
	Type      models.MemoryType
	Metadata  map[string]string
	Score     float64
	Timestamp time.Time
}

// Filter restricts search candidates before ranking
type Filter struct {
	Type  models.MemoryType
	Where map[string]string
}

// Stats describes the current index contents
type Stats struct {
	TotalMemories int    `json:"total_memories"`
	DBPath        string `json:"db_path"`
}

// Index is the vector storage contract the rest of the subsystem
// builds on. No transactional guarantee holds across calls; callers
// tolerate eventually-consistent reads immediately after a write.
type Index interface {
	Insert(ctx context.Context, records []Record) error
	Search(ctx context.Context, query []float32, k int, filter *Filter) ([]Result, error)
	Delete(ctx context.Context, ids []string) error
	Clear(ctx context.Context) error
	Stats() Stats
}
