// ABOUTME: Tiered memory manager with bounded working memory and long-term store
// ABOUTME: Owns promotion on eviction and the consolidation/forgetting policy
package core

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mnemo-ai/mnemo/internal/embed"
	"github.com/mnemo-ai/mnemo/internal/models"
)

const (
	// DefaultWorkingCapacity follows the span-of-attention literature
	DefaultWorkingCapacity = 7
	// DefaultPromotionThreshold is the importance above which an evicted
	// working-memory record is promoted instead of discarded
	DefaultPromotionThreshold = 0.7

	// Forgetting thresholds. A long-term entry is forgotten only when
	// ALL four hold; a memory survives if it is young, important,
	// frequently accessed, or recently touched.
	forgetMinAge        = 7 * 24 * time.Hour
	forgetMaxImportance = 0.3
	forgetMinAccess     = 2
	forgetMaxIdle       = 3 * 24 * time.Hour

	// Reinforcement: entries accessed more than this many times get an
	// importance boost on every consolidation pass, capped at 1.0
	reinforceAccessCount = 5
	reinforceFactor      = 1.1
)

// TieredConfig tunes the tiered memory manager
type TieredConfig struct {
	WorkingCapacity    int
	PromotionThreshold float64
	// SweepInterval > 0 runs consolidation on a background ticker
	// instead of inline after every store
	SweepInterval time.Duration
}

// ConsolidationReport summarizes one consolidation pass.
// Merged is always 0: merging of similar entries is not implemented,
// the counter is kept for the report shape.
type ConsolidationReport struct {
	Forgotten  int `json:"forgotten"`
	Reinforced int `json:"reinforced"`
	Merged     int `json:"merged"`
}

// ScoredRecord pairs a long-term record with its similarity to a query
type ScoredRecord struct {
	Record     models.MemoryRecord `json:"record"`
	Similarity float64             `json:"similarity"`
}

// TieredMemory holds a small bounded working memory and an unbounded
// long-term map. All mutation goes through its methods; the maps are
// never handed out by reference.
type TieredMemory struct {
	embedder *embed.Service
	cfg      TieredConfig

	mu       sync.Mutex
	working  []models.MemoryRecord
	longTerm map[string]*models.MemoryRecord

	sweepStop chan struct{}
	sweepDone chan struct{}
}

// NewTieredMemory creates a tiered memory manager. If the config asks
// for a background sweep the caller must Close the manager to stop it.
func NewTieredMemory(embedder *embed.Service, cfg TieredConfig) *TieredMemory {
	if cfg.WorkingCapacity <= 0 {
		cfg.WorkingCapacity = DefaultWorkingCapacity
	}
	if cfg.PromotionThreshold <= 0 {
		cfg.PromotionThreshold = DefaultPromotionThreshold
	}

	tm := &TieredMemory{
		embedder: embedder,
		cfg:      cfg,
		longTerm: make(map[string]*models.MemoryRecord),
	}

	if cfg.SweepInterval > 0 {
		tm.sweepStop = make(chan struct{})
		tm.sweepDone = make(chan struct{})
		go tm.sweepLoop()
	}

	return tm
}

// sweepLoop runs consolidation periodically until Close
func (tm *TieredMemory) sweepLoop() {
	defer close(tm.sweepDone)
	ticker := time.NewTicker(tm.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			tm.Consolidate()
		case <-tm.sweepStop:
			return
		}
	}
}

// Close stops the background sweeper if one is running
func (tm *TieredMemory) Close() {
	if tm.sweepStop != nil {
		close(tm.sweepStop)
		<-tm.sweepDone
		tm.sweepStop = nil
	}
}

// PushToWorkingMemory appends a record to working memory. On overflow
// the oldest record is evicted; if its importance exceeds the promotion
// threshold it is copied into long-term memory first, otherwise it is
// dropped silently.
func (tm *TieredMemory) PushToWorkingMemory(ctx context.Context, rec models.MemoryRecord) {
	now := time.Now()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	if rec.LastAccessedAt.IsZero() {
		rec.LastAccessedAt = now
	}

	var evicted *models.MemoryRecord
	tm.mu.Lock()
	tm.working = append(tm.working, rec)
	if len(tm.working) > tm.cfg.WorkingCapacity {
		old := tm.working[0]
		tm.working = append(tm.working[:0], tm.working[1:]...)
		if old.Importance > tm.cfg.PromotionThreshold {
			evicted = &old
		}
	}
	tm.mu.Unlock()

	if evicted != nil {
		// Promotion keeps the same type and importance
		tm.storeRecord(ctx, *evicted)
	}
}

// Store embeds content and inserts it into long-term memory, returning
// the new record's ID. Consolidation runs inline after every store
// unless a background sweep interval is configured.
func (tm *TieredMemory) Store(ctx context.Context, memType models.MemoryType, content string, importance float64, metadata map[string]string) string {
	now := time.Now()
	rec := models.MemoryRecord{
		ID:             uuid.NewString(),
		Type:           memType,
		Content:        content,
		Importance:     importance,
		Metadata:       metadata,
		CreatedAt:      now,
		UpdatedAt:      now,
		LastAccessedAt: now,
	}
	return tm.storeRecord(ctx, rec)
}

// storeRecord inserts a record, computing its embedding first when missing
func (tm *TieredMemory) storeRecord(ctx context.Context, rec models.MemoryRecord) string {
	if rec.Embedding == nil {
		rec.Embedding = tm.embedder.Embed(ctx, rec.Content)
	}

	tm.mu.Lock()
	tm.longTerm[rec.ID] = &rec
	tm.mu.Unlock()

	if tm.cfg.SweepInterval <= 0 {
		tm.Consolidate()
	}
	return rec.ID
}

// Search embeds the query and linearly scans long-term memory by
// cosine similarity, returning the top limit results descending.
// Matched records have their access stats bumped. O(n) per query;
// acceptable at thousands-to-low-millions scale, an indexed approach
// is needed beyond that.
func (tm *TieredMemory) Search(ctx context.Context, query string, limit int) ([]ScoredRecord, error) {
	if limit <= 0 {
		limit = DefaultRecallLimit
	}
	queryVec := tm.embedder.Embed(ctx, query)

	tm.mu.Lock()
	defer tm.mu.Unlock()

	scored := make([]ScoredRecord, 0, len(tm.longTerm))
	for _, rec := range tm.longTerm {
		sim, err := embed.CosineSimilarity(queryVec, rec.Embedding)
		if err != nil {
			return nil, err
		}
		scored = append(scored, ScoredRecord{Record: *rec, Similarity: sim})
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}

	now := time.Now()
	for i := range scored {
		rec := tm.longTerm[scored[i].Record.ID]
		rec.AccessCount++
		rec.LastAccessedAt = now
		scored[i].Record = *rec
	}
	return scored, nil
}

// Get returns a copy of a long-term record, bumping its access stats
func (tm *TieredMemory) Get(id string) (models.MemoryRecord, bool) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	rec, ok := tm.longTerm[id]
	if !ok {
		return models.MemoryRecord{}, false
	}
	rec.AccessCount++
	rec.LastAccessedAt = time.Now()
	return *rec, true
}

// Forget removes records from both tiers
func (tm *TieredMemory) Forget(ids []string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
		delete(tm.longTerm, id)
	}

	kept := tm.working[:0]
	for _, rec := range tm.working {
		if !drop[rec.ID] {
			kept = append(kept, rec)
		}
	}
	tm.working = kept
}

// Consolidate runs one pass of the forgetting policy over long-term
// memory. An entry is forgotten only when it is old, unimportant,
// rarely accessed, and idle, all at once. Frequently accessed entries
// are reinforced.
func (tm *TieredMemory) Consolidate() ConsolidationReport {
	now := time.Now()
	var report ConsolidationReport

	tm.mu.Lock()
	defer tm.mu.Unlock()

	for id, rec := range tm.longTerm {
		if rec.AccessCount > reinforceAccessCount {
			boosted := rec.Importance * reinforceFactor
			if boosted > 1.0 {
				boosted = 1.0
			}
			if boosted != rec.Importance {
				rec.Importance = boosted
				report.Reinforced++
			}
		}

		age := now.Sub(rec.CreatedAt)
		idle := now.Sub(rec.LastAccessedAt)
		if age > forgetMinAge &&
			rec.Importance < forgetMaxImportance &&
			rec.AccessCount < forgetMinAccess &&
			idle > forgetMaxIdle {
			delete(tm.longTerm, id)
			report.Forgotten++
		}
	}
	return report
}

// WorkingMemory returns a copy of the current working-memory contents,
// oldest first
func (tm *TieredMemory) WorkingMemory() []models.MemoryRecord {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	out := make([]models.MemoryRecord, len(tm.working))
	copy(out, tm.working)
	return out
}

// LongTermSize returns the number of long-term records
func (tm *TieredMemory) LongTermSize() int {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return len(tm.longTerm)
}
