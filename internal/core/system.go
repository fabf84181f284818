// ABOUTME: MemorySystem facade exposing the stable consumer seams
// ABOUTME: remember, recall, forget, context, code and decision search
package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mnemo-ai/mnemo/internal/embed"
	"github.com/mnemo-ai/mnemo/internal/index"
	"github.com/mnemo-ai/mnemo/internal/models"
)

// ErrNotInitialized is returned by every operation invoked before
// Initialize completes, so callers can distinguish "no memories"
// from "not ready"
var ErrNotInitialized = errors.New("memory system not initialized")

// DefaultImportance applies when a caller stores a memory without one
const DefaultImportance = 0.5

// decisionImportance makes recorded decisions survive consolidation
// longer than routine memories
const decisionImportance = 0.8

// SystemOptions configure a MemorySystem instance
type SystemOptions struct {
	Embedder           *embed.Service
	Index              index.Index
	WorkingCapacity    int
	PromotionThreshold float64
	SweepInterval      time.Duration
	MinRelevance       float64
}

// SystemStats snapshots the memory system's current state
type SystemStats struct {
	Index         index.Stats `json:"index"`
	WorkingMemory int         `json:"working_memory"`
	LongTerm      int         `json:"long_term"`
}

// MemorySystem wires the embedder, vector index, retriever, and
// tiered manager behind the consumer contract. Construct one instance
// per application session and pass it to consumers; there is no
// package-level singleton.
type MemorySystem struct {
	embedder  *embed.Service
	index     index.Index
	retriever *Retriever
	tiered    *TieredMemory

	minRelevance float64

	mu          sync.RWMutex
	initialized bool
}

// NewMemorySystem creates an uninitialized memory system
func NewMemorySystem(opts SystemOptions) *MemorySystem {
	return &MemorySystem{
		embedder:  opts.Embedder,
		index:     opts.Index,
		retriever: NewRetriever(opts.Embedder, opts.Index),
		tiered: NewTieredMemory(opts.Embedder, TieredConfig{
			WorkingCapacity:    opts.WorkingCapacity,
			PromotionThreshold: opts.PromotionThreshold,
			SweepInterval:      opts.SweepInterval,
		}),
		minRelevance: opts.MinRelevance,
	}
}

// Initialize verifies the embedder and index are usable and marks the
// system ready. Retrieval and storage calls before this fail fast with
// ErrNotInitialized.
func (m *MemorySystem) Initialize(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.embedder == nil || m.index == nil {
		return fmt.Errorf("memory system requires an embedder and an index")
	}
	if m.embedder.Dimensions() <= 0 {
		return fmt.Errorf("embedder reports invalid dimension %d", m.embedder.Dimensions())
	}

	m.initialized = true
	return nil
}

// ensureReady fails fast when Initialize has not completed
func (m *MemorySystem) ensureReady() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.initialized {
		return ErrNotInitialized
	}
	return nil
}

// Remember stores content as a new memory: it is embedded, indexed for
// semantic search, and pushed through working memory where the tiered
// manager decides promotion and eviction.
func (m *MemorySystem) Remember(ctx context.Context, content string, memType models.MemoryType, metadata map[string]string) (string, error) {
	if err := m.ensureReady(); err != nil {
		return "", err
	}
	if content == "" {
		return "", fmt.Errorf("cannot remember empty content")
	}
	if memType == "" {
		memType = models.TypeSemantic
	}

	importance := DefaultImportance
	if raw, ok := metadata["importance"]; ok {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed >= 0 && parsed <= 1 {
			importance = parsed
		}
	}

	vec := m.embedder.EmbedWithContext(ctx, content, embed.ContextHints{
		Filename: metadata["file"],
		Language: metadata["language"],
	})

	id := uuid.NewString()
	now := time.Now()
	rec := index.Record{
		ID:        id,
		Content:   content,
		Type:      memType,
		Metadata:  metadata,
		Embedding: vec,
		Timestamp: now,
	}
	if err := m.index.Insert(ctx, []index.Record{rec}); err != nil {
		return "", fmt.Errorf("failed to index memory: %w", err)
	}

	m.tiered.PushToWorkingMemory(ctx, models.MemoryRecord{
		ID:             id,
		Type:           memType,
		Content:        content,
		Embedding:      vec,
		Importance:     importance,
		Metadata:       metadata,
		CreatedAt:      now,
		UpdatedAt:      now,
		LastAccessedAt: now,
	})

	return id, nil
}

// Recall returns memories relevant to the query, most relevant first
func (m *MemorySystem) Recall(ctx context.Context, query string, k int, opts RecallOptions) ([]models.RecalledMemory, error) {
	if err := m.ensureReady(); err != nil {
		return nil, err
	}
	if opts.MinRelevance == 0 {
		opts.MinRelevance = m.minRelevance
	}
	return m.retriever.Recall(ctx, query, k, opts)
}

// Forget removes memories from the index and both tiers
func (m *MemorySystem) Forget(ctx context.Context, ids []string) error {
	if err := m.ensureReady(); err != nil {
		return err
	}
	if err := m.index.Delete(ctx, ids); err != nil {
		return err
	}
	m.tiered.Forget(ids)
	return nil
}

// RelevantContext recalls and partitions memories for a task
func (m *MemorySystem) RelevantContext(ctx context.Context, task string, limit int) (*models.ContextBundle, error) {
	if err := m.ensureReady(); err != nil {
		return nil, err
	}
	return m.retriever.RelevantContext(ctx, task, limit, m.minRelevance)
}

// FindSimilarCode recalls code memories similar to a snippet
func (m *MemorySystem) FindSimilarCode(ctx context.Context, snippet string, limit int) ([]models.RecalledMemory, error) {
	if err := m.ensureReady(); err != nil {
		return nil, err
	}
	return m.retriever.Recall(ctx, snippet, limit, RecallOptions{
		Type:         models.TypeCode,
		MinRelevance: m.minRelevance,
	})
}

// RememberDecision stores an architectural or design decision with its
// rationale at elevated importance
func (m *MemorySystem) RememberDecision(ctx context.Context, decision, rationale string) (string, error) {
	if err := m.ensureReady(); err != nil {
		return "", err
	}

	content := decision
	if rationale != "" {
		content = fmt.Sprintf("%s\n\nRationale: %s", decision, rationale)
	}
	return m.Remember(ctx, content, models.TypeDecision, map[string]string{
		"importance": strconv.FormatFloat(decisionImportance, 'f', -1, 64),
	})
}

// SearchDecisions recalls past decisions relevant to a query
func (m *MemorySystem) SearchDecisions(ctx context.Context, query string, limit int) ([]models.RecalledMemory, error) {
	if err := m.ensureReady(); err != nil {
		return nil, err
	}
	return m.retriever.Recall(ctx, query, limit, RecallOptions{
		Type:         models.TypeDecision,
		MinRelevance: m.minRelevance,
	})
}

// Recent returns the most recently accessed memories of a type
func (m *MemorySystem) Recent(ctx context.Context, memType models.MemoryType, limit int) ([]models.RecalledMemory, error) {
	if err := m.ensureReady(); err != nil {
		return nil, err
	}
	return m.retriever.Recent(ctx, memType, limit)
}

// Consolidate runs one consolidation pass over long-term memory
func (m *MemorySystem) Consolidate() (ConsolidationReport, error) {
	if err := m.ensureReady(); err != nil {
		return ConsolidationReport{}, err
	}
	return m.tiered.Consolidate(), nil
}

// Stats snapshots the index and tier sizes
func (m *MemorySystem) Stats() (SystemStats, error) {
	if err := m.ensureReady(); err != nil {
		return SystemStats{}, err
	}
	return SystemStats{
		Index:         m.index.Stats(),
		WorkingMemory: len(m.tiered.WorkingMemory()),
		LongTerm:      m.tiered.LongTermSize(),
	}, nil
}

// Tiered exposes the tiered manager for callers that need direct
// working-memory or long-term operations
func (m *MemorySystem) Tiered() *TieredMemory {
	return m.tiered
}

// Close stops background work. The system cannot be used afterwards.
func (m *MemorySystem) Close() {
	m.mu.Lock()
	m.initialized = false
	m.mu.Unlock()
	m.tiered.Close()
}
