// ABOUTME: Persistent store for typed key/value memory entries
// ABOUTME: Debounced atomic JSON writes, expiry, and consolidation pruning
package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mnemo-ai/mnemo/internal/models"
)

const (
	// formatVersion is written into the on-disk document
	formatVersion = 1
	// DefaultSaveDelay is the debounce window for durable writes.
	// A crash inside the window loses the most recent mutations; an
	// accepted risk for preference and pattern data.
	DefaultSaveDelay = 2 * time.Second

	// Consolidation prunes entries below this confidence that were
	// never accessed
	pruneConfidence = 0.3
)

// Document is the on-disk format: one JSON file rewritten wholesale
// on every debounced save
type Document struct {
	Version int             `json:"version"`
	SavedAt time.Time       `json:"saved_at"`
	Entries []*models.Entry `json:"entries"`
}

// StoreRequest describes a new entry
type StoreRequest struct {
	Type     string
	Key      string
	Value    any
	Metadata *models.EntryMetadata
}

// Filter narrows a query. All set fields must match.
type Filter struct {
	Type        string
	KeyContains string   // partial, case-insensitive
	Tags        []string // any-of intersection
	ProjectID   string
	Limit       int
}

// Report summarizes one consolidation pass. Merged is always 0:
// merging of similar entries is not implemented, only pruning.
type Report struct {
	Expired int `json:"expired"`
	Pruned  int `json:"pruned"`
	Merged  int `json:"merged"`
}

// Stats describes the store's current state
type Stats struct {
	TotalEntries int    `json:"total_entries"`
	Path         string `json:"path"`
}

// Store owns the persistent entry map. All mutation goes through its
// methods; every mutating call marks the store dirty and restarts the
// debounce timer, so bursts of writes coalesce into a single save.
type Store struct {
	path      string
	saveDelay time.Duration

	// saveMu serializes flushes. The snapshot is taken under mu but the
	// disk write happens outside it; without this, a re-armed timer or
	// ForceSave could interleave two writers on the same temp path.
	saveMu sync.Mutex

	mu      sync.Mutex
	entries map[string]*models.Entry
	dirty   bool
	timer   *time.Timer
	saves   int
	closed  bool
}

// Open loads the store from path. A missing file means first run and
// starts empty; any other read error is logged and treated as an empty
// store rather than blocking startup.
func Open(path string) (*Store, error) {
	return OpenWithDelay(path, DefaultSaveDelay)
}

// OpenWithDelay opens a store with a custom debounce window
func OpenWithDelay(path string, saveDelay time.Duration) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is required")
	}
	if saveDelay <= 0 {
		saveDelay = DefaultSaveDelay
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	s := &Store{
		path:      path,
		saveDelay: saveDelay,
		entries:   make(map[string]*models.Entry),
	}
	s.load()
	return s, nil
}

// load reads the on-disk document into memory
func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: failed to read store at %s, starting empty: %v", s.path, err)
		}
		return
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Printf("Warning: failed to parse store at %s, starting empty: %v", s.path, err)
		return
	}

	for _, entry := range doc.Entries {
		s.entries[entry.ID] = entry
	}
}

// Store creates a new entry and schedules a debounced save
func (s *Store) Store(req StoreRequest) (*models.Entry, error) {
	if req.Key == "" {
		return nil, fmt.Errorf("entry key is required")
	}

	metadata := models.EntryMetadata{Confidence: 1.0, Tags: []string{}}
	if req.Metadata != nil {
		metadata = *req.Metadata
		if metadata.Confidence == 0 {
			metadata.Confidence = 1.0
		}
		if metadata.Tags == nil {
			metadata.Tags = []string{}
		}
	}

	now := time.Now()
	entry := &models.Entry{
		ID:             uuid.NewString(),
		Type:           req.Type,
		Key:            req.Key,
		Value:          req.Value,
		Metadata:       metadata,
		CreatedAt:      now,
		UpdatedAt:      now,
		LastAccessedAt: now,
	}

	s.mu.Lock()
	s.entries[entry.ID] = entry
	s.scheduleSaveLocked()
	out := *entry
	s.mu.Unlock()

	return &out, nil
}

// Retrieve finds an entry by exact key. Access stats are bumped as a
// side effect; retrieval strengthens memory.
func (s *Store) Retrieve(key string) *models.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.entries {
		if entry.Key == key && !isExpired(entry, time.Now()) {
			entry.AccessCount++
			entry.LastAccessedAt = time.Now()
			s.scheduleSaveLocked()
			out := *entry
			return &out
		}
	}
	return nil
}

// Query returns entries matching the filter, sorted by a composite
// relevance score favoring frequently accessed entries with recency as
// a fine-grained tiebreak. Every returned entry's access stats are
// bumped; query is deliberately not side-effect-free.
func (s *Store) Query(filter Filter) []*models.Entry {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*models.Entry
	for _, entry := range s.entries {
		if isExpired(entry, now) {
			continue
		}
		if filter.Type != "" && entry.Type != filter.Type {
			continue
		}
		if filter.KeyContains != "" &&
			!strings.Contains(strings.ToLower(entry.Key), strings.ToLower(filter.KeyContains)) {
			continue
		}
		if filter.ProjectID != "" && entry.Metadata.ProjectID != filter.ProjectID {
			continue
		}
		if len(filter.Tags) > 0 && !hasAnyTag(entry.Metadata.Tags, filter.Tags) {
			continue
		}
		matched = append(matched, entry)
	}

	sort.Slice(matched, func(i, j int) bool {
		return relevanceScore(matched[i]) > relevanceScore(matched[j])
	})

	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	out := make([]*models.Entry, len(matched))
	for i, entry := range matched {
		entry.AccessCount++
		entry.LastAccessedAt = now
		copied := *entry
		out[i] = &copied
	}
	if len(matched) > 0 {
		s.scheduleSaveLocked()
	}
	return out
}

// relevanceScore is the explicit, reproducible query ordering:
// access count dominates, last access time breaks ties
func relevanceScore(entry *models.Entry) float64 {
	return float64(entry.AccessCount)*1000 + float64(entry.LastAccessedAt.UnixMilli())/1_000_000
}

// Update replaces an entry's value by ID
func (s *Store) Update(id string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return fmt.Errorf("no entry with id %s", id)
	}
	entry.Value = value
	entry.UpdatedAt = time.Now()
	s.scheduleSaveLocked()
	return nil
}

// Delete removes an entry by ID
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return fmt.Errorf("no entry with id %s", id)
	}
	delete(s.entries, id)
	s.scheduleSaveLocked()
	return nil
}

// ClearType removes every entry of the given type, returning the count
func (s *Store) ClearType(entryType string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.entries {
		if entry.Type == entryType {
			delete(s.entries, id)
			removed++
		}
	}
	if removed > 0 {
		s.scheduleSaveLocked()
	}
	return removed
}

// Consolidate deletes expired entries and never-accessed entries below
// the confidence floor. True merging of similar entries is not yet
// implemented; the Merged counter is kept for the report shape.
func (s *Store) Consolidate() Report {
	now := time.Now()
	var report Report

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entry := range s.entries {
		if isExpired(entry, now) {
			delete(s.entries, id)
			report.Expired++
			continue
		}
		if entry.Metadata.Confidence < pruneConfidence && entry.AccessCount == 0 {
			delete(s.entries, id)
			report.Pruned++
		}
	}
	if report.Expired > 0 || report.Pruned > 0 {
		s.scheduleSaveLocked()
	}
	return report
}

// Stats returns the current entry count and path
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		TotalEntries: len(s.entries),
		Path:         s.path,
	}
}

// scheduleSaveLocked marks the store dirty and restarts the debounce
// timer. Must be called with the mutex held.
func (s *Store) scheduleSaveLocked() {
	s.dirty = true
	if s.closed {
		return
	}
	if s.timer == nil {
		s.timer = time.AfterFunc(s.saveDelay, func() {
			if err := s.flush(); err != nil {
				log.Printf("Warning: debounced save failed: %v", err)
			}
		})
		return
	}
	s.timer.Reset(s.saveDelay)
}

// flush serializes the full entry set to disk. The write goes to a
// temp file first and is renamed into place, so a crash mid-write
// never corrupts the store. On failure the dirty flag stays set and a
// later save retries. Flushes run one at a time.
func (s *Store) flush() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}

	doc := Document{
		Version: formatVersion,
		SavedAt: time.Now(),
		Entries: make([]*models.Entry, 0, len(s.entries)),
	}
	for _, entry := range s.entries {
		copied := *entry
		doc.Entries = append(doc.Entries, &copied)
	}
	sort.Slice(doc.Entries, func(i, j int) bool {
		return doc.Entries[i].ID < doc.Entries[j].ID
	})
	s.dirty = false
	s.saves++
	s.mu.Unlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		s.markDirty()
		return fmt.Errorf("failed to serialize store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		s.markDirty()
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.markDirty()
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}

// markDirty re-arms the store after a failed save
func (s *Store) markDirty() {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}

// ForceSave flushes immediately, bypassing the debounce. Shutdown
// paths use this.
func (s *Store) ForceSave() error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()
	return s.flush()
}

// Close stops the debounce timer and flushes pending mutations
func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()
	return s.flush()
}

// isExpired reports whether an entry's expiry is in the past
func isExpired(entry *models.Entry, now time.Time) bool {
	return entry.Metadata.Expires != nil && entry.Metadata.Expires.Before(now)
}

// hasAnyTag reports whether have shares at least one tag with want
func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
