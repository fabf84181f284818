// ABOUTME: Unit tests for the persistent store's debounce, persistence, and queries
// ABOUTME: Uses short debounce windows and temp dirs for fast round trips
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mnemo-ai/mnemo/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memory.json")
	s, err := OpenWithDelay(path, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func (s *Store) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func TestStore_RequiresPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Error("Expected error for empty path")
	}
}

func TestStore_StoreAndRetrieve(t *testing.T) {
	s := newTestStore(t)

	entry, err := s.Store(StoreRequest{Type: "pattern", Key: "error-wrapping", Value: "always wrap with %w"})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if entry.ID == "" {
		t.Fatal("Store returned empty ID")
	}
	if entry.Metadata.Confidence != 1.0 {
		t.Errorf("Default confidence = %v, want 1.0", entry.Metadata.Confidence)
	}

	got := s.Retrieve("error-wrapping")
	if got == nil {
		t.Fatal("Retrieve returned nil")
	}
	if got.Value != "always wrap with %w" {
		t.Errorf("Value = %v", got.Value)
	}
	if got.AccessCount != 1 {
		t.Errorf("Expected access count bumped to 1, got %d", got.AccessCount)
	}
}

func TestStore_RetrieveMisses(t *testing.T) {
	s := newTestStore(t)
	if got := s.Retrieve("nope"); got != nil {
		t.Errorf("Expected nil for unknown key, got %v", got)
	}
}

func TestStore_DebounceCoalescesWrites(t *testing.T) {
	s := newTestStore(t)

	for _, key := range []string{"a", "b", "c"} {
		if _, err := s.Store(StoreRequest{Type: "pattern", Key: key, Value: key}); err != nil {
			t.Fatalf("Store failed: %v", err)
		}
	}

	// Inside the debounce window nothing has been written
	if got := s.saveCount(); got != 0 {
		t.Errorf("Expected no saves inside the debounce window, got %d", got)
	}

	deadline := time.Now().Add(2 * time.Second)
	for s.saveCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if got := s.saveCount(); got != 1 {
		t.Errorf("Expected 1 coalesced save, got %d", got)
	}

	// All three mutations landed in the single write
	data, err := os.ReadFile(s.path)
	if err != nil {
		t.Fatalf("Failed to read store file: %v", err)
	}
	for _, key := range []string{"a", "b", "c"} {
		if !strings.Contains(string(data), `"key": "`+key+`"`) {
			t.Errorf("Saved document missing key %q", key)
		}
	}
}

func TestStore_ConcurrentSavesStayWellFormed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	s, err := OpenWithDelay(path, time.Millisecond)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}

	// Mutations racing ForceSave against the debounce timer must never
	// interleave two writers on the store file
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				key := fmt.Sprintf("entry-%d-%d", n, j)
				if _, err := s.Store(StoreRequest{Type: "pattern", Key: key, Value: key}); err != nil {
					t.Errorf("Store failed: %v", err)
					return
				}
				if err := s.ForceSave(); err != nil {
					t.Errorf("ForceSave failed: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read store file: %v", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Store file is not valid JSON after concurrent saves: %v", err)
	}
	if len(doc.Entries) != 80 {
		t.Errorf("Expected 80 entries on disk, got %d", len(doc.Entries))
	}

	reopened, err := OpenWithDelay(path, time.Millisecond)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()
	if got := reopened.Stats().TotalEntries; got != 80 {
		t.Errorf("Expected 80 entries after reopen, got %d", got)
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	s, err := OpenWithDelay(path, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}

	if err := s.SetPreference("theme", "dark"); err != nil {
		t.Fatalf("SetPreference failed: %v", err)
	}
	if err := s.ForceSave(); err != nil {
		t.Fatalf("ForceSave failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := OpenWithDelay(path, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()

	value, ok := reopened.GetPreference("theme")
	if !ok {
		t.Fatal("Preference lost across reopen")
	}
	if value != "dark" {
		t.Errorf("Preference = %v, want dark", value)
	}
}

func TestStore_CloseFlushesPending(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	s, err := OpenWithDelay(path, time.Hour)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}

	if _, err := s.Store(StoreRequest{Type: "pattern", Key: "pending", Value: 1}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected store file after close: %v", err)
	}
}

func TestStore_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write corrupt file: %v", err)
	}

	s, err := OpenWithDelay(path, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("Open should tolerate corruption: %v", err)
	}
	defer s.Close()

	if got := s.Stats().TotalEntries; got != 0 {
		t.Errorf("Expected empty store after corruption, got %d entries", got)
	}
}

func TestStore_QueryFilters(t *testing.T) {
	s := newTestStore(t)

	mustStore := func(req StoreRequest) {
		t.Helper()
		if _, err := s.Store(req); err != nil {
			t.Fatalf("Store failed: %v", err)
		}
	}
	mustStore(StoreRequest{Type: "pattern", Key: "retry-backoff", Value: 1, Metadata: &models.EntryMetadata{
		ProjectID: "api", Tags: []string{"resilience"},
	}})
	mustStore(StoreRequest{Type: "pattern", Key: "retry-jitter", Value: 2, Metadata: &models.EntryMetadata{
		ProjectID: "worker",
	}})
	mustStore(StoreRequest{Type: "solution", Key: "retry-storm", Value: 3})

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"by type", Filter{Type: "solution"}, []string{"retry-storm"}},
		{"by key substring", Filter{Type: "pattern", KeyContains: "JITTER"}, []string{"retry-jitter"}},
		{"by project", Filter{ProjectID: "api"}, []string{"retry-backoff"}},
		{"by tag", Filter{Tags: []string{"resilience", "missing"}}, []string{"retry-backoff"}},
		{"no match", Filter{Type: "pattern", KeyContains: "zzz"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Query(tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("Got %d entries, want %d", len(got), len(tt.want))
			}
			for i, key := range tt.want {
				if got[i].Key != key {
					t.Errorf("Entry %d key = %q, want %q", i, got[i].Key, key)
				}
			}
		})
	}
}

func TestStore_QueryOrdersByAccessCount(t *testing.T) {
	s := newTestStore(t)

	for _, key := range []string{"cold", "hot"} {
		if _, err := s.Store(StoreRequest{Type: "pattern", Key: key, Value: key}); err != nil {
			t.Fatalf("Store failed: %v", err)
		}
	}
	// Retrieving "hot" repeatedly drives its score past "cold"
	for i := 0; i < 3; i++ {
		s.Retrieve("hot")
	}

	got := s.Query(Filter{Type: "pattern"})
	if len(got) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(got))
	}
	if got[0].Key != "hot" {
		t.Errorf("Expected frequently accessed entry first, got %q", got[0].Key)
	}
}

func TestStore_QueryBumpsAccessStats(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Store(StoreRequest{Type: "pattern", Key: "observed", Value: 1}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	first := s.Query(Filter{Type: "pattern"})
	if first[0].AccessCount != 1 {
		t.Errorf("First query access count = %d, want 1", first[0].AccessCount)
	}
	second := s.Query(Filter{Type: "pattern"})
	if second[0].AccessCount != 2 {
		t.Errorf("Second query access count = %d, want 2", second[0].AccessCount)
	}
}

func TestStore_QueryLimit(t *testing.T) {
	s := newTestStore(t)

	for _, key := range []string{"one", "two", "three"} {
		if _, err := s.Store(StoreRequest{Type: "pattern", Key: key, Value: key}); err != nil {
			t.Fatalf("Store failed: %v", err)
		}
	}

	got := s.Query(Filter{Type: "pattern", Limit: 2})
	if len(got) != 2 {
		t.Errorf("Expected 2 entries with limit, got %d", len(got))
	}
}

func TestStore_ExpiredEntriesInvisible(t *testing.T) {
	s := newTestStore(t)

	past := time.Now().Add(-time.Hour)
	if _, err := s.Store(StoreRequest{Type: "pattern", Key: "stale", Value: 1, Metadata: &models.EntryMetadata{
		Expires: &past,
	}}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	if got := s.Retrieve("stale"); got != nil {
		t.Error("Expired entry visible via Retrieve")
	}
	if got := s.Query(Filter{Type: "pattern"}); len(got) != 0 {
		t.Errorf("Expired entry visible via Query: %d results", len(got))
	}
}

func TestStore_UpdateAndDelete(t *testing.T) {
	s := newTestStore(t)

	entry, err := s.Store(StoreRequest{Type: "pattern", Key: "mutable", Value: "v1"})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	if err := s.Update(entry.ID, "v2"); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got := s.Retrieve("mutable"); got.Value != "v2" {
		t.Errorf("Value after update = %v, want v2", got.Value)
	}

	if err := s.Delete(entry.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got := s.Retrieve("mutable"); got != nil {
		t.Error("Entry visible after delete")
	}

	if err := s.Update("missing", "x"); err == nil {
		t.Error("Expected error updating missing entry")
	}
	if err := s.Delete("missing"); err == nil {
		t.Error("Expected error deleting missing entry")
	}
}

func TestStore_ClearType(t *testing.T) {
	s := newTestStore(t)

	for _, key := range []string{"p1", "p2"} {
		if _, err := s.Store(StoreRequest{Type: "pattern", Key: key, Value: key}); err != nil {
			t.Fatalf("Store failed: %v", err)
		}
	}
	if _, err := s.Store(StoreRequest{Type: "solution", Key: "keep", Value: 1}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	if got := s.ClearType("pattern"); got != 2 {
		t.Errorf("ClearType removed %d, want 2", got)
	}
	if got := s.Stats().TotalEntries; got != 1 {
		t.Errorf("Expected 1 remaining entry, got %d", got)
	}
}

func TestStore_Consolidate(t *testing.T) {
	s := newTestStore(t)

	past := time.Now().Add(-time.Hour)
	mustStore := func(req StoreRequest) {
		t.Helper()
		if _, err := s.Store(req); err != nil {
			t.Fatalf("Store failed: %v", err)
		}
	}
	mustStore(StoreRequest{Type: "pattern", Key: "expired", Value: 1, Metadata: &models.EntryMetadata{Expires: &past}})
	mustStore(StoreRequest{Type: "pattern", Key: "doubtful", Value: 2, Metadata: &models.EntryMetadata{Confidence: 0.1}})
	mustStore(StoreRequest{Type: "pattern", Key: "solid", Value: 3})

	report := s.Consolidate()
	if report.Expired != 1 {
		t.Errorf("Expired = %d, want 1", report.Expired)
	}
	if report.Pruned != 1 {
		t.Errorf("Pruned = %d, want 1", report.Pruned)
	}
	if report.Merged != 0 {
		t.Errorf("Merged = %d, want 0", report.Merged)
	}
	if got := s.Stats().TotalEntries; got != 1 {
		t.Errorf("Expected 1 surviving entry, got %d", got)
	}
}

func TestStore_ConsolidateSparesAccessedLowConfidence(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Store(StoreRequest{Type: "pattern", Key: "proven", Value: 1, Metadata: &models.EntryMetadata{Confidence: 0.1}}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	s.Retrieve("proven")

	report := s.Consolidate()
	if report.Pruned != 0 {
		t.Errorf("Accessed entry was pruned")
	}
}
