// ABOUTME: Integration-style tests for the MemorySystem facade
// ABOUTME: Runs against an in-memory index with the hash embedder
package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mnemo-ai/mnemo/internal/embed"
	"github.com/mnemo-ai/mnemo/internal/index"
	"github.com/mnemo-ai/mnemo/internal/models"
)

func newTestSystem(t *testing.T) *MemorySystem {
	t.Helper()
	idx, err := index.NewChromemIndex("")
	if err != nil {
		t.Fatalf("Failed to create index: %v", err)
	}
	system := NewMemorySystem(SystemOptions{
		Embedder: embed.NewService(embed.NewHashProvider()),
		Index:    idx,
	})
	if err := system.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	t.Cleanup(system.Close)
	return system
}

func TestMemorySystem_FailsFastBeforeInitialize(t *testing.T) {
	idx, err := index.NewChromemIndex("")
	if err != nil {
		t.Fatalf("Failed to create index: %v", err)
	}
	system := NewMemorySystem(SystemOptions{
		Embedder: embed.NewService(embed.NewHashProvider()),
		Index:    idx,
	})
	ctx := context.Background()

	if _, err := system.Remember(ctx, "x", models.TypeCode, nil); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Remember: expected ErrNotInitialized, got %v", err)
	}
	if _, err := system.Recall(ctx, "x", 5, RecallOptions{}); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Recall: expected ErrNotInitialized, got %v", err)
	}
	if err := system.Forget(ctx, []string{"x"}); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Forget: expected ErrNotInitialized, got %v", err)
	}
	if _, err := system.Stats(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Stats: expected ErrNotInitialized, got %v", err)
	}
}

func TestMemorySystem_InitializeRequiresParts(t *testing.T) {
	system := NewMemorySystem(SystemOptions{
		Embedder: embed.NewService(embed.NewHashProvider()),
	})
	if err := system.Initialize(context.Background()); err == nil {
		t.Error("Expected error initializing without an index")
	}
}

func TestMemorySystem_RememberRecallRoundTrip(t *testing.T) {
	system := newTestSystem(t)
	ctx := context.Background()

	id, err := system.Remember(ctx, "use structured logging in handlers", models.TypeStyle, map[string]string{
		"project": "api",
	})
	if err != nil {
		t.Fatalf("Remember failed: %v", err)
	}
	if id == "" {
		t.Fatal("Remember returned empty ID")
	}

	recalled, err := system.Recall(ctx, "use structured logging in handlers", 5, RecallOptions{})
	if err != nil {
		t.Fatalf("Recall failed: %v", err)
	}
	if len(recalled) != 1 {
		t.Fatalf("Expected 1 memory, got %d", len(recalled))
	}
	if recalled[0].ID != id {
		t.Errorf("Recalled ID %s, want %s", recalled[0].ID, id)
	}
	if recalled[0].Metadata["project"] != "api" {
		t.Errorf("Metadata lost: %v", recalled[0].Metadata)
	}
}

func TestMemorySystem_RememberRejectsEmpty(t *testing.T) {
	system := newTestSystem(t)

	if _, err := system.Remember(context.Background(), "", models.TypeCode, nil); err == nil {
		t.Error("Expected error for empty content")
	}
}

func TestMemorySystem_RememberDefaultsType(t *testing.T) {
	system := newTestSystem(t)
	ctx := context.Background()

	if _, err := system.Remember(ctx, "loose fact", "", nil); err != nil {
		t.Fatalf("Remember failed: %v", err)
	}

	recalled, err := system.Recall(ctx, "loose fact", 1, RecallOptions{})
	if err != nil {
		t.Fatalf("Recall failed: %v", err)
	}
	if recalled[0].Type != models.TypeSemantic {
		t.Errorf("Expected semantic default, got %s", recalled[0].Type)
	}
}

func TestMemorySystem_ForgetRemovesFromIndex(t *testing.T) {
	system := newTestSystem(t)
	ctx := context.Background()

	id, err := system.Remember(ctx, "temporary note", models.TypeCode, nil)
	if err != nil {
		t.Fatalf("Remember failed: %v", err)
	}

	if err := system.Forget(ctx, []string{id}); err != nil {
		t.Fatalf("Forget failed: %v", err)
	}

	stats, err := system.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Index.TotalMemories != 0 {
		t.Errorf("Expected empty index after forget, got %d", stats.Index.TotalMemories)
	}
	if stats.WorkingMemory != 0 {
		t.Errorf("Expected empty working memory after forget, got %d", stats.WorkingMemory)
	}
}

func TestMemorySystem_FindSimilarCodeScopesToCode(t *testing.T) {
	system := newTestSystem(t)
	ctx := context.Background()

	if _, err := system.Remember(ctx, "func parseToken(s string) error", models.TypeCode, nil); err != nil {
		t.Fatalf("Remember failed: %v", err)
	}
	if _, err := system.Remember(ctx, "func parseToken(s string) error", models.TypeConversation, nil); err != nil {
		t.Fatalf("Remember failed: %v", err)
	}

	results, err := system.FindSimilarCode(ctx, "func parseToken(s string) error", 5)
	if err != nil {
		t.Fatalf("FindSimilarCode failed: %v", err)
	}
	for _, mem := range results {
		if mem.Type != models.TypeCode {
			t.Errorf("Non-code memory in results: %s", mem.Type)
		}
	}
	if len(results) != 1 {
		t.Errorf("Expected 1 code result, got %d", len(results))
	}
}

func TestMemorySystem_RememberDecision(t *testing.T) {
	system := newTestSystem(t)
	ctx := context.Background()

	id, err := system.RememberDecision(ctx, "adopt chromem for vector search", "no external service dependency")
	if err != nil {
		t.Fatalf("RememberDecision failed: %v", err)
	}
	if id == "" {
		t.Fatal("RememberDecision returned empty ID")
	}

	decisions, err := system.SearchDecisions(ctx, "vector search", 5)
	if err != nil {
		t.Fatalf("SearchDecisions failed: %v", err)
	}
	if len(decisions) != 1 {
		t.Fatalf("Expected 1 decision, got %d", len(decisions))
	}
	if !strings.Contains(decisions[0].Content, "Rationale: no external service dependency") {
		t.Errorf("Rationale missing from content: %q", decisions[0].Content)
	}

	// The decision's importance keeps it in working memory at full weight
	working := system.Tiered().WorkingMemory()
	if len(working) != 1 || working[0].Importance != decisionImportance {
		t.Errorf("Expected decision importance %.2f in working memory", decisionImportance)
	}
}

func TestMemorySystem_StatsCountsTiers(t *testing.T) {
	system := newTestSystem(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := system.Remember(ctx, "observation "+string(rune('a'+i)), models.TypeCode, nil); err != nil {
			t.Fatalf("Remember failed: %v", err)
		}
	}

	stats, err := system.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Index.TotalMemories != 3 {
		t.Errorf("Index count = %d, want 3", stats.Index.TotalMemories)
	}
	if stats.WorkingMemory != 3 {
		t.Errorf("Working memory = %d, want 3", stats.WorkingMemory)
	}
}
