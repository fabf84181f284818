// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: System wiring, formatting, and validation helpers
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"

	"github.com/mnemo-ai/mnemo/internal/config"
	"github.com/mnemo-ai/mnemo/internal/core"
	"github.com/mnemo-ai/mnemo/internal/embed"
	"github.com/mnemo-ai/mnemo/internal/index"
	"github.com/mnemo-ai/mnemo/internal/store"
)

// newSystem wires a ready-to-use memory system from configuration.
// The returned cleanup func must be called before exit.
func newSystem() (*core.MemorySystem, func(), error) {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	embedder := embed.NewServiceWithTimeout(embed.SelectProvider(cfg), cfg.EmbedTimeout)

	idx, err := index.NewChromemIndex(cfg.IndexPath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening vector index: %w", err)
	}

	system := core.NewMemorySystem(core.SystemOptions{
		Embedder:           embedder,
		Index:              idx,
		WorkingCapacity:    cfg.WorkingMemorySize,
		PromotionThreshold: cfg.PromotionThreshold,
		SweepInterval:      cfg.ConsolidationInterval,
		MinRelevance:       cfg.MinRelevance,
	})
	if err := system.Initialize(context.Background()); err != nil {
		return nil, nil, fmt.Errorf("initializing memory system: %w", err)
	}

	return system, system.Close, nil
}

// newStore opens the persistent entry store from configuration.
// The returned cleanup func flushes pending writes.
func newStore() (*store.Store, func(), error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	s, err := store.OpenWithDelay(cfg.StorePath(), cfg.SaveDelay)
	if err != nil {
		return nil, nil, fmt.Errorf("opening persistent store: %w", err)
	}

	cleanup := func() { _ = s.Close() }
	return s, cleanup, nil
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	diff := time.Since(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
	return t.Format("2006-01-02")
}

// validatePositiveInt returns an error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
