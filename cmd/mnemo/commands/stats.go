// ABOUTME: CLI command to show memory system statistics
// ABOUTME: Index size, tier occupancy, and persistent entry counts
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatsCmd creates the stats command
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show memory statistics",
		Long: `Show memory system statistics: indexed memories, tier occupancy,
and persistent entries.

Examples:
  mnemo stats
  mnemo stats --format json`,
		RunE: runStats,
	}

	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	system, cleanup, err := newSystem()
	if err != nil {
		return err
	}
	defer cleanup()

	persistent, storeCleanup, err := newStore()
	if err != nil {
		return err
	}
	defer storeCleanup()

	systemStats, err := system.Stats()
	if err != nil {
		return fmt.Errorf("collecting stats: %w", err)
	}
	storeStats := persistent.Stats()

	if outputFormat == "json" {
		payload := map[string]interface{}{
			"system": systemStats,
			"store":  storeStats,
		}
		jsonData, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Indexed memories:   %d\n", systemStats.Index.TotalMemories)
	fmt.Fprintf(out, "Index path:         %s\n", systemStats.Index.DBPath)
	fmt.Fprintf(out, "Working memory:     %d\n", systemStats.WorkingMemory)
	fmt.Fprintf(out, "Long-term memory:   %d\n", systemStats.LongTerm)
	fmt.Fprintf(out, "Persistent entries: %d\n", storeStats.TotalEntries)
	fmt.Fprintf(out, "Store path:         %s\n", storeStats.Path)
	return nil
}
