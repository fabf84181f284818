// ABOUTME: CLI command to consolidate the persistent store
// ABOUTME: Prunes expired and never-used low-confidence entries
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewConsolidateCmd creates the consolidate command
func NewConsolidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consolidate",
		Short: "Prune stale persistent entries",
		Long: `Run one consolidation pass over the persistent store.

Deletes expired entries and never-accessed entries with low
confidence. Merging of similar entries is not implemented; the
merged count in the report is always zero.

Examples:
  mnemo consolidate
  mnemo consolidate --format json`,
		RunE: runConsolidate,
	}

	return cmd
}

func runConsolidate(cmd *cobra.Command, args []string) error {
	persistent, cleanup, err := newStore()
	if err != nil {
		return err
	}
	defer cleanup()

	report := persistent.Consolidate()
	if err := persistent.ForceSave(); err != nil {
		return fmt.Errorf("saving store: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Expired: %d, pruned: %d, merged: %d\n",
			report.Expired, report.Pruned, report.Merged)
	}
	return nil
}
