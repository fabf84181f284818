// ABOUTME: CLI command to list recently accessed memories of a type
// ABOUTME: Most recently touched first
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mnemo-ai/mnemo/internal/models"
)

var recentLimit int

// NewRecentCmd creates the recent command
func NewRecentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent <type>",
		Short: "List recently accessed memories of a type",
		Long: `List the most recently accessed memories of a given type.

Examples:
  mnemo recent decision
  mnemo recent code --limit 10`,
		Args: cobra.ExactArgs(1),
		RunE: runRecent,
	}

	cmd.Flags().IntVar(&recentLimit, "limit", 5, "Maximum results to return")

	return cmd
}

func runRecent(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(recentLimit, "limit"); err != nil {
		return err
	}

	system, cleanup, err := newSystem()
	if err != nil {
		return err
	}
	defer cleanup()

	memories, err := system.Recent(context.Background(), models.MemoryType(args[0]), recentLimit)
	if err != nil {
		return fmt.Errorf("listing recent memories: %w", err)
	}

	if len(memories) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No %s memories found\n", args[0])
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(memories, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "LAST ACCESS\tID\tCONTENT\n")
	fmt.Fprintf(w, "-----------\t--\t-------\n")
	for _, mem := range memories {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			formatTime(mem.LastAccessedAt),
			truncate(mem.ID, 12),
			truncate(mem.Content, 60))
	}
	w.Flush()
	return nil
}
