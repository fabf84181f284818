// ABOUTME: CLI command to recall memories by semantic similarity
// ABOUTME: Supports type filtering and a minimum relevance threshold
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mnemo-ai/mnemo/internal/core"
	"github.com/mnemo-ai/mnemo/internal/models"
)

var (
	recallLimit        int
	recallType         string
	recallMinRelevance float64
	recallProject      string
)

// NewRecallCmd creates the recall command
func NewRecallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recall <query>",
		Short: "Recall memories by meaning",
		Long: `Recall memories relevant to a query, ranked by decreasing relevance.

Examples:
  mnemo recall "how do we handle auth tokens"
  mnemo recall --type decision "database choices"
  mnemo recall --limit 10 --min-relevance 0.5 "retry logic"`,
		Args: cobra.ExactArgs(1),
		RunE: runRecall,
	}

	cmd.Flags().IntVar(&recallLimit, "limit", 5, "Maximum results to return")
	cmd.Flags().StringVar(&recallType, "type", "", "Restrict results to one memory type")
	cmd.Flags().Float64Var(&recallMinRelevance, "min-relevance", 0, "Discard results below this relevance 0-1")
	cmd.Flags().StringVar(&recallProject, "project", "", "Restrict results to one project")

	return cmd
}

func runRecall(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(recallLimit, "limit"); err != nil {
		return err
	}

	system, cleanup, err := newSystem()
	if err != nil {
		return err
	}
	defer cleanup()

	memories, err := system.Recall(context.Background(), args[0], recallLimit, core.RecallOptions{
		Type:         models.MemoryType(recallType),
		Project:      recallProject,
		MinRelevance: recallMinRelevance,
	})
	if err != nil {
		return fmt.Errorf("recalling memories: %w", err)
	}

	return printMemories(cmd, memories, args[0])
}

// printMemories renders recalled memories as a table or JSON
func printMemories(cmd *cobra.Command, memories []models.RecalledMemory, query string) error {
	if len(memories) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No memories found for query: %s\n", query)
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
	fmt.Fprintf(w, "RELEVANCE\tTYPE\tID\tCONTENT\n")
	fmt.Fprintf(w, "---------\t----\t--\t-------\n")
	for _, mem := range memories {
		fmt.Fprintf(w, "%.3f\t%s\t%s\t%s\n",
			mem.Relevance,
			mem.Type,
			truncate(mem.ID, 12),
			truncate(mem.Content, 60))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", len(memories))
	}
	return nil
}
