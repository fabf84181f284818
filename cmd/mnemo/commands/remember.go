// ABOUTME: CLI command to store a new memory
// ABOUTME: Supports type, importance, and embedding-bias metadata flags
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mnemo-ai/mnemo/internal/models"
)

var (
	rememberType       string
	rememberImportance float64
	rememberFile       string
	rememberLanguage   string
	rememberProject    string
)

// NewRememberCmd creates the remember command
func NewRememberCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remember <content>",
		Short: "Store a new memory",
		Long: `Store content as a new memory.

The content is embedded, indexed for semantic search, and tracked in
working memory where important entries get promoted to long-term.

Examples:
  mnemo remember "We use pgx instead of database/sql for Postgres"
  mnemo remember --type code --file auth.go --language go "func VerifyToken(...)"
  mnemo remember --type decision --importance 0.9 "All APIs are versioned under /v1"`,
		Args: cobra.ExactArgs(1),
		RunE: runRemember,
	}

	cmd.Flags().StringVar(&rememberType, "type", "semantic", "Memory type (code, decision, style, architecture, conversation, episodic, semantic, procedural)")
	cmd.Flags().Float64Var(&rememberImportance, "importance", 0.5, "Importance 0-1 influencing promotion and forgetting")
	cmd.Flags().StringVar(&rememberFile, "file", "", "Source file used to bias the embedding")
	cmd.Flags().StringVar(&rememberLanguage, "language", "", "Programming language used to bias the embedding")
	cmd.Flags().StringVar(&rememberProject, "project", "", "Project identifier for filtered recall")

	return cmd
}

func runRemember(cmd *cobra.Command, args []string) error {
	if rememberImportance < 0 || rememberImportance > 1 {
		return fmt.Errorf("importance must be 0-1, got %f", rememberImportance)
	}

	system, cleanup, err := newSystem()
	if err != nil {
		return err
	}
	defer cleanup()

	metadata := map[string]string{
		"importance": strconv.FormatFloat(rememberImportance, 'f', -1, 64),
	}
	if rememberFile != "" {
		metadata["file"] = rememberFile
	}
	if rememberLanguage != "" {
		metadata["language"] = rememberLanguage
	}
	if rememberProject != "" {
		metadata["project"] = rememberProject
	}

	id, err := system.Remember(context.Background(), args[0], models.MemoryType(rememberType), metadata)
	if err != nil {
		return fmt.Errorf("storing memory: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(map[string]string{"id": id}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Remembered %s memory %s\n", rememberType, id)
	}
	return nil
}
