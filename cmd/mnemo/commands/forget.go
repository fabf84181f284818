// ABOUTME: CLI command to permanently remove memories by ID
// ABOUTME: Removes from the vector index and all memory tiers
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewForgetCmd creates the forget command
func NewForgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forget <id>...",
		Short: "Permanently remove memories",
		Long: `Permanently remove memories by ID from the vector index and all tiers.

Examples:
  mnemo forget 6f1c9a52-...
  mnemo forget id1 id2 id3`,
		Args: cobra.MinimumNArgs(1),
		RunE: runForget,
	}

	return cmd
}

func runForget(cmd *cobra.Command, args []string) error {
	system, cleanup, err := newSystem()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := system.Forget(context.Background(), args); err != nil {
		return fmt.Errorf("forgetting memories: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Forgot %d memory(ies)\n", len(args))
	}
	return nil
}
