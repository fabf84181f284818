// ABOUTME: Root command for the mnemo CLI with global flags
// ABOUTME: Registers all subcommands and shared output options
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

// NewRootCmd creates the root command with all subcommands
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mnemo",
		Short: "Semantic memory for your coding sessions",
		Long: `
███╗   ███╗███╗   ██╗███████╗███╗   ███╗ ██████╗
████╗ ████║████╗  ██║██╔════╝████╗ ████║██╔═══██╗
██╔████╔██║██╔██╗ ██║█████╗  ██╔████╔██║██║   ██║
██║╚██╔╝██║██║╚██╗██║██╔══╝  ██║╚██╔╝██║██║   ██║
██║ ╚═╝ ██║██║ ╚████║███████╗██║ ╚═╝ ██║╚██████╔╝
╚═╝     ╚═╝╚═╝  ╚═══╝╚══════╝╚═╝     ╚═╝ ╚═════╝

Semantic memory for AI-assisted coding: remembers code, decisions,
and conversations; recalls them by meaning, not keywords.

Memories are embedded, indexed for similarity search, and managed by
a tiered policy that promotes important memories and forgets stale
ones. Preferences and remembered fixes persist across sessions.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, json")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewRememberCmd(),
		NewRecallCmd(),
		NewRecentCmd(),
		NewForgetCmd(),
		NewStatsCmd(),
		NewConsolidateCmd(),
		NewPrefsCmd(),
		NewFingerprintCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
