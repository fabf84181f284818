// ABOUTME: CLI commands to manage persistent user preferences
// ABOUTME: Set, get, and list preferences stored in the entry store
package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewPrefsCmd creates the prefs command group
func NewPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Manage persistent preferences",
		Long: `Manage user preferences in the persistent store.

Preferences survive across sessions and are saved with debounced,
crash-safe writes.

Examples:
  mnemo prefs set theme dark
  mnemo prefs get theme
  mnemo prefs list`,
	}

	cmd.AddCommand(newPrefsSetCmd(), newPrefsGetCmd(), newPrefsListCmd())
	return cmd
}

func newPrefsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <name> <value>",
		Short: "Set a preference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			persistent, cleanup, err := newStore()
			if err != nil {
				return err
			}
			defer cleanup()

			if err := persistent.SetPreference(args[0], args[1]); err != nil {
				return fmt.Errorf("setting preference: %w", err)
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
			}
			return nil
		},
	}
}

func newPrefsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Get a preference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			persistent, cleanup, err := newStore()
			if err != nil {
				return err
			}
			defer cleanup()

			value, ok := persistent.GetPreference(args[0])
			if !ok {
				return fmt.Errorf("no preference named %q", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%v\n", value)
			return nil
		},
	}
}

func newPrefsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			persistent, cleanup, err := newStore()
			if err != nil {
				return err
			}
			defer cleanup()

			prefs := persistent.Preferences()
			if len(prefs) == 0 {
				if !quiet {
					fmt.Fprintln(cmd.OutOrStdout(), "No preferences stored")
				}
				return nil
			}

			if outputFormat == "json" {
				jsonData, err := json.MarshalIndent(prefs, "", "  ")
				if err != nil {
					return fmt.Errorf("marshaling JSON: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "NAME\tVALUE\tLAST ACCESS\n")
			fmt.Fprintf(w, "----\t-----\t-----------\n")
			for _, entry := range prefs {
				name := strings.TrimPrefix(entry.Key, "pref:")
				fmt.Fprintf(w, "%s\t%v\t%s\n", name, entry.Value, formatTime(entry.LastAccessedAt))
			}
			w.Flush()
			return nil
		},
	}
}
