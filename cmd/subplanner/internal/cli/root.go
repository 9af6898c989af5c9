// Package cli wires the subplanner binary's cobra commands.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewRootCommand builds the subplanner root command with its
// subcommands attached.
func NewRootCommand(log *zap.SugaredLogger) *cobra.Command {
	root := &cobra.Command{
		Use:           "subplanner",
		Short:         "Enumerate table access paths for a catalog fixture",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newPlanCommand(log))
	root.AddCommand(newExplainCommand(log))
	return root
}
