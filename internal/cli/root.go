// Package cli holds the proservis command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the top-level "proservis" command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "proservis",
		Short:         "Refrigeration field-service maintenance scheduler",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newNextCmd(),
	)

	return root
}
