package cmd

import (
	"github.com/spf13/cobra"
)

// importsCmd represents the imports command.
var importsCmd = newImportsCmd()

func newImportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "imports [paths...]",
		Aliases: []string{"ls"},
		Short:   "List module_import directives",
		Long:    importsLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newWorkflow(cmd).Imports(cmd.Context(), checkArgs(args))
		},
	}
}

func init() {
	rootCmd.AddCommand(importsCmd)
}
