package cmd

import (
	"github.com/spf13/cobra"
)

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check module files for syntax restriction violations",
		Long:  checkLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newWorkflow(cmd).Check(cmd.Context(), checkArgs(args))
		},
	}
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
