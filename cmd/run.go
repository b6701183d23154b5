package cmd

import (
	"github.com/spf13/cobra"

	"modc.dev/pkg/modc/internal/domain"
	m "modc.dev/pkg/modc/internal/model"
)

const (
	moduleNameFlagName    = "name"
	moduleVersionFlagName = "version"
)

var runModuleName string
var runModuleVersion string

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Compile and evaluate a single module file",
		Long: `Compile FILE, evaluate it with the default toplevels and print the module()
and bazel_dep() declarations it made. --name and --version set the
module key used in diagnostics (default: the root module).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newWorkflow(cmd).Run(cmd.Context(), domain.RunArgs{
				Path: m.Path(args[0]),
				Key:  m.ModuleKey{Name: runModuleName, Version: runModuleVersion},
			})
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&runModuleName, moduleNameFlagName, "", "name of the module the file belongs to")
	cmd.Flags().StringVar(&runModuleVersion, moduleVersionFlagName, "", "version of the module the file belongs to")
}
