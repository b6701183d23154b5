package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const forceFlagName = "force"

const initLongDescription = `Write modc.yaml to the current directory with the effective settings:

  module.filenames   file names discovered by check and imports
  paths.exclude      regexes of paths to skip
  run.parallel       module files compiled concurrently
  output.format      table, yaml or json
  log.*              log file name, level and rotation

Flags and MODC_* environment variables override the file (MODC_RUN_PARALLEL
for run.parallel). An existing file is kept unless --force is given.`

var initForce bool

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a default modc.yaml configuration file",
		Long:  initLongDescription,
		RunE: func(cmd *cobra.Command, _ []string) error {
			targetPath := filepath.Join(configFolderPath, configFileName)

			write := viper.SafeWriteConfigAs
			if initForce {
				write = viper.WriteConfigAs
			}

			if err := write(targetPath); err != nil {
				return fmt.Errorf("write %s: %w", targetPath, err)
			}

			cmd.Printf("wrote %s\n", targetPath)

			return nil
		},
	}

	cmd.Flags().BoolVar(&initForce, forceFlagName, false, "overwrite an existing configuration file")

	return cmd
}

func init() {
	rootCmd.AddCommand(initCmd)
}
