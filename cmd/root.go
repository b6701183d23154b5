// Package cmd provides the root command and CLI setup for modc.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"modc.dev/pkg/modc/internal/adapter"
	"modc.dev/pkg/modc/internal/controller"
	"modc.dev/pkg/modc/internal/domain"
	m "modc.dev/pkg/modc/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var starlarkAdapter adapter.StarlarkAdapter
var compiler domain.Compiler

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

var filenamesFlag []string
var formatFlag string
var parallelFlag int
var verboseFlag bool
var logFileFlag string

func init() {
	// Initialize shared dependencies.
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	starlarkAdapter = adapter.NewLocalStarlarkAdapter()
	compiler = domain.NewCompiler(starlarkAdapter)
}

const pathPatternsHelp = `Supports Go-style path patterns:
  - ./...                recursively scan current directory
  - ./third_party/...    recursively scan third_party directory
  - ./a ./b              scan multiple directories without descending
  - ./a/MODULE.bazel     check a single file`

const rootLongDescription = `modc compiles module files: restricted Starlark files that declare a
module, its dependencies and the other module files it imports through
top-level module_import("label") directives.

` + pathPatternsHelp

const checkLongDescription = `Compile every module file found under the given paths (default: ./...)
and report syntax restriction violations and malformed directives.

` + pathPatternsHelp

const importsLongDescription = `List the module_import directives of every module file found under the
given paths (default: ./...), in source order.

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "modc",
		Short:        "Module file compiler",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching regex (can be repeated)")
	bindFlagToConfig(flags.Lookup(excludeFlagName), excludeConfigKey)

	flags.StringArrayVar(&filenamesFlag, filenameFlagName, viper.GetStringSlice(moduleFilenamesKey), "module file name to discover (can be repeated)")
	bindFlagToConfig(flags.Lookup(filenameFlagName), moduleFilenamesKey)

	flags.StringVarP(&formatFlag, formatFlagName, "f", viper.GetString(outputFormatKey), "output format: table, yaml or json")
	bindFlagToConfig(flags.Lookup(formatFlagName), outputFormatKey)

	flags.IntVarP(&parallelFlag, runParallelFlagName, "p", viper.GetInt(runParallelConfigKey), "number of module files compiled in parallel")
	bindFlagToConfig(flags.Lookup(runParallelFlagName), runParallelConfigKey)

	flags.BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(flags.Lookup(verboseFlagName), logVerboseKey)

	flags.StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "path of the log file")
	bindFlagToConfig(flags.Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// newWorkflow builds a workflow that renders to cmd's output in the
// configured format.
func newWorkflow(cmd *cobra.Command) domain.Workflow {
	format := controller.ParseFormat(viper.GetString(outputFormatKey))
	ui := controller.NewUI(cmd, format, cmd.OutOrStdout() == os.Stdout && controller.IsTTY(os.Stdout))

	return domain.NewWorkflow(fsAdapter, ui, compiler, nil)
}

// checkArgs collects the batch options shared by check and imports.
func checkArgs(args []string) domain.CheckArgs {
	return domain.CheckArgs{
		Paths:     parsePaths(args),
		Exclude:   viper.GetStringSlice(excludeConfigKey),
		Filenames: viper.GetStringSlice(moduleFilenamesKey),
		Threads:   viper.GetInt(runParallelConfigKey),
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
