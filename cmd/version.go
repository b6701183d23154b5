package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

const starlarkModulePath = "go.starlark.net"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the build version, the Starlark interpreter version and the Go version used to build modc.",
		Run: func(cmd *cobra.Command, _ []string) {
			info, ok := debug.ReadBuildInfo()
			if !ok || info.Main.Version == "" {
				cmd.Println("version: unknown")
				return
			}

			cmd.Println("modc version\t", info.Main.Version)
			cmd.Println("starlark version\t", starlarkVersion(info))
			cmd.Println("go version\t", info.GoVersion)
		},
	}
}

func starlarkVersion(info *debug.BuildInfo) string {
	for _, dep := range info.Deps {
		if dep.Path != starlarkModulePath {
			continue
		}

		if dep.Replace != nil {
			return dep.Replace.Version
		}

		return dep.Version
	}

	return "unknown"
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
