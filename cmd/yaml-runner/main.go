package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rdkcentral/yaml-runner/pkg/yamlrunner"
)

// rootCmd represents the base command; all argument handling is staged inside
// the runner, so cobra's own flag parsing is disabled.
var rootCmd = &cobra.Command{
	Use:   "yaml-runner",
	Short: "Run commands declared in a YAML configuration",
	Long: `yaml-runner turns a YAML configuration into a command-line tool. Each
command found in the config becomes a runnable choice, with its own help and
optional passthrough arguments.

Examples:
  yaml-runner --config commands.yml
  yaml-runner --config commands.yml hello_world
  yaml-runner --config commands.yml echo_all some args here`,
	Version:            yamlrunner.Version,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	Args:               cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := yamlrunner.New(cmd.Name())
		if err != nil {
			return err
		}
		result, err := runner.Run(args)
		if err != nil {
			var exitErr *yamlrunner.ExitError
			if errors.As(err, &exitErr) {
				os.Exit(exitErr.Code)
			}
			return err
		}
		os.Exit(yamlrunner.LastExitCode(result))
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "yaml-runner: %v\n", err)
		os.Exit(1)
	}
}
