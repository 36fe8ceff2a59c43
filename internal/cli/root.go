/*
PURPOSE:
  Defines the root Cobra command for the llm-bench CLI.
  Handles global flags and command initialization.

REQUIREMENTS:
  User-specified:
  - Provide a CLI interface.
  - Support global flags like --config.

  Implementation-discovered:
  - Needs to expose an Execute() function for main.go.
  - Logger must be configured before any subcommand runs.

ARCHITECTURE INTEGRATION:
  - Called by: cmd/llm-bench/main.go
  - Calls: Child commands (resolve, use-cases, precisions)

ERROR HANDLING:
  - Returns error to main.go for exit code handling.

IMPLEMENTATION RULES:
  - Use `PersistentFlags()` for flags available to all subcommands.
  - Keep Run logic in subcommands, Root is usually empty or helps.

USAGE:
  Called by main.go.

SELF-HEALING INSTRUCTIONS:
  - If adding new global flags, add them to init().

RELATED FILES:
  - cmd/llm-bench/main.go

MAINTENANCE:
  - Update when adding global configuration options.
*/

package cli

import (
	"github.com/spf13/cobra"

	"github.com/daryltucker/llm-bench/internal/output"
)

var (
	// cfgFile stores the path to the defaults file (if specified via flag)
	cfgFile   string
	logLevel  string
	logFormat string

	rootCmd = &cobra.Command{
		Use:           "llm-bench",
		Short:         "Resolve benchmark run configurations for generative models",
		Long:          `Derives a complete, validated benchmark run configuration from a model path, flags, a defaults file, engine config JSON and prompt files. Use 'resolve --help' for options.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return output.Configure(cmd.ErrOrStderr(), logLevel, logFormat)
		},
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "defaults file (default is ./llm_bench.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
}
