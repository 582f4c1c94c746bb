package main

import (
	"github.com/spf13/cobra"

	"github.com/teslashibe/go-sway/internal/config"
	"github.com/teslashibe/go-sway/internal/log"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	logLevel string
	logFile  string
}

// newRootCmd builds a fresh command tree so tests can run commands in
// isolation.
func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "sway",
		Short:         "Spring-driven body sway for dragged humanoid characters",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Init(flags.logLevel, flags.logFile)
		},
	}

	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", config.LogLevel(), "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&flags.logFile, "log-file", config.LogFile(), "also write JSON logs to this rotated file")

	root.AddCommand(
		newRunCmd(),
		newConfigCmd(),
		newStatusCmd(),
		newFeedCmd(),
		newWatchCmd(),
	)
	return root
}
