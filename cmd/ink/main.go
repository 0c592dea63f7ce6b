package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Who23/ink/pkg/common/logger"
)

var (
	logLevel  string
	logFormat string
	verbose   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ink",
		Short: "ink - a content-addressed version control core",
		Long:  getBanner(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (sets log level to debug)")

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newCommitCmd())
	rootCmd.AddCommand(newGoCmd())
	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newDiffCmd())
	rootCmd.AddCommand(newGraphCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func getBanner() string {
	return `
  ink - a content-addressed version control core

  Every commit is a snapshot named by the hash of its contents.
  There are no branches, no refs, no merges - just a graph of commits
  and a cursor pointing at the one checked out.

  Get started with: ink init
  See the history:   ink log
  Need help? Run:    ink --help

`
}

// setupLogging resolves the effective log level and format. Command-line
// flags always win; a flag left at its default defers to the config
// hierarchy's log.level/log.format (see pkg/config.TypedConfig), so a
// value set in ~/.inkconfig.json or a repository's .ink/config.json takes
// effect without having to repeat it on every invocation.
func setupLogging(cmd *cobra.Command) {
	effectiveLevel, effectiveFormat := logLevel, logFormat
	if !cmd.Flags().Changed("log-level") || !cmd.Flags().Changed("log-format") {
		typed := bestEffortTypedConfig()
		if !cmd.Flags().Changed("log-level") {
			effectiveLevel = typed.LogLevel()
		}
		if !cmd.Flags().Changed("log-format") {
			effectiveFormat = typed.LogFormat()
		}
	}

	level := logger.LevelInfo
	if verbose {
		level = logger.LevelDebug
	} else {
		switch effectiveLevel {
		case "debug":
			level = logger.LevelDebug
		case "info":
			level = logger.LevelInfo
		case "warn":
			level = logger.LevelWarn
		case "error":
			level = logger.LevelError
		}
	}

	format := logger.FormatText
	if effectiveFormat == "json" {
		format = logger.FormatJSON
	}

	logger.Default = logger.New(logger.Config{
		Level:  level,
		Format: format,
		Output: os.Stderr,
	})
}
