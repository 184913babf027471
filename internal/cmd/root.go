package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for licensesearch
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "licensesearch",
		Short: "Search a folder of license texts for a phrase",
		Long: `licensesearch looks for a phrase in every .txt license file directly
inside a folder and reports, for each file that contains it, the license
title and the paragraph where the phrase first appears.

Results can be exported to CSV, JSON, Markdown or HTML. Searches can be
recorded in an opt-in local history.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config file (default <home>/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.home, "home", "", "Home directory for config, logs and history (default ~/.licensesearch)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewInteractiveCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}
