package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/licensesearch/internal/display"
	"github.com/harrison/licensesearch/internal/export"
	"github.com/harrison/licensesearch/internal/models"
	"github.com/harrison/licensesearch/internal/search"
	"github.com/harrison/licensesearch/internal/session"
)

// Exit statuses for the search command.
const (
	exitFailure   = 1
	exitNoMatches = 2
)

type searchOptions struct {
	output      string
	format      string
	extension   string
	progress    bool
	failOnEmpty bool
	history     bool
}

// NewSearchCommand creates the 'licensesearch search' command
func NewSearchCommand(global *globalOptions) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search <directory> <phrase...>",
		Short: "Search license files in a directory for a phrase",
		Long: `Search every .txt file directly inside <directory> for <phrase>.

The phrase is matched case-insensitively. Words after the directory are
joined with single spaces, so quoting is optional. For each matching file
the title and the first paragraph containing the phrase are shown, with the
paragraph before it for context.

Examples:
  # Search a folder of licenses
  licensesearch search ./licenses "free of charge"

  # Export the results to CSV
  licensesearch search ./licenses warranty --output results.csv

  # Markdown report, exit non-zero when nothing matches
  licensesearch search ./licenses patent --output report --format markdown --fail-on-empty`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, global, opts, args[0], strings.Join(args[1:], " "))
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Export the results to this file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Export format: csv, json, markdown, html (default from config)")
	cmd.Flags().StringVar(&opts.extension, "extension", "", "Suffix of searchable files (default from config)")
	cmd.Flags().BoolVar(&opts.progress, "progress", false, "Show per-file progress")
	cmd.Flags().BoolVar(&opts.failOnEmpty, "fail-on-empty", false, "Exit with status 2 when no file matches")
	cmd.Flags().BoolVar(&opts.history, "history", false, "Record this search in the history database")

	return cmd
}

func runSearch(cmd *cobra.Command, global *globalOptions, opts *searchOptions, directory, phrase string) error {
	a, err := newApp(cmd, global, opts.overrides(cmd))
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	renderer := a.renderer(out)

	// Validate the export format before spending time on the search.
	var format export.Format
	if opts.output != "" {
		if format, err = export.ParseFormat(a.cfg.DefaultFormat); err != nil {
			return err
		}
	}

	searchOpts := search.Options{Extension: a.cfg.Extension, Logger: a.log}
	if opts.progress {
		searchOpts.Progress = display.NewProgressIndicator(out, a.palette)
	}
	sess := session.New(search.New(searchOpts), a.sessionOptions(cmd.Context()))

	outcome, err := sess.Search(directory, phrase)
	if err != nil {
		renderer.RenderError(err)
		if reason, ok := models.ReasonOf(err); ok && reason == models.ReasonNoMatchesFound {
			if opts.failOnEmpty {
				return &ExitError{Code: exitNoMatches, Err: err}
			}
			return nil
		}
		return &ExitError{Code: exitFailure, Err: err}
	}
	renderer.RenderOutcome(outcome)

	if opts.output == "" {
		return nil
	}

	written, count, err := sess.Export(opts.output, format)
	if err != nil {
		renderer.RenderExportError(err)
		return &ExitError{Code: exitFailure, Err: err}
	}
	renderer.RenderSuccess(export.SuccessMessage(count, written))
	renderer.RenderStatus(display.ExportCompleteStatus(written))
	return nil
}

// overrides returns the flags the user actually set.
func (o *searchOptions) overrides(cmd *cobra.Command) commandFlags {
	var flags commandFlags
	if cmd.Flags().Changed("extension") {
		flags.extension = &o.extension
	}
	if cmd.Flags().Changed("format") {
		flags.format = &o.format
	}
	if cmd.Flags().Changed("history") {
		flags.history = &o.history
	}
	return flags
}
