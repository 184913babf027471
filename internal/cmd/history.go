package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harrison/licensesearch/internal/export"
	"github.com/harrison/licensesearch/internal/history"
)

// NewHistoryCommand creates the 'licensesearch history' parent command
func NewHistoryCommand(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded searches",
		Long: `Inspect the search history database.

Searches are recorded only when history is enabled, either with
"history.enabled: true" in the config file or with search --history.`,
	}

	cmd.AddCommand(newHistoryListCommand(global))
	cmd.AddCommand(newHistoryShowCommand(global))
	cmd.AddCommand(newHistoryExportCommand(global))
	cmd.AddCommand(newHistoryClearCommand(global))

	return cmd
}

func newHistoryListCommand(global *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent searches, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd, global, commandFlags{}, func(a *app, store *history.Store) error {
				runs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				writeRunTable(cmd.OutOrStdout(), runs)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 = all)")

	return cmd
}

func newHistoryShowCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded search and its matches",
		Long:  "Show one recorded search. The ID may be shortened to any unique prefix.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd, global, commandFlags{}, func(a *app, store *history.Store) error {
				run, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				showRun(cmd.OutOrStdout(), a, run)
				return nil
			})
		},
	}
}

// showRun prints a run's details followed by its matches or its error.
func showRun(out io.Writer, a *app, run *history.Run) {
	fmt.Fprintf(out, "ID:        %s\n", run.ID)
	fmt.Fprintf(out, "Searched:  %s\n", run.SearchedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Directory: %s\n", run.Directory)
	fmt.Fprintf(out, "Phrase:    %s\n", run.Phrase)
	fmt.Fprintf(out, "Status:    %s\n", run.Status)
	if run.SkippedCount > 0 {
		fmt.Fprintf(out, "Skipped:   %d file(s)\n", run.SkippedCount)
	}
	fmt.Fprintln(out)

	if !run.OK() {
		fmt.Fprintln(out, run.Message)
		return
	}
	a.renderer(out).RenderOutcome(run.Outcome())
}

func newHistoryExportCommand(global *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <id> <path>",
		Short: "Export the matches of a recorded search",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var flags commandFlags
			if cmd.Flags().Changed("format") {
				flags.format = &format
			}
			return withHistory(cmd, global, flags, func(a *app, store *history.Store) error {
				f, err := export.ParseFormat(a.cfg.DefaultFormat)
				if err != nil {
					return err
				}
				run, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !run.OK() {
					return export.ErrNoResults
				}

				outcome := run.Outcome()
				written, err := export.ToFile(outcome, args[1], f, export.WithLockDir(a.lockDir()))
				if err != nil {
					return err
				}
				a.renderer(cmd.OutOrStdout()).RenderSuccess(export.SuccessMessage(outcome.Len(), written))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Export format: csv, json, markdown, html (default from config)")

	return cmd
}

func newHistoryClearCommand(global *globalOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withHistory(cmd, global, commandFlags{}, func(a *app, store *history.Store) error {
				if !yes {
					fmt.Fprintln(out, "WARNING: This will delete ALL recorded searches.")
					if !confirmAction(cmd.InOrStdin(), out) {
						fmt.Fprintln(out, "Operation cancelled.")
						return nil
					}
				}
				deleted, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Deleted %d search run(s).\n", deleted)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

// withHistory opens the history database for a history subcommand.
func withHistory(cmd *cobra.Command, global *globalOptions, flags commandFlags, fn func(a *app, store *history.Store) error) error {
	a, err := newApp(cmd, global, flags)
	if err != nil {
		return err
	}
	defer a.Close()

	store, err := a.historyStore()
	if err != nil || store == nil {
		return err
	}
	return fn(a, store)
}

// historyStore opens the history database for reading whether or not
// recording is enabled. It prints a notice and returns nil when no database
// exists yet.
func (a *app) historyStore() (*history.Store, error) {
	path := a.cfg.History.DBPath
	if path != ":memory:" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			fmt.Fprintf(a.out, "No search history found at: %s\n", path)
			return nil, nil
		}
	}

	store, err := history.NewStore(path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	a.store = store
	return store, nil
}

func writeRunTable(w io.Writer, runs []*history.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No searches recorded.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSEARCHED\tSTATUS\tMATCHES\tPHRASE\tDIRECTORY")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			shortID(run.ID),
			run.SearchedAt.Local().Format("2006-01-02 15:04"),
			run.Status,
			run.MatchCount,
			truncate(run.Phrase, 30),
			run.Directory,
		)
	}
	tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// confirmAction prompts the user for confirmation
func confirmAction(in io.Reader, out io.Writer) bool {
	scanner := bufio.NewScanner(in)

	fmt.Fprint(out, "Continue? [y/N]: ")

	if !scanner.Scan() {
		return false
	}

	response := strings.TrimSpace(strings.ToLower(scanner.Text()))
	return response == "y" || response == "yes"
}
