package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/licensesearch/internal/display"
	"github.com/harrison/licensesearch/internal/export"
	"github.com/harrison/licensesearch/internal/search"
	"github.com/harrison/licensesearch/internal/session"
)

// MenuReader defines interface for reading user input (for testing)
type MenuReader interface {
	ReadString(delim byte) (string, error)
}

const shellHelp = `Commands:
  search                  Prompt for a folder and a phrase, then search
  show                    Show the results of the last successful search
  export [path]           Export the last results; prompts for the path and
                          format when no path is given. A path may contain
                          spaces. Its extension (.csv, .json, .md, .html)
                          picks the format.
  help                    Show this help
  quit                    Leave the shell`

// NewInteractiveCommand creates the 'licensesearch interactive' command
func NewInteractiveCommand(global *globalOptions) *cobra.Command {
	var extension string

	cmd := &cobra.Command{
		Use:     "interactive [directory]",
		Aliases: []string{"shell"},
		Short:   "Search and export from an interactive prompt",
		Long: `Start a line-oriented shell that keeps the results of the last
successful search. Run "search" to look for a phrase, "show" to print the
results again and "export" to save them.

A failed search clears the held results; a failed export keeps them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var flags commandFlags
			if cmd.Flags().Changed("extension") {
				flags.extension = &extension
			}
			a, err := newApp(cmd, global, flags)
			if err != nil {
				return err
			}
			defer a.Close()

			format, err := export.ParseFormat(a.cfg.DefaultFormat)
			if err != nil {
				return err
			}

			searcher := search.New(search.Options{Extension: a.cfg.Extension, Logger: a.log})
			sh := &shell{
				reader:   bufio.NewReader(cmd.InOrStdin()),
				out:      cmd.OutOrStdout(),
				renderer: a.renderer(cmd.OutOrStdout()),
				session:  session.New(searcher, a.sessionOptions(cmd.Context())),
				format:   format,
			}
			if len(args) == 1 {
				sh.directory = args[0]
			}
			return sh.run()
		},
	}

	cmd.Flags().StringVar(&extension, "extension", "", "Suffix of searchable files (default from config)")

	return cmd
}

// shell is the interactive loop over one session.
type shell struct {
	reader    MenuReader
	out       io.Writer
	renderer  *display.ResultRenderer
	session   *session.Session
	format    export.Format
	directory string // Last folder searched, offered as the default
}

func (s *shell) run() error {
	s.renderer.RenderStatus(display.StatusReady)
	fmt.Fprintln(s.out, `Type "help" for commands.`)

	for {
		line, ok, err := s.prompt("> ")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(s.out)
			return nil
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "search":
			if err := s.search(); err != nil {
				return err
			}
		case "show":
			s.show()
		case "export":
			if err := s.export(restOfLine(line, fields[0])); err != nil {
				return err
			}
		case "help", "?":
			fmt.Fprintln(s.out, shellHelp)
		case "quit", "exit", "q":
			return nil
		default:
			fmt.Fprintf(s.out, "Unknown command %q. Type \"help\" for commands.\n", fields[0])
		}
	}
}

// prompt prints label and reads one line. ok is false at end of input.
func (s *shell) prompt(label string) (string, bool, error) {
	fmt.Fprint(s.out, label)
	line, err := s.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line == "" {
				return "", false, nil
			}
			return strings.TrimRight(line, "\r\n"), true, nil
		}
		return "", false, fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), true, nil
}

func (s *shell) search() error {
	label := "Folder: "
	if s.directory != "" {
		label = fmt.Sprintf("Folder [%s]: ", s.directory)
	}
	directory, ok, err := s.prompt(label)
	if err != nil || !ok {
		return err
	}
	if strings.TrimSpace(directory) == "" {
		directory = s.directory
	}

	// The phrase is passed through untrimmed; only blankness is checked.
	phrase, ok, err := s.prompt("Search phrase: ")
	if err != nil || !ok {
		return err
	}

	s.directory = directory
	s.renderer.RenderStatus(display.StatusSearching)
	result := <-s.session.SearchAsync(directory, phrase)
	if result.Err != nil {
		s.renderer.RenderError(result.Err)
		return nil
	}
	s.renderer.RenderOutcome(result.Outcome)
	return nil
}

func (s *shell) show() {
	outcome := s.session.Current()
	if outcome.Empty() {
		s.renderer.RenderWarning(display.StatusNoResults)
		return
	}
	s.renderer.RenderOutcome(outcome)
}

// export writes the held results to path. With no path the user is
// prompted for one and for the format.
func (s *shell) export(path string) error {
	if s.session.Current().Empty() {
		s.renderer.RenderExportError(export.ErrNoResults)
		return nil
	}

	format := formatForPath(path, s.format)
	if path == "" {
		var ok bool
		var err error
		path, ok, err = s.prompt("Export to: ")
		if err != nil || !ok {
			return err
		}
		path = strings.TrimSpace(path)
		if path == "" {
			fmt.Fprintln(s.out, "Export cancelled.")
			return nil
		}

		format = formatForPath(path, s.format)
		answer, ok, err := s.prompt(fmt.Sprintf("Format [%s]: ", format))
		if err != nil || !ok {
			return err
		}
		if answer = strings.TrimSpace(answer); answer != "" {
			if format, err = export.ParseFormat(answer); err != nil {
				s.renderer.RenderExportError(err)
				return nil
			}
		}
	}

	written, count, err := s.session.Export(path, format)
	if err != nil {
		s.renderer.RenderExportError(err)
		return nil
	}
	s.renderer.RenderSuccess(export.SuccessMessage(count, written))
	s.renderer.RenderStatus(display.ExportCompleteStatus(written))
	return nil
}

// restOfLine returns what follows command on line, inner spaces kept.
func restOfLine(line, command string) string {
	line = strings.TrimSpace(line)
	return strings.TrimSpace(line[len(command):])
}

// formatForPath picks the export format named by path's extension, or
// fallback when the extension names none.
func formatForPath(path string, fallback export.Format) export.Format {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return fallback
	}
	if format, err := export.ParseFormat(ext); err == nil {
		return format
	}
	return fallback
}
