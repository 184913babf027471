package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harrison/licensesearch/internal/config"
	"github.com/harrison/licensesearch/internal/display"
	"github.com/harrison/licensesearch/internal/history"
	"github.com/harrison/licensesearch/internal/logger"
	"github.com/harrison/licensesearch/internal/session"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	home       string
	logLevel   string
	noColor    bool
}

// commandFlags are per-command overrides applied on top of the config file.
// Nil fields leave the configured value alone.
type commandFlags struct {
	extension *string
	format    *string
	history   *bool
}

// ExitError carries a process exit status for a failure that was already
// shown to the user.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the status the process should exit with for err.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// Silent reports whether err was already displayed.
func Silent(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr)
}

// app is the wiring shared by the subcommands: configuration, logging,
// colors and the optional history store.
type app struct {
	home       string
	out        io.Writer
	cfg        *config.Config
	log        *logger.MultiLogger
	fileLogger *logger.FileLogger
	store      *history.Store
	palette    *display.Palette
}

// newApp loads configuration and builds loggers for cmd. Callers must Close
// the result.
func newApp(cmd *cobra.Command, opts *globalOptions, flags commandFlags) (*app, error) {
	home, err := config.ResolveHome(opts.home)
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(home, config.ConfigFileName)
	if opts.configPath != "" {
		configPath = config.ExpandPath(opts.configPath, mustGetwd())
	}
	cfg, err := config.LoadConfig(configPath, home)
	if err != nil {
		return nil, err
	}

	var logLevel, colorMode *string
	if cmd.Flags().Changed("log-level") {
		logLevel = &opts.logLevel
	}
	if opts.noColor {
		never := config.ColorNever
		colorMode = &never
	}
	cfg.MergeWithFlags(logLevel, colorMode, flags.extension, flags.format, flags.history)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	display.ApplyColorMode(cfg.Color)

	a := &app{
		home:    home,
		out:     cmd.OutOrStdout(),
		cfg:     cfg,
		palette: display.NewPalette(display.ColorEnabled(cfg.Color, cmd.OutOrStdout())),
	}

	sinks := []logger.Sink{logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)}
	if cfg.FileLogging {
		fl, err := logger.NewFileLoggerWithDirAndLevel(cfg.LogDir, cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		a.fileLogger = fl
		sinks = append(sinks, fl)
	}
	a.log = logger.NewMultiLogger(sinks...)
	a.log.LogDebug(fmt.Sprintf("Using home %s, config %s", home, configPath))

	return a, nil
}

// openHistory opens the history store when history is enabled and prunes
// runs older than keep_days. It returns nil when history is off.
func (a *app) openHistory(ctx context.Context) (*history.Store, error) {
	if !a.cfg.History.Enabled {
		return nil, nil
	}
	if a.store != nil {
		return a.store, nil
	}

	store, err := history.NewStore(a.cfg.History.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	a.store = store
	a.log.LogDebug(fmt.Sprintf("Recording history in %s", store.Path()))

	if a.cfg.History.KeepDays > 0 {
		pruned, err := store.Prune(ctx, a.cfg.History.KeepDays)
		if err != nil {
			a.log.LogWarn(fmt.Sprintf("Failed to prune history: %v", err))
		} else if pruned > 0 {
			a.log.LogDebug(fmt.Sprintf("Pruned %d history run(s) older than %d days", pruned, a.cfg.History.KeepDays))
		}
	}
	return store, nil
}

// sessionOptions wires the history store, when enabled, into a session.
// Failing to open or write history is logged, never fatal.
func (a *app) sessionOptions(ctx context.Context) session.Options {
	opts := session.Options{
		LockDir: a.lockDir(),
		OnRecordError: func(err error) {
			a.log.LogWarn(fmt.Sprintf("Failed to record search history: %v", err))
		},
	}
	store, err := a.openHistory(ctx)
	if err != nil {
		a.log.LogWarn(err.Error())
		return opts
	}
	if store != nil {
		opts.Recorder = store
	}
	return opts
}

// lockDir holds the export lock files so they never land beside an export.
func (a *app) lockDir() string {
	return filepath.Join(a.home, "locks")
}

// Close releases the history store and the run log.
func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.LogWarn(fmt.Sprintf("Failed to close history: %v", err))
		}
	}
	if a.fileLogger != nil {
		a.fileLogger.Close()
	}
}

func (a *app) renderer(w io.Writer) *display.ResultRenderer {
	return display.NewResultRenderer(w, a.palette)
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
