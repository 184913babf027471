package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/licensesearch/internal/models"
)

// FileLogger writes search diagnostics to timestamped run logs.
// It creates one run-YYYYMMDD-HHMMSS.log per process and maintains a
// latest.log symlink pointing at the most recent one.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLoggerWithDir creates a FileLogger in logDir at the default "info" level.
func NewFileLoggerWithDir(logDir string) (*FileLogger, error) {
	return NewFileLoggerWithDirAndLevel(logDir, "info")
}

// NewFileLoggerWithDirAndLevel creates a FileLogger in logDir with the given level.
func NewFileLoggerWithDirAndLevel(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", timestamp))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	logger := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
	}

	logger.writeRunLog("=== License Search Run Log ===\n")
	logger.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return logger, nil
}

// RunFile returns the path of the log file being written.
func (fl *FileLogger) RunFile() string {
	return fl.runFile
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}

	formatted := fmt.Sprintf("[%s] [%s] %s\n", time.Now().Format("15:04:05"), level, message)
	fl.writeRunLog(formatted)
}

// LogSearchSummary records the search outcome, including every skipped file
// and the titles that matched, at INFO level.
func (fl *FileLogger) LogSearchSummary(outcome *models.SearchOutcome, duration time.Duration) {
	if outcome == nil || !fl.shouldLog("info") {
		return
	}

	ts := time.Now().Format("15:04:05")
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] === Search Summary ===\n", ts))
	sb.WriteString(fmt.Sprintf("[%s] ID: %s\n", ts, outcome.ID))
	sb.WriteString(fmt.Sprintf("[%s] Directory: %s\n", ts, outcome.Directory))
	sb.WriteString(fmt.Sprintf("[%s] Phrase: %s\n", ts, outcome.Phrase))
	sb.WriteString(fmt.Sprintf("[%s] Matches: %d\n", ts, outcome.Len()))
	for _, r := range outcome.Records {
		sb.WriteString(fmt.Sprintf("[%s]   - %s (%s)\n", ts, r.Title, r.SourceFile))
	}
	if len(outcome.Skipped) > 0 {
		sb.WriteString(fmt.Sprintf("[%s] Skipped: %d\n", ts, len(outcome.Skipped)))
		for _, s := range outcome.Skipped {
			sb.WriteString(fmt.Sprintf("[%s]   - %s: %s\n", ts, s.Path, s.Reason))
		}
	}
	sb.WriteString(fmt.Sprintf("[%s] Duration: %s\n", ts, formatDuration(duration)))

	fl.writeRunLog(sb.String())
}

// Close flushes and closes the run log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}

	return nil
}

// writeRunLog is a thread-safe helper to write to the run log file.
func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
		fl.runLog.Sync()
	}
}
