package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/harrison/licensesearch/internal/filelock"
	"github.com/harrison/licensesearch/internal/models"
)

// ResolvePath appends the exporter's extension when path has none.
func ResolvePath(path string, exporter Exporter) string {
	if filepath.Ext(path) == "" {
		return path + exporter.Extension()
	}
	return path
}

// FileOption adjusts how ToFile writes.
type FileOption func(*fileOptions)

type fileOptions struct {
	lockDir string
}

// WithLockDir keeps export lock files in dir instead of the default
// temporary location.
func WithLockDir(dir string) FileOption {
	return func(o *fileOptions) {
		o.lockDir = dir
	}
}

// ToFile exports outcome to path in format and returns the path written.
// The file is replaced atomically under an advisory lock, so a failed export
// leaves any existing file untouched. Lock files never land next to the export.
func ToFile(outcome *models.SearchOutcome, path string, format Format, opts ...FileOption) (string, error) {
	if err := checkOutcome(outcome); err != nil {
		return "", err
	}
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("export path is required")
	}

	exporter, err := New(format)
	if err != nil {
		return "", err
	}

	var o fileOptions
	for _, opt := range opts {
		opt(&o)
	}

	target := ResolvePath(path, exporter)
	err = filelock.LockAndWriteFunc(o.lockDir, target, func(w io.Writer) error {
		return exporter.Export(w, outcome)
	})
	if err != nil {
		return "", fmt.Errorf("An error occurred during %s export: %w", strings.ToUpper(string(format)), err)
	}
	return target, nil
}

// SuccessMessage is the confirmation shown after a successful export.
func SuccessMessage(count int, path string) string {
	return fmt.Sprintf("Successfully exported %d records to: %s", count, path)
}
