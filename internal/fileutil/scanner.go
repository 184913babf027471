package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotDirectory is returned when the scan root exists but is not a directory.
var ErrNotDirectory = errors.New("path is not a directory")

// ErrListDirectory wraps failures reading the scan root's entries.
var ErrListDirectory = errors.New("failed to list directory")

// ScanOptions configures the directory scanning behavior
type ScanOptions struct {
	// Extensions is a list of name suffixes to include (e.g., ".txt")
	Extensions []string
	// CaseSensitive matches Extensions exactly instead of case-folding them
	CaseSensitive bool
	// IncludeHidden keeps entries whose name starts with "."
	IncludeHidden bool
}

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Files contains the absolute paths of all matched entries, sorted
	Files []string
	// Errors contains any non-fatal errors encountered during scanning
	Errors []error
}

// ScanDirectory lists the entries directly inside dir that match opts.
// Subdirectories are never entered. Entries that are not directories are
// returned even if they turn out to be unreadable; callers decide how to
// treat per-file failures.
func ScanDirectory(dir string, opts ScanOptions) (*ScanResult, error) {
	if err := ValidateDirectory(dir); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrListDirectory, dir, err)
	}

	result := &ScanResult{
		Files:  make([]string, 0, len(entries)),
		Errors: make([]error, 0),
	}

	suffixes := normalizeExtensions(opts.Extensions, opts.CaseSensitive)

	for _, entry := range entries {
		name := entry.Name()

		if entry.IsDir() {
			continue
		}
		if !opts.IncludeHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if len(suffixes) > 0 && !hasSuffix(name, suffixes, opts.CaseSensitive) {
			continue
		}

		absPath, err := filepath.Abs(filepath.Join(dir, name))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("failed to resolve path %s: %w", name, err))
			continue
		}

		result.Files = append(result.Files, absPath)
	}

	// Sort files for consistent output
	sort.Strings(result.Files)

	return result, nil
}

// ValidateDirectory returns nil when dir exists and is a directory.
// A missing path yields an error satisfying errors.Is(err, fs.ErrNotExist).
func ValidateDirectory(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("failed to access directory: %w", os.ErrNotExist)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	return nil
}

// normalizeExtensions ensures every suffix starts with a dot and, for
// case-insensitive scans, lowercases it.
func normalizeExtensions(exts []string, caseSensitive bool) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if !caseSensitive {
			ext = strings.ToLower(ext)
		}
		out = append(out, ext)
	}
	return out
}

func hasSuffix(name string, suffixes []string, caseSensitive bool) bool {
	if !caseSensitive {
		name = strings.ToLower(name)
	}
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}
