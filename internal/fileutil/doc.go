// Package fileutil lists the candidate files for a license search.
//
// Scanning is deliberately flat: only entries directly inside the given
// directory are considered and subdirectories are never entered. Entries are
// filtered by name suffix (".txt" by default, case-sensitive when requested)
// and returned as sorted absolute paths so results are deterministic across
// platforms.
//
// # Errors
//
// ScanDirectory separates three situations so callers can report them
// differently:
//   - the path is missing (errors.Is(err, fs.ErrNotExist))
//   - the path is not a directory (errors.Is(err, ErrNotDirectory))
//   - the directory exists but listing it failed (errors.Is(err, ErrListDirectory))
//
// Per-entry problems, such as a path that cannot be made absolute, are
// collected in ScanResult.Errors and do not stop the scan.
//
// # Usage
//
//	result, err := fileutil.ScanDirectory("/path/to/licenses", fileutil.ScanOptions{
//	    Extensions:    []string{".txt"},
//	    CaseSensitive: true,
//	    IncludeHidden: true,
//	})
//	if err != nil {
//	    return err
//	}
//	for _, file := range result.Files {
//	    fmt.Println(file)
//	}
package fileutil
