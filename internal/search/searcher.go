// Package search implements the license phrase search: it lists the .txt files
// directly inside a directory, finds the first paragraph in each file that
// contains a phrase, and returns one MatchRecord per matching file ordered by
// title.
package search

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harrison/licensesearch/internal/fileutil"
	"github.com/harrison/licensesearch/internal/models"
)

// DefaultExtension is the file name suffix searched when none is configured.
const DefaultExtension = ".txt"

// Logger receives the search's operator diagnostics.
type Logger interface {
	LogDebug(message string)
	LogWarn(message string)
	LogSearchSummary(outcome *models.SearchOutcome, duration time.Duration)
}

// ProgressReporter is told about each eligible file as it is processed.
type ProgressReporter interface {
	Start(total int)
	Step(path string)
	Complete(matched int)
}

// Options configures a Searcher. Zero values select defaults.
type Options struct {
	Extension string           // Name suffix of eligible files, matched case-sensitively
	Logger    Logger           // Optional diagnostics sink
	Progress  ProgressReporter // Optional per-file progress
	Now       func() time.Time // Clock for SearchedAt
	NewID     func() string    // Outcome ID generator
}

// Searcher runs searches. It holds no state between calls.
type Searcher struct {
	extension string
	logger    Logger
	progress  ProgressReporter
	now       func() time.Time
	newID     func() string
}

// New creates a Searcher from opts.
func New(opts Options) *Searcher {
	s := &Searcher{
		extension: opts.Extension,
		logger:    opts.Logger,
		progress:  opts.Progress,
		now:       opts.Now,
		newID:     opts.NewID,
	}
	if s.extension == "" {
		s.extension = DefaultExtension
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.New().String() }
	}
	return s
}

// Search runs one search with default options.
func Search(directory, phrase string) (*models.SearchOutcome, error) {
	return New(Options{}).Search(directory, phrase)
}

// Search looks for phrase in every eligible file directly inside directory.
//
// It returns a non-empty outcome ordered by title, or a *models.SearchError
// whose Reason is InvalidDirectory, EmptyPhrase, EnumerationFailed or
// NoMatchesFound. Files that cannot be read or decoded are skipped and
// reported in the outcome's Skipped list; they never fail the search.
func (s *Searcher) Search(directory, phrase string) (*models.SearchOutcome, error) {
	start := s.now()

	if err := fileutil.ValidateDirectory(directory); err != nil {
		return nil, &models.SearchError{Reason: models.ReasonInvalidDirectory, Path: directory, Phrase: phrase, Err: err}
	}
	if strings.TrimSpace(phrase) == "" {
		return nil, &models.SearchError{Reason: models.ReasonEmptyPhrase, Path: directory, Phrase: phrase}
	}

	scan, err := fileutil.ScanDirectory(directory, fileutil.ScanOptions{
		Extensions:    []string{s.extension},
		CaseSensitive: true,
		IncludeHidden: true,
	})
	if err != nil {
		// The directory may have vanished or changed type since validation.
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fileutil.ErrNotDirectory) {
			return nil, &models.SearchError{Reason: models.ReasonInvalidDirectory, Path: directory, Phrase: phrase, Err: err}
		}
		return nil, &models.SearchError{Reason: models.ReasonEnumerationFailed, Path: directory, Phrase: phrase, Err: err}
	}
	for _, scanErr := range scan.Errors {
		s.warn(scanErr.Error())
	}

	outcome := &models.SearchOutcome{
		ID:         s.newID(),
		Directory:  directory,
		Phrase:     phrase,
		Records:    make([]models.MatchRecord, 0),
		SearchedAt: start,
	}

	if s.progress != nil {
		s.progress.Start(len(scan.Files))
	}

	for _, path := range scan.Files {
		if s.progress != nil {
			s.progress.Step(path)
		}

		record, matched, err := s.searchFile(path, phrase)
		if err != nil {
			s.warn(fmt.Sprintf("Could not read or process file %s: %v", filepath.Base(path), err))
			outcome.Skipped = append(outcome.Skipped, models.SkippedFile{Path: path, Reason: err.Error()})
			continue
		}
		if matched && s.accept(path, record) {
			outcome.Records = append(outcome.Records, record)
		}
	}

	if s.progress != nil {
		s.progress.Complete(len(outcome.Records))
	}

	if len(outcome.Records) == 0 {
		s.debug(fmt.Sprintf("no matches for %q in %d file(s) under %s", phrase, len(scan.Files), directory))
		return nil, &models.SearchError{Reason: models.ReasonNoMatchesFound, Path: directory, Phrase: phrase}
	}

	SortRecords(outcome.Records)

	if s.logger != nil {
		s.logger.LogSearchSummary(outcome, s.now().Sub(start))
	}

	return outcome, nil
}

// searchFile reads one file and extracts its match, if any.
func (s *Searcher) searchFile(path, phrase string) (models.MatchRecord, bool, error) {
	content, err := ReadText(path)
	if err != nil {
		return models.MatchRecord{}, false, err
	}

	name := filepath.Base(path)
	record, ok := ExtractMatch(content, phrase, name)
	if !ok && ContainsFold(content, phrase) {
		s.debug(fmt.Sprintf("%s: phrase only occurs across a paragraph boundary", name))
	}
	return record, ok, nil
}

// SortRecords orders records by title, byte-wise ascending. Records with equal
// titles keep their relative order.
func SortRecords(records []models.MatchRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Title < records[j].Title
	})
}

// accept reports whether record is fit to return, logging a warning when not.
func (s *Searcher) accept(path string, record models.MatchRecord) bool {
	if err := record.Validate(); err != nil {
		s.warn(fmt.Sprintf("Discarding match in %s: %v", filepath.Base(path), err))
		return false
	}
	return true
}

func (s *Searcher) warn(message string) {
	if s.logger != nil {
		s.logger.LogWarn(message)
	}
}

func (s *Searcher) debug(message string) {
	if s.logger != nil {
		s.logger.LogDebug(message)
	}
}
