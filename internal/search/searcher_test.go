package search

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/licensesearch/internal/models"
)

// recordingLogger captures diagnostics for assertions.
type recordingLogger struct {
	mu       sync.Mutex
	warnings []string
	debugs   []string
	outcomes []*models.SearchOutcome
}

func (l *recordingLogger) LogDebug(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debugs = append(l.debugs, message)
}

func (l *recordingLogger) LogWarn(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, message)
}

func (l *recordingLogger) LogSearchSummary(outcome *models.SearchOutcome, duration time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outcomes = append(l.outcomes, outcome)
}

// recordingProgress captures progress callbacks.
type recordingProgress struct {
	total   int
	steps   []string
	matched int
}

func (p *recordingProgress) Start(total int) { p.total = total }
func (p *recordingProgress) Step(path string) { p.steps = append(p.steps, filepath.Base(path)) }
func (p *recordingProgress) Complete(matched int) { p.matched = matched }

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func titlesOf(outcome *models.SearchOutcome) []string {
	titles := make([]string, 0, outcome.Len())
	for _, r := range outcome.Records {
		titles = append(titles, r.Title)
	}
	return titles
}

func requireReason(t *testing.T, err error, want models.ErrorReason) {
	t.Helper()
	require.Error(t, err)
	reason, ok := models.ReasonOf(err)
	require.True(t, ok, "expected *models.SearchError, got %T: %v", err, err)
	assert.Equal(t, want, reason)
}

func TestSearch_MITScenario(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"mit.txt": mitText})

	outcome, err := Search(dir, "permission is hereby granted")
	require.NoError(t, err)
	require.Len(t, outcome.Records, 1)

	record := outcome.Records[0]
	assert.Equal(t, "MIT License", record.Title)
	assert.Equal(t, "MIT License", record.ParagraphBefore)
	assert.True(t, strings.HasPrefix(record.MatchingParagraph, "Permission is hereby granted"))

	iBefore := strings.Index(record.ContextDisplay, "MIT License")
	iMatch := strings.Index(record.ContextDisplay, "Permission is hereby granted")
	iAfter := strings.Index(record.ContextDisplay, "THE SOFTWARE IS PROVIDED")
	assert.True(t, iBefore >= 0 && iBefore < iMatch && iMatch < iAfter, "context must hold all three paragraphs in order")

	assert.Equal(t, dir, outcome.Directory)
	assert.Equal(t, "permission is hereby granted", outcome.Phrase)
	assert.NotEmpty(t, outcome.ID)
}

func TestSearch_OrderedByTitle(t *testing.T) {
	dir := t.TempDir()
	// File names sort opposite to titles
	writeFiles(t, dir, map[string]string{
		"a-bsd.txt":    "BSD License\n\nRedistribution and use. Permission to use a copy of this software.",
		"z-apache.txt": "Apache License\n\nYou may obtain a copy of this software under the License.",
	})

	outcome, err := Search(dir, "copy of this software")
	require.NoError(t, err)
	assert.Equal(t, []string{"Apache License", "BSD License"}, titlesOf(outcome))
}

func TestSearch_OrderIsByteWise(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"1.txt": "apache lowercase\n\nshared phrase",
		"2.txt": "Zlib License\n\nshared phrase",
		"3.txt": "BSD License\n\nshared phrase",
	})

	outcome, err := Search(dir, "shared phrase")
	require.NoError(t, err)
	assert.Equal(t, []string{"BSD License", "Zlib License", "apache lowercase"}, titlesOf(outcome))
}

func TestSearch_CaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"mit.txt": mitText})

	outcome, err := Search(dir, "mit license")
	require.NoError(t, err)
	require.Len(t, outcome.Records, 1)
	assert.Equal(t, "", outcome.Records[0].ParagraphBefore, "match in first paragraph has no paragraph before")
}

func TestSearch_OneRecordPerFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"gpl.txt": "GNU GPL\n\nfirst warranty mention\n\nsecond warranty mention\n\nthird warranty mention",
	})

	outcome, err := Search(dir, "warranty")
	require.NoError(t, err)
	require.Len(t, outcome.Records, 1)
	assert.Equal(t, "first warranty mention", outcome.Records[0].MatchingParagraph)
}

func TestSearch_IgnoresOtherExtensionsAndSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"notes.md":         "Markdown\n\nneedle",
		"UPPER.TXT":        "Upper\n\nneedle",
		"nested/inner.txt": "Nested\n\nneedle",
		"kept.txt":         "Kept\n\nneedle",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.txt"), 0755))

	outcome, err := Search(dir, "needle")
	require.NoError(t, err)
	assert.Equal(t, []string{"Kept"}, titlesOf(outcome))
}

func TestSearch_NoTxtFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"readme.md": "needle"})

	_, err := Search(dir, "needle")
	requireReason(t, err, models.ReasonNoMatchesFound)
	assert.Contains(t, err.Error(), "'needle'")
}

func TestSearch_NoMatches(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"mit.txt": mitText})

	_, err := Search(dir, "apache")
	requireReason(t, err, models.ReasonNoMatchesFound)
}

func TestSearch_EmptyPhrase(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"mit.txt": mitText})

	for _, phrase := range []string{"", " ", "\t\n  "} {
		_, err := Search(dir, phrase)
		requireReason(t, err, models.ReasonEmptyPhrase)
	}
}

func TestSearch_InvalidDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "mit.txt")
	writeFiles(t, dir, map[string]string{"mit.txt": mitText})

	for _, path := range []string{filepath.Join(dir, "missing"), file, ""} {
		for _, phrase := range []string{"mit", ""} {
			_, err := Search(path, phrase)
			requireReason(t, err, models.ReasonInvalidDirectory)
		}
	}
}

func TestSearch_EnumerationFailed(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}
	dir := filepath.Join(t.TempDir(), "locked")
	require.NoError(t, os.Mkdir(dir, 0000))
	defer os.Chmod(dir, 0755)

	_, err := Search(dir, "mit")
	requireReason(t, err, models.ReasonEnumerationFailed)
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestSearch_SkipsUnreadableFiles(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require elevated privileges on windows")
	}
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"mit.txt":         mitText,
		"undecodable.txt": string([]byte{0xff, 0xfe, 0xff, 0xfe}),
	})
	require.NoError(t, os.Symlink(filepath.Join(dir, "nowhere"), filepath.Join(dir, "broken.txt")))

	logger := &recordingLogger{}
	outcome, err := New(Options{Logger: logger}).Search(dir, "permission is hereby granted")
	require.NoError(t, err)

	assert.Equal(t, []string{"MIT License"}, titlesOf(outcome))
	require.Len(t, outcome.Skipped, 2)
	assert.Equal(t, "broken.txt", filepath.Base(outcome.Skipped[0].Path))
	assert.Equal(t, "undecodable.txt", filepath.Base(outcome.Skipped[1].Path))
	assert.Len(t, logger.warnings, 2)
	assert.Contains(t, logger.warnings[0], "Could not read or process file broken.txt")
	require.Len(t, logger.outcomes, 1)
	assert.Same(t, outcome, logger.outcomes[0])
}

func TestSearch_ProgressAndOptions(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.lic": "Alpha\n\nneedle",
		"b.lic": "Beta\n\nnothing",
		"c.txt": "Gamma\n\nneedle",
	})

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	progress := &recordingProgress{}
	s := New(Options{
		Extension: ".lic",
		Progress:  progress,
		Now:       func() time.Time { return fixed },
		NewID:     func() string { return "search-1" },
	})

	outcome, err := s.Search(dir, "needle")
	require.NoError(t, err)

	assert.Equal(t, []string{"Alpha"}, titlesOf(outcome))
	assert.Equal(t, "search-1", outcome.ID)
	assert.Equal(t, fixed, outcome.SearchedAt)
	assert.Equal(t, 2, progress.total)
	assert.Equal(t, []string{"a.lic", "b.lic"}, progress.steps)
	assert.Equal(t, 1, progress.matched)
}

func TestSearch_IsStateless(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"mit.txt": mitText})

	s := New(Options{})
	first, err := s.Search(dir, "mit license")
	require.NoError(t, err)

	_, err = s.Search(dir, "does not occur")
	requireReason(t, err, models.ReasonNoMatchesFound)

	second, err := s.Search(dir, "mit license")
	require.NoError(t, err)
	assert.Equal(t, first.Records, second.Records)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestSortRecordsStable(t *testing.T) {
	records := []models.MatchRecord{
		{Title: "B", SourceFile: "1"},
		{Title: "A", SourceFile: "2"},
		{Title: "B", SourceFile: "3"},
	}
	SortRecords(records)

	assert.Equal(t, "A", records[0].Title)
	assert.Equal(t, "1", records[1].SourceFile)
	assert.Equal(t, "3", records[2].SourceFile)
}

func TestSearcher_AcceptRejectsInvalidRecords(t *testing.T) {
	log := &recordingLogger{}
	s := New(Options{Logger: log})

	assert.True(t, s.accept("/l/mit.txt", models.MatchRecord{Title: "MIT License", MatchingParagraph: "Permission"}))
	assert.Empty(t, log.warnings)

	assert.False(t, s.accept("/l/blank.txt", models.MatchRecord{Title: "Blank"}))
	require.Len(t, log.warnings, 1)
	assert.Contains(t, log.warnings[0], "Discarding match in blank.txt")
}

func TestSearch_RecordsAreValid(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"lead.txt": "\n\nMIT License\n\nfree of charge",
		"mit.txt":  "MIT License\n\nfree of charge",
	})

	outcome, err := New(Options{}).Search(dir, "free of charge")
	require.NoError(t, err)
	require.Len(t, outcome.Records, 2)
	for _, record := range outcome.Records {
		assert.NoError(t, record.Validate())
	}
	assert.Equal(t, []string{"MIT License", "lead.txt"}, titlesOf(outcome), "a blank first line falls back to the file name")
}
