// Package history keeps an opt-in audit trail of searches in a local SQLite
// database: when each search ran, what it looked for, how it ended, and the
// records it produced.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/licensesearch/internal/models"
)

// StatusOK marks a run that produced records.
const StatusOK = "ok"

// statusError marks a run that failed with an error outside the search taxonomy.
const statusError = "error"

// ErrRunNotFound is returned when no run matches an ID.
var ErrRunNotFound = errors.New("search run not found")

// ErrAmbiguousID is returned when an ID prefix matches more than one run.
var ErrAmbiguousID = errors.New("search run ID prefix is ambiguous")

// Run is one recorded search invocation.
type Run struct {
	ID           string
	Directory    string
	Phrase       string
	Status       string // StatusOK or a models.ErrorReason
	Message      string // User-facing error text, empty for StatusOK
	MatchCount   int
	SkippedCount int
	SearchedAt   time.Time
	Matches      []models.MatchRecord // Loaded by Get only
}

// OK reports whether the run produced records.
func (r *Run) OK() bool {
	return r.Status == StatusOK
}

// Store manages the SQLite database holding search history
type Store struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// NewStore creates a new Store instance and initializes the database
func NewStore(dbPath string) (*Store, error) {
	if dbPath == ":memory:" {
		return openAndInitStore(dbPath)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	return openAndInitStore(dbPath)
}

func openAndInitStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Every pooled connection to ":memory:" would get its own empty database
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// busy_timeout must come first so later statements wait on locks
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	store := &Store{
		db:     db,
		dbPath: dbPath,
		now:    time.Now,
	}

	if err := store.ApplyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

// execWithRetry executes a SQL statement with exponential backoff retry on lock errors.
func execWithRetry(db *sql.DB, sql string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(sql)
		if err == nil {
			return nil
		}

		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}

		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// NewRun builds the history entry for a finished search. outcome is ignored
// when searchErr is set.
func NewRun(directory, phrase string, outcome *models.SearchOutcome, searchErr error, now time.Time) *Run {
	run := &Run{
		ID:         uuid.New().String(),
		Directory:  directory,
		Phrase:     phrase,
		SearchedAt: now,
	}

	if searchErr != nil {
		run.Status = statusError
		if reason, ok := models.ReasonOf(searchErr); ok {
			run.Status = string(reason)
		}
		run.Message = searchErr.Error()
		return run
	}

	run.Status = StatusOK
	if outcome != nil {
		if outcome.ID != "" {
			run.ID = outcome.ID
		}
		if !outcome.SearchedAt.IsZero() {
			run.SearchedAt = outcome.SearchedAt
		}
		run.MatchCount = outcome.Len()
		run.SkippedCount = len(outcome.Skipped)
		run.Matches = outcome.Records
	}
	return run
}

// Record stores a finished search. It satisfies the shell's recorder hook.
func (s *Store) Record(directory, phrase string, outcome *models.SearchOutcome, searchErr error) error {
	return s.RecordRun(context.Background(), NewRun(directory, phrase, outcome, searchErr, s.now()))
}

// RecordRun inserts run and its matches in one transaction.
func (s *Store) RecordRun(ctx context.Context, run *Run) error {
	if run == nil {
		return fmt.Errorf("run cannot be nil")
	}
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO search_runs
		(id, directory, phrase, status, message, match_count, skipped_count, searched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Directory, run.Phrase, run.Status, run.Message,
		run.MatchCount, run.SkippedCount, run.SearchedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert search run: %w", err)
	}

	for i, m := range run.Matches {
		_, err := tx.ExecContext(ctx, `INSERT INTO run_matches
			(run_id, position, title, compliance_tag, matching_paragraph, paragraph_before, context_display, source_file)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, i, m.Title, m.ComplianceTag, m.MatchingParagraph, m.ParagraphBefore, m.ContextDisplay, m.SourceFile)
		if err != nil {
			return fmt.Errorf("insert match %q: %w", m.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit search run: %w", err)
	}
	return nil
}

// List returns the most recent runs first, without their matches.
// limit <= 0 returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT id, directory, phrase, status, message, match_count, skipped_count, searched_at
		FROM search_runs ORDER BY searched_at DESC, rowid DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query search runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		if err := rows.Scan(&run.ID, &run.Directory, &run.Phrase, &run.Status, &run.Message,
			&run.MatchCount, &run.SkippedCount, &run.SearchedAt); err != nil {
			return nil, fmt.Errorf("scan search run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search runs: %w", err)
	}
	return runs, nil
}

// Get returns the run whose ID equals or starts with id, including its matches.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrRunNotFound
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, directory, phrase, status, message, match_count, skipped_count, searched_at
		FROM search_runs WHERE id = ? OR substr(id, 1, ?) = ? LIMIT 2`, id, len(id), id)
	if err != nil {
		return nil, fmt.Errorf("query search run: %w", err)
	}

	var found []*Run
	for rows.Next() {
		run := &Run{}
		if err := rows.Scan(&run.ID, &run.Directory, &run.Phrase, &run.Status, &run.Message,
			&run.MatchCount, &run.SkippedCount, &run.SearchedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan search run: %w", err)
		}
		found = append(found, run)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search run: %w", err)
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 2:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousID, id)
	}

	run := found[0]
	matches, err := s.matches(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	run.Matches = matches
	return run, nil
}

func (s *Store) matches(ctx context.Context, runID string) ([]models.MatchRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT title, compliance_tag, matching_paragraph, paragraph_before, context_display, COALESCE(source_file, '')
		FROM run_matches WHERE run_id = ? ORDER BY position ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run matches: %w", err)
	}
	defer rows.Close()

	var records []models.MatchRecord
	for rows.Next() {
		var m models.MatchRecord
		if err := rows.Scan(&m.Title, &m.ComplianceTag, &m.MatchingParagraph, &m.ParagraphBefore, &m.ContextDisplay, &m.SourceFile); err != nil {
			return nil, fmt.Errorf("scan run match: %w", err)
		}
		records = append(records, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run matches: %w", err)
	}
	return records, nil
}

// Outcome rebuilds the search outcome of a successful run.
func (r *Run) Outcome() *models.SearchOutcome {
	if !r.OK() {
		return nil
	}
	return &models.SearchOutcome{
		ID:         r.ID,
		Directory:  r.Directory,
		Phrase:     r.Phrase,
		Records:    r.Matches,
		SearchedAt: r.SearchedAt,
	}
}

// Clear deletes every run and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	return s.deleteRuns(ctx, `SELECT id FROM search_runs`)
}

// Prune removes runs older than keepDays days and returns how many were removed.
// keepDays <= 0 keeps everything.
func (s *Store) Prune(ctx context.Context, keepDays int) (int64, error) {
	if keepDays <= 0 {
		return 0, nil
	}
	cutoff := s.now().AddDate(0, 0, -keepDays).UTC()
	return s.deleteRuns(ctx, `SELECT id FROM search_runs WHERE searched_at < ?`, cutoff)
}

// deleteRuns removes the runs selected by selectIDs together with their matches.
func (s *Store) deleteRuns(ctx context.Context, selectIDs string, args ...interface{}) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_matches WHERE run_id IN (`+selectIDs+`)`, args...); err != nil {
		return 0, fmt.Errorf("delete run matches: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM search_runs WHERE id IN (`+selectIDs+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("delete search runs: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit delete: %w", err)
	}
	return deleted, nil
}
