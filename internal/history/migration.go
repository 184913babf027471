package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Migration represents a database schema migration
type Migration struct {
	Version     int
	Description string
	// Columns are added idempotently before SQL runs.
	// SQLite has no ADD COLUMN IF NOT EXISTS.
	Columns []Column
	SQL     string
}

// Column is a column added to an existing table by a migration.
type Column struct {
	Table      string
	Name       string
	Definition string
}

// migrations is the ordered list of all database migrations
var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema with search_runs and run_matches",
		SQL: `
-- One row per search invocation, successful or not
CREATE TABLE IF NOT EXISTS search_runs (
    id TEXT PRIMARY KEY,
    directory TEXT NOT NULL,
    phrase TEXT NOT NULL,
    status TEXT NOT NULL,
    match_count INTEGER NOT NULL DEFAULT 0,
    skipped_count INTEGER NOT NULL DEFAULT 0,
    searched_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_search_runs_searched_at ON search_runs(searched_at DESC);
CREATE INDEX IF NOT EXISTS idx_search_runs_status ON search_runs(status);

-- Match records of successful runs, in result order
CREATE TABLE IF NOT EXISTS run_matches (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    title TEXT NOT NULL,
    compliance_tag TEXT NOT NULL,
    matching_paragraph TEXT NOT NULL,
    paragraph_before TEXT NOT NULL DEFAULT '',
    context_display TEXT NOT NULL DEFAULT '',
    source_file TEXT,
    FOREIGN KEY (run_id) REFERENCES search_runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_matches_run_id ON run_matches(run_id, position);
`,
	},
	{
		Version:     2,
		Description: "Add user-facing message to search_runs",
		Columns: []Column{
			{Table: "search_runs", Name: "message", Definition: "TEXT NOT NULL DEFAULT ''"},
		},
	},
}

// MigrationVersion represents a record of an applied migration
type MigrationVersion struct {
	Version   int
	AppliedAt time.Time
}

// ApplyMigrations applies all pending migrations to the database in one transaction.
func (s *Store) ApplyMigrations(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin exclusive transaction: %w", err)
	}
	defer tx.Rollback() // no-op if committed

	if err := ensureSchemaVersionTableTx(ctx, tx); err != nil {
		return fmt.Errorf("ensure schema_version table: %w", err)
	}

	appliedVersions, err := getAppliedVersionsTx(ctx, tx)
	if err != nil {
		return fmt.Errorf("get applied versions: %w", err)
	}

	applied := make(map[int]bool)
	for _, v := range appliedVersions {
		applied[v.Version] = true
	}

	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}

		for _, col := range migration.Columns {
			if err := addColumnIfNotExistsTx(ctx, tx, col); err != nil {
				return fmt.Errorf("apply migration %d (%s): %w", migration.Version, migration.Description, err)
			}
		}

		if migration.SQL != "" {
			if _, err := tx.ExecContext(ctx, migration.SQL); err != nil {
				return fmt.Errorf("apply migration %d (%s): %w", migration.Version, migration.Description, err)
			}
		}

		if err := recordMigrationTx(ctx, tx, migration.Version); err != nil {
			return fmt.Errorf("record migration %d: %w", migration.Version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}

	return nil
}

// GetAppliedVersions retrieves all applied migration versions
func (s *Store) GetAppliedVersions() ([]*MigrationVersion, error) {
	rows, err := s.db.Query(`SELECT version, applied_at FROM schema_version ORDER BY version ASC`)
	if err != nil {
		return nil, fmt.Errorf("query schema versions: %w", err)
	}
	defer rows.Close()
	return scanVersions(rows)
}

// GetLatestVersion returns the latest applied migration version
func (s *Store) GetLatestVersion() (int, error) {
	var version int
	err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("query latest version: %w", err)
	}
	return version, nil
}

func ensureSchemaVersionTableTx(ctx context.Context, tx *sql.Tx) error {
	sqlStr := `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`
	if _, err := tx.ExecContext(ctx, sqlStr); err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}
	return nil
}

func getAppliedVersionsTx(ctx context.Context, tx *sql.Tx) ([]*MigrationVersion, error) {
	rows, err := tx.QueryContext(ctx, `SELECT version, applied_at FROM schema_version ORDER BY version ASC`)
	if err != nil {
		return nil, fmt.Errorf("query schema versions: %w", err)
	}
	defer rows.Close()
	return scanVersions(rows)
}

func scanVersions(rows *sql.Rows) ([]*MigrationVersion, error) {
	var versions []*MigrationVersion
	for rows.Next() {
		v := &MigrationVersion{}
		if err := rows.Scan(&v.Version, &v.AppliedAt); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		versions = append(versions, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate versions: %w", err)
	}

	return versions, nil
}

func recordMigrationTx(ctx context.Context, tx *sql.Tx, version int) error {
	_, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, version)
	if err != nil {
		return fmt.Errorf("insert migration version: %w", err)
	}
	return nil
}

// addColumnIfNotExistsTx adds a column unless PRAGMA table_info already lists it.
func addColumnIfNotExistsTx(ctx context.Context, tx *sql.Tx, col Column) error {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", col.Table))
	if err != nil {
		return fmt.Errorf("query table info: %w", err)
	}

	exists := false
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			rows.Close()
			return fmt.Errorf("scan table info: %w", err)
		}
		if name == col.Name {
			exists = true
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterate table info: %w", err)
	}
	rows.Close()

	if exists {
		return nil
	}

	alterSQL := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", col.Table, col.Name, col.Definition)
	if _, err := tx.ExecContext(ctx, alterSQL); err != nil {
		if strings.Contains(err.Error(), "duplicate column name") {
			return nil
		}
		return fmt.Errorf("add column %s.%s: %w", col.Table, col.Name, err)
	}

	return nil
}
