package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/riodiff/internal/model"
)

// FileName is the name of the database file inside the data directory.
const FileName = "riodiff.db"

// HistoryDB provides SQLite-based storage for comparison reports.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist,
// ErrDatabaseNotFound is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	var dsn string
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = dbPath + "?mode=rwc"
	} else {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the location of the database file.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS comparisons (
		id TEXT PRIMARY KEY,
		base_path TEXT NOT NULL,
		test_path TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		identical INTEGER NOT NULL DEFAULT 0,
		differs INTEGER NOT NULL DEFAULT 0,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_comparisons_timestamp ON comparisons(timestamp);
	CREATE INDEX IF NOT EXISTS idx_comparisons_base ON comparisons(base_path);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// DiffRecord is the summary of one stored comparison.
type DiffRecord struct {
	// ID is the unique identifier of the comparison.
	ID string

	BasePath string
	TestPath string

	// Timestamp is when the comparison was saved.
	Timestamp time.Time

	// Identical is true when both files had the same checksum.
	Identical bool

	// Differs is true when differences were reported.
	Differs bool
}

// SaveDiff stores diff and returns the id assigned to it. differs records
// whether the run reported differences under its ignore settings.
func (hdb *HistoryDB) SaveDiff(ctx context.Context, diff *model.RasterDiff, differs bool) (string, error) {
	reportJSON, err := json.Marshal(diff)
	if err != nil {
		return "", fmt.Errorf("failed to serialize report: %w", err)
	}

	id := uuid.NewString()
	query := `
	INSERT INTO comparisons (id, base_path, test_path, identical, differs, report_json)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = hdb.db.ExecContext(ctx, query,
		id,
		diff.BasePath,
		diff.TestPath,
		diff.Identical,
		differs,
		string(reportJSON),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save comparison: %w", err)
	}

	return id, nil
}

// ListDiffs returns the most recent comparisons first.
// A non-positive limit returns every record.
func (hdb *HistoryDB) ListDiffs(ctx context.Context, limit int) ([]DiffRecord, error) {
	query := `
	SELECT id, base_path, test_path, timestamp, identical, differs
	FROM comparisons
	ORDER BY timestamp DESC, rowid DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list comparisons: %w", err)
	}
	defer rows.Close()

	var records []DiffRecord
	for rows.Next() {
		var rec DiffRecord
		var timestamp string

		if err := rows.Scan(&rec.ID, &rec.BasePath, &rec.TestPath, &timestamp, &rec.Identical, &rec.Differs); err != nil {
			return nil, fmt.Errorf("failed to scan comparison: %w", err)
		}

		rec.Timestamp = parseTimestamp(timestamp)
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetDiff retrieves a stored comparison by id.
// It returns ErrRecordNotFound when no record has that id.
func (hdb *HistoryDB) GetDiff(ctx context.Context, id string) (*model.RasterDiff, error) {
	query := `
	SELECT report_json FROM comparisons
	WHERE id = ?
	`

	var reportJSON string
	err := hdb.db.QueryRowContext(ctx, query, id).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comparison: %w", err)
	}

	var diff model.RasterDiff
	if err := json.Unmarshal([]byte(reportJSON), &diff); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &diff, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
