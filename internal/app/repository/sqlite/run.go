package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"audio2text/internal/app/model"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id                TEXT PRIMARY KEY,
	source_file       TEXT NOT NULL,
	output_file       TEXT NOT NULL DEFAULT '',
	audio_seconds     INTEGER NOT NULL DEFAULT 0,
	segment_count     INTEGER NOT NULL DEFAULT 0,
	transcribed_count INTEGER NOT NULL DEFAULT 0,
	cleanup_warnings  INTEGER NOT NULL DEFAULT 0,
	transcript        TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMP NOT NULL,
	has_error         INTEGER NOT NULL DEFAULT 0,
	error_message     TEXT NOT NULL DEFAULT ''
);`

// RunDB stores run history in a local sqlite database.
type RunDB struct {
	db *sql.DB
}

// NewRunDB opens (and if needed bootstraps) the database at dbFilePath.
func NewRunDB(dbFilePath string) (*RunDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&mode=rwc", dbFilePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create runs table: %w", err)
	}
	return &RunDB{db: db}, nil
}

// NewWithDB wraps an existing connection. Used by tests.
func NewWithDB(db *sql.DB) *RunDB {
	return &RunDB{db: db}
}

func (r *RunDB) Close() error {
	return r.db.Close()
}

func (r *RunDB) Record(run model.RunRecord) error {
	insertSQL := `INSERT INTO runs
		(id, source_file, output_file, audio_seconds, segment_count, transcribed_count, cleanup_warnings, transcript, created_at, has_error, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
	_, err := r.db.Exec(insertSQL,
		run.ID, run.SourceFile, run.OutputFile, run.AudioSeconds,
		run.SegmentCount, run.TranscribedCount, run.CleanupWarnings,
		run.Transcript, run.CreatedAt, run.HasError, run.ErrorMessage)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

func (r *RunDB) Recent(limit int) ([]model.RunRecord, error) {
	query := `SELECT id, source_file, output_file, audio_seconds, segment_count, transcribed_count, cleanup_warnings, transcript, created_at, has_error, error_message
		FROM runs
		ORDER BY created_at DESC
		LIMIT ?;`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	runs := make([]model.RunRecord, 0)
	for rows.Next() {
		var run model.RunRecord
		if err := rows.Scan(&run.ID, &run.SourceFile, &run.OutputFile, &run.AudioSeconds,
			&run.SegmentCount, &run.TranscribedCount, &run.CleanupWarnings,
			&run.Transcript, &run.CreatedAt, &run.HasError, &run.ErrorMessage); err != nil {
			return nil, fmt.Errorf("db scan failed: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
