package pg

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

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
	created_at        TIMESTAMPTZ NOT NULL,
	has_error         INTEGER NOT NULL DEFAULT 0,
	error_message     TEXT NOT NULL DEFAULT ''
);`

// RunDB stores run history in PostgreSQL, for shared deployments where
// several machines transcribe against the same history.
type RunDB struct {
	db *sql.DB
}

func NewRunDB(dsn string) (*RunDB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create runs table: %w", err)
	}
	return &RunDB{db: db}, nil
}

func (r *RunDB) Close() error {
	return r.db.Close()
}

func (r *RunDB) Record(run model.RunRecord) error {
	insertSQL := `INSERT INTO runs
		(id, source_file, output_file, audio_seconds, segment_count, transcribed_count, cleanup_warnings, transcript, created_at, has_error, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`
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
		LIMIT $1;`
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
