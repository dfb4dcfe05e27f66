package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// Job is a row of the jobs table as read back.
type Job struct {
	JobID     string   `json:"job_id"`
	Company   string   `json:"company"`
	Position  string   `json:"position"`
	Location  string   `json:"location"`
	URL       string   `json:"url"`
	Tags      []string `json:"tags"`
	Summary   string   `json:"summary"`
	FirstSeen string   `json:"first_seen"`
	LastSeen  string   `json:"last_seen"`
}

const schemaVersion = 1

func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= schemaVersion {
		return tx.Commit()
	}

	// ---- Schema v1 ----

	if _, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS jobs (
  job_id TEXT PRIMARY KEY,
  company TEXT NOT NULL DEFAULT '',
  position TEXT NOT NULL,
  location TEXT NOT NULL DEFAULT '',
  url TEXT NOT NULL DEFAULT '',
  tags TEXT NOT NULL DEFAULT '[]',
  summary TEXT NOT NULL DEFAULT '',
  first_seen TEXT NOT NULL,
  last_seen TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  started_at TEXT NOT NULL,
  finished_at TEXT NOT NULL,
  fetched INTEGER NOT NULL DEFAULT 0,
  matched INTEGER NOT NULL DEFAULT 0,
  skipped INTEGER NOT NULL DEFAULT 0,
  from_cache INTEGER NOT NULL DEFAULT 0,
  error TEXT NOT NULL DEFAULT ''
);
`); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
CREATE INDEX IF NOT EXISTS idx_jobs_last_seen
ON jobs(last_seen);
`); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}

// ListJobs returns stored jobs, most recently seen first.
func ListJobs(ctx context.Context, db *sql.DB, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = 200
	}

	rows, err := db.QueryContext(ctx, `
SELECT job_id, company, position, location, url, tags, summary, first_seen, last_seen
FROM jobs
ORDER BY last_seen DESC, job_id ASC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		var j Job
		var tagsJSON string
		if err := rows.Scan(
			&j.JobID,
			&j.Company,
			&j.Position,
			&j.Location,
			&j.URL,
			&tagsJSON,
			&j.Summary,
			&j.FirstSeen,
			&j.LastSeen,
		); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(tagsJSON), &j.Tags)
		out = append(out, j)
	}
	return out, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
