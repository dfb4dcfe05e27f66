package store

import (
	"context"
	"database/sql"
	"time"
)

// Run is one pipeline execution as recorded in the runs table.
type Run struct {
	ID         int64     `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Fetched    int       `json:"fetched"`
	Matched    int       `json:"matched"`
	Skipped    int       `json:"skipped"`
	FromCache  bool      `json:"from_cache"`
	Error      string    `json:"error"`
}

func RecordRun(ctx context.Context, db *sql.DB, r Run) (int64, error) {
	fromCache := 0
	if r.FromCache {
		fromCache = 1
	}
	res, err := db.ExecContext(ctx, `
INSERT INTO runs(started_at, finished_at, fetched, matched, skipped, from_cache, error)
VALUES(?,?,?,?,?,?,?);`,
		formatTime(r.StartedAt),
		formatTime(r.FinishedAt),
		r.Fetched,
		r.Matched,
		r.Skipped,
		fromCache,
		r.Error,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecentRuns returns up to limit runs, newest first.
func RecentRuns(ctx context.Context, db *sql.DB, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.QueryContext(ctx, `
SELECT id, started_at, finished_at, fetched, matched, skipped, from_cache, error
FROM runs
ORDER BY id DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var started, finished string
		var fromCache int
		if err := rows.Scan(&r.ID, &started, &finished, &r.Fetched, &r.Matched, &r.Skipped, &fromCache, &r.Error); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		r.FromCache = fromCache == 1
		out = append(out, r)
	}
	return out, rows.Err()
}
