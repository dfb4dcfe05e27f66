package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobfeed/internal/domain"
	"jobfeed/internal/scrape/util"
)

const summaryRunes = 280

type JobRow struct {
	JobID    string
	Company  string
	Position string
	Location string
	URL      string
	Tags     []string
	Summary  string
	SeenAt   time.Time
}

func JobRowFromPosting(p domain.JobPosting, tags []string, seenAt time.Time) JobRow {
	if tags == nil {
		tags = []string{}
	}
	return JobRow{
		JobID:    strings.TrimSpace(p.ID),
		Company:  strings.TrimSpace(p.Company),
		Position: strings.TrimSpace(p.Position),
		Location: strings.TrimSpace(p.Location),
		URL:      util.CanonicalURL(p.URL),
		Tags:     tags,
		Summary:  util.Summary(p.Description, summaryRunes),
		SeenAt:   seenAt,
	}
}

// UpsertJobs inserts rows or replaces the stored values for ids already
// present, keeping first_seen. Rows with a blank id are left out and
// counted in skipped; they never abort the batch.
func UpsertJobs(ctx context.Context, db *sql.DB, rows []JobRow) (added, skipped int, err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	for _, j := range rows {
		if j.JobID == "" {
			skipped++
			continue
		}
		if j.SeenAt.IsZero() {
			j.SeenAt = time.Now().UTC()
		}
		tagsB, _ := json.Marshal(j.Tags)
		seen := formatTime(j.SeenAt)

		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM jobs WHERE job_id = ? LIMIT 1;`, j.JobID).Scan(&exists)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return 0, 0, fmt.Errorf("lookup job %s: %w", j.JobID, err)
		}
		if errors.Is(err, sql.ErrNoRows) {
			added++
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO jobs(job_id, company, position, location, url, tags, summary, first_seen, last_seen)
VALUES(?,?,?,?,?,?,?,?,?)
ON CONFLICT(job_id) DO UPDATE SET
  company = excluded.company,
  position = excluded.position,
  location = excluded.location,
  url = excluded.url,
  tags = excluded.tags,
  summary = excluded.summary,
  last_seen = excluded.last_seen;`,
			j.JobID,
			j.Company,
			j.Position,
			j.Location,
			j.URL,
			string(tagsB),
			j.Summary,
			seen,
			seen,
		); err != nil {
			return 0, 0, fmt.Errorf("upsert job %s: %w", j.JobID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	return added, skipped, nil
}
