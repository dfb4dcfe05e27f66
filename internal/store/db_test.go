package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"jobfeed/internal/domain"
	"jobfeed/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpen_MigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, db.Pool))

	var v int
	require.NoError(t, db.Pool.QueryRow(`PRAGMA user_version;`).Scan(&v))
	assert.Equal(t, schemaVersion, v)
}

func TestUpsertJobs_InsertOrReplace(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	t0 := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(24 * time.Hour)

	added, _, err := UpsertJobs(ctx, db.Pool, []JobRow{
		JobRowFromPosting(domain.JobPosting{ID: "1", Position: "Backend Engineer", Company: "Acme", Description: "<p>Build <b>APIs</b></p>"}, []string{"backend"}, t0),
		JobRowFromPosting(domain.JobPosting{ID: "2", Position: "API Developer"}, nil, t0),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	added, _, err = UpsertJobs(ctx, db.Pool, []JobRow{
		JobRowFromPosting(domain.JobPosting{ID: "1", Position: "Backend Lead", Company: "Acme"}, []string{"backend", "lead"}, t1),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, added)

	jobs, err := ListJobs(ctx, db.Pool, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, "1", jobs[0].JobID)
	assert.Equal(t, "Backend Lead", jobs[0].Position)
	assert.Equal(t, []string{"backend", "lead"}, jobs[0].Tags)
	assert.Equal(t, "2026-10-01T12:00:00Z", jobs[0].FirstSeen)
	assert.Equal(t, "2026-10-02T12:00:00Z", jobs[0].LastSeen)
	assert.Equal(t, "", jobs[0].Summary, "summary replaced by the later value")

	assert.Equal(t, "2", jobs[1].JobID)
	assert.Equal(t, []string{}, jobs[1].Tags)
}

func TestUpsertJobs_StoresSummary(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, _, err := UpsertJobs(ctx, db.Pool, []JobRow{
		JobRowFromPosting(domain.JobPosting{ID: "9", Position: "Go Dev", URL: "https://RemoteOK.com/l/9?ref=feed", Description: "<p>Build <b>APIs</b></p><p>in Go</p>"}, []string{"go"}, time.Now()),
	})
	require.NoError(t, err)

	jobs, err := ListJobs(ctx, db.Pool, 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Build APIs in Go", jobs[0].Summary)
	assert.Equal(t, "https://remoteok.com/l/9", jobs[0].URL)
}

func TestUpsertJobs_BlankIDSkippedOthersKept(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	added, skipped, err := UpsertJobs(ctx, db.Pool, []JobRow{
		{JobID: "1", Position: "A"},
		JobRowFromPosting(domain.JobPosting{ID: "", Position: "Backend Dev"}, []string{"backend"}, time.Now()),
		{JobID: "7", Position: "API Dev"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Equal(t, 1, skipped)

	jobs, err := ListJobs(ctx, db.Pool, 10)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.ElementsMatch(t, []string{"1", "7"}, []string{jobs[0].JobID, jobs[1].JobID})
}

func TestRuns(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	start := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	_, err := RecordRun(ctx, db.Pool, Run{StartedAt: start, FinishedAt: start.Add(time.Second), Fetched: 10, Matched: 3, Skipped: 1})
	require.NoError(t, err)
	_, err = RecordRun(ctx, db.Pool, Run{StartedAt: start.Add(time.Hour), FinishedAt: start.Add(time.Hour), FromCache: true, Error: "TIMEOUT: no response"})
	require.NoError(t, err)

	runs, err := RecentRuns(ctx, db.Pool, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.True(t, runs[0].FromCache)
	assert.Equal(t, "TIMEOUT: no response", runs[0].Error)
	assert.Equal(t, 10, runs[1].Fetched)
	assert.Equal(t, 3, runs[1].Matched)
	assert.True(t, runs[1].StartedAt.Equal(start))
}

func TestRunLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", ".jobfeed.lock")

	l, err := AcquireRunLock(path)
	require.NoError(t, err)

	_, err = AcquireRunLock(path)
	assert.Equal(t, errors.KindLocked, errors.KindOf(err))

	require.NoError(t, l.Release())

	l2, err := AcquireRunLock(path)
	require.NoError(t, err)
	require.NoError(t, l2.Release())

	var nilLock *RunLock
	assert.NoError(t, nilLock.Release())
}
