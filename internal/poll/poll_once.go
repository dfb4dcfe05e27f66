package poll

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"jobfeed/internal/config"
	"jobfeed/internal/domain"
	"jobfeed/internal/errors"
	"jobfeed/internal/filter"
	"jobfeed/internal/scrape/types"
	"jobfeed/internal/store"

	"go.uber.org/zap"
)

// ErrNoData means neither the live fetch nor a cached raw file produced
// anything to filter.
var ErrNoData = stderrors.New("no data retrieved")

// ErrRawNotSaved means the fetch worked but the response could not be
// written to disk and there was no earlier raw file to fall back to.
var ErrRawNotSaved = stderrors.New("fetched data could not be saved")

type Deps struct {
	Cfg     config.Config
	Fetcher types.Fetcher
	DB      *store.DB // optional history mirror
	Logger  *zap.Logger
	Now     func() time.Time
}

type Report struct {
	StartedAt  time.Time
	FinishedAt time.Time

	Fetched   int // postings in the live response, metadata excluded
	FetchErr  error
	SaveErr   error
	FromCache bool

	Filter       filter.Stats
	FilterErr    error
	Written      int
	Matches      []domain.Record // filtered postings, verbatim
	FilteredPath string
	NewInStore   int
}

// PollOnce runs fetch → save raw → filter saved raw → save filtered.
//
// Fetch and write failures are logged and the run carries on; filtering
// always reads the raw file on disk, so a stale snapshot from an earlier
// run is used when the fetch fails. ErrNoData is returned when there is no
// raw file to filter, and no filtered file is written in that case.
// ErrRawNotSaved replaces it when the fetch itself succeeded.
func PollOnce(ctx context.Context, d Deps) (Report, error) {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	cfg := d.Cfg

	rep := Report{StartedAt: now().UTC(), FilteredPath: cfg.FilteredPath()}

	lock, err := store.AcquireRunLock(cfg.LockPath())
	if err != nil {
		return rep, err
	}
	defer func() {
		if rerr := lock.Release(); rerr != nil {
			log.Warn("failed to release run lock", zap.Error(rerr))
		}
	}()

	matcher, err := buildMatcher(cfg)
	if err != nil {
		return rep, errors.InvalidConfig("filter", err)
	}

	// 1) fetch + persist raw
	rawPath := cfg.RawPath()
	if d.Fetcher == nil {
		rep.FetchErr = errors.Transport("no fetcher configured", nil)
	} else {
		log.Info("fetching", zap.String("source", d.Fetcher.Name()), zap.String("endpoint", cfg.Source.Endpoint))
		raw, ferr := d.Fetcher.Fetch(ctx)
		if ferr != nil {
			rep.FetchErr = ferr
		} else {
			rep.Fetched = len(raw.Postings())
			if serr := store.SaveJSON(rawPath, raw); serr != nil {
				rep.SaveErr = serr
				log.Warn("could not save raw collection", zap.String("path", rawPath), zap.Error(serr))
			} else {
				log.Info("saved raw collection", zap.String("path", rawPath), zap.Int("postings", rep.Fetched))
			}
		}
	}
	if rep.FetchErr != nil {
		log.Warn("fetch failed; falling back to cached raw file",
			zap.String("kind", string(errors.KindOf(rep.FetchErr))),
			zap.Int("status", errors.StatusOf(rep.FetchErr)),
			zap.Error(rep.FetchErr))
	}
	rep.FromCache = rep.FetchErr != nil || rep.SaveErr != nil

	// 2) filter from disk
	res, ferr := filter.Run(rawPath, matcher, log)
	rep.Filter = res.Stats
	if ferr != nil {
		rep.FilterErr = ferr
		log.Warn("raw collection unavailable",
			zap.String("path", rawPath),
			zap.String("kind", string(errors.KindOf(ferr))),
			zap.Error(ferr))
		rep.FinishedAt = now().UTC()
		record(ctx, d.DB, rep, log)
		if rep.FetchErr == nil && rep.SaveErr != nil {
			return rep, fmt.Errorf("%w: %w", ErrRawNotSaved, stderrors.Join(rep.SaveErr, ferr))
		}
		return rep, fmt.Errorf("%w: %w", ErrNoData, ferr)
	}
	rep.Matches = res.Records()

	// 3) persist filtered
	var out any
	switch cfg.Filter.Output {
	case config.OutputRecords:
		recs := res.Records()
		rep.Written = len(recs)
		out = recs
	default:
		tagged := res.Tagged()
		rep.Written = len(tagged)
		out = tagged
	}
	if werr := store.SaveJSON(rep.FilteredPath, out); werr != nil {
		rep.SaveErr = stderrors.Join(rep.SaveErr, werr)
		log.Warn("could not save filtered jobs", zap.String("path", rep.FilteredPath), zap.Error(werr))
	} else {
		log.Info("saved filtered jobs",
			zap.String("path", rep.FilteredPath),
			zap.Int("jobs", rep.Written),
			zap.Int("skipped", rep.Filter.Skipped),
			zap.Int("duplicates", rep.Filter.Duplicates))
	}

	// 4) history mirror
	if d.DB != nil {
		rows := make([]store.JobRow, 0, len(res.Matches))
		seen := now().UTC()
		for _, m := range res.Matches {
			rows = append(rows, store.JobRowFromPosting(domain.PostingFromRecord(m.Record), m.Tags, seen))
		}
		added, skipped, uerr := store.UpsertJobs(ctx, d.DB.Pool, rows)
		if uerr != nil {
			log.Warn("could not update job history", zap.Error(uerr))
		} else {
			rep.NewInStore = added
			if skipped > 0 {
				log.Warn("jobs without an id left out of history", zap.Int("count", skipped))
			}
			log.Debug("job history updated", zap.Int("rows", len(rows)-skipped), zap.Int("new", added))
		}
	}

	rep.FinishedAt = now().UTC()
	record(ctx, d.DB, rep, log)
	return rep, nil
}

func buildMatcher(cfg config.Config) (*filter.Matcher, error) {
	mode, err := filter.ParseMode(cfg.Filter.Match)
	if err != nil {
		return nil, err
	}
	return filter.NewMatcher(mode, cfg.Filter.Keywords)
}

func record(ctx context.Context, db *store.DB, rep Report, log *zap.Logger) {
	if db == nil {
		return
	}
	run := store.Run{
		StartedAt:  rep.StartedAt,
		FinishedAt: rep.FinishedAt,
		Fetched:    rep.Fetched,
		Matched:    rep.Written,
		Skipped:    rep.Filter.Skipped,
		FromCache:  rep.FromCache,
		Error:      errText(rep.FetchErr, rep.SaveErr, rep.FilterErr),
	}
	if _, err := store.RecordRun(ctx, db.Pool, run); err != nil {
		log.Warn("could not record run", zap.Error(err))
	}
}

func errText(errs ...error) string {
	if err := stderrors.Join(errs...); err != nil {
		return err.Error()
	}
	return ""
}
