package poll

import (
	"context"
	stderrors "errors"
	"time"

	"jobfeed/internal/errors"

	"go.uber.org/zap"
)

// Every runs PollOnce immediately and then on every tick of interval until
// ctx is done. A failed run is logged and the loop keeps going; onRun, if
// set, sees every report.
func Every(ctx context.Context, interval time.Duration, d Deps, onRun func(Report, error)) {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}

	run := func() {
		rep, err := PollOnce(ctx, d)
		switch {
		case err == nil:
			log.Info("poll ok", zap.Int("fetched", rep.Fetched), zap.Int("written", rep.Written), zap.Bool("from_cache", rep.FromCache))
		case errors.IsKind(err, errors.KindLocked):
			log.Info("previous run still in progress; skipping tick")
		case stderrors.Is(err, ErrNoData), stderrors.Is(err, ErrRawNotSaved):
			log.Warn("poll produced no data", zap.Error(err))
		default:
			log.Error("poll error", zap.Error(err))
		}
		if onRun != nil {
			onRun(rep, err)
		}
	}

	run()
	if interval <= 0 {
		return
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			run()
		}
	}
}
