// Command jobfeed fetches the RemoteOK job feed, saves it under data/, and
// writes the postings whose titles match the configured keywords to
// data/filtered_jobs.json.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"jobfeed/internal/config"
	"jobfeed/internal/filter"
	"jobfeed/internal/logging"
	"jobfeed/internal/poll"
	"jobfeed/internal/scrape/remoteok"
	"jobfeed/internal/store"

	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	config.LoadDotEnv()

	// Data dir: env if provided, else ./data. The user config lives there.
	dataDir := os.Getenv(config.EnvDataDir)
	if dataDir == "" {
		dataDir = config.Default().Data.Dir
	}

	cfg, cfgPath, cfgErr := loadConfig(dataDir, filepath.Join("config", "config.yml"))
	config.OverlayEnv(&cfg)
	cfg, v := config.NormalizeAndValidate(cfg)

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	if cfgErr != nil {
		logger.Warn("using built-in defaults", zap.String("config", cfgPath), zap.Error(cfgErr))
	} else {
		logger.Debug("config loaded", zap.String("config", cfgPath))
	}
	for _, w := range v.Warnings {
		logger.Warn("config: " + w)
	}
	if !v.OK() {
		for _, e := range v.Errors {
			logger.Error("config: " + e)
		}
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher := remoteok.New(remoteok.Config{
		Endpoint:  cfg.Source.Endpoint,
		Timeout:   cfg.Source.Timeout,
		UserAgent: cfg.Source.UserAgent,
	}, logger.Named("remoteok"))

	var db *store.DB
	if cfg.Store.Enabled {
		db, err = store.Open(ctx, cfg.StorePath())
		if err != nil {
			logger.Warn("job history disabled", zap.String("path", cfg.StorePath()), zap.Error(err))
			db = nil
		} else {
			defer db.Close()
		}
	}

	exit := 0
	poll.Every(ctx, cfg.Poll.Interval, poll.Deps{
		Cfg:     cfg,
		Fetcher: fetcher,
		DB:      db,
		Logger:  logger,
	}, func(rep poll.Report, err error) {
		exit = reportRun(os.Stdout, logger, cfg.Filter.Listing, rep, err)
	})
	return exit
}

// reportRun prints the outcome of one run and returns its exit code.
// Failures were already logged by poll.Every; the two no-output cases get
// a plain status line of their own.
func reportRun(w io.Writer, logger *zap.Logger, listing bool, rep poll.Report, err error) int {
	switch {
	case stderrors.Is(err, poll.ErrRawNotSaved):
		logger.Error("fetched data could not be saved; nothing to filter")
		return 1
	case stderrors.Is(err, poll.ErrNoData):
		logger.Error("no data retrieved")
		return 1
	case err != nil:
		return 1
	}

	if listing {
		if lerr := filter.WriteListing(w, rep.Matches); lerr != nil {
			logger.Warn("could not print listing", zap.Error(lerr))
		}
	}
	logger.Info("wrote filtered jobs", zap.String("path", rep.FilteredPath), zap.Int("count", rep.Written))
	return 0
}

// loadConfig bootstraps <dataDir>/config.yml from the shipped default and
// loads it. On any error the returned config holds the built-in defaults.
func loadConfig(dataDir, defaultPath string) (config.Config, string, error) {
	userPath, err := config.EnsureUserConfig(dataDir, defaultPath)
	if err != nil {
		return config.Default(), filepath.Join(dataDir, "config.yml"), err
	}
	cfg, err := config.Load(userPath)
	if err != nil {
		return config.Default(), userPath, err
	}
	return cfg, userPath, nil
}
