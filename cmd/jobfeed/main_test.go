package main

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"testing"

	"jobfeed/internal/domain"
	"jobfeed/internal/errors"
	"jobfeed/internal/poll"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	return zap.New(core), logs
}

func TestReportRun_NoDataLogsStatusLine(t *testing.T) {
	logger, logs := observed()
	var out bytes.Buffer

	err := fmt.Errorf("%w: %w", poll.ErrNoData, errors.SourceNotFound("data/raw_jobs.json does not exist", nil))
	code := reportRun(&out, logger, true, poll.Report{}, err)

	assert.Equal(t, 1, code)
	require.Equal(t, 1, logs.FilterMessage("no data retrieved").Len())
	assert.Empty(t, out.String(), "no listing on failure")
}

func TestReportRun_RawNotSavedHasOwnMessage(t *testing.T) {
	logger, logs := observed()

	err := fmt.Errorf("%w: %w", poll.ErrRawNotSaved, errors.Write("write data/raw_jobs.json.tmp", nil))
	code := reportRun(&bytes.Buffer{}, logger, false, poll.Report{}, err)

	assert.Equal(t, 1, code)
	assert.Equal(t, 0, logs.FilterMessage("no data retrieved").Len())
	assert.Equal(t, 1, logs.FilterMessageSnippet("could not be saved").Len())
}

func TestReportRun_OtherErrorExitsNonZero(t *testing.T) {
	logger, _ := observed()
	assert.Equal(t, 1, reportRun(&bytes.Buffer{}, logger, false, poll.Report{}, stderrors.New("boom")))
}

func TestReportRun_SuccessPrintsListing(t *testing.T) {
	logger, logs := observed()
	var out bytes.Buffer

	rep := poll.Report{
		Written:      1,
		FilteredPath: "data/filtered_jobs.json",
		Matches: []domain.Record{{
			"company":  []byte(`"Acme"`),
			"position": []byte(`"Backend Engineer"`),
			"location": []byte(`"Remote"`),
			"url":      []byte(`"https://x/1"`),
		}},
	}
	code := reportRun(&out, logger, true, rep, nil)

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "Company: Acme\nPosition: Backend Engineer\nLocation: Remote\nURL: https://x/1\n")
	assert.Equal(t, 1, logs.FilterMessage("wrote filtered jobs").Len())
}

func TestReportRun_ListingOffByDefault(t *testing.T) {
	logger, _ := observed()
	var out bytes.Buffer

	rep := poll.Report{Matches: []domain.Record{{"company": []byte(`"Acme"`)}}}
	assert.Equal(t, 0, reportRun(&out, logger, false, rep, nil))
	assert.Empty(t, out.String())
}
