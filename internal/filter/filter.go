package filter

import (
	"encoding/json"

	"jobfeed/internal/domain"
	"jobfeed/internal/errors"
	"jobfeed/internal/store"

	"go.uber.org/zap"
)

// Match is one admitted posting with the keywords found in its title.
type Match struct {
	ID     string
	Record domain.Record
	Tags   []string
}

type Stats struct {
	Read       int `json:"read"`
	Matched    int `json:"matched"`
	Skipped    int `json:"skipped"`
	Duplicates int `json:"duplicates"`
}

type Result struct {
	Matches []Match
	Stats   Stats
}

// Records is the keyword-filter output: matching postings, verbatim.
func (r Result) Records() []domain.Record {
	out := make([]domain.Record, 0, len(r.Matches))
	for _, m := range r.Matches {
		out = append(out, m.Record)
	}
	return out
}

// Tagged is the tag-extraction output: matching postings reshaped to
// position, location, apply_url and tags. A missing or non-string location
// or url is written as "".
func (r Result) Tagged() []domain.TaggedJob {
	out := make([]domain.TaggedJob, 0, len(r.Matches))
	for _, m := range r.Matches {
		if len(m.Tags) == 0 {
			continue
		}
		pos, _ := m.Record.Position()
		loc, _ := m.Record.String("location")
		u, _ := m.Record.String("url")
		out = append(out, domain.TaggedJob{
			Position: pos,
			Location: loc,
			ApplyURL: u,
			Tags:     m.Tags,
		})
	}
	return out
}

// Run reads the raw collection at rawPath and keeps the postings whose
// title matches m. Postings sharing an id collapse to the last one seen.
//
// A missing or unreadable raw file returns an empty Result together with a
// SOURCE_NOT_FOUND or SOURCE_CORRUPT error. Malformed postings are skipped.
// The raw file is only read.
func Run(rawPath string, m *Matcher, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	raw, err := store.LoadRaw(rawPath)
	if err != nil {
		return Result{Matches: []Match{}}, err
	}

	var res Result
	kept := newOrdered()

	for i, elem := range raw {
		res.Stats.Read++

		rec, err := decodeRecord(elem)
		if err != nil {
			res.Stats.Skipped++
			logger.Debug("skipping record", zap.Int("index", i), zap.Error(err))
			continue
		}

		title, _ := rec.Position()
		if !m.Match(title) {
			continue
		}

		id, _ := rec.ID()
		if kept.put(id, Match{ID: id, Record: rec, Tags: m.Tags(title)}) {
			res.Stats.Duplicates++
		}
	}

	res.Matches = kept.values()
	res.Stats.Matched = len(res.Matches)

	logger.Debug("filtered raw collection",
		zap.String("path", rawPath),
		zap.Stringer("matcher", m),
		zap.Int("read", res.Stats.Read),
		zap.Int("matched", res.Stats.Matched),
		zap.Int("skipped", res.Stats.Skipped),
		zap.Int("duplicates", res.Stats.Duplicates))
	return res, nil
}

// Filter is Run projected to verbatim records.
func Filter(rawPath string, m *Matcher, logger *zap.Logger) ([]domain.Record, error) {
	res, err := Run(rawPath, m, logger)
	return res.Records(), err
}

// Tag is Run projected to tagged jobs. Only postings with at least one tag
// are returned.
func Tag(rawPath string, m *Matcher, logger *zap.Logger) ([]domain.TaggedJob, error) {
	res, err := Run(rawPath, m, logger)
	return res.Tagged(), err
}

// decodeRecord accepts objects that carry an id and a string position; the
// leading metadata object fails here too. A posting with no id (or a null
// one) cannot be deduplicated, so it is dropped even when its title
// matches.
func decodeRecord(elem json.RawMessage) (domain.Record, error) {
	var rec domain.Record
	if err := json.Unmarshal(elem, &rec); err != nil || rec == nil {
		return nil, errors.Record("element is not an object", err)
	}
	if _, ok := rec["position"]; !ok {
		return nil, errors.Record("no position field", nil)
	}
	if _, ok := rec.Position(); !ok {
		return nil, errors.Record("position is not a string", nil)
	}
	if _, ok := rec.ID(); !ok {
		return nil, errors.Record("no id field", nil)
	}
	return rec, nil
}
