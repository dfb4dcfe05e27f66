package domain

import (
	"encoding/json"
	"strings"
)

// Record is one job object from the feed, kept as raw JSON values so
// passthrough fields are written back exactly as received.
type Record map[string]json.RawMessage

// RawCollection is the feed response as received: a JSON array whose first
// element is normally a metadata object.
type RawCollection []json.RawMessage

// Postings returns the collection without its leading metadata element.
// The first element counts as metadata when it is an object with no
// "position" key.
func (c RawCollection) Postings() RawCollection {
	if len(c) == 0 {
		return c
	}
	var head map[string]json.RawMessage
	if err := json.Unmarshal(c[0], &head); err != nil || head == nil {
		return c
	}
	if _, ok := head["position"]; ok {
		return c
	}
	return c[1:]
}

// ID returns the raw JSON token of the record's id ("1" and "\"1\"" are
// different ids).
func (r Record) ID() (string, bool) {
	raw, ok := r["id"]
	if !ok {
		return "", false
	}
	id := strings.TrimSpace(string(raw))
	if id == "" || id == "null" {
		return "", false
	}
	return id, true
}

func (r Record) String(key string) (string, bool) {
	raw, ok := r[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Position is the job title. ok is false when the field is missing or not
// a string.
func (r Record) Position() (string, bool) {
	return r.String("position")
}

// TaggedJob is the reshaped output of the tag-extraction pass.
type TaggedJob struct {
	Position string   `json:"position"`
	Location string   `json:"location"`
	ApplyURL string   `json:"apply_url"`
	Tags     []string `json:"tags"`
}

// JobPosting is the typed view of a Record used by the history store.
type JobPosting struct {
	ID          string
	Position    string
	Company     string
	Location    string
	URL         string
	Description string // html
}

// PostingFromRecord reads the typed fields of r. String ids are unquoted.
func PostingFromRecord(r Record) JobPosting {
	id, _ := r.ID()
	if s, ok := r.String("id"); ok {
		id = s
	}
	pos, _ := r.Position()
	company, _ := r.String("company")
	loc, _ := r.String("location")
	u, _ := r.String("url")
	desc, _ := r.String("description")
	return JobPosting{
		ID:          id,
		Position:    pos,
		Company:     company,
		Location:    loc,
		URL:         u,
		Description: desc,
	}
}
