package filter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"jobfeed/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteListing(t *testing.T) {
	var recs []domain.Record
	require.NoError(t, json.Unmarshal([]byte(`[
  {"id": 1, "company": "Acme", "position": "Backend Engineer", "location": "Remote", "url": "https://x/1"},
  {"id": 2, "position": "API Developer", "location": 5}
]`), &recs))

	var buf bytes.Buffer
	require.NoError(t, WriteListing(&buf, recs))

	rule := strings.Repeat("-", 40)
	want := "Company: Acme\nPosition: Backend Engineer\nLocation: Remote\nURL: https://x/1\n" + rule + "\n" +
		"Company: n/a\nPosition: API Developer\nLocation: n/a\nURL: n/a\n" + rule + "\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteListing_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteListing(&buf, nil))
	assert.Empty(t, buf.String())
}
