package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a b c", CleanText("  a  b\n\tc "))
	assert.Equal(t, "", CleanText(" \n "))
}

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "just text", "just text"},
		{"paragraphs", "<p>We build APIs.</p><p>Go &amp; Postgres</p>", "We build APIs. Go & Postgres"},
		{"nested", "<div><ul><li>one</li><li>two</li></ul></div>", "one two"},
		{"script dropped", "<p>hi</p><script>alert(1)</script>", "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTMLToText(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
	assert.Equal(t, "héll…", Truncate("héllo wörld", 5))
	assert.Equal(t, "anything", Truncate("anything", 0))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "Build the…", Summary("<p>Build the thing</p>", 10))
}
