package util

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// HTMLToText flattens an HTML fragment (RemoteOK descriptions) to one line
// of text. Block elements are separated by a space so words don't run
// together.
func HTMLToText(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return CleanText(html)
	}
	doc.Find("script, style").Remove()
	doc.Find("p, div, li, br, tr, h1, h2, h3, h4, h5, h6").AppendHtml(" ")
	return CleanText(doc.Find("body").Text())
}

// Truncate cuts s to at most n runes, ending with "…" when it cut.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n-1])) + "…"
}

// Summary is the plain-text, length-capped form of a posting description.
func Summary(html string, n int) string {
	return Truncate(HTMLToText(html), n)
}
