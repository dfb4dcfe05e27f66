package filter

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

type Mode string

const (
	// ModeSubstring admits a title that contains a keyword anywhere.
	ModeSubstring Mode = "substring"
	// ModeWord admits a title that contains a keyword as a whole word.
	ModeWord Mode = "word"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeSubstring:
		return ModeSubstring, nil
	case ModeWord, "":
		return ModeWord, nil
	default:
		return "", fmt.Errorf("unknown match mode %q", s)
	}
}

// Matcher tests lower-cased job titles against a keyword set.
type Matcher struct {
	mode     Mode
	keywords []string

	// word mode only
	any  *regexp.Regexp
	each []*regexp.Regexp
}

func NewMatcher(mode Mode, keywords []string) (*Matcher, error) {
	m := &Matcher{mode: mode, keywords: NormalizeKeywords(keywords)}

	switch mode {
	case ModeSubstring:
	case ModeWord:
		if len(m.keywords) == 0 {
			break
		}
		quoted := make([]string, len(m.keywords))
		m.each = make([]*regexp.Regexp, len(m.keywords))
		for i, k := range m.keywords {
			quoted[i] = regexp.QuoteMeta(k)
			re, err := regexp.Compile(wordPattern(quoted[i]))
			if err != nil {
				return nil, fmt.Errorf("compile keyword %q: %w", k, err)
			}
			m.each[i] = re
		}
		re, err := regexp.Compile(wordPattern(strings.Join(quoted, "|")))
		if err != nil {
			return nil, fmt.Errorf("compile keyword pattern: %w", err)
		}
		m.any = re
	default:
		return nil, fmt.Errorf("unknown match mode %q", mode)
	}
	return m, nil
}

// RE2's \b is ASCII-only, so word edges are spelled out with Unicode
// letter and digit classes.
const (
	wordStart = `(?:^|[^\p{L}\p{N}_])`
	wordEnd   = `(?:$|[^\p{L}\p{N}_])`
)

func wordPattern(alt string) string {
	return wordStart + `(?:` + alt + `)` + wordEnd
}

func (m *Matcher) Mode() Mode         { return m.mode }
func (m *Matcher) Keywords() []string { return append([]string(nil), m.keywords...) }
func (m *Matcher) String() string     { return fmt.Sprintf("%s%v", m.mode, m.keywords) }

func normalizeTitle(title string) string { return strings.ToLower(title) }

// Match reports whether any keyword occurs in title.
func (m *Matcher) Match(title string) bool {
	t := normalizeTitle(title)
	switch m.mode {
	case ModeWord:
		return m.any != nil && m.any.MatchString(t)
	default:
		for _, k := range m.keywords {
			if strings.Contains(t, k) {
				return true
			}
		}
		return false
	}
}

// Tags returns every keyword that occurs in title, sorted. Each keyword is
// tested on its own so overlapping keywords ("backend", "backend engineer")
// all tag.
func (m *Matcher) Tags(title string) []string {
	t := normalizeTitle(title)
	var tags []string
	for i, k := range m.keywords {
		var hit bool
		if m.mode == ModeWord {
			hit = m.each[i].MatchString(t)
		} else {
			hit = strings.Contains(t, k)
		}
		if hit {
			tags = append(tags, k)
		}
	}
	sort.Strings(tags)
	return tags
}

// NormalizeKeywords lower-cases, trims and de-duplicates keywords. The
// result is ordered longest first so the alternation prefers the longer
// of two overlapping keywords.
func NormalizeKeywords(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, k := range in {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}
