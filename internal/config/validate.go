package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy of cfg plus what is wrong
// with it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Filter.Keywords = trimList(out.Filter.Keywords)
	out.Filter.Match = strings.ToLower(strings.TrimSpace(out.Filter.Match))
	out.Filter.Output = strings.ToLower(strings.TrimSpace(out.Filter.Output))
	out.Source.Endpoint = strings.TrimSpace(out.Source.Endpoint)

	// source
	if out.Source.Endpoint == "" {
		res.addErr("source.endpoint is required")
	} else if u, err := url.Parse(out.Source.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
		res.addErr("source.endpoint must be an absolute URL: %q", out.Source.Endpoint)
	}
	if out.Source.Timeout <= 0 {
		res.addErr("source.timeout must be > 0")
	}
	if strings.TrimSpace(out.Source.UserAgent) == "" {
		res.addWarn("source.user_agent is empty; remoteok.com may reject the request.")
	}

	// data
	if strings.TrimSpace(out.Data.Dir) == "" {
		res.addErr("data.dir is required")
	}
	if strings.TrimSpace(out.Data.RawFile) == "" {
		res.addErr("data.raw_file is required")
	}
	if strings.TrimSpace(out.Data.FilteredFile) == "" {
		res.addErr("data.filtered_file is required")
	}
	if out.Data.RawFile != "" && out.Data.RawFile == out.Data.FilteredFile {
		res.addErr("data.filtered_file must differ from data.raw_file")
	}
	if strings.TrimSpace(out.Data.LockFile) == "" {
		res.addErr("data.lock_file is required")
	}

	// filter
	if len(out.Filter.Keywords) == 0 {
		res.addWarn("filter.keywords is empty; nothing will match.")
	}
	switch out.Filter.Match {
	case MatchWord, MatchSubstring:
	default:
		res.addErr("filter.match must be %q or %q, got %q", MatchWord, MatchSubstring, out.Filter.Match)
	}
	switch out.Filter.Output {
	case OutputTagged, OutputRecords:
	default:
		res.addErr("filter.output must be %q or %q, got %q", OutputTagged, OutputRecords, out.Filter.Output)
	}

	// poll
	if out.Poll.Interval < 0 {
		res.addErr("poll.interval must be >= 0")
	} else if out.Poll.Interval > 0 && out.Poll.Interval < time.Minute {
		res.addWarn("poll.interval is very low (%s) and may get the client blocked.", out.Poll.Interval)
	}

	// store
	if out.Store.Enabled && strings.TrimSpace(out.Store.Path) == "" {
		res.addErr("store.path is required when store.enabled=true")
	}

	switch strings.ToLower(out.Log.Format) {
	case "", "console", "json":
	default:
		res.addWarn("log.format %q is unknown; using console.", out.Log.Format)
	}

	return out, res
}
