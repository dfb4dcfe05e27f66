// internal/config/config.go
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	MatchWord      = "word"
	MatchSubstring = "substring"

	OutputTagged  = "tagged"
	OutputRecords = "records"
)

type Config struct {
	Source struct {
		Endpoint  string        `yaml:"endpoint"`
		Timeout   time.Duration `yaml:"timeout"`
		UserAgent string        `yaml:"user_agent"`
	} `yaml:"source"`

	Data struct {
		Dir          string `yaml:"dir"`
		RawFile      string `yaml:"raw_file"`
		FilteredFile string `yaml:"filtered_file"`
		LockFile     string `yaml:"lock_file"`
	} `yaml:"data"`

	Filter struct {
		Keywords []string `yaml:"keywords"`
		Match    string   `yaml:"match"`   // word | substring
		Output   string   `yaml:"output"`  // tagged | records
		Listing  bool     `yaml:"listing"` // print matches to stdout
	} `yaml:"filter"`

	Poll struct {
		Interval time.Duration `yaml:"interval"` // 0 = run once and exit
	} `yaml:"poll"`

	Store struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"store"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // console | json
	} `yaml:"log"`
}

func Default() Config {
	var cfg Config
	cfg.Source.Endpoint = "https://remoteok.com/api"
	cfg.Source.Timeout = 10 * time.Second
	cfg.Source.UserAgent = "jobfeed/1.0 (+local)"

	cfg.Data.Dir = "data"
	cfg.Data.RawFile = "raw_jobs.json"
	cfg.Data.FilteredFile = "filtered_jobs.json"
	cfg.Data.LockFile = ".jobfeed.lock"

	cfg.Filter.Keywords = []string{"backend", "api", "golang", "python", "devops"}
	cfg.Filter.Match = MatchWord
	cfg.Filter.Output = OutputTagged
	cfg.Filter.Listing = false

	cfg.Poll.Interval = 0

	cfg.Store.Enabled = true
	cfg.Store.Path = "jobs.db"

	cfg.Log.Level = "info"
	cfg.Log.Format = "console"
	return cfg
}

// Load reads path over the defaults, so keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// RawPath and the other path helpers resolve file names against Data.Dir
// unless they are already absolute.
func (c Config) RawPath() string      { return c.dataPath(c.Data.RawFile) }
func (c Config) FilteredPath() string { return c.dataPath(c.Data.FilteredFile) }
func (c Config) LockPath() string     { return c.dataPath(c.Data.LockFile) }
func (c Config) StorePath() string    { return c.dataPath(c.Store.Path) }

func (c Config) dataPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Data.Dir, name)
}
