// config/overlay.go
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDataDir  = "JOBFEED_DATA_DIR"
	EnvEndpoint = "JOBFEED_ENDPOINT"
	EnvTimeout  = "JOBFEED_TIMEOUT"
	EnvLogLevel = "JOBFEED_LOG_LEVEL"
	EnvKeywords = "JOBFEED_KEYWORDS"
	EnvInterval = "JOBFEED_INTERVAL"
)

// LoadDotEnv loads .env into the process environment. A missing file is
// not an error.
func LoadDotEnv(paths ...string) {
	_ = godotenv.Load(paths...)
}

// OverlayEnv applies JOBFEED_* variables on top of cfg. Unparsable values
// are ignored.
func OverlayEnv(cfg *Config) {
	cfg.Data.Dir = getEnvString(EnvDataDir, cfg.Data.Dir)
	cfg.Source.Endpoint = getEnvString(EnvEndpoint, cfg.Source.Endpoint)
	cfg.Source.Timeout = getEnvDuration(EnvTimeout, cfg.Source.Timeout)
	cfg.Log.Level = getEnvString(EnvLogLevel, cfg.Log.Level)
	cfg.Poll.Interval = getEnvDuration(EnvInterval, cfg.Poll.Interval)

	if v, ok := os.LookupEnv(EnvKeywords); ok {
		var kws []string
		for _, k := range strings.Split(v, ",") {
			if k = strings.TrimSpace(k); k != "" {
				kws = append(kws, k)
			}
		}
		if len(kws) > 0 {
			cfg.Filter.Keywords = kws
		}
	}
}

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
