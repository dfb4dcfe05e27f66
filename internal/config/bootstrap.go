package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const userConfigName = "config.yml"

// EnsureUserConfig makes sure <dataDir>/config.yml exists and returns its
// path. On first run it is seeded from the shipped defaultPath, or from
// Default() when the shipped file is missing. An existing file is never
// touched.
func EnsureUserConfig(dataDir string, defaultPath string) (string, error) {
	userPath := filepath.Join(dataDir, userConfigName)

	if _, err := os.Stat(userPath); err == nil {
		return userPath, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("stat user config: %w", err)
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}

	b, err := os.ReadFile(defaultPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := SaveAtomic(userPath, Default()); err != nil {
			return "", fmt.Errorf("write default config: %w", err)
		}
		return userPath, nil
	case err != nil:
		return "", fmt.Errorf("read shipped config: %w", err)
	}

	tmp := userPath + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return "", fmt.Errorf("seed user config: %w", err)
	}
	if err := os.Rename(tmp, userPath); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("seed user config: %w", err)
	}
	return userPath, nil
}
