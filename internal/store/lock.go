package store

import (
	"fmt"
	"os"
	"path/filepath"

	"jobfeed/internal/errors"

	"github.com/gofrs/flock"
)

// RunLock is an advisory file lock held for the length of one pipeline run
// so two runs never write the same output files at once.
type RunLock struct {
	fl *flock.Flock
}

// AcquireRunLock takes the lock at path without waiting. A lock held by
// another process returns a LOCKED error.
func AcquireRunLock(path string) (*RunLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Write("create lock dir", err)
	}

	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, errors.Write("lock "+path, err)
	}
	if !ok {
		return nil, errors.Locked(fmt.Sprintf("another run holds %s", path), nil)
	}
	return &RunLock{fl: fl}, nil
}

func (l *RunLock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
