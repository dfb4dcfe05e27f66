package store

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"

	"jobfeed/internal/domain"
	"jobfeed/internal/errors"
)

// SaveJSON writes v to path as 2-space indented JSON, replacing whatever
// was there. The write goes to path.tmp first and is renamed into place.
func SaveJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return errors.Write("encode "+path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Write("create directory for "+path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		_ = os.Remove(tmp)
		return errors.Write("write "+tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Write("replace "+path, err)
	}
	return nil
}

// LoadRaw reads a collection saved by SaveJSON. A missing file is
// SOURCE_NOT_FOUND; one that exists but cannot be read or decoded is
// SOURCE_CORRUPT.
func LoadRaw(path string) (domain.RawCollection, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.SourceNotFound(path+" does not exist", err)
		}
		return nil, errors.SourceCorrupt(path+" is unreadable", err)
	}

	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '[' {
		return nil, errors.SourceCorrupt(path+" is not a JSON array", nil)
	}
	var raw domain.RawCollection
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, errors.SourceCorrupt("decode "+path, err)
	}
	return raw, nil
}
