// Package watermark persists the single timestamp marking the end of the
// last successfully reported collection window.
package watermark

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store reads and writes the watermark file. The file holds one RFC 3339 UTC
// timestamp; absence means no run has ever completed.
type Store struct {
	path string
}

// New creates a Store for the given file path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the watermark file path.
func (s *Store) Path() string { return s.path }

// Load returns the stored watermark. The second return value is false when
// no watermark exists yet; that is not an error.
func (s *Store) Load() (time.Time, bool, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read watermark: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(string(data)))
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse watermark %q: %w", strings.TrimSpace(string(data)), err)
	}
	return ts.UTC(), true, nil
}

// Commit atomically replaces the watermark with t. A reader never observes a
// partial value: the new timestamp is written to a temp file in the same
// directory and renamed over the old one. Commits that would move the
// watermark backwards are ignored, keeping the stored value monotonic
// non-decreasing.
func (s *Store) Commit(t time.Time) error {
	if prev, ok, err := s.Load(); err == nil && ok && t.Before(prev) {
		return nil
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create watermark dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".watermark-*")
	if err != nil {
		return fmt.Errorf("create watermark temp file: %w", err)
	}
	tmpName := tmp.Name()

	_, werr := tmp.WriteString(t.UTC().Format(time.RFC3339Nano) + "\n")
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		os.Remove(tmpName)
		if werr != nil {
			return fmt.Errorf("write watermark: %w", werr)
		}
		return fmt.Errorf("write watermark: %w", cerr)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("commit watermark: %w", err)
	}
	return nil
}
