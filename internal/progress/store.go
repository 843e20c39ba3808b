// Package progress persists the last completed catalog page so an interrupted
// run can pick up where it stopped.
package progress

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultPage is the resume point when no checkpoint has been written yet.
const DefaultPage = 1

// ErrCorrupt is returned when the progress file exists but does not hold a positive integer.
var ErrCorrupt = errors.New("progress file is corrupt")

// Store reads and writes a single integer checkpoint as plain text.
type Store struct {
	path string
}

// NewStore creates a store backed by the file at path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a checkpoint has been written
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Read returns the stored page, or DefaultPage if nothing is stored.
func (s *Store) Read() (int, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultPage, nil
		}
		return 0, fmt.Errorf("failed to read progress file: %w", err)
	}

	text := strings.TrimSpace(string(data))
	page, err := strconv.Atoi(text)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("%w: %s holds %q", ErrCorrupt, s.path, text)
	}
	return page, nil
}

// Write replaces the checkpoint with page. The value is written to a temporary
// sibling and renamed into place, so readers see either the old or the new value.
func (s *Store) Write(page int) error {
	if page < 1 {
		return fmt.Errorf("invalid checkpoint page %d", page)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create progress directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary progress file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(strconv.Itoa(page)); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write progress: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync progress file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close progress file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace progress file: %w", err)
	}
	return nil
}

// Reset deletes the checkpoint. A missing file is not an error.
func (s *Store) Reset() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete progress file: %w", err)
	}
	return nil
}
