// Package fs provides file-based storage for output records.
package fs

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/obras"
)

// Ensure CSVStore implements obras.RecordStore at compile time.
var _ obras.RecordStore = (*CSVStore)(nil)

// CSVStore implements obras.RecordStore with atomic update semantics.
// Records are written to path.tmp and moved to path on Commit, so an
// aborted run never leaves a partial file behind.
type CSVStore struct {
	path string

	file *os.File
	w    *csv.Writer
}

// NewCSVStore creates a new CSVStore writing to path.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

func (s *CSVStore) tempPath() string {
	return s.path + ".tmp"
}

// Save appends rec to the temporary file, writing the header first.
func (s *CSVStore) Save(ctx context.Context, rec *obras.OutputRecord) error {
	if s.w == nil {
		if err := s.open(); err != nil {
			return err
		}
	}
	return s.w.Write(rec.Row())
}

func (s *CSVStore) open() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(s.tempPath())
	if err != nil {
		return fmt.Errorf("create %s: %w", s.tempPath(), err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(obras.Columns); err != nil {
		f.Close()
		return err
	}

	s.file = f
	s.w = w
	return nil
}

// Commit flushes the temporary file and renames it over path.
// Committing without any saved record is an error; callers abort instead.
func (s *CSVStore) Commit() error {
	if s.w == nil {
		return obras.Errorf(obras.EINVALID, "no records to commit")
	}

	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.file.Close()
		return err
	}
	if err := s.file.Close(); err != nil {
		return err
	}
	s.w, s.file = nil, nil

	return os.Rename(s.tempPath(), s.path)
}

// Abort discards the temporary file. The previous output, if any, is kept.
func (s *CSVStore) Abort() error {
	if s.file != nil {
		s.file.Close()
		s.w, s.file = nil, nil
	}
	if err := os.Remove(s.tempPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
