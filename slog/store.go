package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/obras"
)

// Ensure LoggingRecordStore implements obras.RecordStore.
var _ obras.RecordStore = (*LoggingRecordStore)(nil)

// LoggingRecordStore wraps a RecordStore with debug logging.
type LoggingRecordStore struct {
	next   obras.RecordStore
	logger *slog.Logger
	saved  int
}

// NewLoggingRecordStore creates a new LoggingRecordStore.
func NewLoggingRecordStore(next obras.RecordStore, logger *slog.Logger) *LoggingRecordStore {
	return &LoggingRecordStore{next: next, logger: logger}
}

// Save delegates to the wrapped store and logs the record index.
func (s *LoggingRecordStore) Save(ctx context.Context, rec *obras.OutputRecord) error {
	err := s.next.Save(ctx, rec)
	if err == nil {
		s.saved++
	}
	s.logger.Info("save record", "index", rec.Index, "slug", rec.Slug, "err", err)
	return err
}

// Commit delegates to the wrapped store and logs how many records it held.
func (s *LoggingRecordStore) Commit() error {
	err := s.next.Commit()
	s.logger.Info("commit", "records", s.saved, "err", err)
	return err
}

// Abort delegates to the wrapped store.
func (s *LoggingRecordStore) Abort() error {
	err := s.next.Abort()
	s.logger.Info("abort", "records", s.saved, "err", err)
	return err
}
