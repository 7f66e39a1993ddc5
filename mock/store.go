package mock

import (
	"context"

	"github.com/fwojciec/obras"
)

var _ obras.RecordStore = (*RecordStore)(nil)

// RecordStore is a mock implementation of obras.RecordStore.
type RecordStore struct {
	SaveFn   func(ctx context.Context, rec *obras.OutputRecord) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *RecordStore) Save(ctx context.Context, rec *obras.OutputRecord) error {
	return s.SaveFn(ctx, rec)
}

func (s *RecordStore) Commit() error {
	return s.CommitFn()
}

func (s *RecordStore) Abort() error {
	return s.AbortFn()
}
