package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"ardu.app/feed/config"
	"ardu.app/feed/database"
	"ardu.app/feed/log"
)

func init() {
	log.Discard()
}

type closingStore struct {
	*database.MemoryStore
	archiveErr error
	closed     bool
}

func (s *closingStore) ArchiveExpired(ctx context.Context, cutoff time.Time) (int, error) {
	if s.archiveErr != nil {
		return 0, s.archiveErr
	}
	return s.MemoryStore.ArchiveExpired(ctx, cutoff)
}

func (s *closingStore) Close() error {
	s.closed = true
	return nil
}

func TestRunClosesStore(t *testing.T) {
	cfg := &config.Config{}
	cfg.Archive.After = 7 * 24 * time.Hour

	for _, archiveErr := range []error{nil, errors.New("disk full")} {
		store := &closingStore{MemoryStore: database.NewMemoryStore(), archiveErr: archiveErr}
		err := run(cfg, func(string) (database.Store, error) { return store, nil })
		if !errors.Is(err, archiveErr) {
			t.Fatalf("run err = %v, want %v", err, archiveErr)
		}
		if !store.closed {
			t.Fatalf("store left open (archive err %v)", archiveErr)
		}
	}
}

func TestRunOpenFailure(t *testing.T) {
	boom := errors.New("refused")
	err := run(&config.Config{}, func(string) (database.Store, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
