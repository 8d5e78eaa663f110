package dictionary

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Store publishes the active Index. Readers take a snapshot per request; a reload
// swaps in a fully built replacement and never mutates the old one.
type Store struct {
	current atomic.Pointer[Index]
	source  Source
	mu      sync.Mutex
	logger  zerolog.Logger
}

// NewStore loads the initial index from source. The error is fatal for callers:
// there is no index to serve without it.
func NewStore(ctx context.Context, source Source, logger zerolog.Logger) (*Store, error) {
	s := &Store{source: source, logger: logger}
	if _, err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStaticStore wraps a prebuilt index. It has no source, so Reload keeps the
// current snapshot; ReloadFrom still swaps in a new one.
func NewStaticStore(idx *Index) *Store {
	s := &Store{logger: zerolog.Nop()}
	s.current.Store(idx)
	return s
}

// NewStoreWithIndex publishes idx and reads later reloads from source.
func NewStoreWithIndex(idx *Index, source Source, logger zerolog.Logger) *Store {
	s := &Store{source: source, logger: logger}
	s.current.Store(idx)
	return s
}

// Snapshot returns the index in effect at the time of the call.
func (s *Store) Snapshot() *Index {
	return s.current.Load()
}

// SourceName names the source reloads read from.
func (s *Store) SourceName() string {
	if s.source == nil {
		return "static"
	}
	return s.source.Name()
}

// Reload rebuilds the index from the configured source.
func (s *Store) Reload(ctx context.Context) (*Index, error) {
	if s.source == nil {
		return s.Snapshot(), nil
	}
	return s.ReloadFrom(ctx, s.source)
}

// ReloadFrom rebuilds the index from src. On failure the previous index stays active.
func (s *Store) ReloadFrom(ctx context.Context, src Source) (*Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	idx, err := LoadFrom(ctx, src)
	if err != nil {
		s.logger.Error().Err(err).Str("source", src.Name()).Msg("dictionary reload failed, keeping previous index")
		return nil, err
	}

	prev := s.current.Swap(idx)
	evt := s.logger.Info().
		Str("source", src.Name()).
		Str("version", idx.Version()).
		Int("words", len(idx.Words())).
		Dur("took", time.Since(start))
	if prev != nil {
		evt = evt.Str("previous_version", prev.Version())
	}
	evt.Msg("dictionary loaded")

	return idx, nil
}
