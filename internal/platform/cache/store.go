package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/riskibarqy/football-history/internal/platform/resilience"
)

var ErrNilLoader = errors.New("cache loader is required")

type entry[T any] struct {
	value     T
	fetchedAt time.Time
}

// Store keeps values for ttl measured from when they were fetched.
// A ttl <= 0 keeps values until they are deleted.
type Store[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
	ttl     time.Duration
	now     func() time.Time
	flight  resilience.SingleFlight[T]
}

type Option[T any] func(*Store[T])

// WithClock replaces time.Now, mostly for tests.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(s *Store[T]) {
		if now != nil {
			s.now = now
		}
	}
}

func NewStore[T any](ttl time.Duration, opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		entries: make(map[string]entry[T]),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the value and when it was fetched.
func (s *Store[T]) Get(_ context.Context, key string) (T, time.Time, bool) {
	var zero T
	if key == "" {
		return zero, time.Time{}, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return zero, time.Time{}, false
	}
	if s.expired(e) {
		s.mu.Lock()
		if current, ok := s.entries[key]; ok && current.fetchedAt.Equal(e.fetchedAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return zero, time.Time{}, false
	}
	return e.value, e.fetchedAt, true
}

func (s *Store[T]) Set(_ context.Context, key string, value T) {
	if key == "" {
		return
	}
	s.mu.Lock()
	s.entries[key] = entry[T]{value: value, fetchedAt: s.now()}
	s.mu.Unlock()
}

func (s *Store[T]) Delete(_ context.Context, key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// GetOrLoad returns a fresh cached value or runs loader once for all
// concurrent callers of the same key. Loader errors are not cached.
func (s *Store[T]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (T, error)) (T, error) {
	var zero T
	if loader == nil {
		return zero, ErrNilLoader
	}
	if key == "" {
		return loader(ctx)
	}

	if value, _, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (T, error) {
		if cached, _, ok := s.Get(ctx, key); ok {
			return cached, nil
		}
		loaded, err := loader(ctx)
		if err != nil {
			return zero, err
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return zero, err
	}
	return value, nil
}

func (s *Store[T]) expired(e entry[T]) bool {
	if s.ttl <= 0 {
		return false
	}
	return s.now().Sub(e.fetchedAt) >= s.ttl
}
