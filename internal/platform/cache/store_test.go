package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if v != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	store := NewStore[int](15*time.Minute, WithClock[int](func() time.Time { return now }))

	var calls int
	loader := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	first, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil || first != 1 {
		t.Fatalf("first load: v=%d err=%v", first, err)
	}

	now = now.Add(14*time.Minute + 59*time.Second)
	if v, fetchedAt, ok := store.Get(context.Background(), "k"); !ok || v != 1 || !fetchedAt.Equal(time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected fresh entry before ttl, v=%d fetchedAt=%s ok=%v", v, fetchedAt, ok)
	}

	now = now.Add(time.Second)
	second, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil || second != 2 {
		t.Fatalf("expected reload at ttl boundary: v=%d err=%v", second, err)
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	boom := errors.New("boom")

	if _, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (string, error) {
		return "", boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if _, _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatalf("failed load must not populate the cache")
	}

	if _, err := store.GetOrLoad(context.Background(), "k", nil); !errors.Is(err, ErrNilLoader) {
		t.Fatalf("expected ErrNilLoader, got %v", err)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
