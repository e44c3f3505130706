package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// concurrent fires n callers at key together; fn is expected to hold the
// flight open long enough for all of them to join.
func concurrent[T any](g *SingleFlight[T], key string, n int, fn func() (T, error)) ([]T, []error, []bool) {
	vals := make([]T, n)
	errs := make([]error, n)
	shared := make([]bool, n)

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			<-start
			vals[i], errs[i], shared[i] = g.Do(key, fn)
		}(i)
	}
	close(start)
	wg.Wait()
	return vals, errs, shared
}

func TestSingleFlight_SharesOneRun(t *testing.T) {
	var g SingleFlight[[]string]
	var runs atomic.Int32

	vals, errs, shared := concurrent(&g, "competitions", 16, func() ([]string, error) {
		runs.Add(1)
		time.Sleep(30 * time.Millisecond)
		return []string{"PL", "PD"}, nil
	})

	assert.Equal(t, int32(1), runs.Load())
	sharedCount := 0
	for i := range vals {
		require.NoError(t, errs[i])
		assert.Equal(t, []string{"PL", "PD"}, vals[i])
		if shared[i] {
			sharedCount++
		}
	}
	assert.Equal(t, 15, sharedCount)
}

func TestSingleFlight_SharesError(t *testing.T) {
	var g SingleFlight[int]
	boom := errors.New("upstream down")

	_, errs, _ := concurrent(&g, "history", 4, func() (int, error) {
		time.Sleep(30 * time.Millisecond)
		return 0, boom
	})
	for _, err := range errs {
		assert.ErrorIs(t, err, boom)
	}
}

func TestSingleFlight_SequentialCallsRunAgain(t *testing.T) {
	var g SingleFlight[int]
	calls := 0
	fn := func() (int, error) {
		calls++
		return calls, nil
	}

	first, err, shared := g.Do("k", fn)
	require.NoError(t, err)
	assert.False(t, shared)
	second, _, _ := g.Do("k", fn)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
	assert.Empty(t, g.calls)
}

func TestSingleFlight_KeysAreIndependent(t *testing.T) {
	var g SingleFlight[string]

	a, _, _ := g.Do("a", func() (string, error) { return "alpha", nil })
	b, _, _ := g.Do("b", func() (string, error) { return "beta", nil })
	assert.Equal(t, "alpha", a)
	assert.Equal(t, "beta", b)
}
