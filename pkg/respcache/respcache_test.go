package respcache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestFetch_CacheHitSkipsProducer(t *testing.T) {
	cache := New(newTestLogger())
	ctx := context.Background()

	var calls atomic.Int32
	producer := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "statute text", nil
	}

	first, err := cache.Fetch(ctx, "legal:14:67", producer)
	require.NoError(t, err)
	assert.Equal(t, "statute text", first)

	second, err := cache.Fetch(ctx, "legal:14:67", producer)
	require.NoError(t, err)
	assert.Equal(t, "statute text", second)

	assert.Equal(t, int32(1), calls.Load(), "second fetch should be served from cache")
}

func TestFetch_CoalescesConcurrentCallers(t *testing.T) {
	cache := New(newTestLogger())
	ctx := context.Background()

	var calls atomic.Int32
	release := make(chan struct{})
	producer := func(ctx context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "shared response", nil
	}

	const callers = 8
	results := make([]string, callers)
	errs := make([]error, callers)

	var started sync.WaitGroup
	var finished sync.WaitGroup
	for i := 0; i < callers; i++ {
		started.Add(1)
		finished.Add(1)
		go func(i int) {
			defer finished.Done()
			started.Done()
			results[i], errs[i] = cache.Fetch(ctx, "threat:alley", producer)
		}(i)
	}

	started.Wait()
	time.Sleep(50 * time.Millisecond)
	close(release)
	finished.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "shared response", results[i])
	}
	assert.Equal(t, int32(1), calls.Load(), "all concurrent callers must share one producer call")
}

func TestFetch_FailureIsNotCached(t *testing.T) {
	cache := New(newTestLogger())
	ctx := context.Background()

	var calls atomic.Int32
	boom := errors.New("backend unavailable")
	producer := func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			return "", boom
		}
		return "recovered", nil
	}

	_, err := cache.Fetch(ctx, "general:weather", producer)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, cache.Len())

	got, err := cache.Fetch(ctx, "general:weather", producer)
	require.NoError(t, err)
	assert.Equal(t, "recovered", got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetch_ExpiredEntryRefetches(t *testing.T) {
	cache := NewWithConfig(newTestLogger(), 10*time.Millisecond, DefaultMaxEntries)
	ctx := context.Background()

	var calls atomic.Int32
	producer := func(ctx context.Context) (string, error) {
		return fmt.Sprintf("version %d", calls.Add(1)), nil
	}

	first, err := cache.Fetch(ctx, "tactical:pursuit", producer)
	require.NoError(t, err)
	assert.Equal(t, "version 1", first)

	time.Sleep(25 * time.Millisecond)

	second, err := cache.Fetch(ctx, "tactical:pursuit", producer)
	require.NoError(t, err)
	assert.Equal(t, "version 2", second)
}

func TestFetch_EvictsOldestBeyondMaxSize(t *testing.T) {
	cache := NewWithConfig(newTestLogger(), time.Hour, 3)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		key := fmt.Sprintf("legal:%d", i)
		_, err := cache.Fetch(ctx, key, func(ctx context.Context) (string, error) {
			return key, nil
		})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	assert.Equal(t, 3, cache.Len())

	var calls atomic.Int32
	_, err := cache.Fetch(ctx, "legal:0", func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "refetched", nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load(), "oldest entry should have been evicted")
	assert.Equal(t, 3, cache.Len())

	for i := 2; i < 4; i++ {
		key := fmt.Sprintf("legal:%d", i)
		_, err := cache.Fetch(ctx, key, func(ctx context.Context) (string, error) {
			t.Fatalf("entry %s should still be cached", key)
			return "", nil
		})
		require.NoError(t, err)
	}
}
