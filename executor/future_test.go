package executor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFutureCompletesOnce(t *testing.T) {
	t.Parallel()
	f := newFuture[int]()
	_, ok := f.Poll()
	assert.False(t, ok)

	var wins atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.complete(Result[int]{Value: i}) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1), wins.Load())

	first, ok := f.Poll()
	require.True(t, ok)
	assert.False(t, f.complete(Result[int]{Value: -1, Err: errors.New("late")}))
	again, _ := f.Poll()
	assert.Equal(t, first, again)
}

func TestFutureGetHonoursContext(t *testing.T) {
	t.Parallel()
	f := newFuture[string]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	v, err := f.Get(ctx)
	assert.Empty(t, v)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	f.complete(Result[string]{Value: "late"})
	v, err = f.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "late", v)
	select {
	case <-f.Done():
	default:
		t.Fatal("Done should be closed after completion")
	}
}

func TestFutureOnComplete(t *testing.T) {
	t.Parallel()
	f := newFuture[int]()
	var before, after Result[int]
	f.OnComplete(func(r Result[int]) { before = r })
	f.OnComplete(nil)
	f.complete(Result[int]{Value: 7})
	f.OnComplete(func(r Result[int]) { after = r })
	assert.Equal(t, 7, before.Value)
	assert.Equal(t, 7, after.Value)
}

func TestAwaitAllStopsOnContext(t *testing.T) {
	t.Parallel()
	done, pending := newFuture[int](), newFuture[int]()
	done.complete(Result[int]{Value: 1})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	got, err := AwaitAll(ctx, done, pending)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []Result[int]{{Value: 1}}, got)
}
