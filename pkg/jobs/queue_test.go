package jobs

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

func TestQueueDrainsOnStop(t *testing.T) {
	var mu sync.Mutex
	var seen []int
	q := NewQueue[int]("test", func(ctx context.Context, item int) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, item)
		return nil
	}, Config{Workers: 2, BufferSize: 16})

	q.Start(context.Background())
	for i := 0; i < 10; i++ {
		require.NoError(t, q.Enqueue(i))
	}
	q.Stop()

	assert.Len(t, seen, 10)
	assert.ErrorIs(t, q.Enqueue(11), ErrNotRunning)
}

func TestQueueRejectsBeforeStart(t *testing.T) {
	q := NewQueue[int]("test", func(ctx context.Context, item int) error { return nil }, Config{})
	assert.ErrorIs(t, q.Enqueue(1), ErrNotRunning)
}

func TestQueueReportsFullBuffer(t *testing.T) {
	release := make(chan struct{})
	q := NewQueue[int]("test", func(ctx context.Context, item int) error {
		<-release
		return nil
	}, Config{Workers: 1, BufferSize: 1})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(1))
	// The worker may already hold item 1, so fill until the buffer refuses.
	var full bool
	for i := 0; i < 3 && !full; i++ {
		full = errors.Is(q.Enqueue(2), ErrQueueFull)
	}
	assert.True(t, full)

	close(release)
	q.Stop()
}

func TestQueueRetriesFailures(t *testing.T) {
	var calls int32
	q := NewQueue[string]("test", func(ctx context.Context, item string) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("transient")
		}
		return nil
	}, Config{MaxRetries: 3, RetryDelay: time.Millisecond})

	q.Start(context.Background())
	require.NoError(t, q.Enqueue("audit"))
	q.Stop()

	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}
