package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireWithCapacityReturnsImmediately(t *testing.T) {
	l := New(3, time.Second)

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Acquire(context.Background()))
	}
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 100*time.Millisecond, "acquire with free capacity must not wait")
	assert.Equal(t, 0, l.Remaining())
}

func TestAcquireBlocksUntilWindowSlides(t *testing.T) {
	window := 150 * time.Millisecond
	l := New(2, window)

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Acquire(context.Background()))
	}
	elapsed := time.Since(start)

	// The third acquire must wait for the first slot to age out.
	assert.GreaterOrEqual(t, elapsed, window-10*time.Millisecond)
}

func TestWindowNeverExceeded(t *testing.T) {
	window := 100 * time.Millisecond
	l := New(3, window)

	var mu sync.Mutex
	var issued []time.Time

	var wg sync.WaitGroup
	for i := 0; i < 9; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, l.Acquire(context.Background()))
			mu.Lock()
			issued = append(issued, time.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, issued, 9)

	// No trailing window may contain more than 3 issuances. Small slack
	// covers the gap between slot reservation and timestamp capture.
	slack := 20 * time.Millisecond
	for i := range issued {
		count := 0
		for j := range issued {
			d := issued[j].Sub(issued[i])
			if d >= 0 && d < window-slack {
				count++
			}
		}
		assert.LessOrEqual(t, count, 3, "sliding window overflow at issuance %d", i)
	}
}

func TestAcquireHonoursContextCancellation(t *testing.T) {
	l := New(1, time.Minute)
	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := l.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRemainingAndNextFree(t *testing.T) {
	l := New(2, time.Minute)

	assert.Equal(t, 2, l.Remaining())
	assert.True(t, l.NextFree().IsZero())

	require.NoError(t, l.Acquire(context.Background()))
	assert.Equal(t, 1, l.Remaining())
	assert.True(t, l.NextFree().IsZero())

	require.NoError(t, l.Acquire(context.Background()))
	assert.Equal(t, 0, l.Remaining())
	assert.False(t, l.NextFree().IsZero())
	assert.WithinDuration(t, time.Now().Add(time.Minute), l.NextFree(), 2*time.Second)
}
