package poll_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/networkteam/flightsearch/poll"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestUntil_ImmediatelyTrue(t *testing.T) {
	var calls atomic.Int32
	start := time.Now()
	ok := poll.Until(func() bool {
		calls.Add(1)
		return true
	}, time.Second, 10*time.Millisecond)

	assert.True(t, ok)
	assert.Equal(t, int32(1), calls.Load())
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestUntil_BecomesTrue(t *testing.T) {
	var calls atomic.Int32
	start := time.Now()
	ok := poll.Until(func() bool {
		return calls.Add(1) >= 5
	}, time.Second, 5*time.Millisecond)

	assert.True(t, ok)
	assert.Equal(t, int32(5), calls.Load())
	assert.Less(t, time.Since(start), time.Second)
}

func TestUntil_Timeout(t *testing.T) {
	timeout := 100 * time.Millisecond
	interval := 10 * time.Millisecond

	start := time.Now()
	ok := poll.Until(func() bool { return false }, timeout, interval)
	elapsed := time.Since(start)

	assert.False(t, ok)
	assert.GreaterOrEqual(t, elapsed, timeout)
	// Tolerance of one interval plus scheduling slack
	assert.Less(t, elapsed, timeout+interval+200*time.Millisecond)
}

func TestUntil_ZeroTimeoutEvaluatesOnce(t *testing.T) {
	var calls atomic.Int32
	ok := poll.Until(func() bool {
		calls.Add(1)
		return false
	}, 0, 0)

	assert.False(t, ok)
	assert.Equal(t, int32(1), calls.Load())
}

func TestUntil_DefaultInterval(t *testing.T) {
	var calls atomic.Int32
	poll.Until(func() bool {
		calls.Add(1)
		return false
	}, 55*time.Millisecond, 0)

	// 10ms default interval gives roughly 6 evaluations, never a busy loop
	assert.LessOrEqual(t, calls.Load(), int32(8))
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}

func TestUntilContext(t *testing.T) {
	t.Run("true before deadline", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		var calls atomic.Int32
		ok := poll.UntilContext(ctx, func() bool {
			return calls.Add(1) == 3
		}, time.Millisecond)
		assert.True(t, ok)
	})

	t.Run("deadline exceeded", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()

		ok := poll.UntilContext(ctx, func() bool { return false }, 5*time.Millisecond)
		assert.False(t, ok)
		assert.ErrorIs(t, ctx.Err(), context.DeadlineExceeded)
	})
}
