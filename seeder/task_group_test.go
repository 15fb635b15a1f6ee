package seeder

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestTaskGroupBoundsConcurrency(t *testing.T) {
	group := newTaskGroup(context.Background(), 3, nil)
	var inFlight, maxInFlight, done int32
	for i := 0; i < 20; i++ {
		group.Go(func(ctx context.Context) error {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				m := atomic.LoadInt32(&maxInFlight)
				if n <= m || atomic.CompareAndSwapInt32(&maxInFlight, m, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			atomic.AddInt32(&done, 1)
			return nil
		})
	}
	assert.NoError(t, group.Wait())
	assert.Equal(t, int32(20), done)
	assert.LessOrEqual(t, maxInFlight, int32(3))
}

func TestTaskGroupFailureDoesNotCancelSiblings(t *testing.T) {
	group := newTaskGroup(context.Background(), 4, nil)
	failed := errors.New("failed")
	var done int32
	for i := 0; i < 10; i++ {
		i := i
		group.Go(func(ctx context.Context) error {
			if i == 0 {
				return failed
			}
			time.Sleep(time.Millisecond)
			if ctx.Err() == nil {
				atomic.AddInt32(&done, 1)
			}
			return nil
		})
	}
	assert.Equal(t, failed, group.Wait())
	assert.Equal(t, int32(9), done)
}

func TestTaskGroupCarriesPanicsToWait(t *testing.T) {
	group := newTaskGroup(context.Background(), 2, nil)
	var done int32
	for i := 0; i < 5; i++ {
		i := i
		group.Go(func(ctx context.Context) error {
			if i == 2 {
				panic("task exploded")
			}
			atomic.AddInt32(&done, 1)
			return nil
		})
	}
	assert.PanicsWithValue(t, "task exploded", func() { group.Wait() })
	assert.Equal(t, int32(4), done)
}

func TestTaskGroupStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	group := newTaskGroup(ctx, 2, rate.NewLimiter(rate.Limit(1), 1))
	var ran int32
	for i := 0; i < 3; i++ {
		group.Go(func(ctx context.Context) error {
			atomic.AddInt32(&ran, 1)
			return nil
		})
	}
	assert.Error(t, group.Wait())
	assert.Zero(t, ran)
}

func TestNewWriteLimiter(t *testing.T) {
	assert.Nil(t, newWriteLimiter(0))

	slow := newWriteLimiter(0.5)
	assert.Equal(t, rate.Limit(0.5), slow.Limit())
	assert.Equal(t, 1, slow.Burst())

	fast := newWriteLimiter(200)
	assert.Equal(t, 200, fast.Burst())
}
