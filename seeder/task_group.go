package seeder

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// taskGroup runs writes concurrently with at most limit of them in flight.
// A failing task does not cancel its siblings, Wait returns the first error
// once every task finished. A panic inside a task is carried over and raised
// again from Wait on the caller's goroutine.
type taskGroup struct {
	ctx     context.Context
	group   errgroup.Group
	limiter *rate.Limiter

	panicOnce  sync.Once
	panicValue interface{}
	panicked   bool
}

func newTaskGroup(ctx context.Context, limit int, limiter *rate.Limiter) *taskGroup {
	t := &taskGroup{ctx: ctx, limiter: limiter}
	if limit > 0 {
		t.group.SetLimit(limit)
	}
	return t
}

func (t *taskGroup) Go(task func(ctx context.Context) error) {
	t.group.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				t.panicOnce.Do(func() {
					t.panicValue = r
					t.panicked = true
				})
			}
		}()
		if err := throttle(t.ctx, t.limiter); err != nil {
			return err
		}
		return task(t.ctx)
	})
}

func (t *taskGroup) Wait() error {
	err := t.group.Wait()
	if t.panicked {
		panic(t.panicValue)
	}
	return err
}

// throttle blocks until limiter admits one more write. A nil limiter never
// blocks.
func throttle(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}

// newWriteLimiter returns nil when writesPerSecond is 0, meaning unlimited.
func newWriteLimiter(writesPerSecond float64) *rate.Limiter {
	if writesPerSecond <= 0 {
		return nil
	}
	burst := int(writesPerSecond)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(writesPerSecond), burst)
}
