package clock

import (
	"context"
	"time"
)

// Timer is a cancellable handle to a scheduled callback.
type Timer interface {
	// Stop cancels the pending callback. It reports whether the callback
	// was still pending; a false return means it already fired or was
	// already stopped.
	Stop() bool
}

// Clock abstracts time so that timed behavior can be driven by a virtual
// clock in tests instead of real sleeps.
type Clock interface {
	Now() time.Time
	// AfterFunc schedules fn to run once after d on its own goroutine.
	AfterFunc(d time.Duration, fn func()) Timer
	// Sleep blocks for d or until ctx is cancelled.
	Sleep(ctx context.Context, d time.Duration) error
}

// New returns a Clock backed by the time package.
func New() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
