package session

import (
	"context"
	"math/rand/v2"
	"time"
)

// Pacer pads backend round trips so replies never arrive implausibly fast.
type Pacer interface {
	// Wait blocks until a randomized floor has passed, counting elapsed
	// as already spent. It returns early when ctx is done.
	Wait(ctx context.Context, elapsed time.Duration)
}

// RandomPacer picks a floor uniformly from [Min, Max] on every call.
type RandomPacer struct {
	Min time.Duration
	Max time.Duration

	randN func(n int64) int64
	sleep func(ctx context.Context, d time.Duration)
}

// NewRandomPacer creates a pacer with a floor in [minDelay, maxDelay].
func NewRandomPacer(minDelay, maxDelay time.Duration) *RandomPacer {
	return &RandomPacer{
		Min:   minDelay,
		Max:   maxDelay,
		randN: rand.Int64N,
		sleep: sleepContext,
	}
}

// Delay returns one randomized floor.
func (p *RandomPacer) Delay() time.Duration {
	if p.Max <= p.Min {
		return p.Min
	}
	return p.Min + time.Duration(p.randN(int64(p.Max-p.Min)+1))
}

// Wait implements Pacer.
func (p *RandomPacer) Wait(ctx context.Context, elapsed time.Duration) {
	if remaining := p.Delay() - elapsed; remaining > 0 {
		p.sleep(ctx, remaining)
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Timer is a cancellable pending continuation.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. f must not run before AfterFunc returns.
// Tests substitute a manual scheduler that fires continuations on demand.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type clockScheduler struct{}

func (clockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
