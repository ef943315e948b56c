package util

import (
	"sync"
	"time"
)

// Timer is a lightweight helper to measure elapsed durations.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer starting at current time.
func StartTimer() Timer {
	return Timer{start: time.Now()}
}

// ElapsedMs returns the elapsed milliseconds since start.
func (t Timer) ElapsedMs() int64 {
	if t.start.IsZero() {
		return 0
	}
	return time.Since(t.start).Milliseconds()
}

// Interval runs a callback repeatedly on a fixed period until stopped.
type Interval struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

// StartInterval arms fn to run every period. A non-positive period is
// treated as one millisecond.
func StartInterval(every time.Duration, fn func()) *Interval {
	if every <= 0 {
		every = time.Millisecond
	}
	iv := &Interval{
		ticker: time.NewTicker(every),
		done:   make(chan struct{}),
	}
	go iv.loop(fn)
	return iv
}

func (iv *Interval) loop(fn func()) {
	for {
		select {
		case <-iv.done:
			return
		case <-iv.ticker.C:
			select {
			case <-iv.done:
				return
			default:
			}
			fn()
		}
	}
}

// Stop cancels future ticks. It does not wait for a callback that is
// already running and is safe to call more than once.
func (iv *Interval) Stop() {
	if iv == nil {
		return
	}
	iv.once.Do(func() {
		iv.ticker.Stop()
		close(iv.done)
	})
}
