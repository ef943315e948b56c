package stopwatch

import (
	"time"

	"stopwatch-widget/internal/util"
)

// Clock supplies the current time. Tests substitute a controllable clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Handle cancels an armed repeating task.
type Handle interface {
	Stop()
}

// Scheduler arms tick to run every period and returns its handle.
type Scheduler func(every time.Duration, tick func()) Handle

func intervalScheduler(every time.Duration, tick func()) Handle {
	return util.StartInterval(every, tick)
}
