package stopwatch

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultRefreshInterval gives centisecond display resolution.
const DefaultRefreshInterval = 10 * time.Millisecond

// Lap is an elapsed-time snapshot taken by RecordLap.
type Lap struct {
	Index   int           `json:"index"`
	Elapsed time.Duration `json:"elapsed"`
}

// EventKind names what happened to the stopwatch.
type EventKind string

const (
	EventStarted EventKind = "started"
	EventPaused  EventKind = "paused"
	EventTick    EventKind = "tick"
	EventLap     EventKind = "lap"
	EventReset   EventKind = "reset"
)

// Event is delivered to listeners after every control operation and on
// every refresh tick while running.
type Event struct {
	Kind     EventKind
	Lap      *Lap
	Snapshot Snapshot
}

// Listener receives engine events. It may call Snapshot or Elapsed but must
// not call the control operations.
type Listener func(Event)

// Snapshot is a point-in-time copy of the stopwatch state.
type Snapshot struct {
	ID           string        `json:"id"`
	Running      bool          `json:"running"`
	Started      bool          `json:"started"`
	Accumulated  time.Duration `json:"accumulated"`
	Elapsed      time.Duration `json:"elapsed"`
	Laps         []Lap         `json:"laps"`
	NextLapIndex int           `json:"next_lap_index"`
}

// Option configures an Engine.
type Option func(*config)

type config struct {
	clock     Clock
	scheduler Scheduler
	interval  time.Duration
	listeners []Listener
}

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(cfg *config) {
		if c != nil {
			cfg.clock = c
		}
	}
}

// WithScheduler replaces the ticker-backed refresh scheduler.
func WithScheduler(s Scheduler) Option {
	return func(cfg *config) {
		if s != nil {
			cfg.scheduler = s
		}
	}
}

// WithRefreshInterval sets the display refresh period.
func WithRefreshInterval(d time.Duration) Option {
	return func(cfg *config) {
		if d > 0 {
			cfg.interval = d
		}
	}
}

// WithListener registers a listener for engine events.
func WithListener(l Listener) Option {
	return func(cfg *config) {
		if l != nil {
			cfg.listeners = append(cfg.listeners, l)
		}
	}
}

type state struct {
	running      bool
	started      bool
	startEpoch   time.Time
	accumulated  time.Duration
	laps         []Lap // newest first
	nextLapIndex int
}

func initialState() state {
	return state{nextLapIndex: 1}
}

// Engine owns the state of a single stopwatch.
type Engine struct {
	id        string
	clock     Clock
	scheduler Scheduler
	interval  time.Duration

	// emitMu serialises operations with their event delivery so listeners
	// see events in operation order. mu guards st and the refresh handle.
	emitMu    sync.Mutex
	mu        sync.Mutex
	st        state
	refresh   Handle
	gen       uint64
	listeners []Listener
}

// New creates a stopped stopwatch with zero elapsed time.
func New(opts ...Option) *Engine {
	cfg := config{
		clock:     systemClock{},
		scheduler: intervalScheduler,
		interval:  DefaultRefreshInterval,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{
		id:        uuid.NewString(),
		clock:     cfg.clock,
		scheduler: cfg.scheduler,
		interval:  cfg.interval,
		st:        initialState(),
		listeners: cfg.listeners,
	}
}

// ID identifies the engine. Reset does not change it.
func (e *Engine) ID() string {
	return e.id
}

// RefreshInterval reports the period of the display refresh.
func (e *Engine) RefreshInterval() time.Duration {
	return e.interval
}

// ToggleStartPause pauses a running stopwatch or starts a stopped one.
func (e *Engine) ToggleStartPause() {
	e.emitMu.Lock()
	defer e.emitMu.Unlock()

	e.mu.Lock()
	now := e.clock.Now()
	kind := EventStarted
	if e.st.running {
		e.st.accumulated += now.Sub(e.st.startEpoch)
		e.st.running = false
		e.stopRefreshLocked()
		kind = EventPaused
	} else {
		e.st.startEpoch = now
		e.st.running = true
		e.st.started = true
		e.armRefreshLocked()
	}
	snap := e.snapshotLocked(now)
	e.mu.Unlock()

	e.emit(Event{Kind: kind, Snapshot: snap})
}

// RecordLap stores the current elapsed time as the newest lap. It does
// nothing and returns false when the stopwatch is not running.
func (e *Engine) RecordLap() (Lap, bool) {
	e.emitMu.Lock()
	defer e.emitMu.Unlock()

	e.mu.Lock()
	if !e.st.running {
		e.mu.Unlock()
		return Lap{}, false
	}
	now := e.clock.Now()
	lap := Lap{Index: e.st.nextLapIndex, Elapsed: e.elapsedLocked(now)}
	laps := make([]Lap, 0, len(e.st.laps)+1)
	laps = append(laps, lap)
	e.st.laps = append(laps, e.st.laps...)
	e.st.nextLapIndex++
	snap := e.snapshotLocked(now)
	e.mu.Unlock()

	recorded := lap
	e.emit(Event{Kind: EventLap, Lap: &recorded, Snapshot: snap})
	return lap, true
}

// Reset stops the refresh and returns the stopwatch to its initial state.
func (e *Engine) Reset() {
	e.emitMu.Lock()
	defer e.emitMu.Unlock()

	e.mu.Lock()
	e.stopRefreshLocked()
	e.st = initialState()
	snap := e.snapshotLocked(e.clock.Now())
	e.mu.Unlock()

	e.emit(Event{Kind: EventReset, Snapshot: snap})
}

// Elapsed returns the running time since the last reset, excluding pauses.
func (e *Engine) Elapsed() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.elapsedLocked(e.clock.Now())
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked(e.clock.Now())
}

func (e *Engine) elapsedLocked(now time.Time) time.Duration {
	if e.st.running {
		return e.st.accumulated + now.Sub(e.st.startEpoch)
	}
	return e.st.accumulated
}

func (e *Engine) snapshotLocked(now time.Time) Snapshot {
	laps := make([]Lap, len(e.st.laps))
	copy(laps, e.st.laps)
	return Snapshot{
		ID:           e.id,
		Running:      e.st.running,
		Started:      e.st.started,
		Accumulated:  e.st.accumulated,
		Elapsed:      e.elapsedLocked(now),
		Laps:         laps,
		NextLapIndex: e.st.nextLapIndex,
	}
}

func (e *Engine) armRefreshLocked() {
	e.stopRefreshLocked()
	gen := e.gen
	e.refresh = e.scheduler(e.interval, func() { e.tick(gen) })
}

// stopRefreshLocked cancels the active refresh. Bumping gen invalidates a
// tick that already fired but has not acquired the lock yet.
func (e *Engine) stopRefreshLocked() {
	e.gen++
	if e.refresh != nil {
		e.refresh.Stop()
		e.refresh = nil
	}
}

func (e *Engine) tick(gen uint64) {
	e.emitMu.Lock()
	defer e.emitMu.Unlock()

	e.mu.Lock()
	if gen != e.gen || !e.st.running {
		e.mu.Unlock()
		return
	}
	snap := e.snapshotLocked(e.clock.Now())
	e.mu.Unlock()

	e.emit(Event{Kind: EventTick, Snapshot: snap})
}

func (e *Engine) emit(ev Event) {
	for _, l := range e.listeners {
		l(ev)
	}
}
