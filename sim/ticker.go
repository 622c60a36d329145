package sim

import (
	"sync"
)

// TickEvent asks a component to run one cycle.
type TickEvent struct {
	EventBase
}

// MakeTickEvent creates a primary tick.
func MakeTickEvent(handler Handler, time VTimeInSec) TickEvent {
	return TickEvent{EventBase: MakeEventBase(time, handler)}
}

// A Ticker runs one cycle and reports whether anything changed.
type Ticker interface {
	Tick() bool
}

// TickingComponent calls its Ticker once per cycle for as long as the
// Ticker makes progress. A component that stops is woken again by
// NotifyRecv, TickNow or TickLater.
type TickingComponent struct {
	*ComponentBase

	Engine Engine
	Freq   Freq

	ticker    Ticker
	secondary bool

	mu       sync.Mutex
	nextTick VTimeInSec
}

// NewTickingComponent creates a component that ticks with primary events.
func NewTickingComponent(
	name string,
	engine Engine,
	freq Freq,
	ticker Ticker,
) *TickingComponent {
	return &TickingComponent{
		ComponentBase: NewComponentBase(name),
		Engine:        engine,
		Freq:          freq,
		ticker:        ticker,
		nextTick:      -1,
	}
}

// NewSecondaryTickingComponent creates a component whose ticks run after
// the primary events of the same time.
func NewSecondaryTickingComponent(
	name string,
	engine Engine,
	freq Freq,
	ticker Ticker,
) *TickingComponent {
	tc := NewTickingComponent(name, engine, freq, ticker)
	tc.secondary = true

	return tc
}

// NotifyRecv wakes the component up on the next cycle.
func (c *TickingComponent) NotifyRecv() {
	c.TickLater()
}

// Handle runs one tick and keeps ticking while there is progress.
func (c *TickingComponent) Handle(_ Event) error {
	if c.ticker.Tick() {
		c.TickLater()
	}

	return nil
}

// CurrentTime returns the engine time.
func (c *TickingComponent) CurrentTime() VTimeInSec {
	return c.Engine.CurrentTime()
}

// TickNow schedules a tick on the current edge, or on the next one when
// now falls between edges.
func (c *TickingComponent) TickNow() {
	c.scheduleAt(c.Freq.ThisTick(c.CurrentTime()))
}

// TickLater schedules a tick on the edge after now.
func (c *TickingComponent) TickLater() {
	c.scheduleAt(c.Freq.NextTick(c.CurrentTime()))
}

// scheduleAt schedules a tick at t unless one at or after t is pending.
func (c *TickingComponent) scheduleAt(t VTimeInSec) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.nextTick >= t {
		return
	}

	c.nextTick = t

	base := MakeEventBase(t, c)
	if c.secondary {
		base = MakeSecondaryEventBase(t, c)
	}

	c.Engine.Schedule(TickEvent{EventBase: base})
}
