package sim

import (
	"log"
	"sync"
)

const (
	primary = iota
	secondary
)

// A SerialEngine handles one event at a time. Among events of the same
// time, primary events run before secondary ones and each class runs in
// scheduling order.
type SerialEngine struct {
	HookableBase

	clock   sync.RWMutex
	now     VTimeInSec
	handled uint64

	queues [2]*EventQueue

	// gate is held while an event runs and while the engine is paused.
	gate     sync.Mutex
	pausing  sync.Mutex
	isPaused bool

	running sync.Mutex
}

// NewSerialEngine creates an engine at time 0.
func NewSerialEngine() *SerialEngine {
	return &SerialEngine{
		queues: [2]*EventQueue{NewEventQueue(), NewEventQueue()},
	}
}

func queueOf(evt Event) int {
	if evt.IsSecondary() {
		return secondary
	}

	return primary
}

// Schedule queues an event.
func (e *SerialEngine) Schedule(evt Event) {
	if now := e.CurrentTime(); evt.Time() < now {
		log.Panicf("%T scheduled at %.12f s, before the current time %.12f s",
			evt, evt.Time(), now)
	}

	e.queues[queueOf(evt)].Push(evt)
}

// CurrentTime returns the time of the current or last handled event.
func (e *SerialEngine) CurrentTime() VTimeInSec {
	e.clock.RLock()
	defer e.clock.RUnlock()

	return e.now
}

// Stats returns the number of handled and queued events.
func (e *SerialEngine) Stats() EngineStats {
	e.clock.RLock()
	handled := e.handled
	e.clock.RUnlock()

	return EngineStats{
		Handled: handled,
		Pending: e.queues[primary].Len() + e.queues[secondary].Len(),
	}
}

// Run handles events until none is left. It stops at the first handler
// error and returns it.
func (e *SerialEngine) Run() error {
	e.running.Lock()
	defer e.running.Unlock()

	for {
		e.gate.Lock()

		evt := e.pop()
		if evt == nil {
			e.gate.Unlock()
			e.InvokeHook(HookCtx{Domain: e, Pos: HookPosDrained})

			return nil
		}

		err := e.handle(evt)

		e.gate.Unlock()

		if err != nil {
			return err
		}
	}
}

func (e *SerialEngine) handle(evt Event) error {
	e.clock.Lock()
	if evt.Time() < e.now {
		e.clock.Unlock()
		log.Panicf("%T at %.12f s is in the past, now %.12f s",
			evt, evt.Time(), e.now)
	}
	e.now = evt.Time()
	e.handled++
	e.clock.Unlock()

	ctx := HookCtx{Domain: e, Pos: HookPosBeforeEvent, Item: evt}
	e.InvokeHook(ctx)

	err := evt.Handler().Handle(evt)

	ctx.Pos = HookPosAfterEvent
	e.InvokeHook(ctx)

	return err
}

// pop removes the next event, or returns nil when both queues are empty.
func (e *SerialEngine) pop() Event {
	p, s := e.queues[primary], e.queues[secondary]

	switch {
	case p.Len() == 0 && s.Len() == 0:
		return nil
	case s.Len() == 0:
		return p.Pop()
	case p.Len() == 0:
		return s.Pop()
	case p.Peek().Time() <= s.Peek().Time():
		return p.Pop()
	default:
		return s.Pop()
	}
}

// Pause holds Run before its next event.
func (e *SerialEngine) Pause() {
	e.pausing.Lock()
	defer e.pausing.Unlock()

	if !e.isPaused {
		e.gate.Lock()
		e.isPaused = true
	}
}

// Continue releases a paused engine.
func (e *SerialEngine) Continue() {
	e.pausing.Lock()
	defer e.pausing.Unlock()

	if e.isPaused {
		e.gate.Unlock()
		e.isPaused = false
	}
}
