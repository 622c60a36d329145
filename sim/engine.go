package sim

// HookPosBeforeEvent is invoked with the event about to be handled.
var HookPosBeforeEvent = &HookPos{Name: "BeforeEvent"}

// HookPosAfterEvent is invoked with the event just handled.
var HookPosAfterEvent = &HookPos{Name: "AfterEvent"}

// HookPosDrained is invoked when Run returns because no event is left.
var HookPosDrained = &HookPos{Name: "Drained"}

// An Engine runs the events of one simulation in time order.
type Engine interface {
	Hookable

	// CurrentTime returns the time of the event being handled, or of the
	// last one handled.
	CurrentTime() VTimeInSec

	// Schedule queues an event. Scheduling before the current time panics.
	Schedule(e Event)

	// Run handles events until the queues drain or a handler fails.
	Run() error

	// Pause holds Run before its next event. Continue releases it.
	Pause()
	Continue()

	// Stats returns the event counters.
	Stats() EngineStats
}

// EngineStats counts the events of an engine.
type EngineStats struct {
	Handled uint64 `json:"handled"`
	Pending int    `json:"pending"`
}
