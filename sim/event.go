package sim

// VTimeInSec is a point in simulated time, in seconds.
type VTimeInSec float64

// An Event is handled by one Handler at one point in simulated time.
type Event interface {
	Time() VTimeInSec
	Handler() Handler

	// IsSecondary reports that the event runs after every primary event of
	// the same time.
	IsSecondary() bool
}

// A Handler receives the events scheduled for it. An event may only change
// the state of its own handler.
type Handler interface {
	Handle(e Event) error
}

// EventBase implements Event and is embedded by concrete events.
type EventBase struct {
	time      VTimeInSec
	handler   Handler
	secondary bool
}

// MakeEventBase returns the base of a primary event.
func MakeEventBase(t VTimeInSec, handler Handler) EventBase {
	return EventBase{time: t, handler: handler}
}

// MakeSecondaryEventBase returns the base of a secondary event.
func MakeSecondaryEventBase(t VTimeInSec, handler Handler) EventBase {
	return EventBase{time: t, handler: handler, secondary: true}
}

// Time returns when the event happens.
func (e EventBase) Time() VTimeInSec {
	return e.time
}

// Handler returns the handler of the event.
func (e EventBase) Handler() Handler {
	return e.handler
}

// IsSecondary tells if the event is secondary.
func (e EventBase) IsSecondary() bool {
	return e.secondary
}
