package hyperram

import "fmt"

// State is a state of the sequencer.
type State int

// States of the sequencer. The latency and hold waits are single states
// with a stage counter.
const (
	StateIdle State = iota
	StateCASend
	StateCAWait
	StateLatencyWait
	StateReadWrite
	StateReadAck
	StateClkOff
	StateCleanup
	StateHoldWait
)

// Fixed wait schedule of the core.
const (
	// LatencyWaitCycles is the number of cycles between the command and the
	// first data beat.
	LatencyWaitCycles = 5

	// HoldWaitCycles is the recovery time after chip select is released.
	HoldWaitCycles = 16

	// ReadTimeout is the largest number of cycles a read waits for the
	// strobe before the transaction is aborted.
	ReadTimeout = 20
)

var stateNames = [...]string{
	StateIdle:        "IDLE",
	StateCASend:      "CA-SEND",
	StateCAWait:      "CA-WAIT",
	StateLatencyWait: "LATENCY-WAIT",
	StateReadWrite:   "READ-WRITE",
	StateReadAck:     "READ-ACK",
	StateClkOff:      "CLK-OFF",
	StateCleanup:     "CLEANUP",
	StateHoldWait:    "HOLD-WAIT",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}

	return stateNames[s]
}

// AllStates lists the states in declaration order.
func AllStates() []State {
	states := make([]State, len(stateNames))
	for i := range states {
		states[i] = State(i)
	}

	return states
}

// AbortReason tells why a transaction was cut short.
type AbortReason int

// Abort reasons.
const (
	AbortNone AbortReason = iota
	AbortTimeout
	AbortCancel
)

func (r AbortReason) String() string {
	switch r {
	case AbortNone:
		return "none"
	case AbortTimeout:
		return "timeout"
	case AbortCancel:
		return "cancel"
	default:
		return fmt.Sprintf("AbortReason(%d)", int(r))
	}
}
