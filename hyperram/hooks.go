package hyperram

import (
	"github.com/sarchlab/hyperram/hyperram/protocol"
	"github.com/sarchlab/hyperram/sim"
)

// Hook positions of the HyperRAM component.
var (
	// HookPosCycle is invoked at the end of every cycle with the Debug
	// bundle as the item.
	HookPosCycle = &sim.HookPos{Name: "HyperRAM.Cycle"}

	// HookPosStateChange is invoked with the Transition when the sequencer
	// changes state.
	HookPosStateChange = &sim.HookPos{Name: "HyperRAM.StateChange"}

	// HookPosTransactionStart is invoked when chip select is asserted.
	HookPosTransactionStart = &sim.HookPos{Name: "HyperRAM.TransactionStart"}

	// HookPosBeat is invoked with a Beat for every acknowledged word.
	HookPosBeat = &sim.HookPos{Name: "HyperRAM.Beat"}

	// HookPosAbort is invoked when a transaction is cut short.
	HookPosAbort = &sim.HookPos{Name: "HyperRAM.Abort"}

	// HookPosTransactionEnd is invoked when the sequencer is back in IDLE.
	HookPosTransactionEnd = &sim.HookPos{Name: "HyperRAM.TransactionEnd"}
)

// A Transaction is one chip-select period of the core.
type Transaction struct {
	ID      string
	Command protocol.CommandWord
	Write   bool
	Address uint32

	StartCycle uint64
	EndCycle   uint64
	StartTime  sim.VTimeInSec
	EndTime    sim.VTimeInSec

	Beats int
	Abort AbortReason
}

// Aborted tells if the transaction ended without completing.
func (t *Transaction) Aborted() bool {
	return t.Abort != AbortNone
}

// A Beat is one acknowledged word.
type Beat struct {
	TransactionID string
	Index         int
	Cycle         uint64
	Time          sim.VTimeInSec
	Write         bool
	Address       uint32
	Data          uint32
	Sel           uint8
}
