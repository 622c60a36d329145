package phy

import "github.com/sarchlab/hyperram/pipelining"

// DefaultSyncStages is the depth of the control synchronizers. The sequencer
// wait counts absorb this latency.
const DefaultSyncStages = 3

// A Synchronizer carries a signal from the core clock domain into the I/O
// clock domain through a chain of registers (a MultiReg). The I/O side
// observes each value for exactly one core cycle, N cycles late.
type Synchronizer[T comparable] struct {
	regs *pipelining.Pipeline[T]
}

// NewSynchronizer creates an n-stage synchronizer whose registers reset to
// initial.
func NewSynchronizer[T comparable](
	name string,
	n int,
	initial T,
) *Synchronizer[T] {
	return &Synchronizer[T]{
		regs: pipelining.MakeBuilder[T]().
			WithNumStage(n).
			WithInitialValue(initial).
			Build(name),
	}
}

// Sync clocks the synchronizer and returns the value visible on the I/O
// side for this cycle.
func (s *Synchronizer[T]) Sync(v T) T {
	return s.regs.Shift(v)
}

// Stages returns the number of register stages.
func (s *Synchronizer[T]) Stages() int {
	return s.regs.NumStage()
}

// Settled tells if every register holds the reset value.
func (s *Synchronizer[T]) Settled() bool {
	return s.regs.Settled()
}

// Reset loads the reset value into every register.
func (s *Synchronizer[T]) Reset() {
	s.regs.Clear()
}
