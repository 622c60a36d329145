// Package pipelining provides register pipelines that advance in lockstep.
//
// A Pipeline models a chain of clocked registers. Every Shift moves each
// value one stage forward, accepts a new value at the input and returns the
// value that falls out of the last stage. The chain never stalls.
package pipelining

// Pipeline is a fixed-depth chain of registers.
type Pipeline[T comparable] struct {
	name    string
	initial T
	stages  []T
	head    int
}

// Name returns the name of the pipeline.
func (p *Pipeline[T]) Name() string {
	return p.name
}

// NumStage returns the number of register stages.
func (p *Pipeline[T]) NumStage() int {
	return len(p.stages)
}

// Shift clocks the pipeline once. A pipeline without stages returns the
// input directly.
func (p *Pipeline[T]) Shift(in T) (out T) {
	if len(p.stages) == 0 {
		return in
	}

	out = p.stages[p.head]
	p.stages[p.head] = in
	p.head = (p.head + 1) % len(p.stages)

	return out
}

// Output returns the value the next Shift will emit.
func (p *Pipeline[T]) Output() T {
	if len(p.stages) == 0 {
		return p.initial
	}

	return p.stages[p.head]
}

// Stages returns the content of the stages, from the output stage to the
// input stage.
func (p *Pipeline[T]) Stages() []T {
	n := len(p.stages)
	res := make([]T, n)

	for i := 0; i < n; i++ {
		res[i] = p.stages[(p.head+i)%n]
	}

	return res
}

// Settled tells if every stage holds the reset value.
func (p *Pipeline[T]) Settled() bool {
	for _, v := range p.stages {
		if v != p.initial {
			return false
		}
	}

	return true
}

// Clear loads the reset value into every stage.
func (p *Pipeline[T]) Clear() {
	for i := range p.stages {
		p.stages[i] = p.initial
	}

	p.head = 0
}
