package pipelining

import "log"

// A Builder can build pipelines.
type Builder[T comparable] struct {
	numStage int
	initial  T
}

// MakeBuilder creates a default builder
func MakeBuilder[T comparable]() Builder[T] {
	return Builder[T]{
		numStage: 3,
	}
}

// WithNumStage sets the number of pipeline stages
func (b Builder[T]) WithNumStage(n int) Builder[T] {
	b.numStage = n
	return b
}

// WithInitialValue sets the value the stages hold after reset.
func (b Builder[T]) WithInitialValue(v T) Builder[T] {
	b.initial = v
	return b
}

// Build builds a pipeline.
func (b Builder[T]) Build(name string) *Pipeline[T] {
	if b.numStage < 0 {
		log.Panicf("pipeline %s: number of stages cannot be negative", name)
	}

	p := &Pipeline[T]{
		name:    name,
		initial: b.initial,
		stages:  make([]T, b.numStage),
	}

	p.Clear()

	return p
}
