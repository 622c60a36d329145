package host

import (
	"log"

	"github.com/sarchlab/hyperram/sim"
)

// A Builder can build agents.
type Builder struct {
	upstreamTimeout int
	ids             sim.IDGenerator
}

// MakeBuilder returns a Builder with the default upstream timeout.
func MakeBuilder() Builder {
	return Builder{
		upstreamTimeout: DefaultUpstreamTimeout,
	}
}

// WithUpstreamTimeout sets how many cycles the agent waits for each
// acknowledge.
func (b Builder) WithUpstreamTimeout(cycles int) Builder {
	b.upstreamTimeout = cycles
	return b
}

// WithIDGenerator sets where transaction IDs come from. IDs count from 1
// by default.
func (b Builder) WithIDGenerator(ids sim.IDGenerator) Builder {
	b.ids = ids
	return b
}

// Build creates an agent.
func (b Builder) Build(name string) *Agent {
	if b.upstreamTimeout <= 0 {
		log.Panicf("host %s: upstream timeout must be positive", name)
	}

	ids := b.ids
	if ids == nil {
		ids = sim.NewSequentialIDGenerator("")
	}

	return &Agent{
		name:            name,
		upstreamTimeout: b.upstreamTimeout,
		ids:             ids,
	}
}
