package hyperram

import (
	"log"
	"math"

	"github.com/sarchlab/hyperram/hyperram/phy"
	"github.com/sarchlab/hyperram/sim"
)

// A Builder can build HyperRAM controllers.
type Builder struct {
	engine sim.Engine
	freq   sim.Freq
	phy    *phy.PHY
	master BusMaster
	ids    sim.IDGenerator
}

// MakeBuilder returns a Builder with a 100 MHz core clock.
func MakeBuilder() Builder {
	return Builder{
		freq: 100 * sim.MHz,
	}
}

// WithEngine sets the engine that runs the controller.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the core clock frequency.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithPHY sets the serialization layer. Its base clock must match the core
// clock. A PHY with a fresh link is built otherwise.
func (b Builder) WithPHY(p *phy.PHY) Builder {
	b.phy = p
	return b
}

// WithBusMaster sets what drives the host bus.
func (b Builder) WithBusMaster(m BusMaster) Builder {
	b.master = m
	return b
}

// WithIDGenerator sets where transaction IDs come from. IDs count from 1
// by default.
func (b Builder) WithIDGenerator(ids sim.IDGenerator) Builder {
	b.ids = ids
	return b
}

// Build creates a controller.
func (b Builder) Build(name string) *Comp {
	if b.engine == nil {
		log.Panicf("hyperram %s: engine is not set", name)
	}

	if b.master == nil {
		log.Panicf("hyperram %s: bus master is not set", name)
	}

	c := &Comp{
		seq:    NewSequencer(),
		phy:    b.phy,
		master: b.master,
		ids:    b.ids,
	}

	if c.ids == nil {
		c.ids = sim.NewSequentialIDGenerator("")
	}

	if c.phy == nil {
		c.phy = phy.MakeBuilder().WithFreq(b.freq).Build(name + ".PHY")
	}

	base := c.phy.Clocks().Base.Freq
	if math.Abs(float64(base-b.freq)) > 1e-9*float64(b.freq) {
		log.Panicf("hyperram %s: core clock %.0f Hz does not match PHY clock %.0f Hz",
			name, float64(b.freq), float64(base))
	}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	return c
}
