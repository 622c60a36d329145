package device

import (
	"log"

	"github.com/sarchlab/hyperram/hyperram/phy"
	"github.com/sarchlab/hyperram/memory"
	"github.com/sarchlab/hyperram/sim"
)

// Default device parameters.
const (
	DefaultLatency    = 11
	DefaultClockToOut = 2
	DefaultCapacity   = 8 << 20
)

// A Builder can build devices.
type Builder struct {
	engine     sim.Engine
	freq       sim.Freq
	link       *phy.Link
	latency    int
	clockToOut int
	capacity   uint64
	strobe     bool
	storage    memory.Accessor
}

// MakeBuilder returns a Builder with the default device parameters.
func MakeBuilder() Builder {
	return Builder{
		freq:       100 * sim.MHz,
		latency:    DefaultLatency,
		clockToOut: DefaultClockToOut,
		capacity:   DefaultCapacity,
		strobe:     true,
	}
}

// WithEngine sets the engine that runs the device.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency the device is woken at. It must match the
// controller clock.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithLink sets the link the device listens to.
func (b Builder) WithLink(link *phy.Link) Builder {
	b.link = link
	return b
}

// WithLatency sets the initial latency in clocks.
func (b Builder) WithLatency(latency int) Builder {
	b.latency = latency
	return b
}

// WithClockToOut sets the number of bit-times between a clock edge and the
// read data it launches.
func (b Builder) WithClockToOut(n int) Builder {
	b.clockToOut = n
	return b
}

// WithCapacity sets the size of the memory array in bytes.
func (b Builder) WithCapacity(capacity uint64) Builder {
	b.capacity = capacity
	return b
}

// WithStrobe enables or disables the read data strobe. A device without
// strobe never lets a read complete.
func (b Builder) WithStrobe(enabled bool) Builder {
	b.strobe = enabled
	return b
}

// WithStorage sets the memory array. A new storage of the configured
// capacity is created otherwise.
func (b Builder) WithStorage(storage memory.Accessor) Builder {
	b.storage = storage
	return b
}

// Build creates a device and registers it as a listener of the link.
func (b Builder) Build(name string) *Comp {
	if b.engine == nil || b.link == nil {
		log.Panicf("device %s: engine and link must be set", name)
	}

	if b.latency < 1 {
		log.Panicf("device %s: latency must be at least 1", name)
	}

	if b.clockToOut < 1 {
		log.Panicf("device %s: clock-to-out must be at least 1 bit-time",
			name)
	}

	if b.capacity == 0 {
		log.Panicf("device %s: capacity cannot be 0", name)
	}

	c := &Comp{
		link:       b.link,
		storage:    b.storage,
		capacity:   b.capacity,
		latency:    b.latency,
		clockToOut: b.clockToOut,
		strobe:     b.strobe,
		pending:    make(map[uint64]output),
	}

	if c.storage == nil {
		c.storage = memory.NewStorage(b.capacity)
	}

	c.TickingComponent = sim.NewSecondaryTickingComponent(
		name, b.engine, b.freq, c)
	b.link.AcceptListener(c)

	return c
}
