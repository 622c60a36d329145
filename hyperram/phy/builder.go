package phy

import (
	"fmt"
	"log"

	"github.com/sarchlab/hyperram/sim"
)

// A Builder can build PHYs.
type Builder struct {
	clocks     Clocks
	syncStages int
	resetLine  bool
	link       *Link
}

// MakeBuilder returns a Builder with a 100 MHz base clock.
func MakeBuilder() Builder {
	return Builder{
		clocks:     NewClocks(100 * sim.MHz),
		syncStages: DefaultSyncStages,
	}
}

// WithFreq derives the four clock domains from a base frequency.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.clocks = NewClocks(freq)
	return b
}

// WithClocks sets the clock domains explicitly.
func (b Builder) WithClocks(clocks Clocks) Builder {
	b.clocks = clocks
	return b
}

// WithSyncStages sets the depth of the control synchronizers and of the
// gearbox pipeline.
func (b Builder) WithSyncStages(n int) Builder {
	b.syncStages = n
	return b
}

// WithResetLine adds the reset line to the link. It is always driven high.
func (b Builder) WithResetLine(present bool) Builder {
	b.resetLine = present
	return b
}

// WithLink sets the link the PHY drives. A new link is created otherwise.
func (b Builder) WithLink(link *Link) Builder {
	b.link = link
	return b
}

// Build creates a PHY.
func (b Builder) Build(name string) *PHY {
	if err := b.clocks.Validate(); err != nil {
		log.Panicf("phy %s: %v", name, err)
	}

	if b.syncStages < 1 {
		log.Panicf("phy %s: at least one synchronizer stage is required",
			name)
	}

	p := &PHY{
		name:     name,
		clocks:   b.clocks,
		link:     b.link,
		hasReset: b.resetLine,
	}

	if p.link == nil {
		p.link = NewLink()
	}

	n := b.syncStages
	p.csN = NewSynchronizer(name+".CSn", n, true)
	p.dqOE = NewSynchronizer(name+".DQ.OE", n, false)
	p.rwdsOE = NewSynchronizer(name+".RWDS.OE", n, false)
	p.clkEn = NewSynchronizer(name+".ClkEn", n, false)

	p.dqOut = NewSerializer(name+".DQ.O", DQLanes, n)
	p.rwdsOut = NewSerializer(name+".RWDS.O", RWDSLanes, n)
	p.dqIn = NewDeserializer(name+".DQ.I", DQLanes)
	p.rwdsIn = NewDeserializer(name+".RWDS.I", RWDSLanes)

	bitTime := b.clocks.BitTime()
	for i := range p.dqDelay {
		p.dqDelay[i] = NewDelayLine(fmt.Sprintf("%s.DQ%d.Delay", name, i),
			bitTime)
	}

	p.rwdsDelay = NewDelayLine(name+".RWDS.Delay", bitTime)
	p.clkPDelay = NewDelayLine(name+".ClkP.Delay", bitTime)
	p.clkNDelay = NewDelayLine(name+".ClkN.Delay", bitTime)

	p.ioCtrl = IdleDelayControl
	p.clkCtrl = IdleDelayControl

	return p
}
