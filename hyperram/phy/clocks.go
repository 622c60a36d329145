package phy

import (
	"fmt"
	"math"

	"github.com/sarchlab/hyperram/sim"
)

// Names of the four clock domains the PHY runs in.
const (
	DomainBase     = "hr"
	DomainBase90   = "hr_90"
	DomainDouble   = "hr2x"
	DomainDouble90 = "hr2x_90"
)

// Clocks are the pre-generated clock domains of the PHY. Data and strobe
// gearboxes run on the Base and Double domains; the clock pair is generated
// on the 90 degree domains so its edges sit in the middle of each bit.
type Clocks struct {
	Base     sim.ClockDomain
	Base90   sim.ClockDomain
	Double   sim.ClockDomain
	Double90 sim.ClockDomain
}

// NewClocks derives the four phase-locked domains from the base frequency.
func NewClocks(freq sim.Freq) Clocks {
	base := sim.NewClockDomain(DomainBase, freq, 0)
	double := base.Multiplied(DomainDouble, 2)

	return Clocks{
		Base:     base,
		Base90:   base.Shifted(DomainBase90, 90),
		Double:   double,
		Double90: double.Shifted(DomainDouble90, 90),
	}
}

// Validate checks that the domains can drive a 4:1 DDR gearbox.
func (c Clocks) Validate() error {
	if c.Base.Freq <= 0 {
		return fmt.Errorf("clock %q: frequency must be positive", c.Base.Name)
	}

	if !sameFreq(c.Base90.Freq, c.Base.Freq) {
		return fmt.Errorf("clock %q must run at the base frequency",
			c.Base90.Name)
	}

	for _, d := range []sim.ClockDomain{c.Double, c.Double90} {
		if !sameFreq(d.Freq, 2*c.Base.Freq) {
			return fmt.Errorf("clock %q must run at twice the base frequency",
				d.Name)
		}
	}

	return nil
}

func sameFreq(a, b sim.Freq) bool {
	return math.Abs(float64(a-b)) <= 1e-9*float64(b)
}

// BitTime returns the duration of one bit-time on the wire. A DDR lane on
// the double domain carries two bits per double-rate period.
func (c Clocks) BitTime() sim.VTimeInSec {
	return c.Double.Period() / 2
}

// Domains lists the domains in a fixed order.
func (c Clocks) Domains() []sim.ClockDomain {
	return []sim.ClockDomain{c.Base, c.Base90, c.Double, c.Double90}
}

// Edge returns the index of the last core clock edge at or before t.
func (c Clocks) Edge(t sim.VTimeInSec) uint64 {
	return c.Base.Cycle(t)
}

// BitTimes returns when each bit-time of the frame loaded at core edge n
// starts on the DQ and RWDS lanes. Each double-rate period carries two.
func (c Clocks) BitTimes(n uint64) [NumPhases]sim.VTimeInSec {
	bt := c.BitTime()
	first := c.Double.EdgeTime(2 * n)
	second := c.Double.EdgeTime(2*n + 1)

	return [NumPhases]sim.VTimeInSec{first, first + bt, second, second + bt}
}

// ClockEdges returns when the clock lane may toggle during the frame loaded
// at core edge n. The 90 degree double-rate clock puts each toggle in the
// middle of a bit-time.
func (c Clocks) ClockEdges(n uint64) [NumPhases]sim.VTimeInSec {
	bt := c.BitTime()
	first := c.Double90.EdgeTime(2 * n)
	second := c.Double90.EdgeTime(2*n + 1)

	return [NumPhases]sim.VTimeInSec{first, first + bt, second, second + bt}
}

// ClockFrameTime returns when the clock-pair gearbox loads the pattern of
// core edge n. It runs on the 90 degree base clock.
func (c Clocks) ClockFrameTime(n uint64) sim.VTimeInSec {
	return c.Base90.EdgeTime(n)
}
