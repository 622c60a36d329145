package sim

import (
	"log"
	"math"
)

// A ClockDomain is a clock with a frequency and a phase offset. Phase is
// expressed in degrees of the domain's own period, so a 90 degree domain
// rises a quarter period after the reference edge at time 0.
//
// Domains derived from the same reference with Multiplied and Shifted are
// phase locked: their edges keep a fixed relation for the whole simulation.
type ClockDomain struct {
	Name  string
	Freq  Freq
	Phase float64
}

// NewClockDomain creates a clock domain. It panics on a non-positive
// frequency or a phase outside [0, 360).
func NewClockDomain(name string, freq Freq, phase float64) ClockDomain {
	if name == "" {
		log.Panic("clock domain must have a name")
	}

	if freq <= 0 {
		log.Panicf("clock domain %s: frequency must be positive", name)
	}

	if phase < 0 || phase >= 360 {
		log.Panicf("clock domain %s: phase %.2f out of range", name, phase)
	}

	return ClockDomain{Name: name, Freq: freq, Phase: phase}
}

// Period returns the time between two rising edges.
func (d ClockDomain) Period() VTimeInSec {
	return d.Freq.Period()
}

// Offset returns the time of the first rising edge.
func (d ClockDomain) Offset() VTimeInSec {
	return VTimeInSec(d.Phase/360) * d.Period()
}

// EdgeTime returns the time of the n-th rising edge.
func (d ClockDomain) EdgeTime(n uint64) VTimeInSec {
	return VTimeInSec(n)*d.Period() + d.Offset()
}

// Cycle returns the index of the last rising edge at or before t. Times
// before the first edge belong to cycle 0.
func (d ClockDomain) Cycle(t VTimeInSec) uint64 {
	since := float64(t - d.Offset())
	if since <= 0 {
		return 0
	}

	// Rounding at 1/10 of a cycle absorbs float error the same way
	// Freq.ThisTick does.
	count := math.Floor(math.Round(since*10*float64(d.Freq)) / 10)

	return uint64(count)
}

// Shifted returns a domain with the same frequency and an extra phase shift.
func (d ClockDomain) Shifted(name string, degrees float64) ClockDomain {
	phase := math.Mod(d.Phase+degrees, 360)
	if phase < 0 {
		phase += 360
	}

	return NewClockDomain(name, d.Freq, phase)
}

// Multiplied returns a domain running n times faster whose edges coincide
// with this domain's edges.
func (d ClockDomain) Multiplied(name string, n int) ClockDomain {
	if n <= 0 {
		log.Panicf("clock domain %s: multiplier must be positive", name)
	}

	return NewClockDomain(name, d.Freq*Freq(n), math.Mod(d.Phase*float64(n), 360))
}

// IsPhaseLockedTo tells if the domain runs at an integer multiple of the
// reference frequency.
func (d ClockDomain) IsPhaseLockedTo(ref ClockDomain) bool {
	ratio := float64(d.Freq / ref.Freq)

	return ratio >= 1 && math.Abs(ratio-math.Round(ratio)) < 1e-9
}
