package sim

import (
	"log"
	"math"
)

// Freq is a clock frequency in Hz.
type Freq float64

// Frequency units.
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
	GHz Freq = 1e9
)

// Period returns the time between two rising edges.
func (f Freq) Period() VTimeInSec {
	if f == 0 {
		log.Panic("frequency cannot be 0")
	}

	return VTimeInSec(1.0 / f)
}

// Cycle returns the index of the edge closest to t.
func (f Freq) Cycle(t VTimeInSec) uint64 {
	return uint64(math.Round(float64(t) * float64(f)))
}

// ThisTick returns the first edge at or after now.
func (f Freq) ThisTick(now VTimeInSec) VTimeInSec {
	return f.edge(math.Ceil(f.tenths(now)))
}

// NextTick returns the first edge strictly after now.
func (f Freq) NextTick(now VTimeInSec) VTimeInSec {
	return f.edge(math.Floor(f.tenths(now)) + 1)
}

// tenths returns now in cycles, rounded to a tenth of a cycle so that
// floating point noise does not move a time across an edge.
func (f Freq) tenths(now VTimeInSec) float64 {
	if math.IsNaN(float64(now)) {
		log.Panic("invalid time")
	}

	return math.Round(float64(now)*10*float64(f)) / 10
}

func (f Freq) edge(n float64) VTimeInSec {
	return VTimeInSec(n / float64(f))
}
