package phy

import (
	"log"
	"math"

	"github.com/sarchlab/hyperram/sim"
)

// Delay line parameters of the DELAYF primitive.
const (
	TapDelay   sim.VTimeInSec = 25e-12
	MaxTaps                   = 127
	DefaultTap                = 0
)

// DelayControl holds the three calibration lines shared by a group of delay
// lines. They are levels driven from outside the core.
type DelayControl struct {
	// LoadN low reloads the default tap value.
	LoadN bool
	// A rising edge on Move steps the delay by one tap.
	Move bool
	// Direction false increases the delay, true decreases it.
	Direction bool
}

// IdleDelayControl keeps the delay lines where they are.
var IdleDelayControl = DelayControl{LoadN: true}

// A DelayLine delays one lane by a programmable number of 25 ps taps. The
// simulated link carries whole bit-times, so the lane moves by
// floor(delay / bitTime) bit-times.
type DelayLine struct {
	name    string
	bitTime sim.VTimeInSec

	tap      int
	lastMove bool
	atLimit  bool

	history []bool
}

// NewDelayLine creates a delay line for a lane with the given bit-time.
func NewDelayLine(name string, bitTime sim.VTimeInSec) *DelayLine {
	if bitTime <= 0 {
		log.Panicf("delay line %s: bit time must be positive", name)
	}

	d := &DelayLine{
		name:    name,
		bitTime: bitTime,
		tap:     DefaultTap,
	}

	maxShift := d.shiftOf(MaxTaps)
	d.history = make([]bool, maxShift)

	return d
}

// Name returns the name of the delay line.
func (d *DelayLine) Name() string {
	return d.name
}

// Control samples the control lines for one core cycle.
func (d *DelayLine) Control(c DelayControl) {
	rising := c.Move && !d.lastMove
	d.lastMove = c.Move

	if !c.LoadN {
		d.tap = DefaultTap
		d.atLimit = false

		return
	}

	if !rising {
		return
	}

	switch {
	case !c.Direction && d.tap < MaxTaps:
		d.tap++
		d.atLimit = false
	case c.Direction && d.tap > 0:
		d.tap--
		d.atLimit = false
	default:
		d.atLimit = true
	}
}

// Tap returns the current tap count.
func (d *DelayLine) Tap() int {
	return d.tap
}

// AtLimit tells if the last move was refused because the tap was already
// at the end of the range it moved towards.
func (d *DelayLine) AtLimit() bool {
	return d.atLimit
}

// Delay returns the current delay.
func (d *DelayLine) Delay() sim.VTimeInSec {
	return VTimeTaps(d.tap)
}

// Shift returns the delay in whole bit-times.
func (d *DelayLine) Shift() int {
	return d.shiftOf(d.tap)
}

func (d *DelayLine) shiftOf(tap int) int {
	ratio := float64(VTimeTaps(tap) / d.bitTime)

	// A small epsilon keeps exact multiples from rounding down.
	return int(math.Floor(ratio + 1e-9))
}

// Process feeds the bits of one core cycle and returns the delayed bits.
// Bits that would come from before the first call read as low.
func (d *DelayLine) Process(bits [NumPhases]bool) [NumPhases]bool {
	shift := d.Shift()
	n := len(d.history)

	stream := make([]bool, 0, n+NumPhases)
	stream = append(stream, d.history...)
	stream = append(stream, bits[:]...)

	var out [NumPhases]bool
	for i := 0; i < NumPhases; i++ {
		out[i] = stream[n+i-shift]
	}

	copy(d.history, stream[len(stream)-n:])

	return out
}

// VTimeTaps converts a tap count into a delay.
func VTimeTaps(tap int) sim.VTimeInSec {
	return sim.VTimeInSec(tap) * TapDelay
}
