// Package phy models the serialization layer of the HyperRAM controller.
//
// The PHY takes one wide word per core cycle from the sequencer and puts it
// on the DDR link as NumPhases bit-times per lane. Non-DDR controls pass
// through synchronizers of the same depth as the gearbox pipeline, so data,
// enables and chip select stay aligned on the wire. Inputs pass through
// per-lane delay lines and are rebuilt into wide words.
package phy

import "fmt"

// Tristate is the core side of a bidirectional bus.
type Tristate[T ~uint8 | ~uint32] struct {
	O  T
	OE bool
}

// CoreOutputs are the signals the sequencer drives into the PHY.
type CoreOutputs struct {
	CSn       bool
	ClkEnable bool
	DQ        Tristate[uint32]
	RWDS      Tristate[uint8]
}

// IdleOutputs deselects the device and releases every lane.
var IdleOutputs = CoreOutputs{CSn: true}

// CoreInputs are the words the PHY hands to the sequencer. The most
// significant byte of DQ and bit 3 of RWDS were received first.
type CoreInputs struct {
	DQ   uint32
	RWDS uint8
}

func (in CoreInputs) String() string {
	return fmt.Sprintf("dq=%08x rwds=%04b", in.DQ, in.RWDS)
}

// PHY is the serialization layer.
type PHY struct {
	name     string
	clocks   Clocks
	link     *Link
	hasReset bool

	csN    *Synchronizer[bool]
	dqOE   *Synchronizer[bool]
	rwdsOE *Synchronizer[bool]
	clkEn  *Synchronizer[bool]

	dqOut   *Serializer
	rwdsOut *Serializer
	dqIn    *Deserializer
	rwdsIn  *Deserializer

	dqDelay   [DQLanes]*DelayLine
	rwdsDelay *DelayLine
	clkPDelay *DelayLine
	clkNDelay *DelayLine

	ioCtrl  DelayControl
	clkCtrl DelayControl

	numFrames     uint64
	captured      bool
	capturedFrame uint64
	lastIn        CoreInputs
	lastFrame     Frame
}

// Name returns the name of the PHY.
func (p *PHY) Name() string {
	return p.name
}

// Clocks returns the clock domains of the PHY.
func (p *PHY) Clocks() Clocks {
	return p.clocks
}

// Link returns the physical link driven by the PHY.
func (p *PHY) Link() *Link {
	return p.link
}

// SetIODelay sets the control lines of the data and strobe input delay
// lines. They are sampled on the next core cycle.
func (p *PHY) SetIODelay(c DelayControl) {
	p.ioCtrl = c
}

// SetClockDelay sets the control lines of the clock pair delay lines. They
// are sampled on the next core cycle.
func (p *PHY) SetClockDelay(c DelayControl) {
	p.clkCtrl = c
}

// IODelay returns the delay line of the strobe input. All the lines of the
// input group share their controls, so they hold the same tap.
func (p *PHY) IODelay() *DelayLine {
	return p.rwdsDelay
}

// ClockDelay returns the delay line of the positive clock lane.
func (p *PHY) ClockDelay() *DelayLine {
	return p.clkPDelay
}

// Capture returns the inputs received during the last frame on the link.
// Calling it again before a new frame returns the same value.
func (p *PHY) Capture() CoreInputs {
	f, ok := p.link.Frame()
	if !ok {
		return CoreInputs{}
	}

	if p.captured && f.Cycle == p.capturedFrame {
		return p.lastIn
	}

	pads := p.link.Resolve()

	var dq [NumPhases]uint8
	for lane := 0; lane < DQLanes; lane++ {
		var bits [NumPhases]bool
		for ph := range bits {
			bits[ph] = pads.DQ[ph]>>lane&1 == 1
		}

		bits = p.dqDelay[lane].Process(bits)
		for ph, b := range bits {
			if b {
				dq[ph] |= 1 << lane
			}
		}
	}

	rwds := boolsToSamples(p.rwdsDelay.Process(pads.RWDS))

	p.lastIn = CoreInputs{
		DQ:   p.dqIn.Deserialize(dq),
		RWDS: uint8(p.rwdsIn.Deserialize(rwds)),
	}
	p.captured = true
	p.capturedFrame = f.Cycle

	return p.lastIn
}

// Drive clocks the output side once with the sequencer outputs of this
// cycle and puts the resulting frame on the link.
func (p *PHY) Drive(out CoreOutputs) Frame {
	p.sampleDelayControls()

	f := Frame{
		Cycle:    p.numFrames,
		CSn:      p.csN.Sync(out.CSn),
		DQOE:     p.dqOE.Sync(out.DQ.OE),
		RWDSOE:   p.rwdsOE.Sync(out.RWDS.OE),
		HasReset: p.hasReset,
		RstN:     p.hasReset,
		DQ:       p.dqOut.Serialize(out.DQ.O),
		RWDS:     samplesToBools(p.rwdsOut.Serialize(uint32(out.RWDS.O))),
	}

	en := p.clkEn.Sync(out.ClkEnable && !out.CSn)
	clkP, clkN := ClockPattern(en)
	f.ClkP = p.clkPDelay.Process(clkP)
	f.ClkN = p.clkNDelay.Process(clkN)

	p.numFrames++
	p.lastFrame = f
	p.link.Emit(f)

	return f
}

// LastFrame returns the frame driven by the last call to Drive.
func (p *PHY) LastFrame() Frame {
	return p.lastFrame
}

// Settled tells if nothing the sequencer drove is still in flight.
func (p *PHY) Settled() bool {
	return p.csN.Settled() &&
		p.dqOE.Settled() &&
		p.rwdsOE.Settled() &&
		p.clkEn.Settled() &&
		p.dqOut.Settled() &&
		p.rwdsOut.Settled()
}

func (p *PHY) sampleDelayControls() {
	for _, d := range p.dqDelay {
		d.Control(p.ioCtrl)
	}

	p.rwdsDelay.Control(p.ioCtrl)
	p.clkPDelay.Control(p.clkCtrl)
	p.clkNDelay.Control(p.clkCtrl)
}

// ClockPattern returns the ODDR samples of the clock pair for one core
// cycle. The positive lane idles low and the negative lane idles high.
func ClockPattern(en bool) (clkP, clkN [NumPhases]bool) {
	clkP = [NumPhases]bool{false, en, false, en}
	clkN = [NumPhases]bool{true, !en, true, !en}

	return clkP, clkN
}

func boolsToSamples(bits [NumPhases]bool) [NumPhases]uint8 {
	var s [NumPhases]uint8
	for i, b := range bits {
		if b {
			s[i] = 1
		}
	}

	return s
}

func samplesToBools(s [NumPhases]uint8) [NumPhases]bool {
	var bits [NumPhases]bool
	for i, v := range s {
		bits[i] = v&1 == 1
	}

	return bits
}
