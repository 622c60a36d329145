package phy

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/hyperram/sim"
)

var _ = Describe("DelayLine", func() {
	var d *DelayLine

	pulse := func(dir bool) {
		d.Control(DelayControl{LoadN: true, Move: true, Direction: dir})
		d.Control(DelayControl{LoadN: true, Move: false, Direction: dir})
	}

	BeforeEach(func() {
		d = NewDelayLine("Delay", 50e-12)
	})

	It("should start at the default tap", func() {
		Expect(d.Tap()).To(Equal(DefaultTap))
		Expect(d.Delay()).To(BeNumerically("==", 0))
		Expect(d.Shift()).To(Equal(0))
		Expect(d.AtLimit()).To(BeFalse())
	})

	It("should move one tap per rising edge", func() {
		d.Control(DelayControl{LoadN: true, Move: true})
		d.Control(DelayControl{LoadN: true, Move: true})
		d.Control(DelayControl{LoadN: true, Move: true})

		Expect(d.Tap()).To(Equal(1))
	})

	It("should increase and decrease", func() {
		pulse(false)
		pulse(false)
		pulse(false)
		pulse(true)

		Expect(d.Tap()).To(Equal(2))
		Expect(d.Delay()).To(BeNumerically("~", 50e-12, 1e-18))
		Expect(d.Shift()).To(Equal(1))
	})

	It("should saturate at both ends", func() {
		pulse(true)
		Expect(d.Tap()).To(Equal(0))
		Expect(d.AtLimit()).To(BeTrue())

		for i := 0; i < MaxTaps+10; i++ {
			pulse(false)
		}

		Expect(d.Tap()).To(Equal(MaxTaps))
		Expect(d.AtLimit()).To(BeTrue())
	})

	It("should flag the limit only when a move is refused", func() {
		pulse(false)
		pulse(true)
		Expect(d.Tap()).To(Equal(0))
		Expect(d.AtLimit()).To(BeFalse())

		for i := 0; i < MaxTaps; i++ {
			pulse(false)
		}

		Expect(d.Tap()).To(Equal(MaxTaps))
		Expect(d.AtLimit()).To(BeFalse())

		pulse(false)
		Expect(d.AtLimit()).To(BeTrue())

		pulse(true)
		Expect(d.Tap()).To(Equal(MaxTaps - 1))
		Expect(d.AtLimit()).To(BeFalse())
	})

	It("should reload the default when LoadN is low", func() {
		pulse(false)
		pulse(false)
		d.Control(DelayControl{LoadN: false})

		Expect(d.Tap()).To(Equal(DefaultTap))
	})

	It("should not move while LoadN is low", func() {
		d.Control(DelayControl{LoadN: false, Move: true})
		Expect(d.Tap()).To(Equal(DefaultTap))
	})

	It("should pass bits through without delay", func() {
		bits := [NumPhases]bool{true, false, true, true}
		Expect(d.Process(bits)).To(Equal(bits))
	})

	It("should shift the bit stream by whole bit-times", func() {
		pulse(false)
		pulse(false)
		pulse(false)
		pulse(false)
		Expect(d.Shift()).To(Equal(2))

		out1 := d.Process([NumPhases]bool{true, false, false, true})
		out2 := d.Process([NumPhases]bool{false, true, true, false})

		Expect(out1).To(Equal([NumPhases]bool{false, false, true, false}))
		Expect(out2).To(Equal([NumPhases]bool{false, true, false, true}))
	})

	It("should shift by one bit-time at 100 taps for a 2.5 ns bit", func() {
		d = NewDelayLine("Delay", sim.VTimeInSec(2.5e-9))
		for i := 0; i < 99; i++ {
			pulse(false)
		}
		Expect(d.Shift()).To(Equal(0))

		pulse(false)
		Expect(d.Shift()).To(Equal(1))
	})
})
