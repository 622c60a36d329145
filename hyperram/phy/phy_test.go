package phy

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/hyperram/sim"
)

var _ = Describe("PHY", func() {
	var (
		p    *PHY
		link *Link
	)

	active := CoreOutputs{
		ClkEnable: true,
		DQ:        Tristate[uint32]{O: 0xDEADBEEF, OE: true},
		RWDS:      Tristate[uint8]{O: 0b0101, OE: true},
	}

	BeforeEach(func() {
		link = NewLink()
		p = MakeBuilder().
			WithLink(link).
			WithResetLine(true).
			Build("PHY")
	})

	It("should start idle", func() {
		Expect(p.Settled()).To(BeTrue())
		Expect(p.Capture()).To(Equal(CoreInputs{}))

		f := p.Drive(IdleOutputs)
		Expect(f.CSn).To(BeTrue())
		Expect(f.ClkP).To(Equal([NumPhases]bool{}))
		Expect(f.HasReset).To(BeTrue())
		Expect(f.RstN).To(BeTrue())
	})

	It("should put core outputs on the link three cycles later", func() {
		frames := []Frame{p.Drive(active)}
		for i := 0; i < 3; i++ {
			frames = append(frames, p.Drive(IdleOutputs))
		}

		for _, f := range frames[:3] {
			Expect(f.CSn).To(BeTrue())
			Expect(f.DQOE).To(BeFalse())
		}

		f := frames[3]
		Expect(f.Cycle).To(Equal(uint64(3)))
		Expect(f.CSn).To(BeFalse())
		Expect(f.DQOE).To(BeTrue())
		Expect(f.DQ).To(Equal([NumPhases]uint8{0xDE, 0xAD, 0xBE, 0xEF}))
		Expect(f.RWDSOE).To(BeTrue())
		Expect(f.RWDS).To(Equal([NumPhases]bool{false, true, false, true}))
		Expect(f.ClkP).To(Equal([NumPhases]bool{false, true, false, true}))
		Expect(f.ClkN).To(Equal([NumPhases]bool{true, false, true, false}))

		Expect(p.Settled()).To(BeTrue())
		Expect(p.LastFrame()).To(Equal(f))
	})

	It("should gate the clock with chip select", func() {
		out := active
		out.CSn = true

		p.Drive(out)
		p.Drive(IdleOutputs)
		p.Drive(IdleOutputs)
		f := p.Drive(IdleOutputs)

		Expect(f.ClkP).To(Equal([NumPhases]bool{}))
	})

	It("should capture what the device drives", func() {
		p.Drive(IdleOutputs)
		link.DriveFromDevice(Drive{
			DQ:     [NumPhases]uint8{0, 0, 0x12, 0x34},
			DQOE:   [NumPhases]bool{false, false, true, true},
			RWDS:   [NumPhases]bool{false, false, true, false},
			RWDSOE: [NumPhases]bool{false, false, true, true},
		})

		in := p.Capture()
		Expect(in.DQ).To(Equal(uint32(0x00001234)))
		Expect(in.RWDS).To(Equal(uint8(0b0010)))
		Expect(p.Capture()).To(Equal(in))
	})

	It("should read back the controller drive while it owns the lanes", func() {
		p.Drive(active)
		p.Drive(IdleOutputs)
		p.Drive(IdleOutputs)
		p.Drive(IdleOutputs)

		Expect(p.Capture().DQ).To(Equal(uint32(0xDEADBEEF)))
	})

	Context("with input delay", func() {
		BeforeEach(func() {
			p = MakeBuilder().
				WithLink(link).
				WithFreq(400 * sim.MHz).
				Build("PHY")
		})

		It("should move the input stream by whole bit-times", func() {
			for i := 0; i < 25; i++ {
				p.SetIODelay(DelayControl{LoadN: true, Move: true})
				p.Drive(IdleOutputs)
				p.SetIODelay(DelayControl{LoadN: true})
				p.Drive(IdleOutputs)
			}

			Expect(p.IODelay().Tap()).To(Equal(25))
			Expect(p.IODelay().Shift()).To(Equal(1))
			Expect(p.ClockDelay().Tap()).To(Equal(0))

			link.DriveFromDevice(Drive{
				DQ:     [NumPhases]uint8{0xAA, 0xBB, 0xCC, 0xDD},
				DQOE:   [NumPhases]bool{true, true, true, true},
				RWDS:   [NumPhases]bool{true, false, false, false},
				RWDSOE: [NumPhases]bool{true, true, true, true},
			})
			in := p.Capture()
			Expect(in.DQ).To(Equal(uint32(0x00AABBCC)))
			Expect(in.RWDS).To(Equal(uint8(0b0100)))

			p.Drive(IdleOutputs)
			in = p.Capture()
			Expect(in.DQ).To(Equal(uint32(0xDD000000)))
		})
	})

	It("should reject mismatched clocks", func() {
		c := NewClocks(100 * sim.MHz)
		c.Double = c.Base

		Expect(func() { MakeBuilder().WithClocks(c).Build("PHY") }).To(Panic())
	})

	It("should require a synchronizer stage", func() {
		Expect(func() { MakeBuilder().WithSyncStages(0).Build("PHY") }).
			To(Panic())
	})
})
