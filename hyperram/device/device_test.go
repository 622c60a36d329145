package device

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/hyperram/hyperram/phy"
	"github.com/sarchlab/hyperram/hyperram/protocol"
	"github.com/sarchlab/hyperram/memory"
	"github.com/sarchlab/hyperram/sim"
)

// frames builds link frames that carry the given bytes one per bit-time
// with the clock running and chip select low.
type frames struct {
	link  *phy.Link
	dev   *Comp
	cycle uint64
}

func (f *frames) send(dq [phy.NumPhases]uint8, oe bool,
	rwds [phy.NumPhases]bool, clock bool,
) {
	clkP, clkN := phy.ClockPattern(clock)

	f.link.Emit(phy.Frame{
		Cycle:  f.cycle,
		ClkP:   clkP,
		ClkN:   clkN,
		DQ:     dq,
		DQOE:   oe,
		RWDS:   rwds,
		RWDSOE: oe,
	})
	f.dev.Tick()
	f.cycle++
}

func (f *frames) command(cmd protocol.CommandWord) {
	b := cmd.Bytes()

	f.send([4]uint8{b[0], b[1], b[2], b[3]}, true, [4]bool{}, true)
	f.send([4]uint8{b[4], b[5]}, true, [4]bool{}, true)
}

func (f *frames) idle() {
	f.link.Emit(phy.Frame{Cycle: f.cycle, CSn: true, ClkN: [4]bool{true, true, true, true}})
	f.dev.Tick()
	f.cycle++
}

var _ = Describe("Device", func() {
	var (
		link    *phy.Link
		storage *memory.Storage
		dev     *Comp
		f       *frames
	)

	BeforeEach(func() {
		link = phy.NewLink()
		storage = memory.NewStorage(64)
		dev = MakeBuilder().
			WithEngine(sim.NewSerialEngine()).
			WithLink(link).
			WithLatency(1).
			WithCapacity(64).
			WithStorage(storage).
			Build("Device")
		f = &frames{link: link, dev: dev}
	})

	It("should decode the command word", func() {
		cmd := protocol.EncodeCommand(true, 0x1)

		f.command(cmd)
		f.send([4]uint8{}, true, [4]bool{true, true, true, true}, false)

		Expect(dev.NumCommands()).To(Equal(uint64(1)))
		Expect(dev.LastCommand()).To(Equal(cmd))
	})

	It("should store unmasked bytes after the latency", func() {
		f.command(protocol.EncodeCommand(true, 0x1))
		f.send([4]uint8{0xDE, 0xAD, 0xBE, 0xEF}, true,
			[4]bool{false, true, false, false}, true)
		f.send([4]uint8{}, true, [4]bool{true, true, true, true}, false)
		f.idle()

		data, err := storage.Read(4, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal([]byte{0xDE, 0x00, 0xBE, 0xEF}))
		Expect(dev.BytesWritten()).To(Equal(uint64(3)))
	})

	It("should wrap addresses at the capacity", func() {
		f.command(protocol.EncodeCommand(true, 0x4))
		f.send([4]uint8{1, 2, 3, 4}, true, [4]bool{}, true)
		f.send([4]uint8{}, true, [4]bool{true, true, true, true}, false)

		data, err := storage.Read(16, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal([]byte{1, 2, 3, 4}))

		f.idle()
		f.command(protocol.EncodeCommand(true, 0x10))
		f.send([4]uint8{9, 9, 9, 9}, true, [4]bool{}, true)
		f.send([4]uint8{}, true, [4]bool{true, true, true, true}, false)

		data, err = storage.Read(0, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal([]byte{9, 9, 9, 9}))
	})

	It("should ignore register writes", func() {
		cmd := protocol.EncodeCommand(true, 0x1) | 1<<protocol.BitAddressSpace

		f.command(cmd)
		f.send([4]uint8{1, 2, 3, 4}, true, [4]bool{}, true)
		f.send([4]uint8{}, true, [4]bool{true, true, true, true}, false)

		Expect(dev.BytesWritten()).To(BeZero())
	})

	It("should stream read data after the clock-to-out delay", func() {
		Expect(storage.Write(8, []byte{0xCA, 0xFE, 0xBA, 0xBE})).To(Succeed())

		f.command(protocol.EncodeCommand(false, 0x2))
		f.send([4]uint8{}, false, [4]bool{}, true)

		d := link.DeviceDrive()
		Expect(d.DQOE).To(Equal([4]bool{false, false, true, true}))
		Expect(d.DQ[2]).To(Equal(uint8(0xCA)))
		Expect(d.DQ[3]).To(Equal(uint8(0xFE)))
		Expect(d.RWDS[2]).To(BeTrue())
		Expect(d.RWDS[3]).To(BeFalse())

		f.send([4]uint8{}, false, [4]bool{}, true)

		d = link.DeviceDrive()
		Expect(d.DQ[0]).To(Equal(uint8(0xBA)))
		Expect(d.DQ[1]).To(Equal(uint8(0xBE)))
		Expect(d.RWDS[0]).To(BeTrue())
		Expect(dev.BytesRead()).To(BeNumerically(">=", 4))
	})

	It("should not drive once deselected", func() {
		f.command(protocol.EncodeCommand(false, 0x2))
		f.send([4]uint8{}, false, [4]bool{}, true)
		f.idle()

		Expect(link.DeviceDrive()).To(Equal(phy.Drive{}))
	})

	It("should restart on reset", func() {
		f.send([4]uint8{0x20, 0x00}, true, [4]bool{}, true)

		f.link.Emit(phy.Frame{Cycle: f.cycle, HasReset: true, RstN: false})
		dev.Tick()
		f.cycle++

		cmd := protocol.EncodeCommand(true, 0x3)
		f.command(cmd)
		f.send([4]uint8{}, true, [4]bool{true, true, true, true}, false)

		Expect(dev.LastCommand()).To(Equal(cmd))
	})
})

var _ = Describe("Builder", func() {
	It("should reject a zero latency", func() {
		Expect(func() {
			MakeBuilder().
				WithEngine(sim.NewSerialEngine()).
				WithLink(phy.NewLink()).
				WithLatency(0).
				Build("Device")
		}).To(Panic())
	})

	It("should reject a zero clock-to-out", func() {
		Expect(func() {
			MakeBuilder().
				WithEngine(sim.NewSerialEngine()).
				WithLink(phy.NewLink()).
				WithClockToOut(0).
				Build("Device")
		}).To(Panic())
	})

	It("should reject a missing link", func() {
		Expect(func() {
			MakeBuilder().WithEngine(sim.NewSerialEngine()).Build("Device")
		}).To(Panic())
	})
})
