package host

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/hyperram/hyperram/bus"
)

var _ = Describe("Agent", func() {
	var agent *Agent

	BeforeEach(func() {
		agent = MakeBuilder().WithUpstreamTimeout(4).Build("Host")
	})

	It("should idle without transactions", func() {
		Expect(agent.Drive()).To(Equal(bus.IdleRequest))
		agent.Observe(bus.Response{})
		Expect(agent.Pending()).To(BeZero())
	})

	It("should hold a write until it is acknowledged", func() {
		t := agent.Write(0x12, 0xCAFEBABE, 0x3)

		req := agent.Drive()
		Expect(req).To(Equal(bus.Request{
			Cyc: true, Stb: true, WE: true,
			Address: 0x12, Data: 0xCAFEBABE, Sel: 0x3, CTI: bus.Classic,
		}))
		agent.Observe(bus.Response{})

		Expect(agent.Drive()).To(Equal(req))
		agent.Observe(bus.Response{Ack: true})

		Expect(t.Done).To(BeTrue())
		Expect(t.AckCycles).To(Equal([]uint64{1}))
		Expect(t.CompleteCycle).To(Equal(uint64(1)))
		Expect(agent.Drive()).To(Equal(bus.IdleRequest))
		Expect(agent.Completed()).To(ConsistOf(t))
	})

	It("should mark the burst type of every beat", func() {
		agent.BurstWrite(0x100, []uint32{1, 2, 3})

		var ctis []bus.BurstType
		var addrs []uint32

		for i := 0; i < 3; i++ {
			req := agent.Drive()
			ctis = append(ctis, req.CTI)
			addrs = append(addrs, req.Address)
			agent.Observe(bus.Response{Ack: true})
		}

		Expect(ctis).To(Equal([]bus.BurstType{
			bus.Incrementing, bus.Incrementing, bus.EndOfBurst,
		}))
		Expect(addrs).To(Equal([]uint32{0x100, 0x101, 0x102}))
	})

	It("should collect read data", func() {
		t := agent.BurstRead(0x1FFFFF, 2)

		req := agent.Drive()
		Expect(req.WE).To(BeFalse())
		Expect(req.Sel).To(Equal(uint8(0xF)))
		agent.Observe(bus.Response{Ack: true, Data: 7})

		req = agent.Drive()
		Expect(req.Address).To(Equal(uint32(0)))
		agent.Observe(bus.Response{Ack: true, Data: 8})

		Expect(t.Data).To(Equal([]uint32{7, 8}))
	})

	It("should give up after the upstream timeout", func() {
		t := agent.Read(0x5)
		next := agent.Read(0x6)

		for i := 0; i < 4; i++ {
			Expect(agent.Drive().Active()).To(BeTrue())
			agent.Observe(bus.Response{})
		}

		Expect(t.TimedOut).To(BeTrue())
		Expect(t.Done).To(BeTrue())

		Expect(agent.Drive()).To(Equal(bus.IdleRequest))
		agent.Observe(bus.Response{})

		req := agent.Drive()
		Expect(req.Address).To(Equal(uint32(0x6)))
		Expect(next.IssueCycle).To(Equal(uint64(5)))
	})

	It("should count pending transactions", func() {
		agent.Read(0x1)
		agent.Read(0x2)
		Expect(agent.Pending()).To(Equal(2))

		agent.Drive()
		Expect(agent.Pending()).To(Equal(2))
		agent.Observe(bus.Response{Ack: true})
		Expect(agent.Pending()).To(Equal(1))
	})

	It("should reject empty bursts", func() {
		Expect(func() { agent.BurstRead(0, 0) }).To(Panic())
		Expect(func() { agent.BurstWrite(0, nil) }).To(Panic())
	})

	It("should describe transactions", func() {
		Expect(agent.BurstRead(0x20, 4).String()).
			To(Equal("read 4 word(s) @0x000020"))
	})
})

var _ = Describe("Builder", func() {
	It("should reject a zero timeout", func() {
		Expect(func() {
			MakeBuilder().WithUpstreamTimeout(0).Build("Host")
		}).To(Panic())
	})
})
