// Package device provides a behavioural HyperRAM device that sits on the
// other end of the physical link.
//
// The device follows chip select and counts transitions of the positive
// clock lane. A bit-time is sampled when the clock changes right after it.
// The first six samples are the command word. Data starts 2*latency edges
// later: writes store every byte whose strobe is low, reads stream bytes
// from memory clockToOut bit-times after each edge, with the strobe high on
// the first byte of every 16-bit word.
package device

import (
	"log"

	"github.com/sarchlab/hyperram/hyperram/phy"
	"github.com/sarchlab/hyperram/hyperram/protocol"
	"github.com/sarchlab/hyperram/memory"
	"github.com/sarchlab/hyperram/sim"
)

type sample struct {
	bit  uint64
	csN  bool
	clk  bool
	dq   uint8
	rwds bool
}

type output struct {
	dq   uint8
	rwds bool
}

// Comp is the device model. It ticks as a secondary component so it always
// sees the frame the controller drove in the same cycle.
type Comp struct {
	*sim.TickingComponent

	link       *phy.Link
	storage    memory.Accessor
	capacity   uint64
	latency    int
	clockToOut int
	strobe     bool

	seenFrame bool
	lastFrame uint64

	havePrev bool
	prev     sample

	edges   int
	ca      [protocol.NumCommandBytes]byte
	decoded bool
	cmd     protocol.CommandWord
	pending map[uint64]output

	numCommands  uint64
	bytesWritten uint64
	bytesRead    uint64
}

// NotifyRecv wakes the device in the current cycle.
func (c *Comp) NotifyRecv() {
	c.TickNow()
}

// Tick processes the frame currently on the link.
func (c *Comp) Tick() bool {
	f, ok := c.link.Frame()
	if !ok {
		return false
	}

	if c.seenFrame && f.Cycle == c.lastFrame {
		return false
	}

	c.seenFrame = true
	c.lastFrame = f.Cycle

	if f.HasReset && !f.RstN {
		c.deselect()
		c.havePrev = false

		return false
	}

	for ph := 0; ph < phy.NumPhases; ph++ {
		s := sample{
			bit: f.BitIndex(ph),
			csN: f.CSn,
			clk: f.ClkP[ph],
		}

		if f.DQOE {
			s.dq = f.DQ[ph]
		}

		if f.RWDSOE {
			s.rwds = f.RWDS[ph]
		}

		c.process(s)
	}

	c.drive(f)

	return false
}

func (c *Comp) process(s sample) {
	if s.csN {
		c.deselect()
	} else if c.havePrev && !c.prev.csN && s.clk != c.prev.clk {
		c.onEdge(c.prev)
	}

	c.prev = s
	c.havePrev = true
}

func (c *Comp) deselect() {
	c.edges = 0
	c.decoded = false

	if len(c.pending) > 0 {
		clear(c.pending)
	}
}

func (c *Comp) dataStart() int {
	return protocol.NumCommandBytes + 2*c.latency
}

func (c *Comp) onEdge(s sample) {
	j := c.edges
	c.edges++

	if j < protocol.NumCommandBytes {
		c.ca[j] = s.dq
		if j == protocol.NumCommandBytes-1 {
			c.cmd = protocol.DecodeCommand(c.ca)
			c.decoded = true
			c.numCommands++
		}

		return
	}

	if !c.decoded || j < c.dataStart() {
		return
	}

	b := uint64(j - c.dataStart())
	if c.cmd.IsRead() {
		c.emit(b, s.bit)
	} else {
		c.write(b, s)
	}
}

func (c *Comp) address(b uint64) uint64 {
	return (c.cmd.ByteAddress() + b) % c.capacity
}

func (c *Comp) write(b uint64, s sample) {
	if s.rwds || c.cmd.IsRegisterSpace() {
		return
	}

	err := c.storage.Write(c.address(b), []byte{s.dq})
	if err != nil {
		log.Panic(err)
	}

	c.bytesWritten++
}

func (c *Comp) emit(b uint64, edgeBit uint64) {
	var data byte

	if !c.cmd.IsRegisterSpace() {
		buf, err := c.storage.Read(c.address(b), 1)
		if err != nil {
			log.Panic(err)
		}

		data = buf[0]
	}

	c.pending[edgeBit+uint64(c.clockToOut)] = output{
		dq:   data,
		rwds: c.strobe && b%2 == 0,
	}
	c.bytesRead++
}

func (c *Comp) drive(f phy.Frame) {
	var d phy.Drive

	first := f.BitIndex(0)
	for bit := range c.pending {
		if bit < first {
			delete(c.pending, bit)
		}
	}

	for ph := 0; ph < phy.NumPhases; ph++ {
		o, ok := c.pending[f.BitIndex(ph)]
		if !ok {
			continue
		}

		delete(c.pending, f.BitIndex(ph))

		if f.CSn {
			continue
		}

		d.DQ[ph] = o.dq
		d.DQOE[ph] = true
		d.RWDS[ph] = o.rwds
		d.RWDSOE[ph] = true
	}

	c.link.DriveFromDevice(d)
}

// Storage returns the memory content of the device.
func (c *Comp) Storage() memory.Accessor {
	return c.storage
}

// LastCommand returns the last command word received.
func (c *Comp) LastCommand() protocol.CommandWord {
	return c.cmd
}

// NumCommands returns how many command words have been received.
func (c *Comp) NumCommands() uint64 {
	return c.numCommands
}

// BytesWritten returns how many bytes were stored.
func (c *Comp) BytesWritten() uint64 {
	return c.bytesWritten
}

// BytesRead returns how many bytes were put on the link.
func (c *Comp) BytesRead() uint64 {
	return c.bytesRead
}

// Latency returns the initial latency in clocks.
func (c *Comp) Latency() int {
	return c.latency
}
