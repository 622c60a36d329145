// Package host provides a bus master that replays queued transactions on
// the host bus of the HyperRAM core.
package host

import (
	"fmt"

	"github.com/sarchlab/hyperram/hyperram/bus"
	"github.com/sarchlab/hyperram/sim"
)

// DefaultUpstreamTimeout is the number of cycles the agent waits for an
// acknowledge before it drops the cycle.
const DefaultUpstreamTimeout = 128

// A Transaction is a read or a write of one or more consecutive words.
type Transaction struct {
	ID      string
	Write   bool
	Address uint32
	Sel     uint8

	// Data holds the words to write, or the words read so far.
	Data []uint32
	// Length is the number of words in the transaction.
	Length int

	Acked         int
	IssueCycle    uint64
	CompleteCycle uint64
	AckCycles     []uint64
	TimedOut      bool
	Done          bool
}

func (t *Transaction) String() string {
	dir := "read"
	if t.Write {
		dir = "write"
	}

	return fmt.Sprintf("%s %d word(s) @0x%06x", dir, t.Length, t.Address)
}

// Agent is the bus master. It keeps Cyc and Stb high until every word of
// the current transaction is acknowledged or the upstream timeout expires.
type Agent struct {
	name            string
	upstreamTimeout int
	ids             sim.IDGenerator

	queue     []*Transaction
	cur       *Transaction
	waited    int
	cooldown  int
	cycle     uint64
	completed []*Transaction
}

// Name returns the name of the agent.
func (a *Agent) Name() string {
	return a.name
}

// Read queues a single-word read.
func (a *Agent) Read(address uint32) *Transaction {
	return a.BurstRead(address, 1)
}

// Write queues a single-word write with a byte-select mask.
func (a *Agent) Write(address uint32, data uint32, sel uint8) *Transaction {
	t := a.newTransaction(true, address, 1)
	t.Data = []uint32{data}
	t.Sel = sel & 0xF

	return a.enqueue(t)
}

// BurstRead queues an incrementing burst read of n words.
func (a *Agent) BurstRead(address uint32, n int) *Transaction {
	if n <= 0 {
		panic("burst length must be positive")
	}

	t := a.newTransaction(false, address, n)
	t.Sel = 0xF

	return a.enqueue(t)
}

// BurstWrite queues an incrementing burst write of all the words in data.
func (a *Agent) BurstWrite(address uint32, data []uint32) *Transaction {
	if len(data) == 0 {
		panic("burst length must be positive")
	}

	t := a.newTransaction(true, address, len(data))
	t.Data = append([]uint32(nil), data...)
	t.Sel = 0xF

	return a.enqueue(t)
}

func (a *Agent) newTransaction(write bool, address uint32, n int) *Transaction {
	return &Transaction{
		ID:      a.ids.Generate(),
		Write:   write,
		Address: address & bus.AddressMask,
		Length:  n,
	}
}

func (a *Agent) enqueue(t *Transaction) *Transaction {
	a.queue = append(a.queue, t)
	return t
}

// Pending returns the number of transactions not completed yet.
func (a *Agent) Pending() int {
	n := len(a.queue)
	if a.cur != nil {
		n++
	}

	return n
}

// Completed returns the finished transactions in completion order.
func (a *Agent) Completed() []*Transaction {
	return a.completed
}

// Drive returns the request of this cycle.
func (a *Agent) Drive() bus.Request {
	if a.cooldown > 0 {
		return bus.IdleRequest
	}

	if a.cur == nil {
		if len(a.queue) == 0 {
			return bus.IdleRequest
		}

		a.cur = a.queue[0]
		a.queue = a.queue[1:]
		a.cur.IssueCycle = a.cycle
		a.waited = 0
	}

	t := a.cur
	beat := t.Acked

	req := bus.Request{
		Cyc:     true,
		Stb:     true,
		WE:      t.Write,
		Address: (t.Address + uint32(beat)) & bus.AddressMask,
		Sel:     t.Sel,
		CTI:     burstType(beat, t.Length),
	}

	if t.Write {
		req.Data = t.Data[beat]
	}

	return req
}

func burstType(beat, length int) bus.BurstType {
	switch {
	case length == 1:
		return bus.Classic
	case beat < length-1:
		return bus.Incrementing
	default:
		return bus.EndOfBurst
	}
}

// Observe takes the response of this cycle and ends the cycle.
func (a *Agent) Observe(rsp bus.Response) {
	defer func() { a.cycle++ }()

	if a.cooldown > 0 {
		a.cooldown--
		return
	}

	t := a.cur
	if t == nil {
		return
	}

	if !rsp.Ack {
		a.waited++
		if a.waited >= a.upstreamTimeout {
			t.TimedOut = true
			a.finish()

			// One idle cycle lets the slave see Cyc low.
			a.cooldown = 1
		}

		return
	}

	if !t.Write {
		t.Data = append(t.Data, rsp.Data)
	}

	t.AckCycles = append(t.AckCycles, a.cycle)
	t.Acked++
	a.waited = 0

	if t.Acked == t.Length {
		a.finish()
	}
}

func (a *Agent) finish() {
	a.cur.Done = true
	a.cur.CompleteCycle = a.cycle
	a.completed = append(a.completed, a.cur)
	a.cur = nil
}
