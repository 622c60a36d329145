// Package hyperram provides the HyperRAM controller core: the sequencer
// state machine and the component that clocks it together with the PHY.
package hyperram

import (
	"github.com/sarchlab/hyperram/hyperram/bus"
	"github.com/sarchlab/hyperram/hyperram/phy"
	"github.com/sarchlab/hyperram/sim"
)

// Comp is the HyperRAM controller. It ticks at the base clock. In every
// cycle it captures the PHY inputs, steps the sequencer with the bus
// master's request, returns the response to the master and drives the PHY.
type Comp struct {
	*sim.TickingComponent

	seq    *Sequencer
	phy    *phy.PHY
	master BusMaster
	ids    sim.IDGenerator

	cycle uint64
	txn   *Transaction
}

// Tick runs one core cycle.
func (c *Comp) Tick() bool {
	in := c.phy.Capture()
	req := c.master.Drive()

	out, rsp, tr := c.seq.Step(req, in)

	c.master.Observe(rsp)
	c.phy.Drive(out)

	c.report(req, rsp, tr)
	c.cycle++

	return req.Active() ||
		c.seq.State() != StateIdle ||
		!c.phy.Settled() ||
		c.masterPending()
}

func (c *Comp) masterPending() bool {
	p, ok := c.master.(pendingReporter)

	return ok && p.Pending() > 0
}

// Cycle returns the number of cycles ticked so far.
func (c *Comp) Cycle() uint64 {
	return c.cycle
}

// Sequencer returns the state machine of the core.
func (c *Comp) Sequencer() *Sequencer {
	return c.seq
}

// Clocks returns the clock domains of the PHY.
func (c *Comp) Clocks() phy.Clocks {
	return c.phy.Clocks()
}

// PHY returns the serialization layer of the core.
func (c *Comp) PHY() *phy.PHY {
	return c.phy
}

// Debug returns the debug bundle of the sequencer.
func (c *Comp) Debug() Debug {
	return c.seq.Debug()
}

// CurrentTransaction returns the transaction in flight, if any.
func (c *Comp) CurrentTransaction() *Transaction {
	return c.txn
}

func (c *Comp) report(req bus.Request, rsp bus.Response, tr Transition) {
	now := c.CurrentTime()

	if tr.From == StateIdle && tr.To == StateCASend {
		c.startTransaction(req, now)
	}

	if tr.HasCommand && c.txn != nil {
		c.txn.Command = tr.Command
		c.txn.Write = !tr.Command.IsRead()
		c.txn.Address = tr.Command.HostAddress()
	}

	if rsp.Ack && c.txn != nil {
		c.reportBeat(req, rsp, now)
	}

	if tr.Abort != AbortNone && c.txn != nil {
		c.txn.Abort = tr.Abort
		c.invoke(HookPosAbort, c.txn)
	}

	if tr.Changed() {
		c.invoke(HookPosStateChange, tr)
	}

	if tr.Changed() && tr.To == StateIdle && c.txn != nil {
		c.txn.EndCycle = c.cycle
		c.txn.EndTime = now
		c.invoke(HookPosTransactionEnd, c.txn)
		c.txn = nil
	}

	if c.NumHooks() > 0 {
		c.invoke(HookPosCycle, c.seq.Debug())
	}
}

func (c *Comp) startTransaction(req bus.Request, now sim.VTimeInSec) {
	c.txn = &Transaction{
		ID:         c.ids.Generate(),
		Write:      req.WE,
		Address:    req.WordAddress(),
		StartCycle: c.cycle,
		StartTime:  now,
	}

	c.invoke(HookPosTransactionStart, c.txn)
}

func (c *Comp) reportBeat(req bus.Request, rsp bus.Response, now sim.VTimeInSec) {
	beat := Beat{
		TransactionID: c.txn.ID,
		Index:         c.txn.Beats,
		Cycle:         c.cycle,
		Time:          now,
		Write:         c.txn.Write,
		Address:       (c.txn.Address + uint32(c.txn.Beats)) & bus.AddressMask,
		Data:          rsp.Data,
		Sel:           0xF,
	}

	if beat.Write {
		beat.Data = req.Data
		beat.Sel = req.Sel
	}

	c.txn.Beats++
	c.invoke(HookPosBeat, beat)
}

func (c *Comp) invoke(pos *sim.HookPos, item interface{}) {
	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    pos,
		Item:   item,
		Detail: c.cycle,
	})
}
