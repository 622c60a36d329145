package platform

import (
	"github.com/sarchlab/hyperram/hyperram"
	"github.com/sarchlab/hyperram/hyperram/bus"
	"github.com/sarchlab/hyperram/hyperram/phy"
)

// calibrator walks the PHY delay lines to their configured taps through the
// control lines before it lets the wrapped master use the bus. Every tap
// takes two cycles: Move high, then low.
type calibrator struct {
	phy     *phy.PHY
	next    hyperram.BusMaster
	ioTaps  int
	clkTaps int
	cycle   int
}

func (c *calibrator) cycles() int {
	return 2 * max(c.ioTaps, c.clkTaps)
}

func (c *calibrator) calibrating() bool {
	return c.cycle < c.cycles()
}

func (c *calibrator) Drive() bus.Request {
	if !c.calibrating() {
		c.phy.SetIODelay(phy.IdleDelayControl)
		c.phy.SetClockDelay(phy.IdleDelayControl)

		return c.next.Drive()
	}

	step := c.cycle / 2
	move := c.cycle%2 == 0

	c.phy.SetIODelay(phy.DelayControl{
		LoadN: true,
		Move:  move && step < c.ioTaps,
	})
	c.phy.SetClockDelay(phy.DelayControl{
		LoadN: true,
		Move:  move && step < c.clkTaps,
	})

	return bus.IdleRequest
}

func (c *calibrator) Observe(rsp bus.Response) {
	if c.calibrating() {
		c.cycle++
		return
	}

	c.next.Observe(rsp)
}

func (c *calibrator) Pending() int {
	n := 0
	if p, ok := c.next.(interface{ Pending() int }); ok {
		n = p.Pending()
	}

	if c.calibrating() {
		n++
	}

	return n
}
