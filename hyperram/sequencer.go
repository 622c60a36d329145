package hyperram

import (
	"github.com/sarchlab/hyperram/hyperram/bus"
	"github.com/sarchlab/hyperram/hyperram/phy"
	"github.com/sarchlab/hyperram/hyperram/protocol"
)

const (
	timeoutMask  = 1<<6 - 1
	strobeValid  = 0b1000
	nibbleMask   = 0xF
	strobeMasked = nibbleMask << 4
)

// A Sequencer is the protocol state machine of the HyperRAM core. Its
// fields are the registers of the core. Step computes one clock cycle.
//
// The zero value is a sequencer in reset.
type Sequencer struct {
	state State
	stage int

	cs        bool
	clkEnable bool
	dqOE      bool
	rwdsOE    bool

	srOut     uint64
	srIn      uint64
	srRWDSOut uint8
	srRWDSIn  uint8
	timeout   uint8

	command protocol.CommandWord

	lastReq bus.Request
	lastRsp bus.Response
	lastIn  phy.CoreInputs
}

// NewSequencer creates a sequencer in IDLE.
func NewSequencer() *Sequencer {
	return &Sequencer{}
}

// State returns the current state.
func (s *Sequencer) State() State {
	return s.state
}

// Stage returns the current stage within LATENCY-WAIT or HOLD-WAIT.
func (s *Sequencer) Stage() int {
	return s.stage
}

// Reset puts the sequencer back to IDLE with all registers cleared.
func (s *Sequencer) Reset() {
	*s = Sequencer{}
}

// Transition describes what a Step did to the state.
type Transition struct {
	From  State
	To    State
	Abort AbortReason

	// Command is set on the cycle that loads a command word.
	Command    protocol.CommandWord
	HasCommand bool
}

// Changed tells if the state changed.
func (t Transition) Changed() bool {
	return t.From != t.To
}

// Step computes one clock cycle. The outputs are those of the registers
// before the clock edge; the response is combinational on the current
// request and inputs. All register updates take effect when Step returns.
func (s *Sequencer) Step(
	req bus.Request,
	in phy.CoreInputs,
) (phy.CoreOutputs, bus.Response, Transition) {
	st := step{
		cur:  s,
		next: *s,
		req:  req,
		in:   in,
		rsp:  bus.Response{Data: readData(s.srIn, in.DQ)},
		tr:   Transition{From: s.state},
	}

	out := s.outputs()

	st.shiftRegisters()
	st.advance()

	st.next.lastReq = req
	st.next.lastRsp = st.rsp
	st.next.lastIn = in
	st.tr.To = st.next.state

	*s = st.next

	return out, st.rsp, st.tr
}

func (s *Sequencer) outputs() phy.CoreOutputs {
	return phy.CoreOutputs{
		CSn:       !s.cs,
		ClkEnable: s.clkEnable,
		DQ: phy.Tristate[uint32]{
			O:  uint32(s.srOut >> 32),
			OE: s.dqOE,
		},
		RWDS: phy.Tristate[uint8]{
			O:  s.srRWDSOut >> 4 & nibbleMask,
			OE: s.rwdsOE,
		},
	}
}

// readData rebuilds a word that straddles two core cycles: the low half of
// the previous input word and the high half of the current one.
func readData(srIn uint64, dq uint32) uint32 {
	return uint32(srIn&0xFFFF)<<16 | dq>>16
}

type step struct {
	cur  *Sequencer
	next Sequencer
	req  bus.Request
	in   phy.CoreInputs
	rsp  bus.Response
	tr   Transition
}

func (st *step) shiftRegisters() {
	st.next.srOut = st.cur.srOut << 32
	st.next.srIn = st.cur.srIn<<32 | uint64(st.in.DQ)
	st.next.srRWDSIn = st.cur.srRWDSIn<<4 | st.in.RWDS&nibbleMask
	// Zero fill instead of shifting the strobe input in; only a loaded write
	// mask ever reaches the lane.
	st.next.srRWDSOut = st.cur.srRWDSOut << 4
}

func (st *step) advance() {
	switch st.cur.state {
	case StateIdle:
		st.idle()
	case StateCASend:
		st.caSend()
	case StateCAWait:
		st.caWait()
	case StateLatencyWait:
		st.latencyWait()
	case StateReadWrite:
		st.readWrite()
	case StateReadAck:
		st.readAck()
	case StateClkOff:
		st.clkOff()
	case StateCleanup:
		st.cleanup()
	case StateHoldWait:
		st.holdWait()
	default:
		panic("unknown sequencer state " + st.cur.state.String())
	}
}

func (st *step) goTo(state State) {
	st.next.state = state
	st.next.stage = 0
}

func (st *step) idle() {
	if !st.req.Active() {
		return
	}

	st.next.cs = true
	st.goTo(StateCASend)
}

func (st *step) caSend() {
	cmd := protocol.EncodeCommand(st.req.WE, st.req.Address)

	st.next.clkEnable = true
	st.next.dqOE = true
	st.next.srOut = uint64(cmd) << 16
	st.next.command = cmd

	st.tr.Command = cmd
	st.tr.HasCommand = true

	st.goTo(StateCAWait)
}

func (st *step) caWait() {
	st.next.timeout = 0
	st.goTo(StateLatencyWait)
}

func (st *step) latencyWait() {
	if st.cur.stage == 0 {
		st.next.dqOE = false
	}

	if st.cur.stage < LatencyWaitCycles-1 {
		st.next.stage = st.cur.stage + 1
		return
	}

	st.next.dqOE = st.req.WE
	st.next.rwdsOE = st.req.WE
	st.goTo(StateReadWrite)
}

func (st *step) readWrite() {
	if !st.req.Active() {
		// The host gave up. Send a fully masked beat so the device keeps
		// its content, and close the transaction.
		st.next.srOut = 0
		st.next.srRWDSOut = strobeMasked
		st.tr.Abort = AbortCancel
		st.goTo(StateClkOff)

		return
	}

	if !st.req.WE {
		st.goTo(StateReadAck)
		return
	}

	st.next.dqOE = true
	st.next.srOut = uint64(st.req.Data) << 32
	st.next.srRWDSOut = (^st.req.Sel & nibbleMask) << 4
	st.rsp.Ack = true

	if st.req.CTI != bus.Incrementing {
		st.goTo(StateClkOff)
	}
}

func (st *step) readAck() {
	st.next.timeout = (st.cur.timeout + 1) & timeoutMask

	if st.in.RWDS&strobeValid != 0 {
		st.next.timeout = 0
		st.rsp.Ack = st.req.Active()

		if st.req.CTI != bus.Incrementing {
			st.next.clkEnable = false
			st.goTo(StateCleanup)
		}
	}

	switch {
	case !st.req.Cyc:
		st.tr.Abort = AbortCancel
		st.goTo(StateClkOff)
	case st.cur.timeout > ReadTimeout:
		st.tr.Abort = AbortTimeout
		st.goTo(StateClkOff)
	}
}

func (st *step) clkOff() {
	st.next.clkEnable = false
	st.goTo(StateCleanup)
}

func (st *step) cleanup() {
	st.next.cs = false
	st.next.dqOE = false
	st.next.rwdsOE = false
	st.goTo(StateHoldWait)
}

func (st *step) holdWait() {
	if st.cur.stage == 0 {
		st.next.srOut = 0
		st.next.srRWDSOut = 0
	}

	if st.cur.stage < HoldWaitCycles-1 {
		st.next.stage = st.cur.stage + 1
		return
	}

	st.goTo(StateIdle)
}
