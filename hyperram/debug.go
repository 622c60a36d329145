package hyperram

import (
	"github.com/sarchlab/hyperram/hyperram/bus"
	"github.com/sarchlab/hyperram/hyperram/protocol"
)

// Debug is a snapshot of the internal signals of the core, meant for
// waveform inspection. Its content is not a stable API.
type Debug struct {
	State   State
	Stage   int
	Command protocol.CommandWord

	Request  bus.Request
	Response bus.Response

	SROut     uint64
	SRIn      uint64
	SRRWDSIn  uint8
	SRRWDSOut uint8
	Timeout   uint8

	CS        bool
	ClkEnable bool

	DQIn    uint32
	DQOut   uint32
	DQOE    bool
	RWDSIn  uint8
	RWDSOut uint8
	RWDSOE  bool
}

// Debug returns the registers of the sequencer and the bus and lane values
// of the last step.
func (s *Sequencer) Debug() Debug {
	out := s.outputs()

	return Debug{
		State:     s.state,
		Stage:     s.stage,
		Command:   s.command,
		Request:   s.lastReq,
		Response:  s.lastRsp,
		SROut:     s.srOut,
		SRIn:      s.srIn,
		SRRWDSIn:  s.srRWDSIn,
		SRRWDSOut: s.srRWDSOut,
		Timeout:   s.timeout,
		CS:        s.cs,
		ClkEnable: s.clkEnable,
		DQIn:      s.lastIn.DQ,
		DQOut:     out.DQ.O,
		DQOE:      out.DQ.OE,
		RWDSIn:    s.lastIn.RWDS,
		RWDSOut:   out.RWDS.O,
		RWDSOE:    out.RWDS.OE,
	}
}
