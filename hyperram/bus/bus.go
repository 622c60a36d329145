// Package bus defines the synchronous host bus seen by the HyperRAM core.
package bus

import "fmt"

// AddressBits is the width of the word address on the host bus.
const AddressBits = 21

// AddressMask selects the valid bits of a word address.
const AddressMask = 1<<AddressBits - 1

// BurstType is the cycle type identifier of a bus cycle.
type BurstType uint8

// Cycle type identifiers.
const (
	Classic         BurstType = 0b000
	ConstantAddress BurstType = 0b001
	Incrementing    BurstType = 0b010
	EndOfBurst      BurstType = 0b111
)

func (b BurstType) String() string {
	switch b {
	case Classic:
		return "classic"
	case ConstantAddress:
		return "constant"
	case Incrementing:
		return "incrementing"
	case EndOfBurst:
		return "end-of-burst"
	default:
		return fmt.Sprintf("cti(%03b)", uint8(b))
	}
}

// Request is what the bus master drives in one cycle.
type Request struct {
	Cyc     bool
	Stb     bool
	WE      bool
	Address uint32
	Data    uint32
	Sel     uint8
	CTI     BurstType
}

// Active tells if the request asks the slave to act this cycle.
func (r Request) Active() bool {
	return r.Cyc && r.Stb
}

// WordAddress returns the address truncated to the bus width.
func (r Request) WordAddress() uint32 {
	return r.Address & AddressMask
}

// Response is what the slave drives back in one cycle. Ack is high for
// exactly one cycle per transferred word.
type Response struct {
	Ack  bool
	Data uint32
}

// IdleRequest is a request with every line low.
var IdleRequest = Request{}
