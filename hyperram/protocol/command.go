// Package protocol encodes and decodes the HyperRAM command/address word.
package protocol

import (
	"fmt"

	"github.com/sarchlab/hyperram/hyperram/bus"
)

// NumCommandBytes is the number of bytes sent for one command word.
const NumCommandBytes = 6

// Bit positions of the command word fields.
const (
	BitReadWrite    = 47
	BitAddressSpace = 46
	BitBurstType    = 45

	upperAddressShift = 16
	upperAddressBits  = 29
	lowerColumnBits   = 3

	hostUpperShift = 2
)

// A CommandWord is the 48-bit command/address word that opens every
// HyperRAM transaction.
type CommandWord uint64

// EncodeCommand builds the command word for a host word address. The word
// always selects the memory space and a linear burst.
//
// Host address bits [2:21] fill the upper address field from bit 16 and
// host bits [0:2] fill the lower column bits 1 and 2. Bit 0 stays zero, so
// each 32-bit host word covers two 16-bit device words.
func EncodeCommand(write bool, address uint32) CommandWord {
	address &= bus.AddressMask

	var c CommandWord
	if !write {
		c |= 1 << BitReadWrite
	}

	c |= 1 << BitBurstType
	c |= CommandWord(address>>hostUpperShift) << upperAddressShift
	c |= CommandWord(address&0b11) << 1

	return c
}

// DecodeCommand rebuilds a command word from the six bytes on the wire.
func DecodeCommand(b [NumCommandBytes]byte) CommandWord {
	var c CommandWord
	for _, v := range b {
		c = c<<8 | CommandWord(v)
	}

	return c
}

// IsRead tells if the transaction reads from the device.
func (c CommandWord) IsRead() bool {
	return c&(1<<BitReadWrite) != 0
}

// IsRegisterSpace tells if the transaction targets the configuration
// registers instead of the memory array.
func (c CommandWord) IsRegisterSpace() bool {
	return c&(1<<BitAddressSpace) != 0
}

// IsLinearBurst tells if the burst is linear rather than wrapped.
func (c CommandWord) IsLinearBurst() bool {
	return c&(1<<BitBurstType) != 0
}

// UpperAddress returns the row and upper column address field.
func (c CommandWord) UpperAddress() uint32 {
	return uint32(c>>upperAddressShift) & (1<<upperAddressBits - 1)
}

// LowerColumn returns the lower column address field.
func (c CommandWord) LowerColumn() uint32 {
	return uint32(c) & (1<<lowerColumnBits - 1)
}

// WordAddress returns the address of the first 16-bit device word.
func (c CommandWord) WordAddress() uint64 {
	return uint64(c.UpperAddress())<<lowerColumnBits | uint64(c.LowerColumn())
}

// ByteAddress returns the address of the first byte in the device.
func (c CommandWord) ByteAddress() uint64 {
	return c.WordAddress() * 2
}

// HostAddress returns the host word address that produced the command.
func (c CommandWord) HostAddress() uint32 {
	return uint32(c.WordAddress() / 2)
}

// Bytes returns the command in transmission order, most significant byte
// first.
func (c CommandWord) Bytes() [NumCommandBytes]byte {
	var b [NumCommandBytes]byte
	for i := range b {
		b[i] = byte(c >> (8 * (NumCommandBytes - 1 - i)))
	}

	return b
}

func (c CommandWord) String() string {
	dir := "W"
	if c.IsRead() {
		dir = "R"
	}

	return fmt.Sprintf("%012x(%s @0x%06x)", uint64(c), dir, c.HostAddress())
}
