// Package cci implements the Camera Control Interface register protocol used
// by MIPI camera sensors: 16-bit register addresses carrying 8- or 16-bit
// values over an I2C bus, transferred big-endian.
package cci

import "fmt"

// Reg identifies a sensor register together with its width. The address
// occupies the low 16 bits and the width in bytes sits above them, so a Reg
// can be carried through register sequence tables as a single value.
type Reg uint32

const regWidthShift = 16

// Reg8 returns a Reg describing an 8-bit register at addr.
func Reg8(addr uint16) Reg {
	return Reg(1)<<regWidthShift | Reg(addr)
}

// Reg16 returns a Reg describing a 16-bit register at addr.
func Reg16(addr uint16) Reg {
	return Reg(2)<<regWidthShift | Reg(addr)
}

// Addr returns the 16-bit register address.
func (r Reg) Addr() uint16 {
	return uint16(r)
}

// Width returns the register width in bytes (1 or 2).
func (r Reg) Width() int {
	return int(r >> regWidthShift)
}

func (r Reg) String() string {
	return fmt.Sprintf("0x%04X/%d", r.Addr(), r.Width()*8)
}

// RegVal is a single entry of a register sequence table.
type RegVal struct {
	Reg Reg
	Val uint64
}

// Bus abstracts the register transport. Implementations perform synchronous,
// at-most-once transfers; callers must tolerate blocking calls.
type Bus interface {
	// Read reads a single register.
	Read(reg Reg) (uint64, error)
	// Write writes a single register.
	Write(reg Reg, val uint64) error
	// WriteSequence writes the entries of seq in order, stopping at the
	// first failed transfer.
	WriteSequence(seq []RegVal) error
	// Close releases the underlying transport.
	Close() error
}
