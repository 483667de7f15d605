// Package register implements the register file of the CPU.
//
// The file owns every register value. The 16-bit pairs BC, DE, HL and AF
// have no storage of their own: they are computed views over two 8-bit
// registers, so a write through a pair is visible in its halves and a
// write to either half is visible through the pair.
//
// A pair's 16-bit value carries its high register in the low byte and
// its low register in the high byte:
//
//	BC = B | C<<8
package register

import (
	"fmt"
	"iter"

	"github.com/ezrec/z80cycle/internal"
)

// File is the register file.
type File struct {
	reg8  [count8]uint8
	reg16 [count16]uint16
}

// NewFile creates a zeroed register file with PC set to pc.
func NewFile(pc uint16) (file *File) {
	file = &File{}
	file.Reset(pc)

	return
}

// Reset zeroes all registers, and sets PC to pc.
func (file *File) Reset(pc uint16) {
	clear(file.reg8[:])
	clear(file.reg16[:])
	file.SetPC(pc)
}

// Pair is a 16-bit view over two 8-bit registers of a File.
// Only a Pair returned by File.Pair is valid; the zero Pair has no file.
type Pair struct {
	file *File
	high Name // Register held in the low byte of the pair value.
	low  Name // Register held in the high byte of the pair value.
}

// Halves returns the registers held in the low and high bytes of the
// pair value.
func (p Pair) Halves() (high, low Name) {
	return p.high, p.low
}

// Get composes the pair value.
func (p Pair) Get() uint16 {
	high := p.file.reg8[p.high-first8]
	low := p.file.reg8[p.low-first8]
	return uint16(high) | uint16(low)<<pairBits
}

// Set splits value across the two registers of the pair.
func (p Pair) Set(value uint16) {
	p.file.reg8[p.high-first8] = uint8(value & mask8)
	p.file.reg8[p.low-first8] = uint8((value >> pairBits) & mask8)
}

// Pair returns the view for a pair name.
func (file *File) Pair(name Name) (pair Pair, err error) {
	if !name.IsPair() {
		err = ErrRegisterNotFound(name)
		return
	}

	halves := pairOf[name-firstRP]
	pair = Pair{file: file, high: halves[0], low: halves[1]}
	return
}

// Read8 reads an 8-bit register.
func (file *File) Read8(name Name) (value uint8, err error) {
	if !name.Is8() {
		err = ErrRegisterNotFound(name)
		return
	}

	value = file.reg8[name-first8]
	return
}

// Write8 writes an 8-bit register.
func (file *File) Write8(name Name, value uint8) (err error) {
	if !name.Is8() {
		err = ErrRegisterNotFound(name)
		return
	}

	file.reg8[name-first8] = value
	return
}

// Read16 reads a 16-bit register or pair.
func (file *File) Read16(name Name) (value uint16, err error) {
	switch {
	case name.IsPair():
		var pair Pair
		pair, err = file.Pair(name)
		if err != nil {
			return
		}
		value = pair.Get()
	case name.Is16():
		value = file.reg16[name-first16]
	default:
		err = ErrRegisterNotFound(name)
	}

	return
}

// Write16 writes a 16-bit register or pair.
func (file *File) Write16(name Name, value uint16) (err error) {
	switch {
	case name.IsPair():
		var pair Pair
		pair, err = file.Pair(name)
		if err != nil {
			return
		}
		pair.Set(value)
	case name.Is16():
		file.reg16[name-first16] = value
	default:
		err = ErrRegisterNotFound(name)
	}

	return
}

// Read reads any register, widened to 16 bits.
func (file *File) Read(name Name) (value uint16, err error) {
	if name.Is8() {
		var v8 uint8
		v8, err = file.Read8(name)
		value = uint16(v8)
		return
	}

	value, err = file.Read16(name)
	return
}

// Write writes any register, truncating value to the register width.
func (file *File) Write(name Name, value uint16) (err error) {
	if name.Is8() {
		err = file.Write8(name, uint8(value&mask8))
		return
	}

	err = file.Write16(name, value&mask16)
	return
}

// PC returns the program counter.
func (file *File) PC() uint16 {
	return file.reg16[PC-first16]
}

// SetPC sets the program counter.
func (file *File) SetPC(pc uint16) {
	file.reg16[PC-first16] = pc
}

// Advance moves PC forward by n bytes, wrapping at 16 bits.
func (file *File) Advance(n int) {
	file.reg16[PC-first16] += uint16(n)
}

// span iterates the registers in [from, to).
func (file *File) span(from, to Name) iter.Seq2[Name, uint16] {
	return func(yield func(Name, uint16) bool) {
		for name := from; name < to; name++ {
			value, _ := file.Read(name)
			if !yield(name, value) {
				return
			}
		}
	}
}

// All iterates every register and pair: 8-bit registers first, then the
// 16-bit registers, then the pairs.
func (file *File) All() iter.Seq2[Name, uint16] {
	return internal.IterSeq2Concat(
		file.span(first8, first16),
		file.span(first16, firstRP),
		file.span(firstRP, nameCount),
	)
}

// Names iterates every register and pair name, in the order of All.
func Names() iter.Seq[Name] {
	return internal.IterSeq2Keys((&File{}).All())
}

// String returns the register file as a multi-line dump.
func (file *File) String() (text string) {
	for name, value := range file.All() {
		var strval string
		if name.Is8() {
			strval = fmt.Sprintf("%02X", value)
		} else {
			strval = fmt.Sprintf("%04X", value)
		}
		text += fmt.Sprintf("% 3s: %v\n", name.String(), strval)
	}

	return
}
