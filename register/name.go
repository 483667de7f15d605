package register

import (
	"strings"
)

// Name selects a register or register pair.
type Name int

//go:generate go tool stringer -type=Name
const (
	// 8-bit registers.
	A = Name(iota)
	B
	C
	D
	E
	H
	L
	F
	I
	R

	// 16-bit registers.
	PC
	SP
	IX
	IY

	// 16-bit pairs of 8-bit registers.
	BC
	DE
	HL
	AF

	nameCount
)

const (
	first8   = A
	first16  = PC
	firstRP  = BC
	count8   = int(first16 - first8)
	count16  = int(firstRP - first16)
	countRP  = int(nameCount - firstRP)
	mask8    = 0xff
	mask16   = 0xffff
	pairBits = 8
)

// pairOf lists the (high, low) constituents of each pair.
var pairOf = [countRP][2]Name{
	BC - firstRP: {B, C},
	DE - firstRP: {D, E},
	HL - firstRP: {H, L},
	AF - firstRP: {A, F},
}

// Valid is true for any known register or pair.
func (n Name) Valid() bool {
	return n >= first8 && n < nameCount
}

// Is8 is true for the 8-bit registers.
func (n Name) Is8() bool {
	return n >= first8 && n < first16
}

// Is16 is true for the true 16-bit registers and the pairs.
func (n Name) Is16() bool {
	return n >= first16 && n < nameCount
}

// IsPair is true for the composed 16-bit pairs.
func (n Name) IsPair() bool {
	return n >= firstRP && n < nameCount
}

// Bits returns the register width, or 0 for an invalid name.
func (n Name) Bits() int {
	switch {
	case n.Is8():
		return 8
	case n.Is16():
		return 16
	}
	return 0
}

var byName = func() map[string]Name {
	names := make(map[string]Name, int(nameCount))
	for n := first8; n < nameCount; n++ {
		names[strings.ToLower(n.String())] = n
	}
	return names
}()

// ParseName converts a register name, in any case, to a Name.
func ParseName(text string) (name Name, err error) {
	name, ok := byName[strings.ToLower(text)]
	if !ok {
		err = ErrRegisterUnknown(text)
	}

	return
}
