package cpu

import (
	"strings"

	"github.com/ezrec/z80cycle/register"
)

// OperandKind is the addressing form of an operand.
type OperandKind int

//go:generate go tool stringer -linecomment -type=OperandKind
const (
	OPERAND_REG   = OperandKind(0) // r
	OPERAND_REG16 = OperandKind(1) // rr
	OPERAND_MEM   = OperandKind(2) // mem
	OPERAND_IMM8  = OperandKind(3) // n
	OPERAND_IMM16 = OperandKind(4) // nn
)

// Operand is one operand of an Operation. It is never modified once built.
type Operand struct {
	Kind OperandKind
	Reg  register.Name // Register for OPERAND_REG and OPERAND_REG16.
	Addr *Operand      // Address operand for OPERAND_MEM.
}

// Reg is an 8-bit register operand.
func Reg(name register.Name) Operand {
	return Operand{Kind: OPERAND_REG, Reg: name}
}

// Reg16 is a 16-bit register or register pair operand.
func Reg16(name register.Name) Operand {
	return Operand{Kind: OPERAND_REG16, Reg: name}
}

// Mem is a memory operand addressed through addr: a register pair, a
// 16-bit register, or an Imm16 address.
func Mem(addr Operand) Operand {
	return Operand{Kind: OPERAND_MEM, Addr: &addr}
}

// Imm8 is an 8-bit immediate taken from the instruction stream.
func Imm8() Operand {
	return Operand{Kind: OPERAND_IMM8}
}

// Imm16 is a 16-bit immediate taken from the instruction stream.
func Imm16() Operand {
	return Operand{Kind: OPERAND_IMM16}
}

// IsIndex is true for a 16-bit IX or IY register operand.
func (op Operand) IsIndex() bool {
	return op.Kind == OPERAND_REG16 && (op.Reg == register.IX || op.Reg == register.IY)
}

// Equal compares two operands structurally.
func (op Operand) Equal(other Operand) bool {
	if op.Kind != other.Kind {
		return false
	}

	switch op.Kind {
	case OPERAND_REG, OPERAND_REG16:
		return op.Reg == other.Reg
	case OPERAND_MEM:
		if op.Addr == nil || other.Addr == nil {
			return op.Addr == other.Addr
		}
		return op.Addr.Equal(*other.Addr)
	}

	return true
}

// String returns the assembly language form of the operand.
func (op Operand) String() string {
	switch op.Kind {
	case OPERAND_REG, OPERAND_REG16:
		return strings.ToLower(op.Reg.String())
	case OPERAND_MEM:
		if op.Addr == nil {
			return "()"
		}
		if op.Addr.IsIndex() {
			return "(" + op.Addr.String() + "+d)"
		}
		return "(" + op.Addr.String() + ")"
	}

	return op.Kind.String()
}
