package cpu

import (
	"fmt"

	"github.com/ezrec/z80cycle/memory"
	"github.com/ezrec/z80cycle/register"
)

// OperationKind is the type of operation.
type OperationKind int

//go:generate go tool stringer -linecomment -type=OperationKind
const (
	OP_NOP = OperationKind(0) // nop
	OP_LD  = OperationKind(1) // ld
	OP_ADD = OperationKind(2) // add
)

// FetchKind is the number and meaning of the bytes that follow an opcode
// in the instruction stream.
type FetchKind int

//go:generate go tool stringer -linecomment -type=FetchKind
const (
	FETCH_NONE = FetchKind(0) // -
	FETCH_N    = FetchKind(1) // n
	FETCH_NN   = FetchKind(2) // nn
	FETCH_D    = FetchKind(3) // d
)

// Bytes returns the number of trailing bytes to fetch.
func (fk FetchKind) Bytes() int {
	switch fk {
	case FETCH_N, FETCH_D:
		return 1
	case FETCH_NN:
		return 2
	}
	return 0
}

// Operation is an operation over its operands. For OP_ADD, Dst and Src
// are the left and right hand side.
type Operation struct {
	Kind OperationKind
	Dst  Operand
	Src  Operand
}

// String returns the assembly language form of the operation.
func (op Operation) String() string {
	if op.Kind == OP_NOP {
		return op.Kind.String()
	}

	return fmt.Sprintf("%v %v,%v", op.Kind.String(), op.Dst.String(), op.Src.String())
}

// Instruction is a decoded opcode.
type Instruction struct {
	Fetch FetchKind
	Operation
}

// NopPlaceholder is executed in place of opcodes with no decode table entry.
var NopPlaceholder = Instruction{Fetch: FETCH_NONE, Operation: Operation{Kind: OP_NOP}}

// Nop creates a no-op instruction.
func Nop() Instruction {
	return NopPlaceholder
}

// Load creates a load of src into dst.
func Load(fetch FetchKind, dst, src Operand) Instruction {
	return Instruction{Fetch: fetch, Operation: Operation{Kind: OP_LD, Dst: dst, Src: src}}
}

// Add creates an addition of rhs to lhs.
func Add(fetch FetchKind, lhs, rhs Operand) Instruction {
	return Instruction{Fetch: fetch, Operation: Operation{Kind: OP_ADD, Dst: lhs, Src: rhs}}
}

// Equal compares two instructions structurally.
func (inst Instruction) Equal(other Instruction) bool {
	return inst.Fetch == other.Fetch &&
		inst.Kind == other.Kind &&
		inst.Dst.Equal(other.Dst) &&
		inst.Src.Equal(other.Src)
}

// Execute applies the instruction to the register file and data memory.
// args are the trailing bytes fetched for it. On error nothing has been
// written.
func (inst Instruction) Execute(regs *register.File, dm memory.Addressable, args []byte) (err error) {
	if len(args) < inst.Fetch.Bytes() {
		err = ErrOperandBytes
		return
	}

	switch inst.Kind {
	case OP_NOP:
		// pass
	case OP_LD:
		err = inst.load(regs, dm, args)
	default:
		// OP_ADD and any later operations have no semantics yet.
		err = ErrUnsupportedOperandForm{Operation: inst.Operation}
	}

	return
}

// load performs every supported form of OP_LD.
func (inst Instruction) load(regs *register.File, dm memory.Addressable, args []byte) (err error) {
	dst := inst.Dst
	src := inst.Src

	switch {
	case dst.Kind == OPERAND_REG && src.Kind == OPERAND_REG:
		var value uint8
		value, err = regs.Read8(src.Reg)
		if err != nil {
			return
		}
		err = regs.Write8(dst.Reg, value)
	case dst.Kind == OPERAND_REG && src.Kind == OPERAND_IMM8:
		err = regs.Write8(dst.Reg, args[0])
	case dst.Kind == OPERAND_REG16 && src.Kind == OPERAND_IMM16:
		err = regs.Write16(dst.Reg, uint16(args[1])<<8|uint16(args[0]))
	case dst.Kind == OPERAND_REG && src.Kind == OPERAND_MEM:
		if !dst.Reg.Is8() {
			err = register.ErrRegisterNotFound(dst.Reg)
			return
		}
		var addr uint16
		addr, err = inst.address(regs, src.Addr, args)
		if err != nil {
			return
		}
		var value uint16
		value, err = dm.Get(uint32(addr), memory.Byte)
		if err != nil {
			return
		}
		err = regs.Write8(dst.Reg, uint8(value))
	case dst.Kind == OPERAND_MEM && src.Kind == OPERAND_REG:
		var value uint8
		value, err = regs.Read8(src.Reg)
		if err != nil {
			return
		}
		var addr uint16
		addr, err = inst.address(regs, dst.Addr, args)
		if err != nil {
			return
		}
		err = dm.Set(uint32(addr), memory.Byte, uint16(value))
	default:
		err = ErrUnsupportedOperandForm{Operation: inst.Operation}
	}

	return
}

// address resolves the address operand of a memory operand.
//   - pair or 16-bit register: its value.
//   - IX or IY: its value plus the signed displacement in args[0].
//   - Imm16: args[0] and args[1], high byte first. This is the reverse of
//     the Imm16 value loaded into a 16-bit register, which is low byte
//     first.
func (inst Instruction) address(regs *register.File, op *Operand, args []byte) (addr uint16, err error) {
	switch {
	case op == nil:
		err = ErrUnsupportedOperandForm{Operation: inst.Operation}
	case op.IsIndex():
		if len(args) < 1 {
			err = ErrOperandBytes
			return
		}
		addr, err = regs.Read16(op.Reg)
		addr += uint16(int16(int8(args[0])))
	case op.Kind == OPERAND_REG16:
		addr, err = regs.Read16(op.Reg)
	case op.Kind == OPERAND_IMM16:
		if len(args) < 2 {
			err = ErrOperandBytes
			return
		}
		addr = uint16(args[0])<<8 | uint16(args[1])
	default:
		err = ErrUnsupportedOperandForm{Operation: inst.Operation}
	}

	return
}
