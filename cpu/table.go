package cpu

import (
	"iter"

	"github.com/ezrec/z80cycle/register"
)

// Index prefix opcodes.
const (
	PREFIX_IX = uint8(0xdd)
	PREFIX_IY = uint8(0xfd)
)

// Split decomposes an opcode into its bit fields:
//
//	x = bits 7:6, y = bits 5:3, z = bits 2:0
func Split(opcode uint8) (x, y, z uint8) {
	x = (opcode >> 6) & 0x03
	y = (opcode >> 3) & 0x07
	z = opcode & 0x07
	return
}

// Join is the inverse of Split.
func Join(x, y, z uint8) (opcode uint8) {
	return (x&0x03)<<6 | (y&0x07)<<3 | (z & 0x07)
}

// Table maps opcodes to instructions. Once built it is never modified,
// and may be shared between machines.
type Table struct {
	entry [256]Instruction
	valid [256]bool
}

// DefaultTable is the decode table used by NewMachine.
var DefaultTable = NewTable()

// place adds the entry keyed by (x, z, y).
func (tbl *Table) place(x, z, y uint8, inst Instruction) {
	opcode := Join(x, y, z)
	if tbl.valid[opcode] {
		panic("cpu: duplicate decode table entry")
	}
	tbl.entry[opcode] = inst
	tbl.valid[opcode] = true
}

// NewTable builds the decode table.
func NewTable() (tbl *Table) {
	tbl = &Table{}

	// rp[p] and r[y], r[z] in bit field order.
	rp := [4]register.Name{register.BC, register.DE, register.HL, register.SP}
	r := [8]Operand{
		Reg(register.B),
		Reg(register.C),
		Reg(register.D),
		Reg(register.E),
		Reg(register.H),
		Reg(register.L),
		Mem(Reg16(register.HL)),
		Reg(register.A),
	}

	// x = 0
	tbl.place(0, 0, 0, Nop())

	for p := range uint8(4) {
		tbl.place(0, 1, p<<1, Load(FETCH_NN, Reg16(rp[p]), Imm16()))
		tbl.place(0, 1, p<<1|1, Add(FETCH_NONE, Reg16(register.HL), Reg16(rp[p])))
	}

	tbl.place(0, 2, 0, Load(FETCH_NONE, Mem(Reg16(register.BC)), Reg(register.A)))
	tbl.place(0, 2, 1, Load(FETCH_NONE, Reg(register.A), Mem(Reg16(register.BC))))
	tbl.place(0, 2, 2, Load(FETCH_NONE, Mem(Reg16(register.DE)), Reg(register.A)))
	tbl.place(0, 2, 3, Load(FETCH_NONE, Reg(register.A), Mem(Reg16(register.DE))))
	tbl.place(0, 2, 4, Load(FETCH_NN, Mem(Imm16()), Reg16(register.HL)))
	tbl.place(0, 2, 5, Load(FETCH_NN, Reg16(register.HL), Mem(Imm16())))
	tbl.place(0, 2, 6, Load(FETCH_NN, Mem(Imm16()), Reg(register.A)))
	tbl.place(0, 2, 7, Load(FETCH_NN, Reg(register.A), Mem(Imm16())))

	for y := range uint8(8) {
		tbl.place(0, 6, y, Load(FETCH_N, r[y], Imm8()))
	}

	// x = 1
	for z := range uint8(8) {
		for y := range uint8(8) {
			if y == 6 && z == 6 {
				// HALT
				continue
			}
			tbl.place(1, z, y, Load(FETCH_NONE, r[y], r[z]))
		}
	}

	// x = 2
	for z := range uint8(8) {
		tbl.place(2, z, 0, Add(FETCH_NONE, Reg(register.A), r[z]))
	}

	// x = 3
	tbl.place(3, 6, 0, Add(FETCH_N, Reg(register.A), Imm8()))

	return
}

// Lookup returns the instruction for an opcode. ok is false when the
// table has no entry for it.
func (tbl *Table) Lookup(opcode uint8) (inst Instruction, ok bool) {
	if !tbl.valid[opcode] {
		return
	}

	inst = tbl.entry[opcode]
	ok = true
	return
}

// Decode returns the instruction for an opcode, or NopPlaceholder.
func (tbl *Table) Decode(opcode uint8) (inst Instruction) {
	inst, ok := tbl.Lookup(opcode)
	if !ok {
		inst = NopPlaceholder
	}

	return
}

// All iterates the populated entries, in opcode order.
func (tbl *Table) All() iter.Seq2[uint8, Instruction] {
	return func(yield func(uint8, Instruction) bool) {
		for n := range tbl.entry {
			if !tbl.valid[n] {
				continue
			}
			if !yield(uint8(n), tbl.entry[n]) {
				return
			}
		}
	}
}

// IndexOf returns the index register selected by a prefix opcode.
func IndexOf(prefix uint8) (index register.Name, ok bool) {
	switch prefix {
	case PREFIX_IX:
		index, ok = register.IX, true
	case PREFIX_IY:
		index, ok = register.IY, true
	}
	return
}

// PrefixOf is the inverse of IndexOf.
func PrefixOf(index register.Name) (prefix uint8, ok bool) {
	switch index {
	case register.IX:
		prefix, ok = PREFIX_IX, true
	case register.IY:
		prefix, ok = PREFIX_IY, true
	}
	return
}

// Indexed rewrites an instruction to use index register IX or IY in
// place of HL:
//   - (HL) loaded from or stored to an 8-bit register becomes (IX+d),
//     which takes a displacement byte.
//   - LD HL,nn becomes LD IX,nn.
//
// ok is false if the instruction has no indexed form; it is then
// returned unchanged.
func Indexed(inst Instruction, index register.Name) (out Instruction, ok bool) {
	out = inst

	if inst.Kind != OP_LD || inst.Fetch == FETCH_D {
		return
	}

	hl := Reg16(register.HL)
	mem := Mem(hl)

	switch {
	case inst.Dst.Equal(mem) && inst.Src.Kind == OPERAND_REG:
		out.Dst = Mem(Reg16(index))
		out.Fetch = FETCH_D
		ok = true
	case inst.Src.Equal(mem) && inst.Dst.Kind == OPERAND_REG:
		out.Src = Mem(Reg16(index))
		out.Fetch = FETCH_D
		ok = true
	case inst.Dst.Equal(hl) && inst.Src.Kind == OPERAND_IMM16:
		out.Dst = Reg16(index)
		ok = true
	}

	return
}
