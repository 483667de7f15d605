package cpu

import (
	"iter"
	"strings"
)

// Opcode is a single assembled line of source.
type Opcode struct {
	LineNo int      // Source line number.
	Addr   int      // Code address of the first byte.
	Words  []string // Mnemonic, then operands.
	Bytes  []byte   // Encoded bytes.
}

// String returns the canonical source text of the opcode.
func (op Opcode) String() string {
	if len(op.Words) < 2 {
		return strings.Join(op.Words, "")
	}
	return op.Words[0] + " " + strings.Join(op.Words[1:], ",")
}

type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// Debug finds the opcode covering a code address.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(addr) >= op.Addr && int(addr) < op.Addr+len(op.Bytes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(addr) - op.Addr,
			}
			break
		}
	}

	return
}

// Blocks iterates the program as runs of contiguous bytes.
func (prog *Program) Blocks() iter.Seq2[uint16, []byte] {
	return func(yield func(addr uint16, data []byte) bool) {
		var start int
		var block []byte
		for _, op := range prog.Opcodes {
			if len(op.Bytes) == 0 {
				continue
			}
			if len(block) != 0 && op.Addr != start+len(block) {
				if !yield(uint16(start), block) {
					return
				}
				block = nil
			}
			if len(block) == 0 {
				start = op.Addr
			}
			block = append(block, op.Bytes...)
		}
		if len(block) != 0 {
			yield(uint16(start), block)
		}
	}
}

// Binary returns the program image from address 0 to its last byte.
// Gaps are zero filled.
func (prog *Program) Binary() (bin []byte) {
	for addr, data := range prog.Blocks() {
		end := int(addr) + len(data)
		if end > len(bin) {
			bin = append(bin, make([]byte, end-len(bin))...)
		}
		copy(bin[addr:], data)
	}

	return
}

// Codes iterates every assembled byte with its address.
func (prog *Program) Codes() iter.Seq2[uint16, byte] {
	return func(yield func(addr uint16, code byte) bool) {
		for _, op := range prog.Opcodes {
			for n, code := range op.Bytes {
				if !yield(uint16(op.Addr+n), code) {
					return
				}
			}
		}
	}
}
