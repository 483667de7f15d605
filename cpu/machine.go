// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"log"

	"github.com/ezrec/z80cycle/memory"
	"github.com/ezrec/z80cycle/register"
)

// State is a pipeline state of the Machine.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_FETCH     = State(0) // fetch
	STATE_DECODE    = State(1) // decode
	STATE_EXEC      = State(2) // exec
	STATE_WRITEBACK = State(3) // writeback
)

// Next returns the state that follows s.
func (s State) Next() State {
	return (s + 1) % 4
}

// Machine is the instruction cycle engine. It owns its register file
// and both memories for as long as it runs; it is not safe for
// concurrent use.
type Machine struct {
	Verbose bool // Set to enable verbose logging.

	Registers *register.File     // Register file.
	Code      memory.Addressable // Instruction memory.
	Data      memory.Addressable // Data memory.
	Table     *Table             // Decode table.

	state   State
	opcode  []byte        // Opcode bytes fetched this cycle.
	current Instruction   // Instruction being executed.
	index   register.Name // Index register armed by a prefix.
	indexed bool          // Set if a prefix is armed.

	ticks   int
	retired int
	misses  int
}

// NewMachine creates a machine in the fetch state.
func NewMachine(regs *register.File, code, data memory.Addressable) (m *Machine) {
	m = &Machine{
		Registers: regs,
		Code:      code,
		Data:      data,
		Table:     DefaultTable,
		current:   NopPlaceholder,
	}

	return
}

// Reset the pipeline and the register file, with PC at pc.
// Memory is left as it is.
func (m *Machine) Reset(pc uint16) {
	m.Registers.Reset(pc)
	m.abort()
	m.ticks = 0
	m.retired = 0
	m.misses = 0
}

// State returns the pipeline state the next Tick will perform.
func (m *Machine) State() State {
	return m.state
}

// Current returns the decoded instruction.
func (m *Machine) Current() Instruction {
	return m.current
}

// Opcode returns the opcode pending decode, if any.
func (m *Machine) Opcode() (opcode uint8, ok bool) {
	if len(m.opcode) == 0 {
		return
	}

	return m.opcode[0], true
}

// Ticks returns the number of ticks since a reset.
func (m *Machine) Ticks() int {
	return m.ticks
}

// Retired returns the number of instructions retired since a reset.
func (m *Machine) Retired() int {
	return m.retired
}

// Misses returns the number of opcodes decoded with no table entry.
func (m *Machine) Misses() int {
	return m.misses
}

// abort drops the instruction in flight, and returns to fetch.
func (m *Machine) abort() {
	m.state = STATE_FETCH
	m.opcode = m.opcode[:0]
	m.current = NopPlaceholder
	m.indexed = false
}

// Tick advances the pipeline by one state.
//
// On error the instruction in flight is abandoned, and the next Tick
// fetches the instruction at PC. Register and memory writes of the
// failed instruction did not happen, but operand bytes it fetched stay
// consumed.
func (m *Machine) Tick() (err error) {
	m.ticks++

	switch m.state {
	case STATE_FETCH:
		err = m.fetch()
	case STATE_DECODE:
		err = m.decode()
	case STATE_EXEC:
		err = m.exec()
	case STATE_WRITEBACK:
		err = m.writeback()
	}

	if err != nil {
		if m.Verbose {
			log.Printf("cpu: %v: %v", m.state, err)
		}
		m.abort()
		return
	}

	m.state = m.state.Next()

	return
}

// Step ticks until the instruction in flight retires.
func (m *Machine) Step() (err error) {
	for {
		err = m.Tick()
		if err != nil || m.state == STATE_FETCH {
			return
		}
	}
}

// Run steps instructions until done returns true. done is checked
// before each instruction.
func (m *Machine) Run(done func(m *Machine) bool) (err error) {
	for !done(m) {
		err = m.Step()
		if err != nil {
			return
		}
	}

	return
}

// fetch reads the opcode at PC.
func (m *Machine) fetch() (err error) {
	pc := m.Registers.PC()

	value, err := m.Code.Get(uint32(pc), memory.Byte)
	if err != nil {
		err = errors.Join(ErrFetch, err)
		return
	}

	m.Registers.Advance(1)
	m.opcode = append(m.opcode[:0], uint8(value))

	if m.Verbose {
		log.Printf("cpu: %04x: fetch %02x", pc, value)
	}

	return
}

// decode looks up the pending opcode in the decode table.
func (m *Machine) decode() (err error) {
	if len(m.opcode) == 0 {
		err = errors.Join(ErrDecode, ErrEmptyOpcode)
		return
	}

	opcode := m.opcode[0]

	index, prefixed := IndexOf(opcode)
	if prefixed {
		m.current = NopPlaceholder
		m.index = index
		m.indexed = true
		if m.Verbose {
			log.Printf("cpu: decode %02x: prefix %v", opcode, index)
		}
		return
	}

	inst, ok := m.Table.Lookup(opcode)
	if !ok {
		m.misses++
		inst = NopPlaceholder
		if m.Verbose {
			log.Printf("cpu: decode %v", ErrDecodeMiss(opcode))
		}
	}

	if m.indexed {
		inst, _ = Indexed(inst, m.index)
		m.indexed = false
	}

	m.current = inst

	if m.Verbose {
		log.Printf("cpu: decode %02x: %v", opcode, inst.String())
	}

	return
}

// exec fetches the operand bytes, and executes the instruction.
func (m *Machine) exec() (err error) {
	inst := m.current

	var opcode uint8
	if len(m.opcode) > 0 {
		opcode = m.opcode[0]
	}

	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode{Opcode: opcode, Instruction: inst}, ErrExec, err)
		}
	}()

	var args []byte
	if n := inst.Fetch.Bytes(); n > 0 {
		args, err = m.Code.Load(uint32(m.Registers.PC()), n)
		if err != nil {
			return
		}
		m.Registers.Advance(n)
	}

	err = inst.Execute(m.Registers, m.Data, args)
	if err != nil {
		return
	}

	if m.Verbose {
		log.Printf("cpu: exec %v % x", inst.String(), args)
	}

	return
}

// writeback retires the instruction.
func (m *Machine) writeback() (err error) {
	m.retired++
	m.opcode = m.opcode[:0]

	return
}
