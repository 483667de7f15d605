// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/z80cycle/cpu"
	"github.com/ezrec/z80cycle/internal"
	"github.com/ezrec/z80cycle/memory"
	"github.com/ezrec/z80cycle/register"
)

var _emulator_defines = map[string]string{
	"CODE_SIZE": fmt.Sprintf("%v", memory.DefaultCapacity),
	"DATA_SIZE": fmt.Sprintf("%v", memory.DefaultCapacity),
}

// Emulator state. Machine + instruction and data memory + program.
type Emulator struct {
	Verbose      bool         // If set, enables verbose logging.
	*cpu.Machine              // Reference to the machine.
	Program      *cpu.Program // Reference to the currently loaded program listing.

	Start           uint16    // PC after Reset.
	Until           Predicate // If set, checked after each instruction.
	MaxInstructions int       // If non-zero, stop after this many instructions.

	code *memory.Memory
	data *memory.Memory
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Program: &cpu.Program{},
		code:    memory.NewMemory(memory.DefaultCapacity),
		data:    memory.NewMemory(memory.DefaultCapacity),
	}

	emu.Machine = cpu.NewMachine(register.NewFile(0), emu.code, emu.data)

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	start := map[string]string{
		"START": fmt.Sprintf("%#x", emu.Start),
	}

	return internal.IterSeq2Concat(maps.All(_emulator_defines), maps.All(start))
}

// Reset clears memory, loads the program into instruction memory, and
// resets the machine with PC at Start.
func (emu *Emulator) Reset() (err error) {
	emu.code.Reset()
	emu.data.Reset()

	for addr, data := range emu.Program.Blocks() {
		err = emu.code.Store(uint32(addr), data)
		if err != nil {
			return
		}
	}

	emu.Machine.Reset(emu.Start)
	emu.Machine.Verbose = emu.Verbose

	return
}

// LoadData stores bytes into data memory.
func (emu *Emulator) LoadData(addr uint32, data []byte) (err error) {
	return emu.data.Store(addr, data)
}

// Instructions returns the instructions retired since a reset.
func (emu *Emulator) Instructions() int {
	return emu.Machine.Retired()
}

// LineNo returns the line number of the instruction at PC.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Registers.PC())
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.Opcode.LineNo
}

// Step performs a single instruction of the emulator.
//
// done is set when Until is satisfied, MaxInstructions have retired, or
// PC has run past the end of the address space.
func (emu *Emulator) Step() (done bool, err error) {
	// Set machine verbosity
	emu.Machine.Verbose = emu.Verbose

	pc := emu.Registers.PC()
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{PC: pc, LineNo: lineno, Err: err}
		}
	}()

	err = emu.Machine.Step()
	if err != nil {
		return
	}

	if emu.Registers.PC() < pc {
		if emu.Verbose {
			log.Printf("emulator: pc %04x wrapped to %04x", pc, emu.Registers.PC())
		}
		done = true
		return
	}

	if emu.MaxInstructions > 0 && emu.Instructions() >= emu.MaxInstructions {
		done = true
		return
	}

	if emu.Until != nil {
		done, err = emu.Until(emu.Machine)
	}

	return
}

// Run steps the emulator until done, or an error.
func (emu *Emulator) Run() (err error) {
	for done := false; !done; {
		done, err = emu.Step()
		if err != nil {
			return
		}
	}

	if emu.Verbose {
		log.Printf("emulator: %v instructions, %v ticks, %v misses", emu.Instructions(), emu.Ticks(), emu.Misses())
	}

	return
}
