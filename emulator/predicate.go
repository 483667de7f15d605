package emulator

import (
	"errors"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/z80cycle/cpu"
	"github.com/ezrec/z80cycle/memory"
	"github.com/ezrec/z80cycle/register"
)

// Predicate decides if a run is done. It is checked after each
// instruction retires.
type Predicate func(m *cpu.Machine) (done bool, err error)

// AtAddress is done when PC reaches pc.
func AtAddress(pc uint16) Predicate {
	return func(m *cpu.Machine) (bool, error) {
		return m.Registers.PC() == pc, nil
	}
}

// AfterInstructions is done once n instructions have retired.
func AfterInstructions(n int) Predicate {
	return func(m *cpu.Machine) (bool, error) {
		return m.Retired() >= n, nil
	}
}

// Any is done when any of preds is done.
func Any(preds ...Predicate) Predicate {
	return func(m *cpu.Machine) (done bool, err error) {
		for _, pred := range preds {
			done, err = pred(m)
			if done || err != nil {
				return
			}
		}
		return
	}
}

// environment exposes the machine to expressions.
func environment(m *cpu.Machine) (env starlark.StringDict) {
	env = starlark.StringDict{}

	for name, value := range m.Registers.All() {
		env[strings.ToLower(name.String())] = starlark.MakeInt(int(value))
	}

	env["ticks"] = starlark.MakeInt(m.Ticks())
	env["instructions"] = starlark.MakeInt(m.Retired())
	env["misses"] = starlark.MakeInt(m.Misses())

	env["mem"] = starlark.NewBuiltin("mem", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var addr int
		width := int(memory.Byte)
		err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &addr, &width)
		if err != nil {
			return nil, err
		}
		if addr < 0 || (width != int(memory.Byte) && width != int(memory.Word)) {
			return nil, ErrExpression(b.Name())
		}
		value, err := m.Data.Get(uint32(addr), memory.Width(width))
		if err != nil {
			return nil, err
		}
		return starlark.MakeInt(int(value)), nil
	})

	return
}

// evaluate runs an expression against the machine.
func evaluate(src string, m *cpu.Machine) (done bool, err error) {
	thread := starlark.Thread{Name: "until"}
	opts := syntax.FileOptions{}

	dict, err := starlark.ExecFileOptions(&opts, &thread, "until", "rc=("+src+")\n", environment(m))
	if err != nil {
		err = errors.Join(ErrExpression(src), err)
		return
	}

	rc, ok := dict["rc"]
	if !ok {
		err = ErrExpression(src)
		return
	}

	done = bool(rc.Truth())
	return
}

// Expression compiles a Starlark expression into a Predicate. The
// expression sees every register by its lower case name, the ticks,
// instructions and misses counters, and mem(addr[, width]) reading data
// memory.
//
// For example:
//
//	pc == 0x10 and a == 0x42
//	mem(0x200, 2) == 0xc507
func Expression(src string) (pred Predicate, err error) {
	src = strings.TrimSpace(src)
	if len(src) == 0 {
		err = ErrExpression(src)
		return
	}

	// Check the expression against a reset machine.
	probe := memory.NewMemory(memory.DefaultCapacity)
	_, err = evaluate(src, cpu.NewMachine(register.NewFile(0), probe, probe))
	if err != nil {
		return
	}

	pred = func(m *cpu.Machine) (bool, error) {
		return evaluate(src, m)
	}

	return
}
