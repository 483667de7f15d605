package cpu

import (
	"fmt"
	"maps"
	"strings"

	"github.com/ezrec/z80cycle/register"
)

// windower is implemented by memories that can return a clamped copy.
type windower interface {
	Window(addr uint32, count int) []byte
}

// Snapshot is a copy of the machine state, for display.
type Snapshot struct {
	State     State                    // Next pipeline state.
	Current   Instruction              // Current instruction.
	Registers map[register.Name]uint16 // Every register and pair.
	DataAddr  uint32                   // Address of Data[0].
	Data      []byte                   // Window of data memory.
	Ticks     int
	Retired   int
	Misses    int
}

// Snapshot copies the machine state, and count bytes of data memory at
// addr. The window is clamped to the end of memory.
func (m *Machine) Snapshot(addr uint32, count int) (snap Snapshot) {
	snap = Snapshot{
		State:     m.state,
		Current:   m.current,
		Registers: maps.Collect(m.Registers.All()),
		DataAddr:  addr,
		Ticks:     m.ticks,
		Retired:   m.retired,
		Misses:    m.misses,
	}

	if count <= 0 {
		return
	}

	if win, ok := m.Data.(windower); ok {
		snap.Data = win.Window(addr, count)
		return
	}

	data, err := m.Data.Load(addr, count)
	if err == nil {
		snap.Data = data
	}

	return
}

// String returns the snapshot as a multi-line dump.
func (snap Snapshot) String() (text string) {
	text += fmt.Sprintf("% 5s: %v\n", "state", snap.State.String())
	text += fmt.Sprintf("% 5s: %v\n", "inst", snap.Current.String())

	for name := range register.Names() {
		value := snap.Registers[name]
		var strval string
		if name.Is8() {
			strval = fmt.Sprintf("%02X", value)
		} else {
			strval = fmt.Sprintf("%04X", value)
		}
		text += fmt.Sprintf("% 5s: %v\n", strings.ToLower(name.String()), strval)
	}

	text += fmt.Sprintf("% 5s: %v, %v retired, %v misses\n", "ticks", snap.Ticks, snap.Retired, snap.Misses)

	for n := 0; n < len(snap.Data); n += 16 {
		end := min(n+16, len(snap.Data))
		text += fmt.Sprintf("%05X: % X\n", snap.DataAddr+uint32(n), snap.Data[n:end])
	}

	return
}
