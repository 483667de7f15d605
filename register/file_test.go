package register

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var pairTable = []struct {
	pair      Name
	high, low Name
}{
	{BC, B, C},
	{DE, D, E},
	{HL, H, L},
	{AF, A, F},
}

func TestFile(t *testing.T) {
	assert := assert.New(t)

	file := NewFile(0x1234)
	assert.Equal(uint16(0x1234), file.PC())

	for name, value := range file.All() {
		if name == PC {
			continue
		}
		assert.Equal(uint16(0), value, name.String())
	}
}

func TestFile_PairFromHalves(t *testing.T) {
	assert := assert.New(t)

	file := NewFile(0)

	for _, entry := range pairTable {
		for h := range 256 {
			for l := range 256 {
				assert.NoError(file.Write8(entry.high, uint8(h)))
				assert.NoError(file.Write8(entry.low, uint8(l)))
				value, err := file.Read16(entry.pair)
				assert.NoError(err)
				if uint16(h)|uint16(l)<<8 != value {
					t.Fatalf("%v: h=%02x l=%02x got %04x", entry.pair, h, l, value)
				}
			}
		}
	}
}

func TestFile_HalvesFromPair(t *testing.T) {
	assert := assert.New(t)

	file := NewFile(0)

	for _, entry := range pairTable {
		for v := range 0x10000 {
			assert.NoError(file.Write16(entry.pair, uint16(v)))
			high, _ := file.Read8(entry.high)
			low, _ := file.Read8(entry.low)
			if high != uint8(v&0xff) || low != uint8((v>>8)&0xff) {
				t.Fatalf("%v: v=%04x got high=%02x low=%02x", entry.pair, v, high, low)
			}
		}
	}
}

func TestFile_PairView(t *testing.T) {
	assert := assert.New(t)

	file := NewFile(0)

	bc, err := file.Pair(BC)
	assert.NoError(err)
	high, low := bc.Halves()
	assert.Equal(B, high)
	assert.Equal(C, low)

	// The view is live, not a copy.
	bc.Set(0xc507)
	b, _ := file.Read8(B)
	c, _ := file.Read8(C)
	assert.Equal(uint8(0x07), b)
	assert.Equal(uint8(0xc5), c)

	assert.NoError(file.Write8(C, 0x11))
	assert.Equal(uint16(0x1107), bc.Get())

	// Other pairs are untouched.
	de, _ := file.Read16(DE)
	assert.Equal(uint16(0), de)

	_, err = file.Pair(PC)
	assert.ErrorIs(err, ErrRegisterNotFound(0))
	_, err = file.Pair(A)
	assert.ErrorIs(err, ErrRegisterNotFound(0))
}

func TestFile_Wide(t *testing.T) {
	assert := assert.New(t)

	file := NewFile(0)

	for _, name := range []Name{PC, SP, IX, IY} {
		assert.NoError(file.Write16(name, 0xbeef))
		value, err := file.Read16(name)
		assert.NoError(err)
		assert.Equal(uint16(0xbeef), value, name.String())
	}

	// 16-bit registers are not pairs, and do not alias 8-bit registers.
	for _, name := range []Name{A, B, C, D, E, H, L, F, I, R} {
		value, _ := file.Read8(name)
		assert.Equal(uint8(0), value, name.String())
	}
}

func TestFile_NotFound(t *testing.T) {
	assert := assert.New(t)

	file := NewFile(0)

	_, err := file.Read8(HL)
	assert.ErrorIs(err, ErrRegisterNotFound(HL))
	assert.Error(file.Write8(PC, 1))

	_, err = file.Read16(A)
	assert.ErrorIs(err, ErrRegisterNotFound(A))
	assert.Error(file.Write16(B, 1))

	_, err = file.Read(Name(-1))
	assert.ErrorIs(err, ErrRegisterNotFound(0))
	assert.Error(file.Write(nameCount, 1))
	assert.False(nameCount.Valid())
}

func TestFile_WriteTruncates(t *testing.T) {
	assert := assert.New(t)

	file := NewFile(0)

	assert.NoError(file.Write(A, 0x1ff))
	a, _ := file.Read8(A)
	assert.Equal(uint8(0xff), a)

	f, _ := file.Read8(F)
	assert.Equal(uint8(0), f, "truncated bits must not spill into F")

	assert.NoError(file.Write(HL, 0xabcd))
	hl, _ := file.Read(HL)
	assert.Equal(uint16(0xabcd), hl)
}

func TestFile_Advance(t *testing.T) {
	assert := assert.New(t)

	file := NewFile(0xfffe)
	file.Advance(1)
	assert.Equal(uint16(0xffff), file.PC())
	file.Advance(2)
	assert.Equal(uint16(0x0001), file.PC())

	file.SetPC(0x100)
	file.Advance(3)
	assert.Equal(uint16(0x103), file.PC())
}

func TestFile_Reset(t *testing.T) {
	assert := assert.New(t)

	file := NewFile(0x10)
	assert.NoError(file.Write16(HL, 0x1234))
	assert.NoError(file.Write16(IX, 0x5678))
	file.Advance(4)

	file.Reset(0x200)
	assert.Equal(uint16(0x200), file.PC())
	for name, value := range file.All() {
		if name == PC {
			continue
		}
		assert.Equal(uint16(0), value, name.String())
	}
}

func TestName(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name        Name
		text        string
		bits        int
		is8, isPair bool
	}{
		{A, "A", 8, true, false},
		{R, "R", 8, true, false},
		{PC, "PC", 16, false, false},
		{IY, "IY", 16, false, false},
		{BC, "BC", 16, false, true},
		{AF, "AF", 16, false, true},
		{Name(99), "Name(99)", 0, false, false},
	}

	for _, entry := range table {
		assert.Equal(entry.text, entry.name.String())
		assert.Equal(entry.bits, entry.name.Bits(), entry.text)
		assert.Equal(entry.is8, entry.name.Is8(), entry.text)
		assert.Equal(entry.isPair, entry.name.IsPair(), entry.text)
	}
}

func TestParseName(t *testing.T) {
	assert := assert.New(t)

	for _, text := range []string{"a", "A", "hl", "Hl", "ix", "PC", "af"} {
		name, err := ParseName(text)
		assert.NoError(err, text)
		assert.Equal(strings.ToUpper(text), name.String())
	}

	_, err := ParseName("hx")
	assert.ErrorIs(err, ErrRegisterUnknown(""))
	assert.ErrorIs(err, ErrRegisterNotFound(0))

	_, err = ParseName("nameCount")
	assert.Error(err)
}

func TestFile_All(t *testing.T) {
	assert := assert.New(t)

	file := NewFile(0x0010)
	assert.NoError(file.Write16(HL, 0x2010))

	values := map[Name]uint16{}
	for name, value := range file.All() {
		values[name] = value
	}
	assert.Len(values, 18)
	assert.Equal(uint16(0x10), values[H])
	assert.Equal(uint16(0x20), values[L])
	assert.Equal(uint16(0x2010), values[HL])
	assert.Equal(uint16(0x0010), values[PC])

	names := slices.Collect(Names())
	assert.Equal([]Name{A, B, C, D, E, H, L, F, I, R, PC, SP, IX, IY, BC, DE, HL, AF}, names)

	// Early exit from the iterator.
	count := 0
	for range file.All() {
		count++
		if count == 3 {
			break
		}
	}
	assert.Equal(3, count)
}

func TestFile_String(t *testing.T) {
	assert := assert.New(t)

	file := NewFile(0x0100)
	assert.NoError(file.Write8(A, 0x42))

	text := file.String()
	assert.Contains(text, "  A: 42\n")
	assert.Contains(text, " PC: 0100\n")
	assert.Contains(text, " AF: 0042\n")
}
