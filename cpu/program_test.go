package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testProgram() *Program {
	return &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Addr: 0, Words: []string{"ld", "bc", "0x1234"}, Bytes: []byte{0x01, 0x34, 0x12}},
			{LineNo: 2, Addr: 3, Words: []string{"nop"}, Bytes: []byte{0x00}},
			{LineNo: 4, Addr: 0x10, Words: []string{"ld", "a", "b"}, Bytes: []byte{0x78}},
		},
	}
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	dbg := prog.Debug(0)
	assert.NotNil(dbg.Opcode)
	assert.Equal(1, dbg.Opcode.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(2)
	assert.NotNil(dbg.Opcode)
	assert.Equal(1, dbg.Opcode.LineNo)
	assert.Equal(2, dbg.Index)

	dbg = prog.Debug(3)
	assert.NotNil(dbg.Opcode)
	assert.Equal(2, dbg.Opcode.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(0x10)
	assert.NotNil(dbg.Opcode)
	assert.Equal(4, dbg.Opcode.LineNo)
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	dbg := prog.Debug(4)
	assert.Nil(dbg.Opcode)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(0xffff)
	assert.Nil(dbg.Opcode)
}

func TestProgram_Blocks(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	addrs := []uint16{}
	blocks := [][]byte{}
	for addr, data := range prog.Blocks() {
		addrs = append(addrs, addr)
		blocks = append(blocks, data)
	}

	assert.Equal([]uint16{0, 0x10}, addrs)
	assert.Equal([][]byte{{0x01, 0x34, 0x12, 0x00}, {0x78}}, blocks)
}

func TestProgram_Blocks_EarlyReturn(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	count := 0
	for range prog.Blocks() {
		count++
		break
	}

	assert.Equal(1, count)
}

func TestProgram_Binary(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	bin := prog.Binary()
	assert.Equal(0x11, len(bin))
	assert.Equal([]byte{0x01, 0x34, 0x12, 0x00}, bin[:4])
	assert.Equal(make([]byte, 12), bin[4:0x10])
	assert.Equal(uint8(0x78), bin[0x10])
}

func TestProgram_Codes(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	addrs := []uint16{}
	codes := []byte{}
	for addr, code := range prog.Codes() {
		addrs = append(addrs, addr)
		codes = append(codes, code)
	}

	assert.Equal([]uint16{0, 1, 2, 3, 0x10}, addrs)
	assert.Equal([]byte{0x01, 0x34, 0x12, 0x00, 0x78}, codes)
}

func TestProgram_Codes_Empty(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{}

	count := 0
	for range prog.Codes() {
		count++
	}

	assert.Equal(0, count)
	assert.Nil(prog.Binary())
}

func TestProgram_Integration_ParseAndDebug(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := strings.Join([]string{
		"ld bc, 0x100",
		"",
		"ld a, (bc)",
		"nop",
	}, "\n")

	prog, err := asm.Parse(strings.NewReader(program))
	assert.NoError(err)

	dbg := prog.Debug(1)
	assert.NotNil(dbg.Opcode)
	assert.Equal(1, dbg.Opcode.LineNo)
	assert.Equal(1, dbg.Index)

	dbg = prog.Debug(3)
	assert.NotNil(dbg.Opcode)
	assert.Equal(3, dbg.Opcode.LineNo)

	dbg = prog.Debug(4)
	assert.NotNil(dbg.Opcode)
	assert.Equal(4, dbg.Opcode.LineNo)
	assert.Equal("nop", dbg.Opcode.String())

	assert.Equal([]byte{0x01, 0x00, 0x01, 0x0a, 0x00}, prog.Binary())
}
