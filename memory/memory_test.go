package memory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(DefaultCapacity)
	assert.Equal(131072, mem.Capacity())

	value, err := mem.Get8(0)
	assert.NoError(err)
	assert.Equal(uint8(0), value)
}

func TestMemory_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(DefaultCapacity)

	for _, addr := range []uint32{0, 1, 0x7fff, 0xffff, 0x10000, DefaultCapacity - 2} {
		for _, v := range []uint16{0, 0x01, 0x7f, 0x80, 0xff} {
			assert.NoError(mem.Set(addr, Byte, v))
			got, err := mem.Get(addr, Byte)
			assert.NoError(err)
			assert.Equal(v, got, "addr 0x%x", addr)
		}
		for _, v := range []uint16{0, 0x0102, 0xc507, 0x8000, 0xffff} {
			assert.NoError(mem.Set(addr, Word, v))
			got, err := mem.Get(addr, Word)
			assert.NoError(err)
			assert.Equal(v, got, "addr 0x%x", addr)
		}
	}
}

func TestMemory_BigEndian(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(0x100)
	assert.NoError(mem.Set16(0x10, 0xc507))

	hi, _ := mem.Get8(0x10)
	lo, _ := mem.Get8(0x11)
	assert.Equal(uint8(0xc5), hi)
	assert.Equal(uint8(0x07), lo)

	assert.NoError(mem.Store(0x20, []byte{0x12, 0x34}))
	word, err := mem.Get16(0x20)
	assert.NoError(err)
	assert.Equal(uint16(0x1234), word)
}

func TestMemory_SetTruncates(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(0x10)
	assert.NoError(mem.Set(0, Byte, 0x1234))
	got, err := mem.Get(0, Byte)
	assert.NoError(err)
	assert.Equal(uint16(0x34), got)

	next, _ := mem.Get8(1)
	assert.Equal(uint8(0), next)
}

func TestMemory_OutOfBounds(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(DefaultCapacity)
	last := uint32(DefaultCapacity - 1)

	_, err := mem.Get8(last)
	assert.NoError(err)

	_, err = mem.Get(last, Word)
	assert.ErrorIs(err, ErrOutOfBounds{})

	var oob ErrOutOfBounds
	assert.True(errors.As(err, &oob))
	assert.Equal(last, oob.Addr)
	assert.Equal(2, oob.Size)
	assert.Equal(DefaultCapacity, oob.Capacity)

	_, err = mem.Get8(DefaultCapacity)
	assert.ErrorIs(err, ErrOutOfBounds{})

	err = mem.Set16(last, 0xffff)
	assert.ErrorIs(err, ErrOutOfBounds{})
	v, _ := mem.Get8(last)
	assert.Equal(uint8(0), v, "failed write must not touch memory")

	_, err = mem.Load(last, 2)
	assert.ErrorIs(err, ErrOutOfBounds{})
}

func TestMemory_InvalidWidth(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(16)

	_, err := mem.Get(0, Width(3))
	assert.ErrorIs(err, ErrOutOfBounds{})

	var oob ErrOutOfBounds
	assert.True(errors.As(err, &oob))
	assert.Equal(3, oob.Size)

	err = mem.Set(0, Width(0), 0xff)
	assert.ErrorIs(err, ErrOutOfBounds{})
	v, _ := mem.Get8(0)
	assert.Equal(uint8(0), v)
}

func TestMemory_StoreLoad(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(0x100)

	assert.NoError(mem.Store(0x00, []byte{0x01, 0xc5, 0x07}))
	assert.NoError(mem.Store(0x03, []byte{0x11, 0xc5, 0x07}))

	data, err := mem.Load(0, 6)
	assert.NoError(err)
	assert.Equal([]byte{0x01, 0xc5, 0x07, 0x11, 0xc5, 0x07}, data)

	// Load is a copy.
	data[0] = 0xff
	v, _ := mem.Get8(0)
	assert.Equal(uint8(0x01), v)

	// Partial stores are refused outright.
	err = mem.Store(0xfe, []byte{0xaa, 0xbb, 0xcc})
	assert.ErrorIs(err, ErrOutOfBounds{})
	v, _ = mem.Get8(0xfe)
	assert.Equal(uint8(0), v)

	empty, err := mem.Load(0x100, 0)
	assert.NoError(err)
	assert.Empty(empty)
}

func TestMemory_Window(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(0x10)
	assert.NoError(mem.Store(0x0c, []byte{1, 2, 3, 4}))

	assert.Equal([]byte{3, 4}, mem.Window(0x0e, 8))
	assert.Nil(mem.Window(0x10, 4))
	assert.Nil(mem.Window(0, 0))

	mem.Reset()
	assert.Equal([]byte{0, 0}, mem.Window(0x0e, 2))
}

func TestMemory_String(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(0x20)
	assert.NoError(mem.Store(0, []byte{1, 2, 3}))
	assert.Equal("Memory(32)[1, 2, 3, 0, 0, 0, 0, 0, 0, 0]", mem.String())
}
