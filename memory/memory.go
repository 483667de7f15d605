// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package memory provides the byte addressable storage used for both
// instruction and data memory.
//
// Words are stored big-endian: the byte at the lower address is the
// high byte of the value.
package memory

import (
	"fmt"
	"strings"
)

const (
	DefaultCapacity = 131072 // Bytes in a default memory.
	debugBytes      = 10     // Bytes shown by String().
)

// Width is the size of a single access, in bytes.
type Width int

const (
	Byte = Width(1) // 8-bit access.
	Word = Width(2) // 16-bit big-endian access.
)

// Addressable is the contract the engine reads and writes memory through.
type Addressable interface {
	// Get reads a value of the given width.
	Get(addr uint32, width Width) (value uint16, err error)
	// Set writes a value of the given width, truncated to that width.
	Set(addr uint32, width Width, value uint16) (err error)
	// Store copies a block of bytes in at addr.
	Store(addr uint32, data []byte) (err error)
	// Load copies count bytes out from addr.
	Load(addr uint32, count int) (data []byte, err error)
}

// Memory is a fixed capacity byte array.
type Memory struct {
	data []byte
}

var _ Addressable = (*Memory)(nil)

// NewMemory creates a zeroed memory of capacity bytes.
func NewMemory(capacity int) (mem *Memory) {
	mem = &Memory{
		data: make([]byte, capacity),
	}

	return
}

// Capacity returns the size of the memory in bytes.
func (mem *Memory) Capacity() int {
	return len(mem.data)
}

// Reset zeroes the memory.
func (mem *Memory) Reset() {
	clear(mem.data)
}

// check verifies that [addr, addr+size) lies within the memory.
func (mem *Memory) check(addr uint32, size int) (err error) {
	if size < 0 || uint64(addr)+uint64(size) > uint64(len(mem.data)) {
		err = ErrOutOfBounds{Addr: addr, Size: size, Capacity: len(mem.data)}
	}

	return
}

// Get reads an 8-bit or 16-bit value.
func (mem *Memory) Get(addr uint32, width Width) (value uint16, err error) {
	switch width {
	case Byte:
		var v8 uint8
		v8, err = mem.Get8(addr)
		value = uint16(v8)
	case Word:
		value, err = mem.Get16(addr)
	default:
		err = ErrOutOfBounds{Addr: addr, Size: int(width), Capacity: len(mem.data)}
	}

	return
}

// Set writes an 8-bit or 16-bit value.
func (mem *Memory) Set(addr uint32, width Width, value uint16) (err error) {
	switch width {
	case Byte:
		err = mem.Set8(addr, uint8(value))
	case Word:
		err = mem.Set16(addr, value)
	default:
		err = ErrOutOfBounds{Addr: addr, Size: int(width), Capacity: len(mem.data)}
	}

	return
}

// Get8 reads a single byte.
func (mem *Memory) Get8(addr uint32) (value uint8, err error) {
	err = mem.check(addr, 1)
	if err != nil {
		return
	}

	value = mem.data[addr]
	return
}

// Set8 writes a single byte.
func (mem *Memory) Set8(addr uint32, value uint8) (err error) {
	err = mem.check(addr, 1)
	if err != nil {
		return
	}

	mem.data[addr] = value
	return
}

// Get16 reads a big-endian word.
func (mem *Memory) Get16(addr uint32) (value uint16, err error) {
	err = mem.check(addr, 2)
	if err != nil {
		return
	}

	value = uint16(mem.data[addr])<<8 | uint16(mem.data[addr+1])
	return
}

// Set16 writes a big-endian word.
func (mem *Memory) Set16(addr uint32, value uint16) (err error) {
	err = mem.check(addr, 2)
	if err != nil {
		return
	}

	mem.data[addr] = uint8(value >> 8)
	mem.data[addr+1] = uint8(value & 0xff)
	return
}

// Store copies data into memory at addr. Nothing is written unless the
// whole block fits.
func (mem *Memory) Store(addr uint32, data []byte) (err error) {
	err = mem.check(addr, len(data))
	if err != nil {
		return
	}

	copy(mem.data[addr:], data)
	return
}

// Load returns a copy of count bytes at addr.
func (mem *Memory) Load(addr uint32, count int) (data []byte, err error) {
	err = mem.check(addr, count)
	if err != nil {
		return
	}

	data = make([]byte, count)
	copy(data, mem.data[addr:])
	return
}

// Window returns a copy of up to count bytes at addr, clamped to the
// end of memory. Used for diagnostic dumps.
func (mem *Memory) Window(addr uint32, count int) (data []byte) {
	if count <= 0 || uint64(addr) >= uint64(len(mem.data)) {
		return
	}

	end := min(uint64(addr)+uint64(count), uint64(len(mem.data)))
	data = make([]byte, end-uint64(addr))
	copy(data, mem.data[addr:end])

	return
}

// String shows the capacity and the first few bytes.
func (mem *Memory) String() string {
	var words []string
	for _, v := range mem.Window(0, debugBytes) {
		words = append(words, fmt.Sprintf("%d", v))
	}

	return fmt.Sprintf("Memory(%d)[%s]", len(mem.data), strings.Join(words, ", "))
}
