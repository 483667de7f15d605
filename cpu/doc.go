// Package cpu implements the instruction cycle engine and assembler for a
// Z80 family microprocessor.
//
// The Machine advances one pipeline state per Tick: Fetch reads the
// opcode byte at PC, Decode splits it into its x/y/z bit fields and looks
// it up in the decode Table, Exec reads any trailing operand bytes and
// applies the Instruction to the register file and data memory, and
// Writeback retires it. An instruction therefore completes every four
// ticks.
//
// Operand bytes follow the opcode in the instruction stream. 16-bit
// immediates are little-endian there, while 16-bit values in memory
// are big-endian.
//
// The assembler encodes exactly the instructions the decode table knows,
// with labels, equates and compile-time expressions.
package cpu
