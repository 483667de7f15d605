// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/z80cycle/register"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":    "0",
	"PREFIX_IX": fmt.Sprintf("%#x", PREFIX_IX),
	"PREFIX_IY": fmt.Sprintf("%#x", PREFIX_IY),
}

const (
	equateDepth = 8 // Maximum equate-of-equate expansion.
	addrLimit   = 0x10000
)

// linkForm is how a label value is patched into the code.
type linkForm int

const (
	linkImm8   = linkForm(iota) // 8-bit value.
	linkImm16                   // 16-bit value, low byte first.
	linkAddr16                  // 16-bit address, high byte first.
)

// link is a reference to a label not yet defined.
type link struct {
	opcode int // Index into Assembler.Opcode.
	offset int // Byte offset in the opcode.
	form   linkForm
	label  string
}

// Assembler is a single pass assembler for the instructions known to a
// decode table.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Table   *Table   // Decode table to encode for; DefaultTable if nil.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to addresses.
	Equate    map[string]string // Map of equates.

	origin int    // Address of the next opcode.
	links  []link // Forward label references.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// table returns the decode table in use.
func (asm *Assembler) table() *Table {
	if asm.Table == nil {
		return DefaultTable
	}
	return asm.Table
}

// isIdentifier is true for words that could name a label or equate.
func isIdentifier(word string) bool {
	if len(word) == 0 {
		return false
	}
	for n, c := range word {
		if c == '_' || unicode.IsLetter(c) || (n > 0 && unicode.IsDigit(c)) {
			continue
		}
		return false
	}
	return true
}

// equate expands a word through the equates.
func (asm *Assembler) equate(word string) string {
	for range equateDepth {
		value, ok := asm.Equate[word]
		if !ok {
			break
		}
		word = strings.TrimSpace(value)
	}
	return word
}

// valueOf returns the value of a simple word. A word naming a label
// that is not yet defined returns the label instead.
func (asm *Assembler) valueOf(word string) (value int64, label string, err error) {
	word = asm.equate(strings.TrimSpace(word))
	if len(word) == 0 {
		err = ErrParseNumber(word)
		return
	}

	addr, ok := asm.Label[word]
	if ok {
		value = int64(addr)
		return
	}

	value, err = strconv.ParseInt(word, 0, 64)
	if err == nil {
		return
	}

	err = nil
	if isIdentifier(word) {
		label = word
		return
	}

	err = ErrParseNumber(word)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v, label, _err := asm.valueOf(str)
		if _err != nil || len(label) != 0 {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v)
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(addr)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// expandParens replaces every $(...) with its value. Parentheses inside
// the expression nest.
func (asm *Assembler) expandParens(line string) (out string, err error) {
	for {
		start := strings.Index(line, "$(")
		if start < 0 {
			out += line
			return
		}

		depth := 0
		end := -1
		for n := start + 1; n < len(line); n++ {
			switch line[n] {
			case '(':
				depth++
			case ')':
				depth--
			}
			if depth == 0 {
				end = n
				break
			}
		}
		if end < 0 {
			err = ErrParseExpression(line[start+2:])
			return
		}

		var value int64
		value, err = asm.parenEval(line[start+2 : end])
		if err != nil {
			return
		}

		out += line[:start] + strconv.FormatInt(value, 10)
		line = line[end+1:]
	}
}

// charRe matches character constants such as 'a' or '\n'.
var charRe = regexp.MustCompile(`'\\?[^']'`)

// expandChars replaces character constants with their values.
func expandChars(line string) string {
	return charRe.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			case "0":
				str = "\000"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})
}

// stripComment removes a trailing ; comment, ignoring ';' in quotes.
func stripComment(text string) string {
	quoted := false
	for n, c := range text {
		switch c {
		case '\'':
			quoted = !quoted
		case ';':
			if !quoted {
				return text[:n]
			}
		}
	}
	return text
}

// operand is a parsed assembler operand.
type operand struct {
	Operand        // Shape of the operand.
	value   bool   // Plain value, encoded as Imm8 or Imm16.
	number  int64  // Value, address or displacement.
	label   string // Label to link, if the value is not yet known.
	text    string // Source text.
}

// addrOf parses the inside of a (...) memory operand.
func (asm *Assembler) addrOf(inner string) (op operand, err error) {
	inner = asm.equate(strings.TrimSpace(inner))

	name, rerr := register.ParseName(inner)
	if rerr == nil {
		if !name.Is16() {
			err = ErrOperandInvalid(inner)
			return
		}
		op.Operand = Mem(Reg16(name))
		return
	}

	lower := strings.ToLower(inner)
	if len(lower) > 2 && (strings.HasPrefix(lower, "ix") || strings.HasPrefix(lower, "iy")) {
		sign := lower[2]
		if sign == '+' || sign == '-' {
			name, _ = register.ParseName(lower[:2])
			var label string
			op.number, label, err = asm.valueOf(inner[3:])
			if err != nil {
				return
			}
			if len(label) != 0 {
				err = ErrLabelMissing(label)
				return
			}
			if sign == '-' {
				op.number = -op.number
			}
			op.Operand = Mem(Reg16(name))
			return
		}
	}

	op.Operand = Mem(Imm16())
	op.number, op.label, err = asm.valueOf(inner)
	return
}

// parseOperand parses a single operand.
func (asm *Assembler) parseOperand(text string) (op operand, err error) {
	text = asm.equate(strings.TrimSpace(text))

	defer func() {
		op.text = text
	}()

	name, rerr := register.ParseName(text)
	if rerr == nil {
		if name.Is8() {
			op.Operand = Reg(name)
		} else {
			op.Operand = Reg16(name)
		}
		return
	}

	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		op, err = asm.addrOf(text[1 : len(text)-1])
		return
	}

	op.value = true
	op.Operand = Imm16()
	op.number, op.label, err = asm.valueOf(text)
	return
}

// index returns the index register an operand uses, if any.
func (op operand) index() (index register.Name, ok bool) {
	switch {
	case op.IsIndex():
		return op.Reg, true
	case op.Kind == OPERAND_MEM && op.Addr != nil && op.Addr.IsIndex():
		return op.Addr.Reg, true
	}
	return
}

// unindexed returns the shape of an operand with IX or IY replaced by HL.
func (op operand) unindexed() Operand {
	switch {
	case op.IsIndex():
		return Reg16(register.HL)
	case op.Kind == OPERAND_MEM && op.Addr != nil && op.Addr.IsIndex():
		return Mem(Reg16(register.HL))
	}
	return op.Operand
}

// fits is true if an operand can be used where the table has want.
func (op operand) fits(want Operand, shape Operand) bool {
	if op.value {
		return want.Kind == OPERAND_IMM8 || want.Kind == OPERAND_IMM16
	}
	return shape.Equal(want)
}

// match finds the opcode for a mnemonic and its operands.
func (asm *Assembler) match(mnemonic string, ops []operand) (opcode uint8, inst Instruction, prefix uint8, err error) {
	var index register.Name
	var indexed bool

	shapes := make([]Operand, len(ops))
	for n, op := range ops {
		shapes[n] = op.unindexed()
		idx, ok := op.index()
		if !ok {
			continue
		}
		if indexed && idx != index {
			err = ErrOperandInvalid(op.text)
			return
		}
		index, indexed = idx, true
	}

	for code, entry := range asm.table().All() {
		if entry.Kind.String() != mnemonic {
			continue
		}

		want := []Operand{}
		if entry.Kind != OP_NOP {
			want = []Operand{entry.Dst, entry.Src}
		}
		if len(want) != len(ops) {
			continue
		}

		found := true
		for n := range want {
			if !ops[n].fits(want[n], shapes[n]) {
				found = false
				break
			}
		}
		if !found {
			continue
		}

		if indexed {
			var ok bool
			entry, ok = Indexed(entry, index)
			if !ok {
				continue
			}
			prefix, _ = PrefixOf(index)
		}

		opcode = code
		inst = entry
		return
	}

	err = ErrInstructionInvalid
	return
}

// checkRange verifies value fits in bits, as either signed or unsigned.
func checkRange(value int64, bits int, signed bool) (err error) {
	lo := -(int64(1) << (bits - 1))
	hi := int64(1)<<bits - 1
	if signed {
		hi = int64(1)<<(bits-1) - 1
	}
	if value < lo || value > hi {
		err = ErrValueRange{Value: value, Bits: bits}
	}
	return
}

// encode appends value in the given form.
func encode(code []byte, form linkForm, value int64) []byte {
	switch form {
	case linkImm8:
		code = append(code, uint8(value))
	case linkImm16:
		code = append(code, uint8(value), uint8(value>>8))
	case linkAddr16:
		code = append(code, uint8(value>>8), uint8(value))
	}
	return code
}

// assemble encodes a single instruction.
func (asm *Assembler) assemble(mnemonic string, ops []operand) (code []byte, links []link, err error) {
	opcode, inst, prefix, err := asm.match(mnemonic, ops)
	if err != nil {
		return
	}

	if prefix != 0 {
		code = append(code, prefix)
	}
	code = append(code, opcode)

	var trailing *operand
	for n := range ops {
		op := &ops[n]
		if op.value || op.Kind == OPERAND_MEM && op.Addr != nil && (op.Addr.Kind == OPERAND_IMM16 || op.Addr.IsIndex()) {
			trailing = op
		}
	}

	if inst.Fetch == FETCH_NONE {
		return
	}
	if trailing == nil {
		err = ErrInstructionInvalid
		return
	}

	var form linkForm
	var bits int
	signed := false
	switch inst.Fetch {
	case FETCH_N:
		form, bits = linkImm8, 8
	case FETCH_D:
		form, bits, signed = linkImm8, 8, true
	case FETCH_NN:
		form, bits = linkImm16, 16
		if !trailing.value {
			form = linkAddr16
		}
	}

	if len(trailing.label) != 0 {
		links = append(links, link{offset: len(code), form: form, label: trailing.label})
		code = encode(code, form, 0)
		return
	}

	err = checkRange(trailing.number, bits, signed)
	if err != nil {
		return
	}

	code = encode(code, form, trailing.number)
	return
}

// splitWord splits the first whitespace delimited word from a line.
func splitWord(line string) (word string, rest string) {
	line = strings.TrimSpace(line)
	n := strings.IndexFunc(line, unicode.IsSpace)
	if n < 0 {
		return line, ""
	}
	return line[:n], strings.TrimSpace(line[n:])
}

// splitOperands splits a comma separated operand list.
func splitOperands(rest string) (ops []string) {
	if len(strings.TrimSpace(rest)) == 0 {
		return
	}
	for _, op := range strings.Split(rest, ",") {
		ops = append(ops, strings.TrimSpace(op))
	}
	return
}

// overlaps is true if any of [addr, addr+size) is inside already
// assembled code.
func (asm *Assembler) overlaps(addr int, size int) bool {
	for _, op := range asm.Opcode {
		if addr < op.Addr+len(op.Bytes) && op.Addr < addr+size {
			return true
		}
	}
	return false
}

// emit appends an opcode at the current origin.
func (asm *Assembler) emit(lineno int, words []string, code []byte, links []link) (err error) {
	if asm.origin+len(code) > addrLimit {
		err = ErrValueRange{Value: int64(asm.origin + len(code)), Bits: 16}
		return
	}

	if asm.overlaps(asm.origin, len(code)) {
		err = ErrOrgOverlap
		return
	}

	for _, l := range links {
		l.opcode = len(asm.Opcode)
		asm.links = append(asm.links, l)
	}

	asm.Opcode = append(asm.Opcode, Opcode{
		LineNo: lineno,
		Addr:   asm.origin,
		Words:  words,
		Bytes:  code,
	})
	asm.origin += len(code)

	return
}

// parseLine parses a single line of source.
func (asm *Assembler) parseLine(line string, lineno int) (err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	line = expandChars(line)

	line, err = asm.expandParens(line)
	if err != nil {
		return
	}

	word, rest := splitWord(line)
	for strings.HasSuffix(word, ":") {
		label := word[:len(word)-1]
		if !isIdentifier(label) {
			err = ErrOperandInvalid(label)
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = asm.origin
		word, rest = splitWord(rest)
	}

	if len(word) == 0 {
		return
	}

	mnemonic := strings.ToLower(word)
	args := splitOperands(rest)

	switch mnemonic {
	case ".equ":
		// .equ CONST VALUE
		fields := strings.Fields(rest)
		if len(fields) != 2 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[fields[0]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[fields[0]] = fields[1]
	case ".org":
		if len(args) != 1 {
			err = ErrOrgSyntax
			return
		}
		var value int64
		var label string
		value, label, err = asm.valueOf(args[0])
		if err != nil {
			return
		}
		if len(label) != 0 {
			err = ErrLabelMissing(label)
			return
		}
		if value < 0 || value >= addrLimit {
			err = ErrValueRange{Value: value, Bits: 16}
			return
		}
		if asm.overlaps(int(value), 1) {
			err = ErrOrgOverlap
			return
		}
		asm.origin = int(value)
	case ".db":
		if len(args) == 0 {
			err = ErrDataSyntax
			return
		}
		var code []byte
		var links []link
		for _, arg := range args {
			var value int64
			var label string
			value, label, err = asm.valueOf(arg)
			if err != nil {
				return
			}
			if len(label) != 0 {
				links = append(links, link{offset: len(code), form: linkImm8, label: label})
				value = 0
			}
			err = checkRange(value, 8, false)
			if err != nil {
				return
			}
			code = append(code, uint8(value))
		}
		err = asm.emit(lineno, append([]string{mnemonic}, args...), code, links)
	default:
		if len(args) > 2 {
			err = ErrOperandCount
			return
		}
		ops := make([]operand, len(args))
		for n, arg := range args {
			ops[n], err = asm.parseOperand(arg)
			if err != nil {
				return
			}
		}
		var code []byte
		var links []link
		code, links, err = asm.assemble(mnemonic, ops)
		if err != nil {
			return
		}
		err = asm.emit(lineno, append([]string{mnemonic}, args...), code, links)
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Opcode = asm.Opcode[:0]
	asm.links = asm.links[:0]
	asm.origin = 0
	asm.Label = make(map[string]int, 16)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))

		err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	for _, l := range asm.links {
		op := &asm.Opcode[l.opcode]
		lineno = op.LineNo
		line = strings.Join(op.Words, " ")

		addr, ok := asm.Label[l.label]
		if !ok {
			err = ErrLabelMissing(l.label)
			return
		}
		if l.form == linkImm8 {
			err = checkRange(int64(addr), 8, false)
			if err != nil {
				return
			}
		}
		copy(op.Bytes[l.offset:], encode(nil, l.form, int64(addr)))
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}
