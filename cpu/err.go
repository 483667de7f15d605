package cpu

import (
	"errors"

	"github.com/ezrec/z80cycle/translate"
)

var f = translate.From

var (
	// Pipeline errors
	ErrDecode       = errors.New(f("decode"))
	ErrEmptyOpcode  = errors.New(f("opcode empty"))
	ErrExec         = errors.New(f("exec"))
	ErrFetch        = errors.New(f("fetch"))
	ErrOperandBytes = errors.New(f("operand bytes missing"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrOrgSyntax          = errors.New(f(".org syntax"))
	ErrOrgOverlap         = errors.New(f(".org overlaps previous code"))
	ErrDataSyntax         = errors.New(f(".db syntax"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrOperandCount       = errors.New(f("too many operands"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
)

// IsProtocolError is true when err reports misuse of the Tick API rather
// than a fault in the program being executed.
func IsProtocolError(err error) bool {
	return errors.Is(err, ErrDecode) && errors.Is(err, ErrEmptyOpcode)
}

// ErrDecodeMiss reports an opcode with no decode table entry. It is only
// logged; the engine runs the no-op placeholder in its place.
type ErrDecodeMiss uint8

func (err ErrDecodeMiss) Error() string {
	x, y, z := Split(uint8(err))
	return f("opcode 0x%02x (x=%v y=%v z=%v) not implemented", uint8(err), x, y, z)
}

// ErrOpcode locates an error to the opcode being executed.
type ErrOpcode struct {
	Opcode      uint8
	Instruction Instruction
}

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%02x %v", eo.Opcode, eo.Instruction.String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrUnsupportedOperandForm is returned for an operation, or a
// combination of operands, that has no defined semantics.
type ErrUnsupportedOperandForm struct {
	Operation Operation
}

func (err ErrUnsupportedOperandForm) Error() string {
	return f("unsupported operand form '%v'", err.Operation.String())
}

func (err ErrUnsupportedOperandForm) Is(target error) (ok bool) {
	_, ok = target.(ErrUnsupportedOperandForm)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrOperandInvalid is returned when an operand cannot be parsed.
type ErrOperandInvalid string

func (err ErrOperandInvalid) Error() string {
	return f("operand '%v' invalid", string(err))
}

// ErrValueRange is returned when a value does not fit its encoding.
type ErrValueRange struct {
	Value int64
	Bits  int
}

func (err ErrValueRange) Error() string {
	return f("value %v does not fit in %v bits", err.Value, err.Bits)
}
