package emulator

import (
	"github.com/ezrec/z80cycle/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	PC     uint16
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("pc %04x line %d %v", err.PC, err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrExpression is returned when an until expression cannot be evaluated.
type ErrExpression string

func (err ErrExpression) Error() string {
	return f("until expression '%v'", string(err))
}
