package register

import (
	"github.com/ezrec/z80cycle/translate"
)

var f = translate.From

// ErrRegisterNotFound is returned when a selector does not name a
// register of the width requested.
type ErrRegisterNotFound Name

func (err ErrRegisterNotFound) Error() string {
	return f("register %v not found", Name(err).String())
}

// Is matches any ErrRegisterNotFound or ErrRegisterUnknown.
func (err ErrRegisterNotFound) Is(target error) (ok bool) {
	switch target.(type) {
	case ErrRegisterNotFound, ErrRegisterUnknown:
		ok = true
	}
	return
}

// ErrRegisterUnknown is returned when parsing an unknown register name.
type ErrRegisterUnknown string

func (err ErrRegisterUnknown) Error() string {
	return f("register '%v' unknown", string(err))
}

// Is matches any ErrRegisterNotFound or ErrRegisterUnknown.
func (err ErrRegisterUnknown) Is(target error) (ok bool) {
	switch target.(type) {
	case ErrRegisterNotFound, ErrRegisterUnknown:
		ok = true
	}
	return
}
