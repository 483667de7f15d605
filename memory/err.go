package memory

import (
	"github.com/ezrec/z80cycle/translate"
)

var f = translate.From

// ErrOutOfBounds is returned when an access would touch bytes past the
// end of the backing array.
type ErrOutOfBounds struct {
	Addr     uint32 // First byte of the access.
	Size     int    // Number of bytes accessed.
	Capacity int    // Capacity of the memory.
}

func (err ErrOutOfBounds) Error() string {
	return f("memory access 0x%05x+%v out of bounds (capacity 0x%05x)", err.Addr, err.Size, err.Capacity)
}

// Is matches any ErrOutOfBounds, regardless of address.
func (err ErrOutOfBounds) Is(target error) (ok bool) {
	_, ok = target.(ErrOutOfBounds)
	return
}
