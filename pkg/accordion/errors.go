package accordion

import (
	"errors"
	"fmt"
)

// ErrNotLoaded is returned by cursor moves issued before Load.
var ErrNotLoaded = errors.New("accordion not loaded")

// InvalidCountError is returned by Load for a negative item count.
type InvalidCountError struct {
	Count int
}

func (e *InvalidCountError) Error() string {
	return fmt.Sprintf("invalid item count %d: must not be negative", e.Count)
}

// IndexOutOfRangeError is returned when an operation addresses an index
// outside [0, Count). Correct event resolution never produces one, so callers
// should treat it as a programming error.
type IndexOutOfRangeError struct {
	Index int
	Count int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Count)
}

func checkIndex(index, count int) error {
	if index < 0 || index >= count {
		return &IndexOutOfRangeError{Index: index, Count: count}
	}
	return nil
}
