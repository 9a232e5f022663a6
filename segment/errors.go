package segment

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCycle  = errors.New("cycle source has no elements")
	ErrNegative    = errors.New("count or target is negative")
	ErrUnknownKind = errors.New("unknown segment kind")
	ErrTooLong     = errors.New("array length exceeds limit")
	ErrOverrun     = errors.New("write past end of buffer")
	ErrMismatch    = errors.New("fill does not match inferred length")
	ErrArrayShape  = errors.New("array type does not match evaluated values")
)

// SegmentError ties an evaluation failure to the segment that caused it.
type SegmentError struct {
	Index int
	Kind  Kind
	Err   error
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("segment %d (%s): %v", e.Index, e.Kind, e.Err)
}

func (e *SegmentError) Unwrap() error {
	return e.Err
}
