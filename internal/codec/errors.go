package codec

import (
	"errors"
	"fmt"
)

var (
	ErrTruncated      = errors.New("unexpected end of data")
	ErrBadTag         = errors.New("invalid optional tag")
	ErrLengthOverflow = errors.New("length prefix exceeds remaining data")
	ErrTrailingData   = errors.New("trailing data after last order")
	ErrTooDeep        = errors.New("products nested too deeply")
)

// DecodeError locates a decode failure in the input.
type DecodeError struct {
	Offset int
	Field  string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s at byte %d: %v", e.Field, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
