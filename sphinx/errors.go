package sphinx

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEncoding is reported when input is not valid UTF-8.
	ErrInvalidEncoding = errors.New("invalid character encoding")
	// ErrTruncated is reported when input could not be read completely.
	ErrTruncated = errors.New("truncated input")
)

// ParseError is fatal byte or tokenizer level failure. Conversion is aborted
// and no partial output is returned.
type ParseError struct {
	Offset int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("unable to parse document: %v", e.Err)
	}
	return fmt.Sprintf("unable to parse document at offset %d: %v", e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
