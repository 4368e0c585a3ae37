package nmea

import (
	"errors"
	"fmt"
)

// Decode error kinds. Every decoder in this package returns one of these
// (possibly wrapped), so callers can branch with errors.Is.
var (
	ErrMissingPrefix   = errors.New("nmea: sentence is missing the '$' prefix")
	ErrIncorrectLength = errors.New("nmea: input is not long enough")
	ErrInvalidChecksum = errors.New("nmea: checksum mismatch")
	ErrInvalidNumber   = errors.New("nmea: invalid integer")
	ErrInvalidFloat    = errors.New("nmea: invalid float")
	ErrUnknownType     = errors.New("nmea: unknown sentence type")
	ErrNonUTF8         = errors.New("nmea: text is not valid UTF-8")
	ErrUnexpectedChar  = errors.New("nmea: unexpected character")
	ErrRemainingData   = errors.New("nmea: sentence has remaining data")
	ErrIncomplete      = errors.New("nmea: field is empty")
)

// UnknownTypeError reports a sentence type code that has no decoder.
type UnknownTypeError struct {
	Code [3]byte
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("nmea: unknown sentence type %q", e.Code[:])
}

// Is matches ErrUnknownType.
func (e *UnknownTypeError) Is(target error) bool {
	return target == ErrUnknownType
}

// UnexpectedCharError reports the offending byte and its offset in the
// buffer being decoded.
type UnexpectedCharError struct {
	Char   byte
	Offset int
}

func (e *UnexpectedCharError) Error() string {
	return fmt.Sprintf("nmea: unexpected character %q at offset %d", e.Char, e.Offset)
}

// Is matches ErrUnexpectedChar.
func (e *UnexpectedCharError) Is(target error) bool {
	return target == ErrUnexpectedChar
}
