package nmea

import (
	"fmt"
	"strconv"
)

// Time is a UTC time of day as reported by the receiver
type Time struct {
	Hour   uint8
	Minute uint8
	Second float32
}

func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%05.2f", t.Hour, t.Minute, t.Second)
}

// MarshalText implements encoding.TextMarshaler
func (t Time) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// DecodeTime decodes a "hhmmss.ss" field. A blank field yields the zero
// Time; receivers without a fix leave it empty.
func DecodeTime(c *Cursor) (Time, error) {
	if b, ok := c.Peek(); !ok || b == Separator {
		return Time{}, nil
	}

	hour, err := decodeTwoDigits(c)
	if err != nil {
		return Time{}, err
	}
	minute, err := decodeTwoDigits(c)
	if err != nil {
		return Time{}, err
	}

	text := c.TakeUntilOrEnd(Separator)
	second, err := strconv.ParseFloat(string(text), 32)
	if err != nil {
		return Time{}, fmt.Errorf("%w %q: %w", ErrInvalidFloat, text, err)
	}

	return Time{Hour: hour, Minute: minute, Second: float32(second)}, nil
}

func decodeTwoDigits(c *Cursor) (uint8, error) {
	text, err := c.NextN(2)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(string(text), 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrInvalidNumber, text, err)
	}
	return uint8(v), nil
}
