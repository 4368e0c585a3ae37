package nmea

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// Coordinate is an angle in signed decimal degrees. Positive values are
// North or East.
type Coordinate float32

// Degrees returns the coordinate as float64 degrees
func (c Coordinate) Degrees() float64 {
	return float64(c)
}

// Format renders the coordinate as degrees, minutes and seconds followed
// by the hemisphere letter, e.g. Format('N', 'S') gives 49°16'27"N.
func (c Coordinate) Format(positive, negative byte) string {
	deg := math.Abs(float64(c))
	whole := math.Floor(deg)
	minutes := (deg - whole) * 60
	seconds := (minutes - math.Floor(minutes)) * 60

	hemisphere := positive
	if c < 0 {
		hemisphere = negative
	}
	return fmt.Sprintf("%d°%d'%d\"%c", int(whole), int(minutes), int(seconds), hemisphere)
}

// DecodeCoordinate decodes a "ddmm.mm,d" pair of fields. The integer part
// holds the degrees followed by two digits of whole minutes, so both
// latitude (ddmm) and longitude (dddmm) layouts are accepted.
//
// An empty value decodes to 0 without error.
// TODO: report an absent coordinate distinctly from 0°.
func DecodeCoordinate(c *Cursor) (Coordinate, error) {
	if b, ok := c.Peek(); !ok || b == Separator {
		if ok {
			c.Next()
			if b, ok := c.Peek(); ok && b != Separator {
				if _, err := decodeHemisphere(c); err != nil {
					return 0, err
				}
			}
		}
		return 0, nil
	}

	start := c.Offset()
	value, err := c.TakeUntil(Separator)
	if err != nil {
		return 0, err
	}
	if err := c.Expect(Separator); err != nil {
		return 0, err
	}
	hemisphere, err := decodeHemisphere(c)
	if err != nil {
		return 0, err
	}

	intLen := bytes.IndexByte(value, '.')
	if intLen < 0 {
		intLen = len(value)
	}
	if intLen < 2 {
		return 0, ErrIncorrectLength
	}
	for i, b := range value[:intLen] {
		if !isDigit(b) {
			return 0, &UnexpectedCharError{Char: b, Offset: start + i}
		}
	}

	var degrees float64
	if intLen > 2 {
		d, err := strconv.ParseUint(string(value[:intLen-2]), 10, 16)
		if err != nil {
			return 0, fmt.Errorf("%w %q: %w", ErrInvalidNumber, value, err)
		}
		degrees = float64(d)
	}
	minutes, err := strconv.ParseFloat(string(value[intLen-2:]), 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrInvalidFloat, value, err)
	}

	out := degrees + minutes/60
	if hemisphere == 'S' || hemisphere == 'W' {
		out = -out
	}
	return Coordinate(out), nil
}

func decodeHemisphere(c *Cursor) (byte, error) {
	offset := c.Offset()
	b, err := c.Next()
	if err != nil {
		return 0, err
	}
	switch b {
	case 'N', 'S', 'E', 'W':
		return b, nil
	default:
		return 0, &UnexpectedCharError{Char: b, Offset: offset}
	}
}
