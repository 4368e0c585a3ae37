package nmea

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"
)

// Separator between fields of a sentence.
const Separator = ','

// escapeChar introduces a two hex digit escape in text fields (^2C is ',').
const escapeChar = '^'

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isSignedDigit(b byte) bool {
	return isDigit(b) || b == '+' || b == '-'
}

func isFloatChar(b byte) bool {
	return isSignedDigit(b) || b == '.' || b == 'e' || b == 'E'
}

func decodeUint(c *Cursor, bits int) (uint64, error) {
	text := c.TakeWhile(isDigit)
	if len(text) == 0 {
		return 0, ErrIncomplete
	}
	v, err := strconv.ParseUint(string(text), 10, bits)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrInvalidNumber, text, err)
	}
	return v, nil
}

// DecodeUint8 decodes an unsigned decimal field
func DecodeUint8(c *Cursor) (uint8, error) {
	v, err := decodeUint(c, 8)
	return uint8(v), err
}

// DecodeUint16 decodes an unsigned decimal field
func DecodeUint16(c *Cursor) (uint16, error) {
	v, err := decodeUint(c, 16)
	return uint16(v), err
}

// DecodeInt8 decodes a decimal field with an optional sign
func DecodeInt8(c *Cursor) (int8, error) {
	text := c.TakeWhile(isSignedDigit)
	if len(text) == 0 {
		return 0, ErrIncomplete
	}
	v, err := strconv.ParseInt(string(text), 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrInvalidNumber, text, err)
	}
	return int8(v), nil
}

// DecodeFloat32 decodes a decimal field with optional sign, fraction and
// exponent
func DecodeFloat32(c *Cursor) (float32, error) {
	text := c.TakeWhile(isFloatChar)
	if len(text) == 0 {
		return 0, ErrIncomplete
	}
	v, err := strconv.ParseFloat(string(text), 32)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrInvalidFloat, text, err)
	}
	return float32(v), nil
}

// DecodeString consumes a text field up to the next separator or the end
// of input and resolves ^HH escapes.
func DecodeString(c *Cursor) (string, error) {
	start := c.Offset()
	raw := c.TakeUntilOrEnd(Separator)

	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] != escapeChar {
			out = append(out, raw[i])
			continue
		}
		if i+2 >= len(raw) {
			return "", &UnexpectedCharError{Char: raw[i], Offset: start + i}
		}
		v, err := strconv.ParseUint(string(raw[i+1:i+3]), 16, 8)
		if err != nil {
			return "", &UnexpectedCharError{Char: raw[i+1], Offset: start + i + 1}
		}
		out = append(out, byte(v))
		i += 2
	}

	if !utf8.Valid(out) {
		return "", ErrNonUTF8
	}
	return string(out), nil
}

// fieldReader drives a sentence decode: each call decodes one field and
// then consumes the separator that follows it, or accepts end of input.
// The first failure sticks and turns every later call into a no-op.
type fieldReader struct {
	c   *Cursor
	err error
}

func newFieldReader(data []byte) *fieldReader {
	return &fieldReader{c: NewCursor(data)}
}

// separator consumes a field separator. End of input is accepted so the
// last field of a sentence needs no special casing.
func (r *fieldReader) separator() {
	if r.err != nil {
		return
	}
	b, ok := r.c.Peek()
	if !ok {
		return
	}
	if b != Separator {
		r.err = &UnexpectedCharError{Char: b, Offset: r.c.Offset()}
		return
	}
	r.c.Next()
}

// more reports whether another field can be read
func (r *fieldReader) more() bool {
	return r.err == nil && !r.c.Done()
}

// fail records err unless an earlier failure is already recorded
func (r *fieldReader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// literal consumes a fixed unit letter such as the 'T' in VTG. A blank
// field is accepted.
func (r *fieldReader) literal(b byte) {
	if r.err != nil {
		return
	}
	if next, ok := r.c.Peek(); ok && next != Separator {
		r.err = r.c.Expect(b)
	}
	r.separator()
}

// finish returns the sticky error or asserts the input was fully consumed
func (r *fieldReader) finish() error {
	if r.err != nil {
		return r.err
	}
	return r.c.AssertEmpty()
}

func field[T any](r *fieldReader, decode func(*Cursor) (T, error)) T {
	var zero T
	if r.err != nil {
		return zero
	}
	v, err := decode(r.c)
	if err != nil {
		r.err = err
		return zero
	}
	r.separator()
	return v
}

// optional decodes a field that may be blank. A blank field yields nil.
func optional[T any](r *fieldReader, decode func(*Cursor) (T, error)) *T {
	if r.err != nil {
		return nil
	}
	v, err := decode(r.c)
	if errors.Is(err, ErrIncomplete) {
		r.separator()
		return nil
	}
	if err != nil {
		r.err = err
		return nil
	}
	r.separator()
	return &v
}
