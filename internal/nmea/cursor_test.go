package nmea

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_NextAndPeek(t *testing.T) {
	c := NewCursor([]byte("ab"))

	b, ok := c.Peek()
	assert.True(t, ok)
	assert.Equal(t, byte('a'), b)

	b, err := c.Next()
	require.NoError(t, err)
	assert.Equal(t, byte('a'), b)

	b, err = c.Next()
	require.NoError(t, err)
	assert.Equal(t, byte('b'), b)

	_, ok = c.Peek()
	assert.False(t, ok)

	_, err = c.Next()
	assert.ErrorIs(t, err, ErrIncorrectLength)
	assert.True(t, c.Done())
}

func TestCursor_NextN(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		n       int
		want    string
		wantErr bool
	}{
		{name: "Exact length", input: "1234", n: 4, want: "1234"},
		{name: "Prefix", input: "1234", n: 2, want: "12"},
		{name: "Too short", input: "12", n: 3, wantErr: true},
		{name: "Zero", input: "12", n: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCursor([]byte(tt.input))
			got, err := c.NextN(tt.n)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrIncorrectLength)
				assert.Equal(t, 0, c.Offset())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
			assert.Equal(t, tt.n, c.Offset())
		})
	}
}

func TestCursor_Expect(t *testing.T) {
	c := NewCursor([]byte("$GP"))
	require.NoError(t, c.Expect('$'))
	require.NoError(t, c.ExpectSequence([]byte("G")))

	err := c.Expect('X')
	assert.ErrorIs(t, err, ErrUnexpectedChar)

	var charErr *UnexpectedCharError
	require.ErrorAs(t, err, &charErr)
	assert.Equal(t, byte('P'), charErr.Char)
	assert.Equal(t, 2, charErr.Offset)
}

func TestCursor_SkipWhile(t *testing.T) {
	c := NewCursor([]byte("0049"))
	assert.False(t, c.SkipIf('4'))
	c.SkipWhile('0')
	assert.Equal(t, "49", string(c.Remaining()))
}

func TestCursor_TakeUntil(t *testing.T) {
	c := NewCursor([]byte("4916.45,N"))

	got, err := c.TakeUntil(',')
	require.NoError(t, err)
	assert.Equal(t, "4916.45", string(got))

	// Delimiter is left for the caller
	b, _ := c.Peek()
	assert.Equal(t, byte(','), b)

	c.Next()
	_, err = c.TakeUntil(',')
	assert.ErrorIs(t, err, ErrIncorrectLength)
	assert.Equal(t, "N", string(c.Remaining()))

	assert.Equal(t, "N", string(c.TakeUntilOrEnd(',')))
	assert.True(t, c.Done())
	assert.NoError(t, c.AssertEmpty())
}

func TestCursor_TakeWhile(t *testing.T) {
	c := NewCursor([]byte("123abc"))
	assert.Equal(t, "123", string(c.TakeWhile(isDigit)))
	assert.Equal(t, "", string(c.TakeWhile(isDigit)))
	assert.ErrorIs(t, c.AssertEmpty(), ErrRemainingData)
}
