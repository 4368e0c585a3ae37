package nmea

import (
	"fmt"
	"strconv"
)

const (
	// Prefix starts every sentence
	Prefix = '$'
	// ChecksumSeparator precedes the two hex digit checksum
	ChecksumSeparator = '*'

	// MinSentenceLength is "$" + talker + type + "*" + checksum
	MinSentenceLength = 9
)

// Decode validates the "$...*HH" envelope of one line (without its CR/LF
// terminator), verifies the checksum and decodes the sentence it carries.
// Sentence types without a decoder fail with an *UnknownTypeError.
func Decode(line []byte) (Message, error) {
	if len(line) == 0 || line[0] != Prefix {
		return Message{}, ErrMissingPrefix
	}
	if len(line) < MinSentenceLength {
		return Message{}, ErrIncorrectLength
	}

	star := len(line) - 3
	if line[star] != ChecksumSeparator {
		return Message{}, &UnexpectedCharError{Char: line[star], Offset: star}
	}
	want, err := strconv.ParseUint(string(line[star+1:]), 16, 8)
	if err != nil {
		return Message{}, fmt.Errorf("%w %q: %w", ErrInvalidNumber, line[star+1:], err)
	}
	body := line[1:star]
	if !VerifyChecksum(body, byte(want)) {
		return Message{}, ErrInvalidChecksum
	}

	msg := Message{Talker: Talker{line[1], line[2]}}
	code := [3]byte{line[3], line[4], line[5]}

	// Field list starts after the comma following the type code
	fields := line[6:star]
	if len(fields) > 0 {
		if fields[0] != Separator {
			return Message{}, &UnexpectedCharError{Char: fields[0], Offset: 6}
		}
		fields = fields[1:]
	}

	msg.Sentence, err = decodeSentence(code, fields)
	if err != nil {
		return Message{}, err
	}
	return msg, nil
}

// Parse is Decode for a string line
func Parse(line string) (Message, error) {
	return Decode([]byte(line))
}

func decodeSentence(code [3]byte, fields []byte) (Sentence, error) {
	var (
		s   Sentence
		err error
	)
	switch string(code[:]) {
	case TypeGLL:
		s, err = DecodeGLL(fields)
	case TypeGSA:
		s, err = DecodeGSA(fields)
	case TypeGSV:
		s, err = DecodeGSV(fields)
	case TypeVTG:
		s, err = DecodeVTG(fields)
	case TypeTXT:
		s, err = DecodeTXT(fields)
	default:
		return nil, &UnknownTypeError{Code: code}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", code[:], err)
	}
	return s, nil
}
