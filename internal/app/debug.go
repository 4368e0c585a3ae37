package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"navigator/internal/nmea"
)

// DebugOptions controls the one-shot decode dump
type DebugOptions struct {
	// Raw echoes each line, quoted, before its decoded form
	Raw bool
	// IgnoreErrors prints decode errors to errOut and keeps going
	IgnoreErrors bool
}

// Debug prints every decoded message of src to out. Without IgnoreErrors
// the first decode error stops the dump and is returned.
func Debug(ctx context.Context, src io.Reader, out, errOut io.Writer, opts DebugOptions) error {
	return readLines(ctx, src, func(line []byte, err error) error {
		if opts.Raw {
			fmt.Fprintf(out, "%q\n", line)
		}

		var msg nmea.Message
		if err == nil {
			msg, err = nmea.Decode(line)
		}
		if err != nil {
			if !opts.IgnoreErrors {
				return fmt.Errorf("failed to decode %q: %w", line, err)
			}
			fmt.Fprintf(errOut, "Error: %v\n", err)
			return nil
		}

		fmt.Fprintln(out, FormatMessage(msg))
		return nil
	})
}

// FormatMessage renders a message as talker, type and JSON fields
func FormatMessage(msg nmea.Message) string {
	body, err := json.Marshal(msg.Sentence)
	if err != nil {
		body = []byte(fmt.Sprintf("%+v", msg.Sentence))
	}
	return fmt.Sprintf("%s %s %s", msg.Talker, msg.Type(), body)
}
