package app

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"navigator/internal/nmea"
)

// Stats counts what the reader has seen. Fields are updated atomically and
// may be read while the reader runs.
type Stats struct {
	Lines   atomic.Uint64
	Decoded atomic.Uint64
	Unknown atomic.Uint64
	Errors  atomic.Uint64
}

// Fields returns the counters as log fields
func (s *Stats) Fields() logrus.Fields {
	return logrus.Fields{
		"lines":   s.Lines.Load(),
		"decoded": s.Decoded.Load(),
		"unknown": s.Unknown.Load(),
		"errors":  s.Errors.Load(),
	}
}

// Handler receives each decoded message in stream order
type Handler interface {
	Handle(nmea.Message)
}

// LineRecorder receives every raw line before it is decoded
type LineRecorder interface {
	WriteLine(line []byte) error
}

// Reader runs the read-line, decode, apply loop
type Reader struct {
	logger   logrus.FieldLogger
	handler  Handler
	recorder LineRecorder
	stats    *Stats
}

// NewReader creates a reader feeding handler. recorder may be nil.
func NewReader(handler Handler, recorder LineRecorder, stats *Stats, logger logrus.FieldLogger) *Reader {
	if stats == nil {
		stats = &Stats{}
	}
	return &Reader{
		logger:   logger,
		handler:  handler,
		recorder: recorder,
		stats:    stats,
	}
}

// Run consumes src until it ends, fails or ctx is done. Unknown sentence
// types are skipped, other decode errors are logged and the loop goes on.
// The end of src is not an error.
func (r *Reader) Run(ctx context.Context, src io.Reader) error {
	err := readLines(ctx, src, func(line []byte, lineErr error) error {
		r.stats.Lines.Add(1)

		if lineErr != nil {
			r.stats.Errors.Add(1)
			r.logger.WithFields(logrus.Fields{
				"line":  string(line),
				"error": lineErr,
			}).Warn("Dropping line")
			return nil
		}

		if r.recorder != nil {
			if err := r.recorder.WriteLine(line); err != nil {
				r.logger.WithError(err).Warn("Failed to record line")
			}
		}

		msg, err := nmea.Decode(line)
		switch {
		case errors.Is(err, nmea.ErrUnknownType):
			r.stats.Unknown.Add(1)
			r.logger.WithError(err).Debug("Skipping sentence")
		case err != nil:
			r.stats.Errors.Add(1)
			r.logger.WithFields(logrus.Fields{
				"line":  string(line),
				"error": err,
			}).Warn("Failed to decode sentence")
		default:
			r.stats.Decoded.Add(1)
			r.handler.Handle(msg)
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.logger.WithFields(r.stats.Fields()).Info("Source ended")
	return nil
}

// MaxLineLength bounds a source line. NMEA allows 82 characters; the
// slack covers proprietary sentences.
const MaxLineLength = 256

// ErrLineTooLong is passed for a line longer than MaxLineLength. The rest
// of that line is discarded.
var ErrLineTooLong = errors.New("line too long")

// lineSplitter is a bufio.SplitFunc for CR/LF terminated lines that skips
// overlong lines instead of failing the scan
type lineSplitter struct {
	max        int
	discarding bool
	tooLong    bool
}

func (s *lineSplitter) split(data []byte, atEOF bool) (int, []byte, error) {
	s.tooLong = false
	i := bytes.IndexByte(data, '\n')

	if s.discarding {
		if i < 0 {
			return len(data), nil, nil
		}
		s.discarding = false
		return i + 1, nil, nil
	}

	if i >= 0 {
		line := bytes.TrimRight(data[:i], "\r")
		if len(line) > s.max {
			s.tooLong = true
			return i + 1, line[:s.max], nil
		}
		return i + 1, line, nil
	}
	if len(data) > s.max {
		s.tooLong = true
		s.discarding = true
		return len(data), data[:s.max], nil
	}
	if atEOF && len(data) > 0 {
		return len(data), bytes.TrimRight(data, "\r"), nil
	}
	return 0, nil, nil
}

// readLines calls fn for each non-empty line of src with its CR/LF
// terminator removed. An overlong line is passed truncated together with
// ErrLineTooLong. line is only valid during the call. ctx is checked
// between lines; a blocked read is only interrupted by closing src.
func readLines(ctx context.Context, src io.Reader, fn func(line []byte, err error) error) error {
	splitter := &lineSplitter{max: MaxLineLength}
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 4*MaxLineLength), 4*MaxLineLength)
	scanner.Split(splitter.split)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !scanner.Scan() {
			break
		}
		line := scanner.Bytes()
		var lineErr error
		if splitter.tooLong {
			lineErr = ErrLineTooLong
		}
		if len(line) == 0 {
			continue
		}
		if err := fn(line, lineErr); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to read source: %w", err)
	}
	return nil
}
