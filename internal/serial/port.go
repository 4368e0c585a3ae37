package serial

import (
	"fmt"
	"io"
	"time"

	goserial "github.com/jacobsa/go-serial/serial"
)

// maxTimeout is the longest inter-character timeout termios can express
// (VTIME is a byte counting tenths of a second)
const maxTimeout = 25500 * time.Millisecond

// Options selects the device and line settings. The line is always 8N1.
type Options struct {
	Device  string
	Baud    int
	Timeout time.Duration
}

// Open opens the serial device. With a non-zero Timeout a read that sees
// no data for that long returns io.EOF, which ends a line reader.
func Open(opts Options) (io.ReadWriteCloser, error) {
	o, err := openOptions(opts)
	if err != nil {
		return nil, err
	}
	port, err := goserial.Open(o)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", opts.Device, err)
	}
	return port, nil
}

func openOptions(opts Options) (goserial.OpenOptions, error) {
	if opts.Device == "" {
		return goserial.OpenOptions{}, fmt.Errorf("no serial device given")
	}
	if opts.Baud <= 0 {
		return goserial.OpenOptions{}, fmt.Errorf("invalid baud rate %d", opts.Baud)
	}

	o := goserial.OpenOptions{
		PortName:   opts.Device,
		BaudRate:   uint(opts.Baud),
		DataBits:   8,
		StopBits:   1,
		ParityMode: goserial.PARITY_NONE,
	}

	timeout := opts.Timeout
	if timeout > maxTimeout {
		timeout = maxTimeout
	}
	// Rounded up to the 100ms granularity the driver accepts
	ms := (timeout.Milliseconds() + 99) / 100 * 100
	if ms == 0 {
		o.MinimumReadSize = 1
	} else {
		o.InterCharacterTimeout = uint(ms)
	}
	return o, nil
}
