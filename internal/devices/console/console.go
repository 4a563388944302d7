// Package console implements the console device on ports 0x10..0x19:
// a ROM-installed input vector, one input mailbox byte, and single-byte
// write ports for stdout and stderr.
package console

import (
	"bytes"
	"io"
	"os"

	"github.com/zboralski/tarsier/internal/log"
	"github.com/zboralski/tarsier/internal/uxn"
)

// Console device page layout.
const (
	PortVector = 0x10 // big-endian short: input vector address
	PortRead   = 0x12 // last injected byte
	PortType   = 0x17 // kind of the last injection
	PortWrite  = 0x18 // stdout byte
	PortError  = 0x19 // stderr byte
)

// Injection kinds.
const (
	TypeNone  = 0x00
	TypeStdin = 0x01 // a normal character
	TypeEnd   = 0x04 // end of stream
)

// Device is the console. It is purely reactive: output happens on DEO to
// the write ports, input happens when the host calls Input and the ROM
// has installed a vector.
type Device struct {
	m   *uxn.Machine
	out io.Writer
	ew  io.Writer

	onOutput func(b byte, stderr bool)

	capture bool
	stdout  bytes.Buffer
	stderr  bytes.Buffer

	log *log.Logger
}

// Option configures a Device.
type Option func(*Device)

// WithWriters routes output to the given host streams.
func WithWriters(out, ew io.Writer) Option {
	return func(d *Device) {
		d.out = out
		d.ew = ew
	}
}

// WithCapture appends output to in-memory buffers instead of writing it
// anywhere. Frontends that post-process ROM output (the in-TUI
// assembler, tests) use this.
func WithCapture() Option {
	return func(d *Device) {
		d.capture = true
	}
}

// WithCallback forwards each output byte to a UI callback.
func WithCallback(fn func(b byte, stderr bool)) Option {
	return func(d *Device) {
		d.onOutput = fn
	}
}

// WithLogger attaches a logger for input/output tracing.
func WithLogger(l *log.Logger) Option {
	return func(d *Device) {
		d.log = l
	}
}

// New creates a console for the given machine. Default output mode is
// write-through to the process stdout/stderr.
func New(m *uxn.Machine, opts ...Option) *Device {
	d := &Device{
		m:   m,
		out: os.Stdout,
		ew:  os.Stderr,
		log: log.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dei serves reads from the console range straight off the device page.
func (d *Device) Dei(port byte) byte {
	return d.m.DevRead(port)
}

// Deo handles writes to the console range. Only the two output ports
// have behavior; the rest of the range is mailbox state.
func (d *Device) Deo(port byte) {
	switch port {
	case PortWrite:
		d.emit(d.m.DevRead(PortWrite), false)
	case PortError:
		d.emit(d.m.DevRead(PortError), true)
	}
}

func (d *Device) emit(b byte, stderr bool) {
	switch {
	case d.capture:
		if stderr {
			d.stderr.WriteByte(b)
		} else {
			d.stdout.WriteByte(b)
		}
	case d.onOutput != nil:
		d.onOutput(b, stderr)
	case stderr:
		d.ew.Write([]byte{b})
	default:
		d.out.Write([]byte{b})
	}
}

// Input delivers one byte to the running ROM: it publishes the byte and
// its kind in the device page, then reenters the machine at the input
// vector. A zero vector means the ROM has not installed a handler yet;
// the bytes stay buffered in the page and no code runs.
func (d *Device) Input(ch, kind byte) {
	vec := d.m.DevPeek16(PortVector)
	d.m.DevWrite(PortRead, ch)
	d.m.DevWrite(PortType, kind)
	d.log.Debug("console input", log.Char(ch), log.Vec(vec))
	if vec != 0 {
		d.m.Eval(vec)
	}
}

// InputLine injects each byte of s, then a terminating newline.
func (d *Device) InputLine(s string) {
	for i := 0; i < len(s); i++ {
		d.Input(s[i], TypeStdin)
	}
	d.Input('\n', TypeStdin)
}

// InputEnd signals end of stream.
func (d *Device) InputEnd() {
	d.Input(0, TypeEnd)
}

// Stdout returns the captured stdout bytes. Empty unless WithCapture.
func (d *Device) Stdout() []byte {
	return d.stdout.Bytes()
}

// Stderr returns the captured stderr bytes. Empty unless WithCapture.
func (d *Device) Stderr() []byte {
	return d.stderr.Bytes()
}

// ResetCapture clears both capture buffers.
func (d *Device) ResetCapture() {
	d.stdout.Reset()
	d.stderr.Reset()
}
