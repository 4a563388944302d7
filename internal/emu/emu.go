// Package emu assembles one Uxn machine, its device bus and the console
// device into a runnable frame. The frame is the machine's Port: device
// opcodes call up here and are routed by port high nibble.
package emu

import (
	"github.com/zboralski/tarsier/internal/devices"
	"github.com/zboralski/tarsier/internal/devices/console"
	"github.com/zboralski/tarsier/internal/log"
	"github.com/zboralski/tarsier/internal/rom"
	"github.com/zboralski/tarsier/internal/uxn"
)

// Emulator owns the machine and its devices. The machine and console
// hold back-references into the frame; neither outlives it.
type Emulator struct {
	machine *uxn.Machine
	bus     *devices.Bus
	console *console.Device

	log      *log.Logger
	onUpdate func()
}

// Option configures a frame at construction time.
type Option func(*settings)

type settings struct {
	consoleOpts []console.Option
	logger      *log.Logger
	stepLimit   int
}

// WithConsole passes options through to the console device (capture
// buffers, UI callback, alternate writers).
func WithConsole(opts ...console.Option) Option {
	return func(s *settings) {
		s.consoleOpts = append(s.consoleOpts, opts...)
	}
}

// WithLogger attaches a logger to the frame.
func WithLogger(l *log.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithStepLimit overrides the per-Eval step budget.
func WithStepLimit(n int) Option {
	return func(s *settings) {
		s.stepLimit = n
	}
}

// New builds a frame: zeroed machine, empty bus, console on slot 0x1.
func New(opts ...Option) *Emulator {
	s := &settings{logger: log.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	e := &Emulator{log: s.logger}
	e.machine = uxn.New(e)
	e.machine.Limit = s.stepLimit
	e.bus = devices.NewBus(e.machine)
	e.console = console.New(e.machine,
		append([]console.Option{console.WithLogger(s.logger)}, s.consoleOpts...)...)
	e.bus.Attach(devices.SlotConsole, e.console)
	return e
}

// Machine returns the owned machine.
func (e *Emulator) Machine() *uxn.Machine {
	return e.machine
}

// Console returns the owned console device.
func (e *Emulator) Console() *console.Device {
	return e.console
}

// Attach installs an additional device on a high-nibble slot (screen,
// datetime and friends are reserved but pluggable).
func (e *Emulator) Attach(slot byte, d devices.Device) {
	e.bus.Attach(slot, d)
}

// SetOnUpdate installs a host refresh callback, fired after loads and
// after console output so a UI can repaint.
func (e *Emulator) SetOnUpdate(fn func()) {
	e.onUpdate = fn
}

// Load validates a ROM, copies it to the reset vector and runs it.
func (e *Emulator) Load(data []byte) error {
	if err := rom.Validate(data); err != nil {
		return err
	}
	e.log.Debug("loading rom", log.Size(len(data)))
	e.machine.Load(data).Eval(uxn.ResetVector)
	e.update()
	return nil
}

// LoadFile loads a ROM from disk (raw or .ulz) and runs it.
func (e *Emulator) LoadFile(path string) error {
	data, err := rom.ReadFile(path)
	if err != nil {
		return err
	}
	return e.Load(data)
}

// Dei implements uxn.Port: device reads route by high nibble, unmapped
// ranges fall through to the device page.
func (e *Emulator) Dei(port byte) byte {
	return e.bus.Dei(port)
}

// Deo implements uxn.Port. The machine has already mirrored val into
// the device page.
func (e *Emulator) Deo(port, val byte) {
	e.bus.Deo(port, val)
	if port>>4 == devices.SlotConsole {
		e.update()
	}
}

func (e *Emulator) update() {
	if e.onUpdate != nil {
		e.onUpdate()
	}
}
