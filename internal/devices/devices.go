// Package devices routes the machine's DEI/DEO traffic to host-side
// device handlers keyed by the port high nibble. Unmapped slots fall
// through to the device page, so a ROM can use any port range as plain
// scratch memory until a device claims it.
package devices

import "github.com/zboralski/tarsier/internal/uxn"

// Well-known port ranges by high nibble.
const (
	SlotSystem   = 0x0 // reset, halt, debug (reserved)
	SlotConsole  = 0x1
	SlotScreen   = 0x2 // reserved
	SlotDatetime = 0xc // reserved
)

// Device is one handler for a 16-port range. Deo receives only the port:
// the machine has already mirrored the value into the device page, so
// handlers read their arguments from there.
type Device interface {
	Dei(port byte) byte
	Deo(port byte)
}

// Bus owns the sixteen high-nibble slots in front of one machine.
type Bus struct {
	m     *uxn.Machine
	slots [16]Device
}

// NewBus creates an empty bus for the given machine.
func NewBus(m *uxn.Machine) *Bus {
	return &Bus{m: m}
}

// Attach installs a device on a high-nibble slot, replacing any previous
// occupant.
func (b *Bus) Attach(slot byte, d Device) {
	b.slots[slot&0x0f] = d
}

// Detach clears a slot back to pass-through.
func (b *Bus) Detach(slot byte) {
	b.slots[slot&0x0f] = nil
}

// Device returns the handler on a slot, nil when unmapped.
func (b *Bus) Device(slot byte) Device {
	return b.slots[slot&0x0f]
}

// Dei serves a device read. Unmapped ranges return the device page byte
// unchanged.
func (b *Bus) Dei(port byte) byte {
	if d := b.slots[port>>4]; d != nil {
		return d.Dei(port)
	}
	return b.m.DevRead(port)
}

// Deo serves a device write. The value already sits in the device page;
// unmapped ranges need no further action.
func (b *Bus) Deo(port, _ byte) {
	if d := b.slots[port>>4]; d != nil {
		d.Deo(port)
	}
}
