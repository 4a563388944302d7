package devices

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zboralski/tarsier/internal/uxn"
)

type fakeDevice struct {
	deiPorts []byte
	deoPorts []byte
	deiValue byte
}

func (f *fakeDevice) Dei(port byte) byte {
	f.deiPorts = append(f.deiPorts, port)
	return f.deiValue
}

func (f *fakeDevice) Deo(port byte) {
	f.deoPorts = append(f.deoPorts, port)
}

func TestUnmappedSlotPassesThrough(t *testing.T) {
	m := uxn.New(nil)
	b := NewBus(m)

	m.DevWrite(0x42, 0x99)
	assert.EqualValues(t, 0x99, b.Dei(0x42))

	// Deo on an unmapped slot is a no-op beyond the page mirror.
	b.Deo(0x42, 0x01)
}

func TestRoutingByHighNibble(t *testing.T) {
	m := uxn.New(nil)
	b := NewBus(m)
	d := &fakeDevice{deiValue: 0x7f}
	b.Attach(SlotConsole, d)

	assert.EqualValues(t, 0x7f, b.Dei(0x17))
	b.Deo(0x18, 0xaa)

	assert.Equal(t, []byte{0x17}, d.deiPorts)
	assert.Equal(t, []byte{0x18}, d.deoPorts)

	// Ports outside the slot do not reach the device.
	b.Dei(0x20)
	b.Deo(0x20, 0)
	assert.Len(t, d.deiPorts, 1)
	assert.Len(t, d.deoPorts, 1)
}

func TestDetach(t *testing.T) {
	m := uxn.New(nil)
	b := NewBus(m)
	d := &fakeDevice{}
	b.Attach(SlotConsole, d)
	assert.NotNil(t, b.Device(SlotConsole))

	b.Detach(SlotConsole)
	assert.Nil(t, b.Device(SlotConsole))

	m.DevWrite(0x10, 0x05)
	assert.EqualValues(t, 0x05, b.Dei(0x10))
	assert.Empty(t, d.deiPorts)
}
