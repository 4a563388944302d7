package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTags(t *testing.T) {
	var tags Tags
	tags.Add(Jump)
	tags.Add(Jump)
	tags.Add(Cond)

	assert.Len(t, tags, 2)
	assert.True(t, tags.Has(Jump))
	assert.False(t, tags.Has(Device))
	assert.Equal(t, Jump, tags.Primary())
	assert.Equal(t, []string{"#jump", "#cond"}, tags.Strings())
}

func TestDefaultEnricher(t *testing.T) {
	cases := []struct {
		ins  byte
		want Tag
	}{
		{0x00, Break},
		{0x20, Cond},
		{0x40, Jump},
		{0x60, Call},
		{0x80, Literal},
		{0xa0, Literal},
		{0x0c, Jump},
		{0x16, Device},
		{0x17, Device},
		{0x10, ZeroPg},
		{0x14, Memory},
		{0x18, Math},
		{0x1c, Logic},
		{0x06, Shuffle},
	}
	for _, tc := range cases {
		e := NewEvent(0x0100, tc.ins, "", "")
		DefaultEnricher(e)
		assert.True(t, e.Tags.Has(tc.want), "ins %#02x missing %s", tc.ins, tc.want)
	}

	// Mode bits tag too, but not on immediate forms.
	e := NewEvent(0x0100, 0xd8, "ADDkr", "") // ADD with keep+return
	DefaultEnricher(e)
	assert.True(t, e.Tags.Has(Keep))
	assert.True(t, e.Tags.Has(Return))

	e = NewEvent(0x0100, 0x80, "LIT", "")
	DefaultEnricher(e)
	assert.False(t, e.Tags.Has(Keep))
}

func TestSession(t *testing.T) {
	s := NewSession()
	assert.NotEqual(t, s.ID.String(), "00000000-0000-0000-0000-000000000000")
	s.Add(NewEvent(0x0100, 0x01, "INC", ""))
	s.Add(NewEvent(0x0101, 0x00, "BRK", ""))
	assert.Equal(t, 2, s.Len())
}

func TestAnnotations(t *testing.T) {
	e := NewEvent(0x0100, 0x17, "DEO", "")
	e.Annotate("port", "0x18")
	assert.Equal(t, "0x18", e.Annotations.Get("port"))
	assert.Equal(t, "", e.PrimaryTag())
	e.AddTag(Device)
	assert.Equal(t, "#device", e.PrimaryTag())
}
