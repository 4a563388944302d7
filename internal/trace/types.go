// Package trace provides types for instruction trace collection and
// analysis.
package trace

import (
	"time"

	"github.com/google/uuid"
)

// Tag represents a trace event category.
// Tags are stored without # prefix; the prefix is added on rendering.
type Tag string

// Standard tags for trace events.
const (
	Literal Tag = "lit"
	Jump    Tag = "jump"
	Call    Tag = "call"
	Cond    Tag = "cond"
	Device  Tag = "device"
	Memory  Tag = "mem"
	ZeroPg  Tag = "zero-page"
	Math    Tag = "math"
	Logic   Tag = "logic"
	Shuffle Tag = "shuffle"
	Return  Tag = "return-mode"
	Keep    Tag = "keep-mode"
	Short   Tag = "short-mode"
	Break   Tag = "brk"
	Input   Tag = "input"
)

// Tags is a collection of tags with helper methods.
type Tags []Tag

// Has returns true if the tag collection contains the given tag.
func (t Tags) Has(tag Tag) bool {
	for _, x := range t {
		if x == tag {
			return true
		}
	}
	return false
}

// Add adds a tag if not already present.
func (t *Tags) Add(tag Tag) {
	if !t.Has(tag) {
		*t = append(*t, tag)
	}
}

// Strings returns tags as strings with # prefix for display.
func (t Tags) Strings() []string {
	out := make([]string, len(t))
	for i, tag := range t {
		out[i] = "#" + string(tag)
	}
	return out
}

// Primary returns the first tag or empty string if none.
func (t Tags) Primary() Tag {
	if len(t) > 0 {
		return t[0]
	}
	return ""
}

// Annotations holds key-value metadata for trace events.
type Annotations map[string]string

// Set adds or updates an annotation.
func (a Annotations) Set(k, v string) {
	a[k] = v
}

// Get retrieves an annotation value.
func (a Annotations) Get(k string) string {
	return a[k]
}

// Event represents one executed instruction with rich metadata.
type Event struct {
	PC          uint16      // Address the instruction was fetched from
	Ins         byte        // Raw instruction byte
	Name        string      // Mnemonic with mode suffixes ("ADD2k")
	Detail      string      // Additional detail ("wst <03", "port=0x18")
	Tags        Tags        // Multiple hashtags, first is primary
	Annotations Annotations // Key-value metadata
	Timestamp   time.Time   // When the event occurred
}

// NewEvent creates a new trace event with the given parameters.
func NewEvent(pc uint16, ins byte, name, detail string) *Event {
	return &Event{
		PC:          pc,
		Ins:         ins,
		Name:        name,
		Detail:      detail,
		Annotations: make(Annotations),
		Timestamp:   time.Now(),
	}
}

// AddTag adds a tag to the event.
func (e *Event) AddTag(tag Tag) {
	e.Tags.Add(tag)
}

// Annotate sets an annotation on the event.
func (e *Event) Annotate(k, v string) {
	if e.Annotations == nil {
		e.Annotations = make(Annotations)
	}
	e.Annotations.Set(k, v)
}

// PrimaryTag returns the primary (first) tag with # prefix.
func (e *Event) PrimaryTag() string {
	if len(e.Tags) > 0 {
		return "#" + string(e.Tags[0])
	}
	return ""
}

// Enricher enriches trace events based on the instruction byte.
type Enricher func(e *Event)

// DefaultEnricher tags events by opcode family and by the return and keep
// mode bits. The short mode bit is not tagged.
func DefaultEnricher(e *Event) {
	switch e.Ins & 0x1f {
	case 0x00:
		switch e.Ins {
		case 0x00:
			e.AddTag(Break)
		case 0x20:
			e.AddTag(Cond)
			e.AddTag(Jump)
		case 0x40:
			e.AddTag(Jump)
		case 0x60:
			e.AddTag(Call)
		default:
			e.AddTag(Literal)
		}
	case 0x0c:
		e.AddTag(Jump)
	case 0x0d:
		e.AddTag(Cond)
		e.AddTag(Jump)
	case 0x0e:
		e.AddTag(Call)
	case 0x10, 0x11:
		e.AddTag(ZeroPg)
		e.AddTag(Memory)
	case 0x12, 0x13, 0x14, 0x15:
		e.AddTag(Memory)
	case 0x16, 0x17:
		e.AddTag(Device)
	case 0x18, 0x19, 0x1a, 0x1b, 0x1f:
		e.AddTag(Math)
	case 0x1c, 0x1d, 0x1e:
		e.AddTag(Logic)
	case 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x0f:
		e.AddTag(Shuffle)
	}
	if e.Ins&0x1f != 0 {
		if e.Ins&0x40 != 0 {
			e.AddTag(Return)
		}
		if e.Ins&0x80 != 0 {
			e.AddTag(Keep)
		}
	}
}

// Session groups the events of one emulator run under a unique ID.
type Session struct {
	ID      uuid.UUID
	Started time.Time
	Events  []*Event
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{
		ID:      uuid.New(),
		Started: time.Now(),
	}
}

// Add appends an event.
func (s *Session) Add(e *Event) {
	s.Events = append(s.Events, e)
}

// Len returns the number of collected events.
func (s *Session) Len() int {
	return len(s.Events)
}
