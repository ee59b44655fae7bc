package message

import (
	"fmt"
	"time"
)

// Event is one decoded MIDI message. Data bytes are kept exactly as they
// arrived; the semantic accessors below are derived views over them.
// Time and Source are attached by the transport, not by Decode.
type Event struct {
	Type    Type
	Channel uint8 // 0-15, channel-voice messages only
	Data1   uint8
	Data2   uint8
	Time    time.Time
	Source  int
}

// Pitch returns the note number for note and aftertouch events.
func (e Event) Pitch() (uint8, bool) { return e.byteRole(Pitch) }

// Velocity returns the velocity byte for note on/off events.
func (e Event) Velocity() (uint8, bool) { return e.byteRole(Velocity) }

// Controller returns the controller number for control change events.
func (e Event) Controller() (uint8, bool) { return e.byteRole(Controller) }

// Value returns the event's value: the CC/aftertouch/pressure/program byte,
// or the combined 14-bit quantity for pitch bend and song position.
func (e Event) Value() (int, bool) {
	d, ok := byType[e.Type]
	if !ok {
		return 0, false
	}
	if d.Roles[0] == HiRes {
		return Value14(e.Data1, e.Data2), true
	}
	if v, ok := e.byteRole(Value); ok {
		return int(v), true
	}
	return 0, false
}

func (e Event) byteRole(r Role) (uint8, bool) {
	d, ok := byType[e.Type]
	if !ok {
		return 0, false
	}
	switch {
	case d.Roles[0] == r:
		return e.Data1, true
	case d.Roles[1] == r:
		return e.Data2, true
	}
	return 0, false
}

// Bytes re-encodes the event as it would appear on the wire.
func (e Event) Bytes() []byte {
	d, ok := byType[e.Type]
	if !ok {
		return nil
	}
	status := d.Command
	if !d.System() {
		status |= e.Channel & 0x0F
	}
	out := make([]byte, 0, 3)
	out = append(out, status)
	if d.Roles[0] == HiRes {
		v, _ := e.Value()
		return append(out, byte(v&0x7F), byte(v>>7))
	}
	if d.DataLen >= 1 {
		out = append(out, e.Data1&0x7F)
	}
	if d.DataLen >= 2 {
		out = append(out, e.Data2&0x7F)
	}
	return out
}

func (e Event) String() string {
	d, ok := byType[e.Type]
	if !ok {
		return "unknown"
	}
	switch {
	case d.System() && d.DataLen == 0:
		return d.Name
	case d.Roles[0] == HiRes:
		v, _ := e.Value()
		if d.System() {
			return fmt.Sprintf("%s value=%d", d.Name, v)
		}
		return fmt.Sprintf("%s ch=%d value=%d", d.Name, e.Channel, v)
	case d.DataLen == 1:
		if d.System() {
			return fmt.Sprintf("%s value=%d", d.Name, e.Data1)
		}
		return fmt.Sprintf("%s ch=%d value=%d", d.Name, e.Channel, e.Data1)
	default:
		return fmt.Sprintf("%s ch=%d %d %d", d.Name, e.Channel, e.Data1, e.Data2)
	}
}

// Property is the closed set of values the query surface can read back from
// an event. A property that does not apply to the event's type reads as
// (0, false), it is not an error.
type Property uint8

const (
	PropChannel Property = iota
	PropPitch
	PropVelocity
	PropController
	PropValue
)

func (e Event) Property(p Property) (int, bool) {
	switch p {
	case PropChannel:
		d, ok := byType[e.Type]
		if !ok || d.System() {
			return 0, false
		}
		return int(e.Channel), true
	case PropPitch:
		v, ok := e.Pitch()
		return int(v), ok
	case PropVelocity:
		v, ok := e.Velocity()
		return int(v), ok
	case PropController:
		v, ok := e.Controller()
		return int(v), ok
	case PropValue:
		return e.Value()
	}
	return 0, false
}
