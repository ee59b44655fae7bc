package message

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCommand is returned for status bytes outside the table,
	// e.g. SysEx start/end, time code quarter frames, tune request.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrMalformedMessage is returned when fewer data bytes arrived than
	// the command requires.
	ErrMalformedMessage = errors.New("malformed message")
)

// Decode turns a raw 1-3 byte message into an Event. Both failure modes are
// per-message and recoverable; the caller decides whether to log or drop.
// A note on with velocity 0 decodes as a note on, faithful to the wire; the
// tracker is the one treating it as a release.
func Decode(raw []byte) (Event, error) {
	if len(raw) == 0 {
		return Event{}, fmt.Errorf("%w: empty message", ErrMalformedMessage)
	}
	status := raw[0]
	if status < 0x80 {
		return Event{}, fmt.Errorf("%w: data byte 0x%02X without status", ErrMalformedMessage, status)
	}
	command := status
	var channel uint8
	if status < 0xF0 {
		command = status & 0xF0
		channel = status & 0x0F
	}
	d, ok := byCommand[command]
	if !ok {
		return Event{}, fmt.Errorf("%w: 0x%02X", ErrUnknownCommand, status)
	}
	if len(raw)-1 < d.DataLen {
		return Event{}, fmt.Errorf("%w: %s needs %d data bytes, got %d",
			ErrMalformedMessage, d.Name, d.DataLen, len(raw)-1)
	}
	ev := Event{Type: d.Type, Channel: channel}
	if d.DataLen >= 1 {
		ev.Data1 = raw[1] & 0x7F
	}
	if d.DataLen >= 2 {
		ev.Data2 = raw[2] & 0x7F
	}
	return ev, nil
}

// Value14 combines two 7-bit data bytes into one 14-bit value, LSB first.
// Range 0-16383; 8192 is pitch bend center.
func Value14(lsb, msb byte) int {
	return int(msb&0x7F)<<7 | int(lsb&0x7F)
}
