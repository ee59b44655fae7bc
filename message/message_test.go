package message

import (
	"bytes"
	"errors"
	"testing"
)

func TestDecodeNoteOn(t *testing.T) {
	ev, err := Decode([]byte{0x90, 60, 100})
	if err != nil {
		t.Fatal(err)
	}
	if ev.Type != NoteOn {
		t.Fatalf("type = %v", ev.Type)
	}
	if ev.Channel != 0 {
		t.Fatalf("channel = %d", ev.Channel)
	}
	if key, ok := ev.Pitch(); !ok || key != 60 {
		t.Fatalf("pitch = %d, %t", key, ok)
	}
	if vel, ok := ev.Velocity(); !ok || vel != 100 {
		t.Fatalf("velocity = %d, %t", vel, ok)
	}
}

func TestDecodeChannelNibble(t *testing.T) {
	ev, err := Decode([]byte{0x93, 60, 100})
	if err != nil {
		t.Fatal(err)
	}
	if ev.Channel != 3 {
		t.Fatalf("channel = %d", ev.Channel)
	}
	if ev.Type != NoteOn {
		t.Fatalf("type = %v", ev.Type)
	}
}

func TestDecodeUnknownCommand(t *testing.T) {
	for _, status := range []byte{0xF0, 0xF1, 0xF6, 0xF7} {
		_, err := Decode([]byte{status})
		if !errors.Is(err, ErrUnknownCommand) {
			t.Fatalf("status 0x%02X: err = %v", status, err)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := Decode(nil); !errors.Is(err, ErrMalformedMessage) {
		t.Fatalf("empty: err = %v", err)
	}
	if _, err := Decode([]byte{0x90, 60}); !errors.Is(err, ErrMalformedMessage) {
		t.Fatalf("short note on: err = %v", err)
	}
	if _, err := Decode([]byte{0x3C}); !errors.Is(err, ErrMalformedMessage) {
		t.Fatalf("stray data byte: err = %v", err)
	}
}

func TestValue14(t *testing.T) {
	cases := []struct {
		lsb, msb byte
		want     int
	}{
		{0x00, 0x40, 8192}, // pitch bend center
		{0x7F, 0x7F, 16383},
		{0x00, 0x00, 0},
		{0x01, 0x00, 1},
	}
	for _, c := range cases {
		if got := Value14(c.lsb, c.msb); got != c.want {
			t.Errorf("Value14(0x%02X, 0x%02X) = %d, want %d", c.lsb, c.msb, got, c.want)
		}
	}
}

func TestDecodePitchBend(t *testing.T) {
	ev, err := Decode([]byte{0xE2, 0x00, 0x40})
	if err != nil {
		t.Fatal(err)
	}
	if ev.Type != PitchBend || ev.Channel != 2 {
		t.Fatalf("decoded %v ch=%d", ev.Type, ev.Channel)
	}
	if v, ok := ev.Value(); !ok || v != 8192 {
		t.Fatalf("value = %d, %t", v, ok)
	}
}

func TestDecodeSongPositionHasNoChannel(t *testing.T) {
	ev, err := Decode([]byte{0xF2, 0x7F, 0x7F})
	if err != nil {
		t.Fatal(err)
	}
	if ev.Type != SongPosition {
		t.Fatalf("type = %v", ev.Type)
	}
	if v, ok := ev.Value(); !ok || v != 16383 {
		t.Fatalf("value = %d, %t", v, ok)
	}
	if _, ok := ev.Property(PropChannel); ok {
		t.Fatal("song position should not report a channel")
	}
}

func TestDecodeRealtime(t *testing.T) {
	for status, want := range map[byte]Type{
		0xF8: Clock,
		0xFA: Start,
		0xFB: Continue,
		0xFC: Stop,
		0xFE: ActiveSensing,
		0xFF: Reset,
	} {
		ev, err := Decode([]byte{status})
		if err != nil {
			t.Fatalf("status 0x%02X: %v", status, err)
		}
		if ev.Type != want {
			t.Fatalf("status 0x%02X: type = %v, want %v", status, ev.Type, want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	raws := [][]byte{
		{0x80, 61, 0},
		{0x90, 60, 100},
		{0x95, 127, 1},
		{0xA0, 60, 40},
		{0xB0, 7, 127},
		{0xC1, 12},
		{0xD0, 99},
		{0xE0, 0x12, 0x34},
		{0xF2, 0x21, 0x43},
		{0xF3, 5},
		{0xF8},
		{0xFF},
	}
	for _, raw := range raws {
		ev, err := Decode(raw)
		if err != nil {
			t.Fatalf("% X: %v", raw, err)
		}
		if got := ev.Bytes(); !bytes.Equal(got, raw) {
			t.Errorf("% X round-tripped to % X", raw, got)
		}
	}
}

func TestPropertyMismatchIsEmpty(t *testing.T) {
	cc, err := Decode([]byte{0xB0, 7, 127})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cc.Property(PropVelocity); ok {
		t.Fatal("control change has no velocity")
	}
	if v, ok := cc.Property(PropController); !ok || v != 7 {
		t.Fatalf("controller = %d, %t", v, ok)
	}
	if v, ok := cc.Property(PropValue); !ok || v != 127 {
		t.Fatalf("value = %d, %t", v, ok)
	}
	clock, err := Decode([]byte{0xF8})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := clock.Property(PropValue); ok {
		t.Fatal("clock has no value")
	}
}

func TestDataBytesAreMasked(t *testing.T) {
	// defensive against transports that hand over unmasked bytes
	ev, err := Decode([]byte{0x90, 0xBC, 0xE4})
	if err != nil {
		t.Fatal(err)
	}
	if key, _ := ev.Pitch(); key != 0x3C {
		t.Fatalf("pitch = %d", key)
	}
	if vel, _ := ev.Velocity(); vel != 0x64 {
		t.Fatalf("velocity = %d", vel)
	}
}
