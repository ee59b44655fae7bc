package device

import (
	"io"
	"testing"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/lselden/midistate/bus"
	"github.com/lselden/midistate/message"
	"github.com/lselden/midistate/tracker"
)

func newPipeline() (*Handler, *tracker.State) {
	state := tracker.NewState()
	b := bus.New()
	b.Subscribe(func(ev message.Event) { state.Apply(ev) })
	logger := charmlog.New(io.Discard)
	return NewHandler(b, logger), state
}

func TestHandlerFeedsTracker(t *testing.T) {
	h, state := newPipeline()
	at := time.Now()

	h.OnRawMessage(0, []byte{0x90, 60, 100}, at)
	if !state.IsNoteActive(60) {
		t.Fatal("note on did not reach the tracker")
	}
	ev, ok := state.Last()
	if !ok {
		t.Fatal("no last event")
	}
	if !ev.Time.Equal(at) || ev.Source != 0 {
		t.Fatalf("transport fields not attached: %v source=%d", ev.Time, ev.Source)
	}
}

func TestHandlerDropsUndecodable(t *testing.T) {
	h, state := newPipeline()
	var unhandled [][]byte
	h.OnUnhandled(func(_ int, raw []byte) { unhandled = append(unhandled, raw) })

	h.OnRawMessage(0, []byte{0xF0}, time.Now())                          // sysex start
	h.OnRawMessage(0, []byte{0xF0, 0x01, 0x02, 0x03, 0xF7}, time.Now()) // too long

	if _, ok := state.Last(); ok {
		t.Fatal("bad messages mutated tracker state")
	}
	if h.Dropped() != 2 {
		t.Fatalf("dropped = %d", h.Dropped())
	}
	if len(unhandled) != 2 {
		t.Fatalf("unhandled calls = %d", len(unhandled))
	}
}

func TestSerialFraming(t *testing.T) {
	h, state := newPipeline()
	src := &SerialSource{handler: h, data: make([]byte, 0, 2)}

	at := time.Now()
	feed := func(bs ...byte) {
		for _, b := range bs {
			src.feed(b, at)
		}
	}

	// full message, then running status for the next two
	feed(0x90, 60, 100)
	feed(64, 100)
	feed(60, 0)

	if !state.IsNoteActive(64) {
		t.Fatal("running-status note on lost")
	}
	if state.IsNoteActive(60) {
		t.Fatal("running-status release lost")
	}
}

func TestSerialFramingRealtimeInterleave(t *testing.T) {
	h, state := newPipeline()
	src := &SerialSource{handler: h, data: make([]byte, 0, 2)}

	at := time.Now()
	// clock byte lands in the middle of a note on
	for _, b := range []byte{0x90, 60, 0xF8, 100} {
		src.feed(b, at)
	}

	if !state.IsNoteActive(60) {
		t.Fatal("interleaved realtime byte broke framing")
	}
	if _, ok := state.LastOfType(message.Clock); !ok {
		t.Fatal("clock byte not delivered")
	}
}

func TestSerialFramingStrayData(t *testing.T) {
	h, state := newPipeline()
	src := &SerialSource{handler: h, data: make([]byte, 0, 2)}

	at := time.Now()
	for _, b := range []byte{0x23, 0x42, 0x90, 60, 100} {
		src.feed(b, at)
	}

	if !state.IsNoteActive(60) {
		t.Fatal("stream did not resync after stray data bytes")
	}
	if h.Dropped() != 0 {
		t.Fatalf("stray data should be silently skipped, dropped = %d", h.Dropped())
	}
}

func TestRosterFindAndName(t *testing.T) {
	r := NewRoster()
	r.Update([]string{"LPK25 mk2 MIDI 1", "Synth input port"})

	if p, ok := r.Find("Synth input port"); !ok || p.ID != 1 {
		t.Fatalf("exact find = %+v, %t", p, ok)
	}
	if p, ok := r.Find("LPK25"); !ok || p.ID != 0 {
		t.Fatalf("substring find = %+v, %t", p, ok)
	}
	if _, ok := r.Find("nope"); ok {
		t.Fatal("found a port that does not exist")
	}
	if name, ok := r.Name(1); !ok || name != "Synth input port" {
		t.Fatalf("name(1) = %q, %t", name, ok)
	}
	if _, ok := r.Name(2); ok {
		t.Fatal("out-of-range id resolved")
	}
}
