package tracker

import (
	"slices"

	"github.com/lselden/midistate/message"
)

// Read-only surface. Every call observes one consistent snapshot; none of
// these mutate the tracked state, except for the Match* family binding the
// qualifying event to the caller's context.

func (s *State) IsNoteActive(pitch uint8) bool {
	s.Lock()
	defer s.Unlock()
	_, ok := s.velocity[pitch]
	return ok
}

// VelocityOf is defined only while the note is held.
func (s *State) VelocityOf(pitch uint8) (uint8, bool) {
	s.Lock()
	defer s.Unlock()
	v, ok := s.velocity[pitch]
	return v, ok
}

// ActiveNotes returns a fresh copy of the held notes in press order.
func (s *State) ActiveNotes() []uint8 {
	s.Lock()
	defer s.Unlock()
	return slices.Clone(s.activeNotes)
}

// LastNote is sticky: it keeps its value after the note goes away. Before
// anything of the requested kind ever happened it reads 0, which callers
// must not confuse with an actual note number 0.
func (s *State) LastNote(k Kind) uint8 {
	s.Lock()
	defer s.Unlock()
	if k == Pressed {
		if !s.hasPress {
			return 0
		}
		return s.lastPressed
	}
	if !s.hasRelease {
		return 0
	}
	return s.lastReleased
}

func (s *State) Last() (message.Event, bool) {
	s.Lock()
	defer s.Unlock()
	return s.last, s.hasLast
}

func (s *State) LastOfType(t message.Type) (message.Event, bool) {
	s.Lock()
	defer s.Unlock()
	ev, ok := s.lastByType[t]
	return ev, ok
}

// MatchAnyNote reports whether a note of the requested kind has occurred.
// On match the qualifying event is bound to ctx; on miss any earlier
// binding for ctx is left alone. Triggers are pull-based: the condition is
// re-evaluated against current state each time it is asked, the tracker
// never calls into the consumer.
func (s *State) MatchAnyNote(k Kind, ctx any) bool {
	s.Lock()
	defer s.Unlock()
	ev, ok := s.lastNoteEvent(k)
	if !ok {
		return false
	}
	s.bound[ctx] = ev
	return true
}

func (s *State) MatchNote(pitch uint8, k Kind, ctx any) bool {
	s.Lock()
	defer s.Unlock()
	ev, ok := s.lastNoteEvent(k)
	if !ok {
		return false
	}
	last := s.lastPressed
	if k == Released {
		last = s.lastReleased
	}
	if last != pitch {
		return false
	}
	s.bound[ctx] = ev
	return true
}

func (s *State) MatchAnyControl(ctx any) bool {
	s.Lock()
	defer s.Unlock()
	ev, ok := s.lastByType[message.ControlChange]
	if !ok {
		return false
	}
	s.bound[ctx] = ev
	return true
}

func (s *State) MatchControl(controller uint8, ctx any) bool {
	s.Lock()
	defer s.Unlock()
	ev, ok := s.lastByType[message.ControlChange]
	if !ok {
		return false
	}
	if ctl, _ := ev.Controller(); ctl != controller {
		return false
	}
	s.bound[ctx] = ev
	return true
}

func (s *State) lastNoteEvent(k Kind) (message.Event, bool) {
	if k == Pressed {
		return s.lastPress, s.hasPress
	}
	return s.lastRelease, s.hasRelease
}

// LastProperty reads a property of the event bound to ctx, falling back to
// the last event overall when ctx has no binding. A property the event's
// type does not carry reads as (0, false).
func (s *State) LastProperty(p message.Property, ctx any) (int, bool) {
	s.Lock()
	defer s.Unlock()
	if ev, ok := s.bound[ctx]; ok {
		return ev.Property(p)
	}
	if s.hasLast {
		return s.last.Property(p)
	}
	return 0, false
}

// Bound returns the event currently bound to ctx, if any.
func (s *State) Bound(ctx any) (message.Event, bool) {
	s.Lock()
	defer s.Unlock()
	ev, ok := s.bound[ctx]
	return ev, ok
}

// Forget drops the binding for a context the host no longer runs.
func (s *State) Forget(ctx any) {
	s.Lock()
	defer s.Unlock()
	delete(s.bound, ctx)
}
