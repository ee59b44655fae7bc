package tracker

import (
	"slices"
	"sync"

	"github.com/lselden/midistate/message"
)

const statePreallocation = 128

// Kind selects the pressed or released flavor of the note queries.
type Kind uint8

const (
	Pressed Kind = iota
	Released
)

type DeltaKind uint8

const (
	Stored DeltaKind = iota
	NotePressed
	NoteReleased
	ControlChanged
)

// Delta describes what one Apply changed.
type Delta struct {
	Kind       DeltaKind
	Note       uint8
	Velocity   uint8
	Controller uint8
	Value      int
}

// State is the derived, queryable view over the event stream: which notes
// are held and how hard, plus the most recent event per type and overall.
// All methods serialize on the embedded mutex; there is one State per
// running program, instantiated by the host (no package-level singleton).
type State struct {
	activeNotes []uint8         // press order
	velocity    map[uint8]uint8 // active notes only

	lastPressed  uint8
	lastReleased uint8
	lastPress    message.Event // event behind lastPressed
	lastRelease  message.Event
	hasPress     bool
	hasRelease   bool

	lastByType map[message.Type]message.Event
	last       message.Event
	hasLast    bool

	// conditional-match bindings, keyed by whatever comparable handle the
	// host uses for its execution contexts; Forget is the host's cleanup
	bound map[any]message.Event

	sync.Mutex
}

func NewState() *State {
	return &State{
		activeNotes: make([]uint8, 0, statePreallocation),
		velocity:    make(map[uint8]uint8, statePreallocation),
		lastByType:  make(map[message.Type]message.Event),
		bound:       make(map[any]message.Event),
	}
}

// Apply folds one decoded event into the state. A note on with velocity 0
// is a release, same as note off. Releasing a note that is not held leaves
// the active set alone; duplicate or out-of-order note offs are harmless.
func (s *State) Apply(ev message.Event) Delta {
	s.Lock()
	defer s.Unlock()

	s.last = ev
	s.hasLast = true
	s.lastByType[ev.Type] = ev

	switch ev.Type {
	case message.NoteOn:
		pitch, _ := ev.Pitch()
		vel, _ := ev.Velocity()
		if vel == 0 {
			return s.release(ev, pitch)
		}
		return s.press(ev, pitch, vel)
	case message.NoteOff:
		pitch, _ := ev.Pitch()
		return s.release(ev, pitch)
	case message.ControlChange:
		ctl, _ := ev.Controller()
		val, _ := ev.Value()
		return Delta{Kind: ControlChanged, Controller: ctl, Value: val}
	}
	return Delta{Kind: Stored}
}

func (s *State) press(ev message.Event, pitch, vel uint8) Delta {
	if !slices.Contains(s.activeNotes, pitch) {
		s.activeNotes = append(s.activeNotes, pitch)
	}
	s.velocity[pitch] = vel
	s.lastPressed = pitch
	s.lastPress = ev
	s.hasPress = true
	return Delta{Kind: NotePressed, Note: pitch, Velocity: vel}
}

func (s *State) release(ev message.Event, pitch uint8) Delta {
	if i := slices.Index(s.activeNotes, pitch); i >= 0 {
		s.activeNotes = slices.Delete(s.activeNotes, i, i+1)
	}
	delete(s.velocity, pitch)
	s.lastReleased = pitch
	s.lastRelease = ev
	s.hasRelease = true
	return Delta{Kind: NoteReleased, Note: pitch}
}

// Reset drops all held notes and bindings, back to a fresh state.
func (s *State) Reset() {
	s.Lock()
	defer s.Unlock()
	s.activeNotes = s.activeNotes[:0]
	clear(s.velocity)
	clear(s.lastByType)
	clear(s.bound)
	s.lastPressed, s.lastReleased = 0, 0
	s.hasPress, s.hasRelease, s.hasLast = false, false, false
}
