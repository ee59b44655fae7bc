package message

// Type identifies a decoded MIDI event.
type Type uint8

const (
	Unknown Type = iota
	NoteOn
	NoteOff
	ControlChange
	Aftertouch
	ProgramChange
	PitchBend
	ChannelPressure
	SongPosition
	SongSelect
	Clock
	Start
	Continue
	Stop
	ActiveSensing
	Reset
)

func (t Type) String() string {
	if d, ok := byType[t]; ok {
		return d.Name
	}
	return "unknown"
}

// Role says what a data byte means for a given command. HiRes covers both
// data bytes at once: they form a single 14-bit value (LSB first on the wire).
type Role uint8

const (
	None Role = iota
	Pitch
	Velocity
	Controller
	Value
	HiRes
)

// Descriptor maps one command byte to its event type, the number of data
// bytes that follow the status byte and what each of them carries.
type Descriptor struct {
	Command byte
	Type    Type
	Name    string
	DataLen int
	Roles   [2]Role
}

// System reports whether the command is a system message (no channel nibble).
func (d Descriptor) System() bool { return d.Command >= 0xF0 }

var table = []Descriptor{
	{0x80, NoteOff, "note off", 2, [2]Role{Pitch, Velocity}},
	{0x90, NoteOn, "note on", 2, [2]Role{Pitch, Velocity}},
	{0xA0, Aftertouch, "aftertouch", 2, [2]Role{Pitch, Value}},
	{0xB0, ControlChange, "control change", 2, [2]Role{Controller, Value}},
	{0xC0, ProgramChange, "program change", 1, [2]Role{Value, None}},
	{0xD0, ChannelPressure, "channel pressure", 1, [2]Role{Value, None}},
	{0xE0, PitchBend, "pitch bend", 2, [2]Role{HiRes, None}},
	{0xF2, SongPosition, "song position", 2, [2]Role{HiRes, None}},
	{0xF3, SongSelect, "song select", 1, [2]Role{Value, None}},
	{0xF8, Clock, "clock", 0, [2]Role{None, None}},
	{0xFA, Start, "start", 0, [2]Role{None, None}},
	{0xFB, Continue, "continue", 0, [2]Role{None, None}},
	{0xFC, Stop, "stop", 0, [2]Role{None, None}},
	{0xFE, ActiveSensing, "active sensing", 0, [2]Role{None, None}},
	{0xFF, Reset, "reset", 0, [2]Role{None, None}},
}

var (
	byCommand = map[byte]Descriptor{}
	byType    = map[Type]Descriptor{}
)

func init() {
	for _, d := range table {
		byCommand[d.Command] = d
		byType[d.Type] = d
	}
}

// Lookup resolves a command byte (channel bits already masked off for
// channel-voice messages) to its descriptor.
func Lookup(command byte) (Descriptor, bool) {
	d, ok := byCommand[command]
	return d, ok
}
