package midi

import (
	"fmt"
	"math"
)

type EventType uint8

const (
	EventTypeNoteOff EventType = iota
	EventTypeNoteOn
	EventTypeControlChange
	EventTypeProgramChange
	EventTypePitchBend
)

func (t EventType) String() string {
	switch t {
	case EventTypeNoteOff:
		return "NoteOff"
	case EventTypeNoteOn:
		return "NoteOn"
	case EventTypeControlChange:
		return "ControlChange"
	case EventTypeProgramChange:
		return "ProgramChange"
	case EventTypePitchBend:
		return "PitchBend"
	default:
		return fmt.Sprintf("EventType(%d)", uint8(t))
	}
}

// Event is an already decoded channel message positioned at a sample
// offset within the block it belongs to.
type Event interface {
	Type() EventType
	Channel() uint8
	SampleOffset() int32
	String() string
}

type BaseEvent struct {
	EventChannel uint8
	Offset       int32
}

func (e BaseEvent) Channel() uint8 {
	return e.EventChannel
}

func (e BaseEvent) SampleOffset() int32 {
	return e.Offset
}

type NoteOnEvent struct {
	BaseEvent
	NoteNumber uint8
	Velocity   uint8
}

func (e NoteOnEvent) Type() EventType {
	return EventTypeNoteOn
}

func (e NoteOnEvent) String() string {
	return fmt.Sprintf("NoteOn{ch:%d, note:%d, vel:%d, offset:%d}",
		e.EventChannel, e.NoteNumber, e.Velocity, e.Offset)
}

// NormalizedVelocity maps the 7-bit velocity onto [0, 1].
func (e NoteOnEvent) NormalizedVelocity() float64 {
	return NormalizeVelocity(e.Velocity)
}

type NoteOffEvent struct {
	BaseEvent
	NoteNumber uint8
	Velocity   uint8
}

func (e NoteOffEvent) Type() EventType {
	return EventTypeNoteOff
}

func (e NoteOffEvent) String() string {
	return fmt.Sprintf("NoteOff{ch:%d, note:%d, vel:%d, offset:%d}",
		e.EventChannel, e.NoteNumber, e.Velocity, e.Offset)
}

func (e NoteOffEvent) NormalizedVelocity() float64 {
	return NormalizeVelocity(e.Velocity)
}

type ControlChangeEvent struct {
	BaseEvent
	Controller uint8
	Value      uint8
}

func (e ControlChangeEvent) Type() EventType {
	return EventTypeControlChange
}

func (e ControlChangeEvent) String() string {
	return fmt.Sprintf("CC{ch:%d, ctrl:%d, val:%d, offset:%d}",
		e.EventChannel, e.Controller, e.Value, e.Offset)
}

const (
	CCModWheel    uint8 = 1
	CCBreath      uint8 = 2
	CCVolume      uint8 = 7
	CCPan         uint8 = 10
	CCExpression  uint8 = 11
	CCSustain     uint8 = 64
	CCSostenuto   uint8 = 66
	CCSoft        uint8 = 67
	CCAllSoundOff uint8 = 120
	CCResetAll    uint8 = 121
	CCAllNotesOff uint8 = 123
)

// Pitch wheel positions on the 14-bit scale.
const (
	PitchBendMin    uint16 = 0
	PitchBendCenter uint16 = 0x2000
	PitchBendMax    uint16 = 0x3FFF
)

type PitchBendEvent struct {
	BaseEvent
	Value uint16 // 0 to 0x3FFF, 0x2000 is center
}

func (e PitchBendEvent) Type() EventType {
	return EventTypePitchBend
}

func (e PitchBendEvent) String() string {
	return fmt.Sprintf("PitchBend{ch:%d, val:%d, offset:%d}",
		e.EventChannel, e.Value, e.Offset)
}

// NormalizedValue maps the wheel onto [-1, 1]. Both halves are scaled
// separately so that 0 and 0x3FFF land exactly on the end points.
func (e PitchBendEvent) NormalizedValue() float64 {
	return NormalizePitchBend(e.Value)
}

type ProgramChangeEvent struct {
	BaseEvent
	Program uint8
}

func (e ProgramChangeEvent) Type() EventType {
	return EventTypeProgramChange
}

func (e ProgramChangeEvent) String() string {
	return fmt.Sprintf("ProgramChange{ch:%d, prog:%d, offset:%d}",
		e.EventChannel, e.Program, e.Offset)
}

func NormalizeVelocity(v uint8) float64 {
	if v > 127 {
		v = 127
	}
	return float64(v) / 127.0
}

func NormalizePitchBend(w uint16) float64 {
	if w > PitchBendMax {
		w = PitchBendMax
	}
	d := float64(int(w) - int(PitchBendCenter))
	if w < PitchBendCenter {
		return d / float64(PitchBendCenter)
	}
	return d / float64(PitchBendMax-PitchBendCenter)
}

// PitchBendFromSigned converts a signed -8192..8191 wheel value, the
// form most decoders report, onto the 14-bit scale.
func PitchBendFromSigned(v int16) uint16 {
	w := int(v) + int(PitchBendCenter)
	if w < 0 {
		w = 0
	}
	if w > int(PitchBendMax) {
		w = int(PitchBendMax)
	}
	return uint16(w)
}

// NoteToFrequency returns the equal-tempered frequency of a note, A4 (69) = 440 Hz.
func NoteToFrequency(note float64) float64 {
	return 440.0 * math.Pow(2.0, (note-69.0)/12.0)
}

func FrequencyToNote(freq float64) float64 {
	if freq <= 0 {
		return 0
	}
	return 69.0 + 12.0*math.Log2(freq/440.0)
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func NoteNumberToName(note uint8) string {
	octave := int(note)/12 - 1
	return fmt.Sprintf("%s%d", noteNames[note%12], octave)
}
