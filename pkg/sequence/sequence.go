// Package sequence schedules timed MIDI events into render blocks. A
// sequence comes from a Standard MIDI File or from the built-in demo.
package sequence

import (
	"fmt"
	"math"
	"sort"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/khrykin/BlackBird/pkg/framework/process"
	"github.com/khrykin/BlackBird/pkg/midi"
)

// Event is a MIDI event at an absolute sample frame.
type Event struct {
	Frame int64
	Event midi.Event
}

// Sequence is a list of events in frame order with a read cursor.
type Sequence struct {
	events []Event
	cursor int
}

// New sorts events by frame, keeping the order of events on the same
// frame, and returns a sequence over them.
func New(events []Event) *Sequence {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Frame < events[j].Frame
	})
	return &Sequence{events: events}
}

// LoadSMF reads every track of a Standard MIDI File into one sequence
// timed for sampleRate. Messages the synth has no use for are dropped.
func LoadSMF(path string, sampleRate float64) (*Sequence, error) {
	var events []Event
	rd := smf.ReadTracks(path).Do(func(te smf.TrackEvent) {
		e, ok := FromMessage(gomidi.Message(te.Message))
		if !ok {
			return
		}
		frame := int64(math.Round(float64(te.AbsMicroSeconds) * sampleRate / 1e6))
		events = append(events, Event{Frame: frame, Event: e})
	})
	if err := rd.Error(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return New(events), nil
}

// FromMessage converts a channel message into an event at offset 0.
func FromMessage(msg gomidi.Message) (midi.Event, bool) {
	var ch, key, vel, cc, val, prog uint8
	var rel int16
	var abs uint16

	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		return midi.NoteOnEvent{BaseEvent: midi.BaseEvent{EventChannel: ch}, NoteNumber: key, Velocity: vel}, true
	case msg.GetNoteEnd(&ch, &key):
		return midi.NoteOffEvent{BaseEvent: midi.BaseEvent{EventChannel: ch}, NoteNumber: key}, true
	case msg.GetControlChange(&ch, &cc, &val):
		return midi.ControlChangeEvent{BaseEvent: midi.BaseEvent{EventChannel: ch}, Controller: cc, Value: val}, true
	case msg.GetPitchBend(&ch, &rel, &abs):
		return midi.PitchBendEvent{BaseEvent: midi.BaseEvent{EventChannel: ch}, Value: midi.PitchBendFromSigned(rel)}, true
	case msg.GetProgramChange(&ch, &prog):
		return midi.ProgramChangeEvent{BaseEvent: midi.BaseEvent{EventChannel: ch}, Program: prog}, true
	}
	return nil, false
}

// WithOffset returns a copy of e placed at a sample offset.
func WithOffset(e midi.Event, offset int32) midi.Event {
	switch ev := e.(type) {
	case midi.NoteOnEvent:
		ev.Offset = offset
		return ev
	case midi.NoteOffEvent:
		ev.Offset = offset
		return ev
	case midi.ControlChangeEvent:
		ev.Offset = offset
		return ev
	case midi.PitchBendEvent:
		ev.Offset = offset
		return ev
	case midi.ProgramChangeEvent:
		ev.Offset = offset
		return ev
	}
	return e
}

func (s *Sequence) Len() int {
	return len(s.events)
}

func (s *Sequence) Events() []Event {
	return s.events
}

// End returns the frame of the last event.
func (s *Sequence) End() int64 {
	if len(s.events) == 0 {
		return 0
	}
	return s.events[len(s.events)-1].Frame
}

// Done reports whether every event has been scheduled.
func (s *Sequence) Done() bool {
	return s.cursor >= len(s.events)
}

// Rewind moves the cursor back to the first event.
func (s *Sequence) Rewind() {
	s.cursor = 0
}

// Schedule moves the events due in the block [frame, frame+n) into ctx
// at their offsets within the block. Events left behind by an earlier
// block are placed at offset 0. It returns the number of events that
// did not fit in the context.
//
// Each event is copied with its new offset, which allocates, so Schedule
// belongs on the control side or in offline rendering, never in an audio
// callback.
func (s *Sequence) Schedule(ctx *process.Context, frame int64, n int) (dropped int) {
	end := frame + int64(n)
	for s.cursor < len(s.events) && s.events[s.cursor].Frame < end {
		e := s.events[s.cursor]
		offset := max(e.Frame-frame, 0)
		if !ctx.AddInputEvent(WithOffset(e.Event, int32(offset))) {
			dropped++
		}
		s.cursor++
	}
	return dropped
}
