package voice

import (
	"github.com/khrykin/BlackBird/pkg/midi"
)

// SoundKind tags the kind of sound a voice is able to play.
type SoundKind uint8

// NumChannels is the number of MIDI channels tracked.
const NumChannels = 16

// Voice is one sounding note as seen by the allocator. Implementations
// are driven only from the render goroutine.
type Voice interface {
	// CanPlay reports whether the voice can play sounds of kind.
	CanPlay(kind SoundKind) bool
	// IsActive reports whether the voice is producing sound, including
	// its release and any trailing settle time.
	IsActive() bool
	// StartNote begins a note. velocity is in [0, 1] and pitchWheel is
	// the 14-bit wheel position of the note's channel.
	StartNote(note uint8, velocity float64, pitchWheel uint16)
	// StopNote ends the note, with its release tail if allowTailOff is
	// set and silently otherwise.
	StopNote(velocity float64, allowTailOff bool)
	PitchWheelMoved(value uint16)
	ControllerMoved(controller, value uint8)
}

type slot struct {
	note      uint8
	channel   uint8
	keyDown   bool
	sustained bool
	age       uint64
}

// Allocator assigns notes to a fixed pool of voices. All state is sized
// at construction so handling events never allocates.
//
// When no voice is free one is stolen, preferring in order: the oldest
// voice whose key has been released, the oldest voice that is neither
// the lowest nor the highest note sounding, and finally the oldest.
type Allocator struct {
	voices []Voice
	slots  []slot
	kind   SoundKind
	clock  uint64

	pitchWheel   [NumChannels]uint16
	sustainPedal [NumChannels]bool
}

// NewAllocator creates an allocator over voices for sounds of kind.
func NewAllocator(voices []Voice, kind SoundKind) *Allocator {
	a := &Allocator{
		voices: voices,
		slots:  make([]slot, len(voices)),
		kind:   kind,
	}
	for ch := range a.pitchWheel {
		a.pitchWheel[ch] = midi.PitchBendCenter
	}
	return a
}

// ProcessEvent handles a MIDI event. Event types the allocator does not
// deal with are ignored.
func (a *Allocator) ProcessEvent(event midi.Event) {
	ch := event.Channel() % NumChannels
	switch e := event.(type) {
	case midi.NoteOnEvent:
		if e.Velocity > 0 {
			a.NoteOn(ch, e.NoteNumber, e.NormalizedVelocity())
		} else {
			// Note on with velocity 0 is treated as note off
			a.NoteOff(ch, e.NoteNumber, 0, true)
		}
	case midi.NoteOffEvent:
		a.NoteOff(ch, e.NoteNumber, e.NormalizedVelocity(), true)
	case midi.PitchBendEvent:
		a.PitchWheel(ch, e.Value)
	case midi.ControlChangeEvent:
		a.Controller(ch, e.Controller, e.Value)
	}
}

// NoteOn starts note on the channel. A voice already playing the same
// note on the channel is released first.
func (a *Allocator) NoteOn(channel, note uint8, velocity float64) {
	channel %= NumChannels
	for i, v := range a.voices {
		s := &a.slots[i]
		if v.IsActive() && s.note == note && s.channel == channel {
			a.stop(i, 1, true)
		}
	}

	idx := a.findFreeVoice()
	if idx < 0 {
		idx = a.findVoiceToSteal()
		if idx < 0 {
			return
		}
	}
	a.start(idx, channel, note, velocity)
}

// NoteOff releases note on the channel. While the sustain pedal is down
// the voice keeps sounding until the pedal is lifted.
func (a *Allocator) NoteOff(channel, note uint8, velocity float64, allowTailOff bool) {
	channel %= NumChannels
	for i, v := range a.voices {
		s := &a.slots[i]
		if !v.IsActive() || !s.keyDown || s.note != note || s.channel != channel {
			continue
		}
		s.keyDown = false
		if a.sustainPedal[channel] {
			s.sustained = true
			continue
		}
		a.stop(i, velocity, allowTailOff)
	}
}

// AllNotesOff stops every voice on the channel, or on every channel
// when channel is negative.
func (a *Allocator) AllNotesOff(channel int, allowTailOff bool) {
	for i, v := range a.voices {
		if !v.IsActive() {
			continue
		}
		if channel >= 0 && int(a.slots[i].channel) != channel {
			continue
		}
		a.stop(i, 1, allowTailOff)
	}
	if channel < 0 {
		a.sustainPedal = [NumChannels]bool{}
	} else if channel < NumChannels {
		a.sustainPedal[channel] = false
	}
}

// PitchWheel records the channel's wheel position and forwards it to
// the voices playing on that channel.
func (a *Allocator) PitchWheel(channel uint8, value uint16) {
	channel %= NumChannels
	a.pitchWheel[channel] = value
	for i, v := range a.voices {
		if v.IsActive() && a.slots[i].channel == channel {
			v.PitchWheelMoved(value)
		}
	}
}

// PitchWheelPosition returns the last wheel position seen on the channel.
func (a *Allocator) PitchWheelPosition(channel uint8) uint16 {
	return a.pitchWheel[channel%NumChannels]
}

// Controller handles channel mode messages and the sustain pedal, and
// forwards every controller to the voices playing on the channel.
func (a *Allocator) Controller(channel, controller, value uint8) {
	channel %= NumChannels
	switch controller {
	case midi.CCSustain:
		a.SetSustainPedal(channel, value >= 64)
	case midi.CCAllNotesOff:
		a.AllNotesOff(int(channel), true)
		return
	case midi.CCAllSoundOff:
		a.AllNotesOff(int(channel), false)
		return
	}

	for i, v := range a.voices {
		if v.IsActive() && a.slots[i].channel == channel {
			v.ControllerMoved(controller, value)
		}
	}
}

// SetSustainPedal holds or lets go of the channel's released notes.
func (a *Allocator) SetSustainPedal(channel uint8, down bool) {
	channel %= NumChannels
	a.sustainPedal[channel] = down
	if down {
		return
	}
	for i, v := range a.voices {
		s := &a.slots[i]
		if s.channel != channel || !s.sustained {
			continue
		}
		s.sustained = false
		if v.IsActive() && !s.keyDown {
			a.stop(i, 0, true)
		}
	}
}

// SustainPedal reports whether the channel's pedal is down.
func (a *Allocator) SustainPedal(channel uint8) bool {
	return a.sustainPedal[channel%NumChannels]
}

// Reset silences every voice and forgets all controller state.
func (a *Allocator) Reset() {
	for i, v := range a.voices {
		if v.IsActive() {
			v.StopNote(0, false)
		}
		a.slots[i] = slot{}
	}
	a.clock = 0
	a.sustainPedal = [NumChannels]bool{}
	for ch := range a.pitchWheel {
		a.pitchWheel[ch] = midi.PitchBendCenter
	}
}

// GetActiveVoiceCount returns the number of active voices
func (a *Allocator) GetActiveVoiceCount() int {
	count := 0
	for _, v := range a.voices {
		if v.IsActive() {
			count++
		}
	}
	return count
}

// IsKeyDown reports whether voice i is sounding with its key still held.
func (a *Allocator) IsKeyDown(i int) bool {
	return a.voices[i].IsActive() && a.slots[i].keyDown
}

// Note returns the note last assigned to voice i.
func (a *Allocator) Note(i int) uint8 {
	return a.slots[i].note
}

func (a *Allocator) start(i int, channel, note uint8, velocity float64) {
	v := a.voices[i]
	if v.IsActive() {
		v.StopNote(0, false)
	}

	a.clock++
	a.slots[i] = slot{
		note:    note,
		channel: channel,
		keyDown: true,
		age:     a.clock,
	}
	v.StartNote(note, velocity, a.pitchWheel[channel])
}

func (a *Allocator) stop(i int, velocity float64, allowTailOff bool) {
	s := &a.slots[i]
	s.keyDown = false
	s.sustained = false
	a.voices[i].StopNote(velocity, allowTailOff)
}

func (a *Allocator) isReleased(i int) bool {
	s := &a.slots[i]
	return a.voices[i].IsActive() && !s.keyDown && !s.sustained
}

func (a *Allocator) findFreeVoice() int {
	for i, v := range a.voices {
		if !v.IsActive() && v.CanPlay(a.kind) {
			return i
		}
	}
	return -1
}

func (a *Allocator) findVoiceToSteal() int {
	low, top := -1, -1
	for i, v := range a.voices {
		if !v.CanPlay(a.kind) || !v.IsActive() {
			continue
		}
		n := a.slots[i].note
		if low < 0 || n < a.slots[low].note {
			low = i
		}
		if top < 0 || n > a.slots[top].note {
			top = i
		}
	}

	if i := a.oldest(stealReleased, low, top); i >= 0 {
		return i
	}
	if i := a.oldest(stealInner, low, top); i >= 0 {
		return i
	}
	return a.oldest(stealAny, low, top)
}

const (
	stealReleased = iota
	stealInner
	stealAny
)

func (a *Allocator) oldest(pass, low, top int) int {
	best := -1
	for i, v := range a.voices {
		if !v.CanPlay(a.kind) {
			continue
		}
		switch pass {
		case stealReleased:
			if !a.isReleased(i) {
				continue
			}
		case stealInner:
			if i == low || i == top {
				continue
			}
		}
		if best < 0 || a.slots[i].age < a.slots[best].age {
			best = i
		}
	}
	return best
}
