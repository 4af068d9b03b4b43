package sequence

import "github.com/khrykin/BlackBird/pkg/midi"

// Demo returns a short chord progression with a pitch bend and some mod
// wheel on the last chord, timed for sampleRate.
func Demo(sampleRate float64) *Sequence {
	chords := [][]uint8{
		{48, 60, 64, 67},
		{53, 60, 65, 69},
		{55, 62, 67, 71},
		{48, 60, 64, 72},
	}
	const (
		chordSeconds = 1.0
		gapSeconds   = 0.1
		velocity     = 100
	)

	at := func(seconds float64) int64 {
		return int64(seconds * sampleRate)
	}

	var events []Event
	for i, chord := range chords {
		start := float64(i) * chordSeconds
		stop := start + chordSeconds - gapSeconds
		for _, note := range chord {
			events = append(events,
				Event{Frame: at(start), Event: midi.NoteOnEvent{NoteNumber: note, Velocity: velocity}},
				Event{Frame: at(stop), Event: midi.NoteOffEvent{NoteNumber: note}},
			)
		}
	}

	bendStart := 2 * chordSeconds
	for step := 0; step <= 8; step++ {
		w := midi.PitchBendCenter + uint16(step)*(midi.PitchBendMax-midi.PitchBendCenter)/16
		if step == 8 {
			w = midi.PitchBendCenter
		}
		events = append(events, Event{
			Frame: at(bendStart + float64(step)*0.1),
			Event: midi.PitchBendEvent{Value: w},
		})
	}

	modStart := 3 * chordSeconds
	events = append(events,
		Event{Frame: at(modStart), Event: midi.ControlChangeEvent{Controller: midi.CCModWheel, Value: 127}},
		Event{Frame: at(modStart + chordSeconds), Event: midi.ControlChangeEvent{Controller: midi.CCModWheel, Value: 0}},
	)
	return New(events)
}
