package synth

import (
	"math"
	"testing"

	"github.com/khrykin/BlackBird/pkg/dsp/envelope"
	"github.com/khrykin/BlackBird/pkg/dsp/wavetable"
	"github.com/khrykin/BlackBird/pkg/midi"
)

func TestDriftWithinBounds(t *testing.T) {
	s, reg := newTestSynth(t, 21)
	reg.Get(ParamDetune).SetPlainValue(0)

	for note := uint8(30); note < 100; note++ {
		s.Reset()
		s.HandleEvent(noteOn(note, 100, 0))
		v := s.Voices()[0]
		f := v.Frequency()
		f1, f2 := v.OscillatorFrequencies()
		for _, got := range []float64{f1, f2} {
			if math.Abs(got/f-1) > MaxAnalogFactor+1e-12 {
				t.Fatalf("note %d: oscillator at %v Hz drifts more than %v from %v Hz", note, got, MaxAnalogFactor, f)
			}
		}
	}
}

func TestDetuneSpreadsSecondOscillator(t *testing.T) {
	s, reg := newTestSynth(t, 21)
	reg.Get(ParamDetune).SetPlainValue(0)
	s.HandleEvent(noteOn(69, 100, 0))
	v := s.Voices()[0]
	_, tight := v.OscillatorFrequencies()

	reg.Get(ParamDetune).SetPlainValue(1)
	render(s, DefaultControlBlockSize)
	_, wide := v.OscillatorFrequencies()

	// Detune multiplies the second oscillator's own drift.
	d2 := tight/440 - 1
	want := 440 * (1 + d2) * (1 + MaxDetuningFactor*d2)
	if math.Abs(wide-want) > 1e-9 {
		t.Errorf("detuned osc2 = %v Hz, want %v Hz", wide, want)
	}
}

func TestPitchWheelRetunesVoice(t *testing.T) {
	s, _ := newTestSynth(t, 21)
	s.HandleEvent(noteOn(69, 100, 0))
	v := s.Voices()[0]
	f1, _ := v.OscillatorFrequencies()

	s.HandleEvent(midi.PitchBendEvent{Value: midi.PitchBendMax})
	if got, want := v.Frequency(), 440*math.Pow(2, 2.0/12); math.Abs(got-want) > 1e-9 {
		t.Errorf("Frequency() = %v, want %v", got, want)
	}
	bent, _ := v.OscillatorFrequencies()
	if math.Abs(bent/f1-math.Pow(2, 2.0/12)) > 1e-9 {
		t.Errorf("osc1 moved by %v, want a whole tone", bent/f1)
	}

	// A new note starts at the wheel position of its channel.
	s.HandleEvent(noteOn(57, 100, 0))
	if got, want := s.Voices()[1].Frequency(), 220*math.Pow(2, 2.0/12); math.Abs(got-want) > 1e-9 {
		t.Errorf("new note Frequency() = %v, want %v", got, want)
	}
}

func TestModWheelVibrato(t *testing.T) {
	s, _ := newTestSynth(t, 13)
	s.HandleEvent(noteOn(69, 100, 0))
	v := s.Voices()[0]
	_, base := v.OscillatorFrequencies()

	for range 20 {
		render(s, DefaultControlBlockSize)
		if _, f := v.OscillatorFrequencies(); f != base {
			t.Fatalf("osc2 moved to %v Hz without the mod wheel", f)
		}
	}

	s.HandleEvent(midi.ControlChangeEvent{Controller: midi.CCModWheel, Value: 127})
	moved := false
	limit := base * (MaxDetuningFactor - DefaultDetuningFactor) * MaxAnalogFactor
	for range 200 {
		render(s, DefaultControlBlockSize)
		_, f := v.OscillatorFrequencies()
		if math.Abs(f-base) > limit+1e-9 {
			t.Fatalf("vibrato reached %v Hz, more than %v Hz from %v Hz", f, limit, base)
		}
		if f != base {
			moved = true
		}
	}
	if !moved {
		t.Error("mod wheel did not modulate the second oscillator")
	}
}

func TestWaveformFollowsParameter(t *testing.T) {
	s, reg := newTestSynth(t, 13)
	s.HandleEvent(noteOn(60, 100, 0))
	v := s.Voices()[0]
	if v.osc1.Waveform() != wavetable.Sine {
		t.Fatalf("initial waveform = %v, want sine", v.osc1.Waveform())
	}

	reg.Get(ParamWaveform).SetPlainValue(2)
	render(s, DefaultControlBlockSize)
	if v.osc1.Waveform() != wavetable.Square || v.osc2.Waveform() != wavetable.Square {
		t.Errorf("waveforms = %v/%v, want square", v.osc1.Waveform(), v.osc2.Waveform())
	}
}

func TestCutoffEnvelopeClosesFilter(t *testing.T) {
	s, reg := newTestSynth(t, 13)
	reg.Get(ParamCutoff).SetPlainValue(10000)
	reg.Get(ParamCutoffEnvelope).SetPlainValue(1)
	reg.Get(ParamAttack).SetPlainValue(1)

	s.HandleEvent(noteOn(60, 100, 0))
	v := s.Voices()[0]
	render(s, DefaultControlBlockSize)
	early := v.filter.CutoffFrequencyHz()
	render(s, int(testSampleRate))
	late := v.filter.CutoffFrequencyHz()

	if early >= late {
		t.Errorf("cutoff did not open with the envelope: %v Hz then %v Hz", early, late)
	}
	if math.Abs(late-10000) > 1e-6 {
		t.Errorf("cutoff at envelope peak = %v Hz, want 10000 Hz", late)
	}
	if early < MinCutoff {
		t.Errorf("cutoff %v Hz below the minimum", early)
	}
}

func TestZeroSustainKeepsVoicePlaying(t *testing.T) {
	s, reg := newTestSynth(t, 13)
	reg.Get(ParamSustain).SetPlainValue(0)
	s.HandleEvent(noteOn(60, 100, 0))
	v := s.Voices()[0]

	render(s, int(testSampleRate/10))
	if v.EnvelopeStage() != envelope.StageSustain {
		t.Fatalf("EnvelopeStage() = %v, want sustain", v.EnvelopeStage())
	}
	if v.State() != StatePlaying {
		t.Errorf("State() = %v, want playing while the key is held", v.State())
	}
}

func TestStolenVoiceRestartsClean(t *testing.T) {
	s, _ := newTestSynth(t, 13)
	for i := range uint8(DefaultVoices) {
		s.HandleEvent(noteOn(60+i, 100, 0))
	}
	render(s, 1024)

	s.HandleEvent(noteOn(90, 100, 0))
	playing := 0
	for _, v := range s.Voices() {
		if v.Note() == 90 {
			playing++
			if v.State() != StatePlaying {
				t.Errorf("stolen voice State() = %v, want playing", v.State())
			}
		}
	}
	if playing != 1 {
		t.Errorf("%d voices play the new note, want 1", playing)
	}
}
