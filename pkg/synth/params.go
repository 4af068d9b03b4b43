package synth

import (
	"errors"
	"fmt"
	"math"

	"github.com/khrykin/BlackBird/pkg/framework/param"
	"github.com/khrykin/BlackBird/pkg/midi"
)

// Value is a read-only view of one parameter. Implementations must be
// safe to read from the render goroutine while another goroutine writes
// them; *param.Parameter is.
type Value interface {
	GetPlainValue() float64
}

// Parameter IDs. They are also the IDs written to saved state.
const (
	ParamWaveform uint32 = iota
	ParamDetune
	ParamCutoff
	ParamResonance
	ParamDrive
	ParamAttack
	ParamDecay
	ParamSustain
	ParamRelease
	ParamCutoffEnvelope
	ParamResonanceEnvelope
	ParamVelocityEnvelope
	ParamReverb
	ParamMasterGain

	NumParams = iota
)

// Ranges and defaults.
const (
	MinCutoff = 50.0
	MaxCutoff = 22000.0

	MinEnvelopeSeconds = 0.01
	MaxEnvelopeSeconds = 15.0

	MinDrive = 1.0
	MaxDrive = 50.0

	MaxMasterGain = 4.0

	DefaultDetune           = 0.5
	DefaultDrive            = 1.0
	DefaultSustain          = 1.0
	DefaultVelocityEnvelope = 1.0
	DefaultMasterGain       = 1.0
)

var ErrMissingParameter = errors.New("synth: missing parameter")

// Parameters is the set of values the engine reads while rendering.
type Parameters struct {
	Waveform  Value
	Detune    Value
	Cutoff    Value
	Resonance Value
	Drive     Value

	Attack  Value
	Decay   Value
	Sustain Value
	Release Value

	CutoffEnvelope    Value
	ResonanceEnvelope Value
	VelocityEnvelope  Value

	Reverb     Value
	MasterGain Value
}

func (p *Parameters) fields() [NumParams]*Value {
	return [NumParams]*Value{
		&p.Waveform, &p.Detune, &p.Cutoff, &p.Resonance, &p.Drive,
		&p.Attack, &p.Decay, &p.Sustain, &p.Release,
		&p.CutoffEnvelope, &p.ResonanceEnvelope, &p.VelocityEnvelope,
		&p.Reverb, &p.MasterGain,
	}
}

func (p *Parameters) validate() error {
	for id, v := range p.fields() {
		if *v == nil {
			return fmt.Errorf("%w: id %d", ErrMissingParameter, id)
		}
	}
	return nil
}

// BuildParameters creates the instrument's parameters with their ranges,
// defaults and display formats.
func BuildParameters() []*param.Parameter {
	return []*param.Parameter{
		param.Choice(ParamWaveform, "Waveform", []param.ChoiceOption{
			{Value: 0, Name: "Sine", Aliases: []string{"sin"}},
			{Value: 1, Name: "Saw", Aliases: []string{"sawtooth"}},
			{Value: 2, Name: "Square", Aliases: []string{"pulse"}},
		}).ShortName("Wave").Build(),
		param.PercentParameter(ParamDetune, "Detune", 0, 1, DefaultDetune).Build(),
		param.FrequencyParameter(ParamCutoff, "Cutoff", MinCutoff, MaxCutoff, MaxCutoff).Build(),
		param.PercentParameter(ParamResonance, "Resonance", 0, 1, 0).ShortName("Res").Build(),
		param.MultiplierParameter(ParamDrive, "Drive", MinDrive, MaxDrive, DefaultDrive).Build(),

		param.SecondsParameter(ParamAttack, "Attack", MinEnvelopeSeconds, MaxEnvelopeSeconds, MinEnvelopeSeconds).ShortName("A").Build(),
		param.SecondsParameter(ParamDecay, "Decay", MinEnvelopeSeconds, MaxEnvelopeSeconds, MinEnvelopeSeconds).ShortName("D").Build(),
		param.PercentParameter(ParamSustain, "Sustain", 0, 1, DefaultSustain).ShortName("S").Build(),
		param.SecondsParameter(ParamRelease, "Release", MinEnvelopeSeconds, MaxEnvelopeSeconds, MinEnvelopeSeconds).ShortName("R").Build(),

		param.PercentParameter(ParamCutoffEnvelope, "Cutoff Env", -1, 1, 0).Build(),
		param.PercentParameter(ParamResonanceEnvelope, "Resonance Env", -1, 1, 0).ShortName("Res Env").Build(),
		param.PercentParameter(ParamVelocityEnvelope, "Velocity Env", 0, 1, DefaultVelocityEnvelope).ShortName("Vel Env").Build(),

		param.PercentParameter(ParamReverb, "Reverb", 0, 1, 0).Build(),
		param.LinearGainParameter(ParamMasterGain, "Master Gain", MaxMasterGain, DefaultMasterGain).StepSize(0.01).ShortName("Gain").Build(),
	}
}

// RegisterParameters adds the instrument's parameters to reg and returns
// the handles the engine reads.
func RegisterParameters(reg *param.Registry) (Parameters, error) {
	params := BuildParameters()
	if err := reg.Add(params...); err != nil {
		return Parameters{}, fmt.Errorf("register parameters: %w", err)
	}

	var p Parameters
	fields := p.fields()
	for _, prm := range params {
		*fields[prm.ID] = prm
	}
	return p, nil
}

// EnvelopeFactor maps an envelope level through a bipolar amount in
// [-1, 1]. A positive amount opens towards the envelope from 1-amount,
// a negative one closes from 1 by amount·env. Zero ignores the envelope.
func EnvelopeFactor(amount, env float64) float64 {
	if amount >= 0 {
		return (1 - amount) + amount*env
	}
	return 1 + amount*env
}

// VelocityLevel is the gain a note of velocity v gets when velocity
// sensitivity is amount.
func VelocityLevel(amount, velocity float64) float64 {
	return 1 - amount*(1-velocity)
}

// PitchBendRange is the wheel range in semitones either way.
const PitchBendRange = 2.0

// BendFactor is the frequency multiplier for a 14-bit wheel position.
func BendFactor(wheel uint16) float64 {
	semitones := PitchBendRange * midi.NormalizePitchBend(wheel)
	if semitones == 0 {
		return 1
	}
	return math.Pow(2, semitones/12)
}

// NoteFrequency is the playing frequency of note under the wheel.
func NoteFrequency(note uint8, wheel uint16) float64 {
	return midi.NoteToFrequency(float64(note)) * BendFactor(wheel)
}
