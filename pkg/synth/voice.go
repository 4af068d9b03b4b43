package synth

import (
	"math"
	"math/rand/v2"

	"github.com/khrykin/BlackBird/pkg/dsp"
	"github.com/khrykin/BlackBird/pkg/dsp/envelope"
	"github.com/khrykin/BlackBird/pkg/dsp/filter"
	"github.com/khrykin/BlackBird/pkg/dsp/gain"
	"github.com/khrykin/BlackBird/pkg/dsp/modulation"
	"github.com/khrykin/BlackBird/pkg/dsp/oscillator"
	"github.com/khrykin/BlackBird/pkg/dsp/utility"
	"github.com/khrykin/BlackBird/pkg/dsp/wavetable"
	"github.com/khrykin/BlackBird/pkg/framework/voice"
	"github.com/khrykin/BlackBird/pkg/midi"
)

// SoundSynth is the only sound kind the engine plays.
const SoundSynth voice.SoundKind = 1

const (
	// OutputGain leaves headroom for several voices summing at full level.
	OutputGain = 0.1

	MaxDetuningFactor     = 6.0
	DefaultDetuningFactor = 2.0
	MaxAnalogFactor       = 0.0025

	// The LFO runs five octaves below the note.
	lfoOctavesBelow = 5
)

// State is where a voice is in its life.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StateReleasing
	StateFading
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateReleasing:
		return "releasing"
	case StateFading:
		return "fading"
	default:
		return "idle"
	}
}

// Stage names one processor of the voice chain.
type Stage int

const (
	StageOsc1 Stage = iota
	StageOsc2
	StageFilter
	StageGain
)

// Voice is one note of the synth: two detuned wavetable oscillators into
// a ladder filter and an output gain. The envelope, filter mapping and
// vibrato are updated once every control block rather than per sample.
type Voice struct {
	params *Parameters
	rng    *rand.Rand

	osc1, osc2 oscillator.VCA
	filter     filter.Ladder
	out        gain.Gain
	adsr       envelope.ADSR
	lfo        modulation.LFO

	scratch []float32

	controlBlockSize int
	untilTick        int
	fadeSamples      int
	fadeRemaining    int

	state    State
	note     uint8
	velocity float64
	wheel    uint16

	frequency      float64
	drift1, drift2 float64
	osc2Base       float64
	modDepth       float64

	waveform wavetable.Kind
	detune   float64
	drive    float64

	gainBypassed bool
}

func newVoice(params *Parameters, rng *rand.Rand) *Voice {
	return &Voice{
		params: params,
		rng:    rng,
		wheel:  midi.PitchBendCenter,
	}
}

func (v *Voice) prepare(bank *wavetable.Bank, maxBlockSize int, cfg Config) {
	sampleRate := bank.SampleRate()
	controlRate := sampleRate / float64(cfg.ControlBlockSize)

	v.controlBlockSize = cfg.ControlBlockSize
	v.fadeSamples = int(math.Round(cfg.FadeSeconds * sampleRate))
	v.scratch = make([]float32, maxBlockSize)

	v.osc1.Prepare(bank, cfg.ControlBlockSize)
	v.osc2.Prepare(bank, cfg.ControlBlockSize)
	v.filter.Prepare(sampleRate, 1)

	v.out.SetRampSamples(0)
	v.out.SetGainLinear(OutputGain)
	v.out.Reset()

	v.adsr.SetSampleRate(controlRate)
	v.lfo.Prepare(controlRate)
	v.lfo.SetDepth(1)

	v.kill()
}

// CanPlay implements voice.Voice.
func (v *Voice) CanPlay(kind voice.SoundKind) bool {
	return kind == SoundSynth
}

// IsActive reports whether the voice is sounding or settling.
func (v *Voice) IsActive() bool {
	return v.state != StateIdle
}

func (v *Voice) State() State {
	return v.state
}

func (v *Voice) Note() uint8 {
	return v.note
}

// Frequency is the bent note frequency before drift and detune.
func (v *Voice) Frequency() float64 {
	return v.frequency
}

// OscillatorFrequencies returns the frequencies the two oscillators are
// currently running at.
func (v *Voice) OscillatorFrequencies() (float64, float64) {
	return v.osc1.Frequency(), v.osc2.Frequency()
}

// EnvelopeStage reports the amplitude envelope stage.
func (v *Voice) EnvelopeStage() envelope.Stage {
	return v.adsr.GetStage()
}

// SetBypass switches one stage of the chain off or back on.
func (v *Voice) SetBypass(stage Stage, bypassed bool) {
	switch stage {
	case StageOsc1:
		v.osc1.SetBypassed(bypassed)
	case StageOsc2:
		v.osc2.SetBypassed(bypassed)
	case StageFilter:
		v.filter.SetEnabled(!bypassed)
	case StageGain:
		v.gainBypassed = bypassed
	}
}

// StartNote implements voice.Voice.
func (v *Voice) StartNote(note uint8, velocity float64, pitchWheel uint16) {
	fresh := v.state == StateIdle

	v.note = note
	v.velocity = utility.ClampParameter(velocity, 0, 1)
	v.wheel = pitchWheel
	v.frequency = NoteFrequency(note, pitchWheel)

	v.drift1 = v.drift()
	v.drift2 = v.drift()
	v.applyWaveform(true)
	v.applyDrive(true)
	v.detune = v.params.Detune.GetPlainValue()
	v.updateFrequencies()

	v.lfo.SetFrequency(v.frequency / (1 << lfoOctavesBelow))
	v.lfo.Reset()

	v.adsr.SetParameters(v.envelopeParameters())
	v.adsr.NoteOn()

	if fresh {
		v.updateFilter(0)
		v.filter.Reset()
		v.osc1.Reset()
		v.osc2.Reset()
		v.untilTick = 0
	}
	v.fadeRemaining = 0
	v.state = StatePlaying
}

// StopNote implements voice.Voice. Without tail-off the voice is silent
// from the next rendered sample.
func (v *Voice) StopNote(_ float64, allowTailOff bool) {
	if !allowTailOff {
		v.kill()
		return
	}
	if v.state != StatePlaying {
		return
	}
	v.adsr.NoteOff()
	if v.adsr.IsActive() {
		v.state = StateReleasing
		return
	}
	v.startFade()
}

// PitchWheelMoved implements voice.Voice.
func (v *Voice) PitchWheelMoved(value uint16) {
	v.wheel = value
	v.frequency = NoteFrequency(v.note, value)
	v.updateFrequencies()
}

// ControllerMoved implements voice.Voice. The mod wheel sets the vibrato
// depth of the second oscillator.
func (v *Voice) ControllerMoved(controller, value uint8) {
	if controller == midi.CCModWheel {
		v.modDepth = float64(min(value, 127)) / 127
	}
}

// Render adds n samples of the voice into every channel of out starting
// at start.
func (v *Voice) Render(out [][]float32, start, n int) {
	if v.state == StateIdle || n <= 0 {
		return
	}
	buf := v.scratch[:n]
	clear(buf)

	for pos := 0; pos < n && v.state != StateIdle; {
		if v.untilTick == 0 {
			v.tick()
			v.untilTick = v.controlBlockSize
		}
		size := min(v.untilTick, n-pos)
		seg := buf[pos : pos+size]

		v.osc1.Process(seg)
		v.osc2.Process(seg)
		v.filter.ProcessMono(seg)
		if !v.gainBypassed {
			v.out.Process(seg)
		}

		v.untilTick -= size
		pos += size
		v.advanceFade(size)
	}

	dsp.AddToChannels(out, buf, start)
}

func (v *Voice) tick() {
	v.applyWaveform(false)
	v.applyDrive(false)
	if d := v.params.Detune.GetPlainValue(); d != v.detune {
		v.detune = d
		v.updateFrequencies()
	}

	v.adsr.SetParameters(v.envelopeParameters())
	env := v.adsr.Next()

	level := VelocityLevel(v.params.VelocityEnvelope.GetPlainValue(), v.velocity) * env
	v.osc1.SetLevel(level)
	v.osc2.SetLevel(level)

	v.updateFilter(env)

	m := v.lfo.Process()
	v.osc2.SetFrequency(v.osc2Base * (1 + v.modDepth*m*(MaxDetuningFactor-DefaultDetuningFactor)*MaxAnalogFactor))

	if v.state != StateFading && !v.adsr.IsActive() {
		v.startFade()
	}
}

func (v *Voice) envelopeParameters() envelope.Parameters {
	return envelope.Parameters{
		Attack:  v.params.Attack.GetPlainValue(),
		Decay:   v.params.Decay.GetPlainValue(),
		Sustain: v.params.Sustain.GetPlainValue(),
		Release: v.params.Release.GetPlainValue(),
	}
}

func (v *Voice) updateFilter(env float64) {
	cutoff := v.params.Cutoff.GetPlainValue()
	factor := EnvelopeFactor(v.params.CutoffEnvelope.GetPlainValue(), env)
	v.filter.SetCutoffFrequencyHz(utility.ClampParameter(factor*(cutoff-MinCutoff)+MinCutoff, MinCutoff, MaxCutoff))

	res := v.params.Resonance.GetPlainValue()
	factor = EnvelopeFactor(v.params.ResonanceEnvelope.GetPlainValue(), env)
	v.filter.SetResonance(utility.ClampParameter(factor*res, 0, 1))
}

func (v *Voice) applyWaveform(force bool) {
	kind := wavetable.ClampKind(wavetable.Kind(math.Round(v.params.Waveform.GetPlainValue())))
	if force || kind != v.waveform {
		v.waveform = kind
		v.osc1.SetWaveform(kind)
		v.osc2.SetWaveform(kind)
	}
}

func (v *Voice) applyDrive(force bool) {
	d := v.params.Drive.GetPlainValue()
	if force || d != v.drive {
		v.drive = d
		v.filter.SetDrive(d)
	}
}

// updateFrequencies derives both oscillator frequencies from the note
// frequency, the drift drawn at note start and the detune amount.
func (v *Voice) updateFrequencies() {
	v.osc1.SetFrequency(v.frequency * (1 + v.drift1))
	v.osc2Base = v.frequency * (1 + v.drift2) * (1 + MaxDetuningFactor*v.detune*v.drift2)
	v.osc2.SetFrequency(v.osc2Base)
}

// drift returns a random relative mistuning of at most MaxAnalogFactor
// either way.
func (v *Voice) drift() float64 {
	sign := 1.0
	if v.rng.IntN(2) == 0 {
		sign = -1
	}
	return sign * MaxAnalogFactor * v.rng.Float64()
}

func (v *Voice) startFade() {
	v.state = StateFading
	v.fadeRemaining = v.fadeSamples
	if v.fadeRemaining == 0 {
		v.kill()
	}
}

func (v *Voice) advanceFade(n int) {
	if v.state != StateFading {
		return
	}
	v.fadeRemaining -= n
	if v.fadeRemaining <= 0 {
		v.kill()
	}
}

func (v *Voice) kill() {
	v.adsr.Reset()
	v.osc1.SetLevel(0)
	v.osc2.SetLevel(0)
	v.osc1.Reset()
	v.osc2.Reset()
	v.filter.Reset()
	v.lfo.Reset()
	v.untilTick = 0
	v.fadeRemaining = 0
	v.state = StateIdle
}
