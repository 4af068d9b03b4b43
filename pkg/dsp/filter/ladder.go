// Package filter provides digital signal processing filters
package filter

import (
	"math"

	"github.com/khrykin/BlackBird/pkg/dsp/interpolation"
	"github.com/khrykin/BlackBird/pkg/dsp/utility"
)

const (
	numStages       = 5
	outputGain      = 1.2
	compensation    = 0.5
	smoothingTime   = 0.05
	defaultCutoffHz = 200.0
	defaultDrive    = 1.2
)

// saturation is the tanh shaper inside the feedback path.
var saturation = interpolation.NewLookupTable(math.Tanh, -5, 5, 128)

// Ladder is a five-stage nonlinear ladder filter with smoothed cutoff and
// resonance, tapped after the second stage for a 12 dB/octave low-pass.
// Resonance close to 1 makes the filter self-oscillate.
type Ladder struct {
	drive, drive2 float64
	gain, gain2   float64

	cutoffHz     float64
	resonance    float64
	cutoffScaler float64

	cutoffTransform utility.LinearSmoothedValue
	scaledRes       utility.LinearSmoothedValue
	a1, res         float64

	state    [][numStages]float64
	disabled bool
}

// NewLadder creates a ladder filter prepared for sampleRate and channels.
func NewLadder(sampleRate float64, channels int) *Ladder {
	l := &Ladder{}
	l.Prepare(sampleRate, channels)
	return l
}

// Prepare allocates per-channel state and resets the smoothers for
// sampleRate. Settings made before Prepare are kept.
func (l *Ladder) Prepare(sampleRate float64, channels int) {
	if l.drive == 0 {
		l.SetDrive(defaultDrive)
	}
	if l.cutoffHz == 0 {
		l.cutoffHz = defaultCutoffHz
	}
	if channels < 1 {
		channels = 1
	}
	l.state = make([][numStages]float64, channels)

	l.cutoffScaler = -2 * math.Pi / sampleRate
	l.cutoffTransform.Reset(sampleRate, smoothingTime)
	l.scaledRes.Reset(sampleRate, smoothingTime)
	l.SetCutoffFrequencyHz(l.cutoffHz)
	l.SetResonance(l.resonance)
	l.Reset()
}

// Reset clears the filter state and snaps the smoothers to their targets.
func (l *Ladder) Reset() {
	for ch := range l.state {
		l.state[ch] = [numStages]float64{}
	}
	l.cutoffTransform.SetCurrentAndTarget(l.cutoffTransform.Target())
	l.scaledRes.SetCurrentAndTarget(l.scaledRes.Target())
	l.a1 = l.cutoffTransform.Current()
	l.res = l.scaledRes.Current()
}

// SetEnabled turns the filter into a pass-through when false.
func (l *Ladder) SetEnabled(enabled bool) {
	l.disabled = !enabled
}

// IsEnabled reports whether the filter is processing.
func (l *Ladder) IsEnabled() bool {
	return !l.disabled
}

// SetCutoffFrequencyHz sets the target cutoff frequency.
func (l *Ladder) SetCutoffFrequencyHz(hz float64) {
	l.cutoffHz = hz
	l.cutoffTransform.SetTarget(math.Exp(hz * l.cutoffScaler))
}

// CutoffFrequencyHz returns the target cutoff frequency.
func (l *Ladder) CutoffFrequencyHz() float64 {
	return l.cutoffHz
}

// SetResonance sets the target resonance in [0, 1].
func (l *Ladder) SetResonance(r float64) {
	r = utility.ClampParameter(r, 0, 1)
	l.resonance = r
	l.scaledRes.SetTarget(0.1 + r*0.9)
}

// Resonance returns the target resonance.
func (l *Ladder) Resonance() float64 {
	return l.resonance
}

func driveGain(drive float64) float64 {
	return math.Pow(drive, -2.642)*0.6103 + 0.3903
}

// SetDrive sets the input drive (>= 1). Higher drive pushes the signal
// further into the saturator.
func (l *Ladder) SetDrive(drive float64) {
	if drive < 1 {
		drive = 1
	}
	l.drive = drive
	l.drive2 = drive*0.04 + 0.96
	l.gain = driveGain(drive)
	l.gain2 = driveGain(l.drive2)
}

// Drive returns the input drive.
func (l *Ladder) Drive() float64 {
	return l.drive
}

func (l *Ladder) updateSmoothers() {
	l.a1 = l.cutoffTransform.Next()
	l.res = l.scaledRes.Next()
}

func (l *Ladder) processSample(in float64, ch int) float64 {
	s := &l.state[ch]

	a1 := l.a1
	g := 1 - a1
	b0 := g * 0.76923076923
	b1 := g * 0.23076923076

	dx := l.gain * saturation.Process(l.drive*in)
	a := dx + l.res*-4*(l.gain2*saturation.Process(l.drive2*s[4])-dx*compensation)

	b := b1*s[0] + a1*s[1] + b0*a
	c := b1*s[1] + a1*s[2] + b0*b
	d := b1*s[2] + a1*s[3] + b0*c
	e := b1*s[3] + a1*s[4] + b0*d

	s[0], s[1], s[2], s[3], s[4] = a, b, c, d, e

	return c * outputGain
}

// Process filters every channel of block in place. All channels must have
// the same length and there must be no more channels than were prepared.
func (l *Ladder) Process(block [][]float32) {
	if l.state == nil {
		panic("filter: Process called before Prepare")
	}
	if l.disabled || len(block) == 0 {
		return
	}
	for i := range block[0] {
		l.updateSmoothers()
		for ch := range block {
			block[ch][i] = float32(l.processSample(float64(block[ch][i]), ch))
		}
	}
}

// ProcessMono filters a single channel in place using channel 0 state.
func (l *Ladder) ProcessMono(buffer []float32) {
	if l.state == nil {
		panic("filter: Process called before Prepare")
	}
	if l.disabled {
		return
	}
	for i := range buffer {
		l.updateSmoothers()
		buffer[i] = float32(l.processSample(float64(buffer[i]), 0))
	}
}
