// Package reverb provides a Freeverb-style stereo reverb.
package reverb

import (
	"math"

	"github.com/khrykin/BlackBird/pkg/dsp/utility"
)

// Freeverb tuning constants (scaled for 44.1kHz)
const (
	numCombs     = 8
	numAllpasses = 4
	fixedGain    = 0.015
	scaleDamping = 0.4
	scaleRoom    = 0.28
	offsetRoom   = 0.7
	scaleWet     = 3.0
	scaleDry     = 2.0
	stereoSpread = 23
	smoothTime   = 0.01
)

// Comb filter tuning values (in samples at 44.1kHz)
var combTuning = [numCombs]int{
	1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617,
}

// Allpass filter tuning values (in samples at 44.1kHz)
var allpassTuning = [numAllpasses]int{
	556, 441, 341, 225,
}

// Parameters describes the reverb sound. All values are in [0, 1].
type Parameters struct {
	RoomSize float64
	Damping  float64
	WetLevel float64
	DryLevel float64
	Width    float64
	Freeze   bool
}

// DefaultParameters returns a medium room with a third wet and a touch of dry.
func DefaultParameters() Parameters {
	return Parameters{
		RoomSize: 0.5,
		Damping:  0.5,
		WetLevel: 0.33,
		DryLevel: 0.4,
		Width:    1.0,
	}
}

// Freeverb implements the Freeverb reverb algorithm by Jezar at Dreampoint.
// Parameter changes are smoothed over 10 ms.
type Freeverb struct {
	params     Parameters
	sampleRate float64
	gain       float32

	comb    [2][numCombs]combFilter
	allpass [2][numAllpasses]allPassFilter

	damping  utility.LinearSmoothedValue
	feedback utility.LinearSmoothedValue
	dry      utility.LinearSmoothedValue
	wet1     utility.LinearSmoothedValue
	wet2     utility.LinearSmoothedValue
}

// NewFreeverb creates a new Freeverb reverb instance
func NewFreeverb(sampleRate float64) *Freeverb {
	f := &Freeverb{}
	f.SetParameters(DefaultParameters())
	f.Prepare(sampleRate)
	return f
}

// Prepare sizes the delay lines for sampleRate and clears them.
func (f *Freeverb) Prepare(sampleRate float64) {
	f.sampleRate = sampleRate
	for i := 0; i < numCombs; i++ {
		f.comb[0][i].setSize(int(sampleRate * float64(combTuning[i]) / 44100))
		f.comb[1][i].setSize(int(sampleRate * float64(combTuning[i]+stereoSpread) / 44100))
	}
	for i := 0; i < numAllpasses; i++ {
		f.allpass[0][i].setSize(int(sampleRate * float64(allpassTuning[i]) / 44100))
		f.allpass[1][i].setSize(int(sampleRate * float64(allpassTuning[i]+stereoSpread) / 44100))
	}

	for _, s := range []*utility.LinearSmoothedValue{&f.damping, &f.feedback, &f.dry, &f.wet1, &f.wet2} {
		s.Reset(sampleRate, smoothTime)
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// SetParameters updates the reverb sound.
func (f *Freeverb) SetParameters(p Parameters) {
	p.RoomSize = clamp01(p.RoomSize)
	p.Damping = clamp01(p.Damping)
	p.WetLevel = clamp01(p.WetLevel)
	p.DryLevel = clamp01(p.DryLevel)
	p.Width = clamp01(p.Width)
	f.params = p

	wet := p.WetLevel * scaleWet
	f.dry.SetTarget(p.DryLevel * scaleDry)
	f.wet1.SetTarget(0.5 * wet * (1 + p.Width))
	f.wet2.SetTarget(0.5 * wet * (1 - p.Width))

	if p.Freeze {
		f.gain = 0
		f.damping.SetTarget(0)
		f.feedback.SetTarget(1)
	} else {
		f.gain = fixedGain
		f.damping.SetTarget(p.Damping * scaleDamping)
		f.feedback.SetTarget(p.RoomSize*scaleRoom + offsetRoom)
	}
}

// GetParameters returns the current reverb sound.
func (f *Freeverb) GetParameters() Parameters {
	return f.params
}

// SetRoomSize sets the room size (0-1)
func (f *Freeverb) SetRoomSize(size float64) {
	p := f.params
	p.RoomSize = size
	f.SetParameters(p)
}

// SetDamping sets the damping amount (0-1)
func (f *Freeverb) SetDamping(damping float64) {
	p := f.params
	p.Damping = damping
	f.SetParameters(p)
}

// SetWetLevel sets the wet signal level (0-1)
func (f *Freeverb) SetWetLevel(level float64) {
	p := f.params
	p.WetLevel = level
	f.SetParameters(p)
}

// SetDryLevel sets the dry signal level (0-1)
func (f *Freeverb) SetDryLevel(level float64) {
	p := f.params
	p.DryLevel = level
	f.SetParameters(p)
}

// SetWidth sets the stereo width (0-1)
func (f *Freeverb) SetWidth(width float64) {
	p := f.params
	p.Width = width
	f.SetParameters(p)
}

// ProcessStereo runs the reverb over a pair of channels in place.
func (f *Freeverb) ProcessStereo(left, right []float32) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	for i := 0; i < n; i++ {
		input := (left[i] + right[i]) * f.gain
		damp := float32(f.damping.Next())
		feedback := float32(f.feedback.Next())

		var outL, outR float32
		for j := 0; j < numCombs; j++ {
			outL += f.comb[0][j].process(input, damp, feedback)
			outR += f.comb[1][j].process(input, damp, feedback)
		}
		for j := 0; j < numAllpasses; j++ {
			outL = f.allpass[0][j].process(outL)
			outR = f.allpass[1][j].process(outR)
		}

		dry := float32(f.dry.Next())
		wet1 := float32(f.wet1.Next())
		wet2 := float32(f.wet2.Next())

		left[i] = outL*wet1 + outR*wet2 + left[i]*dry
		right[i] = outR*wet1 + outL*wet2 + right[i]*dry
	}
}

// ProcessMono runs the left half of the reverb over one channel in place.
func (f *Freeverb) ProcessMono(samples []float32) {
	for i := range samples {
		input := samples[i] * f.gain
		damp := float32(f.damping.Next())
		feedback := float32(f.feedback.Next())

		var out float32
		for j := 0; j < numCombs; j++ {
			out += f.comb[0][j].process(input, damp, feedback)
		}
		for j := 0; j < numAllpasses; j++ {
			out = f.allpass[0][j].process(out)
		}

		dry := float32(f.dry.Next())
		wet1 := float32(f.wet1.Next())
		samples[i] = out*wet1 + samples[i]*dry
	}
}

// Process runs the reverb over one or two channels in place. Channels
// beyond the second are left untouched.
func (f *Freeverb) Process(block [][]float32) {
	switch {
	case len(block) == 1:
		f.ProcessMono(block[0])
	case len(block) >= 2:
		f.ProcessStereo(block[0], block[1])
	}
}

// Reset clears all internal state
func (f *Freeverb) Reset() {
	for ch := 0; ch < 2; ch++ {
		for i := 0; i < numCombs; i++ {
			f.comb[ch][i].clear()
		}
		for i := 0; i < numAllpasses; i++ {
			f.allpass[ch][i].clear()
		}
	}
}
