// Package gain provides amplitude and gain-related DSP operations.
package gain

import (
	"math"

	"github.com/khrykin/BlackBird/pkg/dsp/utility"
)

// MinDB is the minimum dB value (effectively -infinity)
const MinDB = -200.0

// LinearToDb converts a linear amplitude value to decibels.
// Returns MinDB for values <= 0.
func LinearToDb(linear float64) float64 {
	if linear <= 0 {
		return MinDB
	}
	return 20.0 * math.Log10(linear)
}

// DbToLinear converts a decibel value to linear amplitude.
// Values <= MinDB return 0.
func DbToLinear(db float64) float64 {
	if db <= MinDB {
		return 0
	}
	return math.Pow(10.0, db/20.0)
}

// ApplyBuffer applies gain to an entire buffer in-place.
func ApplyBuffer(buffer []float32, gain float32) {
	for i := range buffer {
		buffer[i] *= gain
	}
}

// rampAt returns the gain of sample i in a linear ramp of length n.
// The first sample gets exactly start and the last exactly end.
func rampAt(i, n int, start, end float64) float32 {
	if i == n-1 {
		return float32(end)
	}
	return float32(start + (end-start)*float64(i)/float64(n-1))
}

// Fade applies a linear fade between two gain values and returns the
// gain applied to the last sample. The first sample is scaled by
// startGain and the last by endGain, so consecutive fades that start
// from the returned gain join without a step. A single sample holds
// startGain and the ramp is left to the next call.
func Fade(buffer []float32, startGain, endGain float64) float64 {
	n := len(buffer)
	if n == 0 {
		return startGain
	}
	if n == 1 || startGain == endGain {
		ApplyBuffer(buffer, float32(startGain))
		return startGain
	}
	for i := range buffer {
		buffer[i] *= rampAt(i, n, startGain, endGain)
	}
	return endGain
}

// AddFaded adds src into dst with a linear fade from startGain to endGain
// and returns the gain applied to the last sample, as Fade does.
func AddFaded(dst, src []float32, startGain, endGain float64) float64 {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	if n == 0 {
		return startGain
	}
	if n == 1 || startGain == endGain {
		g := float32(startGain)
		for i := 0; i < n; i++ {
			dst[i] += src[i] * g
		}
		return startGain
	}
	for i := 0; i < n; i++ {
		dst[i] += src[i] * rampAt(i, n, startGain, endGain)
	}
	return endGain
}

// Gain is a linear gain stage whose changes ramp over a fixed number of
// samples instead of stepping.
type Gain struct {
	value utility.LinearSmoothedValue
}

// NewGain creates a gain stage at the given linear gain with no ramp.
func NewGain(linear float64) *Gain {
	g := &Gain{}
	g.value.SetCurrentAndTarget(linear)
	return g
}

// SetRampSamples sets how many samples a gain change takes.
func (g *Gain) SetRampSamples(n int) {
	g.value.ResetSteps(n)
}

// SetRampDuration sets the ramp length from a sample rate and seconds.
func (g *Gain) SetRampDuration(sampleRate, seconds float64) {
	g.value.Reset(sampleRate, seconds)
}

// SetGainLinear sets the target linear gain.
func (g *Gain) SetGainLinear(linear float64) {
	g.value.SetTarget(linear)
}

// SetGainDb sets the target gain in decibels.
func (g *Gain) SetGainDb(db float64) {
	g.value.SetTarget(DbToLinear(db))
}

// GainLinear returns the target linear gain.
func (g *Gain) GainLinear() float64 {
	return g.value.Target()
}

// Next returns the gain for the next sample.
func (g *Gain) Next() float64 {
	return g.value.Next()
}

// Process applies the gain to a buffer in-place.
func (g *Gain) Process(buffer []float32) {
	if !g.value.IsSmoothing() {
		ApplyBuffer(buffer, float32(g.value.Target()))
		return
	}
	for i := range buffer {
		buffer[i] *= float32(g.value.Next())
	}
}

// Reset snaps the gain to its target.
func (g *Gain) Reset() {
	g.value.SetCurrentAndTarget(g.value.Target())
}
