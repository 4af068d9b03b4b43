package oscillator

import (
	"github.com/khrykin/BlackBird/pkg/dsp/gain"
	"github.com/khrykin/BlackBird/pkg/dsp/wavetable"
)

// VCA is an oscillator followed by a smoothed gain stage. Level changes
// ramp over a fixed number of samples.
type VCA struct {
	osc      Oscillator
	level    gain.Gain
	bypassed bool
}

// NewVCA creates an oscillator-with-gain reading from bank.
func NewVCA(bank *wavetable.Bank, rampSamples int) *VCA {
	v := &VCA{}
	v.Prepare(bank, rampSamples)
	return v
}

// Prepare binds the unit to a bank and sets the level ramp length.
func (v *VCA) Prepare(bank *wavetable.Bank, rampSamples int) {
	v.osc.Prepare(bank)
	v.level.SetRampSamples(rampSamples)
}

// SetFrequency sets the oscillator frequency, clamped to Nyquist.
func (v *VCA) SetFrequency(freq float64) {
	v.osc.SetFrequency(freq)
}

// Frequency returns the oscillator frequency.
func (v *VCA) Frequency() float64 {
	return v.osc.Frequency()
}

// SetWaveform switches the waveform without resetting phase.
func (v *VCA) SetWaveform(kind wavetable.Kind) {
	v.osc.SetWaveform(kind)
}

// Waveform returns the oscillator waveform.
func (v *VCA) Waveform() wavetable.Kind {
	return v.osc.Waveform()
}

// SetLevel sets the target linear level.
func (v *VCA) SetLevel(level float64) {
	v.level.SetGainLinear(level)
}

// Level returns the target linear level.
func (v *VCA) Level() float64 {
	return v.level.GainLinear()
}

// SetBypassed silences the unit while keeping its phase running.
func (v *VCA) SetBypassed(bypassed bool) {
	v.bypassed = bypassed
}

// Process adds the oscillator output, scaled by the smoothed level, into out.
func (v *VCA) Process(out []float32) {
	if v.bypassed {
		v.osc.Skip(len(out))
		for range out {
			v.level.Next()
		}
		return
	}
	for i := range out {
		out[i] += float32(v.osc.Next() * v.level.Next())
	}
}

// Reset rewinds the phase and snaps the level to its target.
func (v *VCA) Reset() {
	v.osc.Reset()
	v.level.Reset()
}
