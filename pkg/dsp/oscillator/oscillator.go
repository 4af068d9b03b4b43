// Package oscillator provides table-driven oscillators for synthesis
package oscillator

import (
	"math"

	"github.com/khrykin/BlackBird/pkg/dsp/wavetable"
)

const twoPi = 2 * math.Pi

// Oscillator generates a periodic waveform by reading a band-limited
// wavetable bank with a phase accumulator.
type Oscillator struct {
	bank      *wavetable.Bank
	kind      wavetable.Kind
	nyquist   float64
	frequency float64
	phase     float64 // [0, 2pi)
	phaseInc  float64
}

// New creates an oscillator reading from bank.
func New(bank *wavetable.Bank) *Oscillator {
	o := &Oscillator{}
	o.Prepare(bank)
	return o
}

// Prepare binds the oscillator to a bank and its sample rate.
func (o *Oscillator) Prepare(bank *wavetable.Bank) {
	o.bank = bank
	o.nyquist = bank.SampleRate() / 2
	o.SetFrequency(o.frequency)
}

// SetFrequency sets the oscillator frequency.
// Frequencies above Nyquist are clamped to it.
func (o *Oscillator) SetFrequency(freq float64) {
	if freq > o.nyquist {
		freq = o.nyquist
	}
	if freq < 0 {
		freq = 0
	}
	o.frequency = freq
	if o.nyquist > 0 {
		o.phaseInc = twoPi * freq / (2 * o.nyquist)
	}
}

// Frequency returns the current (clamped) frequency.
func (o *Oscillator) Frequency() float64 {
	return o.frequency
}

// SetWaveform switches the waveform without touching the phase.
func (o *Oscillator) SetWaveform(kind wavetable.Kind) {
	o.kind = wavetable.ClampKind(kind)
}

// Waveform returns the current waveform.
func (o *Oscillator) Waveform() wavetable.Kind {
	return o.kind
}

// Reset resets the oscillator phase to 0
func (o *Oscillator) Reset() {
	o.phase = 0
}

// Next returns the current sample and advances the phase.
func (o *Oscillator) Next() float64 {
	if o.bank == nil {
		panic("oscillator: Next called before Prepare")
	}
	sample := o.bank.Lookup(o.kind, o.phase-math.Pi, o.frequency)
	o.phase += o.phaseInc
	for o.phase >= twoPi {
		o.phase -= twoPi
	}
	return sample
}

// Skip advances the phase by n samples without producing output.
func (o *Oscillator) Skip(n int) {
	o.phase = math.Mod(o.phase+o.phaseInc*float64(n), twoPi)
}
