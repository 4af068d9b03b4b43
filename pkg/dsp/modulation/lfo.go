// Package modulation provides low frequency modulation sources.
package modulation

import (
	"math"
)

// LFO implements a sine Low Frequency Oscillator for modulation.
// It is usually ticked at a control rate, not per audio sample.
type LFO struct {
	sampleRate float64
	frequency  float64
	phase      float64 // [0, 1)
	phaseInc   float64
	depth      float64
}

// NewLFO creates a new LFO ticked sampleRate times a second.
func NewLFO(sampleRate float64) *LFO {
	l := &LFO{depth: 1, frequency: 1}
	l.Prepare(sampleRate)
	return l
}

// Prepare sets the tick rate.
func (l *LFO) Prepare(sampleRate float64) {
	l.sampleRate = sampleRate
	l.updatePhaseIncrement()
}

// SetFrequency sets the LFO frequency in Hz, limited to [0, rate/2].
func (l *LFO) SetFrequency(hz float64) {
	l.frequency = math.Max(0, math.Min(l.sampleRate/2, hz))
	l.updatePhaseIncrement()
}

// Frequency returns the LFO frequency in Hz.
func (l *LFO) Frequency() float64 {
	return l.frequency
}

// SetDepth sets the modulation depth (0-1)
func (l *LFO) SetDepth(depth float64) {
	l.depth = math.Max(0.0, math.Min(1.0, depth))
}

// Depth returns the modulation depth.
func (l *LFO) Depth() float64 {
	return l.depth
}

func (l *LFO) updatePhaseIncrement() {
	if l.sampleRate <= 0 {
		return
	}
	l.phaseInc = l.frequency / l.sampleRate
}

// Process returns the next LFO value in [-depth, depth] and advances the phase.
func (l *LFO) Process() float64 {
	out := math.Sin(2.0*math.Pi*l.phase) * l.depth

	l.phase += l.phaseInc
	if l.phase >= 1.0 {
		l.phase -= math.Floor(l.phase)
	}
	return out
}

// GetPhase returns the current phase (0-1)
func (l *LFO) GetPhase() float64 {
	return l.phase
}

// Reset rewinds the LFO to phase 0.
func (l *LFO) Reset() {
	l.phase = 0.0
}
