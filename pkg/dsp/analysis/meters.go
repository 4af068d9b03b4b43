package analysis

import (
	"math"
	"sync/atomic"
)

// LevelMeter tracks the peak and RMS of the most recent block and the
// highest peak seen since Reset. Process may run on the audio thread while
// another goroutine reads the values.
type LevelMeter struct {
	blockPeak atomic.Uint64
	blockRMS  atomic.Uint64
	maxPeak   atomic.Uint64
}

func store(v *atomic.Uint64, f float64) {
	v.Store(math.Float64bits(f))
}

func load(v *atomic.Uint64) float64 {
	return math.Float64frombits(v.Load())
}

// Process measures one block of samples.
func (m *LevelMeter) Process(samples []float32) {
	var peak, sum float64
	for _, s := range samples {
		a := math.Abs(float64(s))
		if a > peak {
			peak = a
		}
		sum += float64(s) * float64(s)
	}
	rms := 0.0
	if len(samples) > 0 {
		rms = math.Sqrt(sum / float64(len(samples)))
	}

	store(&m.blockPeak, peak)
	store(&m.blockRMS, rms)
	if peak > load(&m.maxPeak) {
		store(&m.maxPeak, peak)
	}
}

// Peak returns the peak of the last block (linear).
func (m *LevelMeter) Peak() float64 {
	return load(&m.blockPeak)
}

// RMS returns the RMS of the last block (linear).
func (m *LevelMeter) RMS() float64 {
	return load(&m.blockRMS)
}

// MaxPeak returns the highest peak since Reset (linear).
func (m *LevelMeter) MaxPeak() float64 {
	return load(&m.maxPeak)
}

// ToDB converts a linear level to decibels, -Inf for silence.
func ToDB(linear float64) float64 {
	if linear > 0 {
		return 20.0 * math.Log10(linear)
	}
	return math.Inf(-1)
}

// Reset clears all readings.
func (m *LevelMeter) Reset() {
	store(&m.blockPeak, 0)
	store(&m.blockRMS, 0)
	store(&m.maxPeak, 0)
}
