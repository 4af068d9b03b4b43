package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/ktye/fft"
)

// WindowFunc represents a window function type
type WindowFunc int

const (
	RectangularWindow WindowFunc = iota
	HannWindow
	BlackmanHarrisWindow
)

// FFT computes magnitude spectra of real signals.
type FFT struct {
	size       int
	transform  fft.FFT
	windowData []float64
	work       []complex128
	magnitude  []float64
}

// NewFFT creates a new FFT processor. size must be a power of two.
func NewFFT(size int, window WindowFunc) (*FFT, error) {
	if size < 2 || size&(size-1) != 0 {
		return nil, fmt.Errorf("analysis: FFT size %d is not a power of two", size)
	}
	transform, err := fft.New(size)
	if err != nil {
		return nil, fmt.Errorf("analysis: create FFT: %w", err)
	}

	f := &FFT{
		size:       size,
		transform:  transform,
		windowData: make([]float64, size),
		work:       make([]complex128, size),
		magnitude:  make([]float64, size/2+1),
	}
	f.calculateWindow(window)
	return f, nil
}

func (f *FFT) calculateWindow(window WindowFunc) {
	n := float64(f.size)

	switch window {
	case HannWindow:
		for i := 0; i < f.size; i++ {
			f.windowData[i] = 0.5 * (1.0 - math.Cos(2.0*math.Pi*float64(i)/(n-1.0)))
		}

	case BlackmanHarrisWindow:
		a0, a1, a2, a3 := 0.35875, 0.48829, 0.14128, 0.01168
		for i := 0; i < f.size; i++ {
			x := 2.0 * math.Pi * float64(i) / (n - 1.0)
			f.windowData[i] = a0 - a1*math.Cos(x) + a2*math.Cos(2*x) - a3*math.Cos(3*x)
		}

	default:
		for i := range f.windowData {
			f.windowData[i] = 1.0
		}
	}
}

// Size returns the transform length.
func (f *FFT) Size() int {
	return f.size
}

// Magnitude windows input, transforms it and returns the magnitude of
// bins 0..size/2. Input shorter than the transform is zero padded. The
// returned slice is reused by the next call.
func (f *FFT) Magnitude(input []float32) []float64 {
	for i := range f.work {
		var x float64
		if i < len(input) {
			x = float64(input[i]) * f.windowData[i]
		}
		f.work[i] = complex(x, 0)
	}

	f.work = f.transform.Transform(f.work)

	for i := range f.magnitude {
		f.magnitude[i] = cmplx.Abs(f.work[i])
	}
	return f.magnitude
}

// BinFrequency returns the centre frequency of bin.
func (f *FFT) BinFrequency(bin int, sampleRate float64) float64 {
	return float64(bin) * sampleRate / float64(f.size)
}
