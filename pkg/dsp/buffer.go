// Package dsp holds the block helpers shared by the processors.
package dsp

import "math"

// Add adds src into dst. Extra samples in either slice are ignored.
func Add(dst, src []float32) {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] += src[i]
	}
}

// AddToChannels adds a mono block into every channel of block, starting
// at sample start.
func AddToChannels(block [][]float32, src []float32, start int) {
	for _, ch := range block {
		Add(ch[start:start+len(src)], src)
	}
}

// Peak finds the maximum absolute value in a buffer
func Peak(buffer []float32) float32 {
	peak := float32(0)
	for _, sample := range buffer {
		abs := float32(math.Abs(float64(sample)))
		if abs > peak {
			peak = abs
		}
	}
	return peak
}

// RMS calculates the root mean square of a buffer
func RMS(buffer []float32) float32 {
	if len(buffer) == 0 {
		return 0
	}

	var sum float64
	for _, sample := range buffer {
		sum += float64(sample) * float64(sample)
	}
	return float32(math.Sqrt(sum / float64(len(buffer))))
}

// IsSilent reports whether every sample is exactly zero.
func IsSilent(buffer []float32) bool {
	for _, sample := range buffer {
		if sample != 0 {
			return false
		}
	}
	return true
}
