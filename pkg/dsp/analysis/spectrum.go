package analysis

import "math"

// PeakBin returns the index of the strongest bin above DC and its magnitude.
func PeakBin(magnitude []float64) (int, float64) {
	best, peak := 0, 0.0
	for i := 1; i < len(magnitude); i++ {
		if magnitude[i] > peak {
			best, peak = i, magnitude[i]
		}
	}
	return best, peak
}

// Fundamental estimates the frequency of the strongest partial in samples.
// The peak bin is refined by parabolic interpolation over its neighbours.
// It returns 0 for silence.
func (f *FFT) Fundamental(samples []float32, sampleRate float64) float64 {
	magnitude := f.Magnitude(samples)
	bin, peak := PeakBin(magnitude)
	if peak == 0 {
		return 0
	}

	offset := 0.0
	if bin > 0 && bin < len(magnitude)-1 {
		a := math.Log(magnitude[bin-1] + 1e-12)
		b := math.Log(magnitude[bin] + 1e-12)
		c := math.Log(magnitude[bin+1] + 1e-12)
		if d := a - 2*b + c; d != 0 {
			offset = 0.5 * (a - c) / d
		}
	}
	return (float64(bin) + offset) * sampleRate / float64(f.size)
}

// BandEnergy sums squared magnitudes of bins between minFreq and maxFreq.
func (f *FFT) BandEnergy(magnitude []float64, sampleRate, minFreq, maxFreq float64) float64 {
	var energy float64
	for i, m := range magnitude {
		freq := f.BinFrequency(i, sampleRate)
		if freq >= minFreq && freq <= maxFreq {
			energy += m * m
		}
	}
	return energy
}
