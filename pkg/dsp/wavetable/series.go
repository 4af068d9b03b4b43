package wavetable

import "math"

// sawSeries evaluates the sawtooth Fourier series truncated at order harmonics.
func sawSeries(x float64, order int) float64 {
	var sum float64
	for k := 1; k <= order; k++ {
		fk := float64(k)
		sum += math.Sin(fk*x) / fk
	}
	return sum
}

// squareSeries evaluates the square Fourier series truncated at order odd harmonics.
func squareSeries(x float64, order int) float64 {
	var sum float64
	for k := 1; k <= order; k++ {
		n := float64(2*k - 1)
		sum += math.Sin(n*x) / n
	}
	return sum
}

// sawOrder returns the number of harmonics a sawtooth table gets when its
// band tops out at bandMax.
func sawOrder(nyquist, bandMax float64) int {
	order := int(nyquist / bandMax)
	if order < 1 {
		return 1
	}
	return order
}

// squareOrder returns the number of odd harmonics a square table gets when
// its band tops out at bandMax.
func squareOrder(nyquist, bandMax float64) int {
	order := int(0.5 * (nyquist/bandMax + 1))
	if order < 1 {
		return 1
	}
	return order
}
