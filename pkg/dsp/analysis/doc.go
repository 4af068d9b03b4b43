// Package analysis provides audio analysis tools.
//
// FFT and Spectral Analysis:
//   - FFT with window functions (rectangular, Hann, Blackman-Harris)
//   - Fundamental frequency estimation from the magnitude spectrum
//
// Level Metering:
//   - Block level meter with lock-free readout, safe to feed from an
//     audio callback and read from another goroutine
package analysis
