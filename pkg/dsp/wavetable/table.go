// Package wavetable provides band-limited multiband waveform tables.
//
// Each table is split into frequency bands. Every band holds one period of
// the waveform built from a truncated harmonic series, with the number of
// harmonics chosen so that nothing above Nyquist is produced for any
// frequency in the band. Tables are built once per sample rate and are
// read-only afterwards.
package wavetable

import (
	"fmt"
	"math"

	"github.com/khrykin/BlackBird/pkg/dsp/interpolation"
)

// Kind selects the waveform shape.
type Kind int

const (
	Sine Kind = iota
	Saw
	Square

	numKinds
)

// String returns the display name of the waveform.
func (k Kind) String() string {
	switch k {
	case Sine:
		return "Sine"
	case Saw:
		return "Saw"
	case Square:
		return "Square"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// TableSize is the number of points per band.
const TableSize = 1024

// BandMaxFrequencies are the upper bounds of the bands in ascending order.
var BandMaxFrequencies = [...]float64{60, 250, 500, 2000, 4000, 6000, 20000}

// NumBands is the number of frequency bands per table.
const NumBands = len(BandMaxFrequencies)

// Table is a band-limited waveform split into frequency bands.
type Table struct {
	kind   Kind
	bands  [NumBands]*interpolation.LookupTable
	orders [NumBands]int
}

// Build precomputes every band of the waveform for the given sample rate.
// It allocates and may take a while; call it off the render path.
func Build(kind Kind, sampleRate float64) *Table {
	nyquist := sampleRate / 2
	t := &Table{kind: kind}

	for i, bandMax := range BandMaxFrequencies {
		var fn func(float64) float64
		switch kind {
		case Saw:
			order := sawOrder(nyquist, bandMax)
			t.orders[i] = order
			fn = func(x float64) float64 { return sawSeries(x, order) }
		case Square:
			order := squareOrder(nyquist, bandMax)
			t.orders[i] = order
			fn = func(x float64) float64 { return squareSeries(x, order) }
		default:
			t.orders[i] = 1
			fn = math.Sin
		}
		t.bands[i] = interpolation.NewLookupTable(fn, -math.Pi, math.Pi, TableSize)
	}

	return t
}

// Kind returns the waveform the table was built for.
func (t *Table) Kind() Kind {
	return t.kind
}

// Order returns the harmonic series order used for band i.
func (t *Table) Order(band int) int {
	return t.orders[band]
}

// BandFor returns the index of the band that serves frequency: the first
// band whose maximum exceeds it, or the highest band.
func BandFor(frequency float64) int {
	for i, bandMax := range BandMaxFrequencies {
		if frequency < bandMax {
			return i
		}
	}
	return NumBands - 1
}

// Lookup returns the waveform value at phase in [-pi, pi] for a
// fundamental of frequency Hz.
func (t *Table) Lookup(phase, frequency float64) float64 {
	return t.bands[BandFor(frequency)].Process(phase)
}
