// Package interpolation provides interpolation primitives and precomputed function tables.
package interpolation

// Linear performs linear interpolation between two samples.
// frac is the fractional position between y0 and y1 (0.0 to 1.0).
func Linear(y0, y1, frac float64) float64 {
	return y0 + (y1-y0)*frac
}

// LookupTable approximates a function over a fixed input range by linear
// interpolation between evenly spaced precomputed points.
//
// The table is built once and is read-only afterwards, so a single table
// can be shared by any number of readers without synchronization.
type LookupTable struct {
	data     []float64
	min, max float64
	scaler   float64
	offset   float64
}

// NewLookupTable samples fn at numPoints evenly spaced inputs across [min, max].
func NewLookupTable(fn func(x float64) float64, min, max float64, numPoints int) *LookupTable {
	if numPoints < 2 {
		numPoints = 2
	}

	// One guard point past the end so index numPoints-1 interpolates safely.
	data := make([]float64, numPoints+1)
	step := (max - min) / float64(numPoints-1)
	for i := 0; i < numPoints; i++ {
		data[i] = fn(min + float64(i)*step)
	}
	data[numPoints] = data[numPoints-1]

	scaler := float64(numPoints-1) / (max - min)
	return &LookupTable{
		data:   data,
		min:    min,
		max:    max,
		scaler: scaler,
		offset: -min * scaler,
	}
}

// Process returns the approximated function value at x.
// Inputs outside the table range are clamped to it.
func (t *LookupTable) Process(x float64) float64 {
	if x < t.min {
		x = t.min
	} else if x > t.max {
		x = t.max
	}
	return t.ProcessUnchecked(x)
}

// ProcessUnchecked is Process without range clamping.
// x must lie within the table range.
func (t *LookupTable) ProcessUnchecked(x float64) float64 {
	index := t.scaler*x + t.offset
	i := int(index)
	return Linear(t.data[i], t.data[i+1], index-float64(i))
}

// Size returns the number of sampled points.
func (t *LookupTable) Size() int {
	return len(t.data) - 1
}

// Range returns the input range of the table.
func (t *LookupTable) Range() (min, max float64) {
	return t.min, t.max
}
