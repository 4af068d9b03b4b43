package param

import (
	"fmt"
	"math"
	"strconv"
	"sync/atomic"
)

// Parameter is a single automatable value. The normalized value is
// stored as float64 bits in an atomic word so the render goroutine can
// read it while the control side writes it, without locks or tearing.
type Parameter struct {
	ID           uint32
	Name         string
	ShortName    string
	Unit         string
	Min          float64
	Max          float64
	DefaultValue float64 // normalized
	StepCount    int32
	Flags        uint32

	value atomic.Uint64

	formatFunc func(float64) string
	parseFunc  func(string) (float64, error)
}

// Flags for parameters
const (
	CanAutomate uint32 = 1 << 0
	IsList      uint32 = 1 << 3
)

// GetValue returns the current normalized value (0-1)
func (p *Parameter) GetValue() float64 {
	return math.Float64frombits(p.value.Load())
}

// SetValue sets the normalized value (0-1)
func (p *Parameter) SetValue(value float64) {
	if math.IsNaN(value) || value < 0 {
		value = 0
	} else if value > 1 {
		value = 1
	}
	p.value.Store(math.Float64bits(value))
}

// GetPlainValue returns the current value in the parameter's own range,
// snapped to a step when the parameter is discrete.
func (p *Parameter) GetPlainValue() float64 {
	return p.Denormalize(p.GetValue())
}

// SetPlainValue clamps plain into [Min, Max] and stores it.
func (p *Parameter) SetPlainValue(plain float64) {
	p.SetValue(p.Normalize(plain))
}

// ResetToDefault restores the default value.
func (p *Parameter) ResetToDefault() {
	p.SetValue(p.DefaultValue)
}

// SetFormatter sets custom value formatting
func (p *Parameter) SetFormatter(format func(float64) string, parse func(string) (float64, error)) {
	p.formatFunc = format
	p.parseFunc = parse
}

// FormatValue returns formatted parameter value
func (p *Parameter) FormatValue(normalized float64) string {
	plain := p.Denormalize(normalized)

	if p.formatFunc != nil {
		return p.formatFunc(plain)
	}

	if p.StepCount > 0 {
		return fmt.Sprintf("%.0f", plain)
	}
	return fmt.Sprintf("%.2f", plain)
}

// String formats the current value.
func (p *Parameter) String() string {
	return p.FormatValue(p.GetValue())
}

// ParseValue parses string to normalized value
func (p *Parameter) ParseValue(str string) (float64, error) {
	parse := p.parseFunc
	if parse == nil {
		parse = func(s string) (float64, error) { return strconv.ParseFloat(s, 64) }
	}
	plain, err := parse(str)
	if err != nil {
		return 0, fmt.Errorf("parameter %q: %w", p.Name, err)
	}
	return p.Normalize(plain), nil
}

// Normalize converts plain value to normalized (0-1)
func (p *Parameter) Normalize(plain float64) float64 {
	if p.Max <= p.Min {
		return 0
	}
	normalized := (plain - p.Min) / (p.Max - p.Min)
	if normalized < 0 {
		return 0
	}
	if normalized > 1 {
		return 1
	}
	return normalized
}

// Denormalize converts normalized (0-1) to plain value
func (p *Parameter) Denormalize(normalized float64) float64 {
	if normalized < 0 {
		normalized = 0
	} else if normalized > 1 {
		normalized = 1
	}
	if p.StepCount > 0 {
		steps := float64(p.StepCount)
		normalized = math.Round(normalized*steps) / steps
	}
	// Interpolated this way so both end points come out exact.
	return p.Min*(1-normalized) + p.Max*normalized
}
