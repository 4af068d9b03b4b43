package param

import "math"

// Builder provides a fluent API for creating parameters
type Builder struct {
	param *Parameter
}

// New creates a new parameter builder
func New(id uint32, name string) *Builder {
	return &Builder{
		param: &Parameter{
			ID:           id,
			Name:         name,
			ShortName:    name,
			Min:          0,
			Max:          1,
			DefaultValue: 0,
			Flags:        CanAutomate,
		},
	}
}

// ShortName sets the short name
func (b *Builder) ShortName(name string) *Builder {
	b.param.ShortName = name
	return b
}

// Range sets the min and max values
func (b *Builder) Range(min, max float64) *Builder {
	b.param.Min = min
	b.param.Max = max
	return b
}

// Default sets the default value (in plain range, not normalized).
// Call it after Range.
func (b *Builder) Default(value float64) *Builder {
	b.param.DefaultValue = b.param.Normalize(value)
	return b
}

// Unit sets the unit string
func (b *Builder) Unit(unit string) *Builder {
	b.param.Unit = unit
	return b
}

// Steps sets the number of discrete steps between Min and Max.
// A parameter with n choices has n-1 steps.
func (b *Builder) Steps(count int32) *Builder {
	b.param.StepCount = count
	return b
}

// StepSize derives the step count from a plain step size. Call it after Range.
func (b *Builder) StepSize(step float64) *Builder {
	if step > 0 && b.param.Max > b.param.Min {
		b.param.StepCount = int32(math.Round((b.param.Max - b.param.Min) / step))
	}
	return b
}

// Formatter sets custom value formatting and parsing
func (b *Builder) Formatter(format func(float64) string, parse func(string) (float64, error)) *Builder {
	b.param.formatFunc = format
	b.param.parseFunc = parse
	return b
}

// Build returns the configured parameter
func (b *Builder) Build() *Parameter {
	// Initialize with default value
	b.param.SetValue(b.param.DefaultValue)
	return b.param
}
