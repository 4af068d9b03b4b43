package param

import (
	"fmt"
	"strings"
)

// ChoiceOption represents a single choice in a list parameter
type ChoiceOption struct {
	Value   float64
	Name    string
	Aliases []string
}

// Choice creates a parameter builder for a multiple choice parameter.
// Option values are expected to be consecutive.
func Choice(id uint32, name string, options []ChoiceOption) *Builder {
	formatter := func(value float64) string {
		for _, opt := range options {
			if opt.Value == value {
				return opt.Name
			}
		}
		return "Unknown"
	}

	parser := func(str string) (float64, error) {
		s := strings.TrimSpace(str)
		for _, opt := range options {
			if strings.EqualFold(s, opt.Name) {
				return opt.Value, nil
			}
			for _, alias := range opt.Aliases {
				if strings.EqualFold(s, alias) {
					return opt.Value, nil
				}
			}
		}
		return 0, fmt.Errorf("unknown option: %s", str)
	}

	minVal, maxVal := 0.0, 0.0
	if len(options) > 0 {
		minVal = options[0].Value
		maxVal = options[len(options)-1].Value
	}

	b := New(id, name).
		Range(minVal, maxVal).
		Formatter(formatter, parser)
	b.param.Flags |= IsList
	if len(options) > 1 {
		b.Steps(int32(len(options) - 1))
	}
	return b.Default(minVal)
}

// FrequencyParameter creates a frequency parameter in Hz
func FrequencyParameter(id uint32, name string, min, max, defaultVal float64) *Builder {
	return New(id, name).
		Range(min, max).
		Default(defaultVal).
		Unit("Hz").
		Formatter(FrequencyFormatter, FrequencyParser)
}

// PercentParameter creates a parameter whose plain range is a fraction
// (for example 0..1 or -1..1) displayed as a percentage.
func PercentParameter(id uint32, name string, min, max, defaultVal float64) *Builder {
	return New(id, name).
		Range(min, max).
		Default(defaultVal).
		Unit("%").
		Formatter(PercentFormatter, PercentParser)
}

// SecondsParameter creates a time parameter in seconds
func SecondsParameter(id uint32, name string, min, max, defaultVal float64) *Builder {
	return New(id, name).
		Range(min, max).
		Default(defaultVal).
		Unit("s").
		Formatter(SecondsFormatter, SecondsParser)
}

// LinearGainParameter creates a linear gain parameter displayed in dB
func LinearGainParameter(id uint32, name string, max, defaultVal float64) *Builder {
	return New(id, name).
		Range(0, max).
		Default(defaultVal).
		Unit("dB").
		Formatter(LinearGainFormatter, LinearGainParser)
}

// MultiplierParameter creates a unitless factor such as drive
func MultiplierParameter(id uint32, name string, min, max, defaultVal float64) *Builder {
	return New(id, name).
		Range(min, max).
		Default(defaultVal).
		Unit("x").
		Formatter(MultiplierFormatter, MultiplierParser)
}
