package param

import (
	"errors"
	"math"
	"sync"
	"testing"
)

func TestChoice(t *testing.T) {
	options := []ChoiceOption{
		{Value: 0, Name: "Sine", Aliases: []string{"sin"}},
		{Value: 1, Name: "Saw", Aliases: []string{"sawtooth"}},
		{Value: 2, Name: "Square", Aliases: []string{"pulse"}},
	}

	param := Choice(100, "Waveform", options).Build()

	if param.StepCount != 2 {
		t.Errorf("StepCount = %d, want 2", param.StepCount)
	}
	if param.Flags&IsList == 0 {
		t.Error("choice parameter is not flagged as a list")
	}

	t.Run("Formatter", func(t *testing.T) {
		tests := []struct {
			normalized float64
			expected   string
		}{
			{0, "Sine"},
			{0.5, "Saw"},
			{1, "Square"},
			{0.6, "Saw"}, // snapped to the nearest step
		}

		for _, test := range tests {
			result := param.FormatValue(test.normalized)
			if result != test.expected {
				t.Errorf("FormatValue(%f) = %s, want %s", test.normalized, result, test.expected)
			}
		}
	})

	t.Run("Parser", func(t *testing.T) {
		tests := []struct {
			input         string
			expectedPlain float64
		}{
			{"Sine", 0},
			{"sin", 0},
			{"SAW", 1},
			{"sawtooth", 1},
			{"pulse", 2},
		}

		for _, test := range tests {
			normalized, err := param.ParseValue(test.input)
			if err != nil {
				t.Errorf("ParseValue(%s) error: %v", test.input, err)
				continue
			}
			if plain := param.Denormalize(normalized); plain != test.expectedPlain {
				t.Errorf("ParseValue(%s) = %f (plain), want %f", test.input, plain, test.expectedPlain)
			}
		}

		if _, err := param.ParseValue("triangle"); err == nil {
			t.Error("ParseValue(triangle) succeeded, want error")
		}
	})
}

func TestStepSize(t *testing.T) {
	p := LinearGainParameter(1, "Master Gain", 4, 1).StepSize(0.01).Build()
	if p.StepCount != 400 {
		t.Fatalf("StepCount = %d, want 400", p.StepCount)
	}
	p.SetPlainValue(1.234)
	if got := p.GetPlainValue(); math.Abs(got-1.23) > 1e-12 {
		t.Errorf("GetPlainValue() = %v, want 1.23", got)
	}
}

func TestDefaultsAndClamping(t *testing.T) {
	p := SecondsParameter(5, "Attack", 0.01, 15, 0.01).Build()

	if got := p.GetPlainValue(); got != 0.01 {
		t.Errorf("default plain value = %v, want 0.01", got)
	}

	p.SetPlainValue(0)
	if got := p.GetPlainValue(); got != 0.01 {
		t.Errorf("SetPlainValue(0) gives %v, want clamped 0.01", got)
	}
	p.SetPlainValue(100)
	if got := p.GetPlainValue(); got != 15 {
		t.Errorf("SetPlainValue(100) gives %v, want clamped 15", got)
	}
	p.SetValue(math.NaN())
	if got := p.GetValue(); got != 0 {
		t.Errorf("SetValue(NaN) gives %v, want 0", got)
	}

	p.SetPlainValue(3)
	p.ResetToDefault()
	if got := p.GetPlainValue(); got != 0.01 {
		t.Errorf("after ResetToDefault plain value = %v, want 0.01", got)
	}
}

func TestBipolarPercentParameter(t *testing.T) {
	p := PercentParameter(9, "Cutoff Env", -1, 1, 0).Build()
	if got := p.GetValue(); got != 0.5 {
		t.Errorf("normalized default = %v, want 0.5", got)
	}
	if got := p.FormatValue(0); got != "-100%" {
		t.Errorf("FormatValue(0) = %q, want -100%%", got)
	}
	n, err := p.ParseValue("50%")
	if err != nil {
		t.Fatalf("ParseValue: %v", err)
	}
	if got := p.Denormalize(n); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("ParseValue(50%%) = %v plain, want 0.5", got)
	}
}

func TestFormatters(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"frequency kHz", FrequencyFormatter(22000), "22.00 kHz"},
		{"frequency Hz", FrequencyFormatter(440), "440.0 Hz"},
		{"seconds", SecondsFormatter(2.5), "2.50 s"},
		{"milliseconds", SecondsFormatter(0.01), "10 ms"},
		{"unity gain", LinearGainFormatter(1), "0.0 dB"},
		{"silent gain", LinearGainFormatter(0), "-∞ dB"},
		{"multiplier", MultiplierFormatter(2.5), "2.5x"},
		{"percent", PercentFormatter(0.25), "25%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestParsers(t *testing.T) {
	tests := []struct {
		name  string
		parse func(string) (float64, error)
		in    string
		want  float64
	}{
		{"kHz", FrequencyParser, "1.5 kHz", 1500},
		{"Hz", FrequencyParser, "440Hz", 440},
		{"bare Hz", FrequencyParser, "50", 50},
		{"ms", SecondsParser, "250 ms", 0.25},
		{"s", SecondsParser, "1.5 s", 1.5},
		{"gain dB", LinearGainParser, "0 dB", 1},
		{"gain inf", LinearGainParser, "-inf", 0},
		{"multiplier", MultiplierParser, "3x", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.parse(tt.in)
			if err != nil {
				t.Fatalf("parse(%q): %v", tt.in, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	a := New(0, "A").Build()
	b := New(1, "B").Range(0, 10).Default(5).Build()

	if err := reg.Add(a, b); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if reg.Count() != 2 {
		t.Errorf("Count() = %d, want 2", reg.Count())
	}
	if reg.GetByIndex(1) != b {
		t.Error("GetByIndex(1) did not return the second parameter")
	}
	if reg.GetByIndex(2) != nil {
		t.Error("GetByIndex(2) should be nil")
	}

	err := reg.Add(New(2, "C").Build(), New(1, "Dup").Build())
	if !errors.Is(err, ErrDuplicateParameter) {
		t.Errorf("Add duplicate error = %v, want ErrDuplicateParameter", err)
	}
	if reg.Get(2) != nil {
		t.Error("a failed Add must not register any parameter")
	}

	if err := reg.SetValue(1, 1); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if got := b.GetPlainValue(); got != 10 {
		t.Errorf("plain value = %v, want 10", got)
	}
	if err := reg.SetValue(42, 0); !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("SetValue(42) error = %v, want ErrUnknownParameter", err)
	}

	reg.ResetToDefaults()
	if got := b.GetPlainValue(); got != 5 {
		t.Errorf("after ResetToDefaults plain value = %v, want 5", got)
	}
}

func TestConcurrentReadWrite(t *testing.T) {
	p := New(0, "Cutoff").Range(50, 22000).Build()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 10000; i++ {
			p.SetValue(float64(i % 2))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 10000; i++ {
			v := p.GetPlainValue()
			if v != 50 && v != 22000 {
				t.Errorf("torn read: %v", v)
				return
			}
		}
	}()
	wg.Wait()
}
