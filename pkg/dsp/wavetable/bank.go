package wavetable

// Bank groups one table per waveform kind for a single sample rate.
type Bank struct {
	sampleRate float64
	tables     [numKinds]*Table
}

// NewBank builds the sine, saw and square tables for sampleRate.
func NewBank(sampleRate float64) *Bank {
	b := &Bank{sampleRate: sampleRate}
	for k := Sine; k < numKinds; k++ {
		b.tables[k] = Build(k, sampleRate)
	}
	return b
}

// ClampKind maps any index onto a valid waveform kind.
func ClampKind(k Kind) Kind {
	if k < Sine {
		return Sine
	}
	if k >= numKinds {
		return numKinds - 1
	}
	return k
}

// SampleRate returns the rate the bank was built for.
func (b *Bank) SampleRate() float64 {
	return b.sampleRate
}

// Table returns the table for kind.
func (b *Bank) Table(kind Kind) *Table {
	return b.tables[ClampKind(kind)]
}

// Lookup returns the value of waveform kind at phase for frequency Hz.
func (b *Bank) Lookup(kind Kind, phase, frequency float64) float64 {
	return b.tables[ClampKind(kind)].Lookup(phase, frequency)
}
