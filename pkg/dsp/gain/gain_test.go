package gain

import (
	"math"
	"testing"
)

func TestDbConversion(t *testing.T) {
	tests := []struct {
		name    string
		linear  float64
		db      float64
		epsilon float64
	}{
		{"Unity gain", 1.0, 0.0, 0.001},
		{"Half amplitude", 0.5, -6.02, 0.01},
		{"Double amplitude", 2.0, 6.02, 0.01},
		{"Quadruple amplitude", 4.0, 12.04, 0.01},
		{"Zero amplitude", 0.0, MinDB, 0.001},
		{"Negative amplitude", -1.0, MinDB, 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotDb := LinearToDb(tt.linear)
			if math.Abs(gotDb-tt.db) > tt.epsilon {
				t.Errorf("LinearToDb(%f) = %f, want %f", tt.linear, gotDb, tt.db)
			}

			if tt.db != MinDB {
				gotLinear := DbToLinear(tt.db)
				if math.Abs(gotLinear-math.Abs(tt.linear)) > tt.epsilon {
					t.Errorf("DbToLinear(%f) = %f, want %f", tt.db, gotLinear, math.Abs(tt.linear))
				}
			}
		})
	}
}

func ones(n int) []float32 {
	buf := make([]float32, n)
	for i := range buf {
		buf[i] = 1
	}
	return buf
}

func TestFade(t *testing.T) {
	buffer := ones(5)
	Fade(buffer, 0, 1)

	want := []float32{0, 0.25, 0.5, 0.75, 1}
	for i := range want {
		if math.Abs(float64(buffer[i]-want[i])) > 1e-6 {
			t.Errorf("Fade sample %d = %f, want %f", i, buffer[i], want[i])
		}
	}
}

func TestFadeContinuity(t *testing.T) {
	// Successive blocks ramp between successive targets; the first gain of
	// each block must equal the last gain applied to the block before it.
	targets := []float64{1, 0.3, 0.3, 2.5, 0, 1.7, 0.6}
	sizes := []int{7, 64, 1, 33, 1, 512}

	last := targets[0]
	for i, size := range sizes {
		block := ones(size)
		applied := Fade(block, last, targets[i+1])

		if block[0] != float32(last) {
			t.Errorf("block %d first gain = %f, want %f", i, block[0], float32(last))
		}
		if block[size-1] != float32(applied) {
			t.Errorf("block %d last gain = %f, returned %f", i, block[size-1], applied)
		}
		if size > 1 && applied != targets[i+1] {
			t.Errorf("block %d returned %f, want target %f", i, applied, targets[i+1])
		}
		last = applied
	}
}

func TestFadeSingleSampleHoldsStart(t *testing.T) {
	block := ones(1)
	if got := Fade(block, 0.5, 4); got != 0.5 {
		t.Errorf("Fade() returned %f, want 0.5", got)
	}
	if block[0] != 0.5 {
		t.Errorf("single sample gain = %f, want 0.5", block[0])
	}

	dst := ones(1)
	if got := AddFaded(dst, ones(1), 0.25, 1); got != 0.25 {
		t.Errorf("AddFaded() returned %f, want 0.25", got)
	}
	if dst[0] != 1.25 {
		t.Errorf("AddFaded single sample = %f, want 1.25", dst[0])
	}
}

func TestAddFaded(t *testing.T) {
	dst := ones(3)
	src := ones(3)
	if got := AddFaded(dst, src, 1, 0); got != 0 {
		t.Errorf("AddFaded() returned %f, want 0", got)
	}

	want := []float32{2, 1.5, 1}
	for i := range want {
		if math.Abs(float64(dst[i]-want[i])) > 1e-6 {
			t.Errorf("AddFaded sample %d = %f, want %f", i, dst[i], want[i])
		}
	}
}

func TestGainRamp(t *testing.T) {
	g := NewGain(0)
	g.SetRampSamples(4)
	g.SetGainLinear(1)

	buffer := ones(6)
	g.Process(buffer)

	want := []float32{0.25, 0.5, 0.75, 1, 1, 1}
	for i := range want {
		if math.Abs(float64(buffer[i]-want[i])) > 1e-6 {
			t.Errorf("Gain sample %d = %f, want %f", i, buffer[i], want[i])
		}
	}
}

func TestGainWithoutRampSteps(t *testing.T) {
	g := NewGain(1)
	g.SetGainDb(-6.0206)

	buffer := ones(2)
	g.Process(buffer)
	if math.Abs(float64(buffer[0])-0.5) > 1e-4 {
		t.Errorf("Gain without ramp = %f, want 0.5", buffer[0])
	}
}

func BenchmarkFade(b *testing.B) {
	buffer := ones(512)
	for i := 0; i < b.N; i++ {
		Fade(buffer, 1, 1.0001)
	}
}
