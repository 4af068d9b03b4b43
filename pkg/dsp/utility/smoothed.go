// Package utility provides common DSP utility functions and processors.
package utility

// ClampParameter ensures a parameter value stays within the specified range.
func ClampParameter(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// LinearSmoothedValue ramps linearly towards a target over a fixed number
// of steps. Retargeting mid-ramp restarts the ramp from the current value.
type LinearSmoothedValue struct {
	current   float64
	target    float64
	step      float64
	countdown int
	steps     int
}

// NewLinearSmoothedValue creates a smoother resting at initial.
func NewLinearSmoothedValue(initial float64) *LinearSmoothedValue {
	return &LinearSmoothedValue{current: initial, target: initial}
}

// Reset sets the ramp length from a sample rate and a duration in seconds
// and snaps to the current target.
func (s *LinearSmoothedValue) Reset(sampleRate, rampSeconds float64) {
	s.ResetSteps(int(rampSeconds * sampleRate))
}

// ResetSteps sets the ramp length in samples and snaps to the current target.
func (s *LinearSmoothedValue) ResetSteps(steps int) {
	if steps < 0 {
		steps = 0
	}
	s.steps = steps
	s.SetCurrentAndTarget(s.target)
}

// SetTarget starts a ramp towards target. With a zero ramp length the
// value jumps immediately.
func (s *LinearSmoothedValue) SetTarget(target float64) {
	if target == s.target {
		return
	}
	if s.steps <= 0 {
		s.SetCurrentAndTarget(target)
		return
	}
	s.target = target
	s.countdown = s.steps
	s.step = (s.target - s.current) / float64(s.countdown)
}

// SetCurrentAndTarget jumps to value without ramping.
func (s *LinearSmoothedValue) SetCurrentAndTarget(value float64) {
	s.current = value
	s.target = value
	s.countdown = 0
}

// Next advances one step and returns the new value.
func (s *LinearSmoothedValue) Next() float64 {
	if s.countdown <= 0 {
		return s.target
	}
	s.countdown--
	if s.countdown > 0 {
		s.current += s.step
	} else {
		s.current = s.target
	}
	return s.current
}

// Skip advances n steps at once and returns the resulting value.
func (s *LinearSmoothedValue) Skip(n int) float64 {
	if n >= s.countdown {
		s.SetCurrentAndTarget(s.target)
		return s.target
	}
	s.current += s.step * float64(n)
	s.countdown -= n
	return s.current
}

// IsSmoothing reports whether a ramp is in progress.
func (s *LinearSmoothedValue) IsSmoothing() bool {
	return s.countdown > 0
}

// Current returns the current value without advancing.
func (s *LinearSmoothedValue) Current() float64 {
	return s.current
}

// Target returns the value being ramped towards.
func (s *LinearSmoothedValue) Target() float64 {
	return s.target
}
