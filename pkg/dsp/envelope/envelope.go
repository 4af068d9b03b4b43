// Package envelope provides envelope generators for audio synthesis
package envelope

// Stage represents the current envelope stage
type Stage int

const (
	// StageIdle represents envelope idle state
	StageIdle Stage = iota
	// StageAttack represents envelope attack phase
	StageAttack
	// StageDecay represents envelope decay phase
	StageDecay
	// StageSustain represents envelope sustain phase
	StageSustain
	// StageRelease represents envelope release phase
	StageRelease
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageAttack:
		return "attack"
	case StageDecay:
		return "decay"
	case StageSustain:
		return "sustain"
	case StageRelease:
		return "release"
	default:
		return "idle"
	}
}

// Parameters holds the envelope shape. Durations are in seconds, sustain
// is a level in [0, 1].
type Parameters struct {
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
}

// ADSR implements a linear Attack-Decay-Sustain-Release envelope generator.
//
// The envelope runs at whatever rate Next is called; SetSampleRate should
// be given that rate, which may be a control rate below the audio rate.
type ADSR struct {
	sampleRate float64
	params     Parameters

	attackRate  float64
	decayRate   float64
	releaseRate float64

	stage Stage
	value float64
}

// New creates a new ADSR envelope running at sampleRate ticks per second
func New(sampleRate float64) *ADSR {
	e := &ADSR{}
	e.SetSampleRate(sampleRate)
	e.SetParameters(Parameters{Attack: 0.1, Decay: 0.1, Sustain: 1, Release: 0.1})
	return e
}

// SetSampleRate sets the tick rate and recomputes the per-tick increments.
func (e *ADSR) SetSampleRate(sampleRate float64) {
	e.sampleRate = sampleRate
	e.recalculateRates()
}

// SetParameters sets the envelope shape.
// A running release keeps the slope it started with.
func (e *ADSR) SetParameters(p Parameters) {
	if p.Sustain < 0 {
		p.Sustain = 0
	} else if p.Sustain > 1 {
		p.Sustain = 1
	}
	e.params = p
	e.recalculateRates()
}

// GetParameters returns the envelope shape.
func (e *ADSR) GetParameters() Parameters {
	return e.params
}

func (e *ADSR) rate(distance, seconds float64) float64 {
	if seconds <= 0 || e.sampleRate <= 0 {
		return -1
	}
	return distance / (seconds * e.sampleRate)
}

func (e *ADSR) recalculateRates() {
	e.attackRate = e.rate(1, e.params.Attack)
	e.decayRate = e.rate(1-e.params.Sustain, e.params.Decay)

	switch {
	case e.stage == StageAttack && e.attackRate <= 0:
		e.goToNextStage()
	case e.stage == StageDecay && (e.decayRate <= 0 || e.value <= e.params.Sustain):
		e.goToNextStage()
	}
}

// NoteOn starts the attack from the current level.
func (e *ADSR) NoteOn() {
	switch {
	case e.attackRate > 0:
		e.stage = StageAttack
	case e.decayRate > 0:
		e.value = 1
		e.stage = StageDecay
	default:
		e.value = e.params.Sustain
		e.stage = StageSustain
	}
}

// NoteOff starts the release from the current level.
func (e *ADSR) NoteOff() {
	if e.stage == StageIdle {
		return
	}
	e.releaseRate = e.rate(e.value, e.params.Release)
	if e.releaseRate <= 0 {
		e.Reset()
		return
	}
	e.stage = StageRelease
}

// Reset returns the envelope to idle at zero.
func (e *ADSR) Reset() {
	e.value = 0
	e.stage = StageIdle
}

// IsActive reports whether the envelope is anywhere but idle.
func (e *ADSR) IsActive() bool {
	return e.stage != StageIdle
}

// GetStage returns the current envelope stage
func (e *ADSR) GetStage() Stage {
	return e.stage
}

// Value returns the current level without advancing.
func (e *ADSR) Value() float64 {
	return e.value
}

// Next advances the envelope one tick and returns its level.
func (e *ADSR) Next() float64 {
	switch e.stage {
	case StageIdle:
		return 0
	case StageAttack:
		e.value += e.attackRate
		if e.value >= 1 {
			e.value = 1
			e.goToNextStage()
		}
	case StageDecay:
		e.value -= e.decayRate
		if e.value <= e.params.Sustain {
			e.value = e.params.Sustain
			e.goToNextStage()
		}
	case StageSustain:
		e.value = e.params.Sustain
	case StageRelease:
		e.value -= e.releaseRate
		if e.value <= 0 {
			e.goToNextStage()
		}
	}
	return e.value
}

func (e *ADSR) goToNextStage() {
	switch e.stage {
	case StageAttack:
		if e.decayRate > 0 {
			e.stage = StageDecay
		} else {
			e.stage = StageSustain
		}
	case StageDecay:
		e.stage = StageSustain
	case StageRelease:
		e.Reset()
	}
}

// Process fills buffer with successive envelope levels.
func (e *ADSR) Process(buffer []float32) {
	for i := range buffer {
		buffer[i] = float32(e.Next())
	}
}
