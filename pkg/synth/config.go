package synth

import (
	"errors"
	"fmt"

	"github.com/khrykin/BlackBird/pkg/dsp/reverb"
)

const (
	DefaultVoices           = 5
	MaxVoices               = 16
	DefaultControlBlockSize = 50
	DefaultFadeSeconds      = 1.0
)

var ErrInvalidConfig = errors.New("synth: invalid config")

// Config holds the engine settings that are fixed once it is built.
type Config struct {
	// Voices is the size of the voice pool.
	Voices int
	// ControlBlockSize is the number of samples between envelope, filter
	// and modulation updates.
	ControlBlockSize int
	// Seed seeds each voice's random drift. Zero picks a random seed.
	Seed uint64
	// FadeSeconds is how long a voice keeps rendering after its envelope
	// has finished before it is freed.
	FadeSeconds float64
	// Reverb sets the sound of the master reverb. The Reverb parameter
	// only blends it in.
	Reverb reverb.Parameters
}

func DefaultConfig() Config {
	return Config{
		Voices:           DefaultVoices,
		ControlBlockSize: DefaultControlBlockSize,
		FadeSeconds:      DefaultFadeSeconds,
		Reverb:           reverb.DefaultParameters(),
	}
}

func (c Config) validate() error {
	if c.Voices < 1 || c.Voices > MaxVoices {
		return fmt.Errorf("%w: %d voices (want 1..%d)", ErrInvalidConfig, c.Voices, MaxVoices)
	}
	if c.ControlBlockSize < 1 {
		return fmt.Errorf("%w: control block size %d", ErrInvalidConfig, c.ControlBlockSize)
	}
	if c.FadeSeconds < 0 {
		return fmt.Errorf("%w: fade %v s", ErrInvalidConfig, c.FadeSeconds)
	}
	return nil
}
