// Package synth is the BlackBird voice engine: a small pool of two-oscillator
// voices through ladder filters, mixed into a reverb and a master gain.
package synth

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/khrykin/BlackBird/pkg/dsp/gain"
	"github.com/khrykin/BlackBird/pkg/dsp/reverb"
	"github.com/khrykin/BlackBird/pkg/dsp/utility"
	"github.com/khrykin/BlackBird/pkg/dsp/wavetable"
	"github.com/khrykin/BlackBird/pkg/framework/process"
	"github.com/khrykin/BlackBird/pkg/framework/voice"
	"github.com/khrykin/BlackBird/pkg/midi"
)

var ErrInvalidLayout = errors.New("synth: invalid layout")

// Synth renders MIDI into audio. Prepare, Reset and AllNotesOff are
// control-side calls and must not run concurrently with RenderBlock.
// Parameters may be written from any goroutine at any time.
type Synth struct {
	params Parameters
	cfg    Config

	voices    []*Voice
	allocator *voice.Allocator

	bank   *wavetable.Bank
	reverb reverb.Freeverb
	wet    [][]float32
	views  [][]float32

	sampleRate   float64
	maxBlockSize int
	channels     int

	lastReverb float64
	lastMaster float64
	prepared   bool
}

// New builds an engine reading params. It must be prepared before it
// can render.
func New(params Parameters, cfg Config) (*Synth, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &Synth{params: params, cfg: cfg}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	pool := make([]voice.Voice, cfg.Voices)
	s.voices = make([]*Voice, cfg.Voices)
	for i := range s.voices {
		rng := rand.New(rand.NewPCG(seed, uint64(i)))
		s.voices[i] = newVoice(&s.params, rng)
		pool[i] = s.voices[i]
	}
	s.allocator = voice.NewAllocator(pool, SoundSynth)

	s.reverb.SetParameters(cfg.Reverb)
	s.lastReverb = s.reverbAmount()
	s.lastMaster = s.masterGain()
	return s, nil
}

// Prepare sizes every buffer for blocks of up to maxBlockSize samples on
// channels outputs and silences the engine.
func (s *Synth) Prepare(sampleRate float64, maxBlockSize, channels int) error {
	if sampleRate <= 0 || maxBlockSize < 1 {
		return fmt.Errorf("%w: %v Hz, block %d", ErrInvalidLayout, sampleRate, maxBlockSize)
	}
	if channels < 1 || channels > 2 {
		return fmt.Errorf("%w: %d channels", ErrInvalidLayout, channels)
	}

	if s.bank == nil || s.bank.SampleRate() != sampleRate {
		s.bank = wavetable.NewBank(sampleRate)
	}
	for _, v := range s.voices {
		v.prepare(s.bank, maxBlockSize, s.cfg)
	}

	s.reverb.Prepare(sampleRate)
	s.wet = make([][]float32, channels)
	for ch := range s.wet {
		s.wet[ch] = make([]float32, maxBlockSize)
	}
	s.views = make([][]float32, channels)

	s.sampleRate = sampleRate
	s.maxBlockSize = maxBlockSize
	s.channels = channels
	s.prepared = true
	s.Reset()
	return nil
}

// SampleRate returns the rate the engine was prepared for.
func (s *Synth) SampleRate() float64 {
	return s.sampleRate
}

// Config returns the settings the engine was built with.
func (s *Synth) Config() Config {
	return s.cfg
}

// ProcessAudio renders one block of ctx: its output is cleared and the
// block's events are applied at their offsets.
func (s *Synth) ProcessAudio(ctx *process.Context) {
	ctx.Clear()
	s.RenderBlock(ctx.Output, ctx.InputEvents(), 0, ctx.NumSamples())
}

// RenderBlock mixes n samples into buffer from start, applying events at
// their sample offsets. events must be sorted by offset. Events before
// start apply at start and events at or after start+n apply after the
// block is rendered.
//
// The voices add into buffer; callers clear it first if they want only
// the synth.
func (s *Synth) RenderBlock(buffer [][]float32, events []midi.Event, start, n int) {
	if !s.prepared {
		panic("synth: RenderBlock called before Prepare")
	}
	if len(buffer) > s.channels {
		buffer = buffer[:s.channels]
	}

	pos, end := start, start+n
	for _, e := range events {
		at := int(e.SampleOffset())
		if at > end {
			at = end
		}
		if at > pos {
			s.renderSegment(buffer, pos, at-pos)
			pos = at
		}
		s.HandleEvent(e)
	}
	if pos < end {
		s.renderSegment(buffer, pos, end-pos)
	}
}

// HandleEvent applies one event immediately.
func (s *Synth) HandleEvent(e midi.Event) {
	s.allocator.ProcessEvent(e)
}

func (s *Synth) renderSegment(buffer [][]float32, start, n int) {
	for n > 0 {
		size := min(n, s.maxBlockSize)
		s.renderChunk(buffer, start, size)
		start += size
		n -= size
	}
}

func (s *Synth) renderChunk(buffer [][]float32, start, n int) {
	for _, v := range s.voices {
		v.Render(buffer, start, n)
	}

	amount := s.reverbAmount()
	if amount != 0 || s.lastReverb != 0 {
		views := s.views[:len(buffer)]
		for ch := range buffer {
			views[ch] = s.wet[ch][:n]
			copy(views[ch], buffer[ch][start:start+n])
		}
		s.reverb.Process(views)
		applied := s.lastReverb
		for ch := range buffer {
			dry := buffer[ch][start : start+n]
			gain.Fade(dry, 1-s.lastReverb, 1-amount)
			applied = gain.AddFaded(dry, views[ch], s.lastReverb, amount)
		}
		if amount == 0 && applied == 0 {
			s.reverb.Reset()
		}
		amount = applied
	}
	s.lastReverb = amount

	target, master := s.masterGain(), s.lastMaster
	for ch := range buffer {
		master = gain.Fade(buffer[ch][start:start+n], s.lastMaster, target)
	}
	s.lastMaster = master
}

// ReverbIsOn reports whether the reverb amount is above zero.
func (s *Synth) ReverbIsOn() bool {
	return s.reverbAmount() > 0
}

func (s *Synth) reverbAmount() float64 {
	return utility.ClampParameter(s.params.Reverb.GetPlainValue(), 0, 1)
}

func (s *Synth) masterGain() float64 {
	return utility.ClampParameter(s.params.MasterGain.GetPlainValue(), 0, MaxMasterGain)
}

// ActiveVoices returns how many voices are sounding or settling.
func (s *Synth) ActiveVoices() int {
	return s.allocator.GetActiveVoiceCount()
}

// Voices returns the voice pool.
func (s *Synth) Voices() []*Voice {
	return s.voices
}

// Allocator returns the allocator routing notes to voices.
func (s *Synth) Allocator() *voice.Allocator {
	return s.allocator
}

// SetBypass switches a chain stage on or off in every voice.
func (s *Synth) SetBypass(stage Stage, bypassed bool) {
	for _, v := range s.voices {
		v.SetBypass(stage, bypassed)
	}
}

// AllNotesOff releases every note on every channel.
func (s *Synth) AllNotesOff(allowTailOff bool) {
	s.allocator.AllNotesOff(-1, allowTailOff)
}

// Reset silences all voices, clears the reverb and snaps the master and
// reverb ramps to their current values.
func (s *Synth) Reset() {
	s.allocator.Reset()
	s.reverb.Reset()
	s.lastReverb = s.reverbAmount()
	s.lastMaster = s.masterGain()
}
