// Package instrument wraps the synth engine as a plugin.Processor with
// parameters, saved state and presets.
package instrument

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/khrykin/BlackBird/pkg/framework/bus"
	"github.com/khrykin/BlackBird/pkg/framework/debug"
	"github.com/khrykin/BlackBird/pkg/framework/param"
	"github.com/khrykin/BlackBird/pkg/framework/plugin"
	"github.com/khrykin/BlackBird/pkg/framework/preset"
	"github.com/khrykin/BlackBird/pkg/framework/process"
	"github.com/khrykin/BlackBird/pkg/framework/state"
	"github.com/khrykin/BlackBird/pkg/midi"
	"github.com/khrykin/BlackBird/pkg/synth"
)

var Info = plugin.Info{
	ID:       "com.khrykin.blackbird",
	Name:     "BlackBird",
	Version:  "1.0.0",
	Vendor:   "khrykin",
	Category: "Instrument|Synth",
}

var (
	ErrNotInitialized    = errors.New("instrument not initialized")
	ErrProgramOutOfRange = errors.New("program out of range")
)

const (
	defaultOutputChannels       = 2
	noProgram             int32 = -1
)

// Options configures a Processor.
type Options struct {
	Config synth.Config
	// PresetDir is the preset directory. Empty means preset.DefaultDir.
	PresetDir string
	Logger    *debug.Logger
}

// DefaultOptions returns the engine defaults with the default preset
// directory.
func DefaultOptions() Options {
	return Options{Config: synth.DefaultConfig()}
}

// Processor is the BlackBird instrument.
type Processor struct {
	registry *param.Registry
	params   synth.Parameters
	synth    *synth.Synth
	states   *state.Manager
	presets  *preset.Library
	buses    *bus.Configuration
	logger   *debug.Logger

	sampleRate  float64
	initialized bool
	active      atomic.Bool

	program        int
	pendingProgram atomic.Int32
}

var (
	_ plugin.StatefulProcessor = (*Processor)(nil)
	_ plugin.ProgramProcessor  = (*Processor)(nil)
)

// New builds the instrument. It must be initialized before processing.
func New(opts Options) (*Processor, error) {
	logger := opts.Logger
	if logger == nil {
		logger = debug.Default()
	}
	logger = logger.With("instrument")

	registry := param.NewRegistry()
	params, err := synth.RegisterParameters(registry)
	if err != nil {
		return nil, err
	}
	engine, err := synth.New(params, opts.Config)
	if err != nil {
		return nil, fmt.Errorf("create synth: %w", err)
	}

	states := state.NewManager(registry)
	presets, err := preset.NewLibrary(opts.PresetDir, states, logger)
	if err != nil {
		return nil, err
	}
	buses, err := bus.NewInstrumentConfiguration(defaultOutputChannels)
	if err != nil {
		return nil, err
	}

	p := &Processor{
		registry: registry,
		params:   params,
		synth:    engine,
		states:   states,
		presets:  presets,
		buses:    buses,
		logger:   logger,
		program:  int(noProgram),
	}
	p.pendingProgram.Store(noProgram)
	logger.Debug("created %s with %d voices", Info, opts.Config.Voices)
	return p, nil
}

func (p *Processor) Info() plugin.Info {
	return Info
}

// Initialize prepares the engine for the host's rate, block size and
// output layout. Only mono and stereo outputs are accepted.
func (p *Processor) Initialize(sampleRate float64, maxBlockSize int32, outputChannels int) error {
	buses, err := bus.NewInstrumentConfiguration(outputChannels)
	if err != nil {
		p.logger.Error("initialize: %v", err)
		return fmt.Errorf("initialize: %w", err)
	}
	if err := p.synth.Prepare(sampleRate, int(maxBlockSize), outputChannels); err != nil {
		p.logger.Error("initialize: %v", err)
		return fmt.Errorf("initialize: %w", err)
	}

	p.buses = buses
	p.sampleRate = sampleRate
	p.initialized = true
	p.active.Store(true)
	p.logger.Info("initialized at %.0f Hz, block %d, %s", sampleRate, maxBlockSize, buses.Output().Name)
	return nil
}

func (p *Processor) GetParameters() *param.Registry {
	return p.registry
}

func (p *Processor) GetBuses() *bus.Configuration {
	return p.buses
}

// Synth returns the engine.
func (p *Processor) Synth() *synth.Synth {
	return p.synth
}

// Presets returns the preset library.
func (p *Processor) Presets() *preset.Library {
	return p.presets
}

// ProcessAudio renders one block. Program changes in the block are
// recorded for the control side to apply with ApplyPendingProgram.
func (p *Processor) ProcessAudio(ctx *process.Context) {
	if !p.initialized || !p.active.Load() {
		ctx.Clear()
		return
	}
	for _, e := range ctx.InputEvents() {
		if pc, ok := e.(midi.ProgramChangeEvent); ok {
			p.pendingProgram.Store(int32(pc.Program))
		}
	}
	p.synth.ProcessAudio(ctx)
}

// SetActive starts or stops processing. Deactivating silences every
// voice. It must not be called while ProcessAudio is running.
func (p *Processor) SetActive(active bool) error {
	if !p.initialized {
		return ErrNotInitialized
	}
	if !active {
		p.synth.Reset()
	}
	p.active.Store(active)
	p.logger.Debug("active: %v", active)
	return nil
}

func (p *Processor) GetLatencySamples() int32 {
	return 0
}

// GetTailSamples is the longest release plus the time a voice keeps
// rendering after it.
func (p *Processor) GetTailSamples() int32 {
	seconds := synth.MaxEnvelopeSeconds + p.synth.Config().FadeSeconds
	return int32(seconds * p.sampleRate)
}

func (p *Processor) SaveState(w io.Writer) error {
	if err := p.states.Save(w); err != nil {
		p.logger.Error("save state: %v", err)
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// LoadState applies a saved state. On error no parameter is changed.
func (p *Processor) LoadState(r io.Reader) error {
	applied, err := p.states.Load(r)
	if err != nil {
		p.logger.Error("load state: %v", err)
		return fmt.Errorf("load state: %w", err)
	}
	p.logger.Debug("loaded state: %d parameters", applied)
	return nil
}

// Programs lists the presets in program order.
func (p *Processor) Programs() ([]string, error) {
	return p.presets.List()
}

// CurrentProgram returns the last program set, or -1.
func (p *Processor) CurrentProgram() int {
	return p.program
}

// SetProgram loads the preset at index in program order.
func (p *Processor) SetProgram(index int) error {
	names, err := p.presets.List()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(names) {
		return fmt.Errorf("%w: %d of %d", ErrProgramOutOfRange, index, len(names))
	}
	if err := p.presets.Load(names[index]); err != nil {
		return err
	}
	p.program = index
	p.logger.Info("program %d: %s", index, names[index])
	return nil
}

// ApplyPendingProgram loads the program last requested by a program
// change, if any. It reports whether there was one.
func (p *Processor) ApplyPendingProgram() (bool, error) {
	index := p.pendingProgram.Swap(noProgram)
	if index == noProgram {
		return false, nil
	}
	return true, p.SetProgram(int(index))
}
