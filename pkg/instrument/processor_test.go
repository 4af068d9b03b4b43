package instrument

import (
	"bytes"
	"errors"
	"testing"

	"github.com/khrykin/BlackBird/pkg/dsp"
	"github.com/khrykin/BlackBird/pkg/framework/bus"
	"github.com/khrykin/BlackBird/pkg/framework/debug"
	"github.com/khrykin/BlackBird/pkg/framework/process"
	"github.com/khrykin/BlackBird/pkg/framework/state"
	"github.com/khrykin/BlackBird/pkg/midi"
	"github.com/khrykin/BlackBird/pkg/synth"
)

func newProcessor(t *testing.T) *Processor {
	t.Helper()
	opts := DefaultOptions()
	opts.Config.Seed = 1
	opts.PresetDir = t.TempDir()
	opts.Logger = debug.New(&bytes.Buffer{}, "test", 0)

	p, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := p.Initialize(48000, 256, 2); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return p
}

func newContext(p *Processor, n int) *process.Context {
	ctx := process.NewContext(32, p.GetParameters())
	ctx.SampleRate = 48000
	ctx.Output = [][]float32{make([]float32, n), make([]float32, n)}
	return ctx
}

func TestInitializeLayouts(t *testing.T) {
	tests := []struct {
		name     string
		channels int
		wantErr  bool
	}{
		{"Mono", 1, false},
		{"Stereo", 2, false},
		{"None", 0, true},
		{"Quad", 4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProcessor(t)
			err := p.Initialize(44100, 512, tt.channels)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Initialize(%d) error = %v, wantErr %v", tt.channels, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, bus.ErrUnsupportedLayout) {
					t.Errorf("error = %v, want %v", err, bus.ErrUnsupportedLayout)
				}
				return
			}
			if got := p.GetBuses().OutputChannels(); got != tt.channels {
				t.Errorf("OutputChannels() = %d, want %d", got, tt.channels)
			}
		})
	}
}

func TestInfo(t *testing.T) {
	p := newProcessor(t)
	if got := p.Info().Name; got != "BlackBird" {
		t.Errorf("Info().Name = %q, want BlackBird", got)
	}
	if got := p.GetParameters().Count(); got != synth.NumParams {
		t.Errorf("parameter count = %d, want %d", got, synth.NumParams)
	}
	if got := p.GetLatencySamples(); got != 0 {
		t.Errorf("GetLatencySamples() = %d, want 0", got)
	}
	if got, want := p.GetTailSamples(), int32(16*48000); got != want {
		t.Errorf("GetTailSamples() = %d, want %d", got, want)
	}
}

func TestProcessAudio(t *testing.T) {
	p := newProcessor(t)
	ctx := newContext(p, 256)
	ctx.AddInputEvent(midi.NoteOnEvent{NoteNumber: 60, Velocity: 100})

	p.ProcessAudio(ctx)
	if dsp.IsSilent(ctx.Output[0]) {
		t.Error("ProcessAudio rendered silence for a note")
	}
	if got := p.Synth().ActiveVoices(); got != 1 {
		t.Errorf("ActiveVoices() = %d, want 1", got)
	}
}

func TestSetActive(t *testing.T) {
	p := newProcessor(t)
	ctx := newContext(p, 256)
	ctx.AddInputEvent(midi.NoteOnEvent{NoteNumber: 60, Velocity: 100})
	p.ProcessAudio(ctx)
	ctx.ClearInputEvents()

	if err := p.SetActive(false); err != nil {
		t.Fatal(err)
	}
	if got := p.Synth().ActiveVoices(); got != 0 {
		t.Errorf("ActiveVoices() after deactivate = %d, want 0", got)
	}
	p.ProcessAudio(ctx)
	if !dsp.IsSilent(ctx.Output[0]) {
		t.Error("inactive processor produced output")
	}

	uninit, err := New(Options{Config: synth.DefaultConfig(), PresetDir: t.TempDir(), Logger: debug.New(&bytes.Buffer{}, "", 0)})
	if err != nil {
		t.Fatal(err)
	}
	if err := uninit.SetActive(true); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("SetActive before Initialize error = %v, want %v", err, ErrNotInitialized)
	}
}

func TestStateRoundTrip(t *testing.T) {
	p := newProcessor(t)
	reg := p.GetParameters()
	reg.Get(synth.ParamCutoff).SetPlainValue(1200)
	reg.Get(synth.ParamWaveform).SetPlainValue(1)

	var buf bytes.Buffer
	if err := p.SaveState(&buf); err != nil {
		t.Fatalf("SaveState() error = %v", err)
	}

	reg.ResetToDefaults()
	if err := p.LoadState(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}
	if got := reg.Get(synth.ParamWaveform).GetPlainValue(); got != 1 {
		t.Errorf("waveform = %v, want 1", got)
	}
	if got := reg.Get(synth.ParamCutoff).GetPlainValue(); got < 1199.99 || got > 1200.01 {
		t.Errorf("cutoff = %v, want 1200", got)
	}
}

func TestLoadCorruptStateKeepsValues(t *testing.T) {
	p := newProcessor(t)
	reg := p.GetParameters()
	reg.Get(synth.ParamReverb).SetPlainValue(0.25)

	err := p.LoadState(bytes.NewReader([]byte("not a state")))
	if !errors.Is(err, state.ErrInvalidHeader) {
		t.Errorf("LoadState() error = %v, want %v", err, state.ErrInvalidHeader)
	}
	if got := reg.Get(synth.ParamReverb).GetPlainValue(); got != 0.25 {
		t.Errorf("reverb = %v after failed load, want 0.25", got)
	}
}

func TestPrograms(t *testing.T) {
	p := newProcessor(t)
	reg := p.GetParameters()
	cutoff := reg.Get(synth.ParamCutoff)

	cutoff.SetPlainValue(500)
	if err := p.Presets().Save("Bass"); err != nil {
		t.Fatal(err)
	}
	cutoff.SetPlainValue(8000)
	if err := p.Presets().Save("Arp"); err != nil {
		t.Fatal(err)
	}

	names, err := p.Programs()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "Arp" || names[1] != "Bass" {
		t.Fatalf("Programs() = %v, want [Arp Bass]", names)
	}

	if err := p.SetProgram(1); err != nil {
		t.Fatalf("SetProgram(1) error = %v", err)
	}
	if got := cutoff.GetPlainValue(); got < 499.99 || got > 500.01 {
		t.Errorf("cutoff after program 1 = %v, want 500", got)
	}
	if p.CurrentProgram() != 1 {
		t.Errorf("CurrentProgram() = %d, want 1", p.CurrentProgram())
	}

	if err := p.SetProgram(2); !errors.Is(err, ErrProgramOutOfRange) {
		t.Errorf("SetProgram(2) error = %v, want %v", err, ErrProgramOutOfRange)
	}
	if p.CurrentProgram() != 1 {
		t.Errorf("CurrentProgram() after failure = %d, want 1", p.CurrentProgram())
	}
}

func TestProgramChangeEvent(t *testing.T) {
	p := newProcessor(t)
	cutoff := p.GetParameters().Get(synth.ParamCutoff)
	cutoff.SetPlainValue(300)
	if err := p.Presets().Save("Dark"); err != nil {
		t.Fatal(err)
	}
	cutoff.SetPlainValue(20000)

	if ok, err := p.ApplyPendingProgram(); ok || err != nil {
		t.Fatalf("ApplyPendingProgram() = %v, %v with nothing pending", ok, err)
	}

	ctx := newContext(p, 128)
	ctx.AddInputEvent(midi.ProgramChangeEvent{Program: 0})
	p.ProcessAudio(ctx)

	ok, err := p.ApplyPendingProgram()
	if !ok || err != nil {
		t.Fatalf("ApplyPendingProgram() = %v, %v, want true, nil", ok, err)
	}
	if got := cutoff.GetPlainValue(); got < 299.99 || got > 300.01 {
		t.Errorf("cutoff = %v, want 300", got)
	}
}
