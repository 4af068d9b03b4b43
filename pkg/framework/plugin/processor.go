// Package plugin defines the interface a host uses to drive an instrument.
package plugin

import (
	"io"

	"github.com/khrykin/BlackBird/pkg/framework/bus"
	"github.com/khrykin/BlackBird/pkg/framework/param"
	"github.com/khrykin/BlackBird/pkg/framework/process"
)

// Processor is an instrument as seen by a host. Initialize, SetActive
// and the state methods are called from the control side; ProcessAudio
// is called from the render goroutine and must not allocate, lock or
// block.
type Processor interface {
	Info() Info
	Initialize(sampleRate float64, maxBlockSize int32, outputChannels int) error
	GetParameters() *param.Registry
	GetBuses() *bus.Configuration
	ProcessAudio(ctx *process.Context)
	SetActive(active bool) error
	GetLatencySamples() int32
	GetTailSamples() int32
}

// StatefulProcessor can save and restore its parameter state.
type StatefulProcessor interface {
	Processor
	SaveState(w io.Writer) error
	LoadState(r io.Reader) error
}

// ProgramProcessor exposes a list of named programs.
type ProgramProcessor interface {
	Processor
	Programs() ([]string, error)
	CurrentProgram() int
	SetProgram(index int) error
}
