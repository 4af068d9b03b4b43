// Package process carries one block of audio work from the host side to
// an instrument.
package process

import (
	"github.com/khrykin/BlackBird/pkg/framework/param"
	"github.com/khrykin/BlackBird/pkg/midi"
)

// Context describes one render block: the output channels to fill and
// the events that fall inside it. A Context and its buffers are
// allocated once and reused for every block.
type Context struct {
	Output     [][]float32
	SampleRate float64

	events *midi.Buffer
	params *param.Registry
}

// NewContext creates a context able to hold maxEvents events per block.
func NewContext(maxEvents int, params *param.Registry) *Context {
	return &Context{
		events: midi.NewBuffer(maxEvents),
		params: params,
	}
}

// Param returns the current value of a parameter (0-1 normalized)
func (c *Context) Param(id uint32) float64 {
	if p := c.params.Get(id); p != nil {
		return p.GetValue()
	}
	return 0
}

// ParamPlain returns the current plain value of a parameter
func (c *Context) ParamPlain(id uint32) float64 {
	if p := c.params.Get(id); p != nil {
		return p.GetPlainValue()
	}
	return 0
}

// NumSamples returns the number of samples in the block.
func (c *Context) NumSamples() int {
	if len(c.Output) > 0 {
		return len(c.Output[0])
	}
	return 0
}

func (c *Context) NumOutputChannels() int {
	return len(c.Output)
}

// Clear zeros the output buffers
func (c *Context) Clear() {
	for _, ch := range c.Output {
		clear(ch)
	}
}

// AddInputEvent queues an event for this block. It reports false when
// the event buffer is full and the event was dropped.
func (c *Context) AddInputEvent(e midi.Event) bool {
	return c.events.Add(e)
}

// InputEvents returns the block's events ordered by sample offset.
func (c *Context) InputEvents() []midi.Event {
	return c.events.Events()
}

// GetInputEvents returns the events with offsets in [start, end).
func (c *Context) GetInputEvents(start, end int32) []midi.Event {
	return c.events.Range(start, end)
}

func (c *Context) HasInputEvents() bool {
	return c.events.Len() > 0
}

func (c *Context) ClearInputEvents() {
	c.events.Clear()
}
