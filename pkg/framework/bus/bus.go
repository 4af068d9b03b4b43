// Package bus describes the inputs and outputs an instrument exposes.
package bus

import (
	"errors"
	"fmt"
)

// MediaType represents the type of bus
type MediaType int32

const (
	MediaTypeAudio MediaType = iota
	MediaTypeEvent
)

// Direction represents the bus direction
type Direction int32

const (
	DirectionInput Direction = iota
	DirectionOutput
)

// Info contains bus configuration
type Info struct {
	MediaType    MediaType
	Direction    Direction
	ChannelCount int
	Name         string
}

var ErrUnsupportedLayout = errors.New("unsupported channel layout")

// Configuration is an instrument's bus layout: one event input and one
// main audio output.
type Configuration struct {
	events Info
	output Info
}

// NewInstrumentConfiguration creates the layout for an instrument with
// the given number of output channels. Only mono and stereo are
// supported.
func NewInstrumentConfiguration(outputChannels int) (*Configuration, error) {
	name, err := LayoutName(outputChannels)
	if err != nil {
		return nil, err
	}
	return &Configuration{
		events: Info{
			MediaType:    MediaTypeEvent,
			Direction:    DirectionInput,
			ChannelCount: 16,
			Name:         "MIDI In",
		},
		output: Info{
			MediaType:    MediaTypeAudio,
			Direction:    DirectionOutput,
			ChannelCount: outputChannels,
			Name:         name + " Out",
		},
	}, nil
}

// LayoutName names a supported output channel count.
func LayoutName(channels int) (string, error) {
	switch channels {
	case 1:
		return "Mono", nil
	case 2:
		return "Stereo", nil
	}
	return "", fmt.Errorf("%w: %d output channels (want 1 or 2)", ErrUnsupportedLayout, channels)
}

// GetBusCount returns the number of buses for a given type and direction
func (c *Configuration) GetBusCount(mediaType MediaType, direction Direction) int {
	n := 0
	for _, b := range []Info{c.events, c.output} {
		if b.MediaType == mediaType && b.Direction == direction {
			n++
		}
	}
	return n
}

// Output returns the main audio output bus.
func (c *Configuration) Output() Info {
	return c.output
}

// Events returns the event input bus.
func (c *Configuration) Events() Info {
	return c.events
}

// OutputChannels returns the number of channels on the main output.
func (c *Configuration) OutputChannels() int {
	return c.output.ChannelCount
}
