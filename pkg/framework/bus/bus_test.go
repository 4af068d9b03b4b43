package bus

import (
	"errors"
	"testing"
)

func TestInstrumentConfiguration(t *testing.T) {
	tests := []struct {
		channels int
		name     string
		wantErr  bool
	}{
		{1, "Mono Out", false},
		{2, "Stereo Out", false},
		{0, "", true},
		{6, "", true},
	}

	for _, tt := range tests {
		cfg, err := NewInstrumentConfiguration(tt.channels)
		if tt.wantErr {
			if !errors.Is(err, ErrUnsupportedLayout) {
				t.Errorf("NewInstrumentConfiguration(%d) error = %v, want ErrUnsupportedLayout", tt.channels, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NewInstrumentConfiguration(%d): %v", tt.channels, err)
		}
		if cfg.Output().Name != tt.name {
			t.Errorf("output name = %q, want %q", cfg.Output().Name, tt.name)
		}
		if cfg.OutputChannels() != tt.channels {
			t.Errorf("OutputChannels() = %d, want %d", cfg.OutputChannels(), tt.channels)
		}
		if n := cfg.GetBusCount(MediaTypeEvent, DirectionInput); n != 1 {
			t.Errorf("event inputs = %d, want 1", n)
		}
		if n := cfg.GetBusCount(MediaTypeAudio, DirectionInput); n != 0 {
			t.Errorf("audio inputs = %d, want 0", n)
		}
	}
}
