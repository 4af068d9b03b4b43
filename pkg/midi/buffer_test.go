package midi

import "testing"

func noteOn(offset int32, note uint8) Event {
	return NoteOnEvent{BaseEvent: BaseEvent{Offset: offset}, NoteNumber: note, Velocity: 100}
}

func TestBufferKeepsOffsetOrder(t *testing.T) {
	b := NewBuffer(8)
	b.Add(noteOn(30, 1))
	b.Add(noteOn(10, 2))
	b.Add(noteOn(20, 3))
	b.Add(noteOn(10, 4))

	want := []uint8{2, 4, 3, 1}
	events := b.Events()
	if len(events) != len(want) {
		t.Fatalf("Len() = %d, want %d", len(events), len(want))
	}
	for i, e := range events {
		if got := e.(NoteOnEvent).NoteNumber; got != want[i] {
			t.Errorf("events[%d] note = %d, want %d", i, got, want[i])
		}
	}
}

func TestBufferFull(t *testing.T) {
	b := NewBuffer(2)
	if !b.Add(noteOn(0, 1)) || !b.Add(noteOn(1, 2)) {
		t.Fatal("Add failed before the buffer was full")
	}
	if b.Add(noteOn(2, 3)) {
		t.Error("Add succeeded on a full buffer")
	}
	if b.Len() != 2 || b.Cap() != 2 {
		t.Errorf("Len/Cap = %d/%d, want 2/2", b.Len(), b.Cap())
	}
}

func TestBufferRange(t *testing.T) {
	b := NewBuffer(8)
	for _, off := range []int32{0, 5, 5, 10, 20} {
		b.Add(noteOn(off, uint8(off)))
	}

	tests := []struct {
		start, end int32
		want       int
	}{
		{0, 5, 1},
		{5, 6, 2},
		{0, 100, 5},
		{11, 20, 0},
		{20, 21, 1},
	}
	for _, tt := range tests {
		if got := len(b.Range(tt.start, tt.end)); got != tt.want {
			t.Errorf("Range(%d, %d) has %d events, want %d", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestBufferClear(t *testing.T) {
	b := NewBuffer(4)
	b.Add(noteOn(0, 1))
	b.Clear()
	if b.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", b.Len())
	}
	if b.Cap() != 4 {
		t.Errorf("Cap() after Clear = %d, want 4", b.Cap())
	}
}

func TestBufferAddDoesNotAllocate(t *testing.T) {
	b := NewBuffer(64)
	e := noteOn(0, 60)
	allocs := testing.AllocsPerRun(100, func() {
		b.Clear()
		for i := 0; i < 64; i++ {
			b.Add(e)
		}
	})
	if allocs != 0 {
		t.Errorf("Add allocated %v times per run, want 0", allocs)
	}
}
