package midi

// Buffer is a fixed-capacity list of events kept in sample-offset order.
// It never grows after construction, so filling and reading it does not
// allocate. A Buffer is not safe for concurrent use; it is filled by one
// goroutine and then handed over whole to the one that renders it.
type Buffer struct {
	events []Event
}

func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{events: make([]Event, 0, capacity)}
}

// Add inserts e after any events with the same or an earlier offset.
// It reports false and drops the event when the buffer is full.
func (b *Buffer) Add(e Event) bool {
	n := len(b.events)
	if n == cap(b.events) {
		return false
	}

	b.events = b.events[:n+1]
	i := n
	for i > 0 && b.events[i-1].SampleOffset() > e.SampleOffset() {
		b.events[i] = b.events[i-1]
		i--
	}
	b.events[i] = e
	return true
}

// Events returns the buffered events. The slice aliases the buffer and
// is valid until the next Add or Clear.
func (b *Buffer) Events() []Event {
	return b.events
}

// Range returns the events whose offsets fall in [start, end).
func (b *Buffer) Range(start, end int32) []Event {
	lo := b.search(start)
	hi := b.search(end)
	return b.events[lo:hi]
}

func (b *Buffer) search(offset int32) int {
	lo, hi := 0, len(b.events)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if b.events[mid].SampleOffset() < offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func (b *Buffer) Len() int {
	return len(b.events)
}

func (b *Buffer) Cap() int {
	return cap(b.events)
}

func (b *Buffer) Clear() {
	for i := range b.events {
		b.events[i] = nil
	}
	b.events = b.events[:0]
}
