// Package state saves and restores parameter values in a small binary
// format:
//
//	magic   "BLKBRD"
//	version uint32
//	count   uint32
//	count × (id uint32, normalized value float64)
//
// All integers and floats are little endian.
package state

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/khrykin/BlackBird/pkg/framework/param"
)

const (
	Magic   = "BLKBRD"
	Version = uint32(1)

	// MaxEntries bounds the count field so a corrupt header cannot make
	// Load allocate without limit.
	MaxEntries = 4096
)

var (
	ErrInvalidHeader      = errors.New("state: invalid header")
	ErrUnsupportedVersion = errors.New("state: unsupported version")
	ErrCorrupt            = errors.New("state: corrupt data")
)

// Entry is one saved parameter value.
type Entry struct {
	ID    uint32
	Value float64 // normalized
}

// Manager handles state saving and loading for a registry.
type Manager struct {
	registry *param.Registry
}

func NewManager(registry *param.Registry) *Manager {
	return &Manager{registry: registry}
}

// Save writes every registered parameter's normalized value.
func (m *Manager) Save(w io.Writer) error {
	params := m.registry.All()
	entries := make([]Entry, len(params))
	for i, p := range params {
		entries[i] = Entry{ID: p.ID, Value: p.GetValue()}
	}
	return Encode(w, entries)
}

// Load reads a state and applies it. The whole input is decoded and
// validated first, so on error no parameter has been changed. IDs the
// registry does not know are skipped.
func (m *Manager) Load(r io.Reader) (applied int, err error) {
	entries, err := Decode(r)
	if err != nil {
		return 0, err
	}
	for _, e := range entries {
		if p := m.registry.Get(e.ID); p != nil {
			p.SetValue(e.Value)
			applied++
		}
	}
	return applied, nil
}

// Encode writes entries in the state format.
func Encode(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(Magic); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	var buf [12]byte
	binary.LittleEndian.PutUint32(buf[0:4], Version)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(entries)))
	if _, err := bw.Write(buf[:8]); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, e := range entries {
		binary.LittleEndian.PutUint32(buf[0:4], e.ID)
		binary.LittleEndian.PutUint64(buf[4:12], math.Float64bits(e.Value))
		if _, err := bw.Write(buf[:]); err != nil {
			return fmt.Errorf("write parameter %d: %w", e.ID, err)
		}
	}
	return bw.Flush()
}

// Decode reads and validates a complete state.
func Decode(r io.Reader) ([]Entry, error) {
	header := make([]byte, len(Magic)+8)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	if string(header[:len(Magic)]) != Magic {
		return nil, ErrInvalidHeader
	}

	version := binary.LittleEndian.Uint32(header[len(Magic):])
	if version == 0 || version > Version {
		return nil, fmt.Errorf("%w: %d (supported up to %d)", ErrUnsupportedVersion, version, Version)
	}

	count := binary.LittleEndian.Uint32(header[len(Magic)+4:])
	if count > MaxEntries {
		return nil, fmt.Errorf("%w: %d entries", ErrCorrupt, count)
	}

	entries := make([]Entry, count)
	var buf [12]byte
	for i := range entries {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, fmt.Errorf("%w: entry %d of %d: %w", ErrCorrupt, i, count, err)
		}
		v := math.Float64frombits(binary.LittleEndian.Uint64(buf[4:]))
		if math.IsNaN(v) || v < 0 || v > 1 {
			return nil, fmt.Errorf("%w: entry %d has value %v outside [0, 1]", ErrCorrupt, i, v)
		}
		entries[i] = Entry{ID: binary.LittleEndian.Uint32(buf[:4]), Value: v}
	}
	return entries, nil
}
