package param

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrDuplicateParameter = errors.New("duplicate parameter id")
	ErrUnknownParameter   = errors.New("unknown parameter id")
)

// Registry manages plugin parameters. The lock guards the set of
// parameters, not their values; values are read through the
// *Parameter handles directly.
type Registry struct {
	params map[uint32]*Parameter
	order  []uint32 // Maintain order for indexed access
	mu     sync.RWMutex
}

// NewRegistry creates a new parameter registry
func NewRegistry() *Registry {
	return &Registry{
		params: make(map[uint32]*Parameter),
		order:  make([]uint32, 0),
	}
}

// Add registers parameters. Nothing is added if any ID is already taken.
func (r *Registry) Add(params ...*Parameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[uint32]bool, len(params))
	for _, p := range params {
		if _, exists := r.params[p.ID]; exists || seen[p.ID] {
			return fmt.Errorf("%w: %d (%s)", ErrDuplicateParameter, p.ID, p.Name)
		}
		seen[p.ID] = true
	}
	for _, p := range params {
		r.params[p.ID] = p
		r.order = append(r.order, p.ID)
	}

	return nil
}

// Get retrieves a parameter by ID
func (r *Registry) Get(id uint32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.params[id]
}

// GetByIndex retrieves a parameter by index
func (r *Registry) GetByIndex(index int32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= int32(len(r.order)) {
		return nil
	}

	id := r.order[index]
	return r.params[id]
}

// SetValue sets the normalized value of the parameter with the given ID.
func (r *Registry) SetValue(id uint32, normalized float64) error {
	p := r.Get(id)
	if p == nil {
		return fmt.Errorf("%w: %d", ErrUnknownParameter, id)
	}
	p.SetValue(normalized)
	return nil
}

// Count returns the number of parameters
func (r *Registry) Count() int32 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int32(len(r.order))
}

// All returns all parameters in order
func (r *Registry) All() []*Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Parameter, len(r.order))
	for i, id := range r.order {
		result[i] = r.params[id]
	}

	return result
}

// ResetToDefaults restores every parameter's default value.
func (r *Registry) ResetToDefaults() {
	for _, p := range r.All() {
		p.ResetToDefault()
	}
}
