package catalog

import (
	"fmt"
	"sort"
	"sync"

	"github.com/felixgeelhaar/pacer/internal/domain"
)

// Registry provides in-memory access to loaded modules.
type Registry struct {
	loader  *Loader
	mu      sync.RWMutex
	sets    map[string]*ModuleSet
	modules map[string]*Module
	loaded  bool
}

// NewRegistry creates a registry backed by the given loader.
func NewRegistry(loader *Loader) *Registry {
	return &Registry{
		loader:  loader,
		sets:    make(map[string]*ModuleSet),
		modules: make(map[string]*Module),
	}
}

// Load reads all module sets into memory.
func (r *Registry) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sets, err := r.loader.LoadAllSets()
	if err != nil {
		return fmt.Errorf("load module sets: %w", err)
	}

	for _, set := range sets {
		r.sets[set.ID] = set
		for i := range set.Modules {
			m := &set.Modules[i]
			r.modules[m.ID] = m
		}
	}

	r.loaded = true
	return nil
}

// Get returns a module by ID.
func (r *Registry) Get(id string) (*Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.modules[id]
	if !ok {
		return nil, domain.ErrModuleNotFound
	}
	return m, nil
}

// List returns all modules sorted by ID.
func (r *Registry) List() []*Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Module, 0, len(r.modules))
	for _, m := range r.modules {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ComplexityFactor returns the complexity factor for a module. This is
// the lookup the difficulty predictor depends on.
func (r *Registry) ComplexityFactor(moduleID string) (float64, error) {
	m, err := r.Get(moduleID)
	if err != nil {
		return 0, err
	}
	return m.ComplexityFactor, nil
}
