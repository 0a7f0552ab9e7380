package table

import (
	"slices"
	"sync"

	"github.com/matzehuels/tracelayout/pkg/errors"
)

// Registry resolves computed tables by name.
// It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	generators map[string]Generator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{generators: make(map[string]Generator)}
}

// Register adds g under its table name. Registering two generators with the
// same name is an error.
func (r *Registry) Register(g Generator) error {
	name := g.TableName()
	if err := errors.ValidateTableName(name); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.generators[name]; ok {
		return errors.New(errors.ErrCodeInvalidInput, "table %s already registered", name)
	}
	r.generators[name] = g
	return nil
}

// Lookup returns the generator for name.
func (r *Registry) Lookup(name string) (Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.generators[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeTableNotFound, "no such table: %s", name)
	}
	return g, nil
}

// Names returns the registered table names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Query computes the named table, filters it by every constraint that is
// not on the argument column, then applies orders.
func (r *Registry) Query(name string, constraints []Constraint, orders []Order) (*Table, error) {
	g, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}

	t, err := g.ComputeTable(constraints, orders)
	if err != nil {
		return nil, err
	}

	_, rest := SplitConstraints(constraints, g.ArgumentColumn())
	if t, err = t.Filter(rest); err != nil {
		return nil, err
	}
	return t.Sort(orders)
}
