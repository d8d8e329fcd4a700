package codegen

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownTarget is returned when no target is registered under a name
var ErrUnknownTarget = errors.New("unknown target")

// Registry manages available targets
type Registry struct {
	targets map[string]func() Target
}

// NewRegistry creates a new, empty target registry
func NewRegistry() *Registry {
	return &Registry{
		targets: make(map[string]func() Target),
	}
}

// Register adds a target factory to the registry
func (r *Registry) Register(name string, factory func() Target) {
	r.targets[name] = factory
}

// Get returns a new target for name
func (r *Registry) Get(name string) (Target, error) {
	factory, exists := r.targets[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownTarget, name, r.Names())
	}

	return factory(), nil
}

// Names returns the registered target names, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.targets))
	for name := range r.targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
