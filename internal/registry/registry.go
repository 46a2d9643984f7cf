// Package registry implements the named plugin registries that mirror the
// external framework's registration system. Custom tasks, model
// architectures and criterions register themselves by name at init time;
// recipes refer to them by the same strings the framework sees on its
// command line.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknown is returned by Lookup for unregistered names.
var ErrUnknown = errors.New("not registered")

// Entry is anything registrable by name.
type Entry interface {
	// Name is the identifier passed to the framework (e.g. --task csda).
	Name() string

	// Description is a one-line human-readable summary.
	Description() string
}

// Registry is a thread-safe name-to-entry map for one plugin kind.
type Registry[E Entry] struct {
	kind    string
	mu      sync.RWMutex
	entries map[string]E
}

// New creates a registry for the given plugin kind ("task", "architecture",
// "criterion").
func New[E Entry](kind string) *Registry[E] {
	return &Registry[E]{kind: kind, entries: make(map[string]E)}
}

// Register adds e under its name. Like the framework's decorators, a
// duplicate registration is a programming error and panics.
func (r *Registry[E]) Register(e E) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := e.Name()
	if _, ok := r.entries[name]; ok {
		panic(fmt.Sprintf("%s %q registered twice", r.kind, name))
	}
	r.entries[name] = e
}

// Lookup returns the entry registered under name.
func (r *Registry[E]) Lookup(name string) (E, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return e, fmt.Errorf("%s %q: %w", r.kind, name, ErrUnknown)
	}
	return e, nil
}

// Names returns all registered names, sorted.
func (r *Registry[E]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
