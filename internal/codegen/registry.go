package codegen

import (
	"sort"

	"github.com/Wolfram70/SimpleLang/internal/syntax"
)

// Registry records the most recent prototype seen for every function name
// in a session. Modules are discarded once submitted, so a call to a
// function from an earlier unit is resolved by redeclaring it from here.
type Registry struct {
	protos map[string]*syntax.Prototype
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{protos: make(map[string]*syntax.Prototype)}
}

// Add records p, replacing any earlier prototype of the same name.
func (r *Registry) Add(p *syntax.Prototype) {
	r.protos[p.Name] = p
}

// Lookup returns the prototype named name, or nil.
func (r *Registry) Lookup(name string) *syntax.Prototype {
	return r.protos[name]
}

// Remove forgets the prototype named name.
func (r *Registry) Remove(name string) {
	delete(r.protos, name)
}

// Len returns the number of recorded prototypes.
func (r *Registry) Len() int { return len(r.protos) }

// Names returns the recorded names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.protos))
	for name := range r.protos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns a copy of r that later changes to r do not affect.
func (r *Registry) Snapshot() *Registry {
	c := &Registry{protos: make(map[string]*syntax.Prototype, len(r.protos))}
	for name, p := range r.protos {
		c.protos[name] = p
	}
	return c
}

// Restore resets r to the contents of a snapshot.
func (r *Registry) Restore(saved *Registry) {
	r.protos = saved.Snapshot().protos
}
