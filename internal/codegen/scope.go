package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Wolfram70/SimpleLang/internal/ssa"
)

// Scope maps variable names to the stack slots holding them.
// Scopes form a chain from the innermost var or for binding out to the
// function's parameters.
type Scope struct {
	parent *Scope
	slots  map[string]*ssa.Value
}

// NewScope creates a new scope with the given parent.
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, slots: make(map[string]*ssa.Value)}
}

// Parent returns the enclosing scope, or nil for a function's outermost scope.
func (s *Scope) Parent() *Scope { return s.parent }

// Lookup returns the slot bound to name in s or the nearest enclosing
// scope, or nil.
func (s *Scope) Lookup(name string) *ssa.Value {
	for scope := s; scope != nil; scope = scope.parent {
		if slot := scope.slots[name]; slot != nil {
			return slot
		}
	}
	return nil
}

// Insert binds name to slot in s, replacing any binding already in s.
func (s *Scope) Insert(name string, slot *ssa.Value) {
	s.slots[name] = slot
}

// Names returns the names visible from s, sorted alphabetically.
func (s *Scope) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for scope := s; scope != nil; scope = scope.parent {
		for name := range scope.slots {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// String returns the visible bindings as "a=v3 b=v7".
func (s *Scope) String() string {
	var buf strings.Builder
	for i, name := range s.Names() {
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(&buf, "%s=%s", name, s.Lookup(name))
	}
	return buf.String()
}
