package ssa

// Module is a unit of code submitted to the engine as a whole: the
// functions defined by one top-level unit plus declarations of everything
// they call.
type Module struct {
	Name  string
	Funcs []*Func

	byName map[string]*Func
}

// NewModule returns an empty module.
func NewModule(name string) *Module {
	return &Module{Name: name, byName: make(map[string]*Func)}
}

// Func returns the function named name, or nil.
func (m *Module) Func(name string) *Func {
	return m.byName[name]
}

// Declare returns the function named name, adding a declaration with the
// given parameters if the module has none.
func (m *Module) Declare(name string, params []string) *Func {
	if f := m.byName[name]; f != nil {
		return f
	}
	f := NewFunc(name, params)
	m.byName[name] = f
	m.Funcs = append(m.Funcs, f)
	return f
}

// Remove deletes f from the module.
func (m *Module) Remove(f *Func) {
	if m.byName[f.Name] != f {
		return
	}
	delete(m.byName, f.Name)
	for i, x := range m.Funcs {
		if x == f {
			m.Funcs = append(m.Funcs[:i], m.Funcs[i+1:]...)
			break
		}
	}
}

// Defined returns the functions with bodies, in declaration order.
func (m *Module) Defined() []*Func {
	var fs []*Func
	for _, f := range m.Funcs {
		if !f.IsDecl() {
			fs = append(fs, f)
		}
	}
	return fs
}

// Empty reports whether the module contains no functions.
func (m *Module) Empty() bool {
	return len(m.Funcs) == 0
}
