// Package codegen lowers SimpleLang syntax trees to SSA.
//
// A Generator emits into one open module at a time. The session hands it a
// fresh module for every top-level unit; functions defined by earlier units
// are reached by redeclaring their prototypes from the Registry.
package codegen

import (
	"github.com/Wolfram70/SimpleLang/internal/rtabi"
	"github.com/Wolfram70/SimpleLang/internal/ssa"
	"github.com/Wolfram70/SimpleLang/internal/syntax"
)

// Generator holds the state for lowering functions to SSA.
type Generator struct {
	ops  *syntax.OpTable
	reg  *Registry
	errh syntax.ErrorHandler

	mod *ssa.Module

	// Per-function state.
	fn    *ssa.Func
	b     *ssa.Builder
	scope *Scope
	err   *Error
}

// New returns a generator that installs operator precedences into ops and
// records prototypes in reg. errh, if non-nil, is called once for every
// function that fails to generate.
func New(ops *syntax.OpTable, reg *Registry, errh syntax.ErrorHandler) *Generator {
	return &Generator{
		ops:  ops,
		reg:  reg,
		errh: errh,
		mod:  ssa.NewModule("module"),
	}
}

// SetModule directs subsequent generation into m.
func (g *Generator) SetModule(m *ssa.Module) { g.mod = m }

// Module returns the module being generated into.
func (g *Generator) Module() *ssa.Module { return g.mod }

// Registry returns the prototype registry.
func (g *Generator) Registry() *Registry { return g.reg }

// GenPrototype declares the function described by p in the current module
// and records p in the registry.
func (g *Generator) GenPrototype(p *syntax.Prototype) (*ssa.Func, error) {
	g.err = nil
	if !g.checkArity(p) {
		return nil, g.err
	}
	g.reg.Add(p)
	if p.Kind == syntax.BinaryOp {
		g.ops.Set(p.Operator(), p.Prec)
	}
	f := g.mod.Declare(p.Name, p.Params)
	if f.IsDecl() {
		f.Params = append(f.Params[:0], p.Params...)
	}
	return f, nil
}

// GenFunction lowers a function definition into the current module.
//
// On failure the partially built body is discarded: a function that was
// only declared before stays a declaration, and a new one is removed.
func (g *Generator) GenFunction(fd *syntax.FuncDecl) (*ssa.Func, error) {
	g.err = nil
	p := fd.Proto
	if !g.checkArity(p) {
		return nil, g.err
	}

	// Register first so the body can call the function recursively and
	// use a freshly defined operator.
	if p.Name != rtabi.AnonExpr {
		g.reg.Add(p)
	}
	if p.Kind == syntax.BinaryOp {
		g.ops.Set(p.Operator(), p.Prec)
	}

	f := g.mod.Func(p.Name)
	predeclared := f != nil
	if predeclared && !f.IsDecl() {
		g.errorf(p.Pos(), "function cannot be redefined: %s", p.Name)
		return nil, g.err
	}
	if predeclared {
		f.Params = append(f.Params[:0], p.Params...)
	} else {
		f = g.mod.Declare(p.Name, p.Params)
	}

	if g.body(f, fd) {
		if err := ssa.Verify(f); err != nil {
			g.errorf(p.Pos(), "invalid function %s: %v", p.Name, err)
		}
	}
	g.fn, g.b, g.scope = nil, nil, nil

	if g.err != nil {
		if predeclared {
			f.Clear()
		} else {
			g.mod.Remove(f)
		}
		return nil, g.err
	}
	return f, nil
}

// body emits the body of f and reports whether it succeeded.
func (g *Generator) body(f *ssa.Func, fd *syntax.FuncDecl) bool {
	g.fn = f
	g.b = ssa.NewBuilder(f)
	g.b.SetInsertPoint(f.NewBlock())
	g.b.SetPos(fd.Pos())
	g.scope = NewScope(nil)

	// Parameters live in slots so the body may assign to them.
	for i, name := range f.Params {
		arg := g.b.Arg(i)
		slot := g.b.Alloca(name)
		g.b.Store(arg, slot)
		g.scope.Insert(name, slot)
	}

	ret := g.expr(fd.Body)
	if ret == nil {
		return false
	}
	g.b.Ret(ret)
	return true
}

// checkArity rejects a prototype whose parameter count differs from an
// earlier prototype of the same name.
func (g *Generator) checkArity(p *syntax.Prototype) bool {
	old := g.reg.Lookup(p.Name)
	if old == nil || len(old.Params) == len(p.Params) {
		return true
	}
	g.errorf(p.Pos(), "conflicting arity for %s: declared with %d parameters, got %d",
		p.Name, len(old.Params), len(p.Params))
	return false
}

// lookupFunc resolves name to a function of the current module, declaring
// it from the registry if needed. It returns nil if name is unknown.
func (g *Generator) lookupFunc(name string) *ssa.Func {
	if f := g.mod.Func(name); f != nil {
		return f
	}
	if p := g.reg.Lookup(name); p != nil {
		return g.mod.Declare(name, p.Params)
	}
	return nil
}

// pushScope opens a scope nested in the current one.
func (g *Generator) pushScope() {
	g.scope = NewScope(g.scope)
}

// popScope closes the innermost scope, uncovering any bindings it shadowed.
func (g *Generator) popScope() {
	g.scope = g.scope.Parent()
}
