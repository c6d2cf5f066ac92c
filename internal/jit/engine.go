// Package jit executes SSA modules in process.
//
// A submitted module is verified, optionally optimized, compiled into
// register programs and linked against everything already loaded. Calls
// to functions that are only declared are linked when first made. Its
// functions then stay callable by name until the resource tracker that
// owns them is removed.
package jit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/Wolfram70/SimpleLang/internal/rtabi"
	"github.com/Wolfram70/SimpleLang/internal/ssa"
	"github.com/Wolfram70/SimpleLang/internal/ssa/passes"
)

var (
	// ErrSymbolNotFound is returned when a call or lookup names a function
	// that is not loaded.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrDuplicateSymbol is returned when a module defines a function that
	// is already loaded.
	ErrDuplicateSymbol = errors.New("duplicate definition of symbol")

	// ErrTrackerRemoved is returned when a removed tracker is used.
	ErrTrackerRemoved = errors.New("resource tracker has been removed")
)

// Config controls the engine.
type Config struct {
	// Optimize runs the default pass pipeline on every submitted function.
	Optimize bool
	Passes   passes.Config

	// MaxCallDepth bounds nested calls; rtabi.DefaultCallDepth if zero.
	MaxCallDepth int

	// Stdout receives the output of host functions; os.Stdout if nil.
	Stdout io.Writer

	// Workers bounds concurrent compilation; GOMAXPROCS if zero.
	Workers int
}

// Engine holds the loaded functions of a session.
type Engine struct {
	cfg Config
	out io.Writer

	mu       sync.Mutex
	syms     map[string]*Symbol // loaded user functions
	host     map[string]*Symbol // resolvable only through a declaration
	def      *ResourceTracker
	trackers int
}

// New returns an engine with nothing loaded.
func New(cfg Config) *Engine {
	if cfg.MaxCallDepth <= 0 {
		cfg.MaxCallDepth = rtabi.DefaultCallDepth
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	e := &Engine{
		cfg:  cfg,
		out:  cfg.Stdout,
		syms: make(map[string]*Symbol),
	}
	if e.out == nil {
		e.out = os.Stdout
	}
	e.installHost()
	e.def = e.NewResourceTracker()
	return e
}

// AddModule loads the functions defined in m under rt, or under the
// default tracker if rt is nil. It blocks until every function is
// compiled and linked. On error nothing from m is loaded.
//
// The engine takes ownership of m; its functions may be rewritten by
// optimization and must not be modified afterwards.
func (e *Engine) AddModule(m *ssa.Module, rt *ResourceTracker) error {
	if rt == nil {
		rt = e.def
	}
	if rt.e != e {
		return fmt.Errorf("jit: resource tracker belongs to another engine")
	}
	if err := ssa.VerifyModule(m); err != nil {
		return fmt.Errorf("jit: invalid module %s: %w", m.Name, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if rt.removed {
		return ErrTrackerRemoved
	}
	defined := m.Defined()
	for _, f := range defined {
		if _, ok := e.syms[f.Name]; ok {
			return fmt.Errorf("jit: %w: %s", ErrDuplicateSymbol, f.Name)
		}
	}

	progs, err := e.compileAll(defined)
	if err != nil {
		return err
	}

	loaded := make(map[string]*Symbol, len(progs))
	for _, p := range progs {
		loaded[p.name] = &Symbol{name: p.name, arity: p.arity, prog: p, rt: rt, maxDepth: e.cfg.MaxCallDepth}
	}
	for _, p := range progs {
		if err := e.link(p, loaded); err != nil {
			return err
		}
	}

	for _, p := range progs {
		sym := loaded[p.name]
		e.syms[p.name] = sym
		rt.syms = append(rt.syms, sym)
	}
	return nil
}

// compileAll optimizes and compiles fs concurrently.
func (e *Engine) compileAll(fs []*ssa.Func) ([]*program, error) {
	workers := e.cfg.Workers
	if e.dumping() {
		// Keep pass dumps of different functions from interleaving.
		workers = 1
	}
	var g errgroup.Group
	g.SetLimit(workers)

	progs := make([]*program, len(fs))
	for i, f := range fs {
		i, f := i, f
		g.Go(func() error {
			if e.cfg.Optimize {
				if err := passes.Run(f, passes.Default(), e.cfg.Passes); err != nil {
					return fmt.Errorf("jit: optimizing %s: %w", f.Name, err)
				}
			}
			p, err := compile(f)
			if err != nil {
				return fmt.Errorf("jit: compiling %s: %w", f.Name, err)
			}
			progs[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return progs, nil
}

func (e *Engine) dumping() bool {
	pc := e.cfg.Passes
	return e.cfg.Optimize && (pc.DumpBefore != "" || pc.DumpAfter != "")
}

// link resolves the call sites of p. A callee is looked up in the module
// being loaded, then among loaded functions, then among host functions.
// A callee found nowhere is declared but not loaded yet; it is resolved
// by name when the call first executes.
func (e *Engine) link(p *program, loaded map[string]*Symbol) error {
	p.engine = e
	p.targets = make([]atomic.Pointer[Symbol], len(p.calls))
	for i, c := range p.calls {
		sym := loaded[c.name]
		if sym == nil {
			sym = e.lookupLocked(c.name)
		}
		if sym == nil {
			continue
		}
		if sym.arity != c.arity {
			return fmt.Errorf("jit: %s calls %s with %d arguments, but it takes %d",
				p.name, c.name, c.arity, sym.arity)
		}
		p.targets[i].Store(sym)
	}
	return nil
}

// resolve links call site i of p at run time.
func (e *Engine) resolve(p *program, i int32) *Symbol {
	c := p.calls[i]
	e.mu.Lock()
	sym := e.lookupLocked(c.name)
	e.mu.Unlock()
	if sym == nil {
		panic(&RuntimeError{
			Func: p.name,
			Msg:  fmt.Sprintf("%v: %s", ErrSymbolNotFound, c.name),
			Err:  ErrSymbolNotFound,
		})
	}
	if sym.arity != c.arity {
		panic(&RuntimeError{
			Func: p.name,
			Msg:  fmt.Sprintf("call of %s with %d arguments, but it takes %d", c.name, c.arity, sym.arity),
		})
	}
	p.targets[i].Store(sym)
	return sym
}

func (e *Engine) lookupLocked(name string) *Symbol {
	if sym := e.syms[name]; sym != nil {
		return sym
	}
	return e.host[name]
}

// Lookup returns the loaded function named name. Host functions are found
// as well.
func (e *Engine) Lookup(name string) (*Symbol, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if sym := e.lookupLocked(name); sym != nil {
		return sym, nil
	}
	return nil, fmt.Errorf("jit: %w: %s", ErrSymbolNotFound, name)
}

// Symbols returns the names of the loaded user functions in sorted order.
func (e *Engine) Symbols() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, 0, len(e.syms))
	for name := range e.syms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
