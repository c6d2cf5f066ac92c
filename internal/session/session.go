// Package session drives incremental compilation and execution of
// SimpleLang source, one top-level unit at a time.
//
// Definitions are compiled and loaded into the engine as they are read.
// A top-level expression is compiled into an anonymous function, loaded
// under its own resource tracker, run, and unloaded again.
package session

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Wolfram70/SimpleLang/internal/codegen"
	"github.com/Wolfram70/SimpleLang/internal/jit"
	"github.com/Wolfram70/SimpleLang/internal/llvm"
	"github.com/Wolfram70/SimpleLang/internal/rtabi"
	"github.com/Wolfram70/SimpleLang/internal/ssa"
	"github.com/Wolfram70/SimpleLang/internal/syntax"
)

// ErrClosed is returned by a Session after Close.
var ErrClosed = errors.New("session: closed")

// Session holds the state accumulated by a stream of top-level units:
// operator precedences, known prototypes and loaded functions.
type Session struct {
	cfg Config

	ops    *syntax.OpTable
	reg    *codegen.Registry
	gen    *codegen.Generator
	engine *jit.Engine

	// The open module. A module is replaced once submitted and never
	// written again.
	mod  *ssa.Module
	nmod int

	errors int
	closed bool
}

// New returns a session with no definitions.
func New(cfg Config) *Session {
	cfg.setDefaults()
	s := &Session{
		cfg: cfg,
		ops: syntax.NewOpTable(),
		reg: codegen.NewRegistry(),
	}
	s.gen = codegen.New(s.ops, s.reg, s.report)
	s.engine = jit.New(jit.Config{
		Optimize:     cfg.Optimize,
		Passes:       cfg.Passes,
		MaxCallDepth: cfg.MaxCallDepth,
		Stdout:       cfg.Out,
	})
	s.newModule()
	return s
}

// Ops returns the operator precedence table.
func (s *Session) Ops() *syntax.OpTable { return s.ops }

// Registry returns the prototype registry.
func (s *Session) Registry() *codegen.Registry { return s.reg }

// Engine returns the execution engine.
func (s *Session) Engine() *jit.Engine { return s.engine }

// Errors returns the number of units that have failed so far.
func (s *Session) Errors() int { return s.errors }

func (s *Session) newModule() {
	s.nmod++
	s.mod = ssa.NewModule(fmt.Sprintf("%s#%d", s.cfg.Filename, s.nmod))
	s.gen.SetModule(s.mod)
}

// report writes a diagnostic.
func (s *Session) report(pos syntax.Pos, msg string) {
	if pos.IsValid() {
		fmt.Fprintf(s.cfg.Err, "%s: %s\n", pos, msg)
	} else {
		fmt.Fprintf(s.cfg.Err, "%s: %s\n", s.cfg.Filename, msg)
	}
}

// Run reads and handles top-level units from r until end of input. A
// failing unit is reported and skipped. Run returns the error of the
// first failing unit, or the read error that stopped it.
func (s *Session) Run(r io.Reader) error {
	if s.closed {
		return ErrClosed
	}
	p := syntax.NewParser(s.cfg.Filename, r, s.ops, s.report)
	var first error
	for {
		var err error
		switch p.Unit() {
		case syntax.UnitEOF:
			if rerr := p.ReadErr(); rerr != nil {
				return rerr
			}
			return first
		case syntax.UnitSemi:
			p.Skip()
			continue
		case syntax.UnitDef:
			err = s.HandleDefinition(p)
		case syntax.UnitExtern:
			err = s.HandleExtern(p)
		default:
			err = s.HandleTopLevelExpr(p)
		}
		if err != nil && first == nil {
			first = err
		}
	}
}

// Eval handles every unit of src.
func (s *Session) Eval(src string) error {
	return s.Run(strings.NewReader(src))
}

// unit tracks one top-level unit so that a failure can undo its effect
// on the session.
type unit struct {
	s   *Session
	ops *syntax.OpTable
	reg *codegen.Registry
}

func (s *Session) begin() *unit {
	return &unit{s: s, ops: s.ops.Clone(), reg: s.reg.Snapshot()}
}

// fail restores the session to its state before the unit and counts the
// failure. If report is set err is written as a diagnostic at pos; errors
// from the parser and code generator have been reported already.
func (u *unit) fail(pos syntax.Pos, err error, report bool) error {
	s := u.s
	s.ops.Restore(u.ops)
	s.reg.Restore(u.reg)
	s.errors++
	if report {
		s.report(pos, err.Error())
	}
	return err
}

// HandleDefinition handles "def proto body" at the parser's current token.
func (s *Session) HandleDefinition(p *syntax.Parser) error {
	u := s.begin()
	fd, err := p.ParseDefinition()
	if err != nil {
		p.Skip()
		return u.fail(p.Pos(), err, false)
	}
	f, err := s.gen.GenFunction(fd)
	if err != nil {
		s.newModule()
		return u.fail(fd.Pos(), err, false)
	}
	s.dump("Read function definition:", f)

	m := s.mod
	s.newModule()
	if err := s.engine.AddModule(m, nil); err != nil {
		return u.fail(fd.Pos(), err, true)
	}
	return nil
}

// HandleExtern handles "extern proto" at the parser's current token. The
// declaration joins the open module; nothing is loaded.
func (s *Session) HandleExtern(p *syntax.Parser) error {
	u := s.begin()
	proto, err := p.ParseExtern()
	if err != nil {
		p.Skip()
		return u.fail(p.Pos(), err, false)
	}
	f, err := s.gen.GenPrototype(proto)
	if err != nil {
		return u.fail(proto.Pos(), err, false)
	}
	s.dump("Read extern:", f)
	return nil
}

// HandleTopLevelExpr handles a bare expression at the parser's current
// token: it is compiled, run once and unloaded, and its value printed.
func (s *Session) HandleTopLevelExpr(p *syntax.Parser) error {
	u := s.begin()
	fd, err := p.ParseTopLevelExpr()
	if err != nil {
		p.Skip()
		return u.fail(p.Pos(), err, false)
	}
	f, err := s.gen.GenFunction(fd)
	if err != nil {
		s.newModule()
		return u.fail(fd.Pos(), err, false)
	}
	s.dump("Read top-level expression:", f)

	m := s.mod
	s.newModule()

	rt := s.engine.NewResourceTracker()
	defer rt.Remove()
	if err := s.engine.AddModule(m, rt); err != nil {
		return u.fail(fd.Pos(), err, true)
	}
	sym, err := s.engine.Lookup(rtabi.AnonExpr)
	if err != nil {
		return u.fail(fd.Pos(), err, true)
	}
	result, err := sym.Call()
	if err != nil {
		return u.fail(fd.Pos(), err, true)
	}
	fmt.Fprintf(s.cfg.Out, "Evaluated to %f\n", result)
	return nil
}

func (s *Session) dump(header string, f *ssa.Func) {
	if w := s.cfg.DumpSSA; w != nil {
		fmt.Fprintln(w, header)
		ssa.Fprint(w, f)
	}
	if w := s.cfg.DumpLL; w != nil {
		fmt.Fprintln(w, header)
		llvm.Fprint(w, f)
	}
}

// Close unloads every function. The session cannot be used afterwards.
func (s *Session) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	return s.engine.DefaultTracker().Remove()
}
