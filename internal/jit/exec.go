package jit

import (
	"fmt"
	"sync/atomic"

	"github.com/Wolfram70/SimpleLang/internal/ssa"
)

// Symbol is a callable function: either loaded from a module or provided
// by the host.
type Symbol struct {
	name     string
	arity    int
	prog     *program
	host     func(args []float64) float64
	rt       *ResourceTracker
	maxDepth int

	unloaded atomic.Bool
}

// RuntimeError is a fault raised while executing loaded code.
type RuntimeError struct {
	Func string // function executing or being called
	Msg  string
	Err  error // underlying sentinel, if any
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error in %s: %s", e.Func, e.Msg)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// Name returns the name of the function.
func (s *Symbol) Name() string { return s.name }

// NumParams returns the number of parameters of the function.
func (s *Symbol) NumParams() int { return s.arity }

// IsHost reports whether the function is provided by the host rather
// than loaded from a module.
func (s *Symbol) IsHost() bool { return s.host != nil }

// Call executes the function. A fault inside the call, such as exceeding
// the call depth limit, is returned as a *RuntimeError.
func (s *Symbol) Call(args ...float64) (result float64, err error) {
	if len(args) != s.arity {
		return 0, fmt.Errorf("jit: %s takes %d arguments, got %d", s.name, s.arity, len(args))
	}
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(*RuntimeError)
			if !ok {
				panic(r)
			}
			result, err = 0, rerr
		}
	}()
	t := &thread{max: s.maxDepth}
	return t.call(s, args), nil
}

// thread is the state of one outermost Call.
type thread struct {
	depth int
	max   int
}

func (t *thread) call(s *Symbol, args []float64) float64 {
	if s.unloaded.Load() {
		panic(&RuntimeError{Func: s.name, Msg: "call of unloaded function"})
	}
	if s.host != nil {
		return s.host(args)
	}
	if t.depth >= t.max {
		panic(&RuntimeError{Func: s.name, Msg: fmt.Sprintf("maximum call depth %d exceeded", t.max)})
	}
	t.depth++
	r := s.prog.run(t, args)
	t.depth--
	return r
}

// run executes p. Comparison results are held as 0 or 1.
func (p *program) run(t *thread, args []float64) float64 {
	regs := make([]float64, len(p.consts))
	copy(regs, p.consts)
	slots := make([]float64, p.nslots)
	for _, a := range p.params {
		regs[a.reg] = args[a.index]
	}

	var tmp []float64
	b := &p.blocks[0]
	for {
		for i := range b.code {
			in := &b.code[i]
			switch in.op {
			case ssa.OpAddF:
				regs[in.dst] = regs[in.a] + regs[in.b]
			case ssa.OpSubF:
				regs[in.dst] = regs[in.a] - regs[in.b]
			case ssa.OpMulF:
				regs[in.dst] = regs[in.a] * regs[in.b]
			case ssa.OpLtF:
				// Unordered: true if either operand is NaN.
				regs[in.dst] = boolFloat(!(regs[in.a] >= regs[in.b]))
			case ssa.OpNeqF:
				// Ordered: false if either operand is NaN.
				x, y := regs[in.a], regs[in.b]
				regs[in.dst] = boolFloat(x < y || x > y)
			case ssa.OpCopy:
				regs[in.dst] = regs[in.a]
			case ssa.OpLoad:
				regs[in.dst] = slots[in.a]
			case ssa.OpStore:
				slots[in.a] = regs[in.b]
			case ssa.OpCall:
				argv := make([]float64, len(in.args))
				for j, r := range in.args {
					argv[j] = regs[r]
				}
				callee := p.targets[in.aux].Load()
				if callee == nil {
					callee = p.engine.resolve(p, in.aux)
				}
				regs[in.dst] = t.call(callee, argv)
			}
		}

		var k int
		switch b.kind {
		case ssa.BlockReturn:
			return regs[b.ctrl]
		case ssa.BlockIf:
			if regs[b.ctrl] == 0 {
				k = 1
			}
		}

		// Phis of the successor read their inputs before any is written.
		if moves := b.moves[k]; len(moves) > 0 {
			tmp = tmp[:0]
			for _, m := range moves {
				tmp = append(tmp, regs[m.src])
			}
			for j, m := range moves {
				regs[m.dst] = tmp[j]
			}
		}
		b = &p.blocks[b.succs[k]]
	}
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
