package jit

import (
	"fmt"
	"sync/atomic"

	"github.com/Wolfram70/SimpleLang/internal/ssa"
)

// A program is a function compiled for the register machine in exec.go.
// Every SSA value owns the register numbered by its ID; constants are
// preloaded and phis are resolved into moves on the incoming edges.
type program struct {
	name   string
	arity  int
	consts []float64 // initial register file
	params []param
	nslots int
	blocks []block

	calls   []callSite
	targets []atomic.Pointer[Symbol] // parallel to calls, filled in by link or on first call
	engine  *Engine
}

type param struct {
	reg   int32
	index int32
}

type callSite struct {
	name  string
	arity int
}

type block struct {
	code  []inst
	kind  ssa.BlockKind
	ctrl  int32
	succs [2]int32
	moves [2][]move // phi moves taken with each successor edge
}

// inst is a single register-machine instruction. For loads and stores a
// is a slot number rather than a register; for calls aux indexes
// program.calls.
type inst struct {
	op   ssa.Op
	dst  int32
	a, b int32
	aux  int32
	args []int32
}

type move struct {
	dst, src int32
}

// compile translates f into a program. Call targets are left unlinked.
func compile(f *ssa.Func) (*program, error) {
	if f.IsDecl() {
		return nil, fmt.Errorf("%s has no body", f.Name)
	}
	p := &program{
		name:   f.Name,
		arity:  f.NumParams(),
		consts: make([]float64, f.NumValueIDs()),
		blocks: make([]block, len(f.Blocks)),
	}

	blockIndex := make(map[*ssa.Block]int32, len(f.Blocks))
	for i, b := range f.Blocks {
		blockIndex[b] = int32(i)
	}
	slots := make(map[*ssa.Value]int32)
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			if v.Op == ssa.OpAlloca {
				slots[v] = int32(p.nslots)
				p.nslots++
			}
		}
	}
	slotOf := func(v, addr *ssa.Value) (int32, error) {
		s, ok := slots[addr]
		if !ok {
			return 0, fmt.Errorf("%s: %s of %s, which is not a stack slot", v, v.Op, addr)
		}
		return s, nil
	}

	for i, b := range f.Blocks {
		cb := &p.blocks[i]
		for _, v := range b.Values {
			reg := int32(v.ID)
			switch v.Op {
			case ssa.OpConstFloat:
				p.consts[reg] = v.AuxFloat
			case ssa.OpArg:
				p.params = append(p.params, param{reg: reg, index: int32(v.AuxInt)})
			case ssa.OpAlloca, ssa.OpPhi:
				// Slots are numbered above; phis are filled by edge moves.
			case ssa.OpAddF, ssa.OpSubF, ssa.OpMulF, ssa.OpLtF, ssa.OpNeqF:
				cb.code = append(cb.code, inst{op: v.Op, dst: reg, a: int32(v.Args[0].ID), b: int32(v.Args[1].ID)})
			case ssa.OpBoolToFloat, ssa.OpCopy:
				cb.code = append(cb.code, inst{op: ssa.OpCopy, dst: reg, a: int32(v.Args[0].ID)})
			case ssa.OpLoad:
				s, err := slotOf(v, v.Args[0])
				if err != nil {
					return nil, err
				}
				cb.code = append(cb.code, inst{op: v.Op, dst: reg, a: s})
			case ssa.OpStore:
				s, err := slotOf(v, v.Args[0])
				if err != nil {
					return nil, err
				}
				cb.code = append(cb.code, inst{op: v.Op, a: s, b: int32(v.Args[1].ID)})
			case ssa.OpCall:
				callee := v.Callee()
				args := make([]int32, len(v.Args))
				for j, arg := range v.Args {
					args[j] = int32(arg.ID)
				}
				cb.code = append(cb.code, inst{op: v.Op, dst: reg, aux: int32(len(p.calls)), args: args})
				p.calls = append(p.calls, callSite{name: callee.Name, arity: callee.NumParams()})
			default:
				return nil, fmt.Errorf("%s: unsupported op %s", v, v.Op)
			}
		}

		cb.kind = b.Kind
		switch b.Kind {
		case ssa.BlockReturn, ssa.BlockIf:
			cb.ctrl = int32(b.Controls[0].ID)
		case ssa.BlockPlain:
		default:
			return nil, fmt.Errorf("%s: block is not terminated", b)
		}
		for j, succ := range b.Succs {
			cb.succs[j] = blockIndex[succ]
			cb.moves[j] = phiMoves(succ, succ.PredIndex(b))
		}
	}
	return p, nil
}

// phiMoves returns the register moves that set the phis of b when it is
// entered from its k-th predecessor.
func phiMoves(b *ssa.Block, k int) []move {
	var moves []move
	for _, v := range b.Values {
		if v.Op != ssa.OpPhi {
			continue
		}
		moves = append(moves, move{dst: int32(v.ID), src: int32(v.Args[k].ID)})
	}
	return moves
}
