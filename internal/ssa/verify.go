package ssa

import (
	"fmt"
	"strings"
)

// Verify checks the structural integrity of f.
// It returns an error describing all violations found, or nil if valid.
func Verify(f *Func) error {
	var errs []string
	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if f.Entry == nil || len(f.Blocks) == 0 {
		add("func %s: no body", f.Name)
		return combineErrors(errs)
	}
	if f.Blocks[0] != f.Entry {
		add("func %s: Blocks[0] is not the entry block", f.Name)
	}
	if len(f.Entry.Preds) != 0 {
		add("func %s: entry block %s has %d predecessors, want 0",
			f.Name, f.Entry, len(f.Entry.Preds))
	}

	blockSet := make(map[*Block]bool, len(f.Blocks))
	for _, b := range f.Blocks {
		blockSet[b] = true
	}
	valueSet := make(map[*Value]bool)

	for _, b := range f.Blocks {
		if b.Func != f {
			add("func %s, %s: block Func pointer mismatch", f.Name, b)
		}

		seenNonPhi := false
		for _, v := range b.Values {
			valueSet[v] = true

			if v.Block != b {
				add("func %s, %s, %s: value Block pointer is %s, want %s",
					f.Name, b, v, v.Block, b)
			}
			if v.Op.IsVoid() != (v.Type == TypeVoid) {
				add("func %s, %s, %s (%s): type %s does not match op", f.Name, b, v, v.Op, v.Type)
			}
			for i, arg := range v.Args {
				if arg == nil {
					add("func %s, %s, %s: arg[%d] is nil", f.Name, b, v, i)
				}
			}

			switch v.Op {
			case OpPhi:
				if seenNonPhi {
					add("func %s, %s, %s: phi after non-phi value", f.Name, b, v)
				}
				if len(v.Args) != len(b.Preds) {
					add("func %s, %s, %s: phi has %d args but block has %d preds",
						f.Name, b, v, len(v.Args), len(b.Preds))
				}
			case OpArg:
				if v.AuxInt < 0 || int(v.AuxInt) >= f.NumParams() {
					add("func %s, %s, %s: arg index %d out of range", f.Name, b, v, v.AuxInt)
				}
			case OpLoad, OpStore:
				if len(v.Args) == 0 || v.Args[0] == nil || v.Args[0].Type != TypePtr {
					add("func %s, %s, %s: %s of non-slot", f.Name, b, v, v.Op)
				}
			case OpCall:
				callee := v.Callee()
				if callee == nil {
					add("func %s, %s, %s: call has no callee", f.Name, b, v)
				} else if len(v.Args) != callee.NumParams() {
					add("func %s, %s, %s: call of %s with %d args, want %d",
						f.Name, b, v, callee.Name, len(v.Args), callee.NumParams())
				}
			}
			if v.Op != OpPhi {
				seenNonPhi = true
			}
		}

		switch b.Kind {
		case BlockInvalid:
			add("func %s, %s: block is not terminated", f.Name, b)
		case BlockPlain:
			if len(b.Succs) != 1 {
				add("func %s, %s: plain block has %d succs, want 1", f.Name, b, len(b.Succs))
			}
		case BlockIf:
			if len(b.Controls) != 1 || b.Controls[0].Type != TypeBool {
				add("func %s, %s: if block needs one bool control", f.Name, b)
			}
			if len(b.Succs) != 2 {
				add("func %s, %s: if block has %d succs, want 2", f.Name, b, len(b.Succs))
			}
		case BlockReturn:
			if len(b.Succs) != 0 {
				add("func %s, %s: return block has %d succs, want 0", f.Name, b, len(b.Succs))
			}
			if len(b.Controls) != 1 || b.Controls[0].Type != TypeFloat {
				add("func %s, %s: return block needs one float control", f.Name, b)
			}
		}

		for _, succ := range b.Succs {
			if !blockSet[succ] {
				add("func %s, %s: successor %s not in function", f.Name, b, succ)
			} else if !containsBlock(succ.Preds, b) {
				add("func %s, %s: successor %s does not have %s as predecessor", f.Name, b, succ, b)
			}
		}
		for _, pred := range b.Preds {
			if !blockSet[pred] {
				add("func %s, %s: predecessor %s not in function", f.Name, b, pred)
			} else if !containsBlock(pred.Succs, b) {
				add("func %s, %s: predecessor %s does not have %s as successor", f.Name, b, pred, b)
			}
		}
	}

	for _, b := range f.Blocks {
		for _, v := range b.Values {
			for i, arg := range v.Args {
				if arg != nil && !valueSet[arg] {
					add("func %s, %s, %s: arg[%d] (%s) not found in function", f.Name, b, v, i, arg)
				}
			}
		}
		for i, c := range b.Controls {
			if c == nil {
				add("func %s, %s: control[%d] is nil", f.Name, b, i)
			} else if !valueSet[c] {
				add("func %s, %s: control[%d] (%s) not found in function", f.Name, b, i, c)
			}
		}
	}

	return combineErrors(errs)
}

// VerifyModule verifies every function body in m and checks that every
// call targets a function of m.
func VerifyModule(m *Module) error {
	var errs []string
	for _, f := range m.Funcs {
		if m.Func(f.Name) != f {
			errs = append(errs, fmt.Sprintf("module %s: duplicate function %s", m.Name, f.Name))
		}
		if f.IsDecl() {
			continue
		}
		if err := Verify(f); err != nil {
			errs = append(errs, err.Error())
			continue
		}
		for _, b := range f.Blocks {
			for _, v := range b.Values {
				if v.Op == OpCall && m.Func(v.Callee().Name) != v.Callee() {
					errs = append(errs, fmt.Sprintf("func %s, %s, %s: callee %s not in module %s",
						f.Name, b, v, v.Callee().Name, m.Name))
				}
			}
		}
	}
	return combineErrors(errs)
}

func containsBlock(bs []*Block, b *Block) bool {
	for _, x := range bs {
		if x == b {
			return true
		}
	}
	return false
}

// VerifyDom checks dominance properties of f.
// ComputeDom must have been called before this.
func VerifyDom(f *Func) error {
	if err := Verify(f); err != nil {
		return err
	}

	var errs []string
	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	reachable := make(map[*Block]bool)
	for _, b := range ReversePostOrder(f) {
		reachable[b] = true
	}

	if f.Entry.Idom != nil {
		add("func %s: entry %s has non-nil Idom %s", f.Name, f.Entry, f.Entry.Idom)
	}
	for _, b := range f.Blocks {
		if !reachable[b] || b == f.Entry {
			continue
		}
		if b.Idom == nil {
			add("func %s, %s: reachable block has nil Idom", f.Name, b)
		} else if b.Idom == b {
			add("func %s, %s: block is its own Idom", f.Name, b)
		}
	}

	index := make(map[*Value]int)
	for _, b := range f.Blocks {
		for i, v := range b.Values {
			index[v] = i
		}
	}

	// A non-phi use must be dominated by its definition; a phi argument
	// must dominate the matching predecessor.
	for _, b := range f.Blocks {
		if !reachable[b] {
			continue
		}
		for _, v := range b.Values {
			for i, arg := range v.Args {
				if arg == nil {
					continue
				}
				if v.Op == OpPhi {
					if i < len(b.Preds) && !Dominates(arg.Block, b.Preds[i]) {
						add("func %s, %s, %s: phi arg[%d] %s defined in %s which does not dominate pred %s",
							f.Name, b, v, i, arg, arg.Block, b.Preds[i])
					}
					continue
				}
				if arg.Block == b {
					if index[arg] >= index[v] {
						add("func %s, %s, %s: arg[%d] %s used before definition", f.Name, b, v, i, arg)
					}
				} else if !Dominates(arg.Block, b) {
					add("func %s, %s, %s: arg[%d] %s defined in %s which does not dominate %s",
						f.Name, b, v, i, arg, arg.Block, b)
				}
			}
		}
		for i, c := range b.Controls {
			if c != nil && c.Block != b && !Dominates(c.Block, b) {
				add("func %s, %s: control[%d] %s defined in %s which does not dominate %s",
					f.Name, b, i, c, c.Block, b)
			}
		}
	}

	return combineErrors(errs)
}

func combineErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("SSA verification failed:\n  %s", strings.Join(errs, "\n  "))
}
