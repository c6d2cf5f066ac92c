package passes

import "github.com/Wolfram70/SimpleLang/internal/ssa"

// Mem2Reg promotes stack slots to SSA registers by inserting phi nodes
// and renaming. Only slots used solely as the address of loads and stores
// are promoted.
func Mem2Reg(f *ssa.Func) {
	ssa.ComputeDom(f)

	allocas := findPromotable(f)
	if len(allocas) == 0 {
		return
	}

	df := ssa.ComputeDomFrontier(f)

	defBlocks := make(map[*ssa.Value][]*ssa.Block, len(allocas))
	for _, a := range allocas {
		defBlocks[a] = findDefBlocks(f, a)
	}

	phiMap := insertPhis(f, allocas, defBlocks, df)
	rename(f, allocas, phiMap)
	cleanup(f)
}

// findPromotable returns the allocas whose every use is Args[0] of a
// load or store.
func findPromotable(f *ssa.Func) []*ssa.Value {
	var all []*ssa.Value
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			if v.Op == ssa.OpAlloca {
				all = append(all, v)
			}
		}
	}

	escapes := make(map[*ssa.Value]bool)
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			for i, arg := range v.Args {
				if arg == nil || arg.Op != ssa.OpAlloca {
					continue
				}
				if (v.Op != ssa.OpLoad && v.Op != ssa.OpStore) || i != 0 {
					escapes[arg] = true
				}
			}
		}
		for _, c := range b.Controls {
			if c.Op == ssa.OpAlloca {
				escapes[c] = true
			}
		}
	}

	var promotable []*ssa.Value
	for _, a := range all {
		if !escapes[a] {
			promotable = append(promotable, a)
		}
	}
	return promotable
}

// findDefBlocks returns the blocks containing stores to alloca.
func findDefBlocks(f *ssa.Func, alloca *ssa.Value) []*ssa.Block {
	var blocks []*ssa.Block
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			if v.Op == ssa.OpStore && v.Args[0] == alloca {
				blocks = append(blocks, b)
				break
			}
		}
	}
	return blocks
}

// insertPhis places phi nodes at the iterated dominance frontier of each
// alloca's stores. Returns phiMap[block][alloca] = phi.
func insertPhis(
	f *ssa.Func,
	allocas []*ssa.Value,
	defBlocks map[*ssa.Value][]*ssa.Block,
	df map[*ssa.Block][]*ssa.Block,
) map[*ssa.Block]map[*ssa.Value]*ssa.Value {
	phiMap := make(map[*ssa.Block]map[*ssa.Value]*ssa.Value)

	for _, alloca := range allocas {
		for _, b := range iteratedDF(defBlocks[alloca], df) {
			phi := f.NewValueAtFront(b, ssa.OpPhi, ssa.TypeFloat)
			phi.Pos = alloca.Pos
			phi.Args = make([]*ssa.Value, len(b.Preds))

			if phiMap[b] == nil {
				phiMap[b] = make(map[*ssa.Value]*ssa.Value)
			}
			phiMap[b][alloca] = phi
		}
	}
	return phiMap
}

// iteratedDF computes the iterated dominance frontier of defs.
func iteratedDF(defs []*ssa.Block, df map[*ssa.Block][]*ssa.Block) []*ssa.Block {
	var result []*ssa.Block
	inResult := make(map[*ssa.Block]bool)
	worklist := append([]*ssa.Block(nil), defs...)
	queued := make(map[*ssa.Block]bool, len(defs))
	for _, b := range defs {
		queued[b] = true
	}

	for len(worklist) > 0 {
		b := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		for _, d := range df[b] {
			if inResult[d] {
				continue
			}
			inResult[d] = true
			result = append(result, d)
			if !queued[d] {
				queued[d] = true
				worklist = append(worklist, d)
			}
		}
	}
	return result
}

// rename walks the dominator tree in preorder, tracking the reaching
// definition of each alloca and filling in phi arguments.
func rename(f *ssa.Func, allocas []*ssa.Value, phiMap map[*ssa.Block]map[*ssa.Value]*ssa.Value) {
	// A load before any store reads zero.
	zero := f.NewValueAt(f.Entry, 0, ssa.OpConstFloat, ssa.TypeFloat)

	stacks := make(map[*ssa.Value][]*ssa.Value, len(allocas))
	promoted := make(map[*ssa.Value]bool, len(allocas))
	for _, a := range allocas {
		stacks[a] = []*ssa.Value{zero}
		promoted[a] = true
	}

	dead := make(map[*ssa.Value]bool)
	top := func(a *ssa.Value) *ssa.Value {
		s := stacks[a]
		return s[len(s)-1]
	}

	var visit func(b *ssa.Block)
	visit = func(b *ssa.Block) {
		pushed := make(map[*ssa.Value]int)

		for alloca, phi := range phiMap[b] {
			stacks[alloca] = append(stacks[alloca], phi)
			pushed[alloca]++
		}

		for _, v := range b.Values {
			if len(v.Args) == 0 || !promoted[v.Args[0]] {
				continue
			}
			alloca := v.Args[0]
			switch v.Op {
			case ssa.OpLoad:
				f.ReplaceUses(v, top(alloca))
				dead[v] = true
			case ssa.OpStore:
				stacks[alloca] = append(stacks[alloca], v.Args[1])
				pushed[alloca]++
				dead[v] = true
			}
		}

		for _, s := range b.Succs {
			pm := phiMap[s]
			if pm == nil {
				continue
			}
			i := s.PredIndex(b)
			for alloca, phi := range pm {
				phi.ReplaceArg(i, top(alloca))
			}
		}

		for _, child := range b.Dominees {
			visit(child)
		}

		for alloca, n := range pushed {
			stacks[alloca] = stacks[alloca][:len(stacks[alloca])-n]
		}
	}
	visit(f.Entry)

	// Phi inputs from unreachable predecessors were never visited.
	for _, pm := range phiMap {
		for _, phi := range pm {
			for i, arg := range phi.Args {
				if arg == nil {
					phi.ReplaceArg(i, zero)
				}
			}
		}
	}

	removeDead(f, dead, promoted)
}

// removeDead removes the promoted loads, stores and allocas.
func removeDead(f *ssa.Func, dead, promoted map[*ssa.Value]bool) {
	for _, b := range f.Blocks {
		var live []*ssa.Value
		for _, v := range b.Values {
			if dead[v] {
				for _, arg := range v.Args {
					arg.Uses--
				}
				continue
			}
			live = append(live, v)
		}
		b.Values = live
	}

	for _, b := range f.Blocks {
		var live []*ssa.Value
		for _, v := range b.Values {
			if promoted[v] && v.Uses == 0 {
				continue
			}
			live = append(live, v)
		}
		b.Values = live
	}
}

// cleanup replaces trivial phis (all args the same value or the phi
// itself) with that value until none remain.
func cleanup(f *ssa.Func) {
	for changed := true; changed; {
		changed = false
		for _, b := range f.Blocks {
			for _, v := range b.Values {
				if v.Op != ssa.OpPhi {
					continue
				}
				if same := trivialPhi(v); same != nil {
					f.ReplaceUses(v, same)
					for i := range v.Args {
						v.ReplaceArg(i, nil)
					}
					v.Op = ssa.OpInvalid
					changed = true
				}
			}
		}
		if !changed {
			return
		}
		for _, b := range f.Blocks {
			live := b.Values[:0]
			for _, v := range b.Values {
				if v.Op != ssa.OpInvalid {
					live = append(live, v)
				}
			}
			b.Values = live
		}
	}
}

// trivialPhi returns the single value other than phi itself that phi
// merges, or nil if it merges several.
func trivialPhi(phi *ssa.Value) *ssa.Value {
	var unique *ssa.Value
	for _, arg := range phi.Args {
		if arg == nil || arg == phi {
			continue
		}
		if unique == nil {
			unique = arg
		} else if arg != unique {
			return nil
		}
	}
	return unique
}
