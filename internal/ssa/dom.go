package ssa

// ReversePostOrder returns the blocks of f reachable from the entry in
// reverse post-order.
func ReversePostOrder(f *Func) []*Block {
	if f.Entry == nil {
		return nil
	}
	visited := make([]bool, f.nextBlockID)
	order := make([]*Block, 0, len(f.Blocks))

	var dfs func(b *Block)
	dfs = func(b *Block) {
		visited[b.ID] = true
		for _, s := range b.Succs {
			if !visited[s.ID] {
				dfs(s)
			}
		}
		order = append(order, b)
	}
	dfs(f.Entry)

	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// ComputeDom fills in Block.Idom and Block.Dominees for the reachable
// blocks of f, using the iterative algorithm of Cooper, Harvey and Kennedy.
func ComputeDom(f *Func) {
	rpo := ReversePostOrder(f)
	for _, b := range f.Blocks {
		b.Idom = nil
		b.Dominees = nil
	}
	if len(rpo) == 0 {
		return
	}

	num := make([]int, f.nextBlockID)
	for i := range num {
		num[i] = -1
	}
	for i, b := range rpo {
		num[b.ID] = i
	}

	intersect := func(x, y *Block) *Block {
		for x != y {
			for num[x.ID] > num[y.ID] {
				x = x.Idom
			}
			for num[y.ID] > num[x.ID] {
				y = y.Idom
			}
		}
		return x
	}

	entry := rpo[0]
	entry.Idom = entry // sentinel until the fixpoint is reached

	for changed := true; changed; {
		changed = false
		for _, b := range rpo[1:] {
			var idom *Block
			for _, p := range b.Preds {
				if p.Idom == nil {
					continue
				}
				if idom == nil {
					idom = p
				} else {
					idom = intersect(p, idom)
				}
			}
			if idom != nil && b.Idom != idom {
				b.Idom = idom
				changed = true
			}
		}
	}

	entry.Idom = nil
	for _, b := range rpo[1:] {
		b.Idom.Dominees = append(b.Idom.Dominees, b)
	}
}

// Dominates reports whether a dominates b. ComputeDom must have been called.
func Dominates(a, b *Block) bool {
	for ; b != nil; b = b.Idom {
		if b == a {
			return true
		}
	}
	return false
}

// ComputeDomFrontier returns the dominance frontier of every block that
// has one. ComputeDom must have been called first.
func ComputeDomFrontier(f *Func) map[*Block][]*Block {
	df := make(map[*Block][]*Block)
	for _, b := range f.Blocks {
		if len(b.Preds) < 2 {
			continue
		}
		for _, p := range b.Preds {
			for runner := p; runner != nil && runner != b.Idom; runner = runner.Idom {
				df[runner] = appendUnique(df[runner], b)
			}
		}
	}
	return df
}

func appendUnique(list []*Block, b *Block) []*Block {
	for _, x := range list {
		if x == b {
			return list
		}
	}
	return append(list, b)
}
