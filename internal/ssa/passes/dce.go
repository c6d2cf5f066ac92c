package passes

import "github.com/Wolfram70/SimpleLang/internal/ssa"

// DeadCode removes pure values with no uses, repeating until no more
// values become dead.
func DeadCode(f *ssa.Func) {
	for changed := true; changed; {
		changed = false
		for _, b := range f.Blocks {
			live := b.Values[:0]
			for _, v := range b.Values {
				if v.Uses == 0 && v.IsPure() {
					for _, arg := range v.Args {
						if arg != nil {
							arg.Uses--
						}
					}
					changed = true
					continue
				}
				live = append(live, v)
			}
			for i := len(live); i < len(b.Values); i++ {
				b.Values[i] = nil
			}
			b.Values = live
		}
	}
}
