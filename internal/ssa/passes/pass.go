// Package passes implements the optimization pipeline the engine runs on
// submitted functions.
package passes

import (
	"fmt"
	"io"
	"os"

	"github.com/Wolfram70/SimpleLang/internal/ssa"
)

// Pass describes a single SSA optimization pass.
type Pass struct {
	Name string
	Fn   func(f *ssa.Func)
}

// Config controls pass execution behavior.
type Config struct {
	DumpBefore string    // dump SSA before this pass ("*" for all)
	DumpAfter  string    // dump SSA after this pass ("*" for all)
	Verify     bool      // verify SSA before and after each pass
	DumpFunc   string    // restrict dumps to this function name
	Dump       io.Writer // dump destination; stderr if nil
}

// Default returns the standard pipeline.
func Default() []Pass {
	return []Pass{
		{Name: "mem2reg", Fn: Mem2Reg},
		{Name: "dce", Fn: DeadCode},
	}
}

// Run executes the given passes on f in order.
func Run(f *ssa.Func, passes []Pass, cfg Config) error {
	w := cfg.Dump
	if w == nil {
		w = os.Stderr
	}
	for _, p := range passes {
		if shouldDump(cfg.DumpBefore, p.Name) && matchFunc(cfg.DumpFunc, f.Name) {
			fmt.Fprintf(w, "--- before %s (%s) ---\n", p.Name, f.Name)
			ssa.Fprint(w, f)
			fmt.Fprintln(w)
		}

		if cfg.Verify {
			if err := ssa.Verify(f); err != nil {
				return fmt.Errorf("verify before %s: %w", p.Name, err)
			}
		}

		p.Fn(f)

		if cfg.Verify {
			if err := ssa.Verify(f); err != nil {
				return fmt.Errorf("verify after %s: %w", p.Name, err)
			}
		}

		if shouldDump(cfg.DumpAfter, p.Name) && matchFunc(cfg.DumpFunc, f.Name) {
			fmt.Fprintf(w, "--- after %s (%s) ---\n", p.Name, f.Name)
			ssa.Fprint(w, f)
			fmt.Fprintln(w)
		}
	}
	return nil
}

func shouldDump(pattern, name string) bool {
	return pattern == "*" || pattern == name
}

func matchFunc(filter, name string) bool {
	return filter == "" || filter == name
}
