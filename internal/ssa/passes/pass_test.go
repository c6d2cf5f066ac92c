package passes

import (
	"strings"
	"testing"

	"github.com/Wolfram70/SimpleLang/internal/ssa"
)

// retZero builds func f() { return 0 }.
func retZero() *ssa.Func {
	f := ssa.NewFunc("f", nil)
	b := ssa.NewBuilder(f)
	b.SetInsertPoint(b.NewBlock())
	b.Ret(b.ConstFloat(0))
	return f
}

func TestRunEmpty(t *testing.T) {
	if err := Run(retZero(), nil, Config{}); err != nil {
		t.Fatalf("Run with no passes: %v", err)
	}
}

func TestRunMultiplePasses(t *testing.T) {
	var order []string
	passes := []Pass{
		{Name: "first", Fn: func(fn *ssa.Func) { order = append(order, "first") }},
		{Name: "second", Fn: func(fn *ssa.Func) { order = append(order, "second") }},
	}

	if err := Run(retZero(), passes, Config{Verify: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("pass order = %v, want [first second]", order)
	}
}

func TestRunVerifyCatchesBrokenPass(t *testing.T) {
	breakIt := Pass{Name: "break", Fn: func(fn *ssa.Func) { fn.Entry.Kind = ssa.BlockInvalid }}
	err := Run(retZero(), []Pass{breakIt}, Config{Verify: true})
	if err == nil || !strings.Contains(err.Error(), "verify after break") {
		t.Errorf("Run = %v, want verify-after error", err)
	}
}

func TestRunDump(t *testing.T) {
	var sb strings.Builder
	cfg := Config{DumpBefore: "*", DumpAfter: "dce", DumpFunc: "f", Dump: &sb}
	if err := Run(retZero(), Default(), cfg); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	for _, want := range []string{"--- before mem2reg (f) ---", "--- before dce (f) ---", "--- after dce (f) ---"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "after mem2reg") {
		t.Errorf("dump includes unrequested pass:\n%s", out)
	}

	sb.Reset()
	cfg.DumpFunc = "other"
	if err := Run(retZero(), Default(), cfg); err != nil {
		t.Fatal(err)
	}
	if sb.Len() != 0 {
		t.Errorf("DumpFunc filter ignored:\n%s", sb.String())
	}
}

func TestDeadCode(t *testing.T) {
	f := ssa.NewFunc("f", []string{"x"})
	b := ssa.NewBuilder(f)
	b.SetInsertPoint(b.NewBlock())
	x := b.Arg(0)
	b.FMul(b.FAdd(x, x), x) // unused chain
	callee := ssa.NewFunc("g", nil)
	b.Call(callee) // unused but has effects
	b.Ret(x)

	DeadCode(f)

	var ops []string
	for _, v := range f.Entry.Values {
		ops = append(ops, v.Op.String())
	}
	if got := strings.Join(ops, " "); got != "Arg Call" {
		t.Errorf("values after DCE = %s, want Arg Call", got)
	}
	if x.Uses != 1 {
		t.Errorf("x.Uses = %d, want 1", x.Uses)
	}
}
