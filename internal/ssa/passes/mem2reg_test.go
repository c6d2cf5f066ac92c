package passes

import (
	"testing"

	"github.com/Wolfram70/SimpleLang/internal/ssa"
)

func countOps(f *ssa.Func, op ssa.Op) int {
	n := 0
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			if v.Op == op {
				n++
			}
		}
	}
	return n
}

func mustVerifyDom(t *testing.T, f *ssa.Func) {
	t.Helper()
	ssa.ComputeDom(f)
	if err := ssa.VerifyDom(f); err != nil {
		t.Fatalf("VerifyDom: %v\n%s", err, ssa.Sprint(f))
	}
}

// TestMem2RegParam promotes the slot created for a parameter:
//
//	def f(x) x + 1
func TestMem2RegParam(t *testing.T) {
	f := ssa.NewFunc("f", []string{"x"})
	b := ssa.NewBuilder(f)
	b.SetInsertPoint(b.NewBlock())
	slot := b.Alloca("x")
	b.Store(b.Arg(0), slot)
	b.Ret(b.FAdd(b.Load(slot), b.ConstFloat(1)))

	Mem2Reg(f)
	DeadCode(f)

	for _, op := range []ssa.Op{ssa.OpAlloca, ssa.OpLoad, ssa.OpStore, ssa.OpPhi} {
		if n := countOps(f, op); n != 0 {
			t.Errorf("%d %s values remain", n, op)
		}
	}
	ret := f.Entry.Controls[0]
	if ret.Op != ssa.OpAddF || ret.Args[0].Op != ssa.OpArg {
		t.Errorf("return value = %s, want AddF of the argument", ret.LongString())
	}
	mustVerifyDom(t, f)
}

// TestMem2RegLoop promotes a loop counter, which needs a phi at the
// loop header:
//
//	for i = 0 when i < n do 0
func TestMem2RegLoop(t *testing.T) {
	f := ssa.NewFunc("loop", []string{"n"})
	b := ssa.NewBuilder(f)
	entry, cond, body, after := b.NewBlock(), b.NewBlock(), b.NewBlock(), b.NewBlock()

	b.SetInsertPoint(entry)
	n := b.Alloca("n")
	b.Store(b.Arg(0), n)
	i := b.Alloca("i")
	b.Store(b.ConstFloat(0), i)
	b.Br(cond)

	b.SetInsertPoint(cond)
	lt := b.FCmpLT(b.Load(i), b.Load(n))
	b.CondBr(b.FCmpNE(b.BoolToFloat(lt), b.ConstFloat(0)), body, after)

	b.SetInsertPoint(body)
	b.Store(b.FAdd(b.Load(i), b.ConstFloat(1)), i)
	b.Br(cond)

	b.SetInsertPoint(after)
	b.Ret(b.ConstFloat(0))

	if err := ssa.Verify(f); err != nil {
		t.Fatalf("input does not verify: %v", err)
	}

	Mem2Reg(f)

	if n := countOps(f, ssa.OpAlloca) + countOps(f, ssa.OpLoad) + countOps(f, ssa.OpStore); n != 0 {
		t.Errorf("%d memory ops remain:\n%s", n, ssa.Sprint(f))
	}
	// n is never reassigned so only i needs a phi.
	if got := countOps(f, ssa.OpPhi); got != 1 {
		t.Fatalf("%d phis, want 1:\n%s", got, ssa.Sprint(f))
	}
	phi := cond.Values[0]
	if phi.Op != ssa.OpPhi {
		t.Fatalf("loop header starts with %s, want Phi", phi.Op)
	}
	if phi.Args[cond.PredIndex(entry)].Op != ssa.OpConstFloat {
		t.Errorf("entry input = %s, want the start constant", phi.Args[0].LongString())
	}
	if phi.Args[cond.PredIndex(body)].Op != ssa.OpAddF {
		t.Errorf("back-edge input = %s, want the increment", phi.Args[1].LongString())
	}
	mustVerifyDom(t, f)
}

// TestMem2RegIfMerge promotes a variable assigned in both arms of an if.
func TestMem2RegIfMerge(t *testing.T) {
	f := ssa.NewFunc("f", []string{"c"})
	b := ssa.NewBuilder(f)
	entry, then, els, merge := b.NewBlock(), b.NewBlock(), b.NewBlock(), b.NewBlock()

	b.SetInsertPoint(entry)
	x := b.Alloca("x")
	b.CondBr(b.FCmpNE(b.Arg(0), b.ConstFloat(0)), then, els)

	b.SetInsertPoint(then)
	b.Store(b.ConstFloat(1), x)
	b.Br(merge)

	b.SetInsertPoint(els)
	b.Store(b.ConstFloat(2), x)
	b.Br(merge)

	b.SetInsertPoint(merge)
	b.Ret(b.Load(x))

	Mem2Reg(f)

	ret := merge.Controls[0]
	if ret.Op != ssa.OpPhi || len(ret.Args) != 2 {
		t.Fatalf("return value = %s, want a two-input phi", ret.LongString())
	}
	if ret.Args[0].AuxFloat != 1 || ret.Args[1].AuxFloat != 2 {
		t.Errorf("phi inputs = %g %g, want 1 2", ret.Args[0].AuxFloat, ret.Args[1].AuxFloat)
	}
	mustVerifyDom(t, f)
}

// TestMem2RegUninitialized reads a slot that was never stored, which
// yields zero.
func TestMem2RegUninitialized(t *testing.T) {
	f := ssa.NewFunc("f", nil)
	b := ssa.NewBuilder(f)
	b.SetInsertPoint(b.NewBlock())
	b.Ret(b.Load(b.Alloca("x")))

	Mem2Reg(f)

	ret := f.Entry.Controls[0]
	if ret.Op != ssa.OpConstFloat || ret.AuxFloat != 0 {
		t.Errorf("return value = %s, want ConstFloat 0", ret.LongString())
	}
	mustVerifyDom(t, f)
}
