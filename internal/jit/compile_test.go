package jit

import (
	"strings"
	"testing"

	"github.com/Wolfram70/SimpleLang/internal/ssa"
)

// swapLoop builds
//
//	a, b = 1, 2
//	for i := 0; i < n; i++ { a, b = b, a }
//	return a*10 + b
//
// whose loop header phis read each other.
func swapLoop() *ssa.Func {
	f := ssa.NewFunc("swap", []string{"n"})
	b := ssa.NewBuilder(f)
	entry, header, body, exit := f.NewBlock(), f.NewBlock(), f.NewBlock(), f.NewBlock()

	b.SetInsertPoint(entry)
	n := b.Arg(0)
	c0, c1, c2 := b.ConstFloat(0), b.ConstFloat(1), b.ConstFloat(2)
	b.Br(header)

	pa := f.NewValue(header, ssa.OpPhi, ssa.TypeFloat)
	pb := f.NewValue(header, ssa.OpPhi, ssa.TypeFloat)
	pi := f.NewValue(header, ssa.OpPhi, ssa.TypeFloat)
	b.SetInsertPoint(header)
	b.CondBr(b.FCmpLT(pi, n), body, exit)

	b.SetInsertPoint(body)
	next := b.FAdd(pi, c1)
	b.Br(header)

	// Preds of header are entry, body.
	pa.AddArg(c1)
	pa.AddArg(pb)
	pb.AddArg(c2)
	pb.AddArg(pa)
	pi.AddArg(c0)
	pi.AddArg(next)

	b.SetInsertPoint(exit)
	b.Ret(b.FAdd(b.FMul(pa, b.ConstFloat(10)), pb))
	return f
}

func TestCompileParallelPhis(t *testing.T) {
	f := swapLoop()
	if err := ssa.Verify(f); err != nil {
		t.Fatalf("Verify: %v\n%s", err, ssa.Sprint(f))
	}
	p, err := compile(f)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		n, want float64
	}{
		{0, 12},
		{1, 21},
		{2, 12},
		{5, 21},
	}
	for _, tt := range tests {
		if got := p.run(&thread{max: 1}, []float64{tt.n}); got != tt.want {
			t.Errorf("swap(%v) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestCompileRejectsNonSlot(t *testing.T) {
	f := ssa.NewFunc("bad", []string{"x"})
	b := ssa.NewBuilder(f)
	b.SetInsertPoint(f.NewBlock())
	b.Ret(b.Load(b.Arg(0)))

	_, err := compile(f)
	if err == nil || !strings.Contains(err.Error(), "not a stack slot") {
		t.Errorf("compile error = %v, want non-slot error", err)
	}
}

func TestCompileDeclaration(t *testing.T) {
	if _, err := compile(ssa.NewFunc("decl", nil)); err == nil {
		t.Error("compile of a declaration succeeded")
	}
}
