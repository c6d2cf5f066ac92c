package llvm

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Wolfram70/SimpleLang/internal/ssa"
)

func TestLowerControlFlow(t *testing.T) {
	putchard := ssa.NewFunc("putchard", []string{"c"})
	f := ssa.NewFunc("binary|", []string{"a", "b"})
	b := ssa.NewBuilder(f)
	b.SetInsertPoint(f.NewBlock())
	x := b.Arg(0)
	y := b.Arg(1)
	c := b.FCmpLT(x, y)
	thenBlock, elseBlock, merge := b.NewBlock(), b.NewBlock(), b.NewBlock()
	b.CondBr(c, thenBlock, elseBlock)

	b.SetInsertPoint(thenBlock)
	one := b.ConstFloat(1)
	b.Br(merge)

	b.SetInsertPoint(elseBlock)
	diff := b.FSub(y, b.ConstFloat(0.5))
	b.Br(merge)

	b.SetInsertPoint(merge)
	phi := b.Phi(ssa.Incoming{Value: one, Block: thenBlock}, ssa.Incoming{Value: diff, Block: elseBlock})
	b.Ret(b.Call(putchard, phi))

	want := `define double @"binary|"(double %a, double %b) {
entry:
  %v2 = fcmp ult double %a, %b
  br i1 %v2, label %b1, label %b2

b1:
  br label %b3

b2:
  %v5 = fsub double %b, 0x3FE0000000000000
  br label %b3

b3:
  %v6 = phi double [ 1.0, %b1 ], [ %v5, %b2 ]
  %v7 = call double @putchard(double %v6)
  ret double %v7
}
`
	if d := cmp.Diff(want, Sprint(f)); d != "" {
		t.Errorf("IR mismatch (-want +got):\n%s", d)
	}
}

func TestLowerSlots(t *testing.T) {
	f := ssa.NewFunc("f", []string{"x", "x"})
	b := ssa.NewBuilder(f)
	b.SetInsertPoint(f.NewBlock())
	arg := b.Arg(1)
	slot := b.Alloca("x")
	b.Store(arg, slot)
	v := b.Load(slot)
	b.Ret(b.BoolToFloat(b.FCmpNE(v, b.ConstFloat(-2))))

	want := `define double @f(double %x, double %arg1) {
entry:
  %v1 = alloca double
  store double %arg1, ptr %v1
  %v3 = load double, ptr %v1
  %v5 = fcmp one double %v3, 0xC000000000000000
  %v6 = uitofp i1 %v5 to double
  ret double %v6
}
`
	if d := cmp.Diff(want, Sprint(f)); d != "" {
		t.Errorf("IR mismatch (-want +got):\n%s", d)
	}
}

func TestFprintModule(t *testing.T) {
	m := ssa.NewModule("unit1")
	sin := m.Declare("sin", []string{"x"})
	f := m.Declare("f", []string{"x"})
	b := ssa.NewBuilder(f)
	b.SetInsertPoint(f.NewBlock())
	b.Ret(b.Call(sin, b.Arg(0)))
	m.Declare("unary!", []string{"v"})

	var sb strings.Builder
	if err := FprintModule(&sb, m); err != nil {
		t.Fatal(err)
	}
	want := `; ModuleID = 'unit1'
source_filename = "unit1"

declare double @sin(double)

declare double @"unary!"(double)

define double @f(double %x) {
entry:
  %v1 = call double @sin(double %x)
  ret double %v1
}
`
	if d := cmp.Diff(want, sb.String()); d != "" {
		t.Errorf("module mismatch (-want +got):\n%s", d)
	}
}

func TestGlobalName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"fib", "@fib"},
		{"__anon_expr", "@__anon_expr"},
		{"binary|", `@"binary|"`},
		{`unary"`, `@"unary\22"`},
		{"9lives", `@"9lives"`},
	}
	for _, tt := range tests {
		if got := globalName(tt.in); got != tt.want {
			t.Errorf("globalName(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{42, "42.0"},
		{0.5, "0x3FE0000000000000"},
		{-1, "0xBFF0000000000000"},
	}
	for _, tt := range tests {
		if got := formatFloat(tt.in); got != tt.want {
			t.Errorf("formatFloat(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
