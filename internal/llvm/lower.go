// Package llvm prints SSA modules as LLVM textual IR.
//
// The engine executes SSA directly; the printed form is for inspection
// and for feeding the same code to LLVM tools.
package llvm

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/Wolfram70/SimpleLang/internal/rtabi"
	"github.com/Wolfram70/SimpleLang/internal/ssa"
)

type generator struct {
	e emitter

	// Names of the parameters of the function being lowered.
	params []string
}

// FprintModule writes m to w as an LLVM module: declarations first, then
// definitions, each in module order.
func FprintModule(w io.Writer, m *ssa.Module) error {
	g := &generator{e: emitter{w: w}}
	g.e.emit("; ModuleID = '%s'", m.Name)
	g.e.emit("source_filename = \"%s\"", escapeName(m.Name))

	for _, f := range m.Funcs {
		if f.IsDecl() {
			g.e.emitLine()
			g.lowerDecl(f)
		}
	}
	for _, f := range m.Funcs {
		if !f.IsDecl() {
			g.e.emitLine()
			g.lowerFunc(f)
		}
	}
	return g.e.err
}

// Fprint writes a single function to w.
func Fprint(w io.Writer, f *ssa.Func) error {
	g := &generator{e: emitter{w: w}}
	if f.IsDecl() {
		g.lowerDecl(f)
	} else {
		g.lowerFunc(f)
	}
	return g.e.err
}

// Sprint returns the LLVM IR of a single function.
func Sprint(f *ssa.Func) string {
	var sb strings.Builder
	Fprint(&sb, f)
	return sb.String()
}

func (g *generator) lowerDecl(f *ssa.Func) {
	types := make([]string, f.NumParams())
	for i := range types {
		types[i] = rtabi.LLVMTypeNum
	}
	g.e.emit("declare %s %s(%s)", rtabi.LLVMTypeNum, globalName(f.Name), strings.Join(types, ", "))
}

// lowerFunc emits the LLVM IR for a single SSA function.
func (g *generator) lowerFunc(f *ssa.Func) {
	g.params = paramNames(f.Params)
	params := make([]string, len(g.params))
	for i, name := range g.params {
		params[i] = rtabi.LLVMTypeNum + " " + name
	}

	g.e.emit("define %s %s(%s) {", rtabi.LLVMTypeNum, globalName(f.Name), strings.Join(params, ", "))
	for i, b := range f.Blocks {
		if i > 0 {
			g.e.emitLine()
		}
		g.lowerBlock(b)
	}
	g.e.emit("}")
}

// paramNames returns the LLVM names of the parameters. Names repeated in
// the source fall back to positional %argN.
func paramNames(params []string) []string {
	seen := make(map[string]bool, len(params))
	names := make([]string, len(params))
	for i, p := range params {
		if seen[p] || !isBareIdent(p) {
			names[i] = fmt.Sprintf("%%arg%d", i)
			continue
		}
		seen[p] = true
		names[i] = "%" + p
	}
	return names
}

// lowerBlock emits the LLVM IR for a single basic block.
func (g *generator) lowerBlock(b *ssa.Block) {
	g.e.emitLabel(b)
	for _, v := range b.Values {
		g.lowerValue(v)
	}
	g.lowerTerminator(b)
}

// lowerValue emits the LLVM IR for a single SSA value.
func (g *generator) lowerValue(v *ssa.Value) {
	switch v.Op {
	// Constants and arguments are inlined at use sites.
	case ssa.OpConstFloat, ssa.OpArg:
		return

	case ssa.OpAddF:
		g.emitBinOp("fadd", v)
	case ssa.OpSubF:
		g.emitBinOp("fsub", v)
	case ssa.OpMulF:
		g.emitBinOp("fmul", v)

	case ssa.OpLtF:
		g.emitFCmp("ult", v)
	case ssa.OpNeqF:
		g.emitFCmp("one", v)
	case ssa.OpBoolToFloat:
		g.e.emitInst("%s = uitofp %s %s to %s", valueName(v), rtabi.LLVMTypeBool, g.operand(v.Args[0]), rtabi.LLVMTypeNum)

	case ssa.OpAlloca:
		g.e.emitInst("%s = alloca %s", valueName(v), rtabi.LLVMTypeNum)
	case ssa.OpLoad:
		g.e.emitInst("%s = load %s, %s %s", valueName(v), rtabi.LLVMTypeNum, rtabi.LLVMTypePtr, g.operand(v.Args[0]))
	case ssa.OpStore:
		g.e.emitInst("store %s %s, %s %s", rtabi.LLVMTypeNum, g.operand(v.Args[1]), rtabi.LLVMTypePtr, g.operand(v.Args[0]))

	case ssa.OpCall:
		g.lowerCall(v)
	case ssa.OpPhi:
		g.lowerPhi(v)
	case ssa.OpCopy:
		g.e.emitInst("%s = bitcast %s %s to %s", valueName(v), rtabi.LLVMTypeNum, g.operand(v.Args[0]), rtabi.LLVMTypeNum)

	default:
		g.e.emitInst("; unhandled op %s", v.Op)
	}
}

func (g *generator) lowerTerminator(b *ssa.Block) {
	switch b.Kind {
	case ssa.BlockPlain:
		g.e.emitInst("br label %%%s", blockName(b.Succs[0]))
	case ssa.BlockIf:
		g.e.emitInst("br %s %s, label %%%s, label %%%s", rtabi.LLVMTypeBool,
			g.operand(b.Controls[0]), blockName(b.Succs[0]), blockName(b.Succs[1]))
	case ssa.BlockReturn:
		g.e.emitInst("ret %s %s", rtabi.LLVMTypeNum, g.operand(b.Controls[0]))
	default:
		g.e.emitInst("unreachable")
	}
}

func (g *generator) operand(v *ssa.Value) string {
	switch v.Op {
	case ssa.OpConstFloat:
		return formatFloat(v.AuxFloat)
	case ssa.OpArg:
		return g.params[v.AuxInt]
	}
	return valueName(v)
}

func (g *generator) emitBinOp(inst string, v *ssa.Value) {
	g.e.emitInst("%s = %s %s %s, %s", valueName(v), inst, rtabi.LLVMTypeNum, g.operand(v.Args[0]), g.operand(v.Args[1]))
}

func (g *generator) emitFCmp(cond string, v *ssa.Value) {
	g.e.emitInst("%s = fcmp %s %s %s, %s", valueName(v), cond, rtabi.LLVMTypeNum, g.operand(v.Args[0]), g.operand(v.Args[1]))
}

func (g *generator) lowerCall(v *ssa.Value) {
	args := make([]string, len(v.Args))
	for i, arg := range v.Args {
		args[i] = rtabi.LLVMTypeNum + " " + g.operand(arg)
	}
	g.e.emitInst("%s = call %s %s(%s)", valueName(v), rtabi.LLVMTypeNum,
		globalName(v.Callee().Name), strings.Join(args, ", "))
}

func (g *generator) lowerPhi(v *ssa.Value) {
	parts := make([]string, len(v.Args))
	for i, arg := range v.Args {
		pred := v.Block.Preds[i]
		parts[i] = fmt.Sprintf("[ %s, %%%s ]", g.operand(arg), blockName(pred))
	}
	g.e.emitInst("%s = phi %s %s", valueName(v), rtabi.LLVMTypeNum, strings.Join(parts, ", "))
}

// formatFloat returns an exact LLVM double literal.
func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 && !math.Signbit(f) {
		return fmt.Sprintf("%.1f", f)
	}
	return fmt.Sprintf("0x%016X", math.Float64bits(f))
}
