package ssa

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes the SSA representation of a function to w.
//
// Format:
//
//	func name(a, b):
//	  b0: (entry)
//	    v0 = Arg <float> {a}
//	    v1 = Alloca <*float> {a}
//	    Store v1 v0
//	    v2 = Load <float> v1
//	    Return v2
//
// A declaration prints as a single "declare name(a, b)" line.
func Fprint(w io.Writer, f *Func) {
	if f.IsDecl() {
		fmt.Fprintf(w, "declare %s(%s)\n", f.Name, strings.Join(f.Params, ", "))
		return
	}
	fmt.Fprintf(w, "func %s(%s):\n", f.Name, strings.Join(f.Params, ", "))
	for _, b := range f.Blocks {
		fprintBlock(w, b, f)
	}
}

// FprintModule writes every function of m to w.
func FprintModule(w io.Writer, m *Module) {
	fmt.Fprintf(w, "; module %s\n", m.Name)
	for _, f := range m.Funcs {
		Fprint(w, f)
	}
}

func fprintBlock(w io.Writer, b *Block, f *Func) {
	label := ""
	if b == f.Entry {
		label = " (entry)"
	}
	predsStr := ""
	if len(b.Preds) > 0 {
		preds := make([]string, len(b.Preds))
		for i, p := range b.Preds {
			preds[i] = p.String()
		}
		predsStr = " <- " + strings.Join(preds, " ")
	}
	fmt.Fprintf(w, "  %s:%s%s\n", b, label, predsStr)

	for _, v := range b.Values {
		fmt.Fprintf(w, "    %s\n", formatValue(v))
	}
	fmt.Fprintf(w, "    %s\n", formatTerminator(b))
}

func formatValue(v *Value) string {
	var sb strings.Builder

	if v.Op.IsVoid() {
		sb.WriteString(v.Op.String())
	} else {
		fmt.Fprintf(&sb, "v%d = %s <%s>", v.ID, v.Op, v.Type)
	}

	switch v.Op {
	case OpConstFloat:
		fmt.Fprintf(&sb, " [%g]", v.AuxFloat)
	case OpArg:
		fmt.Fprintf(&sb, " [%d]", v.AuxInt)
	}

	switch aux := v.Aux.(type) {
	case nil:
	case *Func:
		fmt.Fprintf(&sb, " {%s}", aux.Name)
	default:
		fmt.Fprintf(&sb, " {%v}", aux)
	}

	for _, arg := range v.Args {
		if arg == nil {
			sb.WriteString(" <nil>")
			continue
		}
		fmt.Fprintf(&sb, " v%d", arg.ID)
	}
	return sb.String()
}

func formatTerminator(b *Block) string {
	switch b.Kind {
	case BlockPlain:
		if len(b.Succs) > 0 {
			return fmt.Sprintf("Plain -> %s", b.Succs[0])
		}
		return "Plain"
	case BlockIf:
		if len(b.Controls) > 0 && len(b.Succs) >= 2 {
			return fmt.Sprintf("If v%d -> %s %s", b.Controls[0].ID, b.Succs[0], b.Succs[1])
		}
		return "If (malformed)"
	case BlockReturn:
		if len(b.Controls) > 0 && b.Controls[0] != nil {
			return fmt.Sprintf("Return v%d", b.Controls[0].ID)
		}
		return "Return"
	}
	return "???"
}

// Sprint returns the SSA representation of a function as a string.
func Sprint(f *Func) string {
	var sb strings.Builder
	Fprint(&sb, f)
	return sb.String()
}
