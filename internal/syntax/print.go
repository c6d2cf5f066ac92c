package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Fprint writes an indented tree representation of the AST to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

// child prints a labelled subtree one level deeper.
func (p *printer) child(label string, n Node) {
	p.printf("%s:\n", label)
	p.indent++
	p.print(n)
	p.indent--
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *FuncDecl:
		p.printf("FuncDecl %s\n", n.pos)
		p.indent++
		p.print(n.Proto)
		p.child("Body", n.Body)
		p.indent--

	case *Prototype:
		p.printf("Prototype %s %s(%s)\n", n.pos, n.Name, strings.Join(n.Params, ", "))
		if n.Kind != NotOperator {
			p.indent++
			p.printf("Kind: %s\n", n.Kind)
			if n.Kind == BinaryOp {
				p.printf("Prec: %d\n", n.Prec)
			}
			p.indent--
		}

	case *NumberLit:
		p.printf("NumberLit %s %s\n", n.pos, formatNumber(n.Value))

	case *Name:
		p.printf("Name %s %s\n", n.pos, n.Value)

	case *VarExpr:
		p.printf("VarExpr %s\n", n.pos)
		p.indent++
		for _, b := range n.Vars {
			p.print(b)
		}
		p.child("Body", n.Body)
		p.indent--

	case *VarBinding:
		p.printf("VarBinding %s %s\n", n.pos, n.Name)
		if n.Init != nil {
			p.indent++
			p.child("Init", n.Init)
			p.indent--
		}

	case *Operation:
		if n.Y == nil {
			p.printf("Unary %s %q\n", n.pos, n.Op)
			p.indent++
			p.child("X", n.X)
			p.indent--
			return
		}
		p.printf("Binary %s %q\n", n.pos, n.Op)
		p.indent++
		p.child("X", n.X)
		p.child("Y", n.Y)
		p.indent--

	case *CallExpr:
		p.printf("CallExpr %s %s\n", n.pos, n.Callee)
		p.indent++
		for i, a := range n.Args {
			p.child(fmt.Sprintf("Arg %d", i), a)
		}
		p.indent--

	case *IfExpr:
		p.printf("IfExpr %s\n", n.pos)
		p.indent++
		p.child("Cond", n.Cond)
		p.child("Then", n.Then)
		p.child("Else", n.Else)
		p.indent--

	case *ForExpr:
		p.printf("ForExpr %s %s\n", n.pos, n.Var)
		p.indent++
		p.child("Start", n.Start)
		p.child("Cond", n.Cond)
		if n.Step != nil {
			p.child("Step", n.Step)
		}
		p.child("Body", n.Body)
		p.indent--

	default:
		p.printf("<unknown node %T>\n", node)
	}
}

// String returns a compact one-line rendering of n in prefix form,
// for example "(+ 1 (* 2 3))".
func String(n Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case nil:
		b.WriteString("<nil>")
	case *NumberLit:
		b.WriteString(formatNumber(n.Value))
	case *Name:
		b.WriteString(n.Value)
	case *Operation:
		b.WriteByte('(')
		b.WriteRune(n.Op)
		b.WriteByte(' ')
		writeNode(b, n.X)
		if n.Y != nil {
			b.WriteByte(' ')
			writeNode(b, n.Y)
		}
		b.WriteByte(')')
	case *CallExpr:
		b.WriteString("(call ")
		b.WriteString(n.Callee)
		for _, a := range n.Args {
			b.WriteByte(' ')
			writeNode(b, a)
		}
		b.WriteByte(')')
	case *IfExpr:
		b.WriteString("(if ")
		writeNode(b, n.Cond)
		b.WriteByte(' ')
		writeNode(b, n.Then)
		b.WriteByte(' ')
		writeNode(b, n.Else)
		b.WriteByte(')')
	case *ForExpr:
		fmt.Fprintf(b, "(for %s ", n.Var)
		writeNode(b, n.Start)
		b.WriteByte(' ')
		writeNode(b, n.Cond)
		if n.Step != nil {
			b.WriteByte(' ')
			writeNode(b, n.Step)
		}
		b.WriteByte(' ')
		writeNode(b, n.Body)
		b.WriteByte(')')
	case *VarExpr:
		b.WriteString("(var (")
		for i, v := range n.Vars {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(v.Name)
			if v.Init != nil {
				b.WriteByte('=')
				writeNode(b, v.Init)
			}
		}
		b.WriteString(") ")
		writeNode(b, n.Body)
		b.WriteByte(')')
	case *Prototype:
		fmt.Fprintf(b, "%s(%s)", n.Name, strings.Join(n.Params, " "))
	case *FuncDecl:
		b.WriteString("(def ")
		writeNode(b, n.Proto)
		b.WriteByte(' ')
		writeNode(b, n.Body)
		b.WriteByte(')')
	default:
		fmt.Fprintf(b, "<%T>", node)
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
