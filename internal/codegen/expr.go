package codegen

import (
	"fmt"

	"github.com/Wolfram70/SimpleLang/internal/rtabi"
	"github.com/Wolfram70/SimpleLang/internal/ssa"
	"github.com/Wolfram70/SimpleLang/internal/syntax"
)

// expr lowers an expression and returns its value. It returns nil after
// reporting an error; callers give up on the enclosing function.
func (g *Generator) expr(e syntax.Expr) *ssa.Value {
	if g.err != nil {
		return nil
	}
	g.b.SetPos(e.Pos())

	switch e := e.(type) {
	case *syntax.NumberLit:
		return g.b.ConstFloat(e.Value)
	case *syntax.Name:
		return g.nameExpr(e)
	case *syntax.Operation:
		if e.Y == nil {
			return g.unaryExpr(e)
		}
		return g.binaryExpr(e)
	case *syntax.CallExpr:
		return g.callExpr(e)
	case *syntax.IfExpr:
		return g.ifExpr(e)
	case *syntax.ForExpr:
		return g.forExpr(e)
	case *syntax.VarExpr:
		return g.varExpr(e)
	}
	panic(fmt.Sprintf("codegen: unexpected expression %T", e))
}

func (g *Generator) nameExpr(e *syntax.Name) *ssa.Value {
	slot := g.scope.Lookup(e.Value)
	if slot == nil {
		g.errorf(e.Pos(), "unknown variable name: %s", e.Value)
		return nil
	}
	return g.b.Load(slot)
}

func (g *Generator) unaryExpr(e *syntax.Operation) *ssa.Value {
	x := g.expr(e.X)
	if x == nil {
		return nil
	}
	f := g.lookupFunc(rtabi.UnaryName(e.Op))
	if f == nil || f.NumParams() != 1 {
		g.errorf(e.Pos(), "unknown unary operator: %c", e.Op)
		return nil
	}
	g.b.SetPos(e.Pos())
	return g.b.Call(f, x)
}

func (g *Generator) binaryExpr(e *syntax.Operation) *ssa.Value {
	switch e.Op {
	case '=':
		return g.assign(e)
	case ':':
		if g.expr(e.X) == nil {
			return nil
		}
		return g.expr(e.Y)
	}

	x := g.expr(e.X)
	if x == nil {
		return nil
	}
	y := g.expr(e.Y)
	if y == nil {
		return nil
	}
	g.b.SetPos(e.Pos())

	switch e.Op {
	case '+':
		return g.b.FAdd(x, y)
	case '-':
		return g.b.FSub(x, y)
	case '*':
		return g.b.FMul(x, y)
	case '<':
		return g.b.BoolToFloat(g.b.FCmpLT(x, y))
	}

	f := g.lookupFunc(rtabi.BinaryName(e.Op))
	if f == nil || f.NumParams() != 2 {
		g.errorf(e.Pos(), "binary operator not found: %c", e.Op)
		return nil
	}
	return g.b.Call(f, x, y)
}

// assign lowers x = y. The result is the stored value.
func (g *Generator) assign(e *syntax.Operation) *ssa.Value {
	lhs, ok := e.X.(*syntax.Name)
	if !ok {
		g.errorf(e.Pos(), "left-hand side of '=' must be a variable")
		return nil
	}
	val := g.expr(e.Y)
	if val == nil {
		return nil
	}
	slot := g.scope.Lookup(lhs.Value)
	if slot == nil {
		g.errorf(lhs.Pos(), "unknown variable name: %s", lhs.Value)
		return nil
	}
	g.b.SetPos(e.Pos())
	g.b.Store(val, slot)
	return val
}

func (g *Generator) callExpr(e *syntax.CallExpr) *ssa.Value {
	f := g.lookupFunc(e.Callee)
	if f == nil {
		g.errorf(e.Pos(), "unknown function referenced: %s", e.Callee)
		return nil
	}
	if len(e.Args) != f.NumParams() {
		g.errorf(e.Pos(), "incorrect number of arguments passed to %s: got %d, want %d",
			e.Callee, len(e.Args), f.NumParams())
		return nil
	}

	args := make([]*ssa.Value, len(e.Args))
	for i, arg := range e.Args {
		if args[i] = g.expr(arg); args[i] == nil {
			return nil
		}
	}
	g.b.SetPos(e.Pos())
	return g.b.Call(f, args...)
}

// ifExpr lowers
//
//	cond:  c = cond != 0; if c then -> then else -> else
//	then:  ...; -> merge
//	else:  ...; -> merge
//	merge: phi(then value, else value)
func (g *Generator) ifExpr(e *syntax.IfExpr) *ssa.Value {
	cond := g.expr(e.Cond)
	if cond == nil {
		return nil
	}
	g.b.SetPos(e.Pos())
	c := g.b.FCmpNE(cond, g.b.ConstFloat(0))

	thenBlock := g.b.NewBlock()
	elseBlock := g.b.NewBlock()
	mergeBlock := g.b.NewBlock()
	g.b.CondBr(c, thenBlock, elseBlock)

	g.b.SetInsertPoint(thenBlock)
	thenVal := g.expr(e.Then)
	if thenVal == nil {
		return nil
	}
	thenEnd := g.b.Block()
	g.b.Br(mergeBlock)

	g.b.SetInsertPoint(elseBlock)
	elseVal := g.expr(e.Else)
	if elseVal == nil {
		return nil
	}
	elseEnd := g.b.Block()
	g.b.Br(mergeBlock)

	g.b.SetInsertPoint(mergeBlock)
	g.b.SetPos(e.Pos())
	return g.b.Phi(
		ssa.Incoming{Value: thenVal, Block: thenEnd},
		ssa.Incoming{Value: elseVal, Block: elseEnd},
	)
}

// forExpr lowers
//
//	entry: slot = start; -> cond
//	cond:  if cond != 0 then -> body else -> after
//	body:  body; slot = slot + step; -> cond
//	after: 0
//
// The loop variable is visible in the condition, body and step only.
func (g *Generator) forExpr(e *syntax.ForExpr) *ssa.Value {
	start := g.expr(e.Start)
	if start == nil {
		return nil
	}
	g.b.SetPos(e.Pos())
	slot := g.b.Alloca(e.Var)
	g.b.Store(start, slot)

	condBlock := g.b.NewBlock()
	g.b.Br(condBlock)
	g.b.SetInsertPoint(condBlock)

	g.pushScope()
	defer g.popScope()
	g.scope.Insert(e.Var, slot)

	cond := g.expr(e.Cond)
	if cond == nil {
		return nil
	}
	g.b.SetPos(e.Pos())
	c := g.b.FCmpNE(cond, g.b.ConstFloat(0))
	bodyBlock := g.b.NewBlock()
	afterBlock := g.b.NewBlock()
	g.b.CondBr(c, bodyBlock, afterBlock)

	g.b.SetInsertPoint(bodyBlock)
	if g.expr(e.Body) == nil {
		return nil
	}

	var step *ssa.Value
	if e.Step != nil {
		if step = g.expr(e.Step); step == nil {
			return nil
		}
	} else {
		g.b.SetPos(e.Pos())
		step = g.b.ConstFloat(1)
	}
	g.b.SetPos(e.Pos())
	next := g.b.FAdd(g.b.Load(slot), step)
	g.b.Store(next, slot)
	g.b.Br(condBlock)

	g.b.SetInsertPoint(afterBlock)
	return g.b.ConstFloat(0)
}

// varExpr lowers var a = x, b = y in body. Each initializer sees the
// bindings to its left, but not its own name.
func (g *Generator) varExpr(e *syntax.VarExpr) *ssa.Value {
	g.pushScope()
	defer g.popScope()

	for _, v := range e.Vars {
		var init *ssa.Value
		if v.Init != nil {
			if init = g.expr(v.Init); init == nil {
				return nil
			}
		} else {
			g.b.SetPos(v.Pos())
			init = g.b.ConstFloat(0)
		}
		g.b.SetPos(v.Pos())
		slot := g.b.Alloca(v.Name)
		g.b.Store(init, slot)
		g.scope.Insert(v.Name, slot)
	}
	return g.expr(e.Body)
}
