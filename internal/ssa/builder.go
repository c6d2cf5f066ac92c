package ssa

import (
	"fmt"

	"github.com/Wolfram70/SimpleLang/internal/syntax"
)

// Builder emits values into a function at an insertion point.
// Every constructor stamps the builder's current source position.
type Builder struct {
	f   *Func
	b   *Block
	pos syntax.Pos
}

// NewBuilder returns a builder for f with no insertion point.
func NewBuilder(f *Func) *Builder {
	return &Builder{f: f}
}

// Func returns the function being built.
func (b *Builder) Func() *Func { return b.f }

// Block returns the current insertion block.
func (b *Builder) Block() *Block { return b.b }

// SetInsertPoint directs subsequent values to the end of blk.
func (b *Builder) SetInsertPoint(blk *Block) { b.b = blk }

// SetPos sets the position recorded on subsequent values.
func (b *Builder) SetPos(pos syntax.Pos) { b.pos = pos }

// NewBlock creates a block in the function without moving the insertion point.
func (b *Builder) NewBlock() *Block { return b.f.NewBlock() }

func (b *Builder) emit(op Op, typ Type, args ...*Value) *Value {
	if b.b == nil {
		panic("ssa: no insertion point")
	}
	if b.b.Terminated() {
		panic(fmt.Sprintf("ssa: emitting %s into terminated block %s", op, b.b))
	}
	return b.f.NewValuePos(b.b, op, typ, b.pos, args...)
}

// ConstFloat emits a float constant.
func (b *Builder) ConstFloat(x float64) *Value {
	v := b.emit(OpConstFloat, TypeFloat)
	v.AuxFloat = x
	return v
}

// Arg emits a reference to parameter i.
func (b *Builder) Arg(i int) *Value {
	v := b.emit(OpArg, TypeFloat)
	v.AuxInt = int64(i)
	v.Aux = b.f.Params[i]
	return v
}

// FAdd emits x + y.
func (b *Builder) FAdd(x, y *Value) *Value { return b.emit(OpAddF, TypeFloat, x, y) }

// FSub emits x - y.
func (b *Builder) FSub(x, y *Value) *Value { return b.emit(OpSubF, TypeFloat, x, y) }

// FMul emits x * y.
func (b *Builder) FMul(x, y *Value) *Value { return b.emit(OpMulF, TypeFloat, x, y) }

// FCmpLT emits x < y.
func (b *Builder) FCmpLT(x, y *Value) *Value { return b.emit(OpLtF, TypeBool, x, y) }

// FCmpNE emits x != y.
func (b *Builder) FCmpNE(x, y *Value) *Value { return b.emit(OpNeqF, TypeBool, x, y) }

// BoolToFloat widens a comparison result to 0.0 or 1.0.
func (b *Builder) BoolToFloat(x *Value) *Value { return b.emit(OpBoolToFloat, TypeFloat, x) }

// Alloca creates a stack slot named name. Slots are placed in the entry
// block after any existing arguments and slots, whatever the insertion
// point, so every slot dominates all of its uses.
func (b *Builder) Alloca(name string) *Value {
	entry := b.f.Entry
	i := 0
	for i < len(entry.Values) && (entry.Values[i].Op == OpArg || entry.Values[i].Op == OpAlloca) {
		i++
	}
	v := b.f.NewValueAt(entry, i, OpAlloca, TypePtr)
	v.Aux = name
	v.Pos = b.pos
	return v
}

// Load emits a read of slot.
func (b *Builder) Load(slot *Value) *Value { return b.emit(OpLoad, TypeFloat, slot) }

// Store emits a write of val into slot.
func (b *Builder) Store(val, slot *Value) *Value { return b.emit(OpStore, TypeVoid, slot, val) }

// Call emits a call of callee with args.
func (b *Builder) Call(callee *Func, args ...*Value) *Value {
	v := b.emit(OpCall, TypeFloat, args...)
	v.Aux = callee
	return v
}

// Incoming is one (value, predecessor) pair of a phi.
type Incoming struct {
	Value *Value
	Block *Block
}

// Phi emits a phi at the start of the current block. Every predecessor of
// the block must appear exactly once in in.
func (b *Builder) Phi(in ...Incoming) *Value {
	blk := b.b
	if len(in) != len(blk.Preds) {
		panic(fmt.Sprintf("ssa: phi in %s has %d incoming values for %d preds", blk, len(in), len(blk.Preds)))
	}
	i := 0
	for i < len(blk.Values) && blk.Values[i].Op == OpPhi {
		i++
	}
	phi := b.f.NewValueAt(blk, i, OpPhi, TypeFloat)
	phi.Pos = b.pos
	phi.Args = make([]*Value, len(blk.Preds))
	for _, e := range in {
		j := blk.PredIndex(e.Block)
		if j < 0 {
			panic(fmt.Sprintf("ssa: phi incoming block %s is not a predecessor of %s", e.Block, blk))
		}
		phi.ReplaceArg(j, e.Value)
	}
	return phi
}

// Br terminates the current block with a jump to target.
func (b *Builder) Br(target *Block) {
	b.terminate(BlockPlain)
	b.b.AddSucc(target)
}

// CondBr terminates the current block with a branch on cond.
func (b *Builder) CondBr(cond *Value, then, els *Block) {
	b.terminate(BlockIf)
	b.b.SetControl(cond)
	b.b.AddSucc(then)
	b.b.AddSucc(els)
}

// Ret terminates the current block, returning v.
func (b *Builder) Ret(v *Value) {
	b.terminate(BlockReturn)
	b.b.SetControl(v)
}

func (b *Builder) terminate(kind BlockKind) {
	if b.b.Terminated() {
		panic(fmt.Sprintf("ssa: block %s already terminated", b.b))
	}
	b.b.Kind = kind
}
