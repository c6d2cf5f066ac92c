package ssa

import (
	"fmt"

	"github.com/Wolfram70/SimpleLang/internal/syntax"
)

// ID is a unique identifier for Values and Blocks within a Func.
type ID int32

// Value represents a single SSA computation.
type Value struct {
	ID   ID
	Op   Op
	Type Type

	Args  []*Value
	Block *Block

	AuxInt   int64
	AuxFloat float64
	Aux      interface{} // *Func for OpCall, string name for OpArg and OpAlloca

	// Uses counts references from other values and block controls.
	Uses int32

	Pos syntax.Pos
}

// String returns a short name such as "v5".
func (v *Value) String() string {
	return fmt.Sprintf("v%d", v.ID)
}

// LongString returns the value with its op, type, aux data and args.
func (v *Value) LongString() string {
	return formatValue(v)
}

// AddArg appends arg and increments its use count.
func (v *Value) AddArg(arg *Value) {
	v.Args = append(v.Args, arg)
	arg.Uses++
}

// ReplaceArg replaces argument i, adjusting use counts.
func (v *Value) ReplaceArg(i int, new *Value) {
	if old := v.Args[i]; old != nil {
		old.Uses--
	}
	v.Args[i] = new
	if new != nil {
		new.Uses++
	}
}

// Callee returns the function called by an OpCall value.
func (v *Value) Callee() *Func {
	f, _ := v.Aux.(*Func)
	return f
}

// Name returns the variable name attached to an OpArg or OpAlloca value.
func (v *Value) Name() string {
	s, _ := v.Aux.(string)
	return s
}

// IsPure reports whether this value's op has no side effects.
func (v *Value) IsPure() bool {
	return v.Op.IsPure()
}
