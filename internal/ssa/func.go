package ssa

import "github.com/Wolfram70/SimpleLang/internal/syntax"

// Func is an SSA function. A Func with no blocks is a declaration whose
// body lives in another module or in the host.
type Func struct {
	Name   string
	Params []string

	// Blocks[0] is the entry block.
	Blocks []*Block
	Entry  *Block

	nextValueID ID
	nextBlockID ID
}

// NewFunc returns a declaration of a function with the given parameters.
func NewFunc(name string, params []string) *Func {
	return &Func{Name: name, Params: append([]string(nil), params...)}
}

// IsDecl reports whether f has no body.
func (f *Func) IsDecl() bool { return f.Entry == nil }

// NumParams returns the number of parameters.
func (f *Func) NumParams() int { return len(f.Params) }

// NumValueIDs returns an upper bound on the value IDs in f.
func (f *Func) NumValueIDs() int { return int(f.nextValueID) }

// NewBlock creates an unterminated block. The first block created becomes
// the entry block.
func (f *Func) NewBlock() *Block {
	b := &Block{ID: f.nextBlockID, Func: f}
	f.nextBlockID++
	f.Blocks = append(f.Blocks, b)
	if f.Entry == nil {
		f.Entry = b
	}
	return b
}

func (f *Func) newValue(b *Block, op Op, typ Type, args []*Value) *Value {
	v := &Value{ID: f.nextValueID, Op: op, Type: typ, Block: b}
	f.nextValueID++
	for _, arg := range args {
		v.AddArg(arg)
	}
	return v
}

// NewValue appends a new value to b.
func (f *Func) NewValue(b *Block, op Op, typ Type, args ...*Value) *Value {
	v := f.newValue(b, op, typ, args)
	b.Values = append(b.Values, v)
	return v
}

// NewValuePos is NewValue with a source position.
func (f *Func) NewValuePos(b *Block, op Op, typ Type, pos syntax.Pos, args ...*Value) *Value {
	v := f.NewValue(b, op, typ, args...)
	v.Pos = pos
	return v
}

// NewValueAt inserts a new value into b before index i.
func (f *Func) NewValueAt(b *Block, i int, op Op, typ Type, args ...*Value) *Value {
	v := f.newValue(b, op, typ, args)
	b.Values = append(b.Values, nil)
	copy(b.Values[i+1:], b.Values[i:])
	b.Values[i] = v
	return v
}

// NewValueAtFront inserts a new value at the start of b.
func (f *Func) NewValueAtFront(b *Block, op Op, typ Type, args ...*Value) *Value {
	return f.NewValueAt(b, 0, op, typ, args...)
}

// ReplaceUses redirects every use of old, in values and block controls,
// to new.
func (f *Func) ReplaceUses(old, new *Value) {
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			for i, arg := range v.Args {
				if arg == old {
					v.ReplaceArg(i, new)
				}
			}
		}
		for i, c := range b.Controls {
			if c == old {
				old.Uses--
				b.Controls[i] = new
				new.Uses++
			}
		}
	}
}

// Clear discards the body of f, turning it back into a declaration.
func (f *Func) Clear() {
	f.Blocks = nil
	f.Entry = nil
	f.nextValueID = 0
	f.nextBlockID = 0
}

// NumBlocks returns the number of blocks in the function.
func (f *Func) NumBlocks() int { return len(f.Blocks) }

// NumValues returns the total number of values across all blocks.
func (f *Func) NumValues() int {
	n := 0
	for _, b := range f.Blocks {
		n += len(b.Values)
	}
	return n
}
