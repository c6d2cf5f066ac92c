package ssa

import "fmt"

// BlockKind describes how a basic block terminates.
type BlockKind int

const (
	BlockInvalid BlockKind = iota // not yet terminated
	BlockPlain                    // unconditional jump to Succs[0]
	BlockIf                       // if Controls[0] then Succs[0] else Succs[1]
	BlockReturn                   // return Controls[0]
)

var blockKindNames = [...]string{
	BlockInvalid: "invalid",
	BlockPlain:   "plain",
	BlockIf:      "if",
	BlockReturn:  "ret",
}

func (k BlockKind) String() string {
	if int(k) < len(blockKindNames) {
		return blockKindNames[k]
	}
	return "unknown"
}

// Block is a basic block: a sequence of non-branching values followed by
// a terminator described by Kind.
type Block struct {
	ID   ID
	Kind BlockKind

	// Controls holds the terminator operands: the branch condition of a
	// BlockIf or the result of a BlockReturn.
	Controls []*Value

	Succs []*Block
	Preds []*Block

	Values []*Value
	Func   *Func

	// Dominator tree, filled in by ComputeDom.
	Idom     *Block
	Dominees []*Block
}

// String returns a short name such as "b3".
func (b *Block) String() string {
	return fmt.Sprintf("b%d", b.ID)
}

// AddSucc adds a successor, updating both Succs and the successor's Preds.
func (b *Block) AddSucc(succ *Block) {
	b.Succs = append(b.Succs, succ)
	succ.Preds = append(succ.Preds, b)
}

// SetControl sets the single terminator operand.
func (b *Block) SetControl(v *Value) {
	for _, c := range b.Controls {
		c.Uses--
	}
	b.Controls = []*Value{v}
	v.Uses++
}

// Terminated reports whether the block has a terminator.
func (b *Block) Terminated() bool {
	return b.Kind != BlockInvalid
}

// PredIndex returns the index of p in b.Preds, or -1.
func (b *Block) PredIndex(p *Block) int {
	for i, x := range b.Preds {
		if x == p {
			return i
		}
	}
	return -1
}
