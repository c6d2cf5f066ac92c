package syntax

import "sort"

// Precedence bounds for user-defined binary operators.
const (
	MinPrec           = 1
	MaxPrec           = 100
	DefaultBinaryPrec = 30
)

// OpTable maps binary operator characters to their precedence.
// Higher binds tighter. The table is shared between the parser, which
// installs user operators as their prototypes are parsed, and the code
// generator, which reinstalls them before generating a body.
type OpTable struct {
	prec map[rune]int
}

// NewOpTable returns a table seeded with the built-in operators.
func NewOpTable() *OpTable {
	return &OpTable{prec: map[rune]int{
		':': 1,
		'=': 2,
		'<': 10,
		'+': 20,
		'-': 20,
		'*': 40,
	}}
}

// Prec returns the precedence of op, or -1 if op is not a binary operator.
func (t *OpTable) Prec(op rune) int {
	if p, ok := t.prec[op]; ok && p > 0 {
		return p
	}
	return -1
}

// Lookup returns the stored precedence of op and whether it is present.
func (t *OpTable) Lookup(op rune) (int, bool) {
	p, ok := t.prec[op]
	return p, ok
}

// Set installs or overwrites the precedence of op.
func (t *OpTable) Set(op rune, prec int) {
	t.prec[op] = prec
}

// Delete removes op from the table.
func (t *OpTable) Delete(op rune) {
	delete(t.prec, op)
}

// Clone returns an independent copy of t.
func (t *OpTable) Clone() *OpTable {
	c := &OpTable{prec: make(map[rune]int, len(t.prec))}
	for op, p := range t.prec {
		c.prec[op] = p
	}
	return c
}

// Restore replaces the contents of t with those of saved.
func (t *OpTable) Restore(saved *OpTable) {
	t.prec = saved.Clone().prec
}

// Ops returns the operators in the table ordered by precedence, then character.
func (t *OpTable) Ops() []rune {
	ops := make([]rune, 0, len(t.prec))
	for op := range t.prec {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool {
		pi, pj := t.prec[ops[i]], t.prec[ops[j]]
		if pi != pj {
			return pi < pj
		}
		return ops[i] < ops[j]
	})
	return ops
}
