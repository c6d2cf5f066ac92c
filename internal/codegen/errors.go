package codegen

import (
	"fmt"

	"github.com/Wolfram70/SimpleLang/internal/syntax"
)

// Error represents a code generation error.
type Error struct {
	Pos syntax.Pos
	Msg string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// errorf reports an error at pos. Only the first error of a function is
// recorded and passed to the handler; later ones are the fallout of the
// first and are dropped.
func (g *Generator) errorf(pos syntax.Pos, format string, args ...interface{}) {
	if g.err != nil {
		return
	}
	g.err = &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
	if g.errh != nil {
		g.errh(pos, g.err.Msg)
	}
}
