package session

import (
	"errors"
	"strings"

	"github.com/Wolfram70/SimpleLang/internal/syntax"
)

// Incomplete reports whether src ends in the middle of a unit, so that
// more input could complete it. It parses a copy of the session's
// operator table and has no effect on the session.
func (s *Session) Incomplete(src string) bool {
	p := syntax.NewParser(s.cfg.Filename, strings.NewReader(src), s.ops.Clone(), nil)
	for {
		var err error
		switch p.Unit() {
		case syntax.UnitEOF:
			return false
		case syntax.UnitSemi:
			p.Skip()
			continue
		case syntax.UnitDef:
			_, err = p.ParseDefinition()
		case syntax.UnitExtern:
			_, err = p.ParseExtern()
		default:
			_, err = p.ParseTopLevelExpr()
		}
		if err == nil {
			continue
		}
		var serr *syntax.SyntaxError
		if errors.As(err, &serr) && serr.AtEOF {
			return true
		}
		p.Skip()
	}
}
