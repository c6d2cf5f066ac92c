package syntax

import (
	"bufio"
	"io"
)

// source is a streaming character reader with position tracking.
// Characters are pulled from the underlying reader on demand, so an
// interactive stream is tokenized as input arrives.
type source struct {
	r   *bufio.Reader
	err error // first non-EOF read error

	filename string
	line     uint32 // line of ch (1-based)
	col      uint32 // column of ch (1-based)

	ch rune // current character, -1 at end of input
}

func newSource(filename string, src io.Reader) source {
	s := source{
		r:        bufio.NewReader(src),
		filename: filename,
		line:     1,
		col:      0, // incremented to 1 by the first nextch
		ch:       -1,
	}
	s.nextch()
	return s
}

// nextch advances to the next character.
//
// (line, col) always refers to s.ch after nextch returns.
func (s *source) nextch() {
	if s.ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	if s.err != nil {
		s.ch = -1
		return
	}
	r, _, err := s.r.ReadRune()
	if err != nil {
		if err != io.EOF {
			s.err = err
		}
		s.ch = -1
		return
	}
	s.ch = r
}

// peek returns the character after s.ch without consuming it, or -1.
func (s *source) peek() rune {
	if s.err != nil {
		return -1
	}
	r, _, err := s.r.ReadRune()
	if err != nil {
		return -1
	}
	_ = s.r.UnreadRune()
	return r
}

func (s *source) pos() Pos {
	return NewPos(s.filename, s.line, s.col)
}

// isLetter reports whether r is an ASCII letter.
func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// isSpace reports whether r is skipped between tokens.
func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '\v' || r == '\f'
}
