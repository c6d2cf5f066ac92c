package syntax

import (
	"io"
	"strconv"
	"strings"
)

// Scanner performs lexical analysis on SimpleLang source code.
//
// The scanner never fails: unrecognized characters are returned as _Char
// tokens for the parser to accept or reject.
type Scanner struct {
	source

	tok    Token
	name   string  // identifier text, valid when tok == _Name
	num    float64 // value, valid when tok == _Number
	char   rune    // character, valid when tok == _Char
	lit    string  // source text of the token
	tokPos Pos

	litBuf strings.Builder
}

// NewScanner creates a Scanner reading from src. Call Next to load the
// first token.
func NewScanner(filename string, src io.Reader) *Scanner {
	return &Scanner{source: newSource(filename, src)}
}

// Next advances to the next token.
func (s *Scanner) Next() {
redo:
	for isSpace(s.ch) {
		s.nextch()
	}

	s.tokPos = s.pos()

	switch c := s.ch; {
	case c < 0:
		s.tok = _EOF
		s.lit = ""

	case isLetter(c):
		s.scanIdent()

	case isDigit(c), c == '.' && isDigit(s.peek()):
		s.scanNumber()

	case c == '#':
		for s.ch >= 0 && s.ch != '\n' {
			s.nextch()
		}
		goto redo

	default:
		s.tok = _Char
		s.char = c
		s.lit = string(c)
		s.nextch()
	}
}

// Token returns the current token type.
func (s *Scanner) Token() Token { return s.tok }

// Name returns the identifier text of the current _Name token.
func (s *Scanner) Name() string { return s.name }

// Number returns the value of the current _Number token.
func (s *Scanner) Number() float64 { return s.num }

// Char returns the character of the current _Char token.
func (s *Scanner) Char() rune { return s.char }

// Literal returns the source text of the current token.
func (s *Scanner) Literal() string { return s.lit }

// Pos returns the current token's start position.
func (s *Scanner) Pos() Pos { return s.tokPos }

// Err returns the first read error other than io.EOF.
func (s *Scanner) Err() error { return s.source.err }

func (s *Scanner) scanIdent() {
	s.litBuf.Reset()
	for isLetter(s.ch) || isDigit(s.ch) {
		s.litBuf.WriteRune(s.ch)
		s.nextch()
	}
	s.lit = s.litBuf.String()
	s.name = s.lit
	s.tok = LookupKeyword(s.lit)
}

// scanNumber scans a run of digits containing at most one decimal point.
func (s *Scanner) scanNumber() {
	s.litBuf.Reset()
	seenDot := false
	for isDigit(s.ch) || s.ch == '.' && !seenDot {
		if s.ch == '.' {
			seenDot = true
		}
		s.litBuf.WriteRune(s.ch)
		s.nextch()
	}
	s.lit = s.litBuf.String()
	s.tok = _Number

	// The literal is well formed, so the only possible error is a range
	// error, for which ParseFloat yields ±Inf.
	s.num, _ = strconv.ParseFloat(s.lit, 64)
}
