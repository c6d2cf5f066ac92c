// Package syntax implements lexical and syntactic analysis for SimpleLang.
package syntax

import (
	"fmt"
	"strings"
)

// Token represents the type of a lexical token.
type Token uint

const (
	_EOF Token = iota // end of input

	// Keywords
	_Def
	_Extern
	_If
	_Then
	_Else
	_For
	_In
	_Var
	_Binary
	_Unary
	_When
	_Inc
	_Do

	_Name   // identifier
	_Number // numeric literal
	_Char   // any other single character, including operators and punctuation

	tokenCount
)

var tokenNames = [...]string{
	_EOF: "EOF",

	_Def:    "def",
	_Extern: "extern",
	_If:     "if",
	_Then:   "then",
	_Else:   "else",
	_For:    "for",
	_In:     "in",
	_Var:    "var",
	_Binary: "binary",
	_Unary:  "unary",
	_When:   "when",
	_Inc:    "inc",
	_Do:     "do",

	_Name:   "NAME",
	_Number: "NUMBER",
	_Char:   "CHAR",
}

// String returns the string representation of the token.
func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// IsKeyword reports whether t is a keyword token.
func (t Token) IsKeyword() bool {
	return t >= _Def && t <= _Do
}

// IsEOF reports whether t is the end-of-input token.
func (t Token) IsEOF() bool {
	return t == _EOF
}

// keywords maps lowercase spellings to keyword tokens.
// "define" is accepted as a synonym for "def".
var keywords = map[string]Token{
	"def":    _Def,
	"define": _Def,
	"extern": _Extern,
	"if":     _If,
	"then":   _Then,
	"else":   _Else,
	"for":    _For,
	"in":     _In,
	"var":    _Var,
	"binary": _Binary,
	"unary":  _Unary,
	"when":   _When,
	"inc":    _Inc,
	"do":     _Do,
}

// LookupKeyword returns the keyword token for ident, ignoring case,
// or _Name if ident is not a keyword.
func LookupKeyword(ident string) Token {
	if tok, ok := keywords[strings.ToLower(ident)]; ok {
		return tok
	}
	return _Name
}
