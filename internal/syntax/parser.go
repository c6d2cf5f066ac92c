package syntax

import (
	"io"
	"math"

	"github.com/Wolfram70/SimpleLang/internal/rtabi"
)

// ErrorHandler is called for each reported error.
type ErrorHandler func(pos Pos, msg string)

// SyntaxError represents a syntax error.
type SyntaxError struct {
	Pos Pos
	Msg string

	// AtEOF is set when the error was caused by running out of input,
	// meaning more input could complete the unit.
	AtEOF bool
}

func (e *SyntaxError) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// UnitKind classifies the top-level unit starting at the current token.
type UnitKind int

const (
	UnitEOF    UnitKind = iota // end of input
	UnitSemi                   // a stray ';' between units
	UnitDef                    // def <prototype> <expr>
	UnitExtern                 // extern <prototype>
	UnitExpr                   // a bare expression
)

// Parser performs syntax analysis on SimpleLang source code.
//
// The parser works one top-level unit at a time with a single token of
// lookahead. When a Parse method fails the token stream is left wherever
// the error was found; callers resynchronize with Skip.
type Parser struct {
	scanner *Scanner
	ops     *OpTable

	// Current token info (cached from scanner)
	tok  Token
	name string
	num  float64
	ch   rune
	pos  Pos

	errh ErrorHandler
	err  *SyntaxError // first error of the current unit
}

// NewParser creates a Parser reading from src. Binary operator precedence
// is looked up in and installed into ops.
func NewParser(filename string, src io.Reader, ops *OpTable, errh ErrorHandler) *Parser {
	p := &Parser{
		scanner: NewScanner(filename, src),
		ops:     ops,
		errh:    errh,
	}
	p.next()
	return p
}

// ----------------------------------------------------------------------------
// Token navigation

func (p *Parser) next() {
	p.scanner.Next()
	p.tok = p.scanner.Token()
	p.name = p.scanner.Name()
	p.num = p.scanner.Number()
	p.ch = p.scanner.Char()
	p.pos = p.scanner.Pos()
}

// is reports whether the current token is the character c.
func (p *Parser) is(c rune) bool {
	return p.tok == _Char && p.ch == c
}

// Token returns the current token.
func (p *Parser) Token() Token { return p.tok }

// Pos returns the position of the current token.
func (p *Parser) Pos() Pos { return p.pos }

// Unit classifies the top-level unit at the current token.
func (p *Parser) Unit() UnitKind {
	switch {
	case p.tok == _EOF:
		return UnitEOF
	case p.is(';'):
		return UnitSemi
	case p.tok == _Def:
		return UnitDef
	case p.tok == _Extern:
		return UnitExtern
	}
	return UnitExpr
}

// Skip discards the current token.
func (p *Parser) Skip() {
	if p.tok != _EOF {
		p.next()
	}
}

// ReadErr returns the first error reading the input other than io.EOF.
func (p *Parser) ReadErr() error {
	return p.scanner.Err()
}

// ----------------------------------------------------------------------------
// Error handling

func (p *Parser) syntaxError(msg string) {
	p.syntaxErrorAt(p.pos, msg)
}

// syntaxErrorAt records the first error of the unit and reports it.
// Later errors in the same unit are dropped.
func (p *Parser) syntaxErrorAt(pos Pos, msg string) {
	if p.err != nil {
		return
	}
	p.err = &SyntaxError{Pos: pos, Msg: msg, AtEOF: p.tok == _EOF}
	if p.errh != nil {
		p.errh(pos, msg)
	}
}

// result converts the recorded error into an error value.
func (p *Parser) result() error {
	if p.err == nil {
		return nil
	}
	return p.err
}

// ----------------------------------------------------------------------------
// Top-level units

// ParseDefinition parses: def prototype expr
func (p *Parser) ParseDefinition() (*FuncDecl, error) {
	p.err = nil
	pos := p.pos
	p.next() // def

	proto := p.prototype()
	if proto == nil {
		return nil, p.result()
	}
	body := p.expr()
	if body == nil {
		return nil, p.result()
	}
	fn := &FuncDecl{Proto: proto, Body: body}
	fn.pos = pos
	return fn, nil
}

// ParseExtern parses: extern prototype
func (p *Parser) ParseExtern() (*Prototype, error) {
	p.err = nil
	p.next() // extern

	proto := p.prototype()
	if proto == nil {
		return nil, p.result()
	}
	return proto, nil
}

// ParseTopLevelExpr parses a bare expression and wraps it in an
// anonymous zero-parameter function.
func (p *Parser) ParseTopLevelExpr() (*FuncDecl, error) {
	p.err = nil
	pos := p.pos

	body := p.expr()
	if body == nil {
		return nil, p.result()
	}
	proto := &Prototype{Name: rtabi.AnonExpr}
	proto.pos = pos
	fn := &FuncDecl{Proto: proto, Body: body}
	fn.pos = pos
	return fn, nil
}

// ParseExpr parses a single expression.
func (p *Parser) ParseExpr() (Expr, error) {
	p.err = nil
	x := p.expr()
	if x == nil {
		return nil, p.result()
	}
	return x, nil
}

// ----------------------------------------------------------------------------
// Prototypes

// prototype parses:
//
//	name ( params )
//	unary op ( param )
//	binary op [prec] ( param param )
//
// Parameters may be separated by whitespace or commas. A binary operator's
// precedence is installed as soon as the prototype is accepted, so the
// body that follows may already use it.
func (p *Parser) prototype() *Prototype {
	proto := &Prototype{}
	proto.pos = p.pos

	switch p.tok {
	case _Name:
		proto.Name = p.name
		p.next()

	case _Unary, _Binary:
		kind := UnaryOp
		if p.tok == _Binary {
			kind = BinaryOp
		}
		p.next()
		if p.tok != _Char || !isOperatorChar(p.ch) {
			p.syntaxError("expected operator symbol")
			return nil
		}
		op := p.ch
		p.next()

		proto.Kind = kind
		if kind == UnaryOp {
			proto.Name = rtabi.UnaryName(op)
		} else {
			proto.Name = rtabi.BinaryName(op)
			proto.Prec = DefaultBinaryPrec
			if p.tok == _Number {
				if p.num != math.Trunc(p.num) || p.num < MinPrec || p.num > MaxPrec {
					p.syntaxError("invalid precedence: must be 1..100")
					return nil
				}
				proto.Prec = int(p.num)
				p.next()
			}
		}

	default:
		p.syntaxError("expected function name in prototype")
		return nil
	}

	if !p.is('(') {
		p.syntaxError("expected '(' in prototype")
		return nil
	}
	p.next()

	for p.tok == _Name {
		proto.Params = append(proto.Params, p.name)
		p.next()
		if p.is(',') {
			p.next()
		}
	}
	if !p.is(')') {
		p.syntaxError("expected ')' in prototype")
		return nil
	}
	p.next()

	if proto.Kind != NotOperator && len(proto.Params) != proto.Kind.Arity() {
		p.syntaxErrorAt(proto.pos, "invalid number of operands for operator")
		return nil
	}
	if proto.Kind == BinaryOp {
		p.ops.Set(proto.Operator(), proto.Prec)
	}
	return proto
}

// isOperatorChar reports whether c may name a user-defined operator.
func isOperatorChar(c rune) bool {
	switch c {
	case '(', ')', ',', ';':
		return false
	}
	return c > ' ' && !isLetter(c) && !isDigit(c)
}

// ----------------------------------------------------------------------------
// Expressions
//
// Every expression method returns nil after reporting an error.

func (p *Parser) expr() Expr {
	x := p.unaryExpr()
	if x == nil {
		return nil
	}
	return p.binaryExpr(0, x)
}

// binPrec returns the precedence of the current token as a binary
// operator, or -1.
func (p *Parser) binPrec() int {
	if p.tok != _Char {
		return -1
	}
	return p.ops.Prec(p.ch)
}

// binaryExpr folds operators of precedence at least prec onto x.
// Implements precedence climbing over the dynamic operator table: an
// operator binding tighter than the one just consumed takes the right
// operand first, so equal precedences associate to the left.
func (p *Parser) binaryExpr(prec int, x Expr) Expr {
	for {
		oprec := p.binPrec()
		if oprec < prec {
			return x
		}

		op := &Operation{Op: p.ch, X: x}
		op.pos = p.pos
		p.next()

		y := p.unaryExpr()
		if y == nil {
			return nil
		}
		if oprec < p.binPrec() {
			if y = p.binaryExpr(oprec+1, y); y == nil {
				return nil
			}
		}
		op.Y = y
		x = op
	}
}

// unaryExpr parses a prefix operator application or a primary expression.
// Any operator-like character is accepted here; whether a matching unary
// operator exists is decided during code generation.
func (p *Parser) unaryExpr() Expr {
	if p.tok != _Char || !isOperatorChar(p.ch) {
		return p.primaryExpr()
	}
	op := &Operation{Op: p.ch}
	op.pos = p.pos
	p.next()
	if op.X = p.unaryExpr(); op.X == nil {
		return nil
	}
	return op
}

func (p *Parser) primaryExpr() Expr {
	switch p.tok {
	case _Name:
		return p.nameOrCall()
	case _Number:
		lit := &NumberLit{Value: p.num}
		lit.pos = p.pos
		p.next()
		return lit
	case _If:
		return p.ifExpr()
	case _For:
		return p.forExpr()
	case _Var:
		return p.varExpr()
	}
	if p.is('(') {
		return p.parenExpr()
	}
	p.syntaxError("unknown token when expecting an expression")
	return nil
}

// parenExpr parses ( expr ).
func (p *Parser) parenExpr() Expr {
	p.next()
	x := p.expr()
	if x == nil {
		return nil
	}
	if !p.is(')') {
		p.syntaxError("expected ')'")
		return nil
	}
	p.next()
	return x
}

// nameOrCall parses a variable reference or Callee(args...).
func (p *Parser) nameOrCall() Expr {
	pos, name := p.pos, p.name
	p.next()

	if !p.is('(') {
		n := &Name{Value: name}
		n.pos = pos
		return n
	}
	p.next()

	call := &CallExpr{Callee: name}
	call.pos = pos
	if !p.is(')') {
		for {
			arg := p.expr()
			if arg == nil {
				return nil
			}
			call.Args = append(call.Args, arg)
			if p.is(')') {
				break
			}
			if !p.is(',') {
				p.syntaxError("expected ')' or ',' in argument list")
				return nil
			}
			p.next()
		}
	}
	p.next()
	return call
}

// ifExpr parses: if cond then expr else expr
func (p *Parser) ifExpr() Expr {
	x := &IfExpr{}
	x.pos = p.pos
	p.next()

	if x.Cond = p.expr(); x.Cond == nil {
		return nil
	}
	if p.tok != _Then {
		p.syntaxError("expected 'then'")
		return nil
	}
	p.next()
	if x.Then = p.expr(); x.Then == nil {
		return nil
	}
	if p.tok != _Else {
		p.syntaxError("expected 'else'")
		return nil
	}
	p.next()
	if x.Else = p.expr(); x.Else == nil {
		return nil
	}
	return x
}

// forExpr parses: for name = start when cond [inc step] do body
func (p *Parser) forExpr() Expr {
	x := &ForExpr{}
	x.pos = p.pos
	p.next()

	if p.tok != _Name {
		p.syntaxError("expected identifier after for")
		return nil
	}
	x.Var = p.name
	p.next()

	if !p.is('=') {
		p.syntaxError("expected '=' after for")
		return nil
	}
	p.next()
	if x.Start = p.expr(); x.Start == nil {
		return nil
	}

	if p.tok != _When {
		p.syntaxError("expected 'when' after for start value")
		return nil
	}
	p.next()
	if x.Cond = p.expr(); x.Cond == nil {
		return nil
	}

	if p.tok == _Inc {
		p.next()
		if x.Step = p.expr(); x.Step == nil {
			return nil
		}
	}

	if p.tok != _Do {
		p.syntaxError("expected 'do' after for")
		return nil
	}
	p.next()
	if x.Body = p.expr(); x.Body == nil {
		return nil
	}
	return x
}

// varExpr parses: var name [= init] {, name [= init]} in body
func (p *Parser) varExpr() Expr {
	x := &VarExpr{}
	x.pos = p.pos
	p.next()

	if p.tok != _Name {
		p.syntaxError("expected identifier after var")
		return nil
	}
	for {
		b := &VarBinding{Name: p.name}
		b.pos = p.pos
		p.next()

		if p.is('=') {
			p.next()
			if b.Init = p.expr(); b.Init == nil {
				return nil
			}
		}
		x.Vars = append(x.Vars, b)

		if !p.is(',') {
			break
		}
		p.next()
		if p.tok != _Name {
			p.syntaxError("expected identifier list after var")
			return nil
		}
	}

	if p.tok != _In {
		p.syntaxError("expected 'in' keyword after 'var'")
		return nil
	}
	p.next()
	if x.Body = p.expr(); x.Body == nil {
		return nil
	}
	return x
}
