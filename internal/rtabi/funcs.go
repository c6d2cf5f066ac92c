// Package rtabi defines the names and signatures shared between the
// compiler and the execution engine.
package rtabi

import "strings"

// Reserved function names
const (
	// AnonExpr is the name given to the implicit function wrapping a
	// top-level expression. It cannot be written in source because
	// identifiers start with a letter.
	AnonExpr = "__anon_expr"

	// BinaryPrefix and UnaryPrefix are prepended to an operator character
	// to name the function implementing a user-defined operator.
	BinaryPrefix = "binary"
	UnaryPrefix  = "unary"
)

// BinaryName returns the function name implementing binary operator op.
func BinaryName(op rune) string { return BinaryPrefix + string(op) }

// UnaryName returns the function name implementing unary operator op.
func UnaryName(op rune) string { return UnaryPrefix + string(op) }

// IsOperatorName reports whether name was produced by BinaryName or UnaryName.
func IsOperatorName(name string) bool {
	for _, prefix := range [...]string{BinaryPrefix, UnaryPrefix} {
		if rest, ok := strings.CutPrefix(name, prefix); ok && len([]rune(rest)) == 1 {
			return true
		}
	}
	return false
}

// Host function names. These resolve in the engine once declared with
// extern, the way process symbols do for natively compiled code.
const (
	FnPutchard = "putchard"
	FnPrintd   = "printd"
	FnSin      = "sin"
	FnCos      = "cos"
	FnSqrt     = "sqrt"
	FnExp      = "exp"
	FnLog      = "log"
	FnFabs     = "fabs"
	FnPow      = "pow"
)

// FuncSignature describes a host function for declaration and linking.
type FuncSignature struct {
	Name   string
	Params int // number of double parameters
}

// HostFunctions returns the signatures of all host functions.
func HostFunctions() []FuncSignature {
	return []FuncSignature{
		// I/O
		{Name: FnPutchard, Params: 1},
		{Name: FnPrintd, Params: 1},

		// libm
		{Name: FnSin, Params: 1},
		{Name: FnCos, Params: 1},
		{Name: FnSqrt, Params: 1},
		{Name: FnExp, Params: 1},
		{Name: FnLog, Params: 1},
		{Name: FnFabs, Params: 1},
		{Name: FnPow, Params: 2},
	}
}
