// Package ssa implements the SSA intermediate representation that
// SimpleLang functions are lowered into and the engine executes.
package ssa

// Type is the type of an SSA value. The language has a single numeric
// type; Bool and Ptr only appear inside lowered code.
type Type uint8

const (
	TypeVoid  Type = iota // no value (Store)
	TypeFloat             // 64-bit float, the language's only type
	TypeBool              // comparison result
	TypePtr               // stack slot holding a TypeFloat
)

var typeNames = [...]string{
	TypeVoid:  "void",
	TypeFloat: "float",
	TypeBool:  "bool",
	TypePtr:   "*float",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// Op represents an SSA operation code.
type Op int

const (
	OpInvalid Op = iota

	OpConstFloat // float constant; AuxFloat = value
	OpArg        // function argument; AuxInt = param index; Aux = param name

	// Float arithmetic
	OpAddF // float + float
	OpSubF // float - float
	OpMulF // float * float

	// Float comparison (ordered)
	OpLtF  // float < float
	OpNeqF // float != float

	OpBoolToFloat // bool → 0.0 or 1.0

	// Memory
	OpAlloca // stack slot for one float; Aux = variable name
	OpLoad   // Args[0] = slot
	OpStore  // Args[0] = slot, Args[1] = value; void

	OpCall // Aux = *Func callee; Args = arguments

	OpPhi  // Args = one per predecessor, in Preds order
	OpCopy // identity

	opCount
)

// OpInfo holds metadata about an SSA operation.
type OpInfo struct {
	Name   string // human-readable name
	IsPure bool   // no side effects; removable when unused
	IsVoid bool   // produces no value
}

var opInfoTable = [opCount]OpInfo{
	OpInvalid: {Name: "Invalid"},

	OpConstFloat: {Name: "ConstFloat", IsPure: true},
	OpArg:        {Name: "Arg", IsPure: true},

	OpAddF: {Name: "AddF", IsPure: true},
	OpSubF: {Name: "SubF", IsPure: true},
	OpMulF: {Name: "MulF", IsPure: true},

	OpLtF:  {Name: "LtF", IsPure: true},
	OpNeqF: {Name: "NeqF", IsPure: true},

	OpBoolToFloat: {Name: "BoolToFloat", IsPure: true},

	OpAlloca: {Name: "Alloca"},
	OpLoad:   {Name: "Load"},
	OpStore:  {Name: "Store", IsVoid: true},

	OpCall: {Name: "Call"},

	OpPhi:  {Name: "Phi", IsPure: true},
	OpCopy: {Name: "Copy", IsPure: true},
}

// String returns the human-readable name of the op.
func (o Op) String() string {
	return o.Info().Name
}

// Info returns the OpInfo for this op.
func (o Op) Info() OpInfo {
	if o >= 0 && o < opCount {
		return opInfoTable[o]
	}
	return OpInfo{Name: "unknown"}
}

// IsPure reports whether the op has no side effects.
func (o Op) IsPure() bool { return o.Info().IsPure }

// IsVoid reports whether the op produces no value.
func (o Op) IsVoid() bool { return o.Info().IsVoid }
