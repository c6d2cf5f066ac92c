package rtabi

// LLVM textual IR configuration for printed modules.
const (
	// LLVMTypeNum is the LLVM type of every language value.
	LLVMTypeNum = "double"

	// LLVMTypeBool is the type of comparison results before widening.
	LLVMTypeBool = "i1"

	// LLVMTypePtr is the type of stack slots.
	LLVMTypePtr = "ptr"
)

// DefaultCallDepth bounds nested calls inside the engine.
const DefaultCallDepth = 10000
