package session

import (
	"io"
	"os"

	"github.com/Wolfram70/SimpleLang/internal/ssa/passes"
)

// Config configures a Session. The zero value is usable.
type Config struct {
	// Filename names the input in diagnostics; "<stdin>" if empty.
	Filename string

	// Out receives results and the output of host functions; os.Stdout
	// if nil. Err receives diagnostics; os.Stderr if nil.
	Out io.Writer
	Err io.Writer

	// Optimize promotes stack slots to registers before execution.
	Optimize bool
	Passes   passes.Config

	// DumpSSA and DumpLL, if set, receive every function as it is read,
	// as SSA and as LLVM IR.
	DumpSSA io.Writer
	DumpLL  io.Writer

	// MaxCallDepth bounds nested calls at run time; the engine default
	// if zero.
	MaxCallDepth int
}

func (c *Config) setDefaults() {
	if c.Filename == "" {
		c.Filename = "<stdin>"
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}
	if c.Err == nil {
		c.Err = os.Stderr
	}
}
