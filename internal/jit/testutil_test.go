package jit

import (
	"io"

	"github.com/Wolfram70/SimpleLang/internal/ssa/passes"
)

var passesVerify = passes.Config{Verify: true}

func passesDump(w io.Writer) passes.Config {
	return passes.Config{DumpAfter: "mem2reg", DumpFunc: "f", Dump: w, Verify: true}
}
