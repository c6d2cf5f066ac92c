package jit

import (
	"fmt"
	"math"

	"github.com/Wolfram70/SimpleLang/internal/rtabi"
)

// installHost defines the host functions. A module reaches them by
// declaring them with extern and calling them like any other function.
func (e *Engine) installHost() {
	impls := map[string]func(args []float64) float64{
		rtabi.FnPutchard: func(args []float64) float64 {
			e.out.Write([]byte{byte(int64(args[0]))})
			return 0
		},
		rtabi.FnPrintd: func(args []float64) float64 {
			fmt.Fprintf(e.out, "%f\n", args[0])
			return 0
		},
		rtabi.FnSin:  unary(math.Sin),
		rtabi.FnCos:  unary(math.Cos),
		rtabi.FnSqrt: unary(math.Sqrt),
		rtabi.FnExp:  unary(math.Exp),
		rtabi.FnLog:  unary(math.Log),
		rtabi.FnFabs: unary(math.Abs),
		rtabi.FnPow: func(args []float64) float64 {
			return math.Pow(args[0], args[1])
		},
	}

	e.host = make(map[string]*Symbol, len(impls))
	for _, sig := range rtabi.HostFunctions() {
		fn, ok := impls[sig.Name]
		if !ok {
			panic("jit: no implementation of host function " + sig.Name)
		}
		e.host[sig.Name] = &Symbol{name: sig.Name, arity: sig.Params, host: fn}
	}
}

func unary(fn func(float64) float64) func(args []float64) float64 {
	return func(args []float64) float64 { return fn(args[0]) }
}
