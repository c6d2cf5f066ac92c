package session

import "github.com/Wolfram70/SimpleLang/internal/ssa/passes"

var verifyPasses = passes.Config{Verify: true}
