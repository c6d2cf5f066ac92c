package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *FuncDecl:
		Walk(n.Proto, v)
		Walk(n.Body, v)

	case *VarExpr:
		for _, b := range n.Vars {
			Walk(b, v)
		}
		Walk(n.Body, v)

	case *VarBinding:
		if n.Init != nil {
			Walk(n.Init, v)
		}

	case *Operation:
		Walk(n.X, v)
		if n.Y != nil {
			Walk(n.Y, v)
		}

	case *CallExpr:
		for _, a := range n.Args {
			Walk(a, v)
		}

	case *IfExpr:
		Walk(n.Cond, v)
		Walk(n.Then, v)
		Walk(n.Else, v)

	case *ForExpr:
		Walk(n.Start, v)
		Walk(n.Cond, v)
		if n.Step != nil {
			Walk(n.Step, v)
		}
		Walk(n.Body, v)

	case *Prototype, *NumberLit, *Name:
		// leaves
	}
}
