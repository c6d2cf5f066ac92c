package syntax

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of the AST to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(node))
}

func toJSON(node Node) interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *FuncDecl:
		return map[string]interface{}{
			"type":  "FuncDecl",
			"pos":   n.pos.String(),
			"proto": toJSON(n.Proto),
			"body":  toJSON(n.Body),
		}

	case *Prototype:
		m := map[string]interface{}{
			"type":   "Prototype",
			"pos":    n.pos.String(),
			"name":   n.Name,
			"params": n.Params,
			"kind":   n.Kind.String(),
		}
		if n.Kind == BinaryOp {
			m["prec"] = n.Prec
		}
		return m

	case *NumberLit:
		return map[string]interface{}{
			"type":  "NumberLit",
			"pos":   n.pos.String(),
			"value": n.Value,
		}

	case *Name:
		return map[string]interface{}{
			"type":  "Name",
			"pos":   n.pos.String(),
			"value": n.Value,
		}

	case *VarExpr:
		vars := make([]interface{}, len(n.Vars))
		for i, b := range n.Vars {
			vars[i] = toJSON(b)
		}
		return map[string]interface{}{
			"type": "VarExpr",
			"pos":  n.pos.String(),
			"vars": vars,
			"body": toJSON(n.Body),
		}

	case *VarBinding:
		m := map[string]interface{}{
			"type": "VarBinding",
			"pos":  n.pos.String(),
			"name": n.Name,
		}
		if n.Init != nil {
			m["init"] = toJSON(n.Init)
		}
		return m

	case *Operation:
		m := map[string]interface{}{
			"type": "Operation",
			"pos":  n.pos.String(),
			"op":   string(n.Op),
			"x":    toJSON(n.X),
		}
		if n.Y != nil {
			m["y"] = toJSON(n.Y)
		}
		return m

	case *CallExpr:
		args := make([]interface{}, len(n.Args))
		for i, a := range n.Args {
			args[i] = toJSON(a)
		}
		return map[string]interface{}{
			"type":   "CallExpr",
			"pos":    n.pos.String(),
			"callee": n.Callee,
			"args":   args,
		}

	case *IfExpr:
		return map[string]interface{}{
			"type": "IfExpr",
			"pos":  n.pos.String(),
			"cond": toJSON(n.Cond),
			"then": toJSON(n.Then),
			"else": toJSON(n.Else),
		}

	case *ForExpr:
		m := map[string]interface{}{
			"type":  "ForExpr",
			"pos":   n.pos.String(),
			"var":   n.Var,
			"start": toJSON(n.Start),
			"cond":  toJSON(n.Cond),
			"body":  toJSON(n.Body),
		}
		if n.Step != nil {
			m["step"] = toJSON(n.Step)
		}
		return m
	}

	return map[string]interface{}{"type": "Unknown"}
}
