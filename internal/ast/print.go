package ast

import (
	"encoding/json"
	"fmt"
)

// Print produces a deterministic JSON summary of a node for golden
// snapshot tests, omitting instance-specific position detail so the
// same program printed from different source offsets compares equal.
func Print(n Node) string {
	if n == nil {
		return "null"
	}
	data, err := json.MarshalIndent(summarize(n), "", "  ")
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

// PrintProgram is Print for a *Program root.
func PrintProgram(p *Program) string { return Print(p) }

func summarize(n Node) any {
	if n == nil {
		return nil
	}
	m := map[string]any{"tag": n.Base().Tag.String()}
	switch t := n.(type) {
	case *Program:
		m["main"] = summarize(t.Main)
	case *File:
		decls := make([]any, len(t.Decls))
		for i, d := range t.Decls {
			decls[i] = summarize(d)
		}
		m["path"] = t.Path
		m["decls"] = decls
	case *FuncDecl:
		m["name"] = t.Name
		params := make([]any, len(t.Params))
		for i, p := range t.Params {
			params[i] = summarize(p)
		}
		m["params"] = params
		if t.Body != nil {
			m["body"] = summarize(t.Body)
		}
	case *Param:
		m["name"] = t.Name
		m["variadic"] = t.Flags.Has(Variadic)
	case *VarDecl:
		m["name"] = t.Name
		if t.Init != nil {
			m["init"] = summarize(t.Init)
		}
	case *Block:
		stmts := make([]any, len(t.Stmts))
		for i, s := range t.Stmts {
			stmts[i] = summarize(s)
		}
		m["stmts"] = stmts
	case *BinaryExpr:
		m["op"] = t.Op.String()
		m["left"] = summarize(t.Left)
		m["right"] = summarize(t.Right)
	case *Identifier:
		m["name"] = t.Name
	case *IntLiteral:
		m["value"] = t.Text
	case *CallExpr:
		m["callee"] = summarize(t.Callee)
		args := make([]any, len(t.Args))
		for i, a := range t.Args {
			args[i] = summarize(a)
		}
		m["args"] = args
	default:
		m["repr"] = n.String()
	}
	return m
}
</content>
