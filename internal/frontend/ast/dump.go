package ast

import (
	"strings"
)

// Dump renders the tree below n as indented text, one node per line.
func Dump(n Node) string {
	var b strings.Builder
	dump(&b, "", n, 0)
	return b.String()
}

func dump(b *strings.Builder, label string, n Node, depth int) {
	if IsNil(n) {
		return
	}
	b.WriteString(strings.Repeat("  ", depth))
	if label != "" {
		b.WriteString(label + ": ")
	}
	b.WriteString(n.String())
	b.WriteByte('\n')
	for _, child := range Children(n) {
		dump(b, child.Label, child.Node, depth+1)
	}
}

// ToMap converts the tree below n into nested maps and slices that encode
// cleanly as YAML or JSON. It returns nil for a nil node.
func ToMap(n Node) map[string]interface{} {
	if IsNil(n) {
		return nil
	}
	m := map[string]interface{}{
		"kind": n.Kind().String(),
		"line": n.Position().Line,
	}
	put := func(key string, child Node) {
		if !IsNil(child) {
			m[key] = ToMap(child)
		}
	}

	switch n := n.(type) {
	case *Program:
		m["body"] = listToMaps(n.Body)
	case *Block:
		m["body"] = listToMaps(n.Body)
	case *GeneralStatement:
		m["statement"] = n.Statement
	case *CppNode:
		m["code"] = stmt(n.Code)
	case *VariableDeclaration:
		m["data_type"] = n.DataType
		m["declaration_type"] = n.DeclarationType.String()
		m["identifier"] = stmt(n.Identifier)
		put("initializer", n.Initializer)
	case *FunctionDeclaration:
		m["memoize"] = n.IsMemoize
		if n.Type != nil {
			m["type"] = n.Type.Statement
		}
		m["name"] = stmt(n.Name)
		m["arguments"] = argumentsToMaps(n.Arguments)
		put("block", n.Block)
	case *ForLoop:
		m["id_type"] = n.IDType
		m["identifier"] = stmt(n.Identifier)
		m["start"] = stmt(n.Start)
		m["end"] = stmt(n.End)
		if n.Step != nil {
			m["step"] = n.Step.Statement
		}
		if n.Operation != nil {
			m["operation"] = n.Operation.Statement
		}
		put("block", n.Block)
	case *RangedLoop:
		m["id_type"] = n.IDType
		m["identifier"] = stmt(n.Identifier)
		m["object"] = stmt(n.Object)
		if n.Operation != nil {
			m["operation"] = n.Operation.Statement
		}
		put("block", n.Block)
	case *WhileLoop:
		m["condition"] = stmt(n.Condition)
		put("block", n.Block)
	case *InputOutput:
		m["direction"] = n.Direction.String()
		operands := make([]string, len(n.Operands))
		for i, op := range n.Operands {
			operands[i] = stmt(op)
		}
		m["operands"] = operands
	case *ClassDeclaration:
		m["declaration"] = stmt(n.Declaration)
		put("block", n.Block)
	case *StructDeclaration:
		m["declaration"] = stmt(n.Declaration)
		put("block", n.Block)
	case *NamespaceDeclaration:
		m["name"] = stmt(n.Name)
		put("block", n.Block)
	case *TemplateDeclaration:
		m["statement"] = stmt(n.Statement)
		m["arguments"] = argumentsToMaps(n.Arguments)
		put("content", n.Content)
	case *LambdaExpression:
		if n.Capture != nil {
			m["capture"] = n.Capture.Statement
		}
		m["arguments"] = argumentsToMaps(n.Arguments)
		put("body", n.Body)
	case *IfStatement:
		m["condition"] = stmt(n.Condition)
		put("true_block", n.TrueBlock)
		if len(n.ElseIfs) > 0 {
			elifs := make([]map[string]interface{}, 0, len(n.ElseIfs))
			for _, elif := range n.ElseIfs {
				elifs = append(elifs, ToMap(elif))
			}
			m["else_ifs"] = elifs
		}
		put("else_block", n.ElseBlock)
	case *ElseIfStatement:
		m["condition"] = stmt(n.Condition)
		put("block", n.Block)
	case *TryCatchStatement:
		put("try_block", n.TryBlock)
		m["catch_arguments"] = argumentsToMaps(n.CatchArguments)
		put("catch_block", n.CatchBlock)
	case *SwitchCaseStatement:
		m["condition"] = stmt(n.Condition)
		cases := make([]map[string]interface{}, 0, len(n.Cases))
		for _, cs := range n.Cases {
			if cs == nil {
				continue
			}
			entry := map[string]interface{}{"value": stmt(cs.Value)}
			if cs.Block != nil {
				entry["block"] = ToMap(cs.Block)
			}
			cases = append(cases, entry)
		}
		m["cases"] = cases
		put("default", n.Default)
	case *PairDestructuring:
		m["first"] = stmt(n.First)
		m["second"] = stmt(n.Second)
		m["initializer"] = stmt(n.Initializer)
	}
	return m
}

func listToMaps(nodes []Node) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(nodes))
	for _, n := range nodes {
		if m := ToMap(n); m != nil {
			out = append(out, m)
		}
	}
	return out
}

func argumentsToMaps(args []Argument) []map[string]string {
	out := make([]map[string]string, len(args))
	for i, a := range args {
		out[i] = map[string]string{"name": a.Name, "type": a.Type}
	}
	return out
}
