package ast

import (
	"errors"
	"fmt"
	"reflect"
)

// Child is one labelled child of a node
type Child struct {
	Label string // Field name, with an index for list fields
	Node  Node
}

// Children returns the direct children of n in walk order. Absent optional
// children are left out.
func Children(n Node) []Child {
	var c children
	switch n := n.(type) {
	case *Program:
		c.list("Body", n.Body)
	case *Block:
		c.list("Body", n.Body)
	case *GeneralStatement:
	case *CppNode:
		c.add("Code", n.Code)
	case *VariableDeclaration:
		c.add("Identifier", n.Identifier)
		c.add("Initializer", n.Initializer)
	case *FunctionDeclaration:
		c.add("Type", n.Type)
		c.add("Name", n.Name)
		c.add("Block", n.Block)
	case *ForLoop:
		c.add("Identifier", n.Identifier)
		c.add("Start", n.Start)
		c.add("End", n.End)
		c.add("Step", n.Step)
		c.add("Operation", n.Operation)
		c.add("Block", n.Block)
	case *RangedLoop:
		c.add("Identifier", n.Identifier)
		c.add("Object", n.Object)
		c.add("Operation", n.Operation)
		c.add("Block", n.Block)
	case *WhileLoop:
		c.add("Condition", n.Condition)
		c.add("Block", n.Block)
	case *InputOutput:
		for i, op := range n.Operands {
			c.add(fmt.Sprintf("Operands[%d]", i), op)
		}
	case *ClassDeclaration:
		c.add("Declaration", n.Declaration)
		c.add("Block", n.Block)
	case *StructDeclaration:
		c.add("Declaration", n.Declaration)
		c.add("Block", n.Block)
	case *NamespaceDeclaration:
		c.add("Name", n.Name)
		c.add("Block", n.Block)
	case *TemplateDeclaration:
		c.add("Statement", n.Statement)
		c.add("Content", n.Content)
	case *LambdaExpression:
		c.add("Capture", n.Capture)
		c.add("Body", n.Body)
	case *IfStatement:
		c.add("Condition", n.Condition)
		c.add("TrueBlock", n.TrueBlock)
		for i, elif := range n.ElseIfs {
			c.add(fmt.Sprintf("ElseIfs[%d]", i), elif)
		}
		c.add("ElseBlock", n.ElseBlock)
	case *ElseIfStatement:
		c.add("Condition", n.Condition)
		c.add("Block", n.Block)
	case *TryCatchStatement:
		c.add("TryBlock", n.TryBlock)
		c.add("CatchBlock", n.CatchBlock)
	case *SwitchCaseStatement:
		c.add("Condition", n.Condition)
		for i, cs := range n.Cases {
			if cs == nil {
				continue
			}
			c.add(fmt.Sprintf("Cases[%d].Value", i), cs.Value)
			c.add(fmt.Sprintf("Cases[%d].Block", i), cs.Block)
		}
		c.add("Default", n.Default)
	case *PairDestructuring:
		c.add("First", n.First)
		c.add("Second", n.Second)
		c.add("Initializer", n.Initializer)
	}
	return c
}

type children []Child

func (c *children) add(label string, n Node) {
	if IsNil(n) {
		return
	}
	*c = append(*c, Child{Label: label, Node: n})
}

func (c *children) list(label string, nodes []Node) {
	for i, n := range nodes {
		c.add(fmt.Sprintf("%s[%d]", label, i), n)
	}
}

// IsNil reports whether n is nil or a typed nil pointer stored in the interface
func IsNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// Validate checks n and every node below it, returning all failures joined.
func Validate(n Node) error {
	if IsNil(n) {
		return nil
	}
	var errs []error
	if err := n.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("%s at line %d: %w", n.Kind(), n.Position().Line, err))
	}
	for _, child := range Children(n) {
		if err := Validate(child.Node); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (n *Program) Validate() error          { return nil }
func (n *Block) Validate() error            { return nil }
func (n *GeneralStatement) Validate() error { return nil }

func (n *CppNode) Validate() error {
	if n.Code == nil {
		return fmt.Errorf("code is required")
	}
	return nil
}

func (n *VariableDeclaration) Validate() error {
	if n.Identifier == nil {
		return fmt.Errorf("identifier is required")
	}
	if (n.Initializer != nil) != (n.DeclarationType == Assignment) {
		return fmt.Errorf("declaration type %s does not match initializer", n.DeclarationType)
	}
	if ForLoopLike(n.Initializer) && !IsComprehension(n.Initializer) {
		return fmt.Errorf("loop initializer must be a list comprehension")
	}
	return nil
}

func (n *FunctionDeclaration) Validate() error {
	if n.Name == nil {
		return fmt.Errorf("function name is required")
	}
	if n.Block == nil {
		return fmt.Errorf("function body is required")
	}
	return nil
}

func (n *ForLoop) Validate() error {
	if n.Identifier == nil {
		return fmt.Errorf("loop variable is required")
	}
	if n.Start == nil || n.End == nil {
		return fmt.Errorf("range start and end are required")
	}
	return validateLoopBody(n.Operation, n.Block)
}

func (n *RangedLoop) Validate() error {
	if n.Identifier == nil {
		return fmt.Errorf("loop variable is required")
	}
	if n.Object == nil {
		return fmt.Errorf("iterated object is required")
	}
	return validateLoopBody(n.Operation, n.Block)
}

// validateLoopBody checks that a loop has exactly one of a block and an
// operation. The outer loops of a nested comprehension hold the inner loop
// in their block.
func validateLoopBody(operation *GeneralStatement, block *Block) error {
	if operation != nil && block != nil {
		return fmt.Errorf("loop cannot have both an operation and a block")
	}
	if operation == nil && block == nil {
		return fmt.Errorf("loop body is required")
	}
	return nil
}

func (n *WhileLoop) Validate() error {
	if n.Condition == nil || n.Block == nil {
		return fmt.Errorf("condition and body are required")
	}
	return nil
}

func (n *InputOutput) Validate() error {
	if len(n.Operands) == 0 {
		return fmt.Errorf("%s statement needs at least one operand", n.Direction)
	}
	for i, op := range n.Operands {
		if op == nil || op.Statement == "" {
			return fmt.Errorf("operand %d is empty", i)
		}
	}
	return nil
}

func (n *ClassDeclaration) Validate() error {
	return validateDeclaration(n.Declaration, n.Block)
}

func (n *StructDeclaration) Validate() error {
	return validateDeclaration(n.Declaration, n.Block)
}

func (n *NamespaceDeclaration) Validate() error {
	return validateDeclaration(n.Name, n.Block)
}

func validateDeclaration(name *GeneralStatement, block *Block) error {
	if name == nil {
		return fmt.Errorf("name is required")
	}
	if block == nil {
		return fmt.Errorf("body is required")
	}
	return nil
}

func (n *TemplateDeclaration) Validate() error {
	if IsNil(n.Content) {
		return fmt.Errorf("templated declaration is required")
	}
	switch n.Content.(type) {
	case *FunctionDeclaration, *ClassDeclaration, *StructDeclaration:
		return nil
	default:
		return fmt.Errorf("cannot template a %s", n.Content.Kind())
	}
}

func (n *LambdaExpression) Validate() error {
	switch n.Body.(type) {
	case *GeneralStatement, *Block:
		if IsNil(n.Body) {
			return fmt.Errorf("lambda body is required")
		}
		return nil
	case nil:
		return fmt.Errorf("lambda body is required")
	default:
		return fmt.Errorf("lambda body cannot be a %s", n.Body.Kind())
	}
}

func (n *IfStatement) Validate() error {
	if n.Condition == nil || n.TrueBlock == nil {
		return fmt.Errorf("condition and body are required")
	}
	return nil
}

func (n *ElseIfStatement) Validate() error {
	if n.Condition == nil || n.Block == nil {
		return fmt.Errorf("condition and body are required")
	}
	return nil
}

func (n *TryCatchStatement) Validate() error {
	if n.TryBlock == nil || n.CatchBlock == nil {
		return fmt.Errorf("try and catch blocks are required")
	}
	return nil
}

func (n *SwitchCaseStatement) Validate() error {
	if n.Condition == nil {
		return fmt.Errorf("condition is required")
	}
	for i, cs := range n.Cases {
		if cs == nil || cs.Value == nil || cs.Block == nil {
			return fmt.Errorf("case %d needs a value and a body", i)
		}
	}
	return nil
}

func (n *PairDestructuring) Validate() error {
	if n.First == nil || n.Second == nil || n.Initializer == nil {
		return fmt.Errorf("both names and an initializer are required")
	}
	return nil
}

// ForLoopLike reports whether n is a ForLoop or a RangedLoop
func ForLoopLike(n Node) bool {
	switch n.(type) {
	case *ForLoop, *RangedLoop:
		return !IsNil(n)
	}
	return false
}

// IsComprehension reports whether n is a loop built from a list
// comprehension, following nested loops down to the innermost one.
func IsComprehension(n Node) bool {
	for !IsNil(n) {
		var op *GeneralStatement
		var block *Block
		switch l := n.(type) {
		case *ForLoop:
			op, block = l.Operation, l.Block
		case *RangedLoop:
			op, block = l.Operation, l.Block
		default:
			return false
		}
		if op != nil {
			return true
		}
		if block == nil || len(block.Body) != 1 {
			return false
		}
		n = block.Body[0]
	}
	return false
}
