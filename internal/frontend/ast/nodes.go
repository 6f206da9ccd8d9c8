// Package ast defines the syntax tree produced by the Tonic parser.
//
// Every node exclusively owns its children. Optional children are nil when
// absent. Expressions are not parsed; they are kept as GeneralStatement
// text and handed to later stages verbatim.
package ast

import (
	"fmt"
	"strings"
)

// Kind tags the concrete variant of a Node
type Kind int

const (
	KindProgram Kind = iota
	KindBlock
	KindGeneralStatement
	KindCppNode
	KindVariableDeclaration
	KindFunctionDeclaration
	KindForLoop
	KindRangedLoop
	KindWhileLoop
	KindInputOutput
	KindClassDeclaration
	KindStructDeclaration
	KindNamespaceDeclaration
	KindTemplateDeclaration
	KindLambdaExpression
	KindIfStatement
	KindElseIfStatement
	KindTryCatchStatement
	KindSwitchCaseStatement
	KindPairDestructuring

	kindCount
)

var kindNames = [kindCount]string{
	KindProgram:              "Program",
	KindBlock:                "Block",
	KindGeneralStatement:     "GeneralStatement",
	KindCppNode:              "CppNode",
	KindVariableDeclaration:  "VariableDeclaration",
	KindFunctionDeclaration:  "FunctionDeclaration",
	KindForLoop:              "ForLoop",
	KindRangedLoop:           "RangedLoop",
	KindWhileLoop:            "WhileLoop",
	KindInputOutput:          "InputOutput",
	KindClassDeclaration:     "ClassDeclaration",
	KindStructDeclaration:    "StructDeclaration",
	KindNamespaceDeclaration: "NamespaceDeclaration",
	KindTemplateDeclaration:  "TemplateDeclaration",
	KindLambdaExpression:     "LambdaExpression",
	KindIfStatement:          "IfStatement",
	KindElseIfStatement:      "ElseIfStatement",
	KindTryCatchStatement:    "TryCatchStatement",
	KindSwitchCaseStatement:  "SwitchCaseStatement",
	KindPairDestructuring:    "PairDestructuring",
}

func (k Kind) String() string {
	if k >= 0 && k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds returns every node kind in declaration order
func Kinds() []Kind {
	kinds := make([]Kind, kindCount)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// Node represents the base interface for all AST nodes
type Node interface {
	// Kind returns the variant tag used for dispatch
	Kind() Kind

	// String returns a one-line description of the node
	String() string

	// Position returns the source position of the node
	Position() Position

	// Validate checks the node's own mandatory fields, not its children
	Validate() error
}

// Position represents a position in the source code
type Position struct {
	Line int // Line number (1-based)
}

// DefaultType is the type used when a declaration names none
const DefaultType = "auto"

// DeclarationType distinguishes bare declarations from initialized ones
type DeclarationType int

const (
	Declaration DeclarationType = iota
	Assignment
)

func (d DeclarationType) String() string {
	if d == Assignment {
		return "ASSIGNMENT"
	}
	return "DECLARATION"
}

// Direction of an input/output statement
type Direction int

const (
	In Direction = iota
	Out
)

func (d Direction) String() string {
	if d == Out {
		return "OUT"
	}
	return "IN"
}

// Argument is a named parameter with its type
type Argument struct {
	Name string // Parameter name
	Type string // Type text, DefaultType when omitted
}

func (a Argument) String() string {
	return a.Name + ": " + a.Type
}

// Program is the root of a compilation unit
type Program struct {
	Body []Node   // Top-level statements in source order
	Pos  Position // Source position
}

// Block is an indented sequence of statements
type Block struct {
	Body []Node   // Statements in source order
	Pos  Position // Source position
}

// GeneralStatement holds unparsed source text
type GeneralStatement struct {
	Statement string   // Space-joined token lexemes
	Pos       Position // Source position
}

// CppNode holds a raw C++ chunk
type CppNode struct {
	Code *GeneralStatement // Verbatim chunk text
	Pos  Position          // Source position
}

// VariableDeclaration declares or assigns a variable
type VariableDeclaration struct {
	DataType        string            // Declared type, DefaultType when omitted
	DeclarationType DeclarationType   // Assignment when Initializer is set
	Identifier      *GeneralStatement // Variable name
	Initializer     Node              // Optional: GeneralStatement, comprehension loop or LambdaExpression
	Pos             Position          // Source position
}

// FunctionDeclaration declares a function, method or constructor
type FunctionDeclaration struct {
	IsMemoize bool              // Preceded by @memoize
	Type      *GeneralStatement // Return type; nil for constructor-like forms
	Name      *GeneralStatement // Function name, possibly scoped
	Arguments []Argument        // Parameters in order
	Block     *Block            // Body
	Pos       Position          // Source position
}

// ForLoop iterates over an explicit start..end range
type ForLoop struct {
	IDType     string            // Loop variable type, DefaultType when omitted
	Identifier *GeneralStatement // Loop variable
	Start      *GeneralStatement // Range start
	End        *GeneralStatement // Range end (exclusive)
	Step       *GeneralStatement // Optional step
	Operation  *GeneralStatement // Element expression of a list comprehension
	Block      *Block            // Body; nil inside a comprehension
	Pos        Position          // Source position
}

// RangedLoop iterates over the elements of an object
type RangedLoop struct {
	IDType     string            // Loop variable type, DefaultType when omitted
	Identifier *GeneralStatement // Loop variable
	Object     *GeneralStatement // Iterated object
	Operation  *GeneralStatement // Element expression of a list comprehension
	Block      *Block            // Body; nil inside a comprehension
	Pos        Position          // Source position
}

// WhileLoop repeats its block while the condition holds
type WhileLoop struct {
	Condition *GeneralStatement // Loop condition
	Block     *Block            // Body
	Pos       Position          // Source position
}

// InputOutput reads from standard input or writes to standard output
type InputOutput struct {
	Direction Direction           // In or Out
	Operands  []*GeneralStatement // Values read or written, in order
	Pos       Position            // Source position
}

// ClassDeclaration declares a class
type ClassDeclaration struct {
	Declaration *GeneralStatement // Name and base list
	Block       *Block            // Members
	Pos         Position          // Source position
}

// StructDeclaration declares a struct
type StructDeclaration struct {
	Declaration *GeneralStatement // Name and base list
	Block       *Block            // Members
	Pos         Position          // Source position
}

// NamespaceDeclaration opens a namespace
type NamespaceDeclaration struct {
	Name  *GeneralStatement // Namespace name
	Block *Block            // Contents
	Pos   Position          // Source position
}

// TemplateDeclaration attaches template parameters to a declaration
type TemplateDeclaration struct {
	Statement *GeneralStatement // Template parameter list text
	Arguments []Argument        // Parsed parameters; Type is "typename", "class" or a type
	Content   Node              // The function, class or struct being templated
	Pos       Position          // Source position
}

// LambdaExpression is an anonymous function
type LambdaExpression struct {
	Arguments []Argument        // Parameters in order
	Capture   *GeneralStatement // Optional capture clause
	Body      Node              // GeneralStatement expression or Block
	Pos       Position          // Source position
}

// IfStatement is an if with optional else-if chain and else block
type IfStatement struct {
	Condition *GeneralStatement  // Condition
	TrueBlock *Block             // Taken when Condition holds
	ElseIfs   []*ElseIfStatement // Else-if branches in order
	ElseBlock *Block             // Optional else branch
	Pos       Position           // Source position
}

// ElseIfStatement is one else-if branch
type ElseIfStatement struct {
	Condition *GeneralStatement // Condition
	Block     *Block            // Body
	Pos       Position          // Source position
}

// TryCatchStatement guards a block with one handler
type TryCatchStatement struct {
	TryBlock       *Block     // Guarded block
	CatchArguments []Argument // Caught exception; empty catches everything
	CatchBlock     *Block     // Handler
	Pos            Position   // Source position
}

// Case is one labelled branch of a switch
type Case struct {
	Value *GeneralStatement // Case label
	Block *Block            // Body
}

// SwitchCaseStatement selects a case by value
type SwitchCaseStatement struct {
	Condition *GeneralStatement // Switched value
	Cases     []*Case           // Cases in order
	Default   *Block            // Optional default branch
	Pos       Position          // Source position
}

// PairDestructuring unpacks a pair into two variables
type PairDestructuring struct {
	First       *GeneralStatement // First variable
	Second      *GeneralStatement // Second variable
	Initializer *GeneralStatement // Pair expression
	Pos         Position          // Source position
}

// NewStatement creates a GeneralStatement
func NewStatement(text string, line int) *GeneralStatement {
	return &GeneralStatement{Statement: text, Pos: Position{Line: line}}
}

func (*Program) Kind() Kind              { return KindProgram }
func (*Block) Kind() Kind                { return KindBlock }
func (*GeneralStatement) Kind() Kind     { return KindGeneralStatement }
func (*CppNode) Kind() Kind              { return KindCppNode }
func (*VariableDeclaration) Kind() Kind  { return KindVariableDeclaration }
func (*FunctionDeclaration) Kind() Kind  { return KindFunctionDeclaration }
func (*ForLoop) Kind() Kind              { return KindForLoop }
func (*RangedLoop) Kind() Kind           { return KindRangedLoop }
func (*WhileLoop) Kind() Kind            { return KindWhileLoop }
func (*InputOutput) Kind() Kind          { return KindInputOutput }
func (*ClassDeclaration) Kind() Kind     { return KindClassDeclaration }
func (*StructDeclaration) Kind() Kind    { return KindStructDeclaration }
func (*NamespaceDeclaration) Kind() Kind { return KindNamespaceDeclaration }
func (*TemplateDeclaration) Kind() Kind  { return KindTemplateDeclaration }
func (*LambdaExpression) Kind() Kind     { return KindLambdaExpression }
func (*IfStatement) Kind() Kind          { return KindIfStatement }
func (*ElseIfStatement) Kind() Kind      { return KindElseIfStatement }
func (*TryCatchStatement) Kind() Kind    { return KindTryCatchStatement }
func (*SwitchCaseStatement) Kind() Kind  { return KindSwitchCaseStatement }
func (*PairDestructuring) Kind() Kind    { return KindPairDestructuring }

func (n *Program) Position() Position              { return n.Pos }
func (n *Block) Position() Position                { return n.Pos }
func (n *GeneralStatement) Position() Position     { return n.Pos }
func (n *CppNode) Position() Position              { return n.Pos }
func (n *VariableDeclaration) Position() Position  { return n.Pos }
func (n *FunctionDeclaration) Position() Position  { return n.Pos }
func (n *ForLoop) Position() Position              { return n.Pos }
func (n *RangedLoop) Position() Position           { return n.Pos }
func (n *WhileLoop) Position() Position            { return n.Pos }
func (n *InputOutput) Position() Position          { return n.Pos }
func (n *ClassDeclaration) Position() Position     { return n.Pos }
func (n *StructDeclaration) Position() Position    { return n.Pos }
func (n *NamespaceDeclaration) Position() Position { return n.Pos }
func (n *TemplateDeclaration) Position() Position  { return n.Pos }
func (n *LambdaExpression) Position() Position     { return n.Pos }
func (n *IfStatement) Position() Position          { return n.Pos }
func (n *ElseIfStatement) Position() Position      { return n.Pos }
func (n *TryCatchStatement) Position() Position    { return n.Pos }
func (n *SwitchCaseStatement) Position() Position  { return n.Pos }
func (n *PairDestructuring) Position() Position    { return n.Pos }

func (n *Program) String() string { return fmt.Sprintf("Program (%d statements)", len(n.Body)) }
func (n *Block) String() string   { return fmt.Sprintf("Block (%d statements)", len(n.Body)) }

func (n *GeneralStatement) String() string { return fmt.Sprintf("GeneralStatement %q", n.Statement) }
func (n *CppNode) String() string          { return "CppNode" }

func (n *VariableDeclaration) String() string {
	return fmt.Sprintf("VariableDeclaration %s %s: %s", n.DeclarationType, stmt(n.Identifier), n.DataType)
}

func (n *FunctionDeclaration) String() string {
	var b strings.Builder
	b.WriteString("FunctionDeclaration ")
	if n.IsMemoize {
		b.WriteString("@memoize ")
	}
	if n.Type != nil {
		b.WriteString(n.Type.Statement + " ")
	}
	b.WriteString(stmt(n.Name))
	b.WriteString("(" + joinArguments(n.Arguments) + ")")
	return b.String()
}

func (n *ForLoop) String() string {
	s := fmt.Sprintf("ForLoop %s: %s in %s..%s", stmt(n.Identifier), n.IDType, stmt(n.Start), stmt(n.End))
	if n.Step != nil {
		s += " step " + n.Step.Statement
	}
	return s
}

func (n *RangedLoop) String() string {
	return fmt.Sprintf("RangedLoop %s: %s in %s", stmt(n.Identifier), n.IDType, stmt(n.Object))
}

func (n *WhileLoop) String() string { return "WhileLoop " + stmt(n.Condition) }

func (n *InputOutput) String() string {
	return fmt.Sprintf("InputOutput %s (%d operands)", n.Direction, len(n.Operands))
}

func (n *ClassDeclaration) String() string     { return "ClassDeclaration " + stmt(n.Declaration) }
func (n *StructDeclaration) String() string    { return "StructDeclaration " + stmt(n.Declaration) }
func (n *NamespaceDeclaration) String() string { return "NamespaceDeclaration " + stmt(n.Name) }

func (n *TemplateDeclaration) String() string {
	return "TemplateDeclaration <" + joinArguments(n.Arguments) + ">"
}

func (n *LambdaExpression) String() string {
	capture := ""
	if n.Capture != nil {
		capture = "[" + n.Capture.Statement + "]"
	}
	return "LambdaExpression " + capture + "(" + joinArguments(n.Arguments) + ")"
}

func (n *IfStatement) String() string {
	return fmt.Sprintf("IfStatement %s (%d else-if, else=%t)", stmt(n.Condition), len(n.ElseIfs), n.ElseBlock != nil)
}

func (n *ElseIfStatement) String() string { return "ElseIfStatement " + stmt(n.Condition) }

func (n *TryCatchStatement) String() string {
	return "TryCatchStatement catch(" + joinArguments(n.CatchArguments) + ")"
}

func (n *SwitchCaseStatement) String() string {
	return fmt.Sprintf("SwitchCaseStatement %s (%d cases, default=%t)", stmt(n.Condition), len(n.Cases), n.Default != nil)
}

func (n *PairDestructuring) String() string {
	return fmt.Sprintf("PairDestructuring %s, %s", stmt(n.First), stmt(n.Second))
}

func stmt(s *GeneralStatement) string {
	if s == nil {
		return ""
	}
	return s.Statement
}

func joinArguments(args []Argument) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}
