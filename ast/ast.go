package ast

import "github.com/pontaoski/tran/types"

type Program struct {
	Interfaces []*Interface
	Classes    []*Class
}

type VariableDeclaration struct {
	Type string
	Name string
}

type MethodHeader struct {
	Name       string
	Parameters []VariableDeclaration
	Returns    []VariableDeclaration
}

type Interface struct {
	Name    string
	Methods []MethodHeader
	Pos     types.Span
}

// Class refers to its interfaces by name only; they are looked up when used.
type Class struct {
	Name         string
	Interfaces   []string
	Members      []Member
	Constructors []*Constructor
	Methods      []*MethodDeclaration
	Pos          types.Span
}

// Member is a field. Accessor and Mutator bodies are kept but never run.
type Member struct {
	VariableDeclaration
	Accessor []Statement
	Mutator  []Statement
}

type Constructor struct {
	Parameters []VariableDeclaration
	Locals     []VariableDeclaration
	Statements []Statement
	Pos        types.Span
}

type MethodDeclaration struct {
	MethodHeader
	IsPrivate bool
	IsShared  bool
	// IsVariadic is only set on methods provided by the runtime.
	IsVariadic bool
	Locals     []VariableDeclaration
	Statements []Statement
	Pos        types.Span
}

type Statement interface {
	is_Statement()
}

type Assignment struct {
	Target VariableReference
	Value  Expression
	Pos    types.Span
}

func (v Assignment) is_Statement() {}

// MethodCall is a call in statement position. Returns lists the variables
// that receive the callee's return values, in order.
type MethodCall struct {
	Call    MethodCallExpression
	Returns []VariableReference
	Pos     types.Span
}

func (v MethodCall) is_Statement() {}

// Loop is a boolean loop when Variable is nil and an iterator loop otherwise.
type Loop struct {
	Variable  *VariableReference
	Condition Expression
	Body      []Statement
	Pos       types.Span
}

func (v Loop) is_Statement() {}

type If struct {
	Condition Expression
	Then      []Statement
	Else      *Else
	Pos       types.Span
}

func (v If) is_Statement() {}

type Else struct {
	Statements []Statement
}

type Expression interface {
	is_Expression()
}

type NumericLiteral float64

func (v NumericLiteral) is_Expression() {}

type StringLiteral string

func (v StringLiteral) is_Expression() {}

type BooleanLiteral bool

func (v BooleanLiteral) is_Expression() {}

type CharLiteral rune

func (v CharLiteral) is_Expression() {}

type VariableReference struct {
	Name string
}

func (v VariableReference) is_Expression() {}

type BooleanOperator int

const (
	And BooleanOperator = iota
	Or
)

type BooleanOp struct {
	Left  Expression
	Right Expression
	Op    BooleanOperator
}

func (v BooleanOp) is_Expression() {}

type Not struct {
	Operand Expression
}

func (v Not) is_Expression() {}

type CompareOperator int

const (
	Equal CompareOperator = iota
	NotEqual
	Less
	Greater
	LessEqual
	GreaterEqual
)

type Compare struct {
	Left  Expression
	Right Expression
	Op    CompareOperator
}

func (v Compare) is_Expression() {}

type MathOperator int

const (
	Add MathOperator = iota
	Subtract
	Multiply
	Divide
	Modulo
)

type MathOp struct {
	Left  Expression
	Right Expression
	Op    MathOperator
}

func (v MathOp) is_Expression() {}

// MethodCallExpression calls Method, qualified by Object when Object is not
// empty. Object may name a class or a variable holding an object.
type MethodCallExpression struct {
	Object    string
	Method    string
	Arguments []Expression
}

func (v MethodCallExpression) is_Expression() {}

type New struct {
	Class     string
	Arguments []Expression
}

func (v New) is_Expression() {}
