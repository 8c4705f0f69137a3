package ast

import (
	"fmt"
	"strconv"
	"strings"
)

func (v VariableDeclaration) String() string {
	return v.Type + " " + v.Name
}

func declarations(decls []VariableDeclaration) string {
	var ret []string
	for _, decl := range decls {
		ret = append(ret, decl.String())
	}
	return strings.Join(ret, ", ")
}

func (m MethodHeader) String() string {
	if len(m.Returns) == 0 {
		return fmt.Sprintf("%s(%s)", m.Name, declarations(m.Parameters))
	}
	return fmt.Sprintf("%s(%s) : %s", m.Name, declarations(m.Parameters), declarations(m.Returns))
}

func block(statements []Statement) string {
	var sb strings.Builder
	for _, statement := range statements {
		for _, line := range strings.SplitAfter(fmt.Sprint(statement), "\n") {
			if line == "" {
				continue
			}
			sb.WriteString("\t")
			sb.WriteString(line)
		}
	}
	return sb.String()
}

func (v Assignment) String() string {
	return fmt.Sprintf("%s = %s\n", v.Target, v.Value)
}

func (v MethodCall) String() string {
	if len(v.Returns) == 0 {
		return v.Call.String() + "\n"
	}

	var targets []string
	for _, ret := range v.Returns {
		targets = append(targets, ret.Name)
	}
	return fmt.Sprintf("%s = %s\n", strings.Join(targets, ", "), v.Call)
}

func (v Loop) String() string {
	if v.Variable == nil {
		return fmt.Sprintf("loop %s\n%s", v.Condition, block(v.Body))
	}
	return fmt.Sprintf("loop %s = %s\n%s", v.Variable, v.Condition, block(v.Body))
}

func (v If) String() string {
	s := fmt.Sprintf("if %s\n%s", v.Condition, block(v.Then))
	if v.Else != nil {
		s += "else\n" + block(v.Else.Statements)
	}
	return s
}

func (v NumericLiteral) String() string {
	return strconv.FormatFloat(float64(v), 'f', -1, 64)
}

func (v StringLiteral) String() string {
	return `"` + string(v) + `"`
}

func (v BooleanLiteral) String() string {
	return strconv.FormatBool(bool(v))
}

func (v CharLiteral) String() string {
	return "'" + string(v) + "'"
}

func (v VariableReference) String() string {
	return v.Name
}

func (o BooleanOperator) String() string {
	if o == And {
		return "and"
	}
	return "or"
}

func (v BooleanOp) String() string {
	return fmt.Sprintf("%s %s %s", v.Left, v.Op, v.Right)
}

func (v Not) String() string {
	return fmt.Sprintf("!%s", v.Operand)
}

func (o CompareOperator) String() string {
	return map[CompareOperator]string{
		Equal:        "==",
		NotEqual:     "!=",
		Less:         "<",
		Greater:      ">",
		LessEqual:    "<=",
		GreaterEqual: ">=",
	}[o]
}

func (v Compare) String() string {
	return fmt.Sprintf("%s %s %s", v.Left, v.Op, v.Right)
}

func (o MathOperator) String() string {
	return map[MathOperator]string{
		Add:      "+",
		Subtract: "-",
		Multiply: "*",
		Divide:   "/",
		Modulo:   "%",
	}[o]
}

func (o MathOperator) binding() int {
	if o == Add || o == Subtract {
		return 1
	}
	return 2
}

func (v MathOp) String() string {
	left, right := fmt.Sprint(v.Left), fmt.Sprint(v.Right)
	if l, ok := v.Left.(MathOp); ok && l.Op.binding() < v.Op.binding() {
		left = "(" + left + ")"
	}
	// operators are left-associative, so a nested right operand always needs grouping
	if _, ok := v.Right.(MathOp); ok {
		right = "(" + right + ")"
	}
	return fmt.Sprintf("%s %s %s", left, v.Op, right)
}

func arguments(args []Expression) string {
	var ret []string
	for _, arg := range args {
		ret = append(ret, fmt.Sprint(arg))
	}
	return strings.Join(ret, ", ")
}

func (v MethodCallExpression) String() string {
	if v.Object == "" {
		return fmt.Sprintf("%s(%s)", v.Method, arguments(v.Arguments))
	}
	return fmt.Sprintf("%s.%s(%s)", v.Object, v.Method, arguments(v.Arguments))
}

func (v New) String() string {
	return fmt.Sprintf("new %s(%s)", v.Class, arguments(v.Arguments))
}
