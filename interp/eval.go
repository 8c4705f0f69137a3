package interp

import (
	"fmt"
	"math"

	"github.com/pontaoski/tran/ast"
	"github.com/pontaoski/tran/errors"
)

func (i *Interpreter) evalArguments(f *frame, args []ast.Expression) []Value {
	ret := make([]Value, 0, len(args))
	for _, arg := range args {
		ret = append(ret, i.eval(f, arg))
	}
	return ret
}

// eval returns the slot itself for a variable reference, so an argument that
// names a variable aliases it.
func (i *Interpreter) eval(f *frame, expr ast.Expression) Value {
	switch e := expr.(type) {
	case ast.NumericLiteral:
		return &Number{float64(e)}
	case ast.StringLiteral:
		return &String{string(e)}
	case ast.BooleanLiteral:
		return &Boolean{bool(e)}
	case ast.CharLiteral:
		return &Char{rune(e)}
	case ast.VariableReference:
		return f.lookup(e.Name)
	case ast.Not:
		v := i.eval(f, e.Operand)
		b, ok := v.(*Boolean)
		if !ok {
			fail(errors.TypeMismatch, "cannot negate a %s", v.TypeName())
		}
		return &Boolean{!b.Value}
	case ast.BooleanOp:
		return i.booleanOp(f, e)
	case ast.Compare:
		return i.compare(f, e)
	case ast.MathOp:
		return i.mathOp(f, e)
	case ast.MethodCallExpression:
		ret := i.call(f, e, 0)
		if len(ret) == 0 {
			fail(errors.ReturnCount, "%s returned no value", e)
		}
		return ret[0]
	case ast.New:
		return i.instantiate(f, e)
	}

	panic(fmt.Sprintf("unhandled expression %T", expr))
}

func (i *Interpreter) booleanOp(f *frame, e ast.BooleanOp) Value {
	l, r := i.eval(f, e.Left), i.eval(f, e.Right)

	lb, lok := l.(*Boolean)
	rb, rok := r.(*Boolean)
	if !lok || !rok {
		fail(errors.TypeMismatch, "cannot %s a %s and a %s", e.Op, l.TypeName(), r.TypeName())
	}

	if e.Op == ast.And {
		return &Boolean{lb.Value && rb.Value}
	}
	return &Boolean{lb.Value || rb.Value}
}

func (i *Interpreter) compare(f *frame, e ast.Compare) Value {
	l, r := i.eval(f, e.Left), i.eval(f, e.Right)

	ln, lok := l.(*Number)
	rn, rok := r.(*Number)
	if !lok || !rok {
		fail(errors.TypeMismatch, "cannot compare a %s %s a %s", l.TypeName(), e.Op, r.TypeName())
	}

	switch e.Op {
	case ast.Equal:
		return &Boolean{ln.Value == rn.Value}
	case ast.NotEqual:
		return &Boolean{ln.Value != rn.Value}
	case ast.Less:
		return &Boolean{ln.Value < rn.Value}
	case ast.Greater:
		return &Boolean{ln.Value > rn.Value}
	case ast.LessEqual:
		return &Boolean{ln.Value <= rn.Value}
	case ast.GreaterEqual:
		return &Boolean{ln.Value >= rn.Value}
	}

	panic(fmt.Sprintf("unhandled comparison %d", e.Op))
}

func (i *Interpreter) mathOp(f *frame, e ast.MathOp) Value {
	l, r := i.eval(f, e.Left), i.eval(f, e.Right)

	if ls, ok := l.(*String); ok && e.Op == ast.Add {
		if rs, ok := r.(*String); ok {
			return &String{ls.Value + rs.Value}
		}
	}

	ln, lok := l.(*Number)
	rn, rok := r.(*Number)
	if !lok || !rok {
		fail(errors.TypeMismatch, "cannot apply %s to a %s and a %s", e.Op, l.TypeName(), r.TypeName())
	}

	switch e.Op {
	case ast.Add:
		return &Number{ln.Value + rn.Value}
	case ast.Subtract:
		return &Number{ln.Value - rn.Value}
	case ast.Multiply:
		return &Number{ln.Value * rn.Value}
	case ast.Divide:
		if rn.Value == 0 {
			fail(errors.DivisionByZero, "division by zero in %s", e)
		}
		return &Number{ln.Value / rn.Value}
	case ast.Modulo:
		return &Number{math.Mod(ln.Value, rn.Value)}
	}

	panic(fmt.Sprintf("unhandled operator %d", e.Op))
}

// instantiate evaluates a `new` expression. A class without constructors
// can only be built with no arguments.
func (i *Interpreter) instantiate(f *frame, e ast.New) Value {
	class, ok := i.registry.class(e.Class)
	if !ok {
		fail(errors.UnresolvedClass, "no class named %s", e.Class)
	}

	args := i.evalArguments(f, e.Arguments)
	obj := NewObject(class)

	if len(class.Constructors) == 0 {
		if len(args) != 0 {
			fail(errors.UnresolvedMethod, "class %s has no constructor %s", class.Name, signature("construct", args))
		}
		i.callConstructor(obj, nil, args)
		return obj
	}

	c, ok := i.findConstructor(class, args)
	if !ok {
		fail(errors.UnresolvedMethod, "class %s has no constructor %s", class.Name, signature("construct", args))
	}
	i.callConstructor(obj, c, args)

	return obj
}
