package interp

import (
	"strings"

	"github.com/pontaoski/tran/ast"
	"github.com/pontaoski/tran/errors"
)

// typeMatches reports whether v can be passed as a parameter of type typ.
// A character parameter also accepts numbers.
func (i *Interpreter) typeMatches(typ string, v Value) bool {
	switch typ {
	case "number":
		_, ok := v.(*Number)
		return ok
	case "string":
		_, ok := v.(*String)
		return ok
	case "boolean":
		_, ok := v.(*Boolean)
		return ok
	case "character":
		switch v.(type) {
		case *Char, *Number:
			return true
		}
		return false
	}

	obj, isObject := v.(*Object)
	if _, ok := i.registry.class(typ); ok {
		return isObject && obj.Class.Name == typ
	}
	if _, ok := i.registry.iface(typ); ok {
		return isObject && implements(obj.Class, typ)
	}

	fail(errors.UnresolvedType, "unknown type %s", typ)
	return false
}

func (i *Interpreter) parametersMatch(params []ast.VariableDeclaration, args []Value) bool {
	if len(params) != len(args) {
		return false
	}
	for idx, param := range params {
		if !i.typeMatches(param.Type, args[idx]) {
			return false
		}
	}
	return true
}

// matches decides whether m can serve a call of name with args whose results
// go into targets variables. A call that keeps no results matches any
// number of returns.
func (i *Interpreter) matches(m *ast.MethodDeclaration, name string, args []Value, targets int) bool {
	if m.Name != name {
		return false
	}
	if _, ok := i.builtins[m]; ok && m.IsVariadic {
		return true
	}
	if !i.parametersMatch(m.Parameters, args) {
		return false
	}
	return targets == 0 || targets == len(m.Returns)
}

// findMethod returns the first match in declaration order, not the best one.
func (i *Interpreter) findMethod(class *ast.Class, name string, args []Value, targets int, sharedOnly bool) (*ast.MethodDeclaration, bool) {
	for _, m := range class.Methods {
		if sharedOnly && !m.IsShared {
			continue
		}
		if i.matches(m, name, args, targets) {
			plog.Tracef("resolved %s to %s.%s", name, class.Name, m.MethodHeader)
			return m, true
		}
	}
	return nil, false
}

func (i *Interpreter) findConstructor(class *ast.Class, args []Value) (*ast.Constructor, bool) {
	for _, c := range class.Constructors {
		if i.parametersMatch(c.Parameters, args) {
			return c, true
		}
	}
	return nil, false
}

func signature(name string, args []Value) string {
	var types []string
	for _, arg := range args {
		types = append(types, arg.TypeName())
	}
	return name + "(" + strings.Join(types, ", ") + ")"
}

// call resolves and runs a call site. An unqualified call goes to the
// current object, or to the running class's shared methods when there is no
// object. A qualified call tries a class's shared methods first, then an
// object held in a variable of that name.
func (i *Interpreter) call(f *frame, call ast.MethodCallExpression, targets int) []Value {
	args := i.evalArguments(f, call.Arguments)

	if call.Object == "" {
		if f.object != nil {
			if m, ok := i.findMethod(f.object.Class, call.Method, args, targets, false); ok {
				return i.callMethod(f.object.Class, f.object, m, args)
			}
		} else if m, ok := i.findMethod(f.class, call.Method, args, targets, true); ok {
			return i.callMethod(f.class, nil, m, args)
		}
		fail(errors.UnresolvedMethod, "no matching method %s", signature(call.Method, args))
	}

	if class, ok := i.registry.class(call.Object); ok {
		if m, ok := i.findMethod(class, call.Method, args, targets, true); ok {
			return i.callMethod(class, nil, m, args)
		}
	}
	if v, ok := f.find(call.Object); ok {
		if obj, ok := v.(*Object); ok {
			if m, ok := i.findMethod(obj.Class, call.Method, args, targets, false); ok {
				return i.callMethod(obj.Class, obj, m, args)
			}
		}
	}

	fail(errors.UnresolvedMethod, "no matching method %s.%s", call.Object, signature(call.Method, args))
	return nil
}
