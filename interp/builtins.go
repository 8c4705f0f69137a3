package interp

import "github.com/pontaoski/tran/ast"

type builtinFunc func(args []Value) []Value

// addBuiltins declares the classes the runtime provides and binds their
// native implementations.
func (i *Interpreter) addBuiltins() []*ast.Class {
	var ret []*ast.Class

	classes := []func() *ast.Class{
		i.addConsole,
	}
	for _, fn := range classes {
		ret = append(ret, fn())
	}

	return ret
}

func (i *Interpreter) addConsole() *ast.Class {
	write := &ast.MethodDeclaration{
		MethodHeader: ast.MethodHeader{Name: "write"},
		IsShared:     true,
		IsVariadic:   true,
	}
	i.builtins[write] = func(args []Value) []Value {
		i.console.Write(args...)
		return nil
	}

	return &ast.Class{
		Name:    "console",
		Methods: []*ast.MethodDeclaration{write},
	}
}
