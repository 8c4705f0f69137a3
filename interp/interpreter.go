package interp

import (
	"fmt"

	"github.com/coreos/pkg/capnslog"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/tran/ast"
	"github.com/pontaoski/tran/errors"
	"github.com/pontaoski/tran/types"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/tran", "interp")

type Interpreter struct {
	program  *ast.Program
	console  Console
	registry *registry
	builtins map[*ast.MethodDeclaration]builtinFunc
	// pos is the statement being executed, for error locations
	pos *types.Span
}

func New(prog *ast.Program, console Console) *Interpreter {
	i := &Interpreter{
		program:  prog,
		console:  console,
		builtins: make(map[*ast.MethodDeclaration]builtinFunc),
	}
	i.registry = newRegistry(prog, i.addBuiltins())

	return i
}

// frame is the scope of one method or constructor invocation. object is nil
// while a shared method runs.
type frame struct {
	locals map[string]Value
	object *Object
	class  *ast.Class
}

func (f *frame) find(name string) (Value, bool) {
	if v, ok := f.locals[name]; ok {
		return v, true
	}
	if f.object != nil {
		if v, ok := f.object.Fields[name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (f *frame) lookup(name string) Value {
	v, ok := f.find(name)
	if !ok {
		fail(errors.UnresolvedVariable, "no variable named %s", name)
	}
	return v
}

// rebind points name at a new slot instead of writing into the old one.
func (f *frame) rebind(name string, v Value) {
	if _, ok := f.locals[name]; ok {
		f.locals[name] = v
		return
	}
	f.object.Fields[name] = v
}

func fail(kind errors.RuntimeErrorKind, msg string, fmts ...interface{}) {
	panic(errors.NewRuntimeError(kind, msg, fmts...))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func (i *Interpreter) at(pos types.Span) {
	i.pos = &pos
}

// Run calls the first shared, non-private, parameterless method named start.
// The run stops at the first runtime error.
func (i *Interpreter) Run() (err error) {
	i.pos = nil
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(errors.RuntimeError)
			if !ok {
				panic(r)
			}
			if rerr.Location == nil && i.pos != nil {
				loc := *i.pos
				rerr.Location = &loc
			}
			err = tracerr.Wrap(rerr)
		}
	}()

	class, start := i.entryPoint()
	plog.Debugf("entering %s.start", class.Name)
	i.callMethod(class, nil, start, nil)

	return nil
}

func (i *Interpreter) entryPoint() (*ast.Class, *ast.MethodDeclaration) {
	for _, class := range i.registry.order {
		for _, method := range class.Methods {
			if method.IsShared && !method.IsPrivate && method.Name == "start" && len(method.Parameters) == 0 {
				return class, method
			}
		}
	}

	fail(errors.MissingEntryPoint, "no shared method start() found")
	return nil, nil
}

func (i *Interpreter) declare(f *frame, decls []ast.VariableDeclaration) {
	for _, decl := range decls {
		if _, ok := f.locals[decl.Name]; !ok {
			f.locals[decl.Name] = i.zeroValue(decl.Type)
		}
	}
}

func (i *Interpreter) bind(f *frame, params []ast.VariableDeclaration, args []Value) {
	if len(params) != len(args) {
		fail(errors.ArgumentCount, "expected %d arguments, got %d", len(params), len(args))
	}
	for idx, param := range params {
		f.locals[param.Name] = args[idx]
	}
}

// callMethod runs m and returns the final value of each declared return
// variable, in order.
func (i *Interpreter) callMethod(class *ast.Class, object *Object, m *ast.MethodDeclaration, args []Value) []Value {
	if fn, ok := i.builtins[m]; ok {
		return fn(args)
	}
	plog.Tracef("calling %s.%s", class.Name, m.MethodHeader)

	prev := i.pos
	f := &frame{
		locals: make(map[string]Value),
		object: object,
		class:  class,
	}
	i.bind(f, m.Parameters, args)
	i.declare(f, m.Locals)
	i.declare(f, m.Returns)

	i.execBlock(f, m.Statements)

	ret := make([]Value, 0, len(m.Returns))
	for _, decl := range m.Returns {
		ret = append(ret, f.lookup(decl.Name))
	}
	i.pos = prev

	return ret
}

// callConstructor populates object's members with zero values and runs c,
// which may be nil for a class that declares no constructors.
func (i *Interpreter) callConstructor(object *Object, c *ast.Constructor, args []Value) {
	plog.Tracef("constructing %s", object.Class.Name)

	prev := i.pos
	f := &frame{
		locals: make(map[string]Value),
		object: object,
		class:  object.Class,
	}
	if c == nil {
		i.bind(f, nil, args)
	} else {
		i.bind(f, c.Parameters, args)
	}
	for _, member := range object.Class.Members {
		object.Fields[member.Name] = i.zeroValue(member.Type)
	}
	if c != nil {
		i.declare(f, c.Locals)
		i.execBlock(f, c.Statements)
	}
	i.pos = prev
}

func (i *Interpreter) execBlock(f *frame, statements []ast.Statement) {
	for _, statement := range statements {
		i.exec(f, statement)
	}
}

func (i *Interpreter) exec(f *frame, statement ast.Statement) {
	switch s := statement.(type) {
	case ast.Assignment:
		i.at(s.Pos)
		target := f.lookup(s.Target.Name)
		must(target.Assign(i.eval(f, s.Value)))
	case ast.MethodCall:
		i.at(s.Pos)
		ret := i.call(f, s.Call, len(s.Returns))
		i.at(s.Pos)
		// targets past the last returned value keep their contents
		for idx, target := range s.Returns {
			if idx >= len(ret) {
				plog.Debugf("%s returned %d values for %d targets", s.Call, len(ret), len(s.Returns))
				break
			}
			must(f.lookup(target.Name).Assign(ret[idx]))
		}
	case ast.Loop:
		i.loop(f, s)
	case ast.If:
		i.at(s.Pos)
		if i.condition(f, s.Condition) {
			i.execBlock(f, s.Then)
		} else if s.Else != nil {
			i.execBlock(f, s.Else.Statements)
		}
	default:
		panic(fmt.Sprintf("unhandled statement %T", statement))
	}
}

func (i *Interpreter) condition(f *frame, expr ast.Expression) bool {
	v := i.eval(f, expr)
	b, ok := v.(*Boolean)
	if !ok {
		fail(errors.NonBooleanCondition, "condition %s is a %s", expr, v.TypeName())
	}
	return b.Value
}

func (i *Interpreter) loop(f *frame, s ast.Loop) {
	i.at(s.Pos)
	if s.Variable == nil {
		for i.condition(f, s.Condition) {
			i.execBlock(f, s.Body)
			i.at(s.Pos)
		}
		return
	}

	target := f.lookup(s.Variable.Name)
	source := i.eval(f, s.Condition)
	if it, ok := source.(*Object); ok {
		i.iterate(f, s, it)
		return
	}
	if it, ok := target.(*Object); ok {
		i.iterate(f, s, it)
		return
	}

	// a boolean condition that is also recorded in the loop variable
	for {
		b, ok := source.(*Boolean)
		if !ok {
			fail(errors.MalformedIterator, "loop source %s is a %s, not an iterator", s.Condition, source.TypeName())
		}
		must(target.Assign(b))
		if !b.Value {
			return
		}
		i.execBlock(f, s.Body)
		i.at(s.Pos)
		source = i.eval(f, s.Condition)
	}
}

func implements(class *ast.Class, iface string) bool {
	for _, name := range class.Interfaces {
		if name == iface {
			return true
		}
	}
	return false
}

// iterate calls it.getNext() until its first return is false, storing the
// second return in the loop variable before each pass over the body.
func (i *Interpreter) iterate(f *frame, s ast.Loop, it *Object) {
	if !implements(it.Class, "iterator") {
		fail(errors.MalformedIterator, "class %s does not implement iterator", it.Class.Name)
	}

	var getNext *ast.MethodDeclaration
	for _, m := range it.Class.Methods {
		if m.Name == "getNext" && len(m.Parameters) == 0 && len(m.Returns) == 2 {
			getNext = m
			break
		}
	}
	if getNext == nil {
		fail(errors.MalformedIterator, "class %s has no getNext() returning two values", it.Class.Name)
	}

	name := s.Variable.Name
	for {
		ret := i.callMethod(it.Class, it, getNext, nil)
		i.at(s.Pos)

		more, ok := ret[0].(*Boolean)
		if !ok {
			fail(errors.MalformedIterator, "getNext() of %s must return a boolean first", it.Class.Name)
		}
		if !more.Value {
			return
		}

		if target := f.lookup(name); target == Value(it) {
			f.rebind(name, ret[1].Copy())
		} else {
			must(target.Assign(ret[1]))
		}
		i.execBlock(f, s.Body)
	}
}
