package interp

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pontaoski/tran/ast"
	"github.com/pontaoski/tran/errors"
)

// Value is a runtime value. Every variable slot holds exactly one, and
// assignment always writes into the existing slot.
type Value interface {
	// Assign overwrites the receiver with in. Objects copy fields.
	Assign(in Value) error
	// Copy returns an independent value with the same contents.
	Copy() Value
	String() string
	TypeName() string
}

type Number struct{ Value float64 }
type String struct{ Value string }
type Boolean struct{ Value bool }
type Char struct{ Value rune }

// Object is an instance of Class. Fields is empty until the instance is
// populated by `new`.
type Object struct {
	Class  *ast.Class
	Fields map[string]Value
}

func NewObject(class *ast.Class) *Object {
	return &Object{
		Class:  class,
		Fields: make(map[string]Value),
	}
}

func mismatch(into, from Value) error {
	return errors.NewRuntimeError(errors.TypeMismatch, "cannot assign a %s to a %s", from.TypeName(), into.TypeName())
}

func (n *Number) Assign(in Value) error {
	v, ok := in.(*Number)
	if !ok {
		return mismatch(n, in)
	}
	n.Value = v.Value
	return nil
}

func (s *String) Assign(in Value) error {
	v, ok := in.(*String)
	if !ok {
		return mismatch(s, in)
	}
	s.Value = v.Value
	return nil
}

func (b *Boolean) Assign(in Value) error {
	v, ok := in.(*Boolean)
	if !ok {
		return mismatch(b, in)
	}
	b.Value = v.Value
	return nil
}

func (c *Char) Assign(in Value) error {
	v, ok := in.(*Char)
	if !ok {
		return mismatch(c, in)
	}
	c.Value = v.Value
	return nil
}

// Assign replaces o's fields with copies of in's. Both must be instances of
// the same class; afterwards they share nothing.
func (o *Object) Assign(in Value) error {
	v, ok := in.(*Object)
	if !ok {
		return mismatch(o, in)
	}
	if v.Class.Name != o.Class.Name {
		return errors.NewRuntimeError(errors.TypeMismatch, "cannot assign an object of class %s to one of class %s", v.Class.Name, o.Class.Name)
	}
	if v == o {
		return nil
	}

	fields := make(map[string]Value, len(v.Fields))
	for name, field := range v.Fields {
		fields[name] = field.Copy()
	}
	o.Fields = fields
	return nil
}

func (n *Number) Copy() Value  { return &Number{n.Value} }
func (s *String) Copy() Value  { return &String{s.Value} }
func (b *Boolean) Copy() Value { return &Boolean{b.Value} }
func (c *Char) Copy() Value    { return &Char{c.Value} }

func (o *Object) Copy() Value {
	ret := NewObject(o.Class)
	for name, field := range o.Fields {
		ret.Fields[name] = field.Copy()
	}
	return ret
}

func (n *Number) TypeName() string  { return "number" }
func (s *String) TypeName() string  { return "string" }
func (b *Boolean) TypeName() string { return "boolean" }
func (c *Char) TypeName() string    { return "character" }
func (o *Object) TypeName() string  { return o.Class.Name }

func (n *Number) String() string  { return FormatNumber(n.Value) }
func (s *String) String() string  { return s.Value }
func (b *Boolean) String() string { return strconv.FormatBool(b.Value) }
func (c *Char) String() string    { return string(c.Value) }

// String lists the fields one per line, sorted by name.
func (o *Object) String() string {
	names := make([]string, 0, len(o.Fields))
	for name := range o.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(name)
		sb.WriteString(" : ")
		sb.WriteString(o.Fields[name].String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatNumber renders a number the way the console shows it: the shortest
// digits that round-trip, always with a fractional part ("6.0"), switching
// to exponent form ("1.0E7", "1.0E-4") outside [0.001, 10000000).
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	abs := math.Abs(f)
	if abs == 0 || (abs >= 1e-3 && abs < 1e7) {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	s := strconv.FormatFloat(f, 'E', -1, 64)
	idx := strings.IndexByte(s, 'E')
	mantissa, exp := s[:idx], s[idx+1:]
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	e, _ := strconv.Atoi(exp)
	return mantissa + "E" + strconv.Itoa(e)
}

// zeroValue is the initial value of a variable of the named type. Class
// typed variables start as empty instances.
func (i *Interpreter) zeroValue(typ string) Value {
	switch typ {
	case "number":
		return &Number{}
	case "string":
		return &String{}
	case "boolean":
		return &Boolean{}
	case "character":
		return &Char{' '}
	}

	if class, ok := i.registry.class(typ); ok {
		return NewObject(class)
	}
	panic(errors.NewRuntimeError(errors.UnresolvedType, "unknown type %s", typ))
}
