package interp

import (
	"bytes"
	"testing"

	"github.com/pontaoski/tran/ast"
	"github.com/pontaoski/tran/errors"
)

func TestObjectAssign(t *testing.T) {
	class := &ast.Class{Name: "pair"}
	inner := &ast.Class{Name: "box"}

	a := NewObject(class)
	a.Fields["n"] = &Number{1}
	a.Fields["box"] = &Object{Class: inner, Fields: map[string]Value{"s": &String{"x"}}}

	b := NewObject(class)
	if err := b.Assign(a); err != nil {
		t.Fatalf("assign: %s", err)
	}

	a.Fields["n"].(*Number).Value = 2
	a.Fields["box"].(*Object).Fields["s"].(*String).Value = "changed"

	if got := b.Fields["n"].(*Number).Value; got != 1 {
		t.Errorf("copied number followed the source: %v", got)
	}
	if got := b.Fields["box"].(*Object).Fields["s"].(*String).Value; got != "x" {
		t.Errorf("copied nested object followed the source: %q", got)
	}
	if b.String() != "box : s : x\n\nn : 1.0\n" {
		t.Errorf("got %q", b.String())
	}
}

func TestAssignMismatch(t *testing.T) {
	cases := []struct {
		into, from Value
	}{
		{&Number{}, &String{}},
		{&String{}, &Char{'c'}},
		{&Boolean{}, &Number{}},
		{&Char{}, &Number{65}},
		{NewObject(&ast.Class{Name: "a"}), NewObject(&ast.Class{Name: "b"})},
		{NewObject(&ast.Class{Name: "a"}), &Number{}},
	}

	for _, c := range cases {
		err := c.into.Assign(c.from)
		rerr, ok := err.(errors.RuntimeError)
		if !ok {
			t.Errorf("assigning a %s to a %s: expected a RuntimeError, got %v", c.from.TypeName(), c.into.TypeName(), err)
			continue
		}
		if rerr.Kind != errors.TypeMismatch {
			t.Errorf("got kind %s", rerr.Kind)
		}
	}
}

func TestConsoles(t *testing.T) {
	values := []Value{&String{"x = "}, &Number{6}, &Char{'!'}}

	buf := &Buffer{}
	buf.Write(values...)
	buf.Write(&Boolean{true})
	if len(buf.Records) != 2 || buf.Records[0] != "x = 6.0!" || buf.Records[1] != "true" {
		t.Errorf("got %q", buf.Records)
	}

	var out bytes.Buffer
	w := Writer{&out}
	w.Write(values...)
	w.Write()
	if out.String() != "x = 6.0!\n\n" {
		t.Errorf("got %q", out.String())
	}
}
