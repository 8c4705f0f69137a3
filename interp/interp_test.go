package interp

import (
	"math"
	"reflect"
	"testing"

	"github.com/alecthomas/repr"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/tran/errors"
	"github.com/pontaoski/tran/parser"
)

func run(t *testing.T, src string) (*Buffer, error) {
	t.Helper()

	prog, err := parser.ParseString(src, "test.tran")
	if err != nil {
		t.Fatalf("parsing: %s", err)
	}

	buf := &Buffer{}
	return buf, New(prog, buf).Run()
}

func mustRun(t *testing.T, src string) []string {
	t.Helper()

	buf, err := run(t, src)
	if err != nil {
		t.Fatalf("running: %s", err)
	}
	return buf.Records
}

func runtimeError(t *testing.T, src string) errors.RuntimeError {
	t.Helper()

	_, err := run(t, src)
	if err == nil {
		t.Fatalf("expected a runtime error")
	}
	rerr, ok := tracerr.Unwrap(err).(errors.RuntimeError)
	if !ok {
		t.Fatalf("expected a RuntimeError, got %T: %s", tracerr.Unwrap(err), err)
	}
	return rerr
}

func expectRecords(t *testing.T, src string, want ...string) {
	t.Helper()

	got := mustRun(t, src)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got  %s\nwant %s", repr.String(got), repr.String(want))
	}
}

func TestSimplePrograms(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []string
	}{
		{
			"write a number",
			`class SimpleRun
    shared start()
        number x
        x = 6
        console.write(x)
`,
			[]string{"6.0"},
		},
		{
			"two writes",
			`class SimpleRun
    shared start()
        number result
        result = 5 * 10
        console.write(result + 1)
        console.write("hi")
`,
			[]string{"51.0", "hi"},
		},
		{
			"addition",
			`class SimpleAdd
    shared start()
        number x
        number y
        number z
        x = 6
        y = 6
        z = x + y
        console.write(z)
`,
			[]string{"12.0"},
		},
		{
			"instance method",
			`class SimpleAdd
    number x
    number y
    construct()
        x = 6
        y = 6
    add()
        number z
        z = x + y
        console.write(z)
    shared start()
        SimpleAdd t
        t = new SimpleAdd()
        t.add()
`,
			[]string{"12.0"},
		},
		{
			"grouping",
			`class Grouping
    shared start()
        number a
        a = 1+(6-5)+7
        console.write(a)
`,
			[]string{"9.0"},
		},
		{
			"several arguments make one record",
			`class Mixed
    shared start()
        console.write("a" + "b", ' ', true, " ", 7 % 4, " ", 1 / 4)
`,
			[]string{"ab true 3.0 0.25"},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			expectRecords(t, c.src, c.want...)
		})
	}
}

func TestBooleanLoop(t *testing.T) {
	src := "class LoopOne\n" +
		"    shared start()\n" +
		"        boolean keepGoing\n" +
		"        number n\n" +
		"        n = 0\n" +
		"        keepGoing = true\n" +
		"        loop keepGoing\n" +
		"        \t  if n >= 15\n" +
		"                keepGoing = false\n" +
		"            else\n" +
		"                n = n + 1\n" +
		"                console.write(n)\n"

	got := mustRun(t, src)
	if len(got) != 15 {
		t.Fatalf("got %d records: %s", len(got), repr.String(got))
	}
	if got[0] != "1.0" || got[14] != "15.0" {
		t.Errorf("got first %q and last %q", got[0], got[14])
	}
}

func TestStudents(t *testing.T) {
	src := "class student\n" +
		"    number gradea\n" +
		"    number gradeb\n" +
		"    number gradec\n" +
		"    string firstname\n" +
		"    string lastname\n" +
		"    construct (string fname, string lname, number ga, number gb, number gc)\n" +
		"        firstname = fname\n" +
		"        lastname = lname\n" +
		"        gradea = ga\n" +
		"        gradeb = gb\n" +
		"        gradec = gc\n" +
		"    getAverage() : number avg \n" +
		"        avg = (gradea + gradeb + gradec)/3\n" +
		"    print() \n" +
		"        console.write(firstname, \" \", lastname, \" \", getAverage())\n" +
		"    shared start()\n" +
		"        student sa\n" +
		"        student sb\n" +
		"        student sc\n" +
		"        sa = new student(\"michael\",\"phipps\",100,99,98)\n" +
		"        sb = new student(\"tom\",\"johnson\",80,75,83)\n" +
		"        sc = new student(\"bart\",\"simpson\",32,25,33)\n" +
		"        sa.print()\n" +
		"        sb.print()\n" +
		"        sc.print()\n"

	got := mustRun(t, src)
	if len(got) != 3 {
		t.Fatalf("got %d records: %s", len(got), repr.String(got))
	}
	if got[0] != "michael phipps 99.0" {
		t.Errorf("got %q", got[0])
	}
	if got[2] != "bart simpson 30.0" {
		t.Errorf("got %q", got[2])
	}
}

func TestAssignmentCopiesObjects(t *testing.T) {
	expectRecords(t, `class point
    number x
    construct(number ix)
        x = ix
    setX(number v)
        x = v
    getX() : number v
        v = x
    shared start()
        point a
        point b
        a = new point(1)
        b = new point(2)
        b = a
        a.setX(5)
        console.write(b.getX(), " ", a.getX())
`, "1.0 5.0")
}

func TestArgumentsAlias(t *testing.T) {
	expectRecords(t, `class alias
    shared bump(number n)
        n = n + 1
    shared start()
        number x
        x = 1
        bump(x)
        console.write(x)
`, "2.0")
}

func TestMultipleReturns(t *testing.T) {
	expectRecords(t, `class multi
    shared five() : number a, number b, number c, number d, number e
        a = 1
        b = 2
        c = 3
        d = 4
        e = 5
    shared start()
        number a
        number b
        number c
        number d
        number e
        a,b,c,d,e = five()
        console.write(a, b, c, d, e)
        console.write(multi.five())
`, "1.02.03.04.05.0", "1.0")
}

func TestIteratorLoop(t *testing.T) {
	expectRecords(t, `interface iterator
    getNext() : boolean more, number value

class counter implements iterator
    number at
    number limit
    construct(number n)
        limit = n
    getNext() : boolean more, number value
        more = at < limit
        at = at + 1
        value = at
    shared start()
        counter c
        number x
        c = new counter(3)
        loop x = c
            console.write(x)
        console.write("done at ", x)
`, "1.0", "2.0", "3.0", "done at 3.0")
}

func TestLoopRecordsCondition(t *testing.T) {
	expectRecords(t, `class recorder
    shared start()
        boolean going
        number n
        loop going = n < 3
            n = n + 1
        console.write(n, " ", going)
`, "3.0 false")
}

func TestResolution(t *testing.T) {
	expectRecords(t, `interface shape
    area() : number a

class square implements shape
    number side
    construct(number s)
        side = s
    area() : number a
        a = side * side

class a
    shared pick(number n)
        console.write("first")
    shared pick(number n)
        console.write("second")
    shared pick(string s)
        console.write("string")
    shared show(character c)
        console.write("char ", c)
    shared measure(shape s)
        console.write(s.area())
    shared start()
        square sq
        pick(1)
        pick("x")
        show(65)
        show('z')
        sq = new square(3)
        measure(sq)
`, "first", "string", "char 65.0", "char z", "9.0")
}

func TestDefaultConstructor(t *testing.T) {
	expectRecords(t, `class plain
    number n
    string s
    show()
        console.write(n, "[", s, "]")
    shared start()
        plain p
        p = new plain()
        p.show()
`, "0.0[]")
}

func TestRuntimeErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		kind errors.RuntimeErrorKind
	}{
		{
			"division by zero",
			`class div
    shared start()
        number x
        x = 1
        x = x / 0
`,
			errors.DivisionByZero,
		},
		{
			"missing start",
			`class a
    private shared start()
        number x
    start()
        number x
`,
			errors.MissingEntryPoint,
		},
		{
			"non boolean condition",
			`class a
    shared start()
        if 1
            console.write("no")
`,
			errors.NonBooleanCondition,
		},
		{
			"non boolean loop",
			`class a
    shared start()
        loop "forever"
            console.write("no")
`,
			errors.NonBooleanCondition,
		},
		{
			"assigning the wrong type",
			`class a
    shared start()
        number x
        x = "s"
`,
			errors.TypeMismatch,
		},
		{
			"adding a string to a number",
			`class a
    shared start()
        number x
        x = 1 + "s"
`,
			errors.TypeMismatch,
		},
		{
			"assigning another class",
			`class b
    number n
class a
    shared start()
        a x
        x = new b()
`,
			errors.TypeMismatch,
		},
		{
			"unknown variable",
			`class a
    shared start()
        y = 1
`,
			errors.UnresolvedVariable,
		},
		{
			"unknown class",
			`class a
    shared start()
        number x
        x = new nope()
`,
			errors.UnresolvedClass,
		},
		{
			"unknown parameter type",
			`class a
    shared take(widget w)
        console.write("no")
    shared start()
        take(1)
`,
			errors.UnresolvedType,
		},
		{
			"unknown method",
			`class a
    shared start()
        nothing()
`,
			errors.UnresolvedMethod,
		},
		{
			"instance method from a shared context",
			`class a
    helper()
        console.write("no")
    shared start()
        helper()
`,
			errors.UnresolvedMethod,
		},
		{
			"no matching constructor",
			`class a
    construct(number n)
        console.write("no")
    shared start()
        a x
        x = new a("s")
`,
			errors.UnresolvedMethod,
		},
		{
			"missing return values",
			`class a
    shared start()
        number x
        x = console.write(1)
`,
			errors.ReturnCount,
		},
		{
			"not an iterator",
			`class counter
    getNext() : boolean more, number value
        more = false
    shared start()
        counter c
        number x
        loop x = c
            console.write(x)
`,
			errors.MalformedIterator,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rerr := runtimeError(t, c.src)
			if rerr.Kind != c.kind {
				t.Errorf("got %s (%s), want %s", rerr.Kind, rerr.Message, c.kind)
			}
		})
	}
}

func TestErrorLocation(t *testing.T) {
	rerr := runtimeError(t, `class div
    shared half(number n) : number h
        h = n / 2
    shared start()
        number x
        x = 0 + half(4) / 0
`)
	if rerr.Location == nil {
		t.Fatalf("error has no location")
	}
	if rerr.Location.From.Line != 6 {
		t.Errorf("got line %d, want 6", rerr.Location.From.Line)
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{6, "6.0"},
		{0, "0.0"},
		{-2, "-2.0"},
		{0.5, "0.5"},
		{0.001, "0.001"},
		{99, "99.0"},
		{123456.789, "123456.789"},
		{1e7, "1.0E7"},
		{1.5e-4, "1.5E-4"},
		{2.5e10, "2.5E10"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
	}

	for _, c := range cases {
		if got := FormatNumber(c.in); got != c.want {
			t.Errorf("FormatNumber(%v): got %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFewerReturnsThanTargets(t *testing.T) {
	expectRecords(t, `class Short
    shared start()
        number a
        number b
        a = 5
        a, b = console.write("x")
        console.write(a, " ", b)
`, "x", "5.0 0.0")
}
