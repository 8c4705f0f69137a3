package main

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/alecthomas/repr"

	"github.com/pontaoski/tran/interp"
)

func TestInitModule(t *testing.T) {
	dir := t.TempDir()

	if err := initModule(dir, "hello"); err != nil {
		t.Fatalf("init: %s", err)
	}

	doc, err := readModule(dir)
	if err != nil {
		t.Fatalf("reading module: %s", err)
	}
	want := tranModule{Package: "hello", Entry: defaultEntry}
	if doc != want {
		t.Errorf("got %s, want %s", repr.String(doc), repr.String(want))
	}

	src, err := ioutil.ReadFile(filepath.Join(dir, defaultEntry))
	if err != nil {
		t.Fatalf("reading entry: %s", err)
	}
	if string(src) != helloWorld {
		t.Errorf("unexpected starter program %q", src)
	}
}

func TestInitKeepsExistingEntry(t *testing.T) {
	dir := t.TempDir()
	mine := []byte("class mine\n")

	if err := ioutil.WriteFile(filepath.Join(dir, defaultEntry), mine, 0644); err != nil {
		t.Fatal(err)
	}
	if err := initModule(dir, "mine"); err != nil {
		t.Fatalf("init: %s", err)
	}

	src, err := ioutil.ReadFile(filepath.Join(dir, defaultEntry))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(src, mine) {
		t.Errorf("entry overwritten: %q", src)
	}
}

func TestModuleDefaults(t *testing.T) {
	dir := t.TempDir()

	if err := writeModule(dir, tranModule{Package: "bare"}); err != nil {
		t.Fatal(err)
	}
	doc, err := readModule(dir)
	if err != nil {
		t.Fatal(err)
	}
	if doc.entry() != defaultEntry {
		t.Errorf("entry defaulted to %q", doc.entry())
	}

	if err := writeModule(dir, tranModule{Package: "custom", Entry: "app.tran", LogLevel: "DEBUG"}); err != nil {
		t.Fatal(err)
	}
	doc, err = readModule(dir)
	if err != nil {
		t.Fatal(err)
	}
	if doc.entry() != "app.tran" || doc.LogLevel != "DEBUG" {
		t.Errorf("unexpected module %s", repr.String(doc))
	}
}

func TestReadModuleMissing(t *testing.T) {
	if _, err := readModule(t.TempDir()); err == nil {
		t.Errorf("expected an error for a directory without module information")
	}
}

func TestRunSource(t *testing.T) {
	buf := &interp.Buffer{}

	if err := runSource(helloWorld, "main.tran", buf); err != nil {
		t.Fatalf("running: %s", err)
	}
	if !reflect.DeepEqual(buf.Records, []string{"hello, world"}) {
		t.Errorf("got %s", repr.String(buf.Records))
	}
}

func TestRunSourceErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"lexing", "class a\n    shared start()\n        x = 1 ; 2\n"},
		{"parsing", "class\n"},
		{"running", "class a\n    helper()\n        number x\n"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := runSource(c.src, "bad.tran", &interp.Buffer{}); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}

func TestDumpTokens(t *testing.T) {
	var out bytes.Buffer

	if err := dumpTokens(&out, "class a\n", "t.tran", false); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	want := []string{
		"t.tran:1:1\tCLASS(class)",
		"t.tran:1:7\tWORD(a)",
		"t.tran:1:8\tNEWLINE",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("got  %s\nwant %s", repr.String(lines), repr.String(want))
	}

	if err := dumpTokens(&out, "\"open", "t.tran", false); err == nil {
		t.Errorf("expected a lex error")
	}
}

func TestSession(t *testing.T) {
	var out bytes.Buffer
	s := &session{out: &out}

	if s.prompt() != promptMain {
		t.Errorf("fresh session should use the main prompt")
	}
	for _, line := range strings.Split(strings.TrimSuffix(helloWorld, "\n"), "\n") {
		if !s.handle(line) {
			t.Fatalf("session ended early")
		}
	}
	if s.prompt() != promptCont {
		t.Errorf("session with lines should use the continuation prompt")
	}
	if s.source() != helloWorld {
		t.Errorf("source is %q", s.source())
	}

	s.handle(":run")
	if out.String() != "hello, world\n" {
		t.Errorf("run printed %q", out.String())
	}

	out.Reset()
	s.handle(":bogus")
	if !strings.HasPrefix(out.String(), "unknown command") {
		t.Errorf("unexpected reply %q", out.String())
	}

	s.handle(":reset")
	if s.source() != "" {
		t.Errorf("reset kept %q", s.source())
	}
	if s.handle(":quit") {
		t.Errorf(":quit should end the session")
	}
}
