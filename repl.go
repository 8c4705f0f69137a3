package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/peterh/liner"

	"github.com/pontaoski/tran/interp"
	"github.com/pontaoski/tran/parser"
)

const (
	historyFile = ".tran_history"
	promptMain  = "tran> "
	promptCont  = "....> "
	replHelp    = `lines are collected into a program.
:run    run the program collected so far
:ast    print the syntax tree of the program
:list   print the program
:reset  forget the program
:quit   exit`
)

// session is the program being written at the prompt.
type session struct {
	out   io.Writer
	lines []string
}

func (s *session) source() string {
	if len(s.lines) == 0 {
		return ""
	}
	return strings.Join(s.lines, "\n") + "\n"
}

// handle processes one line of input. It reports false once the user asks
// to leave.
func (s *session) handle(line string) bool {
	cmd := strings.TrimSpace(line)
	if !strings.HasPrefix(cmd, ":") {
		s.lines = append(s.lines, line)
		return true
	}

	switch strings.ToLower(cmd) {
	case ":quit":
		return false
	case ":reset":
		s.lines = nil
	case ":list":
		fmt.Fprint(s.out, s.source())
	case ":ast":
		prog, err := parser.ParseString(s.source(), "<repl>")
		if err != nil {
			fmt.Fprintln(s.out, err)
			break
		}
		repr.New(s.out).Println(prog)
	case ":run":
		if err := runSource(s.source(), "<repl>", interp.Writer{W: s.out}); err != nil {
			fmt.Fprintln(s.out, err)
		}
	case ":help":
		fmt.Fprintln(s.out, replHelp)
	default:
		fmt.Fprintf(s.out, "unknown command. Type :help for a list.\n")
	}
	return true
}

func (s *session) prompt() string {
	if len(s.lines) == 0 {
		return promptMain
	}
	return promptCont
}

func repl(out io.Writer) error {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	s := &session{out: out}
	for {
		line, err := ln.Prompt(s.prompt())
		if err == io.EOF {
			fmt.Fprintln(out)
			return nil
		}
		if err == liner.ErrPromptAborted {
			s.lines = nil
			continue
		}
		if err != nil {
			return err
		}

		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		if !s.handle(line) {
			return nil
		}
	}
}
