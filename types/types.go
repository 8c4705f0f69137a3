package types

import (
	"fmt"
)

type Position struct {
	Line     int
	Column   int
	Filename string
}

type Span struct {
	From Position
	To   Position
}

type TokenKind int

const (
	WORD TokenKind = iota
	NUMBER
	QUOTEDSTRING
	QUOTEDCHARACTER

	ASSIGN
	LPAREN
	RPAREN
	PLUS
	MINUS
	TIMES
	DIVIDE
	MODULO
	DOT
	COMMA
	COLON
	LESSTHAN
	GREATERTHAN
	NOT

	GREATERTHANEQUAL
	LESSTHANEQUAL
	EQUAL
	NOTEQUAL
	AND
	OR

	ACCESSOR
	MUTATOR
	IMPLEMENTS
	CLASS
	INTERFACE
	LOOP
	IF
	ELSE
	TRUE
	FALSE
	NEW
	SHARED
	PRIVATE
	CONSTRUCT

	NEWLINE
	INDENT
	DEDENT
)

var kindNames = map[TokenKind]string{
	WORD:             "WORD",
	NUMBER:           "NUMBER",
	QUOTEDSTRING:     "QUOTEDSTRING",
	QUOTEDCHARACTER:  "QUOTEDCHARACTER",
	ASSIGN:           "ASSIGN",
	LPAREN:           "LPAREN",
	RPAREN:           "RPAREN",
	PLUS:             "PLUS",
	MINUS:            "MINUS",
	TIMES:            "TIMES",
	DIVIDE:           "DIVIDE",
	MODULO:           "MODULO",
	DOT:              "DOT",
	COMMA:            "COMMA",
	COLON:            "COLON",
	LESSTHAN:         "LESSTHAN",
	GREATERTHAN:      "GREATERTHAN",
	NOT:              "NOT",
	GREATERTHANEQUAL: "GREATERTHANEQUAL",
	LESSTHANEQUAL:    "LESSTHANEQUAL",
	EQUAL:            "EQUAL",
	NOTEQUAL:         "NOTEQUAL",
	AND:              "AND",
	OR:               "OR",
	ACCESSOR:         "ACCESSOR",
	MUTATOR:          "MUTATOR",
	IMPLEMENTS:       "IMPLEMENTS",
	CLASS:            "CLASS",
	INTERFACE:        "INTERFACE",
	LOOP:             "LOOP",
	IF:               "IF",
	ELSE:             "ELSE",
	TRUE:             "TRUE",
	FALSE:            "FALSE",
	NEW:              "NEW",
	SHARED:           "SHARED",
	PRIVATE:          "PRIVATE",
	CONSTRUCT:        "CONSTRUCT",
	NEWLINE:          "NEWLINE",
	INDENT:           "INDENT",
	DEDENT:           "DEDENT",
}

func (t TokenKind) String() string {
	if name, ok := kindNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(t))
}

func (p Position) String() string {
	if p.Filename == "" {
		p.Filename = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%d:%d", s.From, s.To.Line, s.To.Column)
}

func SingleCharSpan(p Position) Span {
	return Span{p, p}
}

// Token is one lexeme. Text is empty for NEWLINE, INDENT and DEDENT.
type Token struct {
	Kind     TokenKind
	Location Span
	Text     string
}

func (t Token) String() string {
	if t.Text == "" {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", t.Kind, t.Text)
}
