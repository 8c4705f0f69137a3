package errors

import (
	"fmt"
	"strings"

	"github.com/pontaoski/tran/types"
)

type LexError struct {
	Message  string
	Location types.Position
}

func (e LexError) Error() string {
	return fmt.Sprintf("%s. %s", e.Message, e.Location)
}

func (e LexError) Line() int   { return e.Location.Line }
func (e LexError) Column() int { return e.Location.Column }

type ParseError struct {
	Message  string
	Location types.Span
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s. %s", e.Message, e.Location)
}

func (e ParseError) Line() int   { return e.Location.From.Line }
func (e ParseError) Column() int { return e.Location.From.Column }

// ExpectedOneOfKindGotKind builds the parse error for a token that is not one of the expected kinds.
func ExpectedOneOfKindGotKind(got types.Token, expected ...types.TokenKind) ParseError {
	names := make([]string, 0, len(expected))
	for _, kind := range expected {
		names = append(names, kind.String())
	}

	return ParseError{
		Message:  fmt.Sprintf("got a %s, expected one of %s", got.Kind, strings.Join(names, ", ")),
		Location: got.Location,
	}
}

type RuntimeErrorKind int

const (
	UnresolvedMethod RuntimeErrorKind = iota
	UnresolvedClass
	UnresolvedType
	UnresolvedVariable
	ArgumentCount
	ReturnCount
	TypeMismatch
	DivisionByZero
	MalformedIterator
	NonBooleanCondition
	MissingEntryPoint
)

func (k RuntimeErrorKind) String() string {
	data := map[RuntimeErrorKind]string{
		UnresolvedMethod:    "unresolved method",
		UnresolvedClass:     "unresolved class",
		UnresolvedType:      "unresolved type",
		UnresolvedVariable:  "unresolved variable",
		ArgumentCount:       "argument count",
		ReturnCount:         "return count",
		TypeMismatch:        "type mismatch",
		DivisionByZero:      "division by zero",
		MalformedIterator:   "malformed iterator",
		NonBooleanCondition: "non-boolean condition",
		MissingEntryPoint:   "missing entry point",
	}
	return data[k]
}

// RuntimeError stops a run. Location is the statement being executed, when known.
type RuntimeError struct {
	Kind     RuntimeErrorKind
	Message  string
	Location *types.Span
}

func (e RuntimeError) Error() string {
	if e.Location == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s. %s", e.Kind, e.Message, *e.Location)
}

func NewRuntimeError(kind RuntimeErrorKind, msg string, fmts ...interface{}) RuntimeError {
	return RuntimeError{
		Kind:    kind,
		Message: fmt.Sprintf(msg, fmts...),
	}
}
