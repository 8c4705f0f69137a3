package lexer

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/coreos/pkg/capnslog"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/tran/errors"
	"github.com/pontaoski/tran/types"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/tran", "lexer")

var punctuation = map[rune]types.TokenKind{
	'=': types.ASSIGN,
	'(': types.LPAREN,
	')': types.RPAREN,
	'+': types.PLUS,
	'-': types.MINUS,
	'*': types.TIMES,
	'/': types.DIVIDE,
	'%': types.MODULO,
	'.': types.DOT,
	',': types.COMMA,
	':': types.COLON,
	'<': types.LESSTHAN,
	'>': types.GREATERTHAN,
	'!': types.NOT,
}

var doublePunctuation = map[string]types.TokenKind{
	">=": types.GREATERTHANEQUAL,
	"<=": types.LESSTHANEQUAL,
	"==": types.EQUAL,
	"!=": types.NOTEQUAL,
	"&&": types.AND,
	"||": types.OR,
}

var keywords = map[string]types.TokenKind{
	"accessor":   types.ACCESSOR,
	"mutator":    types.MUTATOR,
	"implements": types.IMPLEMENTS,
	"class":      types.CLASS,
	"interface":  types.INTERFACE,
	"loop":       types.LOOP,
	"if":         types.IF,
	"else":       types.ELSE,
	"true":       types.TRUE,
	"false":      types.FALSE,
	"new":        types.NEW,
	"shared":     types.SHARED,
	"private":    types.PRIVATE,
	"construct":  types.CONSTRUCT,
}

type Lexer struct {
	pos    types.Position
	reader *bufio.Reader
	tokens []types.Token
	// levels is the stack of open indentation levels; the bottom is always 0.
	levels []int
}

func NewLexer(reader io.Reader, filename string) *Lexer {
	return &Lexer{
		pos:    types.Position{Line: 1, Column: 0, Filename: filename},
		reader: bufio.NewReader(reader),
		levels: []int{0},
	}
}

// Lex tokenizes the whole input. Every INDENT is matched by a DEDENT, and the
// stream always ends with NEWLINE followed by any DEDENTs still open.
func Lex(src, filename string) ([]types.Token, error) {
	return NewLexer(strings.NewReader(src), filename).Lex()
}

func (l *Lexer) Lex() (tokens []types.Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			lerr, ok := r.(errors.LexError)
			if !ok {
				panic(r)
			}
			tokens = nil
			err = tracerr.Wrap(lerr)
		}
	}()

	for {
		r, ok := l.read()
		if !ok {
			break
		}
		at := l.pos

		switch {
		case r == '\n':
			l.newline(at)
		case r == '{':
			l.comment(at)
		case r == '"':
			l.quotedString(at)
		case r == '\'':
			l.quotedCharacter(at)
		case unicode.IsLetter(r):
			l.backup()
			l.word()
		case unicode.IsDigit(r):
			l.backup()
			l.number()
		case unicode.IsSpace(r):
			continue
		default:
			l.punctuation(r, at)
		}
	}

	l.finish()
	return l.tokens, nil
}

func (l *Lexer) read() (rune, bool) {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		if err == io.EOF {
			return 0, false
		}
		panic(err)
	}

	l.pos.Column++
	return r, true
}

func (l *Lexer) backup() {
	if err := l.reader.UnreadRune(); err != nil {
		panic(err)
	}

	l.pos.Column--
}

func (l *Lexer) peek() (rune, bool) {
	r, ok := l.read()
	if ok {
		l.backup()
	}
	return r, ok
}

func (l *Lexer) nextLine() {
	l.pos.Line++
	l.pos.Column = 0
}

func (l *Lexer) emit(kind types.TokenKind, from, to types.Position, text string) {
	tok := types.Token{
		Kind:     kind,
		Location: types.Span{From: from, To: to},
		Text:     text,
	}
	plog.Tracef("%s at %s", tok, from)
	l.tokens = append(l.tokens, tok)
}

func (l *Lexer) fail(at types.Position, msg string) {
	panic(errors.LexError{
		Message:  msg,
		Location: at,
	})
}

func (l *Lexer) word() {
	var lit strings.Builder
	from := types.Position{Line: l.pos.Line, Column: l.pos.Column + 1, Filename: l.pos.Filename}

	for {
		r, ok := l.read()
		if !ok {
			break
		}
		if !unicode.IsLetter(r) {
			l.backup()
			break
		}
		lit.WriteRune(r)
	}

	if kind, ok := keywords[lit.String()]; ok {
		l.emit(kind, from, l.pos, lit.String())
		return
	}
	l.emit(types.WORD, from, l.pos, lit.String())
}

func (l *Lexer) digits(lit *strings.Builder) {
	for {
		r, ok := l.read()
		if !ok {
			return
		}
		if !unicode.IsDigit(r) {
			l.backup()
			return
		}
		lit.WriteRune(r)
	}
}

func (l *Lexer) number() {
	var lit strings.Builder
	from := types.Position{Line: l.pos.Line, Column: l.pos.Column + 1, Filename: l.pos.Filename}

	l.digits(&lit)
	if r, ok := l.peek(); ok && r == '.' {
		l.read()
		lit.WriteRune('.')
		l.digits(&lit)
	}

	l.emit(types.NUMBER, from, l.pos, lit.String())
}

func (l *Lexer) punctuation(r rune, at types.Position) {
	if next, ok := l.peek(); ok {
		pair := string(r) + string(next)
		if kind, ok := doublePunctuation[pair]; ok {
			l.read()
			l.emit(kind, at, l.pos, pair)
			return
		}
	}

	if kind, ok := punctuation[r]; ok {
		l.emit(kind, at, at, string(r))
		return
	}

	l.fail(at, "unknown character "+strconv.QuoteRune(r))
}

func (l *Lexer) quotedString(at types.Position) {
	var lit strings.Builder

	for {
		r, ok := l.read()
		if !ok {
			l.fail(at, "unterminated string")
		}
		if r == '"' {
			l.emit(types.QUOTEDSTRING, at, l.pos, lit.String())
			return
		}
		if r == '\n' {
			l.nextLine()
		}
		lit.WriteRune(r)
	}
}

func (l *Lexer) quotedCharacter(at types.Position) {
	c, ok := l.read()
	if !ok {
		l.fail(at, "unterminated character")
	}
	if c == '\n' {
		l.nextLine()
	}

	closing, ok := l.read()
	if !ok || closing != '\'' {
		l.fail(at, "unterminated character")
	}

	l.emit(types.QUOTEDCHARACTER, at, l.pos, string(c))
}

// comment skips a brace comment. Braces nest.
func (l *Lexer) comment(at types.Position) {
	depth := 1

	for depth > 0 {
		r, ok := l.read()
		if !ok {
			l.fail(at, "unterminated comment")
		}

		switch r {
		case '{':
			depth++
		case '}':
			depth--
		case '\n':
			l.nextLine()
		}
	}
}

func (l *Lexer) newline(at types.Position) {
	l.emit(types.NEWLINE, at, at, "")
	l.nextLine()

	for {
		level, blank := l.measureIndentation()
		if !blank {
			l.indentTo(level)
			return
		}

		// skip the blank line, including its newline if it has one
		if _, ok := l.read(); !ok {
			return
		}
		l.nextLine()
	}
}

// measureIndentation consumes leading whitespace. A tab or a run of four
// spaces is one level. blank reports a line with nothing else on it.
func (l *Lexer) measureIndentation() (level int, blank bool) {
	spaces := 0

	for {
		r, ok := l.read()
		if !ok {
			return level, true
		}

		switch r {
		case '\t':
			level++
		case ' ':
			spaces++
			if spaces == 4 {
				level++
				spaces = 0
			}
		case '\r':
		case '\n':
			l.backup()
			return level, true
		default:
			l.backup()
			return level, false
		}
	}
}

func (l *Lexer) top() int {
	return l.levels[len(l.levels)-1]
}

func (l *Lexer) indentTo(level int) {
	at := types.Position{Line: l.pos.Line, Column: l.pos.Column + 1, Filename: l.pos.Filename}

	if level > l.top() {
		l.levels = append(l.levels, level)
		l.emit(types.INDENT, at, at, "")
		return
	}

	for len(l.levels) > 1 && l.top() > level {
		l.levels = l.levels[:len(l.levels)-1]
		l.emit(types.DEDENT, at, at, "")
	}
}

func (l *Lexer) finish() {
	at := types.Position{Line: l.pos.Line, Column: l.pos.Column + 1, Filename: l.pos.Filename}

	if len(l.tokens) > 0 && l.tokens[len(l.tokens)-1].Kind != types.NEWLINE {
		l.emit(types.NEWLINE, at, at, "")
	}
	for len(l.levels) > 1 {
		l.levels = l.levels[:len(l.levels)-1]
		l.emit(types.DEDENT, at, at, "")
	}
}
