package parser

import (
	"fmt"
	"strconv"

	"github.com/coreos/pkg/capnslog"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/tran/ast"
	"github.com/pontaoski/tran/errors"
	"github.com/pontaoski/tran/lexer"
	"github.com/pontaoski/tran/types"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/tran", "parser")

type Parser struct {
	c *lexer.Cursor
}

func NewParser(tokens []types.Token) Parser {
	return Parser{lexer.NewCursor(tokens)}
}

// ParseString lexes and parses a whole source file.
func ParseString(src, filename string) (*ast.Program, error) {
	tokens, err := lexer.Lex(src, filename)
	if err != nil {
		return nil, err
	}

	p := NewParser(tokens)
	return p.Parse()
}

// Parse stops at the first syntax error; there is no recovery.
func (p *Parser) Parse() (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(errors.ParseError)
			if !ok {
				panic(r)
			}
			prog = nil
			err = tracerr.Wrap(perr)
		}
	}()

	return p.parseProgram(), nil
}

func (p *Parser) fail(msg string, fmts ...interface{}) {
	panic(errors.ParseError{
		Message:  fmt.Sprintf(msg, fmts...),
		Location: p.c.Location(),
	})
}

// expected fails on the next token, which is known not to be one of k.
func (p *Parser) expected(k ...types.TokenKind) {
	tok, ok := p.c.Peek(0)
	if !ok {
		p.fail("unexpected end of input, expected %s", k[0])
	}
	panic(errors.ExpectedOneOfKindGotKind(tok, k...))
}

// spanFrom covers everything from `from` to the last consumed token.
func (p *Parser) spanFrom(from types.Position) types.Span {
	last, ok := p.c.Peek(-1)
	if !ok {
		return types.SingleCharSpan(from)
	}
	return types.Span{From: from, To: last.Location.To}
}

func (p *Parser) skipNewlines() {
	for {
		if _, ok := p.c.MatchAndRemove(types.NEWLINE); !ok {
			return
		}
	}
}

func (p *Parser) requireNewline() {
	p.c.LexExpecting(types.NEWLINE)
	p.skipNewlines()
}

func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{}

	p.skipNewlines()
	for !p.c.Done() {
		switch {
		case p.c.PeekIs(0, types.INTERFACE):
			prog.Interfaces = append(prog.Interfaces, p.parseInterface())
		case p.c.PeekIs(0, types.CLASS):
			prog.Classes = append(prog.Classes, p.parseClass())
		default:
			p.expected(types.CLASS, types.INTERFACE)
		}
		p.skipNewlines()
	}

	return prog
}

func (p *Parser) parseInterface() *ast.Interface {
	start := p.c.LexExpecting(types.INTERFACE)
	name := p.c.LexExpecting(types.WORD)
	iface := &ast.Interface{
		Name: name.Text,
		Pos:  p.spanFrom(start.Location.From),
	}
	plog.Tracef("interface %s", iface.Name)

	p.requireNewline()
	p.c.LexExpecting(types.INDENT)
	for {
		p.skipNewlines()
		if _, ok := p.c.MatchAndRemove(types.DEDENT); ok {
			break
		}

		iface.Methods = append(iface.Methods, p.parseMethodHeader())
		p.requireNewline()
	}

	return iface
}

func (p *Parser) parseDeclaration() ast.VariableDeclaration {
	kind := p.c.LexExpecting(types.WORD)
	name := p.c.LexExpecting(types.WORD)

	return ast.VariableDeclaration{
		Type: kind.Text,
		Name: name.Text,
	}
}

// parseDeclarations reads a possibly empty comma separated list.
func (p *Parser) parseDeclarations() []ast.VariableDeclaration {
	var decls []ast.VariableDeclaration
	if !p.c.PeekIs(0, types.WORD) {
		return decls
	}

	for {
		decls = append(decls, p.parseDeclaration())
		if _, ok := p.c.MatchAndRemove(types.COMMA); !ok {
			return decls
		}
	}
}

func (p *Parser) parseMethodHeader() ast.MethodHeader {
	name := p.c.LexExpecting(types.WORD)
	header := ast.MethodHeader{Name: name.Text}

	p.c.LexExpecting(types.LPAREN)
	header.Parameters = p.parseDeclarations()
	p.c.LexExpecting(types.RPAREN)

	if _, ok := p.c.MatchAndRemove(types.COLON); ok {
		header.Returns = p.parseDeclarations()
		if len(header.Returns) == 0 {
			p.fail("expected return declarations after ':'")
		}
	}

	return header
}

func (p *Parser) parseClass() *ast.Class {
	start := p.c.LexExpecting(types.CLASS)
	name := p.c.LexExpecting(types.WORD)
	class := &ast.Class{Name: name.Text}

	if _, ok := p.c.MatchAndRemove(types.IMPLEMENTS); ok {
		for {
			iface := p.c.LexExpecting(types.WORD)
			class.Interfaces = append(class.Interfaces, iface.Text)
			if _, ok := p.c.MatchAndRemove(types.COMMA); !ok {
				break
			}
		}
	}
	class.Pos = p.spanFrom(start.Location.From)
	plog.Tracef("class %s implements %v", class.Name, class.Interfaces)

	p.requireNewline()
	p.c.LexExpecting(types.INDENT)
	for {
		p.skipNewlines()
		if _, ok := p.c.MatchAndRemove(types.DEDENT); ok {
			break
		}

		switch {
		case p.c.PeekIs(0, types.CONSTRUCT):
			class.Constructors = append(class.Constructors, p.parseConstructor())
		case p.c.PeekIs(0, types.SHARED, types.PRIVATE):
			class.Methods = append(class.Methods, p.parseMethodDeclaration())
		case p.c.PeekIs(0, types.WORD) && p.c.PeekIs(1, types.LPAREN):
			class.Methods = append(class.Methods, p.parseMethodDeclaration())
		case p.c.PeekIs(0, types.WORD) && p.c.PeekIs(1, types.WORD):
			class.Members = append(class.Members, p.parseMember())
		case p.c.PeekIs(0, types.WORD):
			p.c.LexExpecting(types.WORD)
			p.expected(types.LPAREN, types.WORD)
		default:
			p.expected(types.CONSTRUCT, types.SHARED, types.PRIVATE, types.WORD, types.DEDENT)
		}
	}

	return class
}

func (p *Parser) parseMember() ast.Member {
	member := ast.Member{VariableDeclaration: p.parseDeclaration()}
	p.requireNewline()

	if _, ok := p.c.MatchAndRemove(types.INDENT); !ok {
		return member
	}

	p.skipNewlines()
	if _, ok := p.c.MatchAndRemove(types.ACCESSOR); ok {
		p.c.LexExpecting(types.COLON)
		p.requireNewline()
		member.Accessor = p.parseStatements()
		p.skipNewlines()
	}
	if _, ok := p.c.MatchAndRemove(types.MUTATOR); ok {
		p.c.LexExpecting(types.COLON)
		p.requireNewline()
		member.Mutator = p.parseStatements()
		p.skipNewlines()
	}
	p.c.LexExpecting(types.DEDENT)

	return member
}

func (p *Parser) parseConstructor() *ast.Constructor {
	start := p.c.LexExpecting(types.CONSTRUCT)
	constructor := &ast.Constructor{}

	p.c.LexExpecting(types.LPAREN)
	constructor.Parameters = p.parseDeclarations()
	p.c.LexExpecting(types.RPAREN)
	constructor.Pos = p.spanFrom(start.Location.From)

	p.requireNewline()
	if p.c.PeekIs(0, types.INDENT) {
		constructor.Locals, constructor.Statements = p.parseBody()
	}

	return constructor
}

func (p *Parser) parseMethodDeclaration() *ast.MethodDeclaration {
	from := p.c.Location().From
	method := &ast.MethodDeclaration{}

	for {
		if _, ok := p.c.MatchAndRemove(types.PRIVATE); ok {
			method.IsPrivate = true
			continue
		}
		if _, ok := p.c.MatchAndRemove(types.SHARED); ok {
			method.IsShared = true
			continue
		}
		break
	}

	method.MethodHeader = p.parseMethodHeader()
	method.Pos = p.spanFrom(from)
	plog.Tracef("method %s", method.MethodHeader)

	p.requireNewline()
	method.Locals, method.Statements = p.parseBody()

	return method
}

// parseBody reads an indented block of local declarations and statements.
func (p *Parser) parseBody() (locals []ast.VariableDeclaration, statements []ast.Statement) {
	p.c.LexExpecting(types.INDENT)

	for {
		p.skipNewlines()
		if _, ok := p.c.MatchAndRemove(types.DEDENT); ok {
			return
		}

		if p.c.PeekIs(0, types.WORD) && p.c.PeekIs(1, types.WORD) {
			locals = append(locals, p.parseDeclaration())
			p.requireNewline()
			continue
		}
		statements = append(statements, p.parseStatement())
	}
}

func (p *Parser) parseStatements() []ast.Statement {
	var statements []ast.Statement
	p.c.LexExpecting(types.INDENT)

	for {
		p.skipNewlines()
		if _, ok := p.c.MatchAndRemove(types.DEDENT); ok {
			return statements
		}

		statements = append(statements, p.parseStatement())
	}
}

func (p *Parser) parseStatement() ast.Statement {
	switch {
	case p.c.PeekIs(0, types.IF):
		return p.parseIf()
	case p.c.PeekIs(0, types.LOOP):
		return p.parseLoop()
	case p.c.PeekIs(0, types.WORD):
		statement := p.disambiguate()
		p.requireNewline()
		return statement
	}

	p.expected(types.IF, types.LOOP, types.WORD)
	return nil
}

// disambiguate picks the statement form from at most four tokens of lookahead.
func (p *Parser) disambiguate() ast.Statement {
	from := p.c.Location().From

	switch {
	case p.c.PeekIs(1, types.DOT, types.LPAREN):
		call := p.parseMethodCallExpression()
		return ast.MethodCall{
			Call: call,
			Pos:  p.spanFrom(from),
		}
	case p.c.PeekIs(1, types.COMMA):
		return p.parseMethodCall(from)
	case p.c.PeekIs(1, types.ASSIGN):
		if p.c.PeekIs(2, types.WORD) && p.c.PeekIs(3, types.LPAREN) {
			return p.parseMethodCall(from)
		}
		return p.parseAssignment(from)
	}

	p.c.LexExpecting(types.WORD)
	p.expected(types.DOT, types.LPAREN, types.COMMA, types.ASSIGN)
	return nil
}

func (p *Parser) parseMethodCall(from types.Position) ast.MethodCall {
	var returns []ast.VariableReference

	for {
		name := p.c.LexExpecting(types.WORD)
		returns = append(returns, ast.VariableReference{Name: name.Text})
		if _, ok := p.c.MatchAndRemove(types.COMMA); !ok {
			break
		}
	}
	p.c.LexExpecting(types.ASSIGN)
	call := p.parseMethodCallExpression()

	return ast.MethodCall{
		Call:    call,
		Returns: returns,
		Pos:     p.spanFrom(from),
	}
}

func (p *Parser) parseAssignment(from types.Position) ast.Assignment {
	target := p.c.LexExpecting(types.WORD)
	p.c.LexExpecting(types.ASSIGN)
	value := p.parseBoolExpTerm()

	return ast.Assignment{
		Target: ast.VariableReference{Name: target.Text},
		Value:  value,
		Pos:    p.spanFrom(from),
	}
}

func (p *Parser) parseIf() ast.If {
	start := p.c.LexExpecting(types.IF)
	statement := ast.If{Condition: p.parseBoolExpTerm()}
	statement.Pos = p.spanFrom(start.Location.From)

	p.requireNewline()
	statement.Then = p.parseStatements()

	if _, ok := p.c.MatchAndRemove(types.ELSE); ok {
		p.requireNewline()
		statement.Else = &ast.Else{Statements: p.parseStatements()}
	}

	return statement
}

func (p *Parser) parseLoop() ast.Loop {
	start := p.c.LexExpecting(types.LOOP)
	var statement ast.Loop

	if p.c.PeekIs(0, types.WORD) && p.c.PeekIs(1, types.ASSIGN) {
		name := p.c.LexExpecting(types.WORD)
		p.c.LexExpecting(types.ASSIGN)
		statement.Variable = &ast.VariableReference{Name: name.Text}
	}
	statement.Condition = p.parseBoolExpTerm()
	statement.Pos = p.spanFrom(start.Location.From)

	p.requireNewline()
	if p.c.PeekIs(0, types.INDENT) {
		statement.Body = p.parseStatements()
	}

	return statement
}

// parseBoolExpTerm binds `and` tighter than `or`; the right side of an `or`
// takes everything after it.
func (p *Parser) parseBoolExpTerm() ast.Expression {
	left := p.parseBoolExpFactor()

	for {
		if _, ok := p.c.MatchAndRemove(types.AND); ok {
			left = ast.BooleanOp{
				Left:  left,
				Right: p.parseBoolExpFactor(),
				Op:    ast.And,
			}
			continue
		}
		if _, ok := p.c.MatchAndRemove(types.OR); ok {
			return ast.BooleanOp{
				Left:  left,
				Right: p.parseBoolExpTerm(),
				Op:    ast.Or,
			}
		}
		return left
	}
}

var comparisons = map[types.TokenKind]ast.CompareOperator{
	types.EQUAL:            ast.Equal,
	types.NOTEQUAL:         ast.NotEqual,
	types.LESSTHAN:         ast.Less,
	types.GREATERTHAN:      ast.Greater,
	types.LESSTHANEQUAL:    ast.LessEqual,
	types.GREATERTHANEQUAL: ast.GreaterEqual,
}

// parseBoolExpFactor allows at most one comparison.
func (p *Parser) parseBoolExpFactor() ast.Expression {
	if _, ok := p.c.MatchAndRemove(types.NOT); ok {
		return ast.Not{Operand: p.parseBoolExpFactor()}
	}

	left := p.parseExpression()

	tok, ok := p.c.Peek(0)
	if !ok {
		return left
	}
	op, ok := comparisons[tok.Kind]
	if !ok {
		return left
	}
	p.c.LexExpecting(tok.Kind)

	return ast.Compare{
		Left:  left,
		Right: p.parseExpression(),
		Op:    op,
	}
}

func (p *Parser) parseExpression() ast.Expression {
	left := p.parseTerm()

	for {
		switch {
		case p.c.PeekIs(0, types.PLUS):
			p.c.LexExpecting(types.PLUS)
			left = ast.MathOp{Left: left, Right: p.parseTerm(), Op: ast.Add}
		case p.c.PeekIs(0, types.MINUS):
			p.c.LexExpecting(types.MINUS)
			left = ast.MathOp{Left: left, Right: p.parseTerm(), Op: ast.Subtract}
		default:
			return left
		}
	}
}

func (p *Parser) parseTerm() ast.Expression {
	left := p.parseFactor()

	for {
		switch {
		case p.c.PeekIs(0, types.TIMES):
			p.c.LexExpecting(types.TIMES)
			left = ast.MathOp{Left: left, Right: p.parseFactor(), Op: ast.Multiply}
		case p.c.PeekIs(0, types.DIVIDE):
			p.c.LexExpecting(types.DIVIDE)
			left = ast.MathOp{Left: left, Right: p.parseFactor(), Op: ast.Divide}
		case p.c.PeekIs(0, types.MODULO):
			p.c.LexExpecting(types.MODULO)
			left = ast.MathOp{Left: left, Right: p.parseFactor(), Op: ast.Modulo}
		default:
			return left
		}
	}
}

func (p *Parser) parseFactor() ast.Expression {
	tok, ok := p.c.Peek(0)
	if !ok {
		p.fail("unexpected end of input, expected an expression")
	}

	switch tok.Kind {
	case types.TRUE:
		p.c.LexExpecting(types.TRUE)
		return ast.BooleanLiteral(true)
	case types.FALSE:
		p.c.LexExpecting(types.FALSE)
		return ast.BooleanLiteral(false)
	case types.NUMBER:
		p.c.LexExpecting(types.NUMBER)
		value, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			panic(errors.ParseError{
				Message:  fmt.Sprintf("malformed number %q", tok.Text),
				Location: tok.Location,
			})
		}
		return ast.NumericLiteral(value)
	case types.QUOTEDSTRING:
		p.c.LexExpecting(types.QUOTEDSTRING)
		return ast.StringLiteral(tok.Text)
	case types.QUOTEDCHARACTER:
		p.c.LexExpecting(types.QUOTEDCHARACTER)
		return ast.CharLiteral([]rune(tok.Text)[0])
	case types.LPAREN:
		p.c.LexExpecting(types.LPAREN)
		expr := p.parseBoolExpTerm()
		p.c.LexExpecting(types.RPAREN)
		return expr
	case types.NEW:
		p.c.LexExpecting(types.NEW)
		class := p.c.LexExpecting(types.WORD)
		p.c.LexExpecting(types.LPAREN)
		return ast.New{
			Class:     class.Text,
			Arguments: p.parseArguments(),
		}
	case types.WORD:
		if p.c.PeekIs(1, types.DOT, types.LPAREN) {
			return p.parseMethodCallExpression()
		}
		p.c.LexExpecting(types.WORD)
		return ast.VariableReference{Name: tok.Text}
	}

	p.expected(types.WORD, types.NUMBER, types.QUOTEDSTRING, types.QUOTEDCHARACTER, types.TRUE, types.FALSE, types.NEW, types.LPAREN)
	return nil
}

func (p *Parser) parseMethodCallExpression() ast.MethodCallExpression {
	var call ast.MethodCallExpression

	name := p.c.LexExpecting(types.WORD)
	if _, ok := p.c.MatchAndRemove(types.DOT); ok {
		call.Object = name.Text
		name = p.c.LexExpecting(types.WORD)
	}
	call.Method = name.Text

	p.c.LexExpecting(types.LPAREN)
	call.Arguments = p.parseArguments()

	return call
}

// parseArguments should be called when the parser is past the opening paren.
func (p *Parser) parseArguments() []ast.Expression {
	var args []ast.Expression
	if _, ok := p.c.MatchAndRemove(types.RPAREN); ok {
		return args
	}

	for {
		args = append(args, p.parseBoolExpTerm())
		if tok := p.c.LexExpecting(types.COMMA, types.RPAREN); tok.Kind == types.RPAREN {
			return args
		}
	}
}
