package lexer

import (
	"fmt"

	"github.com/pontaoski/tran/errors"
	"github.com/pontaoski/tran/types"
)

// Cursor is a consuming view over a token slice.
type Cursor struct {
	tokens []types.Token
	pos    int
}

func NewCursor(tokens []types.Token) *Cursor {
	return &Cursor{tokens: tokens}
}

func (c *Cursor) Done() bool {
	return c.pos >= len(c.tokens)
}

// Peek returns the token offset positions past the next unconsumed one.
func (c *Cursor) Peek(offset int) (types.Token, bool) {
	target := c.pos + offset
	if target < 0 || target >= len(c.tokens) {
		return types.Token{}, false
	}
	return c.tokens[target], true
}

func (c *Cursor) PeekIs(offset int, k ...types.TokenKind) bool {
	token, ok := c.Peek(offset)
	if !ok {
		return false
	}
	for _, kind := range k {
		if token.Kind == kind {
			return true
		}
	}

	return false
}

// MatchAndRemove consumes the next token only if it has the given kind.
func (c *Cursor) MatchAndRemove(kind types.TokenKind) (types.Token, bool) {
	if !c.PeekIs(0, kind) {
		return types.Token{}, false
	}

	tok := c.tokens[c.pos]
	c.pos++
	return tok, true
}

// LexExpecting consumes the next token, panicking with a ParseError when it
// is not one of k.
func (c *Cursor) LexExpecting(k ...types.TokenKind) types.Token {
	for _, kind := range k {
		if tok, ok := c.MatchAndRemove(kind); ok {
			return tok
		}
	}

	if c.Done() {
		panic(errors.ParseError{
			Message:  fmt.Sprintf("unexpected end of input, expected %s", k[0]),
			Location: c.Location(),
		})
	}
	panic(errors.ExpectedOneOfKindGotKind(c.tokens[c.pos], k...))
}

var ErrExhausted = fmt.Errorf("no more tokens")

func (c *Cursor) Line() (int, error) {
	if c.Done() {
		return 0, ErrExhausted
	}
	return c.tokens[c.pos].Location.From.Line, nil
}

func (c *Cursor) Column() (int, error) {
	if c.Done() {
		return 0, ErrExhausted
	}
	return c.tokens[c.pos].Location.From.Column, nil
}

// Location is the span of the next token, or of the last one once the
// stream is exhausted.
func (c *Cursor) Location() types.Span {
	if !c.Done() {
		return c.tokens[c.pos].Location
	}
	if len(c.tokens) == 0 {
		return types.SingleCharSpan(types.Position{Line: 1, Column: 1})
	}
	return c.tokens[len(c.tokens)-1].Location
}
