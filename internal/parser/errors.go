package parser

import (
	"fmt"

	"github.com/nhatcher/keithc/internal/token"
)

// LexError wraps an ILLEGAL token surfaced by the lexer.
type LexError struct {
	Message string
	At      token.Position
}

func (e *LexError) Error() string          { return e.Message }
func (e *LexError) Pos() token.Position     { return e.At }

// ParseError is an unexpected-token error: it names the token that was
// seen and, where useful, what was expected.
type ParseError struct {
	Message string
	At      token.Position
}

func (e *ParseError) Error() string      { return e.Message }
func (e *ParseError) Pos() token.Position { return e.At }

func unexpectedToken(tok token.Token, want string) *ParseError {
	return &ParseError{
		Message: fmt.Sprintf("unexpected token %s, expected %s", tok, want),
		At:      tok.Pos,
	}
}
