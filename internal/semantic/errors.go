package semantic

import "github.com/nhatcher/keithc/internal/token"

// Error is a SemanticError: duplicate name, undefined name, wrong
// arity, an unresolved color, or a constant-folding failure bubbled up
// from internal/consteval.
type Error struct {
	Message string
	At      token.Position
}

func (e *Error) Error() string      { return e.Message }
func (e *Error) Pos() token.Position { return e.At }
