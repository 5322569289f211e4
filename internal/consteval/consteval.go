// Package consteval evaluates the constant sub-expressions that appear
// in declaration positions — constant assignments, slider bounds,
// plot ranges — down to a single float64, entirely independent of any
// WASM runtime.
package consteval

import (
	"fmt"
	"math"

	"github.com/nhatcher/keithc/internal/ast"
	"github.com/nhatcher/keithc/internal/token"
)

// Error is a SemanticError raised while folding a constant expression:
// an unresolved name, a division by zero, or a construct that has no
// meaning outside a runtime (FunctionCall, If, Sum).
type Error struct {
	Message string
	At      token.Position
}

func (e *Error) Error() string      { return e.Message }
func (e *Error) Pos() token.Position { return e.At }

// Env is the set of already-declared constants visible to a fold,
// keyed by name.
type Env map[string]float64

// Eval reduces expr to a float64 using only the bindings in env. It
// supports number literals, variable lookups, and the five binary
// operators plus unary +/-. FunctionCall, IfExpression, and
// SumExpression are rejected: constant positions must evaluate
// without a runtime.
func Eval(expr ast.Expression, env Env) (float64, error) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return e.Value, nil

	case *ast.Identifier:
		v, ok := env[e.Name]
		if !ok {
			return 0, &Error{Message: fmt.Sprintf("undefined name %q in constant expression", e.Name), At: e.Pos()}
		}
		return v, nil

	case *ast.UnaryExpression:
		v, err := Eval(e.Operand, env)
		if err != nil {
			return 0, err
		}
		switch e.Operator {
		case token.PLUS:
			return v, nil
		case token.MINUS:
			return -v, nil
		default:
			return 0, &Error{Message: "unsupported unary operator in constant expression", At: e.Pos()}
		}

	case *ast.BinaryExpression:
		left, err := Eval(e.Left, env)
		if err != nil {
			return 0, err
		}
		right, err := Eval(e.Right, env)
		if err != nil {
			return 0, err
		}
		switch e.Operator {
		case token.PLUS:
			return left + right, nil
		case token.MINUS:
			return left - right, nil
		case token.ASTERISK:
			return left * right, nil
		case token.SLASH:
			if right == 0 {
				return 0, &Error{Message: "division by zero in constant expression", At: e.Pos()}
			}
			return left / right, nil
		case token.CARET:
			return math.Pow(left, right), nil
		default:
			return 0, &Error{Message: "unsupported binary operator in constant expression", At: e.Pos()}
		}

	case *ast.CallExpression:
		return 0, &Error{Message: "function calls are not allowed in a constant expression", At: e.Pos()}
	case *ast.IfExpression:
		return 0, &Error{Message: "If is not allowed in a constant expression", At: e.Pos()}
	case *ast.SumExpression:
		return 0, &Error{Message: "Sum is not allowed in a constant expression", At: e.Pos()}

	default:
		return 0, &Error{Message: "unrecognized expression in constant context", At: expr.Pos()}
	}
}
