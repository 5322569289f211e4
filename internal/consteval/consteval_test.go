package consteval

import (
	"math"
	"testing"

	"github.com/nhatcher/keithc/internal/ast"
	"github.com/nhatcher/keithc/internal/lexer"
	"github.com/nhatcher/keithc/internal/parser"
)

func evalSource(t *testing.T, src string, env Env) (float64, error) {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	stmt, ok := prog.Statements[0].(*ast.ConstStatement)
	if !ok {
		t.Fatalf("expected a ConstStatement, got %T", prog.Statements[0])
	}
	return Eval(stmt.Value, env)
}

func TestEvalNumber(t *testing.T) {
	v, err := evalSource(t, "r = 42;", nil)
	if err != nil || v != 42 {
		t.Fatalf("got (%v, %v), want (42, nil)", v, err)
	}
}

func TestEvalVariableLookup(t *testing.T) {
	v, err := evalSource(t, "r = pi;", Env{"pi": 3.25})
	if err != nil || v != 3.25 {
		t.Fatalf("got (%v, %v), want (3.25, nil)", v, err)
	}
}

func TestEvalUndefinedVariable(t *testing.T) {
	_, err := evalSource(t, "r = ghost;", Env{})
	if err == nil {
		t.Fatal("expected an error for an undefined name")
	}
}

func TestEvalArithmetic(t *testing.T) {
	v, err := evalSource(t, "r = 2 + 3 * 4 - 1;", nil)
	if err != nil || v != 13 {
		t.Fatalf("got (%v, %v), want (13, nil)", v, err)
	}
}

// TestEvalUnaryMinusNegates guards the fixed bug: the unary minus arm
// must actually negate its operand, not return it unchanged.
func TestEvalUnaryMinusNegates(t *testing.T) {
	v, err := evalSource(t, "r = -5;", nil)
	if err != nil || v != -5 {
		t.Fatalf("got (%v, %v), want (-5, nil)", v, err)
	}
}

func TestEvalDoubleUnaryMinus(t *testing.T) {
	v, err := evalSource(t, "r = - -5;", nil)
	if err != nil || v != 5 {
		t.Fatalf("got (%v, %v), want (5, nil)", v, err)
	}
}

func TestEvalUnaryPlusIsIdentity(t *testing.T) {
	v, err := evalSource(t, "r = +5;", nil)
	if err != nil || v != 5 {
		t.Fatalf("got (%v, %v), want (5, nil)", v, err)
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	_, err := evalSource(t, "r = 1 / 0;", nil)
	if err == nil {
		t.Fatal("expected a division-by-zero error")
	}
}

func TestEvalPower(t *testing.T) {
	v, err := evalSource(t, "r = 2 ^ 10;", nil)
	if err != nil || v != 1024 {
		t.Fatalf("got (%v, %v), want (1024, nil)", v, err)
	}
}

func TestEvalPowerRightAssociative(t *testing.T) {
	v, err := evalSource(t, "r = 2 ^ 2 ^ 3;", nil)
	if err != nil || v != 256 { // 2^(2^3) = 2^8 = 256, not (2^2)^3 = 64
		t.Fatalf("got (%v, %v), want (256, nil)", v, err)
	}
}

func TestEvalNonFinitePropagates(t *testing.T) {
	v, err := evalSource(t, "r = (-8) ^ 0.5;", nil)
	if err != nil {
		t.Fatalf("expected non-finite result to propagate without error, got %v", err)
	}
	if !math.IsNaN(v) {
		t.Fatalf("got %v, want NaN", v)
	}
}

func TestEvalFunctionCallIsError(t *testing.T) {
	_, err := evalSource(t, "r = Sin(1);", nil)
	if err == nil {
		t.Fatal("expected an error for FunctionCall in a constant context")
	}
}

func TestEvalIfExpressionIsError(t *testing.T) {
	_, err := evalSource(t, "r = If(1 > 0, 1, 2);", nil)
	if err == nil {
		t.Fatal("expected an error for If in a constant context")
	}
}

func TestEvalSumExpressionIsError(t *testing.T) {
	_, err := evalSource(t, "r = Sum(k, {k, 0, 10});", nil)
	if err == nil {
		t.Fatal("expected an error for Sum in a constant context")
	}
}
