// Package semantic implements the single forward pass over a parsed
// program: name resolution, arity checking, and constant folding of
// every declaration-position expression, producing a SymbolTable the
// emitter can consume without ever touching the AST's general
// expression forms again in those positions.
package semantic

import (
	"fmt"
	"strconv"

	"github.com/nhatcher/keithc/internal/ast"
	"github.com/nhatcher/keithc/internal/consteval"
	"github.com/nhatcher/keithc/internal/token"
)

type analyzer struct {
	sym *SymbolTable
}

// Analyze walks prog once, in statement order, rejecting duplicate or
// undefined names and bad arities, folding every constant position in
// place, and returns the resulting symbol table.
func Analyze(prog *ast.Program) (*SymbolTable, error) {
	a := &analyzer{sym: newSymbolTable()}
	for _, stmt := range prog.Statements {
		if err := a.analyzeStatement(stmt); err != nil {
			return nil, err
		}
	}
	return a.sym, nil
}

func (a *analyzer) analyzeStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.ConstStatement:
		return a.analyzeConst(s)
	case *ast.SliderStatement:
		return a.analyzeSlider(s)
	case *ast.FunctionStatement:
		return a.analyzeFunction(s)
	case *ast.PlotStatement:
		return a.analyzePlot(s)
	default:
		return &Error{Message: "unrecognized statement", At: stmt.Pos()}
	}
}

func (a *analyzer) analyzeConst(s *ast.ConstStatement) error {
	if a.sym.nameTaken(s.Name) {
		return &Error{Message: fmt.Sprintf("name %q is already declared", s.Name), At: s.Pos()}
	}
	pos := s.Value.Pos()
	v, err := consteval.Eval(s.Value, a.sym.constEnv())
	if err != nil {
		return err
	}
	s.Value = foldedNumber(pos, v)
	a.sym.Constants = append(a.sym.Constants, Constant{Name: s.Name, Value: v})
	return nil
}

func (a *analyzer) analyzeSlider(s *ast.SliderStatement) error {
	if a.sym.nameTaken(s.Name) {
		return &Error{Message: fmt.Sprintf("name %q is already declared", s.Name), At: s.Pos()}
	}
	env := a.sym.constEnv()

	defPos := s.Default.Pos()
	def, err := consteval.Eval(s.Default, env)
	if err != nil {
		return err
	}
	minPos := s.Min.Pos()
	min, err := consteval.Eval(s.Min, env)
	if err != nil {
		return err
	}
	maxPos := s.Max.Pos()
	max, err := consteval.Eval(s.Max, env)
	if err != nil {
		return err
	}

	s.Default = foldedNumber(defPos, def)
	s.Min = foldedNumber(minPos, min)
	s.Max = foldedNumber(maxPos, max)

	a.sym.Sliders = append(a.sym.Sliders, Slider{Name: s.Name, Default: def, Min: min, Max: max})
	return nil
}

func (a *analyzer) analyzeFunction(s *ast.FunctionStatement) error {
	if a.sym.nameTaken(s.Name) {
		return &Error{Message: fmt.Sprintf("name %q is already declared", s.Name), At: s.Pos()}
	}

	locals := make(map[string]bool, len(s.Parameters))
	for _, p := range s.Parameters {
		if locals[p] {
			return &Error{Message: fmt.Sprintf("duplicate parameter name %q in %s", p, s.Name), At: s.Pos()}
		}
		locals[p] = true
	}

	if err := a.analyzeExpr(s.Body, locals); err != nil {
		return err
	}

	a.sym.Functions = append(a.sym.Functions, Function{Name: s.Name, Arity: len(s.Parameters)})
	return nil
}

func (a *analyzer) analyzePlot(s *ast.PlotStatement) error {
	if a.sym.Plot != nil {
		return &Error{Message: "a program may contain at most one Plot statement", At: s.Pos()}
	}

	locals := map[string]bool{s.XRange.Bound: true}
	curves := make([]PlotCurve, 0, len(s.Functions))
	for _, f := range s.Functions {
		if err := a.analyzeExpr(f.Body, locals); err != nil {
			return err
		}
		if _, ok := ColorValue(f.Options.Color); !ok {
			return &Error{Message: fmt.Sprintf("unknown plot color %q", f.Options.Color), At: f.Body.Pos()}
		}
		curves = append(curves, PlotCurve{Color: f.Options.Color, Width: f.Options.Width})
	}

	env := a.sym.constEnv()

	xLowerPos := s.XRange.Lower.Pos()
	xLower, err := consteval.Eval(s.XRange.Lower, env)
	if err != nil {
		return err
	}
	xUpperPos := s.XRange.Upper.Pos()
	xUpper, err := consteval.Eval(s.XRange.Upper, env)
	if err != nil {
		return err
	}
	s.XRange.Lower = foldedNumber(xLowerPos, xLower)
	s.XRange.Upper = foldedNumber(xUpperPos, xUpper)

	info := &PlotInfo{Functions: curves, XBound: s.XRange.Bound, XLower: xLower, XUpper: xUpper}

	if s.YRange != nil {
		yLowerPos := s.YRange.Lower.Pos()
		yLower, err := consteval.Eval(s.YRange.Lower, env)
		if err != nil {
			return err
		}
		yUpperPos := s.YRange.Upper.Pos()
		yUpper, err := consteval.Eval(s.YRange.Upper, env)
		if err != nil {
			return err
		}
		s.YRange.Lower = foldedNumber(yLowerPos, yLower)
		s.YRange.Upper = foldedNumber(yUpperPos, yUpper)
		info.HasYRange = true
		info.YLower = yLower
		info.YUpper = yUpper
	}

	a.sym.Plot = info
	return nil
}

// analyzeExpr recurses through an expression in a runtime (non-folded)
// position, validating every name and call against locals and the
// symbol table so far, and accumulating referenced builtins.
func (a *analyzer) analyzeExpr(expr ast.Expression, locals map[string]bool) error {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return nil

	case *ast.Identifier:
		if locals[e.Name] || a.sym.isDeclaredConstantOrSlider(e.Name) {
			return nil
		}
		return &Error{Message: fmt.Sprintf("undefined name %q", e.Name), At: e.Pos()}

	case *ast.UnaryExpression:
		return a.analyzeExpr(e.Operand, locals)

	case *ast.BinaryExpression:
		if err := a.analyzeExpr(e.Left, locals); err != nil {
			return err
		}
		if e.Operator == token.CARET {
			a.sym.Builtins["Pow"] = true // '^' is emitted as a call to Pow
		}
		return a.analyzeExpr(e.Right, locals)

	case *ast.CallExpression:
		return a.analyzeCall(e, locals)

	case *ast.IfExpression:
		for _, sub := range [...]ast.Expression{e.Left, e.Right, e.Then, e.Else} {
			if err := a.analyzeExpr(sub, locals); err != nil {
				return err
			}
		}
		return nil

	case *ast.SumExpression:
		return a.analyzeSum(e, locals)

	default:
		return &Error{Message: "unrecognized expression", At: expr.Pos()}
	}
}

func (a *analyzer) analyzeCall(e *ast.CallExpression, locals map[string]bool) error {
	for _, arg := range e.Args {
		if err := a.analyzeExpr(arg, locals); err != nil {
			return err
		}
	}

	name := e.Callee
	if isBuiltinName(name) {
		arity, ok := builtinArity[name]
		if !ok {
			return &Error{Message: fmt.Sprintf("undefined builtin %q", name), At: e.Pos()}
		}
		if arity != len(e.Args) {
			return &Error{Message: fmt.Sprintf("%s expects %d argument(s), got %d", name, arity, len(e.Args)), At: e.Pos()}
		}
		a.sym.Builtins[name] = true
		return nil
	}

	fn, ok := a.sym.function(name)
	if !ok {
		return &Error{Message: fmt.Sprintf("undefined function %q", name), At: e.Pos()}
	}
	if fn.Arity != len(e.Args) {
		return &Error{Message: fmt.Sprintf("%s expects %d argument(s), got %d", name, fn.Arity, len(e.Args)), At: e.Pos()}
	}
	return nil
}

// analyzeSum folds the loop bounds to numbers (the emitter requires
// this — see the Sum lowering note in internal/emitter) and recurses
// into the body with the bound variable shadowing any outer name of
// the same spelling.
func (a *analyzer) analyzeSum(e *ast.SumExpression, locals map[string]bool) error {
	env := a.sym.constEnv()

	lowerPos := e.Lower.Pos()
	lower, err := consteval.Eval(e.Lower, env)
	if err != nil {
		return err
	}
	upperPos := e.Upper.Pos()
	upper, err := consteval.Eval(e.Upper, env)
	if err != nil {
		return err
	}
	e.Lower = foldedNumber(lowerPos, lower)
	e.Upper = foldedNumber(upperPos, upper)

	inner := make(map[string]bool, len(locals)+1)
	for k, v := range locals {
		inner[k] = v
	}
	inner[e.Bound] = true

	return a.analyzeExpr(e.Body, inner)
}

func isBuiltinName(name string) bool {
	return len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
}

func foldedNumber(pos token.Position, v float64) *ast.NumberLiteral {
	return &ast.NumberLiteral{
		Token: token.Token{Type: token.NUMBER, Literal: strconv.FormatFloat(v, 'g', -1, 64), Pos: pos},
		Value: v,
	}
}
