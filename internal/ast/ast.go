// Package ast defines the Keith syntax tree: a small family of
// Expression and Statement sum types built as tagged structs behind
// two marker interfaces, matched by type switch at every traversal
// site (analyzer, constant evaluator, emitter, printer).
package ast

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/nhatcher/keithc/internal/token"
)

// Node is the interface every syntax tree node implements.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() token.Position
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any top-level declaration or directive.
type Statement interface {
	Node
	statementNode()
}

// Program is the root node: an ordered sequence of statements.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) Pos() token.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return token.Position{}
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteString(";\n")
	}
	return out.String()
}

// ---- Expressions ----------------------------------------------------

// NumberLiteral is a floating-point constant.
type NumberLiteral struct {
	Token token.Token
	Value float64
}

func (n *NumberLiteral) expressionNode()          {}
func (n *NumberLiteral) TokenLiteral() string     { return n.Token.Literal }
func (n *NumberLiteral) Pos() token.Position      { return n.Token.Pos }
func (n *NumberLiteral) String() string           { return formatFloat(n.Value) }

// Identifier is a bare name used in expression position: a parameter,
// constant, or slider reference.
type Identifier struct {
	Token token.Token
	Name  string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) Pos() token.Position  { return i.Token.Pos }
func (i *Identifier) String() string       { return i.Name }

// BinaryExpression is `left OP right` for OP in + - * / ^.
type BinaryExpression struct {
	Token    token.Token // the operator token
	Operator token.Type
	Left     Expression
	Right    Expression
}

func (b *BinaryExpression) expressionNode()      {}
func (b *BinaryExpression) TokenLiteral() string { return b.Token.Literal }
func (b *BinaryExpression) Pos() token.Position  { return b.Token.Pos }
func (b *BinaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Operator, b.Right.String())
}

// UnaryExpression is a prefix `+` or `-` applied to an operand.
type UnaryExpression struct {
	Token    token.Token
	Operator token.Type
	Operand  Expression
}

func (u *UnaryExpression) expressionNode()      {}
func (u *UnaryExpression) TokenLiteral() string { return u.Token.Literal }
func (u *UnaryExpression) Pos() token.Position  { return u.Token.Pos }
func (u *UnaryExpression) String() string {
	return fmt.Sprintf("(%s%s)", u.Operator, u.Operand.String())
}

// CallExpression is `Callee(Args...)` — either a builtin or a
// user-defined function, disambiguated later by the analyzer on the
// capitalization of Callee.
type CallExpression struct {
	Token  token.Token // the callee identifier token
	Callee string
	Args   []Expression
}

func (c *CallExpression) expressionNode()      {}
func (c *CallExpression) TokenLiteral() string { return c.Token.Literal }
func (c *CallExpression) Pos() token.Position  { return c.Token.Pos }
func (c *CallExpression) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Callee, strings.Join(args, ", "))
}

// IfExpression is `If(Left Comparator Right, Then, Else)`.
type IfExpression struct {
	Token      token.Token
	Left       Expression
	Comparator token.Type
	Right      Expression
	Then       Expression
	Else       Expression
}

func (e *IfExpression) expressionNode()      {}
func (e *IfExpression) TokenLiteral() string { return e.Token.Literal }
func (e *IfExpression) Pos() token.Position  { return e.Token.Pos }
func (e *IfExpression) String() string {
	return fmt.Sprintf("If(%s %s %s, %s, %s)",
		e.Left.String(), e.Comparator, e.Right.String(), e.Then.String(), e.Else.String())
}

// SumExpression is `Sum(Body, {Bound, Lower, Upper})`.
type SumExpression struct {
	Token token.Token
	Body  Expression
	Bound string
	Lower Expression
	Upper Expression
}

func (s *SumExpression) expressionNode()      {}
func (s *SumExpression) TokenLiteral() string { return s.Token.Literal }
func (s *SumExpression) Pos() token.Position  { return s.Token.Pos }
func (s *SumExpression) String() string {
	return fmt.Sprintf("Sum(%s, {%s, %s, %s})", s.Body.String(), s.Bound, s.Lower.String(), s.Upper.String())
}

// ---- Statements -------------------------------------------------------

// ConstStatement is `Name = Value;`.
type ConstStatement struct {
	Token token.Token
	Name  string
	Value Expression
}

func (c *ConstStatement) statementNode()      {}
func (c *ConstStatement) TokenLiteral() string { return c.Token.Literal }
func (c *ConstStatement) Pos() token.Position  { return c.Token.Pos }
func (c *ConstStatement) String() string {
	return fmt.Sprintf("%s = %s", c.Name, c.Value.String())
}

// SliderStatement is `Name = { Default, Min, Max };`.
type SliderStatement struct {
	Token   token.Token
	Name    string
	Default Expression
	Min     Expression
	Max     Expression
}

func (s *SliderStatement) statementNode()      {}
func (s *SliderStatement) TokenLiteral() string { return s.Token.Literal }
func (s *SliderStatement) Pos() token.Position  { return s.Token.Pos }
func (s *SliderStatement) String() string {
	return fmt.Sprintf("%s = {%s, %s, %s}", s.Name, s.Default.String(), s.Min.String(), s.Max.String())
}

// FunctionStatement is `Name(Params...) = Body;`.
type FunctionStatement struct {
	Token      token.Token
	Name       string
	Parameters []string
	Body       Expression
}

func (f *FunctionStatement) statementNode()      {}
func (f *FunctionStatement) TokenLiteral() string { return f.Token.Literal }
func (f *FunctionStatement) Pos() token.Position  { return f.Token.Pos }
func (f *FunctionStatement) String() string {
	return fmt.Sprintf("%s(%s) = %s", f.Name, strings.Join(f.Parameters, ", "), f.Body.String())
}

// PlotOptions are the display options accepted by a PlotFunction.
type PlotOptions struct {
	Color string // default "black"
	Width int    // default 1
}

// PlotFunction is one curve's body plus its display options.
type PlotFunction struct {
	Body    Expression
	Options PlotOptions
}

// String renders the curve's body alone when its options are the
// defaults, or `{Body, color="...", width=N}` otherwise, matching the
// grammar parsePlotFunction/parsePlotOption accept back in.
func (f *PlotFunction) String() string {
	if f.Options.Color == "black" && f.Options.Width == 1 {
		return f.Body.String()
	}
	return fmt.Sprintf("{%s, color=%q, width=%d}", f.Body.String(), f.Options.Color, f.Options.Width)
}

// Range is a `{Bound, Lower, Upper}` iteration or x-axis range.
type Range struct {
	Bound string // empty for a y-range, which has no bound variable
	Lower Expression
	Upper Expression
}

// PlotStatement is `Plot(Functions, XRange, YRange?)`.
type PlotStatement struct {
	Token     token.Token
	Functions []*PlotFunction
	XRange    Range
	YRange    *Range // nil if omitted
}

func (p *PlotStatement) statementNode()      {}
func (p *PlotStatement) TokenLiteral() string { return p.Token.Literal }
func (p *PlotStatement) Pos() token.Position  { return p.Token.Pos }
func (p *PlotStatement) String() string {
	var out bytes.Buffer
	out.WriteString("Plot(")
	if len(p.Functions) == 1 {
		out.WriteString(p.Functions[0].String())
	} else {
		out.WriteString("[")
		parts := make([]string, len(p.Functions))
		for i, f := range p.Functions {
			parts[i] = f.String()
		}
		out.WriteString(strings.Join(parts, ", "))
		out.WriteString("]")
	}
	out.WriteString(fmt.Sprintf(", {%s, %s, %s}", p.XRange.Bound, p.XRange.Lower.String(), p.XRange.Upper.String()))
	if p.YRange != nil {
		out.WriteString(fmt.Sprintf(", {%s, %s}", p.YRange.Lower.String(), p.YRange.Upper.String()))
	}
	out.WriteString(")")
	return out.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
