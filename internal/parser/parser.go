// Package parser implements a two-token-lookahead, Pratt-style
// operator-precedence parser that turns a Keith token stream into a
// syntax tree.
package parser

import (
	"strconv"

	"github.com/nhatcher/keithc/internal/ast"
	"github.com/nhatcher/keithc/internal/lexer"
	"github.com/nhatcher/keithc/internal/token"
)

// Binding powers for the four-level precedence table: + - bind
// loosest, * / next, ^ tightest.
const (
	lowest  = 0
	sum     = 1
	product = 3
	power   = 5
)

var precedences = map[token.Type]int{
	token.PLUS:     sum,
	token.MINUS:    sum,
	token.ASTERISK: product,
	token.SLASH:    product,
	token.CARET:    power,
}

// Parser owns a Lexer and keeps exactly two tokens of lookahead.
type Parser struct {
	l       *lexer.Lexer
	current token.Token
	peek    token.Token
	err     error // first error wins; nil once set elsewhere is ignored

	prefixFns map[token.Type]func() ast.Expression
	infixFns  map[token.Type]func(ast.Expression) ast.Expression
}

// New creates a Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixFns = map[token.Type]func() ast.Expression{
		token.NUMBER: p.parseNumberLiteral,
		token.PLUS:   p.parseUnaryExpression,
		token.MINUS:  p.parseUnaryExpression,
		token.LPAREN: p.parseGroupedExpression,
		token.IDENT:  p.parseIdentifierExpr,
	}

	p.infixFns = map[token.Type]func(ast.Expression) ast.Expression{
		token.PLUS:     p.parseBinaryExpression,
		token.MINUS:    p.parseBinaryExpression,
		token.ASTERISK: p.parseBinaryExpression,
		token.SLASH:    p.parseBinaryExpression,
		token.CARET:    p.parseBinaryExpression,
	}

	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.current = p.peek
	tok := p.l.NextToken()
	if tok.Type == token.ILLEGAL && p.err == nil {
		p.err = &LexError{Message: tok.Literal, At: tok.Pos}
	}
	p.peek = tok
}

func (p *Parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// expectPeek checks that the next token has type tt, advances onto it,
// and reports false (recording an error) otherwise.
func (p *Parser) expectPeek(tt token.Type) bool {
	if p.err != nil {
		return false
	}
	if p.peek.Type != tt {
		p.fail(unexpectedToken(p.peek, tt.String()))
		return false
	}
	p.advance()
	return true
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peek.Type]; ok {
		return pr
	}
	return lowest
}

// ParseProgram parses the full input as a sequence of
// semicolon-terminated statements, returning the first error
// encountered (lexical or syntactic).
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}

	for p.current.Type != token.EOF {
		if p.err != nil {
			return nil, p.err
		}

		stmt := p.parseStatement()
		if p.err != nil {
			return nil, p.err
		}
		prog.Statements = append(prog.Statements, stmt)

		if !p.expectPeek(token.SEMI) {
			return nil, p.err
		}
		p.advance()
	}

	return prog, nil
}

func (p *Parser) parseStatement() ast.Statement {
	if p.current.Type != token.IDENT {
		p.fail(unexpectedToken(p.current, "a statement"))
		return nil
	}

	nameTok := p.current
	name := nameTok.Literal

	if name == "Plot" && p.peek.Type == token.LPAREN {
		p.advance() // current = LPAREN
		return p.parsePlotStatement(nameTok)
	}

	if p.peek.Type == token.LPAREN {
		p.advance() // current = LPAREN
		return p.parseFunctionStatement(nameTok)
	}

	if p.peek.Type == token.ASSIGN {
		p.advance() // current = ASSIGN
		if p.peek.Type == token.LBRACE {
			p.advance() // current = LBRACE
			return p.parseSliderStatement(nameTok)
		}
		p.advance() // current = start of value expression
		value := p.parseExpression(lowest)
		return &ast.ConstStatement{Token: nameTok, Name: name, Value: value}
	}

	p.fail(unexpectedToken(p.peek, "'(' or '='"))
	return nil
}

func (p *Parser) parseSliderStatement(nameTok token.Token) ast.Statement {
	p.advance() // current = start of default expr
	def := p.parseExpression(lowest)
	if !p.expectPeek(token.COMMA) {
		return nil
	}
	p.advance()
	min := p.parseExpression(lowest)
	if !p.expectPeek(token.COMMA) {
		return nil
	}
	p.advance()
	max := p.parseExpression(lowest)
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return &ast.SliderStatement{Token: nameTok, Name: nameTok.Literal, Default: def, Min: min, Max: max}
}

func (p *Parser) parseFunctionStatement(nameTok token.Token) ast.Statement {
	var params []string

	if p.peek.Type == token.RPAREN {
		p.advance() // current = RPAREN
	} else {
		p.advance() // current = first parameter
		if p.current.Type != token.IDENT {
			p.fail(unexpectedToken(p.current, "a parameter name"))
			return nil
		}
		params = append(params, p.current.Literal)

		for p.peek.Type == token.COMMA {
			p.advance() // current = COMMA
			p.advance() // current = next parameter
			if p.current.Type != token.IDENT {
				p.fail(unexpectedToken(p.current, "a parameter name"))
				return nil
			}
			params = append(params, p.current.Literal)
		}

		if !p.expectPeek(token.RPAREN) {
			return nil
		}
	}

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.advance() // current = start of body
	body := p.parseExpression(lowest)

	return &ast.FunctionStatement{Token: nameTok, Name: nameTok.Literal, Parameters: params, Body: body}
}

// parsePlotStatement parses `( PlotTarget , XRange (, YRange)? )`. PRE:
// current is the opening LPAREN.
func (p *Parser) parsePlotStatement(plotTok token.Token) ast.Statement {
	p.advance() // current = start of PlotTarget

	var functions []*ast.PlotFunction
	if p.current.Type == token.LBRACKET {
		p.advance() // current = start of first PlotFunction
		functions = append(functions, p.parsePlotFunction())
		for p.peek.Type == token.COMMA {
			p.advance()
			p.advance()
			functions = append(functions, p.parsePlotFunction())
		}
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
	} else {
		functions = append(functions, p.parsePlotFunction())
	}
	if p.err != nil {
		return nil
	}

	if !p.expectPeek(token.COMMA) {
		return nil
	}
	p.advance() // current = LBRACE of XRange
	xrange := p.parseRange(true)

	var yrange *ast.Range
	if p.peek.Type == token.COMMA {
		p.advance() // current = COMMA
		p.advance() // current = LBRACE of YRange
		yr := p.parseRange(false)
		yrange = &yr
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return &ast.PlotStatement{Token: plotTok, Functions: functions, XRange: xrange, YRange: yrange}
}

func (p *Parser) parsePlotFunction() *ast.PlotFunction {
	opts := ast.PlotOptions{Color: "black", Width: 1}

	if p.current.Type == token.LBRACE {
		p.advance() // current = start of expr
		body := p.parseExpression(lowest)
		for p.peek.Type == token.COMMA {
			p.advance() // current = COMMA
			p.advance() // current = option name
			p.parsePlotOption(&opts)
			if p.err != nil {
				return nil
			}
		}
		if !p.expectPeek(token.RBRACE) {
			return nil
		}
		return &ast.PlotFunction{Body: body, Options: opts}
	}

	body := p.parseExpression(lowest)
	return &ast.PlotFunction{Body: body, Options: opts}
}

func (p *Parser) parsePlotOption(opts *ast.PlotOptions) {
	if p.current.Type != token.IDENT {
		p.fail(unexpectedToken(p.current, "option name"))
		return
	}
	name := p.current.Literal

	if !p.expectPeek(token.ASSIGN) {
		return
	}

	switch name {
	case "color":
		if !p.expectPeek(token.STRING) {
			return
		}
		opts.Color = p.current.Literal
	case "width":
		if !p.expectPeek(token.NUMBER) {
			return
		}
		v, err := strconv.ParseFloat(p.current.Literal, 64)
		if err != nil {
			p.fail(&ParseError{Message: "malformed width option", At: p.current.Pos})
			return
		}
		opts.Width = int(v)
	default:
		p.fail(&ParseError{Message: "unknown plot option '" + name + "'", At: p.current.Pos})
	}
}

// parseRange parses `{bound, lower, upper}` when withBound is true, or
// `{lower, upper}` otherwise. PRE: current is the opening LBRACE.
func (p *Parser) parseRange(withBound bool) ast.Range {
	var r ast.Range

	if withBound {
		p.advance() // current = bound name
		if p.current.Type != token.IDENT {
			p.fail(unexpectedToken(p.current, "a bound variable name"))
			return r
		}
		r.Bound = p.current.Literal
		if !p.expectPeek(token.COMMA) {
			return r
		}
	}

	p.advance() // current = start of lower bound
	r.Lower = p.parseExpression(lowest)
	if !p.expectPeek(token.COMMA) {
		return r
	}
	p.advance() // current = start of upper bound
	r.Upper = p.parseExpression(lowest)
	p.expectPeek(token.RBRACE)
	return r
}

// parseExpression is the Pratt-loop core. PRE: current is the first
// token of the expression. POST: current is the expression's last
// token.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parsePrefix()

	for p.peek.Type != token.SEMI && precedence < p.peekPrecedence() {
		infix, ok := p.infixFns[p.peek.Type]
		if !ok {
			return left
		}
		p.advance()
		left = infix(left)
	}

	return left
}

func (p *Parser) parsePrefix() ast.Expression {
	fn, ok := p.prefixFns[p.current.Type]
	if !ok {
		p.fail(unexpectedToken(p.current, "an expression"))
		return nil
	}
	return fn()
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	tok := p.current
	v, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.fail(&ParseError{Message: "malformed numeric literal '" + tok.Literal + "'", At: tok.Pos})
		return nil
	}
	return &ast.NumberLiteral{Token: tok, Value: v}
}

// parseUnaryExpression handles a prefix +/- applied to a primary. Per
// spec this binds to the immediately following primary only (so a
// unary minus never swallows a whole binary expression): "- -3" is
// valid, "-3*4" parses as "(-3)*4".
func (p *Parser) parseUnaryExpression() ast.Expression {
	opTok := p.current
	p.advance()
	operand := p.parsePrefix()
	return &ast.UnaryExpression{Token: opTok, Operator: opTok.Type, Operand: operand}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.advance() // current = first token inside parens
	expr := p.parseExpression(lowest)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

// parseBinaryExpression recurses for the right operand with a binding
// power one less than the operator's own for ^, making it
// right-associative, and with the operator's own binding power for
// everything else, which the strict "<" loop test above already makes
// left-associative. This reproduces the right-associativity the
// source's binding-power parser gets from reusing the same l_bp,
// expressed for this precedence-table style of Pratt loop.
func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	opTok := p.current
	prec := precedences[opTok.Type]

	rhsPrecedence := prec
	if opTok.Type == token.CARET {
		rhsPrecedence = prec - 1
	}

	p.advance() // current = start of right operand
	right := p.parseExpression(rhsPrecedence)

	return &ast.BinaryExpression{Token: opTok, Operator: opTok.Type, Left: left, Right: right}
}

func (p *Parser) parseIdentifierExpr() ast.Expression {
	identTok := p.current
	name := identTok.Literal

	if p.peek.Type != token.LPAREN {
		return &ast.Identifier{Token: identTok, Name: name}
	}

	switch name {
	case "If":
		return p.parseIfExpression(identTok)
	case "Sum":
		return p.parseSumExpression(identTok)
	default:
		return p.parseCallExpression(identTok, name)
	}
}

func (p *Parser) parseCallExpression(identTok token.Token, name string) ast.Expression {
	p.advance() // current = LPAREN

	var args []ast.Expression
	if p.peek.Type == token.RPAREN {
		p.advance() // current = RPAREN, zero args
	} else {
		p.advance() // current = start of first arg
		args = append(args, p.parseExpression(lowest))
		for p.peek.Type == token.COMMA {
			p.advance()
			p.advance()
			args = append(args, p.parseExpression(lowest))
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
	}

	return &ast.CallExpression{Token: identTok, Callee: name, Args: args}
}

func (p *Parser) parseIfExpression(ifTok token.Token) ast.Expression {
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.advance() // current = start of left comparand
	left := p.parseExpression(lowest)

	if !p.peek.Type.IsComparator() {
		p.fail(unexpectedToken(p.peek, "a comparator (= < > <= >=)"))
		return nil
	}
	p.advance() // current = comparator
	comparator := p.current.Type

	p.advance() // current = start of right comparand
	right := p.parseExpression(lowest)

	if !p.expectPeek(token.COMMA) {
		return nil
	}
	p.advance() // current = start of then-branch
	thenExpr := p.parseExpression(lowest)

	if !p.expectPeek(token.COMMA) {
		return nil
	}
	p.advance() // current = start of else-branch
	elseExpr := p.parseExpression(lowest)

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return &ast.IfExpression{Token: ifTok, Left: left, Comparator: comparator, Right: right, Then: thenExpr, Else: elseExpr}
}

func (p *Parser) parseSumExpression(sumTok token.Token) ast.Expression {
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.advance() // current = start of body
	body := p.parseExpression(lowest)

	if !p.expectPeek(token.COMMA) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.advance() // current = bound name
	if p.current.Type != token.IDENT {
		p.fail(unexpectedToken(p.current, "a bound variable name"))
		return nil
	}
	bound := p.current.Literal

	if !p.expectPeek(token.COMMA) {
		return nil
	}
	p.advance() // current = start of lower bound
	lower := p.parseExpression(lowest)

	if !p.expectPeek(token.COMMA) {
		return nil
	}
	p.advance() // current = start of upper bound
	upper := p.parseExpression(lowest)

	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return &ast.SumExpression{Token: sumTok, Body: body, Bound: bound, Lower: lower, Upper: upper}
}
