package lexer

import (
	"testing"

	"github.com/nhatcher/keithc/internal/token"
)

func TestNextTokenPunctuatorsAndOperators(t *testing.T) {
	input := `+-*/^,;(){}[]= != < > <= >=`

	expected := []token.Type{
		token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.CARET,
		token.COMMA, token.SEMI, token.LPAREN, token.RPAREN, token.LBRACE,
		token.RBRACE, token.LBRACKET, token.RBRACKET, token.ASSIGN,
		token.NEQ, token.LT, token.GT, token.LTE, token.GTE, token.EOF,
	}

	l := New(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("token %d: got %s, want %s", i, tok.Type, want)
		}
	}
}

func TestNextTokenIdentifiers(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"x", "x"},
		{"myFunc", "myFunc"},
		{"width", "width"},
		{"a1_2b", "a1_2b"},
	}

	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Type != token.IDENT || tok.Literal != tt.want {
			t.Errorf("input %q: got (%s, %q), want IDENT %q", tt.input, tok.Type, tok.Literal, tt.want)
		}
	}
}

func TestNextTokenIdentifierCannotStartWithUnderscore(t *testing.T) {
	l := New("_width")
	tok := l.NextToken()
	if tok.Type == token.IDENT {
		t.Fatalf("expected underscore-led token to not lex as a single identifier, got %s %q", tok.Type, tok.Literal)
	}
}

func TestNextTokenStringLiteral(t *testing.T) {
	l := New(`"black"`)
	tok := l.NextToken()
	if tok.Type != token.STRING || tok.Literal != "black" {
		t.Fatalf("got (%s, %q), want STRING \"black\"", tok.Type, tok.Literal)
	}
}

func TestNextTokenUnterminatedString(t *testing.T) {
	l := New(`"black`)
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("got %s, want ILLEGAL", tok.Type)
	}
}

func TestNextTokenExclamationRequiresEquals(t *testing.T) {
	l := New("!x")
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("got %s, want ILLEGAL for bare '!'", tok.Type)
	}
}

// TestNumericDFA exercises the grammar digits ('.' digits)? ([eE]
// [+-]? digits)? per spec, checking each match parses to the expected
// float64 value via a single NUMBER token.
func TestNumericDFA(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0", "0"},
		{"123", "123"},
		{"3.14", "3.14"},
		{"0.5", "0.5"},
		{".5", ".5"},
		{"1e10", "1e10"},
		{"1E10", "1E10"},
		{"1e+10", "1e+10"},
		{"1e-10", "1e-10"},
		{"1.5e-10", "1.5e-10"},
	}

	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Type != token.NUMBER {
			t.Fatalf("input %q: got %s, want NUMBER", tt.input, tok.Type)
		}
		if tok.Literal != tt.want {
			t.Errorf("input %q: literal = %q, want %q", tt.input, tok.Literal, tt.want)
		}
		eof := l.NextToken()
		if eof.Type != token.EOF {
			t.Errorf("input %q: expected single token, trailing %s", tt.input, eof.Type)
		}
	}
}

// A bare trailing 'e' with no exponent digits is not part of the
// number: the DFA backs off and leaves 'e' to be re-lexed as an
// identifier, matching "3e" being the number "3" followed by ident "e".
func TestNumericDFATrailingEWithoutExponent(t *testing.T) {
	l := New("3e")
	num := l.NextToken()
	if num.Type != token.NUMBER || num.Literal != "3" {
		t.Fatalf("got (%s, %q), want NUMBER \"3\"", num.Type, num.Literal)
	}
	ident := l.NextToken()
	if ident.Type != token.IDENT || ident.Literal != "e" {
		t.Fatalf("got (%s, %q), want IDENT \"e\"", ident.Type, ident.Literal)
	}
}

func TestNextTokenIllegalCharacter(t *testing.T) {
	l := New("@")
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("got %s, want ILLEGAL", tok.Type)
	}
}

func TestPositionTracksLineAndColumn(t *testing.T) {
	l := New("a = 1;\nb = 2;")
	var last token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
		last = tok
	}
	if last.Pos.Line != 2 {
		t.Fatalf("last token line = %d, want 2", last.Pos.Line)
	}
}

func TestFunctionCallLexes(t *testing.T) {
	l := New("Sin(x)")
	want := []token.Type{token.IDENT, token.LPAREN, token.IDENT, token.RPAREN, token.EOF}
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w {
			t.Fatalf("token %d: got %s, want %s", i, tok.Type, w)
		}
	}
}
