package printer

import (
	"testing"

	"github.com/nhatcher/keithc/internal/ast"
	"github.com/nhatcher/keithc/internal/lexer"
	"github.com/nhatcher/keithc/internal/parser"
)

func parseSource(t *testing.T, source string) string {
	t.Helper()
	l := lexer.New(source)
	p := parser.New(l)
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse error for %q: %v", source, err)
	}
	return Print(prog)
}

// TestRoundTrip checks that printing a parsed program and re-parsing
// the result yields the same source a second time — the property
// `keithc fmt` relies on: every expression's String() is already
// fully parenthesized, so nothing is lost re-deriving source from the
// tree.
func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"constant", "a = 3*2;"},
		{"unary minus", "a = -3;"},
		{"slider", "b = {1, 0, 10};"},
		{"function with builtins", "f(x) = Sin(x)*Cos(x);"},
		{"if expression", "f(x) = If(x < 0, -x, x);"},
		{"sum expression", "f(n) = Sum(k, {k, 0, n});"},
		{"plot with default options", "Plot(f(x), {x, 0, 10});"},
		{"plot with non-default options", `Plot({f(x), color="red", width=2}, {x, 0, 10});`},
		{"plot with multiple curves, one customized", `Plot([{f(x), color="blue", width=3}, g(x)], {x, -1, 1});`},
		{"plot with y-range", "Plot(f(x), {x, 0, 10}, {-1, 1});"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := parseSource(t, tt.source)
			second := parseSource(t, first)
			if first != second {
				t.Fatalf("round trip not stable:\n  source: %s\n  first:  %s\n  second: %s", tt.source, first, second)
			}
		})
	}
}

// TestPlotOptionsSurviveRoundTrip pins the defect the generic
// round-trip test above would otherwise only catch indirectly:
// non-default curve options (color, width) must still be present
// after a print/re-parse cycle, not silently reset to the defaults.
func TestPlotOptionsSurviveRoundTrip(t *testing.T) {
	source := `f(x) = Sin(x); Plot({f(x), color="red", width=2}, {x, 0, 10});`

	l := lexer.New(source)
	p := parser.New(l)
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	printed := Print(prog)

	l2 := lexer.New(printed)
	p2 := parser.New(l2)
	reparsed, err := p2.ParseProgram()
	if err != nil {
		t.Fatalf("re-parse error on printed source %q: %v", printed, err)
	}

	var plot *ast.PlotStatement
	for _, stmt := range reparsed.Statements {
		if ps, ok := stmt.(*ast.PlotStatement); ok {
			plot = ps
		}
	}
	if plot == nil {
		t.Fatalf("printed source %q lost its Plot statement", printed)
	}
	if len(plot.Functions) != 1 {
		t.Fatalf("expected 1 plotted curve, got %d", len(plot.Functions))
	}
	opts := plot.Functions[0].Options
	if opts.Color != "red" || opts.Width != 2 {
		t.Fatalf("curve options did not survive round trip: got color=%q width=%d, want color=%q width=%d",
			opts.Color, opts.Width, "red", 2)
	}
}
