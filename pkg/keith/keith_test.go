package keith

import (
	"encoding/binary"
	"testing"

	"github.com/nhatcher/keithc/internal/lexer"
	"github.com/nhatcher/keithc/internal/parser"
	"github.com/nhatcher/keithc/internal/semantic"
)

// analyze is the shared helper for the scenario tests below: it runs
// everything Compile does except emission, so assertions can inspect
// the resulting SymbolTable directly.
func analyze(t *testing.T, source string) *semantic.SymbolTable {
	t.Helper()
	l := lexer.New(source)
	p := parser.New(l)
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	sym, err := semantic.Analyze(prog)
	if err != nil {
		t.Fatalf("analysis error: %v", err)
	}
	return sym
}

func TestScenarioUnaryMinusConstant(t *testing.T) {
	sym := analyze(t, "a = -3;")
	if len(sym.Constants) != 1 || sym.Constants[0].Name != "a" || sym.Constants[0].Value != -3 {
		t.Fatalf("got constants %+v, want a = -3", sym.Constants)
	}
	if len(sym.Sliders) != 0 || len(sym.Functions) != 0 || len(sym.ReferencedBuiltins()) != 0 {
		t.Fatalf("expected no sliders/functions/builtins, got %+v", sym)
	}
}

func TestScenarioConstantArithmetic(t *testing.T) {
	sym := analyze(t, "a = 3*2;")
	if len(sym.Constants) != 1 || sym.Constants[0].Value != 6 {
		t.Fatalf("got %+v, want a = 6", sym.Constants)
	}
}

func TestScenarioSliderFoldedFromConstant(t *testing.T) {
	sym := analyze(t, "a = 8; b = {1, 0, 2*a};")
	if len(sym.Constants) != 1 || sym.Constants[0].Value != 8 {
		t.Fatalf("got constants %+v, want a = 8", sym.Constants)
	}
	if len(sym.Sliders) != 1 {
		t.Fatalf("got %d sliders, want 1", len(sym.Sliders))
	}
	s := sym.Sliders[0]
	if s.Name != "b" || s.Default != 1 || s.Min != 0 || s.Max != 16 {
		t.Fatalf("got slider %+v, want b = {1, 0, 16}", s)
	}
}

func TestScenarioFunctionWithBuiltins(t *testing.T) {
	sym := analyze(t, "f(x) = Sin(x)*Cos(x);")
	if len(sym.Functions) != 1 || sym.Functions[0].Name != "f" || sym.Functions[0].Arity != 1 {
		t.Fatalf("got functions %+v, want f/1", sym.Functions)
	}
	builtins := sym.ReferencedBuiltins()
	if len(builtins) != 2 || builtins[0] != "Sin" || builtins[1] != "Cos" {
		t.Fatalf("got builtins %v, want [Sin Cos]", builtins)
	}
}

func TestScenarioSliderReferencedFromFunction(t *testing.T) {
	sym := analyze(t, "a = {5, 1, 10}; f(x) = x*x*a;")
	if len(sym.Sliders) != 1 || sym.Sliders[0].Name != "a" {
		t.Fatalf("got sliders %+v, want one slider a", sym.Sliders)
	}
	if len(sym.Functions) != 1 {
		t.Fatalf("got functions %+v, want one function", sym.Functions)
	}
	if len(sym.ReferencedBuiltins()) != 0 {
		t.Fatalf("got builtins %v, want none", sym.ReferencedBuiltins())
	}

	module, diags, err := Compile("a = {5, 1, 10}; f(x) = x*x*a;")
	if err != nil {
		t.Fatalf("compile error: %v (%+v)", err, diags)
	}

	// The slider is the first imported global (width and height follow
	// it), so f's body must read it back via global.get 0 (opcode 0x23
	// 0x00) somewhere in its code.
	if !containsBytes(module, []byte{0x23, 0x00}) {
		t.Fatalf("expected global.get 0 (slider read) somewhere in the module")
	}
}

func TestScenarioTwoCurvePlot(t *testing.T) {
	source := "f(x) = Sin(x)*x; g(x) = Cos(x)*x; Plot([f(x), g(x)], {x, -1, 1});"
	sym := analyze(t, source)
	if len(sym.Functions) != 2 {
		t.Fatalf("got %d user functions, want 2", len(sym.Functions))
	}
	builtins := sym.ReferencedBuiltins()
	if len(builtins) != 2 || builtins[0] != "Sin" || builtins[1] != "Cos" {
		t.Fatalf("got builtins %v, want [Sin Cos]", builtins)
	}
	if sym.Plot == nil || len(sym.Plot.Functions) != 2 {
		t.Fatalf("got plot %+v, want 2 curves", sym.Plot)
	}

	module, diags, err := Compile(source)
	if err != nil {
		t.Fatalf("compile error: %v (%+v)", err, diags)
	}
	if len(module) == 0 {
		t.Fatal("expected a non-empty module")
	}
}

func TestCompileReportsParseErrorWithDiagnostics(t *testing.T) {
	_, diags, err := Compile("a = ")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if diags == nil || len(diags.Messages) == 0 {
		t.Fatal("expected at least one formatted diagnostic")
	}
}

func containsBytes(haystack, needle []byte) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func TestCompileModuleStartsWithMagicAndVersion(t *testing.T) {
	module, _, err := Compile("a = 1;")
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	if len(module) < 8 {
		t.Fatalf("module too short: %d bytes", len(module))
	}
	if string(module[0:4]) != "\x00asm" {
		t.Fatalf("bad magic: % x", module[0:4])
	}
	if binary.LittleEndian.Uint32(module[4:8]) != 1 {
		t.Fatalf("bad version: % x", module[4:8])
	}
}
