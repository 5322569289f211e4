package emitter

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/nhatcher/keithc/internal/lexer"
	"github.com/nhatcher/keithc/internal/parser"
	"github.com/nhatcher/keithc/internal/semantic"
	"github.com/nhatcher/keithc/internal/wasmbin"
)

func compileToModule(t *testing.T, source string) []byte {
	t.Helper()
	l := lexer.New(source)
	p := parser.New(l)
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	sym, err := semantic.Analyze(prog)
	if err != nil {
		t.Fatalf("analyze error: %v", err)
	}
	module, err := Emit(prog, sym, 0)
	if err != nil {
		t.Fatalf("emit error: %v", err)
	}
	return module
}

func TestEmitStartsWithMagicAndVersion(t *testing.T) {
	module := compileToModule(t, "a = 1;")
	if string(module[0:4]) != "\x00asm" {
		t.Fatalf("bad magic: % x", module[0:4])
	}
	want := []byte{0x01, 0x00, 0x00, 0x00}
	for i, b := range want {
		if module[4+i] != b {
			t.Fatalf("bad version: % x", module[4:8])
		}
	}
}

func TestEmitSectionLengthsMatchPayloads(t *testing.T) {
	module := compileToModule(t, "f(x) = Sin(x)*Cos(x);")
	pos := 8
	for pos < len(module) {
		pos++ // section id
		length, next := wasmbin.DecodeUint32(module, pos)
		pos = next + int(length)
		if pos > len(module) {
			t.Fatalf("section length overruns module (claims %d bytes at offset %d, module is %d bytes)", length, next, len(module))
		}
	}
}

func TestEmitCodeSectionBodiesEndWithExpressionEnd(t *testing.T) {
	module := compileToModule(t, "f(x) = x+1;")
	// Every function body, wherever it sits, ends on 0x0B before the
	// next one starts or the module ends; spot check the last byte of
	// the whole module, since redraw (always last) always closes with
	// `f64.const 0.0` then `end`.
	if module[len(module)-1] != opEnd {
		t.Fatalf("module does not end with opcode 0x0B, got %x", module[len(module)-1])
	}
}

func TestEmitSnapshotUnaryMinusConstant(t *testing.T) {
	module := compileToModule(t, "a = -3;")
	snaps.MatchSnapshot(t, Dump(module))
}

func TestEmitSnapshotSliderReferencedFromFunction(t *testing.T) {
	module := compileToModule(t, "a = {5, 1, 10}; f(x) = x*x*a;")
	snaps.MatchSnapshot(t, Dump(module))
}

func TestEmitSnapshotTwoCurvePlot(t *testing.T) {
	module := compileToModule(t, "f(x) = Sin(x)*x; g(x) = Cos(x)*x; Plot([f(x), g(x)], {x, -1, 1});")
	snaps.MatchSnapshot(t, Dump(module))
}

func TestEmitSumExpression(t *testing.T) {
	module := compileToModule(t, "f(n) = Sum(k, {k, 0, 10});")
	if len(module) == 0 {
		t.Fatal("expected a non-empty module")
	}
	snaps.MatchSnapshot(t, Dump(module))
}

func TestEmitIfExpression(t *testing.T) {
	module := compileToModule(t, "f(x) = If(x < 0, -x, x);")
	if len(module) == 0 {
		t.Fatal("expected a non-empty module")
	}
}

