// Package emitter lowers an analyzed program into a WASM 1.0 binary
// module: one function per user declaration, one per plotted curve,
// and the `redraw` entry point that samples every curve into linear
// memory for the host to read back.
package emitter

import (
	"bytes"

	"github.com/nhatcher/keithc/internal/ast"
	"github.com/nhatcher/keithc/internal/semantic"
	"github.com/nhatcher/keithc/internal/wasmbin"
)

// DefaultMemoryPages is how many 64 KiB pages the module's linear
// memory starts with when a caller doesn't ask for more: enough for
// the heap base at 8 MiB plus a few wide canvases of samples.
const DefaultMemoryPages = 256

// Emit produces the complete binary module for prog, using sym (the
// result of semantic.Analyze) to drive every index and layout
// decision. prog must be the same tree sym was computed from: function
// and plot bodies are read back out of it directly. memoryPages is the
// module's initial linear memory size, in 64 KiB pages; 0 means
// DefaultMemoryPages.
func Emit(prog *ast.Program, sym *semantic.SymbolTable, memoryPages uint32) ([]byte, error) {
	if memoryPages == 0 {
		memoryPages = DefaultMemoryPages
	}

	l := newLayout(sym)

	var out bytes.Buffer
	out.Write(wasmbin.Magic)
	out.Write(wasmbin.Version)
	out.Write(buildTypeSection(l))
	out.Write(buildImportSection(l, sym))
	out.Write(buildFunctionSection(l, sym))
	out.Write(buildMemorySection(memoryPages))
	out.Write(buildGlobalSection())
	out.Write(buildExportSection(l))

	code, err := buildCodeSection(l, sym, prog)
	if err != nil {
		return nil, err
	}
	out.Write(code)

	return out.Bytes(), nil
}

// buildCodeSection lowers, in function-index order: every user
// function's body, then every plotted curve's body (one sub-function
// per curve, each taking the plot's x-bound as its single parameter),
// then redraw.
func buildCodeSection(l *layout, sym *semantic.SymbolTable, prog *ast.Program) ([]byte, error) {
	functionBodies := make(map[string]ast.Expression, len(sym.Functions))
	functionParams := make(map[string][]string, len(sym.Functions))
	var plotStmt *ast.PlotStatement

	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case *ast.FunctionStatement:
			functionBodies[s.Name] = s.Body
			functionParams[s.Name] = s.Parameters
		case *ast.PlotStatement:
			plotStmt = s
		}
	}

	var payload bytes.Buffer
	numPlotFuncs := 0
	if sym.Plot != nil {
		numPlotFuncs = len(sym.Plot.Functions)
	}
	wasmbin.WriteUint32(&payload, uint32(len(sym.Functions)+numPlotFuncs+1))

	for _, f := range sym.Functions {
		body, err := emitFunctionBody(l, functionParams[f.Name], functionBodies[f.Name])
		if err != nil {
			return nil, err
		}
		payload.Write(body)
	}

	if plotStmt != nil {
		for _, curve := range plotStmt.Functions {
			body, err := emitFunctionBody(l, []string{plotStmt.XRange.Bound}, curve.Body)
			if err != nil {
				return nil, err
			}
			payload.Write(body)
		}
	}

	payload.Write(buildRedrawBody(l, sym))

	return wasmbin.Section(wasmbin.SectionCode, payload.Bytes()), nil
}
