// Package keith is the embeddable compiler surface: parse, analyze,
// and emit a Keith program to a WASM module in one call, the way
// pkg/dwscript wraps its own pipeline behind a single entry point.
package keith

import (
	"github.com/nhatcher/keithc/internal/diag"
	"github.com/nhatcher/keithc/internal/emitter"
	"github.com/nhatcher/keithc/internal/lexer"
	"github.com/nhatcher/keithc/internal/parser"
	"github.com/nhatcher/keithc/internal/semantic"
)

// config holds the resolved Options for one Compile call.
type config struct {
	filename    string
	memoryPages uint32
}

// Option configures a Compile call.
type Option func(*config)

// WithFilename sets the name used in diagnostic messages; it has no
// effect on the emitted module.
func WithFilename(name string) Option {
	return func(c *config) { c.filename = name }
}

// WithMemoryPages sets the emitted module's initial linear memory
// size, in 64 KiB pages. Zero (the default) uses
// emitter.DefaultMemoryPages.
func WithMemoryPages(pages uint32) Option {
	return func(c *config) { c.memoryPages = pages }
}

// Diagnostics is the source-annotated message list produced on
// failure: each entry is already formatted with its file:line:column
// header, source line, and caret.
type Diagnostics struct {
	Messages []string
}

func (d *Diagnostics) add(diagErr diag.Diagnostic, source, file string) {
	d.Messages = append(d.Messages, diag.Format(diagErr, source, file))
}

// Compile runs the full pipeline — lex, parse, analyze, emit — over
// source and returns the resulting WASM module bytes. On failure it
// returns nil bytes, a populated Diagnostics, and a non-nil error
// describing the stage that failed.
func Compile(source string, opts ...Option) ([]byte, *Diagnostics, error) {
	cfg := config{filename: "<input>"}
	for _, opt := range opts {
		opt(&cfg)
	}

	l := lexer.New(source)
	p := parser.New(l)
	prog, err := p.ParseProgram()
	if err != nil {
		d := &Diagnostics{}
		if diagErr, ok := err.(diag.Diagnostic); ok {
			d.add(diagErr, source, cfg.filename)
		}
		return nil, d, err
	}

	sym, err := semantic.Analyze(prog)
	if err != nil {
		d := &Diagnostics{}
		if diagErr, ok := err.(diag.Diagnostic); ok {
			d.add(diagErr, source, cfg.filename)
		}
		return nil, d, err
	}

	module, err := emitter.Emit(prog, sym, cfg.memoryPages)
	if err != nil {
		d := &Diagnostics{}
		if diagErr, ok := err.(diag.Diagnostic); ok {
			d.add(diagErr, source, cfg.filename)
		}
		return nil, d, err
	}

	return module, nil, nil
}
