package emitter

import (
	"bytes"

	"github.com/nhatcher/keithc/internal/semantic"
	"github.com/nhatcher/keithc/internal/wasmbin"
)

func buildTypeSection(l *layout) []byte {
	var payload bytes.Buffer
	wasmbin.WriteUint32(&payload, uint32(len(l.arities)))
	for _, arity := range l.arities {
		payload.Write(wasmbin.FuncType(arity))
	}
	return wasmbin.Section(wasmbin.SectionType, payload.Bytes())
}

func buildImportSection(l *layout, sym *semantic.SymbolTable) []byte {
	var payload bytes.Buffer

	numImports := len(l.builtinNames) + len(sym.Sliders) + 2 // + width, height
	wasmbin.WriteUint32(&payload, uint32(numImports))

	for _, name := range l.builtinNames {
		arity, _ := semantic.BuiltinArity(name)
		wasmbin.WriteString(&payload, "Math")
		wasmbin.WriteString(&payload, name)
		payload.WriteByte(wasmbin.ImportKindFunc)
		wasmbin.WriteUint32(&payload, uint32(l.typeIndexForArity(arity)))
	}

	for _, s := range sym.Sliders {
		writeGlobalImport(&payload, s.Name)
	}
	writeGlobalImport(&payload, "width")
	writeGlobalImport(&payload, "height")

	return wasmbin.Section(wasmbin.SectionImport, payload.Bytes())
}

func writeGlobalImport(buf *bytes.Buffer, name string) {
	wasmbin.WriteString(buf, "globals")
	wasmbin.WriteString(buf, name)
	buf.WriteByte(wasmbin.ImportKindGlobal)
	buf.WriteByte(wasmbin.ValTypeF64)
	buf.WriteByte(wasmbin.Mutable)
}

func buildFunctionSection(l *layout, sym *semantic.SymbolTable) []byte {
	var payload bytes.Buffer

	numPlotFuncs := 0
	if sym.Plot != nil {
		numPlotFuncs = len(sym.Plot.Functions)
	}
	total := len(sym.Functions) + numPlotFuncs + 1 // + redraw
	wasmbin.WriteUint32(&payload, uint32(total))

	for _, f := range sym.Functions {
		wasmbin.WriteUint32(&payload, uint32(l.typeIndexForArity(f.Arity)))
	}
	for i := 0; i < numPlotFuncs; i++ {
		wasmbin.WriteUint32(&payload, uint32(l.typeIndexForArity(1)))
	}
	wasmbin.WriteUint32(&payload, uint32(l.typeIndexForArity(0))) // redraw: () -> f64

	return wasmbin.Section(wasmbin.SectionFunction, payload.Bytes())
}

func buildMemorySection(pages uint32) []byte {
	var payload bytes.Buffer
	wasmbin.WriteUint32(&payload, 1) // one memory
	payload.WriteByte(0x00)          // limits: flag 0 = no maximum
	wasmbin.WriteUint32(&payload, pages)
	return wasmbin.Section(wasmbin.SectionMemory, payload.Bytes())
}

func buildGlobalSection() []byte {
	var payload bytes.Buffer
	wasmbin.WriteUint32(&payload, 2) // heap base, stack pointer

	payload.WriteByte(wasmbin.ValTypeI32)
	payload.WriteByte(wasmbin.Immutable)
	payload.WriteByte(opI32Const)
	wasmbin.WriteUint32(&payload, heapBaseInit)
	payload.WriteByte(opEnd)

	payload.WriteByte(wasmbin.ValTypeI32)
	payload.WriteByte(wasmbin.Mutable)
	payload.WriteByte(opI32Const)
	wasmbin.WriteUint32(&payload, heapBaseInit)
	payload.WriteByte(opEnd)

	return wasmbin.Section(wasmbin.SectionGlobal, payload.Bytes())
}

func buildExportSection(l *layout) []byte {
	var payload bytes.Buffer
	wasmbin.WriteUint32(&payload, 2)

	wasmbin.WriteString(&payload, "memory")
	payload.WriteByte(wasmbin.ExportKindMemory)
	wasmbin.WriteUint32(&payload, 0)

	wasmbin.WriteString(&payload, "redraw")
	payload.WriteByte(wasmbin.ExportKindFunc)
	wasmbin.WriteUint32(&payload, uint32(l.redrawIndex))

	return wasmbin.Section(wasmbin.SectionExport, payload.Bytes())
}
