package emitter

import (
	"bytes"

	"github.com/nhatcher/keithc/internal/semantic"
	"github.com/nhatcher/keithc/internal/wasmbin"
)

// redraw locals, all declared beyond its zero parameters.
const (
	redrawLocalN    = 0 // i32: samples per curve, shared across curves (one canvas)
	redrawLocalK    = 1 // i32: per-curve sample loop counter
	redrawLocalPtr  = 2 // i32: running linear-memory write cursor
	redrawLocalStep = 3 // f64: (x1 - x0) / width
)

// buildRedrawBody lowers the redraw entry point: for every plotted
// curve it samples n = ceil(width) points evenly across the folded
// x-range by calling that curve's own plot sub-function, writes the
// samples back-to-back starting at the heap base, then appends one
// 16-byte option record per curve, and returns 0.
//
// spec.md's literal formula for n ("ceil(width / step)" with step
// already defined as (x1-x0)/width) is dimensionally circular; this
// resolves it as one sample per horizontal pixel (n = ceil(width)),
// the reading that makes `step` an actual per-pixel x increment — see
// the Sum lowering note in DESIGN.md for the same kind of spec.md
// literalism elsewhere.
func buildRedrawBody(l *layout, sym *semantic.SymbolTable) []byte {
	var code bytes.Buffer

	plot := sym.Plot
	x0, x1 := 0.0, 1.0
	if plot != nil {
		x0, x1 = plot.XLower, plot.XUpper
	}

	// n = i32.trunc_f64_s(f64.ceil(width))
	code.WriteByte(opGlobalGet)
	wasmbin.WriteUint32(&code, uint32(l.widthGlobal))
	code.WriteByte(opF64Ceil)
	code.WriteByte(opI32TruncF64S)
	code.WriteByte(opLocalSet)
	wasmbin.WriteUint32(&code, redrawLocalN)

	// step = (x1 - x0) / width
	code.WriteByte(opF64Const)
	wasmbin.WriteFloat64(&code, x1-x0)
	code.WriteByte(opGlobalGet)
	wasmbin.WriteUint32(&code, uint32(l.widthGlobal))
	code.WriteByte(opF64Div)
	code.WriteByte(opLocalSet)
	wasmbin.WriteUint32(&code, redrawLocalStep)

	// ptr = heap base
	code.WriteByte(opGlobalGet)
	wasmbin.WriteUint32(&code, uint32(l.heapBaseGlobal))
	code.WriteByte(opLocalSet)
	wasmbin.WriteUint32(&code, redrawLocalPtr)

	if plot != nil {
		for i := range plot.Functions {
			emitCurveSamples(&code, l, x0, i)
		}
		for _, curve := range plot.Functions {
			emitCurveOptionRecord(&code, curve)
		}
	}

	code.WriteByte(opF64Const)
	wasmbin.WriteFloat64(&code, 0.0)

	var out bytes.Buffer
	wasmbin.WriteUint32(&out, 2) // two local groups: i32s, then the f64 step
	wasmbin.WriteUint32(&out, 3)
	out.WriteByte(wasmbin.ValTypeI32)
	wasmbin.WriteUint32(&out, 1)
	out.WriteByte(wasmbin.ValTypeF64)
	out.Write(code.Bytes())
	out.WriteByte(opEnd)

	var framed bytes.Buffer
	wasmbin.WriteUint32(&framed, uint32(out.Len()))
	framed.Write(out.Bytes())
	return framed.Bytes()
}

func emitCurveSamples(code *bytes.Buffer, l *layout, x0 float64, curveIndex int) {
	funcIdx := l.plotFuncBase + curveIndex

	// k = 0
	code.WriteByte(opI32Const)
	wasmbin.WriteUint32(code, 0)
	code.WriteByte(opLocalSet)
	wasmbin.WriteUint32(code, redrawLocalK)

	code.WriteByte(opLoop)
	code.WriteByte(opVoid)

	// store y = curve(x0 + k*step) at ptr
	code.WriteByte(opLocalGet) // addr
	wasmbin.WriteUint32(code, redrawLocalPtr)

	code.WriteByte(opF64Const)
	wasmbin.WriteFloat64(code, x0)
	code.WriteByte(opLocalGet)
	wasmbin.WriteUint32(code, redrawLocalK)
	code.WriteByte(opF64ConvertI32S)
	code.WriteByte(opLocalGet)
	wasmbin.WriteUint32(code, redrawLocalStep)
	code.WriteByte(opF64Mul)
	code.WriteByte(opF64Add) // x = x0 + k*step

	code.WriteByte(opCall)
	wasmbin.WriteUint32(code, uint32(funcIdx))

	emitMemStoreRaw(code, opF64Store, 3, 0)

	// ptr += 8
	code.WriteByte(opLocalGet)
	wasmbin.WriteUint32(code, redrawLocalPtr)
	code.WriteByte(opI32Const)
	wasmbin.WriteUint32(code, 8)
	code.WriteByte(opI32Add)
	code.WriteByte(opLocalSet)
	wasmbin.WriteUint32(code, redrawLocalPtr)

	// k += 1
	code.WriteByte(opLocalGet)
	wasmbin.WriteUint32(code, redrawLocalK)
	code.WriteByte(opI32Const)
	wasmbin.WriteUint32(code, 1)
	code.WriteByte(opI32Add)
	code.WriteByte(opLocalSet)
	wasmbin.WriteUint32(code, redrawLocalK)

	// (f64.convert_i32_s k) < (f64.convert_i32_s n) -> br_if 0
	code.WriteByte(opLocalGet)
	wasmbin.WriteUint32(code, redrawLocalK)
	code.WriteByte(opF64ConvertI32S)
	code.WriteByte(opLocalGet)
	wasmbin.WriteUint32(code, redrawLocalN)
	code.WriteByte(opF64ConvertI32S)
	code.WriteByte(opF64Lt)
	code.WriteByte(opBrIf)
	wasmbin.WriteUint32(code, 0)

	code.WriteByte(opEnd) // loop
}

func emitCurveOptionRecord(code *bytes.Buffer, curve semantic.PlotCurve) {
	colorValue, _ := semantic.ColorValue(curve.Color) // validated during analysis

	code.WriteByte(opLocalGet)
	wasmbin.WriteUint32(code, redrawLocalPtr)
	code.WriteByte(opI32Const)
	wasmbin.WriteUint32(code, uint32(curve.Width))
	emitMemStoreRaw(code, opI32Store, 2, 0)

	code.WriteByte(opLocalGet)
	wasmbin.WriteUint32(code, redrawLocalPtr)
	code.WriteByte(opI32Const)
	wasmbin.WriteUint32(code, uint32(colorValue))
	emitMemStoreRaw(code, opI32Store, 2, 4)

	code.WriteByte(opLocalGet)
	wasmbin.WriteUint32(code, redrawLocalPtr)
	code.WriteByte(opLocalGet)
	wasmbin.WriteUint32(code, redrawLocalN)
	emitMemStoreRaw(code, opI32Store, 2, 8)

	code.WriteByte(opLocalGet)
	wasmbin.WriteUint32(code, redrawLocalPtr)
	code.WriteByte(opI32Const)
	wasmbin.WriteUint32(code, 0)
	emitMemStoreRaw(code, opI32Store, 2, 12)

	code.WriteByte(opLocalGet)
	wasmbin.WriteUint32(code, redrawLocalPtr)
	code.WriteByte(opI32Const)
	wasmbin.WriteUint32(code, 16)
	code.WriteByte(opI32Add)
	code.WriteByte(opLocalSet)
	wasmbin.WriteUint32(code, redrawLocalPtr)
}

func emitMemStoreRaw(code *bytes.Buffer, opcode byte, align, offset uint32) {
	code.WriteByte(opcode)
	wasmbin.WriteUint32(code, align)
	wasmbin.WriteUint32(code, offset)
}
