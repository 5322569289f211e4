package emitter

import (
	"bytes"

	"github.com/nhatcher/keithc/internal/ast"
	"github.com/nhatcher/keithc/internal/wasmbin"
)

// buildBody assembles one code-section entry: byte length, the
// locals-vector declaring any additional locals beyond the function's
// own parameters (here, the i32 Sum-frame slots), the instructions,
// and the closing 0x0B.
func buildBody(ctx *funcCtx) []byte {
	var out bytes.Buffer

	if ctx.numSumSlots > 0 {
		wasmbin.WriteUint32(&out, 1) // one group of locals
		wasmbin.WriteUint32(&out, uint32(ctx.numSumSlots))
		out.WriteByte(wasmbin.ValTypeI32)
	} else {
		wasmbin.WriteUint32(&out, 0)
	}

	out.Write(ctx.code.Bytes())
	out.WriteByte(opEnd)

	var framed bytes.Buffer
	wasmbin.WriteUint32(&framed, uint32(out.Len()))
	framed.Write(out.Bytes())
	return framed.Bytes()
}

// emitFunctionBody lowers a user-defined function's body expression
// into one code-section entry.
func emitFunctionBody(l *layout, params []string, body ast.Expression) ([]byte, error) {
	ctx := newFuncCtx(params, l, body)
	if err := emitExpr(ctx, body); err != nil {
		return nil, err
	}
	return buildBody(ctx), nil
}
