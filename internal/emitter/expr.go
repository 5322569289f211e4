package emitter

import (
	"github.com/nhatcher/keithc/internal/ast"
	"github.com/nhatcher/keithc/internal/token"
	"github.com/nhatcher/keithc/internal/wasmbin"
)

// Opcodes. Names mirror the WASM spec's own mnemonics.
const (
	opF64Const = 0x44
	opI32Const = 0x41

	opLocalGet  = 0x20
	opLocalSet  = 0x21
	opGlobalGet = 0x23
	opGlobalSet = 0x24

	opF64Add = 0xA0
	opF64Sub = 0xA1
	opF64Mul = 0xA2
	opF64Div = 0xA3

	opI32Add = 0x6A
	opI32Sub = 0x6B

	opCall = 0x10

	opF64Eq = 0x61
	opF64Ne = 0x62
	opF64Lt = 0x63
	opF64Gt = 0x64
	opF64Le = 0x65
	opF64Ge = 0x66

	opBlock = 0x03 // spec.md's "BLOCK_LOOP" byte doubles as the plain block opcode; loop uses opLoop below
	opLoop  = 0x03
	opIf    = 0x04
	opElse  = 0x05
	opEnd   = 0x0B
	opBr    = 0x0C
	opBrIf  = 0x0D
	opVoid  = 0x40

	opI32Load        = 0x28
	opI32Store       = 0x36
	opF64Load        = 0x2B
	opF64Store       = 0x39
	opF64ConvertI32S = 0xB7
	opI32TruncF64S   = 0xAA
	opF64Ceil        = 0x9B
)

// emitExpr lowers e onto ctx's expression stack, leaving exactly one
// f64 value on top.
func emitExpr(ctx *funcCtx, e ast.Expression) error {
	switch n := e.(type) {
	case *ast.NumberLiteral:
		ctx.code.WriteByte(opF64Const)
		wasmbin.WriteFloat64(&ctx.code, n.Value)
		return nil

	case *ast.Identifier:
		return emitVariable(ctx, n)

	case *ast.UnaryExpression:
		return emitUnary(ctx, n)

	case *ast.BinaryExpression:
		return emitBinary(ctx, n)

	case *ast.CallExpression:
		return emitCall(ctx, n)

	case *ast.IfExpression:
		return emitIf(ctx, n)

	case *ast.SumExpression:
		return emitSum(ctx, n)

	default:
		return ctx.fail(e.Pos(), "unsupported expression %T in emission", e)
	}
}

func emitVariable(ctx *funcCtx, id *ast.Identifier) error {
	kind, idx, v := ctx.resolve(id.Name)
	switch kind {
	case varSumFrame:
		// The bound name reads the frame's i32 counter and converts it
		// to f64: this is how a Sum loop's index is visible to its body.
		ctx.code.WriteByte(opLocalGet)
		wasmbin.WriteUint32(&ctx.code, uint32(idx))
		emitMemLoad(ctx, opI32Load, 2, 0)
		ctx.code.WriteByte(opF64ConvertI32S)
		return nil
	case varParam:
		ctx.code.WriteByte(opLocalGet)
		wasmbin.WriteUint32(&ctx.code, uint32(idx))
		return nil
	case varConstant:
		ctx.code.WriteByte(opF64Const)
		wasmbin.WriteFloat64(&ctx.code, v)
		return nil
	case varSlider:
		ctx.code.WriteByte(opGlobalGet)
		wasmbin.WriteUint32(&ctx.code, uint32(idx))
		return nil
	default:
		return ctx.fail(id.Pos(), "undefined name %q during emission", id.Name)
	}
}

func emitUnary(ctx *funcCtx, u *ast.UnaryExpression) error {
	if err := emitExpr(ctx, u.Operand); err != nil {
		return err
	}
	switch u.Operator {
	case token.PLUS:
		return nil
	case token.MINUS:
		ctx.code.WriteByte(opF64Const)
		wasmbin.WriteFloat64(&ctx.code, -1.0)
		ctx.code.WriteByte(opF64Mul)
		return nil
	default:
		return ctx.fail(u.Pos(), "unsupported unary operator in emission")
	}
}

func emitBinary(ctx *funcCtx, b *ast.BinaryExpression) error {
	if err := emitExpr(ctx, b.Left); err != nil {
		return err
	}
	if err := emitExpr(ctx, b.Right); err != nil {
		return err
	}
	switch b.Operator {
	case token.PLUS:
		ctx.code.WriteByte(opF64Add)
	case token.MINUS:
		ctx.code.WriteByte(opF64Sub)
	case token.ASTERISK:
		ctx.code.WriteByte(opF64Mul)
	case token.SLASH:
		ctx.code.WriteByte(opF64Div)
	case token.CARET:
		idx, ok := ctx.layout.funcIndex("Pow")
		if !ok {
			return ctx.fail(b.Pos(), "'^' used but Pow was not imported")
		}
		ctx.code.WriteByte(opCall)
		wasmbin.WriteUint32(&ctx.code, uint32(idx))
	default:
		return ctx.fail(b.Pos(), "unsupported binary operator in emission")
	}
	return nil
}

func emitCall(ctx *funcCtx, c *ast.CallExpression) error {
	for _, arg := range c.Args {
		if err := emitExpr(ctx, arg); err != nil {
			return err
		}
	}
	idx, ok := ctx.layout.funcIndex(c.Callee)
	if !ok {
		return ctx.fail(c.Pos(), "undefined callee %q during emission", c.Callee)
	}
	ctx.code.WriteByte(opCall)
	wasmbin.WriteUint32(&ctx.code, uint32(idx))
	return nil
}

func comparatorOpcode(cmp token.Type) (byte, bool) {
	switch cmp {
	case token.ASSIGN:
		return opF64Eq, true
	case token.LT:
		return opF64Lt, true
	case token.GT:
		return opF64Gt, true
	case token.LTE:
		return opF64Le, true
	case token.GTE:
		return opF64Ge, true
	default:
		return 0, false
	}
}

func emitIf(ctx *funcCtx, e *ast.IfExpression) error {
	if err := emitExpr(ctx, e.Left); err != nil {
		return err
	}
	if err := emitExpr(ctx, e.Right); err != nil {
		return err
	}
	op, ok := comparatorOpcode(e.Comparator)
	if !ok {
		return ctx.fail(e.Pos(), "unsupported If comparator in emission")
	}
	ctx.code.WriteByte(op)

	ctx.code.WriteByte(opIf)
	ctx.code.WriteByte(wasmbin.ValTypeF64) // blocktype: this `if` produces one f64
	if err := emitExpr(ctx, e.Then); err != nil {
		return err
	}
	ctx.code.WriteByte(opElse)
	if err := emitExpr(ctx, e.Else); err != nil {
		return err
	}
	ctx.code.WriteByte(opEnd)
	return nil
}

func emitMemLoad(ctx *funcCtx, opcode byte, align, offset uint32) {
	ctx.code.WriteByte(opcode)
	wasmbin.WriteUint32(&ctx.code, align)
	wasmbin.WriteUint32(&ctx.code, offset)
}

func emitMemStore(ctx *funcCtx, opcode byte, align, offset uint32) {
	ctx.code.WriteByte(opcode)
	wasmbin.WriteUint32(&ctx.code, align)
	wasmbin.WriteUint32(&ctx.code, offset)
}

// emitSum lowers `Sum(body, {bound, lower, upper})` using the
// memory-backed frame technique: a 12-byte record (4-byte i32 counter,
// 8-byte f64 accumulator) carved out of linear memory below the
// module's stack-pointer global, addressed through a dedicated i32
// local so the bound name can be read inside body without WASM locals
// being addressable in memory themselves.
func emitSum(ctx *funcCtx, s *ast.SumExpression) error {
	lower, ok := s.Lower.(*ast.NumberLiteral)
	if !ok {
		return ctx.fail(s.Pos(), "Sum lower bound was not folded to a constant")
	}
	upper, ok := s.Upper.(*ast.NumberLiteral)
	if !ok {
		return ctx.fail(s.Pos(), "Sum upper bound was not folded to a constant")
	}
	_ = lower.Value // validated as folded; the frame's counter always starts at 0 regardless
	// of lower's value — see the Sum lowering note in DESIGN.md.

	frameLocal := ctx.allocSumSlot()
	sp := ctx.layout.stackPtrGlobal

	// SP -= 12
	ctx.code.WriteByte(opGlobalGet)
	wasmbin.WriteUint32(&ctx.code, uint32(sp))
	ctx.code.WriteByte(opI32Const)
	wasmbin.WriteUint32(&ctx.code, 12)
	ctx.code.WriteByte(opI32Sub)
	ctx.code.WriteByte(opGlobalSet)
	wasmbin.WriteUint32(&ctx.code, uint32(sp))

	// frameLocal = SP
	ctx.code.WriteByte(opGlobalGet)
	wasmbin.WriteUint32(&ctx.code, uint32(sp))
	ctx.code.WriteByte(opLocalSet)
	wasmbin.WriteUint32(&ctx.code, uint32(frameLocal))

	// i = 0
	ctx.code.WriteByte(opLocalGet)
	wasmbin.WriteUint32(&ctx.code, uint32(frameLocal))
	ctx.code.WriteByte(opI32Const)
	wasmbin.WriteUint32(&ctx.code, 0)
	emitMemStore(ctx, opI32Store, 2, 0)

	// s = 0.0
	ctx.code.WriteByte(opLocalGet)
	wasmbin.WriteUint32(&ctx.code, uint32(frameLocal))
	ctx.code.WriteByte(opF64Const)
	wasmbin.WriteFloat64(&ctx.code, 0.0)
	emitMemStore(ctx, opF64Store, 3, 4)

	prevLocal, hadPrev := ctx.sumBindings[s.Bound]
	ctx.sumBindings[s.Bound] = frameLocal

	// A loop's own branch target is its start, so `br_if 0` below
	// re-enters it directly (a post-test "do at least once" loop) with
	// no enclosing `block` needed to fall out of.
	ctx.code.WriteByte(opLoop)
	ctx.code.WriteByte(opVoid)

	// s = s + body
	ctx.code.WriteByte(opLocalGet) // addr for the eventual store
	wasmbin.WriteUint32(&ctx.code, uint32(frameLocal))
	ctx.code.WriteByte(opLocalGet) // addr for the load
	wasmbin.WriteUint32(&ctx.code, uint32(frameLocal))
	emitMemLoad(ctx, opF64Load, 3, 4)
	if err := emitExpr(ctx, s.Body); err != nil {
		return err
	}
	ctx.code.WriteByte(opF64Add)
	emitMemStore(ctx, opF64Store, 3, 4)

	// i = i + 1
	ctx.code.WriteByte(opLocalGet)
	wasmbin.WriteUint32(&ctx.code, uint32(frameLocal))
	ctx.code.WriteByte(opLocalGet)
	wasmbin.WriteUint32(&ctx.code, uint32(frameLocal))
	emitMemLoad(ctx, opI32Load, 2, 0)
	ctx.code.WriteByte(opI32Const)
	wasmbin.WriteUint32(&ctx.code, 1)
	ctx.code.WriteByte(opI32Add)
	emitMemStore(ctx, opI32Store, 2, 0)

	// (f64.convert_i32_s i) < upper  =>  br_if to loop start
	ctx.code.WriteByte(opLocalGet)
	wasmbin.WriteUint32(&ctx.code, uint32(frameLocal))
	emitMemLoad(ctx, opI32Load, 2, 0)
	ctx.code.WriteByte(opF64ConvertI32S)
	ctx.code.WriteByte(opF64Const)
	wasmbin.WriteFloat64(&ctx.code, upper.Value)
	ctx.code.WriteByte(opF64Lt)
	ctx.code.WriteByte(opBrIf)
	wasmbin.WriteUint32(&ctx.code, 0)

	ctx.code.WriteByte(opEnd) // loop

	if hadPrev {
		ctx.sumBindings[s.Bound] = prevLocal
	} else {
		delete(ctx.sumBindings, s.Bound)
	}

	// result = s
	ctx.code.WriteByte(opLocalGet)
	wasmbin.WriteUint32(&ctx.code, uint32(frameLocal))
	emitMemLoad(ctx, opF64Load, 3, 4)

	// SP += 12 (pure i32 ops; the f64 result pushed above is untouched)
	ctx.code.WriteByte(opGlobalGet)
	wasmbin.WriteUint32(&ctx.code, uint32(sp))
	ctx.code.WriteByte(opI32Const)
	wasmbin.WriteUint32(&ctx.code, 12)
	ctx.code.WriteByte(opI32Add)
	ctx.code.WriteByte(opGlobalSet)
	wasmbin.WriteUint32(&ctx.code, uint32(sp))

	return nil
}
