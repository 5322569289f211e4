package emitter

import (
	"bytes"
	"fmt"

	"github.com/nhatcher/keithc/internal/ast"
	"github.com/nhatcher/keithc/internal/token"
)

// Error is an EmissionError: a Sum bound that never folded to a
// Number, or some other invariant the analyzer should have already
// guaranteed.
type Error struct {
	Message string
	At      token.Position
}

func (e *Error) Error() string      { return e.Message }
func (e *Error) Pos() token.Position { return e.At }

// funcCtx is the per-body emission context: how names resolve to
// WASM instructions, and where a body's code accumulates.
type funcCtx struct {
	code bytes.Buffer

	layout       *layout
	params       map[string]int     // parameter name -> local index
	constants    map[string]float64 // folded constant name -> value
	sliderGlobal map[string]int     // slider name -> global import index

	sumBindings map[string]int // bound name -> i32 frame-base local index, innermost wins
	numSumSlots int             // total i32 locals reserved for Sum frames in this body
	nextSumSlot int             // next one to hand out, counted during emission
}

func newFuncCtx(params []string, l *layout, body ast.Expression) *funcCtx {
	paramIndex := make(map[string]int, len(params))
	for i, p := range params {
		paramIndex[p] = i
	}

	return &funcCtx{
		layout:       l,
		params:       paramIndex,
		constants:    l.constEnv(),
		sliderGlobal: l.sliderGlobalIndex,
		sumBindings:  make(map[string]int),
		numSumSlots:  countSums(body),
	}
}

// frameLocalBase is the local index the first Sum frame slot sits at:
// right after the body's own parameters.
func (c *funcCtx) frameLocalBase() int {
	return len(c.params)
}

// allocSumSlot hands out the next free i32 local for a Sum frame.
func (c *funcCtx) allocSumSlot() int {
	idx := c.frameLocalBase() + c.nextSumSlot
	c.nextSumSlot++
	return idx
}

func countSums(e ast.Expression) int {
	switch n := e.(type) {
	case *ast.SumExpression:
		return 1 + countSums(n.Body) + countSums(n.Lower) + countSums(n.Upper)
	case *ast.BinaryExpression:
		return countSums(n.Left) + countSums(n.Right)
	case *ast.UnaryExpression:
		return countSums(n.Operand)
	case *ast.IfExpression:
		return countSums(n.Left) + countSums(n.Right) + countSums(n.Then) + countSums(n.Else)
	case *ast.CallExpression:
		total := 0
		for _, a := range n.Args {
			total += countSums(a)
		}
		return total
	default:
		return 0
	}
}

// resolve reports how a bare name resolves in this context,
// in shadowing order: an active Sum binding first (innermost always
// wins), then a parameter, then a folded constant, then a slider.
type varKind int

const (
	varSumFrame varKind = iota
	varParam
	varConstant
	varSlider
	varUnknown
)

func (c *funcCtx) resolve(name string) (varKind, int, float64) {
	if idx, ok := c.sumBindings[name]; ok {
		return varSumFrame, idx, 0
	}
	if idx, ok := c.params[name]; ok {
		return varParam, idx, 0
	}
	if v, ok := c.constants[name]; ok {
		return varConstant, 0, v
	}
	if idx, ok := c.sliderGlobal[name]; ok {
		return varSlider, idx, 0
	}
	return varUnknown, 0, 0
}

func (c *funcCtx) fail(pos token.Position, format string, args ...any) error {
	return &Error{Message: fmt.Sprintf(format, args...), At: pos}
}
