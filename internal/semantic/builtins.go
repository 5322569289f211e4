package semantic

// builtinArity is the closed set of eighteen math functions the host
// provides via the "Math" import module: twelve trig/hyperbolic unary,
// four other unary, two binary. Capitalization is the lexical
// discriminator between a builtin and a user function.
var builtinArity = map[string]int{
	"Sin":   1,
	"Cos":   1,
	"Tan":   1,
	"Asin":  1,
	"Acos":  1,
	"Atan":  1,
	"Sinh":  1,
	"Cosh":  1,
	"Tanh":  1,
	"Asinh": 1,
	"Acosh": 1,
	"Atanh": 1,
	"Log":   1,
	"Log10": 1,
	"Exp":   1,
	"Sqrt":  1,
	"Atan2": 2,
	"Pow":   2,
}

// colorTable is the fixed palette of packed 0xRRGGBB values a
// PlotFunction's color option may name.
var colorTable = map[string]int32{
	"black":   0x000000,
	"white":   0xFFFFFF,
	"red":     0xFF0000,
	"green":   0x008000,
	"blue":    0x0000FF,
	"yellow":  0xFFFF00,
	"orange":  0xFFA500,
	"purple":  0x800080,
	"gray":    0x808080,
	"cyan":    0x00FFFF,
	"magenta": 0xFF00FF,
}

// ColorValue resolves a color name to its packed 0xRRGGBB value.
func ColorValue(name string) (int32, bool) {
	v, ok := colorTable[name]
	return v, ok
}

// BuiltinArity reports the arity of a builtin name, the source of
// truth the emitter uses to size its call signatures.
func BuiltinArity(name string) (int, bool) {
	a, ok := builtinArity[name]
	return a, ok
}

// builtinCanonicalOrder fixes the order referenced builtins are
// imported in: the declaration order from spec.md §3.4, not map
// iteration order.
var builtinCanonicalOrder = []string{
	"Sin", "Cos", "Tan", "Asin", "Acos", "Atan", "Sinh", "Cosh", "Tanh",
	"Asinh", "Acosh", "Atanh", "Log", "Log10", "Exp", "Sqrt", "Atan2", "Pow",
}

// ReferencedBuiltins returns the names in sym.Builtins ordered per
// builtinCanonicalOrder, establishing the deterministic import order
// spec.md §4.5 requires ("referenced builtins, in a canonical order")
// from a map whose iteration order is otherwise unspecified.
func (s *SymbolTable) ReferencedBuiltins() []string {
	var out []string
	for _, name := range builtinCanonicalOrder {
		if s.Builtins[name] {
			out = append(out, name)
		}
	}
	return out
}
