package emitter

import (
	"sort"

	"github.com/nhatcher/keithc/internal/semantic"
)

// Reserved i32 globals every module owns, independent of user
// sliders: index order is fixed relative to each other (heap base
// immutable, stack pointer mutable) but both sit after every imported
// global in the global index space.
const (
	heapBaseInit = 0x800000 // 8 MiB
)

// layout computes every index the emitter needs before any code is
// written: the sorted arity list (and each arity's type-section
// index), the function index space (builtins, then user functions,
// then plotted sub-functions, then redraw), and the global index space
// (sliders, then the reserved width/height globals, then the two
// module-owned globals).
type layout struct {
	sym *semantic.SymbolTable

	arities     []int
	typeIndexOf map[int]int // arity -> type section index

	builtinNames  []string // canonical order, referenced only
	builtinIndex  map[string]int
	userFuncIndex map[string]int

	plotFuncBase int // first function index among the plotted sub-functions
	redrawIndex  int

	sliderGlobalIndex map[string]int
	widthGlobal       int
	heightGlobal      int
	heapBaseGlobal    int
	stackPtrGlobal    int
}

func newLayout(sym *semantic.SymbolTable) *layout {
	l := &layout{sym: sym}

	aritySet := map[int]bool{0: true}
	for _, f := range sym.Functions {
		aritySet[f.Arity] = true
	}
	l.builtinNames = sym.ReferencedBuiltins()
	for _, b := range l.builtinNames {
		arity, _ := semantic.BuiltinArity(b)
		aritySet[arity] = true
	}
	if sym.Plot != nil {
		aritySet[1] = true // every plotted sub-function takes the x-range bound as its one parameter
	}

	for a := range aritySet {
		l.arities = append(l.arities, a)
	}
	sort.Ints(l.arities)
	l.typeIndexOf = make(map[int]int, len(l.arities))
	for i, a := range l.arities {
		l.typeIndexOf[a] = i
	}

	l.builtinIndex = make(map[string]int, len(l.builtinNames))
	for i, b := range l.builtinNames {
		l.builtinIndex[b] = i
	}

	l.userFuncIndex = make(map[string]int, len(sym.Functions))
	nextFuncIndex := len(l.builtinNames)
	for _, f := range sym.Functions {
		l.userFuncIndex[f.Name] = nextFuncIndex
		nextFuncIndex++
	}
	l.plotFuncBase = nextFuncIndex
	numPlotFuncs := 0
	if sym.Plot != nil {
		numPlotFuncs = len(sym.Plot.Functions)
	}
	l.redrawIndex = l.plotFuncBase + numPlotFuncs

	l.sliderGlobalIndex = make(map[string]int, len(sym.Sliders))
	for i, s := range sym.Sliders {
		l.sliderGlobalIndex[s.Name] = i
	}
	l.widthGlobal = len(sym.Sliders)
	l.heightGlobal = len(sym.Sliders) + 1
	l.heapBaseGlobal = len(sym.Sliders) + 2
	l.stackPtrGlobal = len(sym.Sliders) + 3

	return l
}

// funcIndex resolves a callee name (builtin or user function) to its
// position in the combined function index space.
func (l *layout) funcIndex(name string) (int, bool) {
	if idx, ok := l.builtinIndex[name]; ok {
		return idx, true
	}
	if idx, ok := l.userFuncIndex[name]; ok {
		return idx, true
	}
	return 0, false
}

func (l *layout) constEnv() map[string]float64 {
	env := make(map[string]float64, len(l.sym.Constants))
	for _, c := range l.sym.Constants {
		env[c.Name] = c.Value
	}
	return env
}

func (l *layout) typeIndexForArity(arity int) int {
	return l.typeIndexOf[arity]
}
