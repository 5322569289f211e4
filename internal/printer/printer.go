// Package printer is a debug-only pretty-printer: it is never part of
// the compilation pipeline, but supports `keithc fmt` and the
// round-trip property that printing an analyzed program and
// re-parsing it yields a structurally identical tree (every
// expression's String() is already fully parenthesized, so precedence
// survives the round trip without any layout logic).
package printer

import (
	"bytes"

	"github.com/nhatcher/keithc/internal/ast"
)

// Print renders prog back to Keith source, one statement per line.
func Print(prog *ast.Program) string {
	return prog.String()
}

// PrintStatement renders a single statement, without a trailing
// semicolon or newline — useful for `keithc parse`'s one-line-per-node
// dumps.
func PrintStatement(s ast.Statement) string {
	return s.String()
}

// Dump writes an indented tree view of prog, the way `keithc parse
// --dump-ast` inspects a program's shape rather than its source form.
func Dump(prog *ast.Program) string {
	var out bytes.Buffer
	for _, stmt := range prog.Statements {
		dumpNode(&out, stmt, 0)
	}
	return out.String()
}

func dumpNode(out *bytes.Buffer, n ast.Node, indent int) {
	writeIndent(out, indent)
	switch v := n.(type) {
	case *ast.ConstStatement:
		out.WriteString("ConstStatement " + v.Name + "\n")
		dumpNode(out, v.Value, indent+1)
	case *ast.SliderStatement:
		out.WriteString("SliderStatement " + v.Name + "\n")
		dumpNode(out, v.Default, indent+1)
		dumpNode(out, v.Min, indent+1)
		dumpNode(out, v.Max, indent+1)
	case *ast.FunctionStatement:
		out.WriteString("FunctionStatement " + v.Name + "\n")
		dumpNode(out, v.Body, indent+1)
	case *ast.PlotStatement:
		out.WriteString("PlotStatement\n")
		for _, f := range v.Functions {
			dumpNode(out, f.Body, indent+1)
		}
	case *ast.BinaryExpression:
		out.WriteString("BinaryExpression " + v.Operator.String() + "\n")
		dumpNode(out, v.Left, indent+1)
		dumpNode(out, v.Right, indent+1)
	case *ast.UnaryExpression:
		out.WriteString("UnaryExpression " + v.Operator.String() + "\n")
		dumpNode(out, v.Operand, indent+1)
	case *ast.CallExpression:
		out.WriteString("CallExpression " + v.Callee + "\n")
		for _, a := range v.Args {
			dumpNode(out, a, indent+1)
		}
	case *ast.IfExpression:
		out.WriteString("IfExpression\n")
		dumpNode(out, v.Left, indent+1)
		dumpNode(out, v.Right, indent+1)
		dumpNode(out, v.Then, indent+1)
		dumpNode(out, v.Else, indent+1)
	case *ast.SumExpression:
		out.WriteString("SumExpression " + v.Bound + "\n")
		dumpNode(out, v.Lower, indent+1)
		dumpNode(out, v.Upper, indent+1)
		dumpNode(out, v.Body, indent+1)
	case *ast.NumberLiteral:
		out.WriteString("NumberLiteral " + v.String() + "\n")
	case *ast.Identifier:
		out.WriteString("Identifier " + v.Name + "\n")
	default:
		out.WriteString(n.String() + "\n")
	}
}

func writeIndent(out *bytes.Buffer, n int) {
	for i := 0; i < n; i++ {
		out.WriteString("  ")
	}
}
