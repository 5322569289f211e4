// Package diag renders compiler errors with source context: a
// file:line:column header, the offending source line, and a caret
// pointing at the error column.
package diag

import (
	"fmt"
	"strings"

	"github.com/nhatcher/keithc/internal/token"
)

// Diagnostic is implemented by every stage's error type (lexer,
// parser, semantic, emitter), letting a single formatter render all of
// them uniformly. The first one encountered aborts compilation; there
// is no error recovery.
type Diagnostic interface {
	error
	Pos() token.Position
}

// Format renders a single diagnostic against its source text. File may
// be empty, in which case the header omits the filename.
func Format(d Diagnostic, source, file string) string {
	var sb strings.Builder

	pos := d.Pos()
	if file != "" {
		fmt.Fprintf(&sb, "%s:%s: %s\n", file, pos, d.Error())
	} else {
		fmt.Fprintf(&sb, "%s: %s\n", pos, d.Error())
	}

	line := sourceLine(source, pos.Line)
	if line != "" {
		prefix := fmt.Sprintf("%4d | ", pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+max(pos.Column-1, 0)))
		sb.WriteString("^\n")
	}

	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
