package emitter

import (
	"fmt"
	"strings"

	"github.com/nhatcher/keithc/internal/wasmbin"
)

var sectionNames = map[byte]string{
	wasmbin.SectionType:     "type",
	wasmbin.SectionImport:   "import",
	wasmbin.SectionFunction: "function",
	wasmbin.SectionMemory:   "memory",
	wasmbin.SectionGlobal:   "global",
	wasmbin.SectionExport:   "export",
	wasmbin.SectionCode:     "code",
}

// Dump renders module as a legible section-by-section hex listing:
// the header, then each section's id, name, declared length, and raw
// payload bytes. It exists purely so snapshot diffs are readable —
// it is not used by the compiler pipeline itself.
func Dump(module []byte) string {
	var sb strings.Builder

	if len(module) < 8 {
		fmt.Fprintf(&sb, "truncated module (%d bytes)\n", len(module))
		return sb.String()
	}

	fmt.Fprintf(&sb, "magic:   % x\n", module[0:4])
	fmt.Fprintf(&sb, "version: % x\n", module[4:8])

	pos := 8
	for pos < len(module) {
		id := module[pos]
		pos++
		length, next := wasmbin.DecodeUint32(module, pos)
		pos = next
		payload := module[pos : pos+int(length)]
		pos += int(length)

		name := sectionNames[id]
		if name == "" {
			name = "unknown"
		}
		fmt.Fprintf(&sb, "section %-8s id=%d len=%d\n", name, id, length)
		fmt.Fprintf(&sb, "  % x\n", payload)
	}

	return sb.String()
}
