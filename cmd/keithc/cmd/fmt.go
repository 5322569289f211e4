package cmd

import (
	"fmt"
	"os"

	"github.com/nhatcher/keithc/internal/diag"
	"github.com/nhatcher/keithc/internal/lexer"
	"github.com/nhatcher/keithc/internal/parser"
	"github.com/nhatcher/keithc/internal/printer"
	"github.com/spf13/cobra"
)

var fmtWrite bool

var fmtCmd = &cobra.Command{
	Use:   "fmt [file]",
	Short: "Pretty-print a Keith program",
	Long: `fmt parses a Keith program and prints it back out in its
canonical, fully-parenthesized form — the same form a round trip
through parse -> print -> parse must reproduce structurally.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "write result to the source file instead of stdout")
}

func runFmt(_ *cobra.Command, args []string) error {
	input, err := readSource(args)
	if err != nil {
		return err
	}

	l := lexer.New(input)
	p := parser.New(l)
	prog, perr := p.ParseProgram()
	if perr != nil {
		if d, ok := perr.(diag.Diagnostic); ok {
			fmt.Fprint(os.Stderr, diag.Format(d, input, sourceName(args)))
		}
		return fmt.Errorf("parsing failed")
	}

	formatted := printer.Print(prog)

	if fmtWrite {
		if len(args) != 1 {
			return fmt.Errorf("-w requires a file argument")
		}
		return os.WriteFile(args[0], []byte(formatted), 0644)
	}

	fmt.Print(formatted)
	return nil
}
