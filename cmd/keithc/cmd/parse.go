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

var parseDumpAST bool

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a Keith program and display its syntax tree",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the full tree structure instead of reconstructed source")
}

func runParse(_ *cobra.Command, args []string) error {
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

	if parseDumpAST {
		fmt.Print(printer.Dump(prog))
	} else {
		fmt.Print(printer.Print(prog))
	}
	return nil
}

func sourceName(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return "<stdin>"
}
