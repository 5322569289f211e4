package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/nhatcher/keithc/internal/lexer"
	"github.com/nhatcher/keithc/internal/token"
	"github.com/spf13/cobra"
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a Keith program and print the resulting tokens",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
}

func runLex(_ *cobra.Command, args []string) error {
	input, err := readSource(args)
	if err != nil {
		return err
	}

	l := lexer.New(input)
	for {
		tok := l.NextToken()
		printToken(tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return nil
}

func printToken(tok token.Token) {
	if tok.Literal == "" {
		fmt.Printf("%-10s @%s\n", tok.Type, tok.Pos)
	} else {
		fmt.Printf("%-10s %q @%s\n", tok.Type, tok.Literal, tok.Pos)
	}
}

// readSource reads from the single positional file argument, or from
// stdin when none is given.
func readSource(args []string) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("error reading file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("error reading stdin: %w", err)
	}
	return string(data), nil
}
