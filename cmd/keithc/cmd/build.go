package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nhatcher/keithc/pkg/keith"
	"github.com/spf13/cobra"
)

var (
	buildOutput      string
	buildMemoryPages uint32
)

var buildCmd = &cobra.Command{
	Use:   "build PROGRAM.keith",
	Short: "Compile a Keith program to a WASM module",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "output file (default: <input>.wasm)")
	buildCmd.Flags().Uint32Var(&buildMemoryPages, "memory-pages", 0, "initial linear memory size, in 64 KiB pages (0 = default)")
}

func runBuild(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Compiling %s...\n", filename)
	}

	module, diags, err := keith.Compile(
		string(content),
		keith.WithFilename(filename),
		keith.WithMemoryPages(buildMemoryPages),
	)
	if err != nil {
		if diags != nil {
			for _, msg := range diags.Messages {
				fmt.Fprint(os.Stderr, msg)
			}
		}
		return fmt.Errorf("compilation failed: %w", err)
	}

	out := buildOutput
	if out == "" {
		ext := filepath.Ext(filename)
		out = strings.TrimSuffix(filename, ext) + ".wasm"
	}

	if err := os.WriteFile(out, module, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", out, err)
	}

	fmt.Printf("Compiled %s -> %s (%d bytes)\n", filename, out, len(module))
	return nil
}
