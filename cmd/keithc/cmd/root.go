package cmd

import (
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:     "keithc",
	Short:   "Compiler for the Keith plotting language",
	Version: "0.1.0-dev",
	Long: `keithc compiles Keith programs — constants, sliders, functions,
and a Plot statement — to a WASM module exporting a memory and a
redraw entry point.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
