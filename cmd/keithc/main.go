// Command keithc compiles Keith plotting programs to WASM.
package main

import (
	"fmt"
	"os"

	"github.com/nhatcher/keithc/cmd/keithc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
