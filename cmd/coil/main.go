// Command coil runs precompiled coil code units. Producing them (lexing,
// parsing, code generation) is out of scope for this module; coil only
// loads and executes the gob-encoded ir.CodeUnit a compiler emits.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
