// Command minilisp is the interpreter's command-line front end: a bare
// invocation starts an interactive REPL, and the run subcommand
// evaluates a source file. Grounded on the teacher's cmd/ layout
// (cmd/run.go) built with github.com/spf13/cobra.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
