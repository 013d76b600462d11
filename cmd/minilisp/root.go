package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-lisp/minilisp/lisp"
	"github.com/go-lisp/minilisp/repl"
)

var maxDepth int

var rootCmd = &cobra.Command{
	Use:   "minilisp [file]",
	Short: "A small Lisp interpreter",
	Long:  `minilisp evaluates Lisp source, either interactively or from a file.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 1 {
			// A single positional argument on the root command runs that
			// file, same as "minilisp run <file>".
			os.Exit(runFilesMain(args))
		}

		env := lisp.NewEnv(nil, lisp.WithMaxDepth(maxDepth))
		env.AddBuiltins()
		if err := repl.Run(env); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", 0,
		"maximum recursion depth (0 means unlimited)")
}
