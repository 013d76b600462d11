package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-lisp/minilisp/lexer"
	"github.com/go-lisp/minilisp/lisp"
	"github.com/go-lisp/minilisp/parser"
)

var runPrint bool

// runCmd evaluates a source file form by form, in the teacher's
// cmd/run.go style, minus the -e/--expression flag: this interpreter's
// run command always takes file paths.
var runCmd = &cobra.Command{
	Use:   "run [file...]",
	Short: "Run Lisp source files",
	Long:  `Run evaluates each file's top-level forms in a single environment, in order.`,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runFilesMain(args))
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"print the result of every top-level form to stdout")
}

// openError marks a failure to read a source file, as distinct from a
// lex, parse or evaluation failure encountered while running one that
// opened fine: spec.md section 6 exits 1 for the former and 0 for the
// latter.
type openError struct {
	err error
}

func (e *openError) Error() string { return e.err.Error() }
func (e *openError) Unwrap() error { return e.err }

// runFilesMain runs paths and returns the process exit code: 1 if a file
// could not be opened, 0 otherwise, even when a form failed to lex,
// parse or evaluate (that failure is still reported to stderr).
func runFilesMain(paths []string) int {
	err := runFiles(paths)
	if err == nil {
		return 0
	}
	fmt.Fprintln(os.Stderr, err)
	var open *openError
	if errors.As(err, &open) {
		return 1
	}
	return 0
}

func runFiles(paths []string) error {
	env := lisp.NewEnv(nil, lisp.WithMaxDepth(maxDepth))
	env.AddBuiltins()

	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return &openError{err: fmt.Errorf("run: %w", err)}
		}
		if err := runSource(env, src); err != nil {
			return fmt.Errorf("run: %s: %w", path, err)
		}
	}
	return nil
}

func runSource(env *lisp.Env, src []byte) (runErr error) {
	defer func() {
		if r := recover(); r != nil {
			runErr = fmt.Errorf("%v", r)
		}
	}()

	toks, err := lexer.Tokenize(src)
	if err != nil {
		return err
	}
	forms, perr := parser.Parse(toks)
	if perr != nil {
		return perr
	}
	for _, form := range forms {
		result := lisp.Eval(form, env)
		if lisp.IsError(result) {
			return result
		}
		if runPrint {
			fmt.Fprintln(env.Stdout(), result.String())
		}
	}
	return nil
}
