// Package repl implements the interactive read-eval-print loop.
package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/go-lisp/minilisp/lexer"
	"github.com/go-lisp/minilisp/lisp"
	"github.com/go-lisp/minilisp/parser"
	"github.com/go-lisp/minilisp/token"
)

// Prompt is the REPL's primary prompt, matching the teacher's repl.go
// default of a short fixed string.
const Prompt = "minilisp> "

// Run starts the interactive loop against env, reading from and writing
// to the readline instance it creates. It returns when the input stream
// is closed (EOF) or readline reports any other error; an interrupt
// discards pending input and the loop continues. Follows the teacher's
// RunRepl (repl/repl.go).
func Run(env *lisp.Env) error {
	fmt.Fprintln(env.Stderr(), "minilisp: EOF (Ctrl-D) exits")

	rl, err := readline.New(Prompt)
	if err != nil {
		return fmt.Errorf("repl: %w", err)
	}
	defer rl.Close()

	contPrompt := strings.Repeat(" ", len(Prompt))

	var pending []byte
	for {
		line, err := rl.ReadSlice()
		switch err {
		case nil:
			// fall through
		case readline.ErrInterrupt:
			pending = nil
			rl.SetPrompt(Prompt)
			continue
		case io.EOF:
			fmt.Fprintln(env.Stderr())
			return nil
		default:
			return fmt.Errorf("repl: %w", err)
		}

		if len(pending) != 0 {
			pending = append(pending, '\n')
			pending = append(pending, line...)
			line = pending
			pending = nil
		}
		if len(strings.TrimSpace(string(line))) == 0 {
			rl.SetPrompt(Prompt)
			continue
		}

		toks, lexErr := lexer.Tokenize(line)
		if lexErr != nil {
			if unbalanced(line) {
				pending = line
				rl.SetPrompt(contPrompt)
				continue
			}
			fmt.Fprintln(env.Stderr(), lexErr)
			rl.SetPrompt(Prompt)
			continue
		}
		if depth := parenDepth(toks); depth > 0 {
			pending = line
			rl.SetPrompt(contPrompt)
			continue
		} else if depth < 0 {
			fmt.Fprintln(env.Stderr(), "unexpected )")
			rl.SetPrompt(Prompt)
			continue
		}

		forms, perr := parser.Parse(toks)
		if perr != nil {
			fmt.Fprintln(env.Stderr(), perr.Error())
			rl.SetPrompt(Prompt)
			continue
		}
		for _, form := range forms {
			result, panicErr := evalRecovered(env, form)
			if panicErr != nil {
				fmt.Fprintln(env.Stderr(), panicErr)
				continue
			}
			fmt.Fprintln(env.Stdout(), result.String())
		}
		rl.SetPrompt(Prompt)
	}
}

// evalRecovered runs lisp.Eval, turning a depth-exceeded panic (from
// lisp.WithMaxDepth) into an ordinary error instead of letting it unwind
// into the REPL loop and take the process down with it.
func evalRecovered(env *lisp.Env, form *lisp.Value) (result *lisp.Value, panicErr error) {
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok {
				panicErr = err
				return
			}
			panicErr = fmt.Errorf("%v", r)
		}
	}()
	return lisp.Eval(form, env), nil
}

// unbalanced reports whether line's parens are open, used to decide
// whether a lex error (typically an unterminated string spanning a
// newline the user has not typed yet) should instead trigger a
// continuation prompt. A lex error inside balanced parens is a real
// error and is reported immediately.
func unbalanced(line []byte) bool {
	depth := 0
	for _, b := range line {
		switch b {
		case '(':
			depth++
		case ')':
			depth--
		}
	}
	return depth > 0
}

// parenDepth returns the net paren nesting left open by toks.
func parenDepth(toks []token.Token) int {
	depth := 0
	for _, t := range toks {
		switch t.Kind {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
		}
	}
	return depth
}
