// Package lexer turns source text into a token stream for package parser.
package lexer

import (
	"fmt"
	"strconv"

	"github.com/go-lisp/minilisp/token"
)

// Error is a lexical error: an unexpected byte or an unterminated string.
type Error struct {
	Msg string
}

func (e *Error) Error() string {
	return e.Msg
}

func errorf(format string, v ...interface{}) error {
	return &Error{Msg: fmt.Sprintf(format, v...)}
}

// Lexer scans a byte slice into tokens one at a time, following the
// maximal-munch rules of spec.md 4.1: a leading byte class decides the
// token, and each identifier/number/string run is consumed in full before
// the next token starts.
type Lexer struct {
	src []byte
	pos int
}

// New returns a Lexer over src.
func New(src []byte) *Lexer {
	return &Lexer{src: src}
}

// Tokenize lexes all of src and returns the resulting token sequence,
// terminated implicitly (no EOF token is appended; callers use err == nil
// and a fully-consumed Lexer to detect the end).
func Tokenize(src []byte) ([]token.Token, error) {
	lex := New(src)
	var toks []token.Token
	for {
		tok, ok, err := lex.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

// Next returns the next token. ok is false (with a nil error) once the
// input is exhausted.
func (l *Lexer) Next() (token.Token, bool, error) {
	l.skipWhitespace()
	if l.atEOF() {
		return token.Token{}, false, nil
	}

	c := l.src[l.pos]
	switch c {
	case '(':
		l.pos++
		return token.Token{Kind: token.LParen}, true, nil
	case ')':
		l.pos++
		return token.Token{Kind: token.RParen}, true, nil
	case '\'':
		l.pos++
		return token.Token{Kind: token.Quote}, true, nil
	case '`':
		l.pos++
		return token.Token{Kind: token.BackQuote}, true, nil
	case ',':
		l.pos++
		return token.Token{Kind: token.Comma}, true, nil
	case '@':
		l.pos++
		return token.Token{Kind: token.Atmark}, true, nil
	case '"':
		return l.readString()
	}

	switch {
	case isDigit(c):
		return l.readNumber()
	case isIdentHead(c):
		return l.readIdentifier()
	default:
		return token.Token{}, false, errorf("unexpected character %q", c)
	}
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.src)
}

func (l *Lexer) skipWhitespace() {
	for !l.atEOF() && isSpace(l.src[l.pos]) {
		l.pos++
	}
}

func (l *Lexer) readString() (token.Token, bool, error) {
	start := l.pos + 1 // skip opening quote
	i := start
	for {
		if i >= len(l.src) {
			return token.Token{}, false, errorf("unterminated string literal")
		}
		if l.src[i] == '"' {
			break
		}
		i++
	}
	text := string(l.src[start:i])
	l.pos = i + 1 // skip closing quote
	return token.Token{Kind: token.String, Text: text}, true, nil
}

func (l *Lexer) readNumber() (token.Token, bool, error) {
	start := l.pos
	for !l.atEOF() && isDigit(l.src[l.pos]) {
		l.pos++
	}
	if !l.atEOF() && l.src[l.pos] == '.' {
		l.pos++
		fracStart := l.pos
		for !l.atEOF() && isDigit(l.src[l.pos]) {
			l.pos++
		}
		if l.pos == fracStart {
			return token.Token{}, false, errorf("invalid number literal %q", l.src[start:l.pos])
		}
		text := string(l.src[start:l.pos])
		n, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return token.Token{}, false, errorf("invalid number literal %q: %v", text, err)
		}
		return token.Token{Kind: token.Number, Num: n}, true, nil
	}
	text := string(l.src[start:l.pos])
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return token.Token{}, false, errorf("invalid integer literal %q: %v", text, err)
	}
	return token.Token{Kind: token.Integer, Int: n}, true, nil
}

func (l *Lexer) readIdentifier() (token.Token, bool, error) {
	start := l.pos
	l.pos++
	for !l.atEOF() && isIdentTail(l.src[l.pos]) {
		l.pos++
	}
	return token.Token{Kind: token.Identifier, Text: string(l.src[start:l.pos])}, true, nil
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// identHeadSymbols are the non-letter bytes spec.md 3 allows to start an
// identifier: + * / = < > -.
const identHeadSymbols = "+*/=<>-"

func isIdentHead(c byte) bool {
	if isLetter(c) {
		return true
	}
	for i := 0; i < len(identHeadSymbols); i++ {
		if identHeadSymbols[i] == c {
			return true
		}
	}
	return false
}

func isIdentTail(c byte) bool {
	return isIdentHead(c) || isDigit(c)
}
