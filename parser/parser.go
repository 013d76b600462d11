/*
Package parser builds value trees from a token sequence.

	expr    := atom | list | quote | bquote | comma | commaat
	list    := '(' expr* ')'
	quote   := '\'' expr
	bquote  := '`' expr
	comma   := ',' expr           # when not followed by '@'
	commaat := ',' '@' expr
	atom    := integer | number | string | identifier

Grounded on the teacher's parser/parser.go, which drives a
github.com/prataprc/goparsec grammar built from parsec.Atom/parsec.Token
leaves over a text scanner. goparsec's own Scanner works over bytes, so
the token sequence spec.md 4.2 names as this package's input is first
re-serialized to its canonical textual form (one-token-in, one-token-out,
since every Token already carries its own unambiguous text) and then
driven through the same style of And/OrdChoice/Kleene grammar the teacher
uses, rather than re-implementing goparsec's Scanner over a token slice.
*/
package parser

import (
	"strconv"
	"strings"

	"github.com/go-lisp/minilisp/lisp"
	"github.com/go-lisp/minilisp/token"
	parsec "github.com/prataprc/goparsec"
)

// Parse parses every top-level expr encoded by toks and returns the
// resulting values in order. A structural error (unclosed list, stray
// close-paren, trailing garbage) is reported as a *lisp.Value of Kind
// KError / ErrorKind ParseError.
func Parse(toks []token.Token) ([]*lisp.Value, *lisp.Value) {
	src := serialize(toks)
	s := parsec.NewScanner([]byte(src))
	expr := grammar()

	var out []*lisp.Value
	for {
		_, s = s.SkipWS()
		if s.Endof() {
			break
		}
		node, next := expr(s)
		if node == nil {
			return nil, lisp.Errorf(lisp.ParseError, "unexpected input at offset %d", s.GetCursor())
		}
		// expr is built with OrdChoice(nil, ...); a nil Nodify callback
		// makes goparsec return the []ParsecNode wrapper unchanged instead
		// of unwrapping it, so undo that wrapping the same way the other
		// ast* callbacks do via cleanNodes.
		if wrapped, ok := node.([]parsec.ParsecNode); ok {
			if cleaned := cleanNodes(wrapped); len(cleaned) == 1 {
				node = cleaned[0]
			}
		}
		v, ok := node.(*lisp.Value)
		if !ok {
			return nil, lisp.Errorf(lisp.ParseError, "malformed expression")
		}
		if lisp.IsError(v) {
			return nil, v
		}
		out = append(out, v)
		s = next
	}
	return out, nil
}

// grammar builds the goparsec combinator tree, following the shape of the
// teacher's newParsecParser: a forward-declared recursive expr parser
// composed with And/OrdChoice/Kleene.
func grammar() parsec.Parser {
	lparen := parsec.Atom("(", "LPAREN")
	rparen := parsec.Atom(")", "RPAREN")
	quoteTok := parsec.Atom("'", "QUOTE")
	bquoteTok := parsec.Atom("`", "BACKQUOTE")
	commaTok := parsec.Atom(",", "COMMA")
	atmarkTok := parsec.Atom("@", "ATMARK")

	integer := parsec.Token(`[0-9]+`, "INTEGER")
	number := parsec.Token(`[0-9]+\.[0-9]+`, "NUMBER")
	identifier := parsec.Token(identifierPattern, "IDENTIFIER")
	str := parsec.String()

	atom := parsec.OrdChoice(astAtom, str, number, integer, identifier)

	var expr parsec.Parser
	list := parsec.And(astList, lparen, parsec.Kleene(nil, &expr), rparen)
	quote := parsec.And(astQuote, quoteTok, &expr)
	bquote := parsec.And(astBQuote, bquoteTok, &expr)
	commaAt := parsec.And(astCommaAt, commaTok, atmarkTok, &expr)
	comma := parsec.And(astComma, commaTok, &expr)

	expr = parsec.OrdChoice(nil, atom, list, quote, bquote, commaAt, comma)
	return expr
}

// identifierPattern matches spec.md 3's identifier charset: head
// [A-Za-z+*/=<>-], tail additionally digits.
const identifierPattern = `[A-Za-z+*/=<>\-][A-Za-z0-9+*/=<>\-]*`

func astAtom(nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes = cleanNodes(nodes)
	if len(nodes) != 1 {
		return nil
	}
	switch n := nodes[0].(type) {
	case string:
		// parsec.String() returns the matched text including quotes.
		return lisp.String(unquote(n))
	case *parsec.Terminal:
		switch n.Name {
		case "INTEGER":
			i, err := strconv.ParseInt(n.Value, 10, 64)
			if err != nil {
				return lisp.Errorf(lisp.ParseError, "bad integer literal %q", n.Value)
			}
			return lisp.Integer(i)
		case "NUMBER":
			f, err := strconv.ParseFloat(n.Value, 64)
			if err != nil {
				return lisp.Errorf(lisp.ParseError, "bad number literal %q", n.Value)
			}
			return lisp.Number(f)
		case "IDENTIFIER":
			return lisp.Symbol(n.Value)
		}
	}
	return nil
}

func astList(nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes = cleanNodes(nodes)
	var items []*lisp.Value
	for _, n := range nodes {
		if v, ok := n.(*lisp.Value); ok {
			items = append(items, v)
		}
	}
	return lisp.List(items...)
}

func astQuote(nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes = cleanNodes(nodes)
	v := lastValue(nodes)
	if v == nil {
		return nil
	}
	return &lisp.Value{Kind: lisp.KQuoted, Inner: v}
}

func astBQuote(nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes = cleanNodes(nodes)
	v := lastValue(nodes)
	if v == nil {
		return nil
	}
	return &lisp.Value{Kind: lisp.KBackQuoted, Inner: v}
}

func astComma(nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes = cleanNodes(nodes)
	v := lastValue(nodes)
	if v == nil {
		return nil
	}
	return &lisp.Value{Kind: lisp.KComma, Inner: v}
}

func astCommaAt(nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes = cleanNodes(nodes)
	v := lastValue(nodes)
	if v == nil {
		return nil
	}
	return &lisp.Value{Kind: lisp.KCommaAt, Inner: v}
}

func lastValue(nodes []parsec.ParsecNode) *lisp.Value {
	if len(nodes) == 0 {
		return nil
	}
	v, _ := nodes[len(nodes)-1].(*lisp.Value)
	return v
}

// cleanNodes flattens nested []parsec.ParsecNode slices, mirroring the
// teacher's cleanParsecNodeList.
func cleanNodes(nodes []parsec.ParsecNode) []parsec.ParsecNode {
	var out []parsec.ParsecNode
	for _, n := range nodes {
		if sub, ok := n.([]parsec.ParsecNode); ok {
			out = append(out, cleanNodes(sub)...)
		} else {
			out = append(out, n)
		}
	}
	return out
}

func unquote(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}

// serialize renders toks back to their canonical textual form, one token
// per source fragment, space-separated so independently lexed tokens
// never accidentally merge into one.
func serialize(toks []token.Token) string {
	var buf strings.Builder
	for i, t := range toks {
		if i > 0 {
			buf.WriteByte(' ')
		}
		switch t.Kind {
		case token.LParen:
			buf.WriteByte('(')
		case token.RParen:
			buf.WriteByte(')')
		case token.Quote:
			buf.WriteByte('\'')
		case token.BackQuote:
			buf.WriteByte('`')
		case token.Comma:
			buf.WriteByte(',')
		case token.Atmark:
			buf.WriteByte('@')
		case token.Integer:
			buf.WriteString(strconv.FormatInt(t.Int, 10))
		case token.Number:
			buf.WriteString(formatNumber(t.Num))
		case token.String:
			buf.WriteByte('"')
			buf.WriteString(t.Text)
			buf.WriteByte('"')
		case token.Identifier:
			buf.WriteString(t.Text)
		}
	}
	return buf.String()
}

// formatNumber guarantees a literal decimal point so the NUMBER terminal
// (as opposed to INTEGER) matches on re-parse, even for round values like
// 2.0.
func formatNumber(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
