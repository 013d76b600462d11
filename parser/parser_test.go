package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-lisp/minilisp/lexer"
	"github.com/go-lisp/minilisp/lisp"
)

func parseSrc(t *testing.T, src string) []*lisp.Value {
	t.Helper()
	toks, err := lexer.Tokenize([]byte(src))
	require.NoError(t, err)
	forms, perr := Parse(toks)
	require.Nil(t, perr)
	return forms
}

func TestParseAtoms(t *testing.T) {
	forms := parseSrc(t, `42 3.5 "hi" foo`)
	require.Len(t, forms, 4)
	assert.Equal(t, lisp.KInteger, forms[0].Kind)
	assert.Equal(t, int64(42), forms[0].Int)
	assert.Equal(t, lisp.KNumber, forms[1].Kind)
	assert.Equal(t, 3.5, forms[1].Num)
	assert.Equal(t, lisp.KString, forms[2].Kind)
	assert.Equal(t, "hi", forms[2].Str)
	assert.Equal(t, lisp.KSymbol, forms[3].Kind)
	assert.Equal(t, "foo", forms[3].Str)
}

func TestParseList(t *testing.T) {
	forms := parseSrc(t, `(+ 1 2)`)
	require.Len(t, forms, 1)
	assert.Equal(t, "(+ 1 2)", forms[0].String())
}

func TestParseNestedList(t *testing.T) {
	forms := parseSrc(t, `(defun f (x) (+ x 1))`)
	require.Len(t, forms, 1)
	assert.Equal(t, "(defun f (x) (+ x 1))", forms[0].String())
}

func TestParseQuoteBackquoteComma(t *testing.T) {
	forms := parseSrc(t, "'x `y ,z ,@w")
	require.Len(t, forms, 4)
	assert.Equal(t, lisp.KQuoted, forms[0].Kind)
	assert.Equal(t, lisp.KBackQuoted, forms[1].Kind)
	assert.Equal(t, lisp.KComma, forms[2].Kind)
	assert.Equal(t, lisp.KCommaAt, forms[3].Kind)
}

func TestParseMultipleTopLevelForms(t *testing.T) {
	forms := parseSrc(t, `1 2 3`)
	require.Len(t, forms, 3)
}

func TestParseUnclosedListIsError(t *testing.T) {
	toks, err := lexer.Tokenize([]byte(`(+ 1 2`))
	require.NoError(t, err)
	_, perr := Parse(toks)
	require.NotNil(t, perr)
	assert.Equal(t, lisp.ParseError, perr.ErrKind)
}

func TestParseStrayCloseParenIsError(t *testing.T) {
	toks, err := lexer.Tokenize([]byte(`)`))
	require.NoError(t, err)
	_, perr := Parse(toks)
	require.NotNil(t, perr)
	assert.Equal(t, lisp.ParseError, perr.ErrKind)
}
