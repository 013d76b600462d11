package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-lisp/minilisp/token"
)

func TestTokenizePunctuation(t *testing.T) {
	toks, err := Tokenize([]byte(`(foo 'bar ,@baz ,quux )`))
	require.NoError(t, err)
	kinds := make([]token.Kind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	assert.Equal(t, []token.Kind{
		token.LParen,
		token.Identifier,
		token.Quote,
		token.Identifier,
		token.Comma,
		token.Atmark,
		token.Identifier,
		token.Comma,
		token.Identifier,
		token.RParen,
	}, kinds)
}

func TestTokenizeInteger(t *testing.T) {
	toks, err := Tokenize([]byte("42"))
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, token.Integer, toks[0].Kind)
	assert.Equal(t, int64(42), toks[0].Int)
}

func TestTokenizeNumber(t *testing.T) {
	toks, err := Tokenize([]byte("3.5"))
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, token.Number, toks[0].Kind)
	assert.Equal(t, 3.5, toks[0].Num)
}

func TestTokenizeString(t *testing.T) {
	toks, err := Tokenize([]byte(`"hello world"`))
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, token.String, toks[0].Kind)
	assert.Equal(t, "hello world", toks[0].Text)
}

func TestTokenizeIdentifierSymbols(t *testing.T) {
	toks, err := Tokenize([]byte("+ - * / = < > <= >= string="))
	require.NoError(t, err)
	require.Len(t, toks, 10)
	for _, tok := range toks {
		assert.Equal(t, token.Identifier, tok.Kind)
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, err := Tokenize([]byte(`"unterminated`))
	assert.Error(t, err)
}

func TestTokenizeUnexpectedCharacter(t *testing.T) {
	_, err := Tokenize([]byte("#"))
	assert.Error(t, err)
}

func TestNextExhausted(t *testing.T) {
	lex := New([]byte("   "))
	_, ok, err := lex.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}
