package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "(", LParen.String())
	assert.Equal(t, ")", RParen.String())
	assert.Equal(t, "identifier", Identifier.String())
	assert.Equal(t, "invalid", Kind(999).String())
}

func TestTokenString(t *testing.T) {
	assert.Equal(t, "(", Token{Kind: LParen}.String())
	assert.Equal(t, "foo", Token{Kind: Identifier, Text: "foo"}.String())
	assert.Equal(t, "42", Token{Kind: Integer, Int: 42}.String())
}
