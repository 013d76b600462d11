package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "type-error", TypeError.String())
	assert.Equal(t, "unbound-symbol", UnboundSymbol.String())
	assert.Equal(t, "unknown-error", ErrorKind(999).String())
}

func TestErrorfAndIsError(t *testing.T) {
	v := Errorf(ArithError, "%s by zero", "division")
	assert.True(t, IsError(v))
	assert.Equal(t, ArithError, v.ErrKind)
	assert.Equal(t, "division by zero", v.Msg)
	assert.False(t, IsError(Integer(1)))
	assert.False(t, IsError(nil))
}
