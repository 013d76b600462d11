package lisp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinCarCdrCons(t *testing.T) {
	env := newTestEnv()
	l := List(Symbol("quote"), List(Integer(1), Integer(2), Integer(3)))

	car := Eval(List(Symbol("car"), l), env)
	assert.Equal(t, int64(1), car.Int)

	cdr := Eval(List(Symbol("cdr"), l), env)
	assert.Equal(t, "(2 3)", cdr.String())

	cons := Eval(List(Symbol("cons"), Integer(0), l), env)
	assert.Equal(t, "(0 1 2 3)", cons.String())
}

func TestBuiltinCarOfNilIsNil(t *testing.T) {
	env := newTestEnv()
	v := Eval(List(Symbol("car"), Nil()), env)
	assert.Equal(t, KNil, v.Kind)
}

func TestBuiltinCarTypeError(t *testing.T) {
	env := newTestEnv()
	v := Eval(List(Symbol("car"), Integer(1)), env)
	require.True(t, IsError(v))
	assert.Equal(t, TypeError, v.ErrKind)
}

func TestBuiltinAtom(t *testing.T) {
	env := newTestEnv()
	assert.Equal(t, KT, Eval(List(Symbol("atom"), Integer(1)), env).Kind)
	assert.Equal(t, KNil, Eval(List(Symbol("atom"), List(Symbol("quote"), List(Integer(1)))), env).Kind)
}

func TestBuiltinStringComparisons(t *testing.T) {
	env := newTestEnv()
	assert.Equal(t, KT, Eval(List(Symbol("string="), String("a"), String("a")), env).Kind)
	assert.Equal(t, KT, Eval(List(Symbol("string<"), String("a"), String("b")), env).Kind)
	assert.Equal(t, KT, Eval(List(Symbol("string-equal"), String("A"), String("a")), env).Kind)
}

func TestBuiltinConcat(t *testing.T) {
	env := newTestEnv()
	v := Eval(List(Symbol("concat"), String("foo"), String("bar")), env)
	assert.Equal(t, "foobar", v.Str)
}

func TestBuiltinConcatTypeError(t *testing.T) {
	env := newTestEnv()
	v := Eval(List(Symbol("concat"), String("foo"), Integer(1)), env)
	require.True(t, IsError(v))
	assert.Equal(t, TypeError, v.ErrKind)
}

func TestBuiltinWriteAndPrinc(t *testing.T) {
	var out bytes.Buffer
	env := NewEnv(nil, WithStdout(&out))
	env.AddBuiltins()

	Eval(List(Symbol("write"), String("hi")), env)
	assert.Equal(t, `"hi"`, out.String())

	out.Reset()
	Eval(List(Symbol("princ"), String("hi")), env)
	assert.Equal(t, "hi", out.String())
}

func TestBuiltinWriteLineTypeError(t *testing.T) {
	env := newTestEnv()
	v := Eval(List(Symbol("write-line"), Integer(1)), env)
	require.True(t, IsError(v))
	assert.Equal(t, TypeError, v.ErrKind)
}

func TestBuiltinReadStr(t *testing.T) {
	env := NewEnv(nil, WithStdin(strings.NewReader("hello world")))
	env.AddBuiltins()

	v := Eval(List(Symbol("read-str")), env)
	assert.Equal(t, "hello", v.Str)
	v = Eval(List(Symbol("read-str")), env)
	assert.Equal(t, "world", v.Str)
}

func TestBuiltinReadIntAndNum(t *testing.T) {
	env := NewEnv(nil, WithStdin(strings.NewReader("42 3.5")))
	env.AddBuiltins()

	v := Eval(List(Symbol("read-int")), env)
	assert.Equal(t, int64(42), v.Int)
	v = Eval(List(Symbol("read-num")), env)
	assert.Equal(t, 3.5, v.Num)
}

func TestBuiltinSetAndSetq(t *testing.T) {
	env := newTestEnv()
	Eval(List(Symbol("setq"), Symbol("x"), Integer(10)), env)
	assert.Equal(t, int64(10), env.Get("x").Int)

	Eval(List(Symbol("set"), List(Symbol("quote"), Symbol("y")), Integer(20)), env)
	assert.Equal(t, int64(20), env.Get("y").Int)
}

func TestBuiltinIntToStringAndNumToString(t *testing.T) {
	env := newTestEnv()
	assert.Equal(t, "7", Eval(List(Symbol("int-to-string"), Integer(7)), env).Str)
	assert.Equal(t, "7.5", Eval(List(Symbol("num-to-string"), Number(7.5)), env).Str)
}

func TestBuiltinTypeOf(t *testing.T) {
	env := newTestEnv()
	assert.Equal(t, "Integer", Eval(List(Symbol("type-of"), Integer(1)), env).Str)
	assert.Equal(t, "List", Eval(List(Symbol("type-of"), List(Symbol("quote"), List(Integer(1)))), env).Str)
}

func TestBuiltinArityMismatch(t *testing.T) {
	env := newTestEnv()
	v := Eval(List(Symbol("cons"), Integer(1)), env)
	require.True(t, IsError(v))
	assert.Equal(t, ArityMismatch, v.ErrKind)
}

func TestBuiltinArityShort(t *testing.T) {
	env := newTestEnv()
	v := Eval(List(Symbol("+"), Integer(1)), env)
	require.True(t, IsError(v))
	assert.Equal(t, ArityShort, v.ErrKind)
}

func TestBuiltinLambdaBadParams(t *testing.T) {
	env := newTestEnv()
	v := Eval(List(Symbol("lambda"), Integer(1), Integer(2)), env)
	require.True(t, IsError(v))
	assert.Equal(t, TypeError, v.ErrKind)
}
