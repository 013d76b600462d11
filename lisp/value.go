// Package lisp implements the value model, environment, evaluator and
// builtin table of the interpreter.
package lisp

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Kind is the tag of a Value. The set is closed: List, T, NIL, Integer,
// Number, String, Symbol, Function, PartiallyApplied, Macro, Builtin,
// PartiallyAppliedBuiltin, Quoted, BackQuoted, Comma, CommaAt, Error.
type Kind uint

const (
	KInvalid Kind = iota
	KList
	KT
	KNil
	KInteger
	KNumber
	KString
	KSymbol
	KFunction
	KPartiallyApplied
	KMacro
	KBuiltin
	KPartiallyAppliedBuiltin
	KQuoted
	KBackQuoted
	KComma
	KCommaAt
	KError
)

var kindStrings = map[Kind]string{
	KInvalid:                 "invalid",
	KList:                    "list",
	KT:                       "t",
	KNil:                     "nil",
	KInteger:                 "integer",
	KNumber:                  "number",
	KString:                  "string",
	KSymbol:                  "symbol",
	KFunction:                "function",
	KPartiallyApplied:        "partially-applied-function",
	KMacro:                   "macro",
	KBuiltin:                 "builtin",
	KPartiallyAppliedBuiltin: "partially-applied-builtin",
	KQuoted:                  "quoted",
	KBackQuoted:              "backquoted",
	KComma:                   "comma",
	KCommaAt:                 "comma-at",
	KError:                   "error",
}

func (k Kind) String() string {
	if s, ok := kindStrings[k]; ok {
		return s
	}
	return kindStrings[KInvalid]
}

// BuiltinFunc implements a builtin primitive. It receives the raw,
// unevaluated argument list and the calling environment; each builtin
// decides for itself whether and how much of args to evaluate.
type BuiltinFunc func(env *Env, args *Value) *Value

// Value is a tagged union over the closed variant set of spec.md section 3.
// Only the fields relevant to Kind are populated; the rest are zero.
type Value struct {
	Kind Kind

	// Integer, Number
	Int int64
	Num float64

	// String, Symbol
	Str string

	// List: a singly-linked cons cell. Tail is nil for the last cell; an
	// empty list is never represented as a List, only as NIL.
	Head *Value
	Tail *Value

	// Function, Macro
	Params *Value // NIL or a List of Symbol values
	Body   []*Value
	Env    *Env // captured lexically at lambda/defun time

	// PartiallyApplied, PartiallyAppliedBuiltin: Callee holds the
	// Function/Builtin value being partially applied, Args the
	// already-evaluated pending arguments.
	Callee *Value
	Args   []*Value

	// Builtin
	Builtin     BuiltinFunc
	BuiltinName string

	// Quoted, BackQuoted, Comma, CommaAt
	Inner *Value

	// Error
	ErrKind ErrorKind
	Msg     string
}

var (
	tSingleton   = &Value{Kind: KT}
	nilSingleton = &Value{Kind: KNil}
)

// T returns the canonical truth atom.
func T() *Value { return tSingleton }

// Nil returns the canonical false / empty-list atom.
func Nil() *Value { return nilSingleton }

// Bool returns T() if b is true, otherwise Nil().
func Bool(b bool) *Value {
	if b {
		return T()
	}
	return Nil()
}

// Integer returns a Value holding an int64.
func Integer(n int64) *Value {
	return &Value{Kind: KInteger, Int: n}
}

// Number returns a Value holding a float64.
func Number(n float64) *Value {
	return &Value{Kind: KNumber, Num: n}
}

// String returns a Value holding a string.
func String(s string) *Value {
	return &Value{Kind: KString, Str: s}
}

// Symbol returns a Value holding a symbol name.
func Symbol(name string) *Value {
	return &Value{Kind: KSymbol, Str: name}
}

// Cons prepends head onto tail, producing a List cell. tail must be KList
// or KNil (KNil becomes an absent tail, i.e. the new cell is the last one).
func Cons(head, tail *Value) *Value {
	v := &Value{Kind: KList, Head: head}
	if tail != nil && tail.Kind == KList {
		v.Tail = tail
	}
	return v
}

// List builds a List from vs, or Nil() if vs is empty.
func List(vs ...*Value) *Value {
	if len(vs) == 0 {
		return Nil()
	}
	head := &Value{Kind: KList, Head: vs[0]}
	cur := head
	for _, v := range vs[1:] {
		next := &Value{Kind: KList, Head: v}
		cur.Tail = next
		cur = next
	}
	return head
}

// Items collects the elements of a List (or Nil, yielding nil) into a
// slice, in order.
func Items(v *Value) []*Value {
	if v == nil || v.Kind != KList {
		return nil
	}
	var out []*Value
	for cur := v; cur != nil; cur = cur.Tail {
		out = append(out, cur.Head)
	}
	return out
}

// IsAtom reports whether v is an atom variant: every variant except List,
// Function, PartiallyApplied, Macro, Builtin, PartiallyAppliedBuiltin and
// the quote wrappers.
func IsAtom(v *Value) bool {
	switch v.Kind {
	case KList, KFunction, KPartiallyApplied, KMacro, KBuiltin, KPartiallyAppliedBuiltin,
		KQuoted, KBackQuoted, KComma, KCommaAt:
		return false
	default:
		return true
	}
}

// IsCallable reports whether v can appear in the head position of a
// combination.
func IsCallable(v *Value) bool {
	switch v.Kind {
	case KFunction, KPartiallyApplied, KMacro, KBuiltin, KPartiallyAppliedBuiltin:
		return true
	default:
		return false
	}
}

// TypeName returns the textual variant name used by the type-of builtin,
// following the capitalised naming original_source's fn_type_of uses
// ("List", "T", "NIL", "Integer", ...).
func TypeName(v *Value) string {
	switch v.Kind {
	case KList:
		return "List"
	case KT:
		return "T"
	case KNil:
		return "NIL"
	case KInteger:
		return "Integer"
	case KNumber:
		return "Number"
	case KString:
		return "String"
	case KSymbol:
		return "Symbol"
	case KFunction:
		return "Function"
	case KPartiallyApplied:
		return "PartiallyAppliedFunction"
	case KMacro:
		return "Macro"
	case KBuiltin:
		return "Builtin"
	case KPartiallyAppliedBuiltin:
		return "PartiallyAppliedBuiltin"
	case KQuoted:
		return "Quoted"
	case KBackQuoted:
		return "BackQuoted"
	case KComma:
		return "Comma"
	case KCommaAt:
		return "CommaAtmark"
	case KError:
		return "Error"
	default:
		return "Invalid"
	}
}

// String renders v using the textual representation rules of spec.md
// section 6, matching the teacher's LVal.String()/exprString pattern.
func (v *Value) String() string {
	if v == nil {
		return "NIL"
	}
	switch v.Kind {
	case KT:
		return "T"
	case KNil:
		return "NIL"
	case KInteger:
		return strconv.FormatInt(v.Int, 10)
	case KNumber:
		return formatNumber(v.Num)
	case KString:
		return `"` + v.Str + `"`
	case KSymbol:
		return v.Str
	case KList:
		return listString(v)
	case KFunction:
		return fmt.Sprintf("FUNCTION %s", callableBodyString(v))
	case KMacro:
		return fmt.Sprintf("MACRO %s", callableBodyString(v))
	case KPartiallyApplied:
		return partialString(v.Callee, v.Args)
	case KBuiltin:
		return "buildin function"
	case KPartiallyAppliedBuiltin:
		return partialString(v.Callee, v.Args)
	case KQuoted:
		return "'" + v.Inner.String()
	case KBackQuoted:
		return "`" + v.Inner.String()
	case KComma:
		return "," + v.Inner.String()
	case KCommaAt:
		return ",@" + v.Inner.String()
	case KError:
		return v.Msg
	default:
		return fmt.Sprintf("#<invalid %p>", v)
	}
}

// Error implements the error interface so *Value{Kind: KError} can be
// threaded through ordinary Go error returns in internal helpers, mirroring
// the teacher's ErrorVal pattern of first-class error values.
func (v *Value) Error() string {
	return v.Msg
}

// formatNumber renders a Number with a literal decimal point, never
// collapsing to integer-looking text and never switching to scientific
// notation, so the result always re-lexes as a NUMBER token rather than
// an INTEGER or something this module's lexer/parser can't read back at
// all. Mirrors original_source's NumberObject::debug(), which always
// goes through std::to_string(double).
func formatNumber(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func listString(v *Value) string {
	var buf bytes.Buffer
	buf.WriteString("(")
	for cur, i := v, 0; cur != nil; cur, i = cur.Tail, i+1 {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(cur.Head.String())
	}
	buf.WriteString(")")
	return buf.String()
}

func callableBodyString(v *Value) string {
	var buf bytes.Buffer
	buf.WriteString("(")
	for i, p := range Items(v.Params) {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(p.String())
	}
	buf.WriteString(")")
	for _, b := range v.Body {
		buf.WriteString(" ")
		buf.WriteString(b.String())
	}
	return buf.String()
}

func partialString(callee *Value, args []*Value) string {
	var buf bytes.Buffer
	buf.WriteString(callee.String())
	for _, a := range args {
		buf.WriteString(" ")
		buf.WriteString(a.String())
	}
	return buf.String()
}
