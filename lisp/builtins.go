package lisp

import (
	"fmt"
	"strconv"
	"strings"
)

// langBuiltin is a single entry of the builtin table, following the
// teacher's langBuiltin struct (lisp/builtins.go) minus the Formals field:
// this spec's builtins each decide their own argument-evaluation
// convention rather than declaring a formals list the environment binds.
type langBuiltin struct {
	name string
	fn   BuiltinFunc
}

var langBuiltins = []langBuiltin{
	{"quote", builtinQuote},
	{"list", builtinList},
	{"car", builtinCar},
	{"cdr", builtinCdr},
	{"cons", builtinCons},
	{"atom", builtinAtom},
	{"if", builtinIf},
	{"=", builtinNumEq},
	{"/=", builtinNumNe},
	{"<", builtinNumLt},
	{">", builtinNumGt},
	{"<=", builtinNumLe},
	{">=", builtinNumGe},
	{"+", builtinAdd},
	{"-", builtinSub},
	{"*", builtinMul},
	{"/", builtinDiv},
	{"string=", builtinStringEq},
	{"string/=", builtinStringNe},
	{"string<", builtinStringLt},
	{"string>", builtinStringGt},
	{"string<=", builtinStringLe},
	{"string>=", builtinStringGe},
	{"string-equal", builtinStringEqualFold},
	{"write", builtinWrite},
	{"prin1", builtinWrite},
	{"princ", builtinPrinc},
	{"print", builtinPrint},
	{"write-line", builtinWriteLine},
	{"read-str", builtinReadStr},
	{"read-int", builtinReadInt},
	{"read-num", builtinReadNum},
	{"lambda", builtinLambda},
	{"macro", builtinMacro},
	{"defun", builtinDefun},
	{"defmacro", builtinDefmacro},
	{"set", builtinSet},
	{"setq", builtinSetq},
	{"int-to-string", builtinIntToString},
	{"num-to-string", builtinNumToString},
	{"type-of", builtinTypeOf},
	{"debug", builtinDebug},
	{"concat", builtinConcat},
	{"macroexpand", builtinMacroexpand},
}

// AddBuiltins binds the default builtin table to env, following the
// teacher's Env.AddBuiltins.
func (env *Env) AddBuiltins() {
	for _, b := range langBuiltins {
		env.Set(b.name, &Value{Kind: KBuiltin, BuiltinName: b.name, Builtin: b.fn})
	}
}

// --- argument-evaluation helpers, one per spec.md 4.4 convention ---

func evalStrict(name string, rawArgs *Value, env *Env, n int) ([]*Value, *Value) {
	items := Items(rawArgs)
	if len(items) != n {
		return nil, Errorf(ArityMismatch, "%s expects %d argument(s), got %d", name, n, len(items))
	}
	out := make([]*Value, n)
	for i, it := range items {
		v := Eval(it, env)
		if IsError(v) {
			return nil, v
		}
		out[i] = v
	}
	return out, nil
}

func evalAtLeast(name string, rawArgs *Value, env *Env, n int) ([]*Value, *Value) {
	items := Items(rawArgs)
	if len(items) < n {
		return nil, Errorf(ArityShort, "%s expects at least %d argument(s), got %d", name, n, len(items))
	}
	out := make([]*Value, len(items))
	for i, it := range items {
		v := Eval(it, env)
		if IsError(v) {
			return nil, v
		}
		out[i] = v
	}
	return out, nil
}

func rawStrict(name string, rawArgs *Value, n int) ([]*Value, *Value) {
	items := Items(rawArgs)
	if len(items) != n {
		return nil, Errorf(ArityMismatch, "%s expects %d argument(s), got %d", name, n, len(items))
	}
	return items, nil
}

func rawAtLeast(name string, rawArgs *Value, n int) ([]*Value, *Value) {
	items := Items(rawArgs)
	if len(items) < n {
		return nil, Errorf(ArityShort, "%s expects at least %d argument(s), got %d", name, n, len(items))
	}
	return items, nil
}

// --- list primitives ---

func builtinQuote(env *Env, rawArgs *Value) *Value {
	a, errv := rawStrict("quote", rawArgs, 1)
	if errv != nil {
		return errv
	}
	return a[0]
}

func builtinList(env *Env, rawArgs *Value) *Value {
	a, errv := evalAtLeast("list", rawArgs, env, 0)
	if errv != nil {
		return errv
	}
	return List(a...)
}

func builtinCar(env *Env, rawArgs *Value) *Value {
	a, errv := evalStrict("car", rawArgs, env, 1)
	if errv != nil {
		return errv
	}
	switch a[0].Kind {
	case KList:
		return a[0].Head
	case KNil:
		return Nil()
	default:
		return Errorf(TypeError, "car: %s is not a list", a[0].String())
	}
}

func builtinCdr(env *Env, rawArgs *Value) *Value {
	a, errv := evalStrict("cdr", rawArgs, env, 1)
	if errv != nil {
		return errv
	}
	switch a[0].Kind {
	case KList:
		if a[0].Tail == nil {
			return Nil()
		}
		return a[0].Tail
	case KNil:
		return Nil()
	default:
		return Errorf(TypeError, "cdr: %s is not a list", a[0].String())
	}
}

func builtinCons(env *Env, rawArgs *Value) *Value {
	a, errv := evalStrict("cons", rawArgs, env, 2)
	if errv != nil {
		return errv
	}
	switch a[1].Kind {
	case KList:
		return Cons(a[0], a[1])
	case KNil:
		return List(a[0])
	default:
		return List(a[0], a[1])
	}
}

func builtinAtom(env *Env, rawArgs *Value) *Value {
	a, errv := evalStrict("atom", rawArgs, env, 1)
	if errv != nil {
		return errv
	}
	return Bool(IsAtom(a[0]))
}

func builtinIf(env *Env, rawArgs *Value) *Value {
	a, errv := rawStrict("if", rawArgs, 3)
	if errv != nil {
		return errv
	}
	cond := Eval(a[0], env)
	if IsError(cond) {
		return cond
	}
	if cond.Kind != KNil {
		return Eval(a[1], env)
	}
	return Eval(a[2], env)
}

// --- numeric comparison and arithmetic ---

func numericPair(name string, a, b *Value) (float64, float64, bool) {
	switch {
	case a.Kind == KInteger && b.Kind == KInteger:
		return float64(a.Int), float64(b.Int), true
	case a.Kind == KInteger && b.Kind == KNumber:
		return float64(a.Int), b.Num, true
	case a.Kind == KNumber && b.Kind == KInteger:
		return a.Num, float64(b.Int), true
	case a.Kind == KNumber && b.Kind == KNumber:
		return a.Num, b.Num, true
	default:
		return 0, 0, false
	}
}

func numericCompare(name string, rawArgs *Value, env *Env, cmp func(l, r float64) bool) *Value {
	a, errv := evalStrict(name, rawArgs, env, 2)
	if errv != nil {
		return errv
	}
	l, r, ok := numericPair(name, a[0], a[1])
	if !ok {
		return Errorf(TypeError, "%s: non-numeric operand: %s, %s", name, a[0].String(), a[1].String())
	}
	return Bool(cmp(l, r))
}

func builtinNumEq(env *Env, rawArgs *Value) *Value {
	return numericCompare("=", rawArgs, env, func(l, r float64) bool { return l == r })
}

func builtinNumNe(env *Env, rawArgs *Value) *Value {
	return numericCompare("/=", rawArgs, env, func(l, r float64) bool { return l != r })
}

func builtinNumLt(env *Env, rawArgs *Value) *Value {
	return numericCompare("<", rawArgs, env, func(l, r float64) bool { return l < r })
}

func builtinNumGt(env *Env, rawArgs *Value) *Value {
	return numericCompare(">", rawArgs, env, func(l, r float64) bool { return l > r })
}

func builtinNumLe(env *Env, rawArgs *Value) *Value {
	return numericCompare("<=", rawArgs, env, func(l, r float64) bool { return l <= r })
}

func builtinNumGe(env *Env, rawArgs *Value) *Value {
	return numericCompare(">=", rawArgs, env, func(l, r float64) bool { return l >= r })
}

// arith folds op left to right over a, promoting to Number if any operand
// is a Number and truncating integer division per DESIGN.md's open
// question decision.
func arith(name string, rawArgs *Value, env *Env, intOp func(l, r int64) (int64, *Value), numOp func(l, r float64) float64) *Value {
	a, errv := evalAtLeast(name, rawArgs, env, 2)
	if errv != nil {
		return errv
	}
	acc := a[0]
	for _, operand := range a[1:] {
		if acc.Kind == KInteger && operand.Kind == KInteger {
			n, errv := intOp(acc.Int, operand.Int)
			if errv != nil {
				return errv
			}
			acc = Integer(n)
			continue
		}
		l, r, ok := numericPair(name, acc, operand)
		if !ok {
			return Errorf(TypeError, "%s: non-numeric operand: %s, %s", name, acc.String(), operand.String())
		}
		acc = Number(numOp(l, r))
	}
	return acc
}

func builtinAdd(env *Env, rawArgs *Value) *Value {
	return arith("+", rawArgs, env,
		func(l, r int64) (int64, *Value) { return l + r, nil },
		func(l, r float64) float64 { return l + r })
}

func builtinSub(env *Env, rawArgs *Value) *Value {
	return arith("-", rawArgs, env,
		func(l, r int64) (int64, *Value) { return l - r, nil },
		func(l, r float64) float64 { return l - r })
}

func builtinMul(env *Env, rawArgs *Value) *Value {
	return arith("*", rawArgs, env,
		func(l, r int64) (int64, *Value) { return l * r, nil },
		func(l, r float64) float64 { return l * r })
}

func builtinDiv(env *Env, rawArgs *Value) *Value {
	return arith("/", rawArgs, env,
		func(l, r int64) (int64, *Value) {
			if r == 0 {
				return 0, Errorf(ArithError, "/: division by zero")
			}
			return l / r, nil // truncates toward zero, see DESIGN.md
		},
		func(l, r float64) float64 { return l / r })
}

// --- string comparison ---

func stringCompare(name string, rawArgs *Value, env *Env, cmp func(l, r string) bool) *Value {
	a, errv := evalStrict(name, rawArgs, env, 2)
	if errv != nil {
		return errv
	}
	if a[0].Kind != KString || a[1].Kind != KString {
		return Errorf(TypeError, "%s: non-string operand: %s, %s", name, a[0].String(), a[1].String())
	}
	return Bool(cmp(a[0].Str, a[1].Str))
}

func builtinStringEq(env *Env, rawArgs *Value) *Value {
	return stringCompare("string=", rawArgs, env, func(l, r string) bool { return l == r })
}

func builtinStringNe(env *Env, rawArgs *Value) *Value {
	return stringCompare("string/=", rawArgs, env, func(l, r string) bool { return l != r })
}

func builtinStringLt(env *Env, rawArgs *Value) *Value {
	return stringCompare("string<", rawArgs, env, func(l, r string) bool { return l < r })
}

func builtinStringGt(env *Env, rawArgs *Value) *Value {
	return stringCompare("string>", rawArgs, env, func(l, r string) bool { return l > r })
}

func builtinStringLe(env *Env, rawArgs *Value) *Value {
	return stringCompare("string<=", rawArgs, env, func(l, r string) bool { return l <= r })
}

func builtinStringGe(env *Env, rawArgs *Value) *Value {
	return stringCompare("string>=", rawArgs, env, func(l, r string) bool { return l >= r })
}

func builtinStringEqualFold(env *Env, rawArgs *Value) *Value {
	return stringCompare("string-equal", rawArgs, env, func(l, r string) bool {
		return strings.EqualFold(l, r)
	})
}

// --- printing ---

func numericText(v *Value) string {
	if v.Kind == KInteger {
		return strconv.FormatInt(v.Int, 10)
	}
	return formatNumber(v.Num)
}

func printableText(v *Value, quoteStrings bool) (string, *Value) {
	switch v.Kind {
	case KString:
		if quoteStrings {
			return `"` + v.Str + `"`, nil
		}
		return v.Str, nil
	case KInteger, KNumber:
		return numericText(v), nil
	default:
		return "", Errorf(TypeError, "%s is not printable", v.String())
	}
}

func builtinWrite(env *Env, rawArgs *Value) *Value {
	a, errv := evalStrict("write", rawArgs, env, 1)
	if errv != nil {
		return errv
	}
	text, errv := printableText(a[0], true)
	if errv != nil {
		return errv
	}
	fmt.Fprint(env.Stdout(), text)
	return a[0]
}

func builtinPrinc(env *Env, rawArgs *Value) *Value {
	a, errv := evalStrict("princ", rawArgs, env, 1)
	if errv != nil {
		return errv
	}
	text, errv := printableText(a[0], false)
	if errv != nil {
		return errv
	}
	fmt.Fprint(env.Stdout(), text)
	return a[0]
}

func builtinPrint(env *Env, rawArgs *Value) *Value {
	a, errv := evalStrict("print", rawArgs, env, 1)
	if errv != nil {
		return errv
	}
	text, errv := printableText(a[0], true)
	if errv != nil {
		return errv
	}
	fmt.Fprint(env.Stdout(), "\n"+text)
	return a[0]
}

func builtinWriteLine(env *Env, rawArgs *Value) *Value {
	a, errv := evalStrict("write-line", rawArgs, env, 1)
	if errv != nil {
		return errv
	}
	if a[0].Kind != KString {
		return Errorf(TypeError, "write-line: %s is not a string", a[0].String())
	}
	fmt.Fprintln(env.Stdout(), a[0].Str)
	return a[0]
}

// --- input ---

func readToken(env *Env, name string) (string, *Value) {
	var tok strings.Builder
	r := env.Stdin()
	for {
		b, err := r.ReadByte()
		if err != nil {
			if tok.Len() > 0 {
				break
			}
			return "", Errorf(IOError, "%s: failed to read: %v", name, err)
		}
		if isSpaceByte(b) {
			if tok.Len() == 0 {
				continue
			}
			break
		}
		tok.WriteByte(b)
	}
	return tok.String(), nil
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func builtinReadStr(env *Env, rawArgs *Value) *Value {
	if _, errv := rawStrict("read-str", rawArgs, 0); errv != nil {
		return errv
	}
	tok, errv := readToken(env, "read-str")
	if errv != nil {
		return errv
	}
	return String(tok)
}

func builtinReadInt(env *Env, rawArgs *Value) *Value {
	if _, errv := rawStrict("read-int", rawArgs, 0); errv != nil {
		return errv
	}
	tok, errv := readToken(env, "read-int")
	if errv != nil {
		return errv
	}
	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return Errorf(IOError, "read-int: %q is not an integer", tok)
	}
	return Integer(n)
}

func builtinReadNum(env *Env, rawArgs *Value) *Value {
	if _, errv := rawStrict("read-num", rawArgs, 0); errv != nil {
		return errv
	}
	tok, errv := readToken(env, "read-num")
	if errv != nil {
		return errv
	}
	n, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return Errorf(IOError, "read-num: %q is not a number", tok)
	}
	return Number(n)
}

// --- lambda / macro / defun / defmacro ---

func paramsForm(name string, v *Value) *Value {
	if v.Kind != KNil && v.Kind != KList {
		return Errorf(TypeError, "%s: parameter list must be a list or NIL", name)
	}
	for _, p := range Items(v) {
		if p.Kind != KSymbol {
			return Errorf(TypeError, "%s: parameter %s is not a symbol", name, p.String())
		}
	}
	return nil
}

func builtinLambda(env *Env, rawArgs *Value) *Value {
	a, errv := rawAtLeast("lambda", rawArgs, 1)
	if errv != nil {
		return errv
	}
	if e := paramsForm("lambda", a[0]); e != nil {
		return e
	}
	return &Value{Kind: KFunction, Params: a[0], Body: a[1:], Env: env}
}

func builtinMacro(env *Env, rawArgs *Value) *Value {
	a, errv := rawAtLeast("macro", rawArgs, 1)
	if errv != nil {
		return errv
	}
	if e := paramsForm("macro", a[0]); e != nil {
		return e
	}
	return &Value{Kind: KMacro, Params: a[0], Body: a[1:]}
}

func builtinDefun(env *Env, rawArgs *Value) *Value {
	a, errv := rawAtLeast("defun", rawArgs, 2)
	if errv != nil {
		return errv
	}
	if a[0].Kind != KSymbol {
		return Errorf(TypeError, "defun: %s is not a symbol", a[0].String())
	}
	if e := paramsForm("defun", a[1]); e != nil {
		return e
	}
	fn := &Value{Kind: KFunction, Params: a[1], Body: a[2:], Env: env}
	env.Set(a[0].Str, fn)
	return fn
}

func builtinDefmacro(env *Env, rawArgs *Value) *Value {
	a, errv := rawAtLeast("defmacro", rawArgs, 2)
	if errv != nil {
		return errv
	}
	if a[0].Kind != KSymbol {
		return Errorf(TypeError, "defmacro: %s is not a symbol", a[0].String())
	}
	if e := paramsForm("defmacro", a[1]); e != nil {
		return e
	}
	mac := &Value{Kind: KMacro, Params: a[1], Body: a[2:]}
	env.Set(a[0].Str, mac)
	return mac
}

// --- binding ---

func builtinSet(env *Env, rawArgs *Value) *Value {
	a, errv := evalStrict("set", rawArgs, env, 2)
	if errv != nil {
		return errv
	}
	if a[0].Kind != KSymbol {
		return Errorf(TypeError, "set: %s is not a symbol", a[0].String())
	}
	env.Set(a[0].Str, a[1])
	return a[1]
}

func builtinSetq(env *Env, rawArgs *Value) *Value {
	a, errv := rawStrict("setq", rawArgs, 2)
	if errv != nil {
		return errv
	}
	if a[0].Kind != KSymbol {
		return Errorf(TypeError, "setq: %s is not a symbol", a[0].String())
	}
	v := Eval(a[1], env)
	if IsError(v) {
		return v
	}
	env.Set(a[0].Str, v)
	return v
}

// --- conversion / introspection ---

func builtinIntToString(env *Env, rawArgs *Value) *Value {
	a, errv := evalStrict("int-to-string", rawArgs, env, 1)
	if errv != nil {
		return errv
	}
	if a[0].Kind != KInteger {
		return Errorf(TypeError, "int-to-string: %s is not an integer", a[0].String())
	}
	return String(strconv.FormatInt(a[0].Int, 10))
}

func builtinNumToString(env *Env, rawArgs *Value) *Value {
	a, errv := evalStrict("num-to-string", rawArgs, env, 1)
	if errv != nil {
		return errv
	}
	if a[0].Kind != KNumber {
		return Errorf(TypeError, "num-to-string: %s is not a number", a[0].String())
	}
	return String(formatNumber(a[0].Num))
}

func builtinTypeOf(env *Env, rawArgs *Value) *Value {
	a, errv := evalStrict("type-of", rawArgs, env, 1)
	if errv != nil {
		return errv
	}
	return String(TypeName(a[0]))
}

func builtinDebug(env *Env, rawArgs *Value) *Value {
	a, errv := evalStrict("debug", rawArgs, env, 1)
	if errv != nil {
		return errv
	}
	return String(a[0].String())
}

func builtinConcat(env *Env, rawArgs *Value) *Value {
	a, errv := evalAtLeast("concat", rawArgs, env, 2)
	if errv != nil {
		return errv
	}
	var buf strings.Builder
	for _, v := range a {
		if v.Kind != KString {
			return Errorf(TypeError, "concat: %s is not a string", v.String())
		}
		buf.WriteString(v.Str)
	}
	return String(buf.String())
}

func builtinMacroexpand(env *Env, rawArgs *Value) *Value {
	a, errv := evalStrict("macroexpand", rawArgs, env, 1)
	if errv != nil {
		return errv
	}
	if a[0].Kind != KList {
		return Errorf(TypeError, "macroexpand: %s is not a list", a[0].String())
	}
	head := Eval(a[0].Head, env)
	if IsError(head) {
		return head
	}
	if head.Kind != KMacro {
		return Errorf(TypeError, "macroexpand: %s is not a macro", head.String())
	}
	rest := a[0].Tail
	if rest == nil {
		rest = Nil()
	}
	return expandMacro(head, rest, env)
}
