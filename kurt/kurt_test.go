// Copyright © 2018 The ELPS authors

package kurt_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/luthersystems/kurt/diagnostic"
	"github.com/luthersystems/kurt/kurt"
	"github.com/luthersystems/kurt/kurt/lib"
	"github.com/luthersystems/kurt/parser"
	"github.com/luthersystems/kurt/parser/token"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInterpreter(t *testing.T, config ...kurt.Config) (*kurt.Interpreter, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	all := []kurt.Config{
		kurt.WithStdout(&out),
		kurt.WithStderr(&out),
		kurt.WithColor(diagnostic.ColorNever),
	}
	k, err := lib.New(append(all, config...)...)
	require.NoError(t, err)
	return k, &out
}

func eval(t *testing.T, k *kurt.Interpreter, env kurt.Expr, src string) kurt.Expr {
	t.Helper()
	v, err := k.EvalSource(env, "test", src)
	require.NoError(t, err)
	return v
}

func TestLiteralIdentity(t *testing.T) {
	k, _ := newInterpreter(t)
	env := k.NewScope()
	for _, lit := range []kurt.Expr{kurt.Nil(), kurt.Bool(false), kurt.Num(-1.5), kurt.String("s")} {
		v, err := k.Eval(env, lit)
		require.NoError(t, err)
		assert.Equal(t, lit, v)
	}
}

func TestEnvironment(t *testing.T) {
	k, _ := newInterpreter(t)
	env := k.NewScope()
	require.NoError(t, k.Define(env, "x", kurt.Num(1)))
	v, err := k.Lookup(env, "x")
	require.NoError(t, err)
	assert.Equal(t, kurt.Num(1), v)

	child := kurt.NewDict(nil, map[string]kurt.Expr{kurt.ParentKey: env, "x": kurt.Num(2)})
	v, err = k.Lookup(child, "x")
	require.NoError(t, err)
	assert.Equal(t, kurt.Num(2), v, "child binding shadows parent")

	grandchild := kurt.NewDict(nil, map[string]kurt.Expr{kurt.ParentKey: env})
	require.NoError(t, k.Assign(grandchild, "x", kurt.Num(3)))
	v, err = k.Lookup(env, "x")
	require.NoError(t, err)
	assert.Equal(t, kurt.Num(3), v, "assign rebinds the nearest binding")
	_, ok := grandchild.Dict().Map["x"]
	assert.False(t, ok)

	assert.True(t, k.Bound(grandchild, "print"), "root builtins are visible")
	assert.False(t, k.Bound(grandchild, "nope"))

	_, err = k.Lookup(env, "nope")
	assert.True(t, errors.Is(err, kurt.ErrNameNotFound))
	assert.EqualError(t, err, "name not found: nope")
	err = k.Assign(env, "nope", kurt.Nil())
	assert.True(t, errors.Is(err, kurt.ErrNameNotFound))
	err = k.Define(kurt.Num(1), "x", kurt.Nil())
	assert.True(t, errors.Is(err, kurt.ErrNotADict))
}

func TestGetSet(t *testing.T) {
	k, _ := newInterpreter(t)
	list := kurt.NewList(nil, []kurt.Expr{kurt.Num(1), kurt.Num(2)})
	v, err := k.Get(list, kurt.Num(1.9))
	require.NoError(t, err)
	assert.Equal(t, kurt.Num(2), v)
	_, err = k.Get(list, kurt.Num(2))
	assert.True(t, errors.Is(err, kurt.ErrIndexOutOfRange))
	assert.EqualError(t, err, "index out of range: 2 (length 2)")

	v, err = k.Get(list, kurt.String("s"))
	require.NoError(t, err)
	assert.Equal(t, kurt.String("s"), v, "non-identifier keys evaluate to themselves")

	require.NoError(t, k.Set(list, kurt.Num(0), kurt.Num(9)))
	assert.Equal(t, "[9 2]", list.String())
	err = k.Set(kurt.Num(1), kurt.ID("x"), kurt.Nil())
	assert.True(t, errors.Is(err, kurt.ErrNotADict))
	err = k.Set(list, kurt.ID("x"), kurt.Nil())
	assert.True(t, errors.Is(err, kurt.ErrTypeMismatch))
}

func TestApplyArity(t *testing.T) {
	k, _ := newInterpreter(t)
	env := k.NewScope()
	v, err := k.Apply(env, nil)
	require.NoError(t, err)
	assert.True(t, v.IsNil())

	v, err = k.Apply(env, []kurt.Expr{kurt.Num(5)})
	require.NoError(t, err)
	assert.Equal(t, kurt.Num(5), v)

	_, err = k.Apply(env, []kurt.Expr{kurt.Num(1), kurt.Num(2), kurt.Num(3)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, kurt.ErrTooManyArguments))
	var exc *kurt.Exception
	require.True(t, errors.As(err, &exc))
	assert.Equal(t, "apply allows no more than 2 expressions, got 3", exc.Message())

	v = eval(t, k, env, `(+ 1 2 3)`)
	assert.Equal(t, kurt.Num(6), v, "a block accepts any number of arguments")
}

func TestInvoke(t *testing.T) {
	k, _ := newInterpreter(t)
	env := k.NewScope()
	assert.Equal(t, "[1 [2 3 4]]", eval(t, k, env, `((a b... | [a b]) 1 2 3 4)`).Repr())
	assert.Equal(t, "[1 []]", eval(t, k, env, `((a b... | [a b]) 1)`).Repr())
	assert.Equal(t, "x", eval(t, k, env, `((:a | a) x)`).Repr(), "quoted parameters are not evaluated")
	assert.Equal(t, "5", eval(t, k, env, `(def y 5) ((:a | a) \y)`).Repr(), "unquote evaluates inside quoted parameters")

	_, err := k.EvalSource(env, "test", `((a | a) 1 2)`)
	assert.True(t, errors.Is(err, kurt.ErrTooManyArguments))
	assert.EqualError(t, err, "anonymous takes 1 arguments, got 2")
}

func TestSelfBinding(t *testing.T) {
	k, _ := newInterpreter(t)
	env := k.NewScope()
	eval(t, k, env, `(def d {:me (| @) :n 7 :get-n (| @ :n)})`)
	d, err := k.Lookup(env, "d")
	require.NoError(t, err)

	m := eval(t, k, env, `(d :me)`)
	require.Equal(t, kurt.KBlock, m.Kind)
	assert.True(t, kurt.Same(d, m.Block().Self))

	assert.True(t, kurt.Same(d, eval(t, k, env, `((d :me))`)))
	assert.Equal(t, kurt.Num(7), eval(t, k, env, `((d :get-n))`))

	// Unbound blocks take their caller as receiver.
	assert.True(t, kurt.Same(env, eval(t, k, env, `((| @))`)))
}

func TestCall(t *testing.T) {
	k, _ := newInterpreter(t)
	env := k.NewScope()
	add := eval(t, k, env, `(x y | + x y)`)
	v, err := k.Call(env, add, kurt.Num(1), kurt.Num(2))
	require.NoError(t, err)
	assert.Equal(t, kurt.Num(3), v)

	// Arguments are bound as values, never evaluated again.
	id := eval(t, k, env, `(x | x)`)
	v, err = k.Call(env, id, kurt.NewApply(nil, []kurt.Expr{kurt.ID("nope")}))
	require.NoError(t, err)
	assert.Equal(t, kurt.KApply, v.Kind)

	_, err = k.Call(env, add, kurt.Num(1), kurt.Num(2), kurt.Num(3))
	assert.True(t, errors.Is(err, kurt.ErrTooManyArguments))
	_, err = k.Call(env, kurt.Num(1))
	assert.True(t, errors.Is(err, kurt.ErrTypeMismatch))
	assert.EqualError(t, err, "cannot call Number")
}

func TestExceptions(t *testing.T) {
	k, _ := newInterpreter(t)
	env := k.NewScope()
	_, err := k.EvalSource(env, "trace.kurt", "(def f (| throw \"boom\"))\n(f)")
	require.Error(t, err)
	var exc *kurt.Exception
	require.True(t, errors.As(err, &exc))
	assert.True(t, errors.Is(err, kurt.ErrUserThrow))
	assert.Equal(t, "boom", exc.Message())
	stack := exc.Stack()
	require.Len(t, stack, 1)
	assert.Equal(t, kurt.StackFrame{File: "trace.kurt", Name: "f", Line: 1, Col: 8}, stack[0])

	var buf bytes.Buffer
	_, err = exc.WriteTrace(&buf)
	require.NoError(t, err)
	assert.Equal(t, "Exception: boom\n  0: trace.kurt:1:8: f\n", buf.String())

	v := eval(t, k, env, `(try (| f) (e | e))`)
	require.Equal(t, kurt.KDict, v.Kind)
	assert.Equal(t, `"boom"`, v.Dict().Map["message"].Repr())

	// Lookup failures become catchable exceptions.
	_, err = k.EvalSource(env, "test", `(nope)`)
	require.True(t, errors.As(err, &exc))
	assert.True(t, errors.Is(err, kurt.ErrNameNotFound))
}

func TestNestedExceptions(t *testing.T) {
	k, _ := newInterpreter(t)
	env := k.NewScope()
	v := eval(t, k, env, `
(try
  (| try (| throw "inner") (e | throw "outer"))
  (e | e :message))`)
	assert.Equal(t, `"outer"`, v.Repr())
	v = eval(t, k, env, `(try (| throw "again") (e | e :message))`)
	assert.Equal(t, `"again"`, v.Repr())
}

func TestStackOverflow(t *testing.T) {
	k, _ := newInterpreter(t, kurt.WithMaximumStackHeight(50))
	env := k.NewScope()
	_, err := k.EvalSource(env, "test", `(def f (n | f (+ n 1))) (f 0)`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kurt.ErrStackOverflow))
	assert.Equal(t, 0, k.Depth())

	// f and its branch block nest 41 frames.  The builtin if frames between
	// them are not counted.
	k, _ = newInterpreter(t, kurt.WithMaximumStackHeight(50))
	v := eval(t, k, k.NewScope(), `(def f (n | if (< n 20) (| f (+ n 1)) n)) (f 0)`)
	assert.Equal(t, kurt.Num(20), v)
	assert.Equal(t, 0, k.Depth())

	k, _ = newInterpreter(t, kurt.WithMaximumStackHeight(0))
	v = eval(t, k, k.NewScope(), `(def f (n | if (< n 100) (| f (+ n 1)) n)) (f 0)`)
	assert.Equal(t, kurt.Num(100), v)
}

func TestRun(t *testing.T) {
	k, out := newInterpreter(t)
	v := k.Run(k.NewScope(), "main.kurt", "(def f (| (y)))\n(f)")
	assert.True(t, v.IsNil())
	got := out.String()
	assert.Contains(t, got, "error: name not found: y\n")
	assert.Contains(t, got, "--> main.kurt:1:8\n")
	assert.Contains(t, got, " 1 |  (def f (| (y)))\n")
	assert.Contains(t, got, "in f")

	out.Reset()
	v = k.Run(k.NewScope(), "ok.kurt", "(+ 1 2)")
	assert.Equal(t, kurt.Num(3), v)
	assert.Empty(t, out.String())
}

func TestParseError(t *testing.T) {
	k, out := newInterpreter(t)
	_, err := k.EvalSource(k.NewScope(), "bad.kurt", "(+ 1")
	var lerr *token.LocationError
	require.True(t, errors.As(err, &lerr))

	d := kurt.Diagnose(err)
	assert.Equal(t, "unmatched (", d.Message)
	require.Len(t, d.Spans, 1)
	assert.Equal(t, "bad.kurt", d.Spans[0].File)

	k.Run(k.NewScope(), "bad.kurt", "(+ 1")
	assert.Contains(t, out.String(), "error: unmatched (")
}

func TestDiagnose(t *testing.T) {
	k, _ := newInterpreter(t)
	env := k.NewScope()
	_, err := k.EvalSource(env, "d.kurt", "(def g (| throw \"x\"))\n(def f (| g))\n(f)")
	d := kurt.Diagnose(err)
	assert.Equal(t, diagnostic.SeverityError, d.Severity)
	assert.Equal(t, "x", d.Message)
	require.Len(t, d.Spans, 1)
	assert.Equal(t, diagnostic.Span{File: "d.kurt", Line: 1, Col: 8, Label: "in g"}, d.Spans[0])
	assert.Equal(t, []string{"in f at d.kurt:2:8"}, d.Notes)

	d = kurt.Diagnose(errors.New("plain"))
	assert.Equal(t, "plain", d.Message)
	assert.Empty(t, d.Spans)
}

func TestConfig(t *testing.T) {
	_, err := kurt.New(kurt.WithMaximumStackHeight(-1))
	assert.Error(t, err)
	_, err = kurt.New(kurt.WithLogger(nil))
	assert.Error(t, err)

	k, err := kurt.New()
	require.NoError(t, err)
	_, err = k.Read("x", strings.NewReader("1"))
	assert.EqualError(t, err, "no reader configured")
	assert.Equal(t, kurt.DefaultMaxStackHeight, k.MaxStackHeight)
}

func TestLoaders(t *testing.T) {
	k, err := kurt.New(
		kurt.WithReader(parser.NewReader()),
		kurt.WithLoader(lib.Load),
		kurt.WithLoader(kurt.Loaders(
			kurt.SourceLoader("a", "(def answer 41)"),
			kurt.SourceLoader("b", "(set answer (inc answer))"),
		)),
	)
	require.NoError(t, err)
	v, err := k.Lookup(k.NewScope(), "answer")
	require.NoError(t, err)
	assert.Equal(t, kurt.Num(42), v)

	_, err = kurt.New(
		kurt.WithReader(parser.NewReader()),
		kurt.WithLoader(lib.Load),
		kurt.WithLoader(kurt.SourceLoader("c", "(throw \"nope\")")),
	)
	assert.EqualError(t, err, "nope")
}

func TestDebugTrace(t *testing.T) {
	var logs bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&logs)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	k, _ := newInterpreter(t, kurt.WithLogger(logger), kurt.WithDebug(true))
	assert.True(t, k.Debug())
	eval(t, k, k.NewScope(), `(+ 1 2)`)
	assert.Contains(t, logs.String(), "op=apply")
	assert.Contains(t, logs.String(), `expr="(+ 1 2)"`)
}

func TestBuiltinRegistry(t *testing.T) {
	k, err := kurt.New()
	require.NoError(t, err)
	k.AddBuiltin("twice", kurt.Params("x"), func(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
		x, err := k.LocalNum(env, "x")
		if err != nil {
			return kurt.Nil(), err
		}
		return kurt.Num(2 * x), nil
	})
	k.SetDoc("twice", "Doubles x.")
	assert.Panics(t, func() { k.Register("twice", nil) })

	env := k.NewScope()
	v, err := k.Apply(env, []kurt.Expr{kurt.ID("twice"), kurt.Num(4)})
	require.NoError(t, err)
	assert.Equal(t, kurt.Num(8), v)

	_, err = k.Apply(env, []kurt.Expr{kurt.ID("twice"), kurt.String("a")})
	assert.EqualError(t, err, `argument "x" must be a Number, got String`)

	doc, ok := k.Doc("twice")
	assert.True(t, ok)
	assert.Equal(t, "Doubles x.", doc)
	assert.Equal(t, []string{"twice"}, k.Documented())

	_, err = k.Eval(env, kurt.Native("missing"))
	assert.True(t, errors.Is(err, kurt.ErrUnknownBuiltin))
}
