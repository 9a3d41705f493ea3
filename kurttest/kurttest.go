// Copyright © 2018 The ELPS authors

// Package kurttest runs kurt source in Go tests.
package kurttest

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luthersystems/kurt/kurt"
	"github.com/luthersystems/kurt/kurt/lib"
	"github.com/luthersystems/kurt/parser"
)

// DefaultMaxStackHeight is the stack limit of interpreters created by this
// package.  It is low enough that runaway recursion fails quickly.
const DefaultMaxStackHeight = 2000

// TestSequence is a sequence of kurt expressions which are evaluated
// sequentially in one scope.
type TestSequence []struct {
	Expr   string // a kurt expression
	Result string // the printed (Repr) result, or "error: " + message
	Output string // output written to the interpreter's Stdout
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// NewInterpreter returns an interpreter with the standard library loaded
// whose output is forwarded to w.
func NewInterpreter(w io.Writer, config ...kurt.Config) (*kurt.Interpreter, error) {
	all := []kurt.Config{
		kurt.WithReader(parser.NewReader()),
		kurt.WithMaximumStackHeight(DefaultMaxStackHeight),
		kurt.WithStdout(w),
		kurt.WithStderr(w),
	}
	return lib.New(append(all, config...)...)
}

// RunTestSuite runs each TestSequence in tests on isolated interpreters.
func RunTestSuite(t *testing.T, tests TestSuite) {
	for i, test := range tests {
		var out bytes.Buffer
		k, err := NewInterpreter(&out)
		if err != nil {
			t.Errorf("test %d %q: %v", i, test.Name, err)
			continue
		}
		scope := k.NewScope()
		for j, expr := range test.TestSequence {
			out.Reset()
			exprs, err := k.Read("test", strings.NewReader(expr.Expr))
			if err != nil {
				t.Errorf("test %d %q: expr %d: parse error: %v", i, test.Name, j, err)
				continue
			}
			if len(exprs) != 1 {
				t.Errorf("test %d %q: expr %d: parsed %d expressions", i, test.Name, j, len(exprs))
				continue
			}
			result := Result(k.Eval(scope, exprs[0]))
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
			}
			if out.String() != expr.Output {
				t.Errorf("test %d %q: expr %d: expected output %q (got %q)", i, test.Name, j, expr.Output, out.String())
			}
		}
	}
}

// Result formats the outcome of an evaluation the way TestSequence results
// are written.
func Result(v kurt.Expr, err error) string {
	if err != nil {
		return "error: " + err.Error()
	}
	return v.Repr()
}

// RunTestFile evaluates the kurt source file at path on a fresh interpreter.
// Output is logged through t and an uncaught exception fails the test with
// its stack trace.
func RunTestFile(t *testing.T, path string) {
	source, err := os.ReadFile(path) //#nosec G304
	if err != nil {
		t.Fatalf("Unable to read test file: %v", err)
	}
	name := filepath.Base(path)
	logger := NewLogger(t, name)
	defer logger.Flush()
	k, err := NewInterpreter(logger)
	if err != nil {
		t.Fatal(err)
	}
	_, err = k.EvalSource(k.NewScope(), name, string(source))
	if err != nil {
		Error(t, err)
	}
}

// Error fails t with err, including the stack trace of an exception.
func Error(t testing.TB, err error) {
	exc, ok := err.(*kurt.Exception)
	if !ok {
		t.Error(err)
		return
	}
	var buf bytes.Buffer
	if _, ioerr := exc.WriteTrace(&buf); ioerr != nil {
		t.Errorf("io error: %v", ioerr)
		t.Error(err)
		return
	}
	t.Error(buf.String())
}

// RunBenchmark runs a standard benchmark that evaluates the expressions
// parsed from source on a fresh interpreter each iteration.
func RunBenchmark(b *testing.B, source string) {
	b.StopTimer()
	exprs, err := parser.NewReader().Read("benchmark", strings.NewReader(source))
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}
	for i := 0; i < b.N; i++ {
		k, err := NewInterpreter(io.Discard)
		if err != nil {
			b.Fatal(err)
		}
		scope := k.NewScope()
		b.StartTimer()
		for j, expr := range exprs {
			if _, err := k.Eval(scope, expr); err != nil {
				b.Fatalf("expr %d: %v", j, err)
			}
		}
		b.StopTimer()
	}
}

// BenchmarkParse returns a benchmark that parses the file at path with the
// reader returned by r.
func BenchmarkParse(path string, r func() kurt.Reader) func(*testing.B) {
	return func(b *testing.B) {
		buf, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			b.Fatalf("Unable to read source file %v: %v", path, err)
		}
		b.SetBytes(int64(len(buf)))
		for i := 0; i < b.N; i++ {
			if _, err := r().Read("test", bytes.NewReader(buf)); err != nil {
				b.Fatalf("Parse failure: %v", err)
			}
		}
	}
}
