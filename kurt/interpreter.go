// Copyright © 2018 The ELPS authors

package kurt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/luthersystems/kurt/diagnostic"
	"github.com/sirupsen/logrus"
)

// DefaultMaxStackHeight is the frame depth at which evaluation throws a
// stack overflow unless configured otherwise.
const DefaultMaxStackHeight = 10000

// Builtin is the Go implementation of a native block.  The builtin reads its
// arguments from env, the frame of the invocation.
type Builtin func(k *Interpreter, env Expr) (Expr, error)

// Interpreter holds the root environment, the builtin registry and the
// per-kind default tables shared by every scope derived from it.  An
// Interpreter is not safe for concurrent use.
type Interpreter struct {
	Root           Expr
	Stdout         io.Writer
	Stderr         io.Writer
	Logger         *logrus.Logger
	Reader         Reader
	Profiler       Profiler
	MaxStackHeight int
	Color          diagnostic.ColorMode

	builtins map[string]Builtin
	docs     map[string]string
	sources  map[string]string
	defaults [numKinds]Expr
	debug    bool
	depth    int
}

// New returns an Interpreter with an empty root environment, configured by
// config.  Builtin libraries are installed by Config functions such as the
// one returned by WithLoader.
func New(config ...Config) (*Interpreter, error) {
	k := &Interpreter{
		Root:           NewDict(nil, nil),
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
		MaxStackHeight: DefaultMaxStackHeight,
		builtins:       make(map[string]Builtin),
		docs:           make(map[string]string),
		sources:        make(map[string]string),
	}
	for _, fn := range config {
		if err := fn(k); err != nil {
			return nil, err
		}
	}
	return k, nil
}

// NewScope returns a fresh user scope whose parent is the root environment.
func (k *Interpreter) NewScope() Expr {
	return NewDict(nil, map[string]Expr{ParentKey: k.Root})
}

// Depth returns the number of block frames currently being evaluated, not
// counting builtins.
func (k *Interpreter) Depth() int {
	return k.depth
}

// Debug returns true when evaluation tracing is enabled.
func (k *Interpreter) Debug() bool {
	return k.debug
}

// Read parses the source in r using the interpreter's Reader.
func (k *Interpreter) Read(name string, r io.Reader) ([]Expr, error) {
	if k.Reader == nil {
		return nil, errors.New("no reader configured")
	}
	return k.Reader.Read(name, r)
}

// Load parses the source in r and evaluates each top level expression in env,
// returning the value of the last one.
func (k *Interpreter) Load(env Expr, name string, r io.Reader) (Expr, error) {
	exprs, err := k.Read(name, r)
	if err != nil {
		return Nil(), err
	}
	result := Nil()
	for _, expr := range exprs {
		result, err = k.Eval(env, expr)
		if err != nil {
			return Nil(), k.raise(env, err)
		}
	}
	return result, nil
}

// EvalSource is like Load for a source string.
func (k *Interpreter) EvalSource(env Expr, name string, src string) (Expr, error) {
	k.sources[name] = src
	return k.Load(env, name, strings.NewReader(src))
}

// Run evaluates src like EvalSource.  Parse errors and uncaught exceptions
// are reported to the interpreter's Stderr and Run returns nil.
func (k *Interpreter) Run(env Expr, name string, src string) Expr {
	v, err := k.EvalSource(env, name, src)
	if err != nil {
		k.Report(err)
		return Nil()
	}
	return v
}

// Report writes a rendering of err to the interpreter's Stderr.
func (k *Interpreter) Report(err error) {
	r := &diagnostic.Renderer{
		Color:        k.Color,
		SourceReader: k.readSource,
	}
	if rerr := r.Render(k.Stderr, Diagnose(err)); rerr != nil {
		fmt.Fprintln(k.Stderr, err)
	}
}

// readSource returns text evaluated by EvalSource before falling back to the
// filesystem.
func (k *Interpreter) readSource(name string) ([]byte, error) {
	if src, ok := k.sources[name]; ok {
		return []byte(src), nil
	}
	return os.ReadFile(name)
}

func (k *Interpreter) logger() *logrus.Logger {
	if k.Logger == nil {
		k.Logger = logrus.New()
		k.Logger.SetOutput(k.Stderr)
		k.Logger.SetLevel(logrus.WarnLevel)
	}
	return k.Logger
}

// Log returns a logger entry tagged with the interpreter's current depth.
func (k *Interpreter) Log() *logrus.Entry {
	return k.logger().WithField("depth", k.depth)
}
