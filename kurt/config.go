// Copyright © 2018 The ELPS authors

package kurt

import (
	"errors"
	"io"

	"github.com/luthersystems/kurt/diagnostic"
	"github.com/sirupsen/logrus"
)

// Config is a function that configures an Interpreter.
type Config func(k *Interpreter) error

// WithStdout returns a Config that makes builtins such as print write to w
// instead of the default, os.Stdout.
func WithStdout(w io.Writer) Config {
	return func(k *Interpreter) error {
		k.Stdout = w
		return nil
	}
}

// WithStderr returns a Config that makes the interpreter write diagnostics to
// w instead of the default, os.Stderr.
func WithStderr(w io.Writer) Config {
	return func(k *Interpreter) error {
		k.Stderr = w
		if k.Logger != nil {
			k.Logger.SetOutput(w)
		}
		return nil
	}
}

// WithLogger returns a Config that makes the interpreter log to logger.
func WithLogger(logger *logrus.Logger) Config {
	return func(k *Interpreter) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		k.Logger = logger
		return nil
	}
}

// WithDebug returns a Config that enables tracing of every eval, apply and
// invoke at the logrus trace level.
func WithDebug(debug bool) Config {
	return func(k *Interpreter) error {
		k.debug = debug
		if debug {
			k.logger().SetLevel(logrus.TraceLevel)
		}
		return nil
	}
}

// WithReader returns a Config that makes the interpreter use r to parse
// source streams.  There is no default Reader.
func WithReader(r Reader) Config {
	return func(k *Interpreter) error {
		k.Reader = r
		return nil
	}
}

// WithProfiler returns a Config that notifies p around every block
// invocation.  The profiler is enabled by the Config.
func WithProfiler(p Profiler) Config {
	return func(k *Interpreter) error {
		k.Profiler = p
		return p.Enable()
	}
}

// WithMaximumStackHeight returns a Config that will prevent the interpreter
// from nesting more than n block frames.  Anonymous blocks count, builtins do
// not.  A value of zero removes the limit.
func WithMaximumStackHeight(n int) Config {
	return func(k *Interpreter) error {
		if n < 0 {
			return errors.New("negative maximum stack height")
		}
		k.MaxStackHeight = n
		return nil
	}
}

// WithLoader returns a Config that runs fn, typically to install builtins or
// evaluate library source in the root environment.
func WithLoader(fn Loader) Config {
	return func(k *Interpreter) error {
		return fn(k)
	}
}

// WithColor returns a Config that controls ANSI color in reported errors.
func WithColor(mode diagnostic.ColorMode) Config {
	return func(k *Interpreter) error {
		k.Color = mode
		return nil
	}
}
