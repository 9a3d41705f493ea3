// Copyright © 2018 The ELPS authors

package kurt

import (
	"io"
	"strings"
)

// Loader installs definitions into an interpreter.
type Loader func(*Interpreter) error

// Reader abstracts a parser implementation so that it may be implemented in a
// separate package as an optional/swappable component.
type Reader interface {
	// Read the contents of r and return the sequence of expressions that it
	// contains.  The returned expressions are evaluated in order.
	Read(name string, r io.Reader) ([]Expr, error)
}

// SourceLoader returns a Loader that evaluates the source text src in the
// root environment.
func SourceLoader(name string, src string) Loader {
	return func(k *Interpreter) error {
		_, err := k.Load(k.Root, name, strings.NewReader(src))
		return err
	}
}

// Loaders combines fns into a single Loader that runs them in order.
func Loaders(fns ...Loader) Loader {
	return func(k *Interpreter) error {
		for _, fn := range fns {
			if err := fn(k); err != nil {
				return err
			}
		}
		return nil
	}
}
