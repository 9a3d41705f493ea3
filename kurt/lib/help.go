// Copyright © 2021 The ELPS authors

package lib

import (
	"fmt"
	"io"
	"strings"

	"github.com/luthersystems/kurt/kurt"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

const helpWidth = 72

func builtinHelp(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	x, ok := k.LocalOpt(env, "name")
	if !ok {
		return kurt.Nil(), RenderIndex(k.Stdout, k)
	}
	name, ok := kurt.Name(x)
	if !ok {
		return kurt.Nil(), k.Throwf(env, kurt.ErrTypeMismatch, "help requires a name, got %v", x.Kind)
	}
	if _, ok := k.Doc(name); !ok {
		return kurt.Nil(), k.Throwf(env, kurt.ErrNameNotFound, "no documentation for %s", name)
	}
	return kurt.Nil(), RenderDoc(k.Stdout, k, name)
}

// RenderIndex writes the names of every documented builtin to w.
func RenderIndex(w io.Writer, k *kurt.Interpreter) error {
	names := strings.Join(k.Documented(), " ")
	_, err := fmt.Fprintln(w, wordwrap.String(names, helpWidth))
	return err
}

// RenderDoc writes the signature and documentation of name to w.  The
// signature is only known for builtins bound in the root environment.
func RenderDoc(w io.Writer, k *kurt.Interpreter, name string) error {
	sig := name
	if v, ok := k.Root.Dict().Map[name]; ok && v.Kind == kurt.KBlock {
		sig = "(" + strings.Join(append([]string{name}, v.Block().Params...), " ") + ")"
	}
	if _, err := fmt.Fprintln(w, sig); err != nil {
		return err
	}
	doc, _ := k.Doc(name)
	if doc == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, formatDoc(doc))
	return err
}

// formatDoc reflows doc, whose continuation lines carry source indentation,
// into an indented paragraph.
func formatDoc(doc string) string {
	text := strings.Join(strings.Fields(doc), " ")
	return strings.TrimSuffix(indent.String(wordwrap.String(text, helpWidth), 2), "\n")
}
