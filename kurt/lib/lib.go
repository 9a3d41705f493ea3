// Copyright © 2018 The ELPS authors

// Package lib is used to conveniently load the standard library of builtins
// into a kurt interpreter.
package lib

import (
	"github.com/luthersystems/kurt/kurt"
	"github.com/luthersystems/kurt/parser"
)

// builtin pairs a Go implementation with the name and parameters it is
// registered under.
type builtin struct {
	name   string
	params []string
	fun    kurt.Builtin
	docs   string
}

func function(name string, params []string, fun kurt.Builtin, docs string) *builtin {
	return &builtin{name: name, params: params, fun: fun, docs: docs}
}

// method is a builtin installed in a default table under a short name.  The
// registry name is qualified by the table so that, for example, the list and
// string len methods do not collide.
type method struct {
	short string
	*builtin
}

// Load installs the standard library into k: global builtins in the root
// environment, the default tables for dicts, lists, strings and numbers, and
// the prelude.  Load is a kurt.Loader.
func Load(k *kurt.Interpreter) error {
	for _, group := range [][]*builtin{coreBuiltins, mathBuiltins} {
		for _, fn := range group {
			k.AddBuiltin(fn.name, fn.params, fn.fun)
			if fn.docs != "" {
				k.SetDoc(fn.name, fn.docs)
			}
		}
	}
	k.SetDefaults(kurt.KDict, table(k, dictMethods))
	k.SetDefaults(kurt.KList, table(k, listMethods))
	k.SetDefaults(kurt.KStr, table(k, strMethods))
	k.SetDefaults(kurt.KNum, table(k, numMethods))
	return loadPrelude(k)
}

// table builds a default table from methods.  Methods whose registry name is
// already taken, such as the core set builtin, share the existing
// implementation.
func table(k *kurt.Interpreter, methods []method) kurt.Expr {
	m := make(map[string]kurt.Expr, len(methods))
	for _, fn := range methods {
		if fn.fun != nil {
			k.Register(fn.name, fn.fun)
			if fn.docs != "" {
				k.SetDoc(fn.name, fn.docs)
			}
		}
		m[fn.short] = k.Builtin(fn.name, fn.params...)
	}
	return kurt.NewDict(nil, m)
}

// shared returns a method entry that reuses the registered builtin name.
func shared(short string, name string, params ...string) method {
	return method{short: short, builtin: &builtin{name: name, params: params}}
}

// New returns an interpreter using the default reader with the standard
// library loaded.  The library is loaded after config so that a profiler or
// output streams given in config observe the prelude.
func New(config ...kurt.Config) (*kurt.Interpreter, error) {
	all := make([]kurt.Config, 0, len(config)+2)
	all = append(all, kurt.WithReader(parser.NewReader()))
	all = append(all, config...)
	all = append(all, kurt.WithLoader(Load))
	return kurt.New(all...)
}
