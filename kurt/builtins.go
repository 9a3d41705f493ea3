// Copyright © 2018 The ELPS authors

package kurt

import (
	"fmt"
	"sort"
)

// Builtin returns a native Block that runs the builtin registered as name
// with the given parameters.  The Block is not captured and has no receiver.
func (k *Interpreter) Builtin(name string, params ...string) Expr {
	return Expr{Kind: KBlock, cell: &Block{
		Name:   name,
		Params: params,
		Body:   Native(name),
	}}
}

// Register adds fn to the builtin registry under name without binding it in
// any environment.  Names are unique; registering a name twice panics.
func (k *Interpreter) Register(name string, fn Builtin) {
	if _, exists := k.builtins[name]; exists {
		panic(fmt.Sprintf("builtin registered twice: %s", name))
	}
	k.builtins[name] = fn
}

// AddBuiltin registers fn under name and defines a Block invoking it in the
// root environment.
func (k *Interpreter) AddBuiltin(name string, params []string, fn Builtin) {
	k.Register(name, fn)
	k.Root.Dict().Map[name] = k.Builtin(name, params...)
}

// Params is a convenience for building builtin parameter lists.
func Params(names ...string) []string {
	return names
}

// SetDoc attaches documentation to the builtin or library name.
func (k *Interpreter) SetDoc(name string, doc string) {
	k.docs[name] = doc
}

// Doc returns the documentation for name.
func (k *Interpreter) Doc(name string) (string, bool) {
	doc, ok := k.docs[name]
	return doc, ok
}

// Documented returns every documented name in sorted order.
func (k *Interpreter) Documented() []string {
	names := make([]string, 0, len(k.docs))
	for name := range k.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Local returns the binding of name in the frame env, without consulting its
// parents.
func (k *Interpreter) Local(env Expr, name string) (Expr, error) {
	v, ok := k.LocalOpt(env, name)
	if !ok {
		return Nil(), k.Throwf(env, ErrNameNotFound, "missing argument %q", name)
	}
	return v, nil
}

// LocalOpt returns the binding of name in the frame env and whether it
// exists.
func (k *Interpreter) LocalOpt(env Expr, name string) (Expr, bool) {
	d := env.Dict()
	if d == nil {
		return Nil(), false
	}
	v, ok := d.Map[name]
	return v, ok
}

func (k *Interpreter) localKind(env Expr, name string, kind Kind) (Expr, error) {
	v, err := k.Local(env, name)
	if err != nil {
		return Nil(), err
	}
	if v.Kind != kind {
		return Nil(), k.Throwf(env, ErrTypeMismatch, "argument %q must be a %v, got %v", name, kind, v.Kind)
	}
	return v, nil
}

// LocalNum returns the number bound to name in the frame env.
func (k *Interpreter) LocalNum(env Expr, name string) (float64, error) {
	v, err := k.localKind(env, name, KNum)
	return v.Num, err
}

// LocalStr returns the string bound to name in the frame env.
func (k *Interpreter) LocalStr(env Expr, name string) (string, error) {
	v, err := k.localKind(env, name, KStr)
	return v.Str, err
}

// LocalBool returns the boolean bound to name in the frame env.
func (k *Interpreter) LocalBool(env Expr, name string) (bool, error) {
	v, err := k.localKind(env, name, KBool)
	return v.Bool, err
}

// LocalList returns the list bound to name in the frame env.
func (k *Interpreter) LocalList(env Expr, name string) (*List, error) {
	v, err := k.localKind(env, name, KList)
	if err != nil {
		return nil, err
	}
	return v.List(), nil
}

// LocalDict returns the dict bound to name in the frame env.
func (k *Interpreter) LocalDict(env Expr, name string) (*Dict, error) {
	v, err := k.localKind(env, name, KDict)
	if err != nil {
		return nil, err
	}
	return v.Dict(), nil
}

// LocalOptNum returns the number bound to name in the frame env, if any.
func (k *Interpreter) LocalOptNum(env Expr, name string) (float64, bool, error) {
	v, ok := k.LocalOpt(env, name)
	if !ok {
		return 0, false, nil
	}
	if v.Kind != KNum {
		return 0, false, k.Throwf(env, ErrTypeMismatch, "argument %q must be a %v, got %v", name, KNum, v.Kind)
	}
	return v.Num, true, nil
}

// Name converts an expression naming a binding into the name.  Identifiers,
// strings and quoted identifiers are accepted.
func Name(expr Expr) (string, bool) {
	for expr.Kind == KQuote {
		expr = expr.Quoted().Expr
	}
	switch expr.Kind {
	case KID, KStr:
		return expr.Str, true
	}
	return "", false
}
