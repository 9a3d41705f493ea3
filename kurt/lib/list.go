// Copyright © 2018 The ELPS authors

package lib

import (
	"sort"

	"github.com/luthersystems/kurt/kurt"
)

// listMethods form the default table for lists.
var listMethods = []method{
	{"len", function("list.len", nil, builtinListLen,
		`Returns the number of elements in the receiver.`)},
	{"push", function("list.push", kurt.Params("value"), builtinListPush,
		`Appends value to the receiver.`)},
	{"pop", function("list.pop", nil, builtinListPop,
		`Removes and returns the last element of the receiver.`)},
	{"for-each", function("list.for-each", kurt.Params("block"), builtinListForEach,
		`Invokes block with the index and value of each element.`)},
	{"map", function("list.map", kurt.Params("block"), builtinListMap,
		`Returns a new list holding the result of invoking block on each
		element.`)},
	{"get", function("list.get", kurt.Params("key"), builtinGet,
		`Returns the element at index key.`)},
	shared("set", "set", ":name", "value"),
}

// dictMethods form the default table for dicts used as objects.
var dictMethods = []method{
	shared("set", "set", ":name", "value"),
	shared("set-all", "set-all", "values"),
	shared("def", "def", ":name", "value"),
	shared("def-all", "def-all", "values"),
	shared("?", "?", ":id"),
	{"keys", function("dict.keys", nil, builtinDictKeys,
		`Returns the sorted keys of the receiver as strings.`)},
	{"get", function("dict.get", kurt.Params("key"), builtinGet,
		`Returns the value bound to key in the receiver or its parents.`)},
}

func receiverList(k *kurt.Interpreter, env kurt.Expr) (*kurt.List, error) {
	return k.LocalList(env, kurt.SelfKey)
}

func builtinListLen(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	l, err := receiverList(k, env)
	if err != nil {
		return kurt.Nil(), err
	}
	return kurt.Num(float64(len(l.Exprs))), nil
}

func builtinListPush(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	l, err := receiverList(k, env)
	if err != nil {
		return kurt.Nil(), err
	}
	value, _ := k.LocalOpt(env, "value")
	l.Exprs = append(l.Exprs, value)
	return kurt.Nil(), nil
}

func builtinListPop(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	l, err := receiverList(k, env)
	if err != nil {
		return kurt.Nil(), err
	}
	n := len(l.Exprs)
	if n == 0 {
		return kurt.Nil(), k.Throwf(env, kurt.ErrIndexOutOfRange, "attempted to pop an empty list")
	}
	last := l.Exprs[n-1]
	l.Exprs[n-1] = kurt.Nil()
	l.Exprs = l.Exprs[:n-1]
	return last, nil
}

func builtinListForEach(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	l, err := receiverList(k, env)
	if err != nil {
		return kurt.Nil(), err
	}
	block, err := k.Local(env, "block")
	if err != nil {
		return kurt.Nil(), err
	}
	// Index by position so that blocks may push onto the list being walked.
	for i := 0; i < len(l.Exprs); i++ {
		if _, err := k.Call(env, block, kurt.Num(float64(i)), l.Exprs[i]); err != nil {
			return kurt.Nil(), err
		}
	}
	return kurt.Nil(), nil
}

func builtinListMap(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	l, err := receiverList(k, env)
	if err != nil {
		return kurt.Nil(), err
	}
	block, err := k.Local(env, "block")
	if err != nil {
		return kurt.Nil(), err
	}
	out := make([]kurt.Expr, 0, len(l.Exprs))
	for i := 0; i < len(l.Exprs); i++ {
		v, err := k.Call(env, block, l.Exprs[i])
		if err != nil {
			return kurt.Nil(), err
		}
		out = append(out, v)
	}
	return kurt.NewList(nil, out), nil
}

// builtinGet reads key from the receiver.  String keys name fields.
func builtinGet(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	this, err := receiver(k, env)
	if err != nil {
		return kurt.Nil(), err
	}
	key, err := k.Local(env, "key")
	if err != nil {
		return kurt.Nil(), err
	}
	if name, ok := kurt.Name(key); ok {
		key = kurt.ID(name)
	}
	return k.Get(this, key)
}

func builtinDictKeys(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	d, err := k.LocalDict(env, kurt.SelfKey)
	if err != nil {
		return kurt.Nil(), err
	}
	names := make([]string, 0, len(d.Map))
	for name := range d.Map {
		switch name {
		case kurt.ParentKey, kurt.SelfKey, kurt.CallerKey:
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	keys := make([]kurt.Expr, len(names))
	for i, name := range names {
		keys[i] = kurt.String(name)
	}
	return kurt.NewList(nil, keys), nil
}
