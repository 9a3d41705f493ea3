// Copyright © 2018 The ELPS authors

package lib

import (
	"strings"
	"unicode/utf8"

	"github.com/luthersystems/kurt/kurt"
)

// strMethods form the default table for strings.
var strMethods = []method{
	{"len", function("str.len", nil, builtinStrLen,
		`Returns the number of characters in the receiver.`)},
	{"concat", function("str.concat", kurt.Params("others..."), builtinStrConcat,
		`Returns the receiver followed by the printed form of each argument.`)},
	{"split", function("str.split", kurt.Params("sep"), builtinStrSplit,
		`Returns the list of substrings of the receiver separated by sep.`)},
}

func builtinStrLen(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	s, err := k.LocalStr(env, kurt.SelfKey)
	if err != nil {
		return kurt.Nil(), err
	}
	return kurt.Num(float64(utf8.RuneCountInString(s))), nil
}

func builtinStrConcat(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	s, err := k.LocalStr(env, kurt.SelfKey)
	if err != nil {
		return kurt.Nil(), err
	}
	others, err := k.LocalList(env, "others")
	if err != nil {
		return kurt.Nil(), err
	}
	var b strings.Builder
	b.WriteString(s)
	for _, x := range others.Exprs {
		b.WriteString(x.String())
	}
	return kurt.String(b.String()), nil
}

func builtinStrSplit(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	s, err := k.LocalStr(env, kurt.SelfKey)
	if err != nil {
		return kurt.Nil(), err
	}
	sep, err := k.LocalStr(env, "sep")
	if err != nil {
		return kurt.Nil(), err
	}
	parts := strings.Split(s, sep)
	exprs := make([]kurt.Expr, len(parts))
	for i, p := range parts {
		exprs[i] = kurt.String(p)
	}
	return kurt.NewList(nil, exprs), nil
}
