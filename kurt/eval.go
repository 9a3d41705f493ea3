// Copyright © 2018 The ELPS authors

package kurt

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Eval evaluates expr in env.
func (k *Interpreter) Eval(env, expr Expr) (Expr, error) {
	if k.debug {
		k.trace("eval", expr)
	}
	switch expr.Kind {
	case KNil, KBool, KNum, KStr, KID:
		return k.Get(env, expr)
	case KDict:
		return expr, nil
	case KQuote:
		return k.Quote(env, expr.Quoted().Expr)
	case KUnquote:
		return k.Eval(env, expr.Quoted().Expr)
	case KBlock:
		if expr.Block().Env.IsNil() && !env.IsNil() {
			return expr.withEnv(env), nil
		}
		return expr, nil
	case KList:
		src := expr.List()
		exprs := make([]Expr, len(src.Exprs))
		for i, item := range src.Exprs {
			v, err := k.Eval(env, item)
			if err != nil {
				return Nil(), err
			}
			exprs[i] = v
		}
		return NewList(src.Source, exprs), nil
	case KAssoc:
		return k.evalAssoc(env, expr.Assoc())
	case KApply:
		return k.Apply(env, expr.List().Exprs)
	case KNative:
		fn, ok := k.builtins[expr.Str]
		if !ok {
			return Nil(), k.Throwf(env, ErrUnknownBuiltin, "unknown builtin: %s", expr.Str)
		}
		return fn(k, env)
	}
	panic(fmt.Sprintf("invalid expression kind: %v", expr.Kind))
}

func (k *Interpreter) evalAssoc(env Expr, assoc *Assoc) (Expr, error) {
	m := make(map[string]Expr, len(assoc.Pairs))
	for _, pair := range assoc.Pairs {
		key, err := k.Eval(env, pair.Key)
		if err != nil {
			return Nil(), err
		}
		if key.Kind != KID {
			return Nil(), fmt.Errorf("%w: dict key must be an identifier, got %v", ErrTypeMismatch, key.Kind)
		}
		v, err := k.Eval(env, pair.Value)
		if err != nil {
			return Nil(), err
		}
		m[key.Str] = v
	}
	return NewDict(assoc.Source, m), nil
}

// Quote returns expr with its Unquote subforms replaced by their values in
// env.  Containers are rebuilt; everything else is returned unchanged.
func (k *Interpreter) Quote(env, expr Expr) (Expr, error) {
	switch expr.Kind {
	case KUnquote:
		return k.Eval(env, expr.Quoted().Expr)
	case KList, KApply:
		src := expr.List()
		exprs := make([]Expr, len(src.Exprs))
		for i, item := range src.Exprs {
			v, err := k.Quote(env, item)
			if err != nil {
				return Nil(), err
			}
			exprs[i] = v
		}
		return Expr{Kind: expr.Kind, cell: &List{Source: src.Source, Exprs: exprs}}, nil
	case KAssoc:
		src := expr.Assoc()
		pairs := make([]Pair, len(src.Pairs))
		for i, pair := range src.Pairs {
			key, err := k.Quote(env, pair.Key)
			if err != nil {
				return Nil(), err
			}
			v, err := k.Quote(env, pair.Value)
			if err != nil {
				return Nil(), err
			}
			pairs[i] = Pair{Key: key, Value: v}
		}
		return NewAssoc(src.Source, pairs), nil
	default:
		return expr, nil
	}
}

func (k *Interpreter) trace(op string, expr Expr) {
	k.logger().WithFields(logrus.Fields{
		"op":    op,
		"expr":  expr.String(),
		"depth": k.depth,
	}).Trace(op)
}
