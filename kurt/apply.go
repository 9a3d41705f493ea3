// Copyright © 2018 The ELPS authors

package kurt

import (
	"strings"
)

// Parameter markers.
const (
	RestMarker   = "..."
	QuoteMarker  = ":"
	anonymousFun = "anonymous"
)

// Apply applies a sequence of expressions in env.
//
//	()                 nil
//	(block arg...)     invoke block with positional args
//	(expr)             expr
//	(recv block)       evaluate block's body in a frame built from recv
//	(recv key)         evaluate key with recv as the environment
//
// A Block produced by the last two forms is bound to recv as its receiver.
func (k *Interpreter) Apply(env Expr, exprs []Expr) (Expr, error) {
	if k.debug {
		k.trace("apply", NewApply(nil, exprs))
	}
	if len(exprs) == 0 {
		return Nil(), nil
	}
	first, err := k.Eval(env, exprs[0])
	if err != nil {
		return Nil(), k.raise(env, err)
	}
	if first.Kind == KBlock {
		v, err := k.invoke(env, first, exprs[1:])
		return v, k.raise(env, err)
	}
	var result Expr
	switch len(exprs) {
	case 1:
		result = first
	case 2:
		second, err := k.Eval(env, exprs[1])
		if err != nil {
			return Nil(), k.raise(env, err)
		}
		if second.Kind == KBlock {
			result, err = k.call(env, first, second)
		} else {
			result, err = k.Eval(first, second)
		}
		if err != nil {
			return Nil(), k.raise(env, err)
		}
	default:
		return Nil(), k.Throwf(env, ErrTooManyArguments, "apply allows no more than 2 expressions, got %d", len(exprs))
	}
	if result.Kind == KBlock {
		result = result.withSelf(first)
	}
	return result, nil
}

// invoke binds args to the parameters of block and applies the block to the
// resulting argument Dict.
func (k *Interpreter) invoke(env, block Expr, args []Expr) (Expr, error) {
	if k.debug {
		k.trace("invoke", NewList(nil, args))
	}
	bindings, err := k.bind(env, block, len(args), func(i int, quoted bool) (Expr, error) {
		return k.bindArg(env, args[i], quoted)
	})
	if err != nil {
		return Nil(), err
	}
	return k.Apply(env, []Expr{bindings, block})
}

// Call invokes block from env with argument values that are already
// evaluated.  Builtins use Call to run blocks they were handed.
func (k *Interpreter) Call(env, block Expr, args ...Expr) (Expr, error) {
	if block.Kind != KBlock {
		return Nil(), k.Throwf(env, ErrTypeMismatch, "cannot call %v", block.Kind)
	}
	bindings, err := k.bind(env, block, len(args), func(i int, _ bool) (Expr, error) {
		return args[i], nil
	})
	if err != nil {
		return Nil(), err
	}
	v, err := k.Apply(env, []Expr{bindings, block})
	return v, k.raise(env, err)
}

// bind builds the argument Dict for n arguments, obtaining each value from
// arg.
func (k *Interpreter) bind(env, block Expr, n int, arg func(i int, quoted bool) (Expr, error)) (Expr, error) {
	b := block.Block()
	bindings := make(map[string]Expr, len(b.Params))
	consumed := 0
	for i, param := range b.Params {
		name, rest, quoted := ParseParam(param)
		if rest {
			var vals []Expr
			for j := i; j < n; j++ {
				v, err := arg(j, quoted)
				if err != nil {
					return Nil(), err
				}
				vals = append(vals, v)
			}
			bindings[name] = NewList(nil, vals)
			consumed = n
			break
		}
		if i >= n {
			// Keep walking so that a trailing rest parameter is bound.
			continue
		}
		v, err := arg(i, quoted)
		if err != nil {
			return Nil(), err
		}
		bindings[name] = v
		consumed = i + 1
	}
	if consumed < n {
		return Nil(), k.Throwf(env, ErrTooManyArguments, "%s takes %d arguments, got %d", blockName(b), len(b.Params), n)
	}
	return NewDict(nil, bindings), nil
}

func (k *Interpreter) bindArg(env, arg Expr, quoted bool) (Expr, error) {
	if quoted {
		return k.Quote(env, arg)
	}
	return k.Eval(env, arg)
}

// call evaluates the body of block in a new frame whose fields are copied from
// args.
func (k *Interpreter) call(env, args, block Expr) (Expr, error) {
	b := block.Block()
	frame := k.newFrame(env, args, b)
	// Builtin frames cannot recurse on their own and do not count toward
	// the stack height.
	if b.Body.Kind != KNative {
		k.depth++
		defer func() { k.depth-- }()
		if k.MaxStackHeight > 0 && k.depth > k.MaxStackHeight {
			return Nil(), k.Throwf(frame, ErrStackOverflow, "maximum stack height %d exceeded", k.MaxStackHeight)
		}
	}
	if k.Profiler != nil {
		defer k.Profiler.Start(block)()
	}
	return k.Eval(frame, b.Body)
}

func (k *Interpreter) newFrame(env, args Expr, b *Block) Expr {
	m := make(map[string]Expr)
	if d := args.Dict(); d != nil {
		for key, v := range d.Map {
			m[key] = v
		}
	}
	if b.Self.IsNil() {
		m[SelfKey] = env
	} else {
		m[SelfKey] = b.Self
	}
	if !b.Env.IsNil() {
		m[ParentKey] = b.Env
	}
	m[CallerKey] = env
	return Expr{Kind: KDict, cell: &Dict{Source: b.Source, Name: b.Name, Map: m}}
}

// ParseParam strips the markers from a declared parameter.
func ParseParam(param string) (name string, rest bool, quoted bool) {
	name = param
	if strings.HasSuffix(name, RestMarker) && len(name) > len(RestMarker) {
		name = strings.TrimSuffix(name, RestMarker)
		rest = true
	}
	if strings.HasPrefix(name, QuoteMarker) && len(name) > len(QuoteMarker) {
		name = strings.TrimPrefix(name, QuoteMarker)
		quoted = true
	}
	return name, rest, quoted
}

func blockName(b *Block) string {
	if b.Name == "" {
		return anonymousFun
	}
	return b.Name
}
