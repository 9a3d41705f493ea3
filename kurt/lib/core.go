// Copyright © 2018 The ELPS authors

package lib

import (
	"errors"
	"fmt"
	"strings"

	"github.com/luthersystems/kurt/kurt"
)

var coreBuiltins = []*builtin{
	function("do", kurt.Params("exprs..."), builtinDo,
		`Runs each argument in order.  Blocks are invoked with no arguments
		and other values are returned as they are.  Returns the value of the
		last argument.`),
	function("def", kurt.Params(":name", "value"), builtinDef,
		`Binds name to value in the receiver, the calling scope unless the
		block was taken from a dict.  A block value is given name for stack
		traces.  Returns the receiver.`),
	function("def-all", kurt.Params("values"), builtinDefAll,
		`Binds every key of the dict values in the receiver.  Returns the
		receiver.`),
	function("let", kurt.Params("vars", "expr"), builtinLet,
		`Evaluates the block expr in a frame holding the fields of the dict
		vars.`),
	function("set", kurt.Params(":name", "value"), builtinSet,
		`Rebinds an existing name in the receiver or its parents.  When the
		receiver is a list, name is an index and the element is replaced.
		Returns the receiver.`),
	function("set-all", kurt.Params("values"), builtinSetAll,
		`Rebinds every key of the dict values in the receiver.  Returns the
		receiver.`),
	function("if", kurt.Params("cond", "if", "else"), builtinIf,
		`Runs if when the boolean cond is true and else otherwise.  Branches
		that are blocks are invoked, other values are returned.  A missing
		else yields nil.`),
	function("?", kurt.Params(":id"), builtinExists,
		`Returns true if id is bound in the receiver.`),
	function("try", kurt.Params("block", "catch"), builtinTry,
		`Invokes block.  If it throws, catch is invoked with the exception, a
		dict with keys message and stack, when catch takes a parameter.`),
	function("throw", kurt.Params("message"), builtinThrow,
		`Throws an exception carrying message and the current call stack.`),
	function("print", kurt.Params("msgs..."), builtinPrint,
		`Writes its non-nil arguments to standard output separated by spaces
		and followed by a newline.`),
	function("log", kurt.Params("msg"), builtinLog,
		`Writes the printed representation of msg to standard output.`),
	function("=", kurt.Params("x", "y"), builtinEqual,
		`Returns true if x and y are structurally equal.  Blocks are never
		equal.`),
	function("!=", kurt.Params("x", "y"), builtinNotEqual,
		`Returns true if x and y are not structurally equal.`),
	function("not", kurt.Params("x"), builtinNot,
		`Returns the negation of the boolean x.`),
	function("test", kurt.Params("name", "expr"), builtinTest,
		`Runs expr under a banner naming the test.`),
	function("expect", kurt.Params("expect", "expr"), builtinExpect,
		`Throws an exception unless expr equals expect.`),
	function("quote", kurt.Params(":expr"), builtinQuote,
		`Returns expr without evaluating it, except for unquoted subforms.`),
	function("eval", kurt.Params("expr"), builtinEval,
		`Evaluates the value expr in the calling scope.`),
	function("help", kurt.Params(":name"), builtinHelp,
		`Prints the documentation for name, or the documented names when
		called without an argument.`),
}

// run invokes x if it is a block and otherwise returns it.
func run(k *kurt.Interpreter, env, x kurt.Expr) (kurt.Expr, error) {
	if x.Kind == kurt.KBlock {
		return k.Call(env, x)
	}
	return x, nil
}

func receiver(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	return k.Local(env, kurt.SelfKey)
}

// localName returns the name given as argument param.
func localName(k *kurt.Interpreter, env kurt.Expr, param string) (string, error) {
	x, err := k.Local(env, param)
	if err != nil {
		return "", err
	}
	name, ok := kurt.Name(x)
	if !ok {
		return "", k.Throwf(env, kurt.ErrTypeMismatch, "%s must be an identifier, got %v", param, x.Kind)
	}
	return name, nil
}

// nameBlock returns a copy of a block value named after the binding it is
// stored under.  Other bindings of the same block keep their names.
func nameBlock(name string, value kurt.Expr) kurt.Expr {
	b := value.Block()
	if b == nil || b.Body.Kind == kurt.KNative {
		return value
	}
	return value.WithName(name)
}

func builtinDo(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	exprs, err := k.LocalList(env, "exprs")
	if err != nil {
		return kurt.Nil(), err
	}
	last := kurt.Nil()
	for _, x := range exprs.Exprs {
		last, err = run(k, env, x)
		if err != nil {
			return kurt.Nil(), err
		}
	}
	return last, nil
}

func builtinDef(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	this, err := receiver(k, env)
	if err != nil {
		return kurt.Nil(), err
	}
	name, err := localName(k, env, "name")
	if err != nil {
		return kurt.Nil(), err
	}
	value, _ := k.LocalOpt(env, "value")
	value = nameBlock(name, value)
	if err := k.Define(this, name, value); err != nil {
		return kurt.Nil(), err
	}
	return this, nil
}

func builtinDefAll(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	this, err := receiver(k, env)
	if err != nil {
		return kurt.Nil(), err
	}
	values, err := k.LocalDict(env, "values")
	if err != nil {
		return kurt.Nil(), err
	}
	for name, value := range values.Map {
		value = nameBlock(name, value)
		if err := k.Define(this, name, value); err != nil {
			return kurt.Nil(), err
		}
	}
	return this, nil
}

func builtinLet(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	vars, err := k.Local(env, "vars")
	if err != nil {
		return kurt.Nil(), err
	}
	expr, err := k.Local(env, "expr")
	if err != nil {
		return kurt.Nil(), err
	}
	return k.Apply(env, []kurt.Expr{vars, expr})
}

func builtinSet(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	this, err := receiver(k, env)
	if err != nil {
		return kurt.Nil(), err
	}
	key, err := k.Local(env, "name")
	if err != nil {
		return kurt.Nil(), err
	}
	value, _ := k.LocalOpt(env, "value")
	if name, ok := kurt.Name(key); ok {
		key = kurt.ID(name)
		value = nameBlock(name, value)
	}
	if err := k.Set(this, key, value); err != nil {
		return kurt.Nil(), err
	}
	return this, nil
}

func builtinSetAll(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	this, err := receiver(k, env)
	if err != nil {
		return kurt.Nil(), err
	}
	values, err := k.LocalDict(env, "values")
	if err != nil {
		return kurt.Nil(), err
	}
	for name, value := range values.Map {
		value = nameBlock(name, value)
		if err := k.Set(this, kurt.ID(name), value); err != nil {
			return kurt.Nil(), err
		}
	}
	return this, nil
}

func builtinIf(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	cond, err := k.LocalBool(env, "cond")
	if err != nil {
		return kurt.Nil(), err
	}
	branch := "else"
	if cond {
		branch = "if"
	}
	x, _ := k.LocalOpt(env, branch)
	return run(k, env, x)
}

func builtinExists(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	this, err := receiver(k, env)
	if err != nil {
		return kurt.Nil(), err
	}
	id, err := k.Local(env, "id")
	if err != nil {
		return kurt.Nil(), err
	}
	name, ok := kurt.Name(id)
	if !ok {
		return kurt.Bool(false), nil
	}
	return kurt.Bool(k.Bound(this, name)), nil
}

func builtinTry(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	block, err := k.Local(env, "block")
	if err != nil {
		return kurt.Nil(), err
	}
	catch, err := k.Local(env, "catch")
	if err != nil {
		return kurt.Nil(), err
	}
	if block.Kind != kurt.KBlock || catch.Kind != kurt.KBlock {
		return kurt.Nil(), k.Throwf(env, kurt.ErrTypeMismatch, "try requires body and catch blocks")
	}
	v, err := k.Call(env, block)
	if err == nil {
		return v, nil
	}
	var exc *kurt.Exception
	if errors.As(err, &exc) && len(catch.Block().Params) > 0 {
		return k.Call(env, catch, exc.Value)
	}
	return k.Call(env, catch)
}

func builtinThrow(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	msg, _ := k.LocalOpt(env, "message")
	return kurt.Nil(), k.Throw(env, msg.String())
}

func builtinPrint(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	msgs, err := k.LocalList(env, "msgs")
	if err != nil {
		return kurt.Nil(), err
	}
	parts := make([]string, 0, len(msgs.Exprs))
	for _, x := range msgs.Exprs {
		if x.IsNil() {
			continue
		}
		parts = append(parts, x.String())
	}
	fmt.Fprintln(k.Stdout, strings.Join(parts, " "))
	return kurt.Nil(), nil
}

func builtinLog(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	msg, _ := k.LocalOpt(env, "msg")
	fmt.Fprintln(k.Stdout, msg.Repr())
	return kurt.Nil(), nil
}

func builtinEqual(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	x, _ := k.LocalOpt(env, "x")
	y, _ := k.LocalOpt(env, "y")
	return kurt.Bool(kurt.Equal(x, y)), nil
}

func builtinNotEqual(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	x, _ := k.LocalOpt(env, "x")
	y, _ := k.LocalOpt(env, "y")
	return kurt.Bool(!kurt.Equal(x, y)), nil
}

func builtinNot(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	x, err := k.LocalBool(env, "x")
	if err != nil {
		return kurt.Nil(), err
	}
	return kurt.Bool(!x), nil
}

func builtinTest(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	name, err := k.LocalStr(env, "name")
	if err != nil {
		return kurt.Nil(), err
	}
	expr, _ := k.LocalOpt(env, "expr")
	fmt.Fprintf(k.Stdout, "-[ %s ]-\n", name)
	k.Log().WithField("test", name).Debug("running test")
	if _, err := run(k, env, expr); err != nil {
		return kurt.Nil(), err
	}
	fmt.Fprintln(k.Stdout)
	return kurt.Nil(), nil
}

func builtinExpect(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	expect, _ := k.LocalOpt(env, "expect")
	expr, _ := k.LocalOpt(env, "expr")
	if !kurt.Equal(expect, expr) {
		return kurt.Nil(), k.Throwf(env, kurt.ErrExpectationFailed, "expected %s : got %s", expect.Repr(), expr.Repr())
	}
	return kurt.Nil(), nil
}

func builtinQuote(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	x, _ := k.LocalOpt(env, "expr")
	return x, nil
}

func builtinEval(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	expr, _ := k.LocalOpt(env, "expr")
	caller, ok := k.LocalOpt(env, kurt.CallerKey)
	if !ok {
		caller = k.Root
	}
	return k.Eval(caller, expr)
}
