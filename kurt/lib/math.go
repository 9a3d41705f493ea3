// Copyright © 2018 The ELPS authors

package lib

import (
	"math"

	"github.com/luthersystems/kurt/kurt"
)

var mathBuiltins = []*builtin{
	function("+", kurt.Params("vals..."), builtinAdd,
		`Returns the sum of its arguments, 0 when there are none.`),
	function("*", kurt.Params("vals..."), builtinMul,
		`Returns the product of its arguments, 1 when there are none.`),
	function("-", kurt.Params("x", "y"), builtinSub,
		`Returns x minus y, or the negation of x when y is not given.`),
	function("/", kurt.Params("x", "y"), builtinDiv,
		`Returns x divided by y, or the reciprocal of x when y is not
		given.`),
	function("<", kurt.Params("x", "y"), compare(func(x, y float64) bool { return x < y }),
		`Returns true if x is less than y.`),
	function(">", kurt.Params("x", "y"), compare(func(x, y float64) bool { return x > y }),
		`Returns true if x is greater than y.`),
	function("<=", kurt.Params("x", "y"), compare(func(x, y float64) bool { return x <= y }),
		`Returns true if x is less than or equal to y.`),
	function(">=", kurt.Params("x", "y"), compare(func(x, y float64) bool { return x >= y }),
		`Returns true if x is greater than or equal to y.`),
	function("sin", kurt.Params("x"), unary("x", math.Sin),
		`Returns the sine of x radians.`),
	function("cos", kurt.Params("x"), unary("x", math.Cos),
		`Returns the cosine of x radians.`),
	function("sqrt", kurt.Params("x"), unary("x", math.Sqrt),
		`Returns the square root of x.`),
	function("floor", kurt.Params("x"), unary("x", math.Floor),
		`Returns the largest integer value not greater than x.`),
}

// numMethods form the default table for numbers.  Each operates on the
// receiver.
var numMethods = []method{
	{"floor", function("num.floor", nil, unary(kurt.SelfKey, math.Floor),
		`Returns the largest integer value not greater than the receiver.`)},
	{"sqrt", function("num.sqrt", nil, unary(kurt.SelfKey, math.Sqrt),
		`Returns the square root of the receiver.`)},
	{"str", function("num.str", nil, builtinNumStr,
		`Returns the receiver formatted as a string.`)},
}

func fold(k *kurt.Interpreter, env kurt.Expr, init float64, op func(acc, x float64) float64) (kurt.Expr, error) {
	vals, err := k.LocalList(env, "vals")
	if err != nil {
		return kurt.Nil(), err
	}
	acc := init
	for _, v := range vals.Exprs {
		if v.Kind != kurt.KNum {
			return kurt.Nil(), k.Throwf(env, kurt.ErrTypeMismatch, "operator requires numeric values, got %v", v.Kind)
		}
		acc = op(acc, v.Num)
	}
	return kurt.Num(acc), nil
}

func builtinAdd(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	return fold(k, env, 0, func(acc, x float64) float64 { return acc + x })
}

func builtinMul(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	return fold(k, env, 1, func(acc, x float64) float64 { return acc * x })
}

func builtinSub(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	x, err := k.LocalNum(env, "x")
	if err != nil {
		return kurt.Nil(), err
	}
	y, ok, err := k.LocalOptNum(env, "y")
	if err != nil {
		return kurt.Nil(), err
	}
	if !ok {
		return kurt.Num(-x), nil
	}
	return kurt.Num(x - y), nil
}

func builtinDiv(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	x, err := k.LocalNum(env, "x")
	if err != nil {
		return kurt.Nil(), err
	}
	y, ok, err := k.LocalOptNum(env, "y")
	if err != nil {
		return kurt.Nil(), err
	}
	if !ok {
		return kurt.Num(1 / x), nil
	}
	return kurt.Num(x / y), nil
}

func compare(cmp func(x, y float64) bool) kurt.Builtin {
	return func(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
		x, err := k.LocalNum(env, "x")
		if err != nil {
			return kurt.Nil(), err
		}
		y, err := k.LocalNum(env, "y")
		if err != nil {
			return kurt.Nil(), err
		}
		return kurt.Bool(cmp(x, y)), nil
	}
}

// unary returns a builtin applying fn to the number bound to param.
func unary(param string, fn func(float64) float64) kurt.Builtin {
	return func(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
		x, err := k.LocalNum(env, param)
		if err != nil {
			return kurt.Nil(), err
		}
		return kurt.Num(fn(x)), nil
	}
}

func builtinNumStr(k *kurt.Interpreter, env kurt.Expr) (kurt.Expr, error) {
	x, err := k.LocalNum(env, kurt.SelfKey)
	if err != nil {
		return kurt.Nil(), err
	}
	return kurt.String(kurt.FormatNumber(x)), nil
}
