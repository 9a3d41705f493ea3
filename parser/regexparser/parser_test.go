// Copyright © 2018 The ELPS authors

package regexparser

import (
	"strings"
	"testing"

	"github.com/luthersystems/kurt/kurt"
	"github.com/luthersystems/kurt/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		source string
		output []string
	}{
		{`1 2.5 -3`, []string{`1`, `2.5`, `-3`}},
		{`"abc" "a\nb"`, []string{`"abc"`, `"a\nb"`}},
		{`abc + true nil`, []string{`abc`, `+`, `true`, `nil`}},
		{`(f x) [1 2] {a b}`, []string{`(f x)`, `[1 2]`, `{a b}`}},
		{`:x \y :(a \b)`, []string{`:x`, `\y`, `:(a \b)`}},
		{`(x :y | x) (| 1)`, []string{`(x :y | ...)`, `(| ...)`}},
		{"; only a comment\n", nil},
		{"#!/bin/kurt\n(go)", []string{`(go)`}},
	}
	for i, test := range tests {
		exprs, err := Parse("test", []byte(test.source))
		if !assert.NoError(t, err, "test %d", i) {
			continue
		}
		var out []string
		for _, x := range exprs {
			out = append(out, x.Repr())
		}
		assert.Equal(t, test.output, out, "test %d", i)
	}
}

func TestParseBlock(t *testing.T) {
	exprs, err := Parse("test", []byte(`(a b... | (+ a 1) b)`))
	require.NoError(t, err)
	require.Len(t, exprs, 1)
	b := exprs[0].Block()
	require.NotNil(t, b)
	assert.Equal(t, []string{"a", "b..."}, b.Params)
	assert.Equal(t, "((+ a 1) b)", b.Body.String())
}

func TestParseLocation(t *testing.T) {
	exprs, err := Parse("test", []byte("1\n  (f\n [x])"))
	require.NoError(t, err)
	require.Len(t, exprs, 2)
	assert.Equal(t, "test:2:3", exprs[1].Source().String())
	inner := exprs[1].List().Exprs[1]
	assert.Equal(t, kurt.KList, inner.Kind)
	assert.Equal(t, "test:3:2", inner.Source().String())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		source string
		errmsg string
	}{
		{`(1 2`, `test:1:1: unmatched (`},
		{`[1 2`, `test:1:1: unmatched [`},
		{`{a}`, `test:1:1: dict literal has a key without a value`},
		{`(1 2))`, `test:1:6: unexpected source text starting: )`},
		{`"abc`, `test:1:1: unterminated string literal`},
		{`"abc\`, `test:1:1: unterminated string literal`},
		{`(print "abc`, `test:1:8: unterminated string literal`},
		{`"\q"`, `test:1:1: invalid string literal: "\q"`},
		{`1.2.3`, `test:1:1: invalid number literal: 1.2.3`},
		{`(+ 12abc 1)`, `test:1:4: invalid number literal: 12abc`},
	}
	for i, test := range tests {
		_, err := Parse("test", []byte(test.source))
		if !assert.Error(t, err, "test %d", i) {
			continue
		}
		var locErr *token.LocationError
		assert.ErrorAs(t, err, &locErr, "test %d", i)
		assert.Equal(t, test.errmsg, err.Error(), "test %d", i)
	}
}

func TestReader(t *testing.T) {
	exprs, err := NewReader().Read("test", strings.NewReader(`(def x 1) x`))
	require.NoError(t, err)
	assert.Len(t, exprs, 2)
}
