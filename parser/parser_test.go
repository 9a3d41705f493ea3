// Copyright © 2024 The ELPS authors

package parser

import (
	"strings"
	"testing"

	"github.com/luthersystems/kurt/kurt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReader(t *testing.T) {
	r := NewReader()
	exprs, err := r.Read("test", strings.NewReader("(+ 1 2)"))
	require.NoError(t, err)
	require.Len(t, exprs, 1)
	assert.Equal(t, kurt.KApply, exprs[0].Kind)
	assert.Equal(t, "(+ 1 2)", exprs[0].String())
}

func TestReaderByName(t *testing.T) {
	for _, name := range []string{"", RecursiveDescent, Regex} {
		r, err := ReaderByName(name)
		require.NoError(t, err, name)
		exprs, err := r.Read("test", strings.NewReader("(x | [x {a 1}]) :y"))
		require.NoError(t, err, name)
		require.Len(t, exprs, 2, name)
		assert.Equal(t, kurt.KBlock, exprs[0].Kind, name)
		assert.Equal(t, kurt.KQuote, exprs[1].Kind, name)
	}
	_, err := ReaderByName("yacc")
	assert.Error(t, err)
}

// Both readers must agree on the printed form of every program.
func TestReadersAgree(t *testing.T) {
	sources := []string{
		`42`,
		`-3.5`,
		`"a\tb"`,
		`(def x [1 2 3])`,
		`(a b | (+ a b))`,
		`(:name value | (def \name value))`,
		`{a 1 b [true false nil]}`,
		`; comment
		(print "hi") ; trailing`,
		`#!/usr/bin/env kurt
		(x)`,
	}
	rd, err := ReaderByName(RecursiveDescent)
	require.NoError(t, err)
	re, err := ReaderByName(Regex)
	require.NoError(t, err)
	for _, src := range sources {
		want, err := rd.Read("test", strings.NewReader(src))
		require.NoError(t, err, src)
		got, err := re.Read("test", strings.NewReader(src))
		require.NoError(t, err, src)
		require.Len(t, got, len(want), src)
		for i := range want {
			assert.Equal(t, want[i].Repr(), got[i].Repr(), src)
		}
	}
}

// Both readers must reject malformed programs with the same error.
func TestReadersAgreeOnErrors(t *testing.T) {
	sources := []string{
		`"abc`,
		`(print "abc`,
		`1.2.3`,
		`(+ 1 2`,
	}
	rd, err := ReaderByName(RecursiveDescent)
	require.NoError(t, err)
	re, err := ReaderByName(Regex)
	require.NoError(t, err)
	for _, src := range sources {
		_, want := rd.Read("p", strings.NewReader(src))
		require.Error(t, want, src)
		var got error
		require.NotPanics(t, func() {
			_, got = re.Read("p", strings.NewReader(src))
		}, src)
		require.Error(t, got, src)
		assert.Equal(t, want.Error(), got.Error(), src)
	}
}
