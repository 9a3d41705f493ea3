// Copyright © 2018 The ELPS authors

package repl

import (
	"testing"

	"github.com/luthersystems/kurt/kurt"
	"github.com/luthersystems/kurt/kurt/lib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameCompleter(t *testing.T) {
	k, err := lib.New()
	require.NoError(t, err)
	env := k.NewScope()
	require.NoError(t, k.Define(env, "define-me", kurt.Num(1)))
	c := &nameCompleter{k: k, env: env}

	candidates, offset := c.Do([]rune("(de"), 3)
	assert.Equal(t, 2, offset)
	assert.Equal(t, [][]rune{[]rune("c"), []rune("f"), []rune("f-all"), []rune("fine-me")}, candidates)

	candidates, offset = c.Do([]rune("((xs :ke"), 8)
	assert.Equal(t, 2, offset)
	assert.Equal(t, [][]rune{[]rune("ys")}, candidates, "dict methods complete")

	candidates, _ = c.Do([]rune("(zzz"), 4)
	assert.Empty(t, candidates)
	candidates, _ = c.Do([]rune("("), 1)
	assert.Empty(t, candidates)
}
