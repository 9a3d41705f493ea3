// Copyright © 2018 The ELPS authors

package profiler

import (
	"testing"

	"github.com/luthersystems/kurt/kurt"
	"github.com/luthersystems/kurt/parser/token"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeLabel(t *testing.T) {
	assert.Equal(t, "", sanitizeLabel(""))
	assert.Equal(t, "a_b_c", sanitizeLabel("a b__c"))
	assert.Equal(t, "ok", sanitizeLabel("ok\x00rest"))
}

func TestSourceLabel(t *testing.T) {
	anon := kurt.NewBlock(nil, nil, kurt.Nil())
	assert.Equal(t, "", sourceLabel(anon))
	loc := &token.Location{File: "my file.kurt", Line: 3, Col: 1}
	assert.Equal(t, "anonymous@my_file.kurt:3", sourceLabel(kurt.NewBlock(loc, nil, kurt.Nil())))
}

func TestSkipFilters(t *testing.T) {
	builtin := kurt.NewBlock(nil, nil, kurt.Native("print"))
	block := kurt.NewBlock(nil, nil, kurt.Nil())
	assert.True(t, defaultSkipFilter(kurt.Num(1)))
	assert.False(t, defaultSkipFilter(block))
	assert.True(t, isBuiltin(builtin))
	assert.False(t, isBuiltin(block))

	var p profiler
	assert.True(t, p.skipTrace(block), "disabled profilers skip everything")
	p.applyConfigs(WithBuiltinFilter())
	p.enabled = true
	assert.True(t, p.skipTrace(builtin))
	assert.False(t, p.skipTrace(block))
}

func TestLabelFallback(t *testing.T) {
	p := profiler{funLabeler: func(kurt.Expr) string { return "" }}
	label, name := p.label(kurt.NewBlock(nil, nil, kurt.Nil()))
	assert.Equal(t, "anonymous", label)
	assert.Equal(t, "anonymous", name)
}
