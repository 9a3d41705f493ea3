// Copyright © 2018 The ELPS authors

// Package profiler provides kurt.Profiler implementations that report block
// invocations to tracing systems and profile formats.
package profiler

import (
	"errors"

	"github.com/luthersystems/kurt/kurt"
)

// profiler holds the state shared by every implementation in this package.
type profiler struct {
	enabled    bool
	skipFilter SkipFilter
	funLabeler FunLabeler
}

// Option configures a profiler.
type Option func(*profiler)

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

// Enable marks the profiler enabled.
func (p *profiler) Enable() error {
	if p.enabled {
		return errors.New("profiler already enabled")
	}
	p.enabled = true
	return nil
}

// label returns the label used for block in traces and the name the block
// was defined under.
func (p *profiler) label(block kurt.Expr) (string, string) {
	name := kurt.BlockName(block)
	label := name
	if p.funLabeler != nil {
		label = p.funLabeler(block)
	}
	if label == "" {
		label = name
	}
	return label, name
}

// skipTrace returns true if the invocation of block should not be recorded.
func (p *profiler) skipTrace(block kurt.Expr) bool {
	return !p.enabled || defaultSkipFilter(block) || p.skipFilter != nil && p.skipFilter(block)
}

func noop() {}

// sourceOf returns the file and line block was read from.
func sourceOf(block kurt.Expr) (string, int) {
	loc := block.Source()
	if loc == nil {
		return "no-source", 0
	}
	return loc.File, loc.Line
}
