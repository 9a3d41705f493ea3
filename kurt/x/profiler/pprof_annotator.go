// Copyright © 2018 The ELPS authors

package profiler

import (
	"context"
	"runtime/pprof"

	"github.com/luthersystems/kurt/kurt"
)

// pprofAnnotator labels the evaluating goroutine with the block being
// invoked so that CPU profiles can be broken down by kurt function.  It does
// not start pprof itself.
type pprofAnnotator struct {
	profiler
	currentContext context.Context
}

var _ kurt.Profiler = &pprofAnnotator{}

// NewPprofAnnotator returns a profiler that sets the pprof label "function"
// while each block runs.
func NewPprofAnnotator(parentContext context.Context, opts ...Option) kurt.Profiler {
	p := &pprofAnnotator{currentContext: parentContext}
	p.applyConfigs(opts...)
	return p
}

func (p *pprofAnnotator) Enable() error {
	if p.currentContext == nil {
		p.currentContext = context.Background()
	}
	return p.profiler.Enable()
}

func (p *pprofAnnotator) Complete() error {
	pprof.SetGoroutineLabels(context.Background())
	return nil
}

func (p *pprofAnnotator) Start(block kurt.Expr) func() {
	if p.skipTrace(block) {
		return noop
	}
	oldContext := p.currentContext
	label, _ := p.label(block)
	p.currentContext = pprof.WithLabels(oldContext, pprof.Labels("function", label))
	pprof.SetGoroutineLabels(p.currentContext)
	return func() {
		p.currentContext = oldContext
		pprof.SetGoroutineLabels(oldContext)
	}
}
