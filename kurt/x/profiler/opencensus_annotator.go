// Copyright © 2018 The ELPS authors

package profiler

import (
	"context"
	"errors"

	"github.com/golang-collections/collections/stack"
	"github.com/luthersystems/kurt/kurt"
	"go.opencensus.io/trace"
)

type ocAnnotator struct {
	profiler
	currentContext context.Context
	currentSpan    *trace.Span
	contexts       *stack.Stack
}

var _ kurt.Profiler = &ocAnnotator{}

// NewOpenCensusAnnotator returns a profiler that records an OpenCensus span
// for each block invocation as a child of the span in parentContext.
func NewOpenCensusAnnotator(parentContext context.Context, opts ...Option) kurt.Profiler {
	p := &ocAnnotator{
		currentContext: parentContext,
		contexts:       stack.New(),
	}
	p.applyConfigs(opts...)
	return p
}

func (p *ocAnnotator) Enable() error {
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opencensus")
	}
	return p.profiler.Enable()
}

func (p *ocAnnotator) Complete() error {
	if p.contexts.Len() > 0 {
		return errors.New("profile completed with open spans")
	}
	return nil
}

func (p *ocAnnotator) Start(block kurt.Expr) func() {
	if p.skipTrace(block) {
		return noop
	}
	label, _ := p.label(block)
	p.contexts.Push(p.currentContext)
	p.currentContext, p.currentSpan = trace.StartSpan(p.currentContext, label)
	return func() {
		file, line := sourceOf(block)
		p.currentSpan.Annotate([]trace.Attribute{
			trace.StringAttribute("file", file),
			trace.Int64Attribute("line", int64(line)),
		}, "source")
		p.currentSpan.End()
		p.currentContext = p.contexts.Pop().(context.Context)
		p.currentSpan = trace.FromContext(p.currentContext)
	}
}
