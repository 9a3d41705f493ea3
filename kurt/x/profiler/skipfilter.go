// Copyright © 2018 The ELPS authors

package profiler

import (
	"regexp"

	"github.com/luthersystems/kurt/kurt"
)

// SkipFilter returns true for blocks whose invocations should not be traced.
type SkipFilter func(block kurt.Expr) bool

func defaultSkipFilter(block kurt.Expr) bool {
	return block.Kind != kurt.KBlock
}

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// WithBuiltinFilter skips invocations of builtins so that only blocks
// written in kurt are traced.
func WithBuiltinFilter() Option {
	return WithSkipFilter(isBuiltin)
}

// WithNameFilter traces only blocks whose name matches pattern.  Anonymous
// blocks are matched as "anonymous".
func WithNameFilter(pattern *regexp.Regexp) Option {
	return WithSkipFilter(func(block kurt.Expr) bool {
		return !pattern.MatchString(kurt.BlockName(block))
	})
}

func isBuiltin(block kurt.Expr) bool {
	b := block.Block()
	return b != nil && b.Body.Kind == kurt.KNative
}
