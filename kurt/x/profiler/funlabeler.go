// Copyright © 2018 The ELPS authors

package profiler

import (
	"fmt"
	"regexp"

	"github.com/luthersystems/kurt/kurt"
)

// FunLabeler provides an alternative name for a block in the trace.  An
// empty label falls back to the block name.
type FunLabeler func(block kurt.Expr) string

// WithFunLabeler sets the labeler for tracing spans.
func WithFunLabeler(funLabeler FunLabeler) Option {
	return func(p *profiler) {
		p.funLabeler = funLabeler
	}
}

// WithSourceLabeler labels spans with the block name and the place the
// block was defined, e.g. "fib@main.kurt:3".  Builtins keep their names.
func WithSourceLabeler() Option {
	return WithFunLabeler(sourceLabel)
}

var (
	sanitizeRegExp   = regexp.MustCompile(`[\s_]+`)
	validLabelRegExp = regexp.MustCompile(`[[:graph:]]*`)
)

// sanitizeLabel replaces runs of whitespace with underscores and truncates
// the label at the first non-printable character.
func sanitizeLabel(label string) string {
	if label == "" {
		return ""
	}
	label = sanitizeRegExp.ReplaceAllString(label, "_")
	return validLabelRegExp.FindString(label)
}

func sourceLabel(block kurt.Expr) string {
	loc := block.Source()
	if loc == nil {
		return ""
	}
	return sanitizeLabel(fmt.Sprintf("%s@%s:%d", kurt.BlockName(block), loc.File, loc.Line))
}
