// Copyright © 2018 The ELPS authors

// Package parser selects a reader implementation for kurt source.
package parser

import (
	"fmt"

	"github.com/luthersystems/kurt/kurt"
	"github.com/luthersystems/kurt/parser/rdparser"
	"github.com/luthersystems/kurt/parser/regexparser"
)

// Reader implementation names.
const (
	RecursiveDescent = "rd"
	Regex            = "regex"
)

// NewReader returns the default kurt.Reader, the recursive descent parser.
func NewReader() kurt.Reader {
	return rdparser.NewReader()
}

// ReaderByName returns the reader implementation called name.
func ReaderByName(name string) (kurt.Reader, error) {
	switch name {
	case "", RecursiveDescent:
		return rdparser.NewReader(), nil
	case Regex:
		return regexparser.NewReader(), nil
	default:
		return nil, fmt.Errorf("unknown parser %q (expected %q or %q)", name, RecursiveDescent, Regex)
	}
}
