// Copyright © 2018 The ELPS authors

package lib

import (
	"bytes"
	_ "embed"

	"github.com/luthersystems/kurt/kurt"
	"github.com/luthersystems/kurt/parser/rdparser"
)

// PreludeName is the source name reported for prelude definitions.
const PreludeName = "prelude.kurt"

//go:embed prelude.kurt
var prelude []byte

// loadPrelude evaluates the prelude in the root environment.  The prelude is
// always read by the default parser, whatever reader k is configured with.
func loadPrelude(k *kurt.Interpreter) error {
	exprs, err := rdparser.NewReader().Read(PreludeName, bytes.NewReader(prelude))
	if err != nil {
		return err
	}
	for _, expr := range exprs {
		if _, err := k.Eval(k.Root, expr); err != nil {
			return err
		}
	}
	return nil
}
