// Copyright © 2024 The ELPS authors

package repl

import (
	"github.com/luthersystems/kurt/diagnostic"
	"github.com/luthersystems/kurt/kurt"
)

const helpNote = "use (help) to list documented builtins"

// renderError writes err to the interpreter's Stderr.  Input typed at the
// prompt is not kept, so spans in REPL input render without source lines.
func renderError(k *kurt.Interpreter, err error) {
	d := kurt.Diagnose(err)
	d.Notes = append(d.Notes, helpNote)
	r := &diagnostic.Renderer{Color: k.Color}
	_ = r.Render(k.Stderr, d)
}
