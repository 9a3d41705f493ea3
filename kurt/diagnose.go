// Copyright © 2024 The ELPS authors

package kurt

import (
	"errors"
	"fmt"

	"github.com/luthersystems/kurt/diagnostic"
	"github.com/luthersystems/kurt/parser/token"
)

// Diagnose converts an error returned by the interpreter into a Diagnostic.
// Exceptions point at the innermost frame of their stack and list the other
// frames as notes.  Parse errors point at the offending token.
func Diagnose(err error) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Message:  err.Error(),
	}
	var exc *Exception
	var lerr *token.LocationError
	switch {
	case errors.As(err, &exc):
		d.Message = exc.Message()
		for i, frame := range exc.Stack() {
			if i == 0 {
				d.Spans = append(d.Spans, diagnostic.Span{
					File:  frame.File,
					Line:  frame.Line,
					Col:   frame.Col,
					Label: "in " + displayName(frame.Name),
				})
				continue
			}
			d.Notes = append(d.Notes, fmt.Sprintf("in %s at %s:%d:%d", displayName(frame.Name), frame.File, frame.Line, frame.Col))
		}
	case errors.As(err, &lerr):
		d.Message = lerr.Err.Error()
		if lerr.Source != nil {
			d.Spans = append(d.Spans, diagnostic.Span{
				File: lerr.Source.File,
				Line: lerr.Source.Line,
				Col:  lerr.Source.Col,
			})
		}
	}
	return d
}

func displayName(name string) string {
	if name == "" {
		return anonymousFun
	}
	return name
}
