// Copyright © 2024 The ELPS authors

// Package diagnostic renders errors as annotated source excerpts.  It knows
// nothing about the interpreter; callers convert their errors into
// Diagnostics first.
package diagnostic

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	}
	return "unknown"
}

// Span identifies a region of source code to highlight.
type Span struct {
	File   string // name passed to the SourceReader, shown as-is when unreadable
	Line   int    // 1-based line number, 0 when unknown
	Col    int    // 1-based start column
	EndCol int    // 1-based inclusive end column, 0 to extend to the end of the token
	Label  string // text shown after the underline
}

// Diagnostic is a single error, warning, or note with the source spans it
// concerns and trailing notes such as stack frames.
type Diagnostic struct {
	Severity Severity
	Message  string
	Spans    []Span
	Notes    []string
}
