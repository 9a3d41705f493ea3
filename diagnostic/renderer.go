// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// DefaultWidth is the column at which notes are wrapped when a Renderer does
// not set Width.
const DefaultWidth = 80

const tabWidth = 4

// Renderer formats diagnostics as annotated source excerpts:
//
//	error: name not found: y
//	  --> main.kurt:2:3
//	   |
//	 2 |  (y)
//	   |   ^ in anonymous
//	   |
//	   = note: in f at main.kurt:1:9
type Renderer struct {
	// Color controls ANSI color output.  The default is ColorAuto.
	Color ColorMode
	// SourceReader returns the contents of a span's file.  If nil, files are
	// read from disk.
	SourceReader func(name string) ([]byte, error)
	// Width is the column at which notes wrap.  Zero means DefaultWidth.
	Width int
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	out := &output{w: bufio.NewWriter(w), st: styleFor(r.Color, w)}
	out.header(d)
	for _, span := range d.Spans {
		r.renderSpan(out, span)
	}
	for _, note := range d.Notes {
		out.note(note, r.width())
	}
	if out.err != nil {
		return out.err
	}
	return out.w.Flush()
}

// RenderAll writes diags to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) width() int {
	if r.Width > 0 {
		return r.Width
	}
	return DefaultWidth
}

func (r *Renderer) renderSpan(out *output, span Span) {
	out.printf("  %s-->%s %s\n", out.st.gutter, out.st.reset, spanLocation(span))
	line, ok := r.sourceLine(span.File, span.Line)
	if !ok {
		out.gutter("", "")
		return
	}
	num := strconv.Itoa(span.Line)
	pad := strings.Repeat(" ", len(num))
	out.gutter(pad, "")
	out.gutter(num, expandTabs(line))

	start := span.Col
	if start < 1 {
		start = 1
	}
	end := span.EndCol
	if end < 1 {
		end = tokenEnd(line, start)
	}
	if end < start {
		end = start
	}
	runes := []rune(line)
	prefix := ""
	if start-1 <= len(runes) {
		prefix = string(runes[:start-1])
	}
	marks := strings.Repeat(" ", len([]rune(expandTabs(prefix)))) +
		out.st.marker + strings.Repeat("^", end-start+1)
	if span.Label != "" {
		marks += " " + span.Label
	}
	out.gutter(pad, marks+out.st.reset)
	out.gutter(pad, "")
}

func spanLocation(span Span) string {
	switch {
	case span.Line <= 0:
		return span.File
	case span.Col <= 0:
		return fmt.Sprintf("%s:%d", span.File, span.Line)
	}
	return fmt.Sprintf("%s:%d:%d", span.File, span.Line, span.Col)
}

// sourceLine returns line number n of file.
func (r *Renderer) sourceLine(file string, n int) (string, bool) {
	if n <= 0 || file == "" {
		return "", false
	}
	read := r.SourceReader
	if read == nil {
		read = os.ReadFile
	}
	data, err := read(file)
	if err != nil {
		return "", false
	}
	lines := strings.Split(string(data), "\n")
	if n > len(lines) {
		return "", false
	}
	return strings.TrimRight(lines[n-1], "\r"), true
}

// tokenEnd returns the column of the last character of the token starting at
// col.  Delimiters form single character tokens.
func tokenEnd(line string, col int) int {
	runes := []rune(line)
	if col > len(runes) {
		return col
	}
	end := col - 1
	for end < len(runes) && !isDelimiter(runes[end]) {
		end++
	}
	if end == col-1 {
		return col
	}
	return end
}

func isDelimiter(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune("()[]{}|", r)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

// output writes to a buffered writer, holding on to the first error.
type output struct {
	w   *bufio.Writer
	st  style
	err error
}

func (o *output) printf(format string, v ...interface{}) {
	if o.err != nil {
		return
	}
	_, o.err = fmt.Fprintf(o.w, format, v...)
}

func (o *output) header(d Diagnostic) {
	o.printf("%s%s%s: %s%s%s\n", o.st.severity[d.Severity], d.Severity, o.st.reset, o.st.bold, d.Message, o.st.reset)
}

// gutter writes a source column line.  label fills the gutter to the left of
// the bar and is right aligned with the line numbers.
func (o *output) gutter(label, text string) {
	if text == "" {
		o.printf(" %s%s |%s\n", o.st.gutter, label, o.st.reset)
		return
	}
	o.printf(" %s%s |%s  %s\n", o.st.gutter, label, o.st.reset, text)
}

// note writes a note wrapped to width, with continuation lines aligned after
// the note prefix.
func (o *output) note(text string, width int) {
	const prefix = "   = note: "
	body := wordwrap.String(text, width-len(prefix))
	lines := strings.SplitN(body, "\n", 2)
	o.printf("   %s=%s note: %s\n", o.st.gutter, o.st.reset, lines[0])
	if len(lines) > 1 {
		o.printf("%s\n", indent.String(lines[1], uint(len(prefix))))
	}
}
