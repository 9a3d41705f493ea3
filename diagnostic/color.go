// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ColorMode controls when ANSI color codes are used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // color when writing to a terminal and NO_COLOR is unset
	ColorAlways                  // always use colors
	ColorNever                   // never use colors
)

var colorModeNames = map[ColorMode]string{
	ColorAuto:   "auto",
	ColorAlways: "always",
	ColorNever:  "never",
}

func (m ColorMode) String() string {
	if s, ok := colorModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("ColorMode(%d)", int(m))
}

// ParseColorMode parses one of "auto", "always" or "never".  The empty string
// is auto.
func ParseColorMode(s string) (ColorMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ColorAuto, nil
	}
	for m, name := range colorModeNames {
		if s == name {
			return m, nil
		}
	}
	return ColorAuto, fmt.Errorf("invalid color mode %q (expected auto, always or never)", s)
}

// style holds the escape sequences used for each part of a rendering.  The
// zero style renders plain text.
type style struct {
	severity map[Severity]string
	bold     string
	gutter   string
	marker   string
	reset    string
}

var ansiStyle = style{
	severity: map[Severity]string{
		SeverityError:   "\033[1;31m",
		SeverityWarning: "\033[1;33m",
		SeverityNote:    "\033[1;36m",
	},
	bold:   "\033[1m",
	gutter: "\033[1;34m",
	marker: "\033[1;31m",
	reset:  "\033[0m",
}

// styleFor returns the style used for output to w under mode.
func styleFor(mode ColorMode, w io.Writer) style {
	switch mode {
	case ColorAlways:
		return ansiStyle
	case ColorNever:
		return style{}
	}
	if os.Getenv("NO_COLOR") != "" {
		return style{}
	}
	f, ok := w.(*os.File)
	if !ok || !isTerminal(f) {
		return style{}
	}
	return ansiStyle
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
