// Copyright © 2018 The ELPS authors

package kurttest

import (
	"bytes"
	"io"
	"testing"
)

// Logger is an io.Writer that logs interpreter output through a test.  Each
// complete line is logged separately, tagged with the name of the source that
// produced it.
type Logger struct {
	t      testing.TB
	source string
	buf    bytes.Buffer
}

var _ io.Writer = (*Logger)(nil)

// NewLogger returns a Logger for output of the named source.
func NewLogger(t testing.TB, source string) *Logger {
	return &Logger{t: t, source: source}
}

func (log *Logger) Write(b []byte) (int, error) {
	log.buf.Write(b)
	for {
		line, err := log.buf.ReadBytes('\n')
		if err != nil {
			// Keep the partial line for the next write.
			log.buf.Reset()
			log.buf.Write(line)
			return len(b), nil
		}
		log.emit(line[:len(line)-1])
	}
}

func (log *Logger) emit(line []byte) {
	log.t.Logf("%s: %s", log.source, line)
}

// Flush logs a trailing partial line.
func (log *Logger) Flush() {
	if log.buf.Len() == 0 {
		return
	}
	log.emit(log.buf.Bytes())
	log.buf.Reset()
}
