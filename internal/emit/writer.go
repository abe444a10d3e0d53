// SPDX-License-Identifier: MPL-2.0

package emit

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"
)

// header marks every emitted Go file as generated.
const header = "// Code generated by worldc. DO NOT EDIT."

// writer accumulates Go source one line at a time.
type writer struct {
	buf    bytes.Buffer
	indent int
}

func (w *writer) writeLine(format string, args ...any) {
	if format == "" {
		w.buf.WriteByte('\n')
		return
	}
	w.buf.WriteString(strings.Repeat("\t", w.indent))
	if len(args) == 0 {
		w.buf.WriteString(format)
	} else {
		fmt.Fprintf(&w.buf, format, args...)
	}
	w.buf.WriteByte('\n')
}

// open writes a line ending in an opening brace and indents.
func (w *writer) open(format string, args ...any) {
	w.writeLine(format, args...)
	w.indent++
}

// close dedents and writes the closing line.
func (w *writer) close(line string) {
	w.indent--
	w.writeLine("%s", line)
}

// doc writes a line comment, or nothing for empty text.
func (w *writer) doc(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	if text == "" {
		return
	}
	w.writeLine("// %s", text)
}

// source returns the gofmt'ed buffer. The unformatted text is returned
// alongside a formatting error to ease debugging.
func (w *writer) source(name string) ([]byte, error) {
	src, err := format.Source(w.buf.Bytes())
	if err != nil {
		return w.buf.Bytes(), &FormatError{File: name, Err: err}
	}
	return src, nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
