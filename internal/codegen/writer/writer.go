package writer

import (
	"fmt"
	"strings"
)

// Writer builds indented target source one line at a time
type Writer struct {
	sb            strings.Builder
	indentLevel   int
	indentString  string
	linePrefix    string
	commentPrefix string
	needsIndent   bool
}

// NewWriter creates a writer that indents with indentString and writes
// "//" comments
func NewWriter(indentString string) *Writer {
	return &Writer{
		indentString:  indentString,
		commentPrefix: "//",
		needsIndent:   true,
	}
}

// WithCommentPrefix sets the line comment token, e.g. "#"
func (w *Writer) WithCommentPrefix(prefix string) *Writer {
	w.commentPrefix = prefix
	return w
}

// Indent increases the indentation level
func (w *Writer) Indent() {
	w.indentLevel++
	w.updatePrefix()
}

// Dedent decreases the indentation level
func (w *Writer) Dedent() {
	if w.indentLevel > 0 {
		w.indentLevel--
		w.updatePrefix()
	}
}

// Write writes a string without adding a newline
func (w *Writer) Write(s string) {
	if w.needsIndent && s != "" {
		w.sb.WriteString(w.linePrefix)
		w.needsIndent = false
	}
	w.sb.WriteString(s)
}

// Writef writes a formatted string without adding a newline
func (w *Writer) Writef(format string, args ...interface{}) {
	w.Write(fmt.Sprintf(format, args...))
}

// WriteLine writes a string and adds a newline
func (w *Writer) WriteLine(s string) {
	w.Write(s)
	w.newline()
}

// WriteLinef writes a formatted string and adds a newline
func (w *Writer) WriteLinef(format string, args ...interface{}) {
	w.Writef(format, args...)
	w.newline()
}

// WriteSeparated writes each item on its own line with sep appended to
// every item but the last, e.g. enum members joined by ","
func (w *Writer) WriteSeparated(items []string, sep string) {
	for i, item := range items {
		if i < len(items)-1 {
			w.WriteLine(item + sep)
		} else {
			w.WriteLine(item)
		}
	}
}

func (w *Writer) newline() {
	w.sb.WriteString("\n")
	w.needsIndent = true
}

// BlankLine adds an empty line
func (w *Writer) BlankLine() {
	if w.sb.Len() > 0 && !strings.HasSuffix(w.sb.String(), "\n\n") {
		w.newline()
	}
}

// String returns the generated code as a string
func (w *Writer) String() string {
	return w.sb.String()
}

// Text returns the generated code without its trailing newlines, the form
// a single declaration block is stored in
func (w *Writer) Text() string {
	return strings.TrimRight(w.sb.String(), "\n")
}

// Bytes returns the generated code as a byte slice
func (w *Writer) Bytes() []byte {
	return []byte(w.sb.String())
}

func (w *Writer) updatePrefix() {
	w.linePrefix = strings.Repeat(w.indentString, w.indentLevel)
}

// WriteBlock writes content inside a block with proper indentation
// Example: WriteBlock("export interface Foo {", "}", func() { w.WriteLine("a: string;") })
func (w *Writer) WriteBlock(opener, closer string, content func()) {
	w.WriteLine(opener)
	w.Indent()
	content()
	w.Dedent()
	w.WriteLine(closer)
}

// WriteComment writes a single-line comment using the writer's comment token
func (w *Writer) WriteComment(comment string) {
	if comment == "" {
		w.WriteLine(w.commentPrefix)
		return
	}
	w.WriteLinef("%s %s", w.commentPrefix, comment)
}
