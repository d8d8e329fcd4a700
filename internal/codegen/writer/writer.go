package writer

import (
	"fmt"
	"strconv"
	"strings"
)

// Header marks every file written by the generator
const Header = "// Code generated by oasgen. DO NOT EDIT."

// Writer builds Go source text line by line with tab-based indentation
type Writer struct {
	sb          strings.Builder
	indentLevel int
	indent      string
	prefix      string
	needsIndent bool
}

// NewWriter creates a writer indenting with indent
func NewWriter(indent string) *Writer {
	return &Writer{
		indent:      indent,
		needsIndent: true,
	}
}

// Indent increases the indentation level
func (w *Writer) Indent() {
	w.indentLevel++
	w.prefix = strings.Repeat(w.indent, w.indentLevel)
}

// Dedent decreases the indentation level
func (w *Writer) Dedent() {
	if w.indentLevel == 0 {
		return
	}
	w.indentLevel--
	w.prefix = strings.Repeat(w.indent, w.indentLevel)
}

// Write writes s without a newline
func (w *Writer) Write(s string) {
	if w.needsIndent && s != "" {
		w.sb.WriteString(w.prefix)
		w.needsIndent = false
	}
	w.sb.WriteString(s)
}

// Writef writes a formatted string without a newline
func (w *Writer) Writef(format string, args ...any) {
	w.Write(fmt.Sprintf(format, args...))
}

// WriteLine writes s followed by a newline
func (w *Writer) WriteLine(s string) {
	w.Write(s)
	w.Newline()
}

// WriteLinef writes a formatted line
func (w *Writer) WriteLinef(format string, args ...any) {
	w.Writef(format, args...)
	w.Newline()
}

// Newline ends the current line
func (w *Writer) Newline() {
	w.sb.WriteString("\n")
	w.needsIndent = true
}

// BlankLine adds an empty line unless the output already ends with one
func (w *Writer) BlankLine() {
	if w.sb.Len() > 0 && !strings.HasSuffix(w.sb.String(), "\n\n") {
		w.Newline()
	}
}

// WriteBlock writes opener, the indented content and closer.
// Example: WriteBlock("if err != nil {", "}", func() { w.WriteLine("return err") })
func (w *Writer) WriteBlock(opener, closer string, content func()) {
	w.WriteLine(opener)
	w.Indent()
	content()
	w.Dedent()
	w.WriteLine(closer)
}

// WriteComment writes a single line comment. Newlines in comment are folded
// into spaces so the comment can never spill into code.
func (w *Writer) WriteComment(comment string) {
	w.WriteLinef("// %s", strings.Join(strings.Fields(comment), " "))
}

// WriteDocComment writes a documentation comment, one comment line per line of doc
func (w *Writer) WriteDocComment(doc string) {
	if strings.TrimSpace(doc) == "" {
		return
	}
	for _, line := range strings.Split(strings.TrimSpace(doc), "\n") {
		w.WriteComment(line)
	}
}

// WriteHeader writes the generated-code marker and the package clause
func (w *Writer) WriteHeader(pkg string) {
	w.WriteLine(Header)
	w.BlankLine()
	w.WriteLinef("package %s", pkg)
	w.BlankLine()
}

// WriteImports writes an import block with one group per non-empty slice
func (w *Writer) WriteImports(groups ...[]string) {
	var nonEmpty [][]string
	for _, group := range groups {
		if len(group) > 0 {
			nonEmpty = append(nonEmpty, group)
		}
	}
	if len(nonEmpty) == 0 {
		return
	}

	w.WriteBlock("import (", ")", func() {
		for i, group := range nonEmpty {
			if i > 0 {
				w.Newline()
			}
			for _, path := range group {
				w.WriteLine(strconv.Quote(path))
			}
		}
	})
	w.BlankLine()
}

// IndentLevel returns the current indentation level
func (w *Writer) IndentLevel() int {
	return w.indentLevel
}

// String returns the written source
func (w *Writer) String() string {
	return w.sb.String()
}

// Bytes returns the written source as bytes
func (w *Writer) Bytes() []byte {
	return []byte(w.sb.String())
}

// Reset discards the written source and the indentation
func (w *Writer) Reset() {
	w.sb.Reset()
	w.indentLevel = 0
	w.prefix = ""
	w.needsIndent = true
}

// WriteCommentf writes a formatted single line comment
func (w *Writer) WriteCommentf(format string, args ...any) {
	w.WriteComment(fmt.Sprintf(format, args...))
}
