// Package diag renders positioned interpreter diagnostics the way the
// driver prints them to standard error: a source line, a caret under
// the offending column, and the message.
package diag

import "strings"

// Clean strips blank lines and trailing whitespace from raw source text
// before it reaches the lexer. Line endings are normalized to "\n".
func Clean(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t\r")
		if trimmed == "" {
			continue
		}
		kept = append(kept, trimmed)
	}
	return strings.Join(kept, "\n")
}

// SourceMap maps an absolute byte offset in cleaned source text back to
// a 1-based (line, column) plus the raw text of that line, for error
// rendering.
type SourceMap struct {
	text       string
	lineStarts []int // byte offset of the first byte of each line
}

// NewSourceMap builds a SourceMap over already-cleaned source text.
func NewSourceMap(cleaned string) *SourceMap {
	starts := []int{0}
	for i, b := range []byte(cleaned) {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &SourceMap{text: cleaned, lineStarts: starts}
}

// Locate returns the 1-based line and column for offset, plus the raw
// text of that line (without its trailing newline). An offset outside
// the text is clamped to it; the end of a text that finishes with a
// newline maps to that newline on the last line.
func (m *SourceMap) Locate(offset int) (line, column int, lineText string) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(m.text) {
		offset = len(m.text)
	}
	if offset == len(m.text) && offset > 0 && m.text[offset-1] == '\n' {
		offset--
	}
	line = 1
	for i := len(m.lineStarts) - 1; i >= 0; i-- {
		if m.lineStarts[i] <= offset {
			line = i + 1
			column = offset-m.lineStarts[i] + 1
			break
		}
	}
	lineStart := m.lineStarts[line-1]
	lineEnd := len(m.text)
	if line < len(m.lineStarts) {
		lineEnd = m.lineStarts[line] - 1
	}
	if lineEnd < lineStart {
		lineEnd = lineStart
	}
	lineText = m.text[lineStart:lineEnd]
	return line, column, lineText
}
