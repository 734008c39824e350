// Package diag renders fatal compiler diagnostics: the offending source
// line, a caret under the exact column, and a one-line message — the
// fixed three-line stderr format §6 describes.
package diag

import (
	"fmt"
	"strings"

	"github.com/cwbudde/minic/internal/lexer"
)

// Source holds one compiled file's text, split into lines, so a
// diagnostic can render its offending line without re-reading the file.
// It is created once per compiled file and never shared across runs —
// each invocation of the driver gets its own, so nothing here survives
// across compilations of different files (§5).
type Source struct {
	Name  string
	lines []string
}

// NewSource splits text into lines for later caret rendering. A trailing
// newline does not produce a spurious empty final line.
func NewSource(name, text string) *Source {
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return &Source{Name: name, lines: lines}
}

// Line returns the 1-indexed source line, or "" if out of range.
func (s *Source) Line(n int) string {
	if n < 1 || n > len(s.lines) {
		return ""
	}
	return s.lines[n-1]
}

// Error is a single fatal compiler diagnostic: a message anchored at a
// source position. Every error kind in §7 (lex/parse/declaration/type) is
// reported through this one type; there is no recovery, so the first
// Error produced unwinds straight to the process exit (§5, §7).
type Error struct {
	Message string
	Pos     lexer.Position
	Source  *Source
}

func New(source *Source, pos lexer.Position, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Pos: pos, Source: source}
}

func (e *Error) Error() string { return e.Format() }

// Format renders the diagnostic in the exact three-line shape §6
// specifies:
//
//	<offending source line>
//	<spaces>^
//	line<L>, pos<C>, error: <message>
func (e *Error) Format() string {
	var sb strings.Builder
	line := ""
	if e.Source != nil {
		line = e.Source.Line(e.Pos.Line)
	}
	sb.WriteString(line)
	sb.WriteByte('\n')
	if e.Pos.Column > 1 {
		sb.WriteString(strings.Repeat(" ", e.Pos.Column-1))
	}
	sb.WriteString("^\n")
	fmt.Fprintf(&sb, "line%d, pos%d, error: %s", e.Pos.Line, e.Pos.Column, e.Message)
	return sb.String()
}
