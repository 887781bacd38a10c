// Package diagnostics carries the structured errors produced by the
// lexing/parsing, compiling, and execution phases, and renders them as
// caret-underlined source snippets.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/funvibe/kite/internal/token"
)

// Error kinds. Each phase produces exactly one kind and stops at the first
// failure.
const (
	SyntaxError  = "SyntaxError"
	CompileError = "CompileError"
	RuntimeError = "RuntimeError"
)

// Error is a single-shot structured diagnostic.
type Error struct {
	View token.SourceView
	Kind string
	Msg  string
	Note string
	Path string
}

func New(view token.SourceView, kind, msg string) *Error {
	return &Error{View: view, Kind: kind, Msg: msg}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiBold  = "\x1b[1m"
	ansiDim   = "\x1b[2m"
)

// Render produces a human-readable report with the offending source line
// and a caret underline. The source must be the text the error's view
// indexes into; color toggles ANSI escapes.
func (e *Error) Render(source string, color bool) string {
	var b strings.Builder

	paint := func(code, s string) string {
		if !color {
			return s
		}
		return code + s + ansiReset
	}

	b.WriteString(paint(ansiBold+ansiRed, e.Kind))
	b.WriteString(paint(ansiBold, ": "+e.Msg))
	b.WriteByte('\n')

	where := fmt.Sprintf("%d:%d", e.View.Line, e.View.Column)
	if e.Path != "" {
		where = e.Path + ":" + where
	}
	b.WriteString(paint(ansiDim, "  --> "+where))
	b.WriteByte('\n')

	line, lineStart := sourceLine(source, e.View)
	if line == "" {
		return b.String()
	}

	gutter := fmt.Sprintf(" %d | ", e.View.Line)
	pad := strings.Repeat(" ", len(gutter)-3)

	b.WriteString(paint(ansiDim, pad+" |"))
	b.WriteByte('\n')
	b.WriteString(paint(ansiDim, gutter))
	b.WriteString(line)
	b.WriteByte('\n')
	b.WriteString(paint(ansiDim, pad+" | "))

	col := e.View.Index - lineStart
	if col < 0 {
		col = 0
	}
	if col > len(line) {
		col = len(line)
	}

	width := e.View.Length
	if width < 1 {
		width = 1
	}
	if col+width > len(line) {
		width = len(line) - col
		if width < 1 {
			width = 1
		}
	}

	b.WriteString(strings.Repeat(" ", col))
	carets := strings.Repeat("^", width)
	if e.Note != "" {
		carets += " " + e.Note
	}
	b.WriteString(paint(ansiBold+ansiRed, carets))
	b.WriteByte('\n')

	return b.String()
}

// sourceLine extracts the line the view starts on and its starting offset.
func sourceLine(source string, view token.SourceView) (string, int) {
	if view.Index > len(source) {
		return "", 0
	}

	start := view.Index
	if start > len(source) {
		start = len(source)
	}
	for start > 0 && source[start-1] != '\n' {
		start--
	}

	end := view.Index
	for end < len(source) && source[end] != '\n' {
		end++
	}

	return source[start:end], start
}
