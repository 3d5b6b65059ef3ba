package syntax

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrSyntax       = NewError("syntax error")
	ErrReadInput    = NewError("failed to read input")
	ErrMissingScene = NewError("expected a create statement")
	ErrExtraScene   = NewError("more than one top-level create statement")
	ErrNotLibrary   = NewError("library must contain only templates")
)

// Error is a parse failure with an optional source position.
// It implements both error and slog.LogValuer.
type Error struct {
	msg      string
	err      error
	attrs    []slog.Attr
	span     Span
	file     string
	source   string
	expected []string
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

func (e *Error) clone() *Error {
	c := *e
	c.attrs = slices.Clone(e.attrs)
	c.expected = slices.Clone(e.expected)

	return &c
}

// Error implements the error interface as
// "<file>:<line>:<col>: <msg>: <cause>", omitting absent parts.
func (e *Error) Error() string {
	var sb strings.Builder

	if e.file != "" {
		sb.WriteString(e.file)
		sb.WriteByte(':')
	}

	if !e.span.IsZero() {
		sb.WriteString(e.span.Start.String())
		sb.WriteByte(':')
	}

	if sb.Len() > 0 {
		sb.WriteByte(' ')
	}

	part := make([]string, 0, 2)
	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	sb.WriteString(strings.Join(part, ": "))

	if len(e.expected) > 0 {
		sb.WriteString(" (expected ")
		sb.WriteString(strings.Join(e.expected, " or "))
		sb.WriteByte(')')
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error derived from the same sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg == e.msg
}

// Span returns the source range the error refers to.
func (e *Error) Span() Span { return e.span }

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.file != "" {
		attrs = append(attrs, slog.String("file", e.file))
	}

	if !e.span.IsZero() {
		attrs = append(attrs, slog.String("at", e.span.Start.String()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping err.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// With adds attributes for structured logging.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.clone()
	c.attrs = append(c.attrs, attrs...)

	return c
}

// At sets the source span.
func (e *Error) At(span Span) *Error {
	c := e.clone()
	c.span = span

	return c
}

// Expect records what the parser would have accepted.
func (e *Error) Expect(what ...string) *Error {
	c := e.clone()
	c.expected = append(c.expected, what...)

	return c
}

// in attaches the file name and text used by [Error.Snippet].
func (e *Error) in(file, source string) *Error {
	c := e.clone()
	c.file = file
	c.source = source

	return c
}

// Snippet renders the offending source line with a caret under the error
// column. It returns "" when the source or position is unknown.
//
//	  3 | create Rect { width = 10px ]
//	    |                             ^
func (e *Error) Snippet() string {
	if e.source == "" || e.span.IsZero() {
		return ""
	}

	lines := strings.Split(e.source, "\n")

	line := e.span.Start.Line
	if line < 1 || line > len(lines) {
		return ""
	}

	num := strconv.Itoa(line)
	gutter := strings.Repeat(" ", len(num))

	var sb strings.Builder

	sb.WriteString("  " + num + " | ")
	sb.WriteString(strings.TrimRight(lines[line-1], "\r"))
	sb.WriteByte('\n')
	sb.WriteString("  " + gutter + " | ")

	if col := e.span.Start.Col; col > 1 {
		sb.WriteString(strings.Repeat(" ", col-1))
	}

	sb.WriteString("^\n")

	return sb.String()
}
