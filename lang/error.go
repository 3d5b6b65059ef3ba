package lang

//go:generate go tool stringer --linecomment --type Kind --output kind_string.go

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/scene/lang/syntax"
)

// Kind classifies an [Error].
type Kind int

const (
	UndefinedTemplate      Kind = iota + 1 // undefined template
	Redeclaration                          // redeclaration
	PropertyAlreadyDefined                 // property already defined
	UndefinedProperty                      // undefined property
	UnknownUnit                            // unknown unit
	UnitMismatch                           // unit mismatch
	UndefinedFunction                      // undefined function
	CircularReference                      // circular reference
	InvalidRoot                            // invalid root
	NamedInstance                          // named instances are not supported
	InvalidOperator                        // invalid operator
	DivisionByZero                         // division by zero
	FunctionCall                           // function call failed
	InvalidNode                            // invalid node
	ElementNotFound                        // element not found
)

// Predefined errors (sentinel values). Use errors.Is to test the kind of an
// error returned by this package.
var (
	ErrUndefinedTemplate      = newError(UndefinedTemplate)
	ErrRedeclaration          = newError(Redeclaration)
	ErrPropertyAlreadyDefined = newError(PropertyAlreadyDefined)
	ErrUndefinedProperty      = newError(UndefinedProperty)
	ErrUnknownUnit            = newError(UnknownUnit)
	ErrUnitMismatch           = newError(UnitMismatch)
	ErrUndefinedFunction      = newError(UndefinedFunction)
	ErrCircularReference      = newError(CircularReference)
	ErrInvalidRoot            = newError(InvalidRoot)
	ErrNamedInstance          = newError(NamedInstance)
	ErrInvalidOperator        = newError(InvalidOperator)
	ErrDivisionByZero         = newError(DivisionByZero)
	ErrFunctionCall           = newError(FunctionCall)
	ErrInvalidNode            = newError(InvalidNode)
	ErrElementNotFound        = newError(ElementNotFound)
)

// Hop is one (element, property) pair on a reference chain.
type Hop struct {
	Element  Handle
	Label    string // kind and handle, e.g. "Rectangle#3"
	Property string
}

func (h Hop) String() string { return h.Label + "." + h.Property }

// Error is a build or evaluation failure. It implements both error and
// slog.LogValuer.
type Error struct {
	kind    Kind
	subject string // the offending name, quoted in the message
	detail  string
	err     error
	attrs   []slog.Attr
	span    syntax.Span
	hops    []Hop
}

func newError(kind Kind) *Error {
	return &Error{kind: kind}
}

func (e *Error) clone() *Error {
	c := *e
	c.attrs = slices.Clone(e.attrs)
	c.hops = slices.Clone(e.hops)

	return &c
}

// Kind returns the error's classification.
func (e *Error) Kind() Kind { return e.kind }

// Span returns the source range the error refers to, which is zero when
// unknown.
func (e *Error) Span() syntax.Span { return e.span }

// Hops returns the reference chain of a [CircularReference], from the
// requested property through the property seen twice.
func (e *Error) Hops() []Hop { return slices.Clone(e.hops) }

// Error implements the error interface as
// `<kind> "<subject>": <detail>: <cause> at <span>`, omitting absent parts.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.kind.String())

	if e.subject != "" {
		sb.WriteByte(' ')
		sb.WriteString(strconv.Quote(e.subject))
	}

	if e.detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.detail)
	}

	if len(e.hops) > 0 {
		sb.WriteString(": ")

		for i, h := range e.hops {
			if i > 0 {
				sb.WriteString(" -> ")
			}

			sb.WriteString(h.String())
		}
	}

	if e.err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.err.Error())
	}

	if !e.span.IsZero() {
		sb.WriteString(" at ")
		sb.WriteString(e.span.String())
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.kind == e.kind
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+5)
	attrs = append(attrs, slog.String("error", e.kind.String()))

	if e.subject != "" {
		attrs = append(attrs, slog.String("name", e.subject))
	}

	if e.detail != "" {
		attrs = append(attrs, slog.String("detail", e.detail))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if !e.span.IsZero() {
		attrs = append(attrs, slog.String("at", e.span.String()))
	}

	if len(e.hops) > 0 {
		path := make([]string, len(e.hops))
		for i, h := range e.hops {
			path[i] = h.String()
		}

		attrs = append(attrs, slog.String("path", strings.Join(path, " -> ")))
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

// About sets the name the error is about.
func (e *Error) About(subject string) *Error {
	c := e.clone()
	c.subject = subject

	return c
}

// Detail sets a human-readable elaboration.
func (e *Error) Detail(detail string) *Error {
	c := e.clone()
	c.detail = detail

	return c
}

// At sets the source span.
func (e *Error) At(span syntax.Span) *Error {
	c := e.clone()
	c.span = span

	return c
}

func (e *Error) withHops(hops []Hop) *Error {
	c := e.clone()
	c.hops = hops

	return c
}
