package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/ardnew/scene/lang/syntax"
)

func TestErrorFormat(t *testing.T) {
	span := syntax.Span{
		Start: syntax.Pos{Line: 2, Col: 3},
		End:   syntax.Pos{Line: 2, Col: 9},
	}

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"bare", ErrDivisionByZero, "division by zero"},
		{"subject", ErrUndefinedTemplate.About("Box"), `undefined template "Box"`},
		{
			"detail and span",
			ErrUndefinedProperty.About("x").Detail("not declared on Group").At(span),
			`undefined property "x": not declared on Group at 2:3 to 2:9`,
		},
		{
			"wrapped",
			ErrFunctionCall.About("f").Wrap(errors.New("boom")),
			`function call failed "f": boom`,
		},
		{
			"hops",
			ErrCircularReference.About("a").withHops([]Hop{
				{Element: 1, Label: "Group#1", Property: "a"},
				{Element: 1, Label: "Group#1", Property: "b"},
				{Element: 1, Label: "Group#1", Property: "a"},
			}),
			`circular reference "a": Group#1.a -> Group#1.b -> Group#1.a`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	err := fmt.Errorf("context: %w", ErrUnitMismatch.Detail("number + string"))

	if !errors.Is(err, ErrUnitMismatch) {
		t.Errorf("errors.Is(%v, ErrUnitMismatch) = false", err)
	}

	if errors.Is(err, ErrUnknownUnit) {
		t.Errorf("errors.Is(%v, ErrUnknownUnit) = true", err)
	}

	var le *Error
	if !errors.As(err, &le) || le.Kind() != UnitMismatch {
		t.Errorf("errors.As() kind = %v", le.Kind())
	}
}

func TestErrorIsImmutable(t *testing.T) {
	_ = ErrUndefinedTemplate.About("X").With(slog.String("k", "v")).At(syntax.Span{
		Start: syntax.Pos{Line: 1, Col: 1},
		End:   syntax.Pos{Line: 1, Col: 2},
	})

	if got := ErrUndefinedTemplate.Error(); got != "undefined template" {
		t.Errorf("sentinel modified: %q", got)
	}
}

func TestErrorLogValue(t *testing.T) {
	err := ErrUnknownUnit.About("px").With(slog.Float64("value", 5))

	attrs := map[string]string{}
	for _, a := range err.LogValue().Group() {
		attrs[a.Key] = a.Value.String()
	}

	for key, want := range map[string]string{
		"error": "unknown unit",
		"name":  "px",
		"value": "5",
	} {
		if attrs[key] != want {
			t.Errorf("LogValue()[%s] = %q, want %q", key, attrs[key], want)
		}
	}
}

func TestKindString(t *testing.T) {
	if got := ElementNotFound.String(); got != "element not found" {
		t.Errorf("String() = %q", got)
	}

	if got := Kind(99).String(); got != "Kind(99)" {
		t.Errorf("String() = %q", got)
	}
}
