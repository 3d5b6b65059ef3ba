package svg

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/scene/lang"
	"github.com/ardnew/scene/lang/syntax"
)

const scene = `
create Scene {
	width = 200
	height = 100
	duration = 2s
	frame_rate = 2
	create Rectangle { width = 50%; color = "red" }
	create Circle {
		radius = 5 + time / 1s
		outline_color = "blue"
	}
	create Group {
		x = 10; y = 20
		create Text { text = "hi" }
	}
}`

func compile(t *testing.T, src string) *lang.Tree {
	t.Helper()

	f, err := syntax.Parse(t.Context(), src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	tree, err := lang.BuildFile(t.Context(), f)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	return tree
}

func TestTimeline(t *testing.T) {
	r := New(compile(t, scene))

	tl, err := r.Timeline(t.Context())
	if err != nil {
		t.Fatalf("Timeline() error = %v", err)
	}

	if diff := cmp.Diff(Timeline{Duration: 2 * time.Second, FrameRate: 2}, tl); diff != "" {
		t.Errorf("Timeline() mismatch (-want +got):\n%s", diff)
	}

	var got []float64
	for _, at := range tl.Times() {
		got = append(got, at.X)
	}

	if diff := cmp.Diff([]float64{0, 0.5, 1, 1.5}, got); diff != "" {
		t.Errorf("Times() mismatch (-want +got):\n%s", diff)
	}

	if n := (Timeline{}).Frames(); n != 1 {
		t.Errorf("empty Frames() = %d, want 1", n)
	}
}

func TestTimelineInvalid(t *testing.T) {
	for name, src := range map[string]string{
		"zero frame rate":     "create Scene { frame_rate = 0 }",
		"huge frame rate":     "create Scene { frame_rate = 1e18 }",
		"too many frames":     "create Scene { duration = 60min; frame_rate = 1000 }",
		"duration overflows":  "create Scene { duration = 1e300s; frame_rate = 1e-300 }",
		"negative frame rate": "create Scene { frame_rate = -1 }",
	} {
		t.Run(name, func(t *testing.T) {
			r := New(compile(t, src))

			if _, err := r.Timeline(t.Context()); !errors.Is(err, ErrTimeline) {
				t.Errorf("Timeline() error = %v, want %v", err, ErrTimeline)
			}
		})
	}
}

func TestTimelineFramesBounded(t *testing.T) {
	for _, tc := range []struct {
		tl   Timeline
		want int
	}{
		{Timeline{Duration: time.Second, FrameRate: math.Inf(1)}, MaxFrames},
		{Timeline{Duration: time.Hour, FrameRate: 1e18}, MaxFrames},
		{Timeline{Duration: time.Second, FrameRate: math.NaN()}, 1},
		{Timeline{Duration: time.Second, FrameRate: 30}, 30},
	} {
		if got := tc.tl.Frames(); got != tc.want {
			t.Errorf("%+v.Frames() = %d, want %d", tc.tl, got, tc.want)
		}
	}
}

func TestRender(t *testing.T) {
	r := New(compile(t, scene))

	var buf bytes.Buffer
	if err := r.Render(t.Context(), &buf, lang.Time{X: 1, Unit: lang.Second}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	out := buf.String()

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg" width="200" height="100" viewBox="0 0 200 100">`,
		`<rect width="100%" height="100%" fill="black">`,
		`<rect x="0" y="0" width="100" height="100" fill="red">`,
		`<circle cx="100" cy="50" r="6" fill="white" stroke="blue" stroke-width="1">`,
		`<g transform="translate(10 20)"><text x="100" y="50" font-size="16" fill="white" text-anchor="middle">hi</text></g>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() output missing %s\n%s", want, out)
		}
	}
}

func TestRenderFramesDiffer(t *testing.T) {
	r := New(compile(t, scene))

	var a, b bytes.Buffer
	if err := r.Render(t.Context(), &a, lang.Time{X: 0, Unit: lang.Second}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if err := r.Render(t.Context(), &b, lang.Time{X: 1500, Unit: lang.Millisecond}); err == nil {
		t.Fatalf("Render(ms) succeeded, want a unit mismatch on time / 1s")
	}

	if err := r.Render(t.Context(), &b, lang.Time{X: 1.5, Unit: lang.Second}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !strings.Contains(a.String(), `r="5"`) || !strings.Contains(b.String(), `r="6.5"`) {
		t.Errorf("frames do not follow time:\n%s\n%s", a.String(), b.String())
	}
}

func TestRenderErrors(t *testing.T) {
	const src = `
create Scene {
	create Rectangle { color = "red" }
	create Rectangle { width = 1 / 0 }
}`

	tree := compile(t, src)

	var buf bytes.Buffer

	err := New(tree).Render(t.Context(), &buf, lang.Time{Unit: lang.Second})
	if !errors.Is(err, lang.ErrDivisionByZero) {
		t.Fatalf("Render() error = %v, want %v", err, lang.ErrDivisionByZero)
	}

	if !strings.Contains(err.Error(), "Scene/Rectangle[1]") {
		t.Errorf("Render() error %q does not name the element", err)
	}

	buf.Reset()

	if err := New(tree, WithSkipErrors(true)).Render(t.Context(), &buf, lang.Time{Unit: lang.Second}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if n := strings.Count(buf.String(), `fill="red"`); n != 1 {
		t.Errorf("rendered %d red rectangles, want 1:\n%s", n, buf.String())
	}
}

func TestEnv(t *testing.T) {
	const src = `
create Scene {
	width = 400
	height = 300
	create Rectangle {
		width = 50%
		height = 10%
		create Rectangle { width = 50% }
	}
	create Group { create Circle {} }
}`

	tree := compile(t, src)
	r := New(tree)
	at := lang.Time{X: 1, Unit: lang.Second}

	tests := []struct {
		path   string
		width  float64
		height float64
	}{
		{path: "Scene/Rectangle", width: 400, height: 300},
		{path: "Scene/Rectangle/Rectangle", width: 200, height: 30},
		{path: "Scene/Group/Circle", width: 400, height: 300},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			h, err := tree.Find(tt.path)
			if err != nil {
				t.Fatalf("Find() error = %v", err)
			}

			env, err := r.Env(t.Context(), h, at)
			if err != nil {
				t.Fatalf("Env() error = %v", err)
			}

			want := map[lang.Basis]float64{lang.BasisWidth: tt.width, lang.BasisHeight: tt.height}
			if diff := cmp.Diff(want, env.Bases); diff != "" {
				t.Errorf("Env() bases mismatch (-want +got):\n%s", diff)
			}

			v, err := tree.Evaluate(t.Context(), tree.Root(), "time", env)
			if err != nil {
				t.Fatalf("Evaluate(time) error = %v", err)
			}

			if v != at {
				t.Errorf("time = %v, want %v", v, at)
			}
		})
	}

	if _, err := r.Env(t.Context(), lang.Handle(1000), at); !errors.Is(err, lang.ErrElementNotFound) {
		t.Errorf("Env() error = %v, want %v", err, lang.ErrElementNotFound)
	}
}
