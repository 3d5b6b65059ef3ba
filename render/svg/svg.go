package svg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"time"

	g "maragu.dev/gomponents"

	"github.com/ardnew/scene/lang"
	"github.com/ardnew/scene/log"
)

const namespace = "http://www.w3.org/2000/svg"

// MaxFrames is the largest number of frames a timeline may have.
const MaxFrames = 1 << 20

// Predefined errors (sentinel values).
var (
	ErrProperty = errors.New("cannot render property")
	ErrTimeline = errors.New("invalid timeline")
)

// Renderer draws frames of one tree.
type Renderer struct {
	tree   *lang.Tree
	logger log.Logger
	skip   bool
}

// Option configures a [Renderer].
type Option func(*Renderer)

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(r *Renderer) { r.logger = logger }
}

// WithSkipErrors omits elements whose properties fail to evaluate instead
// of failing the frame.
func WithSkipErrors(skip bool) Option {
	return func(r *Renderer) { r.skip = skip }
}

// New returns a renderer for tree.
func New(tree *lang.Tree, opts ...Option) *Renderer {
	r := &Renderer{tree: tree}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Timeline describes the frames of a scene.
type Timeline struct {
	Duration  time.Duration
	FrameRate float64
}

// Frames returns the number of frames in the timeline, between 1 and
// [MaxFrames].
func (t Timeline) Frames() int {
	n := t.count()

	switch {
	case math.IsNaN(n) || n < 1:
		return 1
	case n > MaxFrames:
		return MaxFrames
	}

	return int(n)
}

func (t Timeline) count() float64 {
	return math.Ceil(t.Duration.Seconds() * t.FrameRate)
}

// Times iterates the frame index and the scene time of each frame.
func (t Timeline) Times() iter.Seq2[int, lang.Time] {
	return func(yield func(int, lang.Time) bool) {
		for i := range t.Frames() {
			at := lang.Time{X: float64(i) / t.FrameRate, Unit: lang.Second}
			if !yield(i, at) {
				return
			}
		}
	}
}

// Timeline evaluates the scene's duration and frame_rate.
func (r *Renderer) Timeline(ctx context.Context) (Timeline, error) {
	root := r.tree.Root()
	env := r.env(lang.Time{Unit: lang.Second}, nil)

	d, err := r.tree.Evaluate(ctx, root, "duration", env)
	if err != nil {
		return Timeline{}, err
	}

	dt, ok := d.(lang.Time)
	if !ok || !(dt.X >= 0) || math.IsInf(dt.X, 1) {
		return Timeline{}, fmt.Errorf("%w: duration is %v", ErrTimeline, d)
	}

	fps, err := r.number(ctx, root, "frame_rate", env)
	if err != nil {
		return Timeline{}, err
	}

	if !(fps > 0) || math.IsInf(fps, 1) {
		return Timeline{}, fmt.Errorf("%w: frame_rate is %v", ErrTimeline, fps)
	}

	seconds := dt.X * dt.Unit.Duration().Seconds()
	if seconds > time.Duration(math.MaxInt64).Seconds() {
		return Timeline{}, fmt.Errorf("%w: duration is %v", ErrTimeline, d)
	}

	if n := math.Ceil(seconds * fps); !(n <= MaxFrames) {
		return Timeline{}, fmt.Errorf("%w: %v at %v fps exceeds %d frames",
			ErrTimeline, d, fps, MaxFrames)
	}

	return Timeline{Duration: dt.Duration(), FrameRate: fps}, nil
}

// Render writes the frame at scene time at.
func (r *Renderer) Render(ctx context.Context, w io.Writer, at lang.Time) error {
	node, err := r.Frame(ctx, at)
	if err != nil {
		return err
	}

	return node.Render(w)
}

// Frame builds the SVG document of the frame at scene time at.
func (r *Renderer) Frame(ctx context.Context, at lang.Time) (g.Node, error) {
	root := r.tree.Root()
	env := r.env(at, nil)

	width, err := r.number(ctx, root, "width", env)
	if err != nil {
		return nil, err
	}

	height, err := r.number(ctx, root, "height", env)
	if err != nil {
		return nil, err
	}

	background, err := r.text(ctx, root, "background", env)
	if err != nil {
		return nil, err
	}

	r.logger.TraceContext(ctx, "render frame",
		slog.String("time", at.String()),
		slog.Float64("width", width),
		slog.Float64("height", height))

	bases := map[lang.Basis]float64{lang.BasisWidth: width, lang.BasisHeight: height}

	children, err := r.children(ctx, root, r.env(at, bases))
	if err != nil {
		return nil, err
	}

	return g.El("svg",
		g.Attr("xmlns", namespace),
		g.Attr("width", format(width)),
		g.Attr("height", format(height)),
		g.Attr("viewBox", "0 0 "+format(width)+" "+format(height)),
		g.El("rect",
			g.Attr("width", "100%"),
			g.Attr("height", "100%"),
			g.Attr("fill", background)),
		g.Group(children),
	), nil
}

// Env returns the environment the properties of h are evaluated in when the
// frame at scene time at is drawn.
func (r *Renderer) Env(ctx context.Context, h lang.Handle, at lang.Time) (lang.Env, error) {
	if !r.tree.Valid(h) {
		return lang.Env{}, lang.ErrElementNotFound.About("#" + strconv.Itoa(int(h)))
	}

	var chain []lang.Handle
	for p := r.tree.Parent(h); p != lang.NoElement; p = r.tree.Parent(p) {
		chain = append(chain, p)
	}

	env := r.env(at, nil)

	for _, a := range slices.Backward(chain) {
		if !r.has(a, "width", "height") {
			continue
		}

		w, err := r.number(ctx, a, "width", env)
		if err != nil {
			return lang.Env{}, err
		}

		ht, err := r.number(ctx, a, "height", env)
		if err != nil {
			return lang.Env{}, err
		}

		env = r.env(at, map[lang.Basis]float64{lang.BasisWidth: w, lang.BasisHeight: ht})
	}

	return env, nil
}

// env binds the scene time and the percentage bases.
func (r *Renderer) env(at lang.Time, bases map[lang.Basis]float64) lang.Env {
	return lang.Env{Bases: bases}.With(lang.Ref{Element: r.tree.Root(), Property: "time"}, at)
}

func (r *Renderer) children(ctx context.Context, h lang.Handle, env lang.Env) ([]g.Node, error) {
	var nodes []g.Node

	for _, c := range r.tree.Children(h) {
		n, err := r.element(ctx, c, env)
		if err != nil {
			if !r.skip {
				return nil, err
			}

			r.logger.WarnContext(ctx, "element skipped",
				slog.String("element", r.tree.Path(c)),
				slog.Any("error", err))

			continue
		}

		nodes = append(nodes, n)
	}

	return nodes, nil
}

// element draws h and its descendants. env carries the bases of h's
// parent.
func (r *Renderer) element(ctx context.Context, h lang.Handle, env lang.Env) (g.Node, error) {
	shape, err := r.shape(ctx, h, env)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.tree.Path(h), err)
	}

	if len(r.tree.Children(h)) == 0 {
		if shape == nil {
			return g.Group(nil), nil
		}

		return shape, nil
	}

	inner := env

	if r.has(h, "width", "height") {
		w, err := r.number(ctx, h, "width", env)
		if err != nil {
			return nil, err
		}

		ht, err := r.number(ctx, h, "height", env)
		if err != nil {
			return nil, err
		}

		inner.Bases = map[lang.Basis]float64{lang.BasisWidth: w, lang.BasisHeight: ht}
	}

	children, err := r.children(ctx, h, inner)
	if err != nil {
		return nil, err
	}

	group := children

	if r.has(h, "x", "y") {
		x, err := r.number(ctx, h, "x", env)
		if err != nil {
			return nil, err
		}

		y, err := r.number(ctx, h, "y", env)
		if err != nil {
			return nil, err
		}

		group = append([]g.Node{g.Attr("transform", "translate("+format(x)+" "+format(y)+")")}, group...)
	}

	if shape == nil {
		return g.El("g", group...), nil
	}

	return g.Group([]g.Node{shape, g.El("g", group...)}), nil
}

// shape draws h alone, choosing the SVG element by its properties.
func (r *Renderer) shape(ctx context.Context, h lang.Handle, env lang.Env) (g.Node, error) {
	a := &attrs{r: r, ctx: ctx, h: h, env: env}

	var (
		name  string
		nodes []g.Node
	)

	switch {
	case r.has(h, "cx", "cy", "radius"):
		name = "circle"
		nodes = append(nodes,
			a.num("cx", "cx"), a.num("cy", "cy"), a.num("r", "radius"),
			a.str("fill", "color"))
		nodes = append(nodes, a.outline()...)

	case r.has(h, "cx", "cy", "rx", "ry"):
		name = "ellipse"
		nodes = append(nodes,
			a.num("cx", "cx"), a.num("cy", "cy"), a.num("rx", "rx"), a.num("ry", "ry"),
			a.str("fill", "color"))
		nodes = append(nodes, a.outline()...)

	case r.has(h, "x1", "y1", "x2", "y2"):
		name = "line"
		nodes = append(nodes,
			a.num("x1", "x1"), a.num("y1", "y1"), a.num("x2", "x2"), a.num("y2", "y2"),
			a.str("stroke", "color"), a.num("stroke-width", "stroke_width"))

	case r.has(h, "x", "y", "text"):
		name = "text"
		nodes = append(nodes,
			a.num("x", "x"), a.num("y", "y"),
			a.num("font-size", "font_size"),
			a.str("fill", "color"),
			a.str("text-anchor", "anchor"),
			a.content("text"))

	case r.has(h, "x", "y", "width", "height"):
		name = "rect"
		nodes = append(nodes,
			a.num("x", "x"), a.num("y", "y"),
			a.num("width", "width"), a.num("height", "height"),
			a.str("fill", "color"))
		nodes = append(nodes, a.outline()...)

	default:
		return nil, nil
	}

	if a.err != nil {
		return nil, a.err
	}

	return g.El(name, nodes...), nil
}

func (r *Renderer) has(h lang.Handle, names ...string) bool {
	for _, name := range names {
		if _, ok := r.tree.Property(h, name); !ok {
			return false
		}
	}

	return true
}

func (r *Renderer) number(ctx context.Context, h lang.Handle, prop string, env lang.Env) (float64, error) {
	v, err := r.tree.Evaluate(ctx, h, prop, env)
	if err != nil {
		return 0, err
	}

	switch v := v.(type) {
	case lang.Number:
		return v.X, nil
	case lang.Time:
		return v.Duration().Seconds(), nil
	default:
		return 0, fmt.Errorf("%w %s: %v is not a number", ErrProperty, prop, v)
	}
}

func (r *Renderer) text(ctx context.Context, h lang.Handle, prop string, env lang.Env) (string, error) {
	v, err := r.tree.Evaluate(ctx, h, prop, env)
	if err != nil {
		return "", err
	}

	if s, ok := v.(lang.String); ok {
		return s.S, nil
	}

	return v.String(), nil
}

// attrs collects SVG attributes of one element, keeping the first error.
type attrs struct {
	r   *Renderer
	ctx context.Context
	h   lang.Handle
	env lang.Env
	err error
}

func (a *attrs) num(attr, prop string) g.Node {
	if a.err != nil {
		return nil
	}

	x, err := a.r.number(a.ctx, a.h, prop, a.env)
	if err != nil {
		a.err = err

		return nil
	}

	return g.Attr(attr, format(x))
}

func (a *attrs) str(attr, prop string) g.Node {
	if a.err != nil {
		return nil
	}

	s, err := a.r.text(a.ctx, a.h, prop, a.env)
	if err != nil {
		a.err = err

		return nil
	}

	return g.Attr(attr, s)
}

func (a *attrs) content(prop string) g.Node {
	if a.err != nil {
		return nil
	}

	s, err := a.r.text(a.ctx, a.h, prop, a.env)
	if err != nil {
		a.err = err

		return nil
	}

	return g.Text(s)
}

// outline strokes the shape unless its outline color is "none".
func (a *attrs) outline() []g.Node {
	if a.err != nil || !a.r.has(a.h, "outline_color") {
		return nil
	}

	color, err := a.r.text(a.ctx, a.h, "outline_color", a.env)
	if err != nil {
		a.err = err

		return nil
	}

	if color == "none" || color == "" {
		return nil
	}

	nodes := []g.Node{g.Attr("stroke", color)}
	if a.r.has(a.h, "outline_width") {
		nodes = append(nodes, a.num("stroke-width", "outline_width"))
	}

	return nodes
}

func format(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
