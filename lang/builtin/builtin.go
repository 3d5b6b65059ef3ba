package builtin

import (
	"fmt"
	"log/slog"
	"maps"
	"math"
	"reflect"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/scene/lang"
	"github.com/ardnew/scene/log"
)

// Registry is a [lang.Functions] holding compiled builtin programs. It is
// safe for concurrent use once created.
type Registry struct {
	funcs  map[string]lang.Func
	logger log.Logger
}

// Option configures a [Registry].
type Option func(*config)

type config struct {
	logger log.Logger
	extra  []definition
}

// WithLogger sets the logger used for call tracing.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithExpr declares a numeric function from expr-lang source. The
// arguments are bound to params in order and must be plain numbers.
func WithExpr(name, source string, params ...string) Option {
	return func(c *config) {
		c.extra = append(c.extra, definition{
			name:   name,
			source: source,
			params: params,
			rule:   plain,
		})
	}
}

// definition describes a numeric builtin.
type definition struct {
	name   string
	source string
	params []string
	rule   rule
}

var numeric = []definition{
	{"abs", "abs(a)", []string{"a"}, preserve},
	{"ceil", "ceil(a)", []string{"a"}, preserve},
	{"floor", "floor(a)", []string{"a"}, preserve},
	{"round", "round(a)", []string{"a"}, preserve},
	{"min", "min(a, b)", []string{"a", "b"}, same},
	{"max", "max(a, b)", []string{"a", "b"}, same},
	{"clamp", "max(lo, min(hi, x))", []string{"x", "lo", "hi"}, same},
	{"lerp", "a + (b - a) * t", []string{"a", "b", "t"}, scaled},
	{"sqrt", "sqrt(a)", []string{"a"}, plain},
	{"sin", "sin(a)", []string{"a"}, plain},
	{"cos", "cos(a)", []string{"a"}, plain},
	{"pow", "a ** b", []string{"a", "b"}, plain},
}

var text = []struct {
	name   string
	source string
}{
	{"upper", "upper(s)"},
	{"lower", "lower(s)"},
	{"trim", "trim(s)"},
}

// mathFuncs supplies the functions expr-lang lacks.
var mathFuncs = []expr.Option{
	expr.Function("sqrt", func(params ...any) (any, error) {
		return math.Sqrt(params[0].(float64)), nil
	}, new(func(float64) float64)),
	expr.Function("sin", func(params ...any) (any, error) {
		return math.Sin(params[0].(float64)), nil
	}, new(func(float64) float64)),
	expr.Function("cos", func(params ...any) (any, error) {
		return math.Cos(params[0].(float64)), nil
	}, new(func(float64) float64)),
	expr.Function("hex", func(params ...any) (any, error) {
		c := math.Round(params[0].(float64))

		return fmt.Sprintf("%02x", int(max(0, min(255, c)))), nil
	}, new(func(float64) string)),
}

// New compiles the builtin library.
func New(opts ...Option) (*Registry, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	r := &Registry{funcs: make(map[string]lang.Func), logger: cfg.logger}

	for _, d := range slices.Concat(numeric, cfg.extra) {
		fn, err := r.compileNumeric(d)
		if err != nil {
			return nil, err
		}

		r.funcs[d.name] = fn
	}

	for _, d := range text {
		fn, err := r.compileText(d.name, d.source)
		if err != nil {
			return nil, err
		}

		r.funcs[d.name] = fn
	}

	str, err := r.compileStr()
	if err != nil {
		return nil, err
	}

	r.funcs["str"] = str

	rgb, err := r.compileRGB()
	if err != nil {
		return nil, err
	}

	r.funcs["rgb"] = rgb

	cfg.logger.Trace("builtins compiled", slog.Int("functions", len(r.funcs)))

	return r, nil
}

// Lookup implements [lang.Functions].
func (r *Registry) Lookup(name string) (lang.Func, bool) {
	fn, ok := r.funcs[name]

	return fn, ok
}

// Names returns the function names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.funcs))
}

func (r *Registry) compileNumeric(d definition) (lang.Func, error) {
	env := make(map[string]any, len(d.params))
	for _, p := range d.params {
		env[p] = 0.0
	}

	program, err := expr.Compile(d.source,
		slices.Concat([]expr.Option{expr.Env(env), expr.AsFloat64()}, mathFuncs)...)
	if err != nil {
		return nil, ErrCompile.Wrap(err).
			With(slog.String("function", d.name), slog.String("source", d.source))
	}

	return func(args []lang.Value) (lang.Value, error) {
		if err := arity(d.name, args, len(d.params)); err != nil {
			return nil, err
		}

		unit, xs, err := d.rule(d.name, args)
		if err != nil {
			return nil, err
		}

		env := make(map[string]any, len(xs))
		for i, p := range d.params {
			env[p] = xs[i]
		}

		out, err := r.run(d.name, program, env)
		if err != nil {
			return nil, err
		}

		x, ok := out.(float64)
		if !ok {
			return nil, lang.ErrFunctionCall.About(d.name).Detail(fmt.Sprintf("result is %T", out))
		}

		return unit.with(x), nil
	}, nil
}

func (r *Registry) compileText(name, source string) (lang.Func, error) {
	program, err := expr.Compile(source,
		expr.Env(map[string]any{"s": ""}), expr.AsKind(reflect.String))
	if err != nil {
		return nil, ErrCompile.Wrap(err).With(slog.String("function", name), slog.String("source", source))
	}

	return func(args []lang.Value) (lang.Value, error) {
		if err := arity(name, args, 1); err != nil {
			return nil, err
		}

		s, ok := args[0].(lang.String)
		if !ok {
			return nil, lang.ErrUnitMismatch.Detail(name + " expects a string, got " + args[0].String())
		}

		out, err := r.run(name, program, map[string]any{"s": s.S})
		if err != nil {
			return nil, err
		}

		return lang.String{S: out.(string)}, nil
	}, nil
}

// compileStr formats a quantity by appending its unit to the number.
func (r *Registry) compileStr() (lang.Func, error) {
	const source = "string(x) + unit"

	program, err := expr.Compile(source,
		expr.Env(map[string]any{"x": 0.0, "unit": ""}), expr.AsKind(reflect.String))
	if err != nil {
		return nil, ErrCompile.Wrap(err).With(slog.String("function", "str"), slog.String("source", source))
	}

	return func(args []lang.Value) (lang.Value, error) {
		if err := arity("str", args, 1); err != nil {
			return nil, err
		}

		q, ok := quantityOf(args[0])
		if !ok {
			if s, ok := args[0].(lang.String); ok {
				return s, nil
			}

			return nil, lang.ErrUnitMismatch.Detail("str cannot format " + args[0].String())
		}

		out, err := r.run("str", program, map[string]any{"x": q.x, "unit": q.suffix()})
		if err != nil {
			return nil, err
		}

		return lang.String{S: out.(string)}, nil
	}, nil
}

func (r *Registry) compileRGB() (lang.Func, error) {
	const source = `"#" + hex(r) + hex(g) + hex(b)`

	program, err := expr.Compile(source,
		slices.Concat([]expr.Option{
			expr.Env(map[string]any{"r": 0.0, "g": 0.0, "b": 0.0}),
			expr.AsKind(reflect.String),
		}, mathFuncs)...)
	if err != nil {
		return nil, ErrCompile.Wrap(err).With(slog.String("function", "rgb"), slog.String("source", source))
	}

	return func(args []lang.Value) (lang.Value, error) {
		if err := arity("rgb", args, 3); err != nil {
			return nil, err
		}

		_, xs, err := plain("rgb", args)
		if err != nil {
			return nil, err
		}

		out, err := r.run("rgb", program, map[string]any{"r": xs[0], "g": xs[1], "b": xs[2]})
		if err != nil {
			return nil, err
		}

		return lang.String{S: out.(string)}, nil
	}, nil
}

func (r *Registry) run(name string, program *vm.Program, env map[string]any) (any, error) {
	out, err := vm.Run(program, env)
	if err != nil {
		return nil, lang.ErrFunctionCall.About(name).Wrap(err)
	}

	r.logger.Trace("builtin call",
		slog.String("function", name),
		slog.Any("result", out))

	return out, nil
}

func arity(name string, args []lang.Value, n int) error {
	if len(args) != n {
		return lang.ErrFunctionCall.About(name).
			Detail(fmt.Sprintf("expects %d argument(s), got %d", n, len(args)))
	}

	return nil
}
