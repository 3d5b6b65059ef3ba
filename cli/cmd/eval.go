package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/ardnew/scene/lang"
	"github.com/ardnew/scene/render/svg"
)

// Eval evaluates one property of one element.
type Eval struct {
	Time   time.Duration `default:"0s" help:"Scene time, e.g. 1.5s or 250ms."                            short:"t"`
	Width  float64       `             help:"Width that percentages resolve against (default: parent)."`
	Height float64       `             help:"Height that percentages resolve against (default: parent)."`

	Source   string `arg:"" help:"Scene source file or '-' for stdin."        name:"source"`
	Element  string `arg:"" help:"Element path, e.g. Scene/Rectangle[1] or #3." name:"element"`
	Property string `arg:"" help:"Property name."                             name:"property"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	tree, err := loaderFrom(ctx).Load(ctx, e.Source)
	if err != nil {
		return err
	}

	h, err := tree.Find(e.Element)
	if err != nil {
		return err
	}

	env, err := svg.New(tree).Env(ctx, h, sceneTime(e.Time))
	if err != nil {
		return err
	}

	env = e.override(env)

	v, err := tree.Evaluate(ctx, h, e.Property, env)
	if err != nil {
		var le *lang.Error
		if errors.As(err, &le) {
			return le.With(
				slog.String("command", "eval"),
				slog.String("element", e.Element))
		}

		return err
	}

	_, err = fmt.Fprintln(outputFrom(ctx), v)

	return err
}

// override replaces the bases of env with any given on the command line.
func (e *Eval) override(env lang.Env) lang.Env {
	if e.Width <= 0 && e.Height <= 0 {
		return env
	}

	bases := maps.Clone(env.Bases)
	if bases == nil {
		bases = make(map[lang.Basis]float64, 2)
	}

	if e.Width > 0 {
		bases[lang.BasisWidth] = e.Width
	}

	if e.Height > 0 {
		bases[lang.BasisHeight] = e.Height
	}

	env.Bases = bases

	return env
}
