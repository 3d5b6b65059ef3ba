package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/scene/lang"
	"github.com/ardnew/scene/log"
	"github.com/ardnew/scene/render/svg"
)

// ErrCheck is returned when evaluation finds broken properties.
var ErrCheck = NewError("properties failed to evaluate")

// Check compiles a scene and reports whether it is well formed.
type Check struct {
	Eval bool `help:"Also evaluate every property at scene time zero." short:"e"`

	Source string `arg:"" default:"-" help:"Scene source file or '-' for stdin." name:"source" optional:""`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	tree, err := loaderFrom(ctx).Load(ctx, c.Source)
	if err != nil {
		return err
	}

	out := outputFrom(ctx)

	n := 0
	for range tree.Elements() {
		n++
	}

	if !c.Eval {
		_, err = fmt.Fprintf(out, "%s: ok (%d elements)\n", c.Source, n)

		return err
	}

	r := svg.New(tree)
	failed := 0

	for h := range tree.Elements() {
		env, err := r.Env(ctx, h, lang.Time{Unit: lang.Second})
		if err != nil {
			return err
		}

		for _, res := range tree.EvaluateAll(ctx, h, env) {
			if res.Err == nil {
				continue
			}

			failed++

			if _, err := fmt.Fprintf(out, "%s.%s: %v\n", tree.Path(h), res.Property, res.Err); err != nil {
				return err
			}
		}
	}

	log.DebugContext(ctx, "check complete",
		slog.String("source", c.Source),
		slog.Int("elements", n),
		slog.Int("failed", failed))

	if failed > 0 {
		return ErrCheck.With(slog.Int("failed", failed))
	}

	_, err = fmt.Fprintf(out, "%s: ok (%d elements)\n", c.Source, n)

	return err
}
