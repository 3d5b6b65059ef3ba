package cmd

import (
	"context"
	"time"

	"github.com/ardnew/scene/cli/cmd/inspect"
	"github.com/ardnew/scene/log"
)

// Inspect browses a compiled scene interactively.
type Inspect struct {
	Time time.Duration `default:"0s" help:"Initial scene time." short:"t"`

	Source string `arg:"" help:"Scene source file." name:"source" type:"existingfile"`
}

// Run executes the inspect command.
func (i *Inspect) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	tree, err := loaderFrom(ctx).Load(ctx, i.Source)
	if err != nil {
		return err
	}

	return inspect.Run(ctx, tree, sceneTime(i.Time), log.Default())
}
