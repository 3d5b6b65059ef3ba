package cmd

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/ardnew/scene/lang"
	"github.com/ardnew/scene/render/svg"
)

// ErrTime is returned for a scene time that does not parse as a duration.
var ErrTime = NewError("invalid scene time")

// Dump prints the element tree with the expression bound to every property
// and, given a scene time, its value.
type Dump struct {
	Format  string `default:"tree"  enum:"tree,json,yaml,cbor" help:"Output format."                                        short:"f"`
	Indent  int    `default:"2"                                help:"Indent width (0 for compact output)."                  short:"i"`
	Time    string `                                           help:"Evaluate every property at this scene time, e.g. 1s." short:"t" placeholder:"DURATION"`
	Element string `default:"Scene"                            help:"Path of the dumped subtree."                           short:"e"`

	Source string `arg:"" default:"-" help:"Scene source file or '-' for stdin." name:"source" optional:""`
}

var formatters = map[string]func(*lang.Snapshot, context.Context, io.Writer, int) error{
	"tree": (*lang.Snapshot).FormatTree,
	"json": (*lang.Snapshot).FormatJSON,
	"yaml": (*lang.Snapshot).FormatYAML,
	"cbor": (*lang.Snapshot).FormatCBOR,
}

// Run executes the dump command.
func (d *Dump) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	format, ok := formatters[d.Format]
	if !ok {
		return ErrFormat.With(slog.String("format", d.Format))
	}

	tree, err := loaderFrom(ctx).Load(ctx, d.Source)
	if err != nil {
		return err
	}

	h, err := tree.Find(d.Element)
	if err != nil {
		return err
	}

	var snap *lang.Snapshot

	if d.Time == "" {
		snap = tree.Snapshot(ctx, h, nil)
	} else {
		at, err := time.ParseDuration(d.Time)
		if err != nil {
			return ErrTime.With(slog.String("time", d.Time)).Wrap(err)
		}

		r := svg.New(tree)

		snap = tree.SnapshotWith(ctx, h, func(h lang.Handle) (lang.Env, error) {
			return r.Env(ctx, h, sceneTime(at))
		})
	}

	return format(snap, ctx, outputFrom(ctx), d.Indent)
}
