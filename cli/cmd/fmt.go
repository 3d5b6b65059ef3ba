package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/scene/lang/syntax"
	"github.com/ardnew/scene/log"
)

// Fmt prints a scene source or template library in canonical form.
type Fmt struct {
	Write bool `help:"Rewrite the source file in place instead of printing it." short:"w"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source" optional:""`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	r, name, err := open(f.Source)
	if err != nil {
		return ErrReadSource.With(slog.String("source", f.Source)).Wrap(err)
	}
	defer r.Close()

	file, err := syntax.ParseReader(ctx, r, syntax.WithName(name), syntax.WithLogger(log.Default()))
	if err != nil {
		return err
	}

	if !f.Write || f.Source == stdinSource {
		return syntax.FormatFile(outputFrom(ctx), file)
	}

	var buf bytes.Buffer
	if err := syntax.FormatFile(&buf, file); err != nil {
		return err
	}

	info, err := os.Stat(f.Source)
	if err != nil {
		return ErrReadSource.With(slog.String("source", f.Source)).Wrap(err)
	}

	log.DebugContext(ctx, "formatted source",
		slog.String("source", f.Source),
		slog.Int("bytes", buf.Len()))

	return os.WriteFile(f.Source, buf.Bytes(), info.Mode().Perm())
}
