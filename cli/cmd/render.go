package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/ardnew/scene/lang"
	"github.com/ardnew/scene/log"
	"github.com/ardnew/scene/render/svg"
)

// Permission modes of written frames and the directories holding them.
const (
	defaultFileMode os.FileMode = 0o644
	defaultDirMode  os.FileMode = 0o755
)

// Render writes SVG frames of a scene.
type Render struct {
	Out  string        `default:"."  help:"Output directory, or '-' to write a single frame to stdout." short:"o"`
	Time time.Duration `default:"0s" help:"Scene time of the rendered frame, e.g. 1.5s."                short:"t"`
	All  bool          `             help:"Render every frame of the scene's timeline."                 short:"a"`
	Jobs int           `default:"0"  help:"Frames rendered concurrently (0 for one per CPU)."          short:"j"`
	Skip bool          `             help:"Omit elements whose properties fail to evaluate."`

	Source string `arg:"" default:"-" help:"Scene source file or '-' for stdin." name:"source" optional:""`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	tree, err := loaderFrom(ctx).Load(ctx, r.Source)
	if err != nil {
		return err
	}

	rd := svg.New(tree, svg.WithLogger(log.Default()), svg.WithSkipErrors(r.Skip))

	if !r.All {
		if r.Out == stdinSource {
			return rd.Render(ctx, outputFrom(ctx), sceneTime(r.Time))
		}

		return r.write(ctx, rd, r.frameName(-1), sceneTime(r.Time))
	}

	tl, err := rd.Timeline(ctx)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "render timeline",
		slog.String("source", r.Source),
		slog.Int("frames", tl.Frames()),
		slog.Float64("frame_rate", tl.FrameRate))

	jobs := r.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
		sem  = make(chan struct{}, jobs)
	)

	for i, at := range tl.Times() {
		if ctx.Err() != nil {
			break
		}

		sem <- struct{}{}

		wg.Go(func() {
			defer func() { <-sem }()

			if err := r.write(ctx, rd, r.frameName(i), at); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		})
	}

	wg.Wait()

	return errors.Join(errs...)
}

// frameName returns the output file of frame i, or of the single frame if
// i is negative.
func (r *Render) frameName(i int) string {
	base := "scene"
	if r.Source != stdinSource {
		base = strings.TrimSuffix(filepath.Base(r.Source), filepath.Ext(r.Source))
	}

	if i >= 0 {
		base = fmt.Sprintf("%s-%04d", base, i)
	}

	return filepath.Join(r.Out, base+".svg")
}

func (r *Render) write(ctx context.Context, rd *svg.Renderer, path string, at lang.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), defaultDirMode); err != nil {
		return ErrWriteFrame.With(slog.String("file", path)).Wrap(err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, defaultFileMode)
	if err != nil {
		return ErrWriteFrame.With(slog.String("file", path)).Wrap(err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	if err := rd.Render(ctx, w, at); err != nil {
		return ErrWriteFrame.
			With(slog.String("file", path), slog.String("time", at.String())).
			Wrap(err)
	}

	if err := w.Flush(); err != nil {
		return ErrWriteFrame.With(slog.String("file", path)).Wrap(err)
	}

	log.DebugContext(ctx, "frame written",
		slog.String("file", path),
		slog.String("time", at.String()))

	return nil
}
