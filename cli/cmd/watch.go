package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/scene/log"
	"github.com/ardnew/scene/render/svg"
)

// Watch re-renders one frame of a scene every time the scene or one of its
// libraries changes on disk.
type Watch struct {
	Out      string        `default:"-"     help:"File rewritten after every change, or '-' for stdout." short:"o"`
	Time     time.Duration `default:"0s"    help:"Scene time of the rendered frame."                      short:"t"`
	Debounce time.Duration `default:"100ms" help:"Quiet period before a change is rebuilt."`

	Source string `arg:"" help:"Scene source file." name:"source" type:"existingfile"`
}

// Run executes the watch command. It returns when ctx is cancelled.
func (w *Watch) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	files, err := loaderFrom(ctx).Files(w.Source)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatch.Wrap(err)
	}
	defer watcher.Close()

	// Editors often replace a file instead of writing it, which drops a
	// watch on the file itself, so the parent directories are watched.
	watched := make(map[string]struct{}, len(files))
	dirs := make(map[string]struct{})

	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return ErrWatch.With(slog.String("file", f)).Wrap(err)
		}

		watched[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return ErrWatch.With(slog.String("dir", dir)).Wrap(err)
		}
	}

	log.InfoContext(ctx, "watching",
		slog.String("source", w.Source),
		slog.Int("files", len(watched)))

	w.rebuild(ctx)

	timer := time.NewTimer(w.Debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if _, ok := watched[filepath.Clean(ev.Name)]; !ok {
				continue
			}

			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}

			log.TraceContext(ctx, "source changed",
				slog.String("file", ev.Name),
				slog.String("op", ev.Op.String()))

			timer.Reset(w.Debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			log.WarnContext(ctx, "watch error", slog.Any("error", err))

		case <-timer.C:
			w.rebuild(ctx)
		}
	}
}

// rebuild renders the frame and publishes it. Failures are logged and the
// previous output is left in place.
func (w *Watch) rebuild(ctx context.Context) {
	var buf bytes.Buffer

	if err := w.render(ctx, &buf); err != nil {
		log.ErrorContext(ctx, "rebuild failed",
			slog.String("source", w.Source),
			slog.Any("error", err))

		return
	}

	if w.Out == stdinSource {
		buf.WriteByte('\n')

		if _, err := buf.WriteTo(outputFrom(ctx)); err != nil {
			log.ErrorContext(ctx, "write failed", slog.Any("error", err))
		}

		return
	}

	tmp := w.Out + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), defaultFileMode); err != nil {
		log.ErrorContext(ctx, "write failed",
			slog.String("file", tmp),
			slog.Any("error", err))

		return
	}

	if err := os.Rename(tmp, w.Out); err != nil {
		log.ErrorContext(ctx, "write failed",
			slog.String("file", w.Out),
			slog.Any("error", err))

		return
	}

	log.InfoContext(ctx, "frame written", slog.String("file", w.Out))
}

func (w *Watch) render(ctx context.Context, buf *bytes.Buffer) error {
	tree, err := loaderFrom(ctx).Load(ctx, w.Source)
	if err != nil {
		return err
	}

	return svg.New(tree, svg.WithLogger(log.Default())).Render(ctx, buf, sceneTime(w.Time))
}
