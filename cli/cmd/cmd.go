package cmd

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ardnew/scene/lang"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	loaderKey struct{}
	outputKey struct{}
)

// WithLoader returns a new context.Context containing the [Loader] used by
// every command to compile its source.
func WithLoader(ctx context.Context, l *Loader) context.Context {
	return context.WithValue(ctx, loaderKey{}, l)
}

// loaderFrom retrieves the Loader stored in ctx by WithLoader, or a Loader
// with no libraries if none was stored.
func loaderFrom(ctx context.Context) *Loader {
	if l, ok := ctx.Value(loaderKey{}).(*Loader); ok && l != nil {
		return l
	}

	return new(Loader)
}

// WithOutput returns a new context.Context whose commands write their
// results to w instead of standard output.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// sceneTime converts d to a scene time in seconds.
func sceneTime(d time.Duration) lang.Time {
	return lang.Time{X: d.Seconds(), Unit: lang.Second}
}
