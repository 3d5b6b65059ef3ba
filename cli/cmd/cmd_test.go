package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// writeFile writes content to name in dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

// run executes c with loader l and returns what it wrote.
func run(t *testing.T, l *Loader, c interface{ Run(context.Context) error }) (string, error) {
	t.Helper()

	var buf bytes.Buffer

	ctx := WithOutput(WithLoader(t.Context(), l), &buf)
	err := c.Run(ctx)

	return buf.String(), err
}

func TestContextDefaults(t *testing.T) {
	ctx := t.Context()

	require.Nil(t, kongContextFrom(ctx))
	require.Equal(t, os.Stdout, outputFrom(ctx))
	require.NotNil(t, loaderFrom(ctx))

	l := &Loader{Libs: []string{"x"}}
	require.Same(t, l, loaderFrom(WithLoader(ctx, l)))

	var buf bytes.Buffer
	require.Equal(t, &buf, outputFrom(WithOutput(ctx, &buf)))
}

func TestSceneTime(t *testing.T) {
	at := sceneTime(1500 * time.Millisecond)

	require.Equal(t, 1.5, at.X)
	require.Equal(t, "1.5s", at.String())
}
