package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/scene/lang"
	"github.com/ardnew/scene/log"
)

const intro = `
create Scene {
	width = 200
	height = 100
	duration = 1s
	frame_rate = 4
	create Rectangle {
		width = 50%
		color = "red"
		create Circle { radius = 1 + time / 1s }
	}
}`

func TestCheck(t *testing.T) {
	src := writeFile(t, t.TempDir(), "intro"+Ext, intro)

	out, err := run(t, nil, &Check{Source: src})
	require.NoError(t, err)
	require.Equal(t, src+": ok (3 elements)\n", out)

	out, err = run(t, nil, &Check{Source: src, Eval: true})
	require.NoError(t, err)
	require.Contains(t, out, "ok (3 elements)")
}

func TestCheckEval(t *testing.T) {
	src := writeFile(t, t.TempDir(), "cycle"+Ext, `
create Scene {
	define a = 1
	define b = a + 1
	a = b * 2
	create Rectangle { color = 5 / 0 }
}`)

	out, err := run(t, nil, &Check{Source: src})
	require.NoError(t, err, "compiling alone does not evaluate")
	require.Contains(t, out, "ok")

	out, err = run(t, nil, &Check{Source: src, Eval: true})
	require.ErrorIs(t, err, ErrCheck)
	require.Contains(t, out, "Scene.a: circular reference")
	require.Contains(t, out, "Scene.b: circular reference")
	require.Contains(t, out, "Scene/Rectangle.color: division by zero")
}

func TestEval(t *testing.T) {
	src := writeFile(t, t.TempDir(), "intro"+Ext, intro)

	tests := []struct {
		name string
		cmd  Eval
		want string
	}{
		{
			name: "percentage of parent",
			cmd:  Eval{Element: "Scene/Rectangle", Property: "width"},
			want: "100",
		},
		{
			name: "nested percentage",
			cmd:  Eval{Element: "Scene/Rectangle/Circle", Property: "cx"},
			want: "50",
		},
		{
			name: "width override",
			cmd:  Eval{Element: "Scene/Rectangle", Property: "width", Width: 400},
			want: "200",
		},
		{
			name: "height override",
			cmd:  Eval{Element: "Scene/Rectangle", Property: "height", Height: 40},
			want: "40",
		},
		{
			name: "scene time",
			cmd:  Eval{Element: "Scene/Rectangle/Circle", Property: "radius", Time: 2 * time.Second},
			want: "3",
		},
		{
			name: "string",
			cmd:  Eval{Element: "Scene/Rectangle", Property: "color"},
			want: `"red"`,
		},
		{
			name: "time value",
			cmd:  Eval{Element: "Scene", Property: "duration"},
			want: "1s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cmd.Source = src

			out, err := run(t, nil, &tt.cmd)
			require.NoError(t, err)
			require.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestEvalErrors(t *testing.T) {
	src := writeFile(t, t.TempDir(), "intro"+Ext, intro)

	_, err := run(t, nil, &Eval{Source: src, Element: "Scene/Text", Property: "x"})
	require.ErrorIs(t, err, lang.ErrElementNotFound)

	_, err = run(t, nil, &Eval{Source: src, Element: "Scene", Property: "depth"})
	require.ErrorIs(t, err, lang.ErrUndefinedProperty)
}

func TestDump(t *testing.T) {
	src := writeFile(t, t.TempDir(), "intro"+Ext, intro)

	t.Run("tree", func(t *testing.T) {
		out, err := run(t, nil, &Dump{Source: src, Format: "tree", Indent: 2, Element: "Scene"})
		require.NoError(t, err)
		require.Contains(t, out, "\n  Rectangle#")
		require.Contains(t, out, "width = 50%  [Rectangle]")
		require.NotContains(t, out, "=>")
	})

	t.Run("tree at time", func(t *testing.T) {
		out, err := run(t, nil, &Dump{Source: src, Format: "tree", Indent: 2, Element: "Scene", Time: "2s"})
		require.NoError(t, err)
		require.Contains(t, out, "width = 50% => 100  [Rectangle]")
		require.Contains(t, out, " => 3")
	})

	t.Run("json subtree", func(t *testing.T) {
		out, err := run(t, nil, &Dump{Source: src, Format: "json", Element: "Scene/Rectangle/Circle", Time: "0s"})
		require.NoError(t, err)

		var snap lang.Snapshot
		require.NoError(t, json.Unmarshal([]byte(out), &snap))
		require.Equal(t, "Scene/Rectangle/Circle", snap.Path)
		require.Empty(t, snap.Children)
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := run(t, nil, &Dump{Source: src, Format: "yaml", Indent: 2, Element: "Scene"})
		require.NoError(t, err)

		var snap lang.Snapshot
		require.NoError(t, yaml.Unmarshal([]byte(out), &snap))
		require.Equal(t, "Rectangle", snap.Children[0].Kind)
	})

	t.Run("cbor", func(t *testing.T) {
		out, err := run(t, nil, &Dump{Source: src, Format: "cbor", Element: "Scene"})
		require.NoError(t, err)

		var snap lang.Snapshot
		require.NoError(t, cbor.Unmarshal([]byte(out), &snap))
		require.Equal(t, "Scene", snap.Kind)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := run(t, nil, &Dump{Source: src, Format: "xml", Element: "Scene"})
		require.ErrorIs(t, err, ErrFormat)

		_, err = run(t, nil, &Dump{Source: src, Format: "tree", Element: "Scene", Time: "soon"})
		require.ErrorIs(t, err, ErrTime)

		_, err = run(t, nil, &Dump{Source: src, Format: "tree", Element: "#9999"})
		require.ErrorIs(t, err, lang.ErrElementNotFound)
	})
}

func TestRender(t *testing.T) {
	src := writeFile(t, t.TempDir(), "intro"+Ext, intro)

	t.Run("single frame", func(t *testing.T) {
		out := t.TempDir()

		_, err := run(t, nil, &Render{Source: src, Out: out, Time: time.Second})
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(out, "intro.svg"))
		require.NoError(t, err)
		require.Contains(t, string(data), `<circle cx="50" cy="50" r="2"`)
	})

	t.Run("stdout", func(t *testing.T) {
		got, err := run(t, nil, &Render{Source: src, Out: "-"})
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(got, "<svg"), got)
	})

	t.Run("all frames", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "frames")

		_, err := run(t, nil, &Render{Source: src, Out: out, All: true, Jobs: 2})
		require.NoError(t, err)

		entries, err := os.ReadDir(out)
		require.NoError(t, err)

		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}

		require.Equal(t, []string{"intro-0000.svg", "intro-0001.svg", "intro-0002.svg", "intro-0003.svg"}, names)

		last, err := os.ReadFile(filepath.Join(out, "intro-0003.svg"))
		require.NoError(t, err)
		require.Contains(t, string(last), `r="1.75"`)
	})

	t.Run("errors", func(t *testing.T) {
		bad := writeFile(t, t.TempDir(), "bad"+Ext, `create Scene { create Rectangle { width = 1 / 0 } }`)

		_, err := run(t, nil, &Render{Source: bad, Out: t.TempDir()})
		require.ErrorIs(t, err, ErrWriteFrame)
		require.ErrorIs(t, err, lang.ErrDivisionByZero)

		_, err = run(t, nil, &Render{Source: bad, Out: t.TempDir(), Skip: true})
		require.NoError(t, err)
	})
}

func TestFmt(t *testing.T) {
	src := writeFile(t, t.TempDir(), "messy"+Ext, "create Scene {width=  320;create Rectangle{width=50%-2*4}}")

	const want = `create Scene {
	width = 320
	create Rectangle {
		width = 50% - 2 * 4
	}
}
`

	out, err := run(t, nil, &Fmt{Source: src})
	require.NoError(t, err)
	require.Equal(t, want, out)

	out, err = run(t, nil, &Fmt{Source: src, Write: true})
	require.NoError(t, err)
	require.Empty(t, out)

	data, err := os.ReadFile(src)
	require.NoError(t, err)
	require.Equal(t, want, string(data))
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "live"+Ext, `create Scene { width = 100 }`)
	out := filepath.Join(dir, "live.svg")

	ctx, cancel := context.WithCancel(WithLoader(t.Context(), new(Loader)))

	done := make(chan error, 1)

	go func() {
		w := &Watch{Source: src, Out: out, Debounce: 10 * time.Millisecond}
		done <- w.Run(ctx)
	}()

	contains := func(s string) func() bool {
		return func() bool {
			data, err := os.ReadFile(out)

			return err == nil && strings.Contains(string(data), s)
		}
	}

	require.Eventually(t, contains(`width="100"`), 5*time.Second, 10*time.Millisecond)

	// A broken edit leaves the last good frame in place.
	require.NoError(t, os.WriteFile(src, []byte(`create Scene { width = }`), 0o644))
	time.Sleep(100 * time.Millisecond)
	require.True(t, contains(`width="100"`)())

	require.NoError(t, os.WriteFile(src, []byte(`create Scene { width = 300 }`), 0o644))
	require.Eventually(t, contains(`width="300"`), 5*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch.Run did not return after cancel")
	}
}

func TestWatchRenderLogsThroughDefault(t *testing.T) {
	var logs bytes.Buffer

	log.Config(log.WithOutput(&logs), log.WithLevel(log.LevelTrace))
	t.Cleanup(func() { log.Config(log.WithDefaults(os.Stderr)) })

	src := writeFile(t, t.TempDir(), "live"+Ext, intro)
	ctx := WithLoader(t.Context(), new(Loader))

	var frame bytes.Buffer
	w := &Watch{Source: src, Time: 250 * time.Millisecond}
	require.NoError(t, w.render(ctx, &frame))
	require.Contains(t, frame.String(), `width="200"`)
	require.Contains(t, logs.String(), "render frame")
}

func TestInit(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "config.yaml")

	var cli struct {
		Lib   []string `name:"lib"`
		Level string   `default:"info" name:"log-level"`
		Quiet bool     `name:"quiet"`
	}

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
	require.NoError(t, err)

	ktx, err := parser.Parse([]string{"--lib", "shapes", "--lib", "text"})
	require.NoError(t, err)

	ctx := WithContext(t.Context(), ktx)

	require.NoError(t, (&Init{}).Run(ctx))

	data, err := os.ReadFile(confPath)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(data, &got))
	require.Equal(t, []any{"shapes", "text"}, got["lib"])
	require.Equal(t, "info", got["log-level"])
	require.Equal(t, false, got["quiet"])

	err = (&Init{}).Run(ctx)
	require.ErrorIs(t, err, ErrWriteConfig)
	require.ErrorIs(t, err, ErrFileExists)

	require.NoError(t, (&Init{Force: true}).Run(ctx))
}

func TestErrorLogValue(t *testing.T) {
	err := ErrLibrary.Wrap(os.ErrNotExist)

	require.Contains(t, err.LogValue().String(), "load template library")
	require.Equal(t, "load template library: file does not exist", err.Error())
	require.NotErrorIs(t, ErrLibrary, ErrCompile)
}
