package cmd

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ardnew/scene/lang"
	"github.com/ardnew/scene/lang/syntax"
)

const badgeLibrary = `
template Badge inherit Circle {
	radius = 4
	define label = "new"
}`

const badgeScene = `
create Scene {
	create Badge { color = "red" }
}`

func TestLoaderLibraries(t *testing.T) {
	libs := t.TempDir()
	lib := writeFile(t, libs, "badge"+Ext, badgeLibrary)
	src := writeFile(t, t.TempDir(), "scene"+Ext, badgeScene)

	tests := []struct {
		name string
		libs []string
	}{
		{name: "by name", libs: []string{"badge"}},
		{name: "by file", libs: []string{lib}},
		{name: "by name with extension", libs: []string{"badge" + Ext}},
		{name: "duplicates load once", libs: []string{"badge", lib, "./" + filepath.Base(lib)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(libs)

			l := &Loader{Libs: tt.libs, Path: []string{libs}}

			tree, err := l.Load(t.Context(), src)
			require.NoError(t, err)

			h, err := tree.Find("Scene/Badge")
			require.NoError(t, err)

			v, err := tree.Evaluate(t.Context(), h, "radius", lang.Env{})
			require.NoError(t, err)
			require.Equal(t, lang.Number{X: 4}, v)

			b, ok := tree.Property(h, "label")
			require.True(t, ok)
			require.Equal(t, "Badge", b.Origin)
		})
	}
}

func TestLoaderBodyTemplateSeesScene(t *testing.T) {
	libs := t.TempDir()
	writeFile(t, libs, "badge"+Ext, badgeLibrary)
	src := writeFile(t, t.TempDir(), "scene"+Ext, `
template Pill inherit Badge { define tone = "plain" }
create Scene {
	template Tag inherit Pill { color = background }
	background = "navy"
	create Tag
}`)

	l := &Loader{Libs: []string{"badge"}, Path: []string{libs}}

	file, err := l.Parse(t.Context(), src)
	require.NoError(t, err)

	var names []string
	for _, tpl := range file.Templates {
		names = append(names, tpl.Name)
	}

	require.Equal(t, []string{"Badge", "Pill"}, names)

	tree, err := l.Build(t.Context(), file)
	require.NoError(t, err)

	h, err := tree.Find("Scene/Tag")
	require.NoError(t, err)

	v, err := tree.Evaluate(t.Context(), h, "color", lang.Env{})
	require.NoError(t, err)
	require.Equal(t, lang.String{S: "navy"}, v)
}

func TestLoaderWithoutLibrary(t *testing.T) {
	src := writeFile(t, t.TempDir(), "scene"+Ext, badgeScene)

	_, err := new(Loader).Load(t.Context(), src)
	require.ErrorIs(t, err, lang.ErrUndefinedTemplate)
}

func TestLoaderMissingLibrary(t *testing.T) {
	src := writeFile(t, t.TempDir(), "scene"+Ext, badgeScene)

	l := &Loader{Libs: []string{"nope"}, Path: []string{t.TempDir()}}

	_, err := l.Load(t.Context(), src)
	require.ErrorIs(t, err, ErrLibrary)
	require.ErrorIs(t, err, fs.ErrNotExist)

	_, err = l.Files(src)
	require.ErrorIs(t, err, ErrLibrary)
}

func TestLoaderLibraryWithScene(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad"+Ext, "create Scene {}")
	src := writeFile(t, dir, "scene"+Ext, "create Scene {}")

	l := &Loader{Libs: []string{"bad"}, Path: []string{dir}}

	_, err := l.Load(t.Context(), src)
	require.ErrorIs(t, err, syntax.ErrNotLibrary)
}

func TestLoaderMissingSource(t *testing.T) {
	_, err := new(Loader).Load(t.Context(), filepath.Join(t.TempDir(), "missing"+Ext))
	require.ErrorIs(t, err, ErrReadSource)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoaderSyntaxError(t *testing.T) {
	src := writeFile(t, t.TempDir(), "broken"+Ext, "create Scene {\n\twidth = \n}")

	_, err := new(Loader).Load(t.Context(), src)
	require.ErrorIs(t, err, syntax.ErrSyntax)
	require.Contains(t, err.Error(), "broken"+Ext+":")
}

func TestLoaderFiles(t *testing.T) {
	libs := t.TempDir()
	lib := writeFile(t, libs, "badge"+Ext, badgeLibrary)
	src := writeFile(t, t.TempDir(), "scene"+Ext, badgeScene)

	l := &Loader{Libs: []string{"badge", lib}, Path: []string{libs}}

	files, err := l.Files(src)
	require.NoError(t, err)
	require.Equal(t, []string{src, filepath.Join(libs, "badge"+Ext)}, files)

	files, err = l.Files(stdinSource)
	require.NoError(t, err)
	require.Len(t, files, 1)
}

func TestLoaderFuncs(t *testing.T) {
	src := writeFile(t, t.TempDir(), "scene"+Ext, `create Scene { define v = twice(21) }`)

	l := &Loader{Funcs: lang.FuncMap{
		"twice": func(args []lang.Value) (lang.Value, error) {
			n, ok := args[0].(lang.Number)
			if !ok {
				return nil, errors.New("not a number")
			}

			return lang.Number{X: 2 * n.X}, nil
		},
	}}

	tree, err := l.Load(t.Context(), src)
	require.NoError(t, err)

	v, err := tree.Evaluate(t.Context(), tree.Root(), "v", lang.Env{})
	require.NoError(t, err)
	require.Equal(t, lang.Number{X: 42}, v)
}
