package cmd

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/ardnew/scene/lang"
	"github.com/ardnew/scene/lang/builtin"
	"github.com/ardnew/scene/lang/syntax"
	"github.com/ardnew/scene/log"
)

// Ext is the file extension of scene sources and template libraries.
const Ext = ".scn"

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// Loader compiles scene sources together with template libraries.
type Loader struct {
	// Libs names template libraries spliced before the scene body, in order.
	// Each is either a file path or a name searched for in Path.
	Libs []string
	// Path lists the directories searched for named libraries.
	Path []string
	// Funcs is the function registry. The builtin registry is used if nil.
	Funcs lang.Functions
	// Logger receives trace output from the parser and the builder.
	Logger log.Logger
}

// Load parses and builds the scene read from source, which is a file path
// or "-" for stdin.
func (l *Loader) Load(ctx context.Context, source string) (*lang.Tree, error) {
	file, err := l.Parse(ctx, source)
	if err != nil {
		return nil, err
	}

	return l.Build(ctx, file)
}

// Parse reads source and returns it as a file whose templates are every
// library's templates followed by the file's own top-level declarations.
func (l *Loader) Parse(ctx context.Context, source string) (*syntax.File, error) {
	r, name, err := open(source)
	if err != nil {
		return nil, ErrReadSource.With(slog.String("source", source)).Wrap(err)
	}
	defer r.Close()

	file, err := syntax.ParseReader(ctx, r, syntax.WithName(name), syntax.WithLogger(l.Logger))
	if err != nil {
		return nil, err
	}

	if _, err := file.Root(); err != nil {
		return nil, err
	}

	libs, err := l.libraries(ctx)
	if err != nil {
		return nil, err
	}

	return file.With(libs...), nil
}

// Build compiles file with the loader's functions and logger.
func (l *Loader) Build(ctx context.Context, file *syntax.File) (*lang.Tree, error) {
	funcs := l.Funcs
	if funcs == nil {
		reg, err := builtin.New(builtin.WithLogger(l.Logger))
		if err != nil {
			return nil, ErrCompile.Wrap(err)
		}

		funcs = reg
	}

	return lang.BuildFile(ctx, file,
		lang.WithFunctions(funcs),
		lang.WithLogger(l.Logger))
}

// Files returns the files a load of source reads: source itself followed by
// each distinct library.
func (l *Loader) Files(source string) ([]string, error) {
	var files []string

	if source != stdinSource {
		files = append(files, source)
	}

	seen := make(map[fileKey]struct{})

	for _, lib := range l.Libs {
		path, err := l.locate(lib)
		if err != nil {
			return nil, err
		}

		if unique(path, seen) {
			files = append(files, path)
		}
	}

	return files, nil
}

func (l *Loader) libraries(ctx context.Context) ([]*syntax.Template, error) {
	var templates []*syntax.Template

	seen := make(map[fileKey]struct{})

	for _, lib := range l.Libs {
		path, err := l.locate(lib)
		if err != nil {
			return nil, err
		}

		if !unique(path, seen) {
			l.Logger.TraceContext(ctx, "duplicate library skipped",
				slog.String("library", lib),
				slog.String("path", path))

			continue
		}

		tpls, err := parseLibrary(ctx, path, l.Logger)
		if err != nil {
			return nil, err
		}

		l.Logger.DebugContext(ctx, "library loaded",
			slog.String("library", lib),
			slog.String("path", path),
			slog.Int("templates", len(tpls)))

		templates = append(templates, tpls...)
	}

	return templates, nil
}

// locate resolves a library given on the command line to a file. A name
// that is not an existing file is looked up in each search directory, with
// and without [Ext].
func (l *Loader) locate(lib string) (string, error) {
	if isFile(lib) {
		return lib, nil
	}

	for _, dir := range l.Path {
		for _, name := range []string{lib + Ext, lib} {
			path := filepath.Join(dir, name)
			if isFile(path) {
				return path, nil
			}
		}
	}

	return "", ErrLibrary.
		With(slog.String("library", lib), slog.Any("path", l.Path)).
		Wrap(fs.ErrNotExist)
}

func parseLibrary(ctx context.Context, path string, logger log.Logger) ([]*syntax.Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrLibrary.With(slog.String("path", path)).Wrap(err)
	}
	defer f.Close()

	file, err := syntax.ParseReader(ctx, f, syntax.WithName(path), syntax.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	return file.Library()
}

// open returns a reader for source and the name reported in diagnostics.
func open(source string) (io.ReadCloser, string, error) {
	if source == stdinSource || source == "" {
		return io.NopCloser(os.Stdin), "<stdin>", nil
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, "", err
	}

	return f, source, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks and relative paths.
type fileKey struct {
	dev uint64
	ino uint64
}

// unique reports whether path names a file not yet in seen, and adds it.
// Files whose identity cannot be determined are always unique.
func unique(path string, seen map[fileKey]struct{}) bool {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return true
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return true
	}

	key, ok := makeFileKey(info)
	if !ok {
		return true
	}

	if _, exists := seen[key]; exists {
		return false
	}

	seen[key] = struct{}{}

	return true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}, true //nolint:unconvert
}
