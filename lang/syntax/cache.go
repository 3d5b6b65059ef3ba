package syntax

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// cache maps a hash of (file name, source) to a parsed *File. Cached
// files are shared between callers and must be treated as immutable.
var cache sync.Map

// entry guards a single parse of one source.
type entry struct {
	once sync.Once
	file *File
	err  error
}

// ParseReader reads all of r and parses it, reusing the result of any
// earlier parse of identical input with the same file name.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*File, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	cfg := makeConfig(opts...)

	h := xxh3.New()
	_, _ = h.Write([]byte(cfg.name))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(data)
	key := h.Sum64()

	value, hit := cache.LoadOrStore(key, new(entry))

	e, ok := value.(*entry)
	if !ok {
		return nil, ErrReadInput.With(slog.String("issue", "invalid cache entry"))
	}

	cfg.logger.TraceContext(ctx, "cache lookup",
		slog.String("file", cfg.name),
		slog.String("key", strconv.FormatUint(key, 36)),
		slog.Int("source_bytes", len(data)),
		slog.Bool("cache_hit", hit))

	e.once.Do(func() {
		e.file, e.err = ParseFile(ctx, string(data), opts...)
	})

	return e.file, e.err
}

// ClearCache drops every cached parse result.
func ClearCache() {
	cache.Clear()
}
