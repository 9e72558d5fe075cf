package format

import (
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// cache stores compiled templates keyed by the xxh3 hash of their source.
var cache sync.Map

// cached is a cache entry. The template is compiled at most once.
type cached struct {
	once   sync.Once
	source string
	tmpl   *Template
	err    error
}

// CompileCached is like [Compile] but memoises the result for the lifetime
// of the process. Identical sources compiled without options share one
// *Template; with options, the returned template is a copy that shares the
// cached tokens. Compile errors are cached as well.
//
// It is safe for concurrent use.
func CompileCached(source string, opts ...Option) (*Template, error) {
	hash := xxh3.HashString(source)

	value, hit := cache.LoadOrStore(hash, &cached{source: source})

	entry, ok := value.(*cached)
	if !ok || entry.source != source {
		// Hash collision with a different source.
		return Compile(source, opts...)
	}

	entry.once.Do(func() {
		entry.tmpl, entry.err = Compile(source)
	})

	if entry.err != nil {
		return nil, entry.err
	}

	if len(opts) == 0 {
		return entry.tmpl, nil
	}

	t := *entry.tmpl

	for _, opt := range opts {
		opt(&t)
	}

	t.logger.Trace("cache lookup",
		slog.String("source_hash", strconv.FormatUint(hash, 16)),
		slog.Bool("cache_hit", hit),
	)

	return &t, nil
}

// CompileReader reads the whole of r and compiles it with [CompileCached].
func CompileReader(r io.Reader, opts ...Option) (*Template, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return CompileCached(string(data), opts...)
}

// ClearCache removes all cached templates.
func ClearCache() {
	cache.Clear()
}
