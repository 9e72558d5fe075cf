package format

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ardnew/dynfmt/log"
)

func TestCompileCached_SharesTemplate(t *testing.T) {
	ClearCache()
	defer ClearCache()

	a, err := CompileCached("{x:>4}")
	if err != nil {
		t.Fatalf("CompileCached error: %v", err)
	}

	b, err := CompileCached("{x:>4}")
	if err != nil {
		t.Fatalf("CompileCached error: %v", err)
	}

	if a != b {
		t.Error("expected the same *Template for identical sources")
	}

	c, _ := CompileCached("{y}")
	if c == a {
		t.Error("expected distinct templates for distinct sources")
	}
}

func TestCompileCached_CachesErrors(t *testing.T) {
	ClearCache()
	defer ClearCache()

	for range 2 {
		_, err := CompileCached("{")
		if !errors.Is(err, ErrCompile) {
			t.Errorf("error = %v, want ErrCompile", err)
		}
	}
}

func TestCompileCached_WithOptions(t *testing.T) {
	ClearCache()
	defer ClearCache()

	var buf bytes.Buffer

	logger := log.Make(&buf,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false))

	base := mustCompileCached(t, "{v}")

	tmpl, err := CompileCached("{v}", WithLogger(logger))
	if err != nil {
		t.Fatalf("CompileCached error: %v", err)
	}

	if tmpl == base {
		t.Error("expected a copy when options are given")
	}

	if _, err := tmpl.RenderString(Map{"v": Int(1)}); err != nil {
		t.Fatalf("render error: %v", err)
	}

	if !bytes.Contains(buf.Bytes(), []byte("render complete")) {
		t.Errorf("expected trace output, got %q", buf.String())
	}
}

func TestCompileCached_Concurrent(t *testing.T) {
	ClearCache()
	defer ClearCache()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		seen  = make(map[*Template]struct{})
		fails int
	)

	for range 32 {
		wg.Go(func() {
			tmpl, err := CompileCached("{a}-{b:03}")

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				fails++

				return
			}

			seen[tmpl] = struct{}{}
		})
	}

	wg.Wait()

	if fails != 0 || len(seen) != 1 {
		t.Errorf("fails = %d, distinct templates = %d", fails, len(seen))
	}
}

func mustCompileCached(t *testing.T, source string) *Template {
	t.Helper()

	tmpl, err := CompileCached(source)
	if err != nil {
		t.Fatalf("CompileCached(%q) error: %v", source, err)
	}

	return tmpl
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestCompileReader(t *testing.T) {
	ClearCache()
	defer ClearCache()

	tmpl, err := CompileReader(strings.NewReader("{a}-{b:>3}"))
	if err != nil {
		t.Fatalf("CompileReader error: %v", err)
	}

	same, _ := CompileCached("{a}-{b:>3}")
	if tmpl != same {
		t.Error("CompileReader did not share the cached template")
	}

	if _, err := CompileReader(failingReader{}); !errors.Is(err, ErrReadInput) {
		t.Errorf("error = %v, want ErrReadInput", err)
	}
}
