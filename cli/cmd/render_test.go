package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/dynfmt/format"
)

// testContext returns a context whose commands write to the returned buffer
// and read "-" from in.
func testContext(v *Values, in string) (context.Context, *bytes.Buffer) {
	var buf bytes.Buffer

	ctx := WithOutput(context.Background(), &buf)
	ctx = WithInput(ctx, strings.NewReader(in))
	ctx = WithValues(ctx, v)

	return ctx, &buf
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	tmplFile := writeFile(t, dir, "greet.tmpl", "hello {name:>6}")

	tests := []struct {
		name   string
		render Render
		stdin  string
		want   string
	}{
		{
			name:   "inline",
			render: Render{Template: "[{name:^7}]", Newline: true},
			want:   "[ world ]\n",
		},
		{
			name:   "no_newline",
			render: Render{Template: "{name}"},
			want:   "world",
		},
		{
			name:   "file",
			render: Render{File: tmplFile, Newline: true},
			want:   "hello  world\n",
		},
		{
			name:   "stdin",
			render: Render{File: stdinSource},
			stdin:  "{count:+05}",
			want:   "+0003",
		},
		{
			name:   "escapes",
			render: Render{Template: "{{{name}}}"},
			want:   "{world}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Values{Set: map[string]string{"name": "world", "count": "3"}}
			ctx, buf := testContext(v, tt.stdin)

			if err := tt.render.Run(ctx); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRender_Errors(t *testing.T) {
	tests := []struct {
		name   string
		render Render
		want   error
	}{
		{name: "no_template", render: Render{}, want: ErrNoTemplate},
		{name: "both_templates", render: Render{Template: "x", File: "y"}, want: ErrBothTemplate},
		{name: "missing_file", render: Render{File: filepath.Join(t.TempDir(), "none")}, want: ErrReadTemplate},
		{name: "compile_error", render: Render{Template: "{name"}, want: format.ErrCompile},
		{name: "unknown_name", render: Render{Template: "{nmae}"}, want: format.ErrNotFound},
		{name: "watch_nothing", render: Render{Template: "{name}", Watch: true}, want: ErrWatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Values{Set: map[string]string{"name": "world"}}
			ctx, buf := testContext(v, "")

			err := tt.render.Run(ctx)
			if !errors.Is(err, tt.want) {
				t.Errorf("Run() error = %v, want %v", err, tt.want)
			}

			if buf.Len() != 0 {
				t.Errorf("Run() wrote %q on error", buf.String())
			}
		})
	}
}

func TestRender_Suggestions(t *testing.T) {
	v := &Values{Set: map[string]string{
		"username": "u",
		"userid":   "1",
		"host":     "h",
	}}
	ctx, _ := testContext(v, "")

	err := (&Render{Template: "{usrname}"}).Run(ctx)
	if !errors.Is(err, ErrRender) {
		t.Fatalf("Run() error = %v, want %v", err, ErrRender)
	}

	if !strings.Contains(err.Error(), `did you mean "username"`) {
		t.Errorf("Run() error = %q, want a suggestion of username", err)
	}

	var nf *format.NotFoundError
	if !errors.As(err, &nf) || nf.Name != "usrname" {
		t.Errorf("Run() error does not carry the unknown name: %v", err)
	}
}

func TestSuggestions(t *testing.T) {
	names := []string{"alpha", "alphabet", "alpine", "alps", "beta"}

	got := suggestions("alp", names)
	if len(got) != maxSuggestions {
		t.Fatalf("suggestions() = %v, want %d names", got, maxSuggestions)
	}

	if got := suggestions("zzz", names); len(got) != 0 {
		t.Errorf("suggestions(zzz) = %v, want none", got)
	}
}

func TestRender_Watch(t *testing.T) {
	dir := t.TempDir()
	values := writeFile(t, dir, "values.yaml", "name: first\n")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out := &syncBuffer{}
	ctx = WithOutput(ctx, out)
	ctx = WithValues(ctx, &Values{Files: []string{values}})

	done := make(chan error, 1)

	go func() {
		done <- (&Render{Template: "{name}", Newline: true, Watch: true}).Run(ctx)
	}()

	waitFor(t, out, "first\n")
	writeFile(t, dir, "values.yaml", "name: second\n")
	waitFor(t, out, "first\nsecond\n")

	cancel()

	if err := <-done; err != nil {
		t.Errorf("Run() error = %v", err)
	}
}

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

// waitFor polls b until it holds want or the test times out.
func waitFor(t *testing.T, b *syncBuffer, want string) {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)

	for time.Now().Before(deadline) {
		if b.String() == want {
			return
		}

		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("output = %q, want %q", b.String(), want)
}
