package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"
)

func TestResolve(t *testing.T) {
	src := `
log-level: debug
log_pretty: false
count: 3
ratio: 0.5
values:
  - a.yaml
  - 7
set:
  region: us-east-1
  port: 8080
`

	r, err := resolve(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		flag string
		want any
	}{
		{flag: "log-level", want: "debug"},
		{flag: "log-pretty", want: false},
		{flag: "count", want: "3"},
		{flag: "ratio", want: "0.5"},
		{flag: "values", want: []any{"a.yaml", "7"}},
		{flag: "set", want: map[string]any{"region": "us-east-1", "port": "8080"}},
		{flag: "missing", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			got, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: tt.flag}})
			if err != nil {
				t.Fatal(err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Resolve(%q) mismatch (-want +got):\n%s", tt.flag, diff)
			}
		})
	}
}

func TestResolve_Ignored(t *testing.T) {
	for _, src := range []string{"", "- not\n- a mapping\n", "key: [unterminated"} {
		r, err := resolve(strings.NewReader(src))
		if err != nil {
			t.Fatalf("resolve(%q) error = %v", src, err)
		}

		if got := len(r.(config)); got != 0 {
			t.Errorf("resolve(%q) = %d entries, want 0", src, got)
		}
	}
}

func TestResolve_Parse(t *testing.T) {
	var cli struct {
		Name  string            `default:"none"`
		Count int               `default:"1"`
		Debug bool              `name:"debug-mode"`
		Files []string          `name:"values"`
		Set   map[string]string `name:"set"`
	}

	src := "name: yaml\ncount: 5\ndebug_mode: true\nvalues: [a, b]\nset:\n  k: v\n"

	r, err := resolve(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	parser, err := kong.New(&cli, kong.Resolvers(r))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--count=9"}); err != nil {
		t.Fatal(err)
	}

	if cli.Name != "yaml" || cli.Count != 9 || !cli.Debug {
		t.Errorf("parsed name=%q count=%d debug=%v", cli.Name, cli.Count, cli.Debug)
	}

	if diff := cmp.Diff([]string{"a", "b"}, cli.Files); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(map[string]string{"k": "v"}, cli.Set); diff != "" {
		t.Errorf("set mismatch (-want +got):\n%s", diff)
	}
}
