package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/ardnew/dynfmt/format"
	"github.com/ardnew/dynfmt/log"
)

// keySeparator joins the keys of nested mappings in values files.
const keySeparator = "_"

// Values selects the sources of the named values that templates render.
//
// Static sources merge into one set of names, later sources replacing
// earlier ones: the process environment, dotenv files, values files in the
// order given, then --set. Expressions shadow every static value.
type Values struct {
	Files  []string          `help:"YAML or JSON values file(s), glob pattern(s), or '-' for stdin" name:"values" placeholder:"FILE"       sep:"none"    short:"f"`
	Dotenv []string          `help:"Dotenv file(s) of string values"                                 name:"dotenv" placeholder:"FILE"       sep:"none"    type:"existingfile"`
	Set    map[string]string `help:"Set a value (bool, integer, float, else string)"                 name:"set"    placeholder:"NAME=VALUE" mapsep:"none" short:"s"`
	Expr   map[string]string `help:"Define a value computed by an expression"                        name:"expr"   placeholder:"NAME=EXPR"  mapsep:"none" short:"e"`
	Env    bool              `help:"Include the process environment"                                 name:"env"`
}

// paths lists the files whose contents feed the static values, for
// watching. Stdin is excluded.
func (v *Values) paths() ([]string, error) {
	files, err := expandGlobs(v.Files)
	if err != nil {
		return nil, err
	}

	var out []string

	for _, p := range slices.Concat(v.Dotenv, files) {
		if p != stdinSource {
			out = append(out, p)
		}
	}

	return out, nil
}

// Lookup reads every configured source and returns the combined lookup.
func (v *Values) Lookup(ctx context.Context) (format.Lookup, error) {
	static := format.Map{}
	env := map[string]any{}

	if v.Env {
		maps.Copy(static, format.Environ(os.Environ()))
	}

	for _, path := range v.Dotenv {
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, ErrReadValues.Wrap(err).With(slog.String("file", path))
		}

		for name, s := range values {
			static[name] = format.String(s)
		}
	}

	files, err := expandGlobs(v.Files)
	if err != nil {
		return nil, err
	}

	srcs, err := openSources(files, inputFrom(ctx))
	if err != nil {
		return nil, err
	}
	defer closeSources(srcs)

	for _, src := range srcs {
		doc, err := decodeValues(ctx, src)
		if err != nil {
			return nil, ErrReadValues.Wrap(err).With(slog.String("file", src.name))
		}

		// Expressions see documents in their native shape as well as under
		// the flattened names.
		maps.Copy(env, doc)

		if err := flatten(static, "", doc); err != nil {
			return nil, ErrReadValues.Wrap(err).With(slog.String("file", src.name))
		}
	}

	for name, text := range v.Set {
		value, err := parseLiteral(text)
		if err != nil {
			return nil, ErrParseValue.Wrap(err).With(slog.String("name", name))
		}

		static[name] = value
	}

	for name, value := range static {
		env[name] = value.Any()
	}

	log.DebugContext(ctx, "values loaded",
		slog.Int("static_count", len(static)),
		slog.Int("expr_count", len(v.Expr)),
		slog.Int("file_count", len(srcs)),
	)

	if len(v.Expr) == 0 {
		return static, nil
	}

	exprs, err := format.CompileExprs(v.Expr, env)
	if err != nil {
		return nil, err
	}

	return format.Chain{exprs, static}, nil
}

// decodeValues decodes one YAML or JSON document of values. An empty input
// decodes to no values.
func decodeValues(ctx context.Context, r io.Reader) (map[string]any, error) {
	var doc map[string]any

	err := yaml.NewDecoder(r).DecodeContext(ctx, &doc)
	if errors.Is(err, io.EOF) {
		return map[string]any{}, nil
	}

	if err != nil {
		return nil, err
	}

	if doc == nil {
		doc = map[string]any{}
	}

	return doc, nil
}

// flatten stores every leaf of doc in dst. Nested mapping keys are joined
// with [keySeparator] so that they remain valid placeholder names.
func flatten(dst format.Map, prefix string, doc map[string]any) error {
	for key, raw := range doc {
		name := key
		if prefix != "" {
			name = prefix + keySeparator + key
		}

		switch child := raw.(type) {
		case map[string]any:
			if err := flatten(dst, name, child); err != nil {
				return err
			}

			continue

		case map[any]any:
			nested := make(map[string]any, len(child))
			for k, v := range child {
				nested[format.Display(k).String()] = v
			}

			if err := flatten(dst, name, nested); err != nil {
				return err
			}

			continue

		case nil:
			// A null leaf defines nothing.
			delete(dst, name)

			continue
		}

		value, err := format.ValueOf(raw)
		if err != nil {
			return ErrParseValue.Wrap(err).With(slog.String("name", name))
		}

		dst[name] = value
	}

	return nil
}

// parseLiteral types the text of a --set value. Integers become Int64 (or
// Uint64 beyond its range), decimal floats become Float64, true and false
// become Bool, and anything else a String. A double-quoted value is always
// a String.
func parseLiteral(text string) (format.Value, error) {
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		s, err := strconv.Unquote(text)
		if err != nil {
			return format.Value{}, err
		}

		return format.String(s), nil
	}

	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return format.Int64(i), nil
	}

	if u, err := strconv.ParseUint(text, 10, 64); err == nil {
		return format.Uint64(u), nil
	}

	// ParseFloat also accepts words like "inf" and "nan", which stay strings.
	if strings.ContainsAny(text, "0123456789") {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return format.Float64(f), nil
		}
	}

	switch text {
	case "true":
		return format.Bool(true), nil
	case "false":
		return format.Bool(false), nil
	}

	return format.String(text), nil
}

// expandGlobs replaces each pattern containing glob metacharacters with the
// files it matches, sorted. "**" matches across directories. A pattern that
// matches nothing is an error; plain paths are kept as they are.
func expandGlobs(patterns []string) ([]string, error) {
	var out []string

	for _, pattern := range patterns {
		if pattern == stdinSource || !strings.ContainsAny(pattern, "*?[{") {
			out = append(out, pattern)

			continue
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, ErrReadValues.Wrap(err).With(slog.String("pattern", pattern))
		}

		if len(matches) == 0 {
			return nil, ErrReadValues.
				With(slog.String("pattern", pattern)).
				Wrap(errors.New("no files match " + strconv.Quote(pattern)))
		}

		slices.Sort(matches)
		out = append(out, matches...)
	}

	return out, nil
}
