package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/dynfmt/format"
	"github.com/ardnew/dynfmt/log"
)

// maxSuggestions bounds the names offered for an unknown placeholder.
const maxSuggestions = 3

// compileTemplate compiles the template given inline or, when file is set,
// read from file ("-" for the command input).
func compileTemplate(ctx context.Context, inline, file string) (*format.Template, error) {
	opts := []format.Option{format.WithLogger(log.Default())}

	switch {
	case inline != "" && file != "":
		return nil, ErrBothTemplate

	case file == stdinSource:
		tmpl, err := format.CompileReader(inputFrom(ctx), opts...)
		if err != nil {
			return nil, ErrReadTemplate.Wrap(err).With(slog.String("file", file))
		}

		return tmpl, nil

	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return nil, ErrReadTemplate.Wrap(err).With(slog.String("file", file))
		}
		defer f.Close()

		tmpl, err := format.CompileReader(f, opts...)
		if err != nil {
			return nil, ErrReadTemplate.Wrap(err).With(slog.String("file", file))
		}

		return tmpl, nil

	case inline != "":
		return format.CompileCached(inline, opts...)

	default:
		return nil, ErrNoTemplate
	}
}

// suggestions returns up to [maxSuggestions] names resembling name, best
// first.
func suggestions(name string, names []string) []string {
	var out []string

	for _, match := range fuzzy.Find(name, names) {
		if len(out) == maxSuggestions {
			break
		}

		out = append(out, match.Str)
	}

	return out
}

// explain attaches name suggestions to a render error caused by an unknown
// placeholder name.
func explain(err error, lookup format.Lookup) error {
	var nf *format.NotFoundError
	if !errors.As(err, &nf) {
		return ErrRender.Wrap(err)
	}

	hints := suggestions(nf.Name, format.Names(lookup))
	if len(hints) == 0 {
		return ErrRender.Wrap(err).With(slog.String("name", nf.Name))
	}

	quoted := make([]string, len(hints))
	for i, h := range hints {
		quoted[i] = strconv.Quote(h)
	}

	return ErrRender.
		With(slog.String("name", nf.Name), slog.Any("suggestions", hints)).
		Wrap(fmt.Errorf("%w (did you mean %s?)", err, strings.Join(quoted, " or ")))
}
