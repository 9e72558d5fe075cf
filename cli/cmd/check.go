package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/dynfmt/format"
	"github.com/ardnew/dynfmt/log"
)

// Check compiles a template without rendering it and prints its tokens.
type Check struct {
	Template string `arg:"" help:"Template source" name:"template" optional:""`

	File    string `help:"Read the template from a file or '-' for stdin"              placeholder:"FILE" short:"F"`
	Output  string `default:"text"                                                     enum:"text,json,yaml" help:"Output format (${enum})" short:"o"`
	Indent  int    `default:"2"                                                        help:"Indent width for JSON and YAML output" short:"i"`
	Names   bool   `help:"Print only the unique placeholder names, one per line"`
	Resolve bool   `help:"Also fail unless every placeholder name resolves against the values"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	tmpl, err := compileTemplate(ctx, c.Template, c.File)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "compiled template",
		slog.Int("token_count", len(tmpl.Tokens())),
		slog.Int("placeholder_count", len(tmpl.Names())),
	)

	if c.Resolve {
		if err := c.resolve(ctx, tmpl); err != nil {
			return err
		}
	}

	w := outputFrom(ctx)

	if c.Names {
		for _, name := range tmpl.Names() {
			if _, err := fmt.Fprintln(w, name); err != nil {
				return err
			}
		}

		return nil
	}

	switch c.Output {
	case "json":
		return tmpl.FormatJSON(ctx, w, c.Indent)
	case "yaml":
		return tmpl.FormatYAML(ctx, w, c.Indent)
	default:
		return tmpl.FormatText(ctx, w)
	}
}

// resolve looks up every placeholder name and reports all that are unknown.
func (c *Check) resolve(ctx context.Context, tmpl *format.Template) error {
	lookup, err := valuesFrom(ctx).Lookup(ctx)
	if err != nil {
		return err
	}

	var missing []string

	for _, name := range tmpl.Names() {
		_, err := lookup.Lookup(name)
		if errors.Is(err, format.ErrNotFound) {
			missing = append(missing, name)

			continue
		}

		if err != nil {
			return ErrRender.Wrap(err).With(slog.String("name", name))
		}
	}

	if len(missing) > 0 {
		return ErrUnresolved.
			With(slog.Any("names", missing)).
			Wrap(errors.New(strings.Join(missing, ", ")))
	}

	return nil
}
