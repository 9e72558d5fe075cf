package format

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// MarshalText implements encoding.TextMarshaler and returns the template
// source.
func (t *Template) MarshalText() ([]byte, error) {
	return []byte(t.source), nil
}

// UnmarshalText implements encoding.TextUnmarshaler by compiling text.
// Options of the receiver, such as its logger, are kept.
func (t *Template) UnmarshalText(text []byte) error {
	compiled, err := Compile(string(text), WithLogger(t.logger))
	if err != nil {
		return err
	}

	*t = *compiled

	return nil
}

// MarshalYAML implements yaml.InterfaceMarshaler.
func (t *Template) MarshalYAML() (any, error) {
	return t.source, nil
}

// UnmarshalYAML implements yaml.InterfaceUnmarshaler. The node must be a
// string that compiles.
func (t *Template) UnmarshalYAML(unmarshal func(any) error) error {
	var source string
	if err := unmarshal(&source); err != nil {
		return err
	}

	return t.UnmarshalText([]byte(source))
}

// ToNative converts the token sequence to native Go values: one map per
// token with its kind, source text and position, plus the layout of
// placeholders that have one.
func (t *Template) ToNative() []any {
	result := make([]any, len(t.tokens))

	for i, tok := range t.tokens {
		m := map[string]any{
			"kind":   tok.kind.String(),
			"text":   tok.text,
			"offset": tok.pos.Offset,
			"line":   tok.pos.Line,
			"column": tok.pos.Column,
		}

		if tok.spec != nil {
			m["spec"] = tok.spec.ToNative()
		}

		result[i] = m
	}

	return result
}

// ToNative converts the spec to a map holding only the fields written in
// the source.
func (s *Spec) ToNative() map[string]any {
	m := make(map[string]any)

	if fill, align, ok := s.Fill(); ok {
		m["fill"] = string(fill)
		m["align"] = align.String()
	}

	if s.sign != SignNone {
		m["sign"] = s.sign.String()
	}

	if s.zeroPad {
		m["zero"] = true
	}

	if width, ok := s.Width(); ok {
		m["width"] = width
	}

	if precision, ok := s.Precision(); ok {
		m["precision"] = precision
	}

	return m
}

// FormatText writes one line per token: position, kind and source form.
func (t *Template) FormatText(_ context.Context, w io.Writer) error {
	for _, tok := range t.tokens {
		_, err := fmt.Fprintf(w, "%s\t%s\t%q\n", tok.pos, tok.kind, tok.String())
		if err != nil {
			return err
		}
	}

	return nil
}

// FormatJSON writes the token sequence as JSON to the writer.
func (t *Template) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(t.ToNative(), "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(t.ToNative())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the token sequence as YAML to the writer.
func (t *Template) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, t.ToNative(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}
