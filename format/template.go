package format

import (
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/dynfmt/log"
)

// Template is a compiled format string. It is immutable and safe for
// concurrent use by multiple goroutines.
type Template struct {
	source string
	tokens []Token
	names  []string
	logger log.Logger
}

// Source returns the string the template was compiled from.
func (t *Template) Source() string { return t.source }

// String implements fmt.Stringer and returns the template source.
func (t *Template) String() string { return t.source }

// Tokens returns a copy of the token sequence in render order.
func (t *Template) Tokens() []Token { return slices.Clone(t.tokens) }

// Names returns the distinct placeholder names in order of first use.
func (t *Template) Names() []string { return slices.Clone(t.names) }

// Render writes the template to w, resolving each placeholder with l.
//
// Rendering stops at the first error. Output written before the error is
// left in w. A name that l does not know yields a [*NotFoundError]; other
// lookup failures wrap [ErrLookup]; failures of w yield a [*WriteError].
func (t *Template) Render(w io.Writer, l Lookup) error {
	var (
		buf     []byte
		written int
	)

	for _, tok := range t.tokens {
		if tok.kind != TokenPlaceholder {
			n, err := io.WriteString(w, tok.rendered())
			written += n

			if err != nil {
				return t.abort(&WriteError{Err: err}, written)
			}

			continue
		}

		v, err := resolve(l, tok.text)
		if err != nil {
			return t.abort(err, written)
		}

		buf = tok.spec.Append(buf[:0], v)

		n, err := w.Write(buf)
		written += n

		if err != nil {
			return t.abort(&WriteError{Name: tok.text, Err: err}, written)
		}
	}

	t.logger.Trace("render complete",
		slog.Int("token_count", len(t.tokens)),
		slog.Int("bytes", written),
	)

	return nil
}

// RenderString renders the template into a new string.
// It returns [ErrInvalidUTF8] if a value produced invalid UTF-8.
func (t *Template) RenderString(l Lookup) (string, error) {
	var sb strings.Builder

	if err := t.Render(&sb, l); err != nil {
		return "", err
	}

	s := sb.String()
	if !utf8.ValidString(s) {
		return "", ErrInvalidUTF8.With(slog.String("template", t.source))
	}

	return s, nil
}

func (t *Template) abort(err error, written int) error {
	t.logger.Trace("render failed",
		slog.Any("error", err),
		slog.Int("bytes", written),
	)

	return err
}

// resolve looks up name in l, normalising the error to the package's
// error types.
func resolve(l Lookup, name string) (Value, error) {
	if l == nil {
		return Value{}, NotFound(name)
	}

	v, err := l.Lookup(name)
	if err == nil {
		return v, nil
	}

	if errors.Is(err, ErrNotFound) {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return Value{}, err
		}

		return Value{}, NotFound(name)
	}

	return Value{}, ErrLookup.Wrap(err).With(slog.String("name", name))
}
