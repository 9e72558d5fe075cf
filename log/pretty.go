package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by prettyHandler.
// Styles are bound to a renderer for the output writer, so they degrade to
// plain text when the writer is not a terminal.
type palette struct {
	key, text, number, yes, no, other lipgloss.Style
	level                             map[slog.Level]lipgloss.Style
}

func makePalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return palette{
		key:    fg("8"),
		text:   fg("6"),
		number: fg("3"),
		yes:    fg("2"),
		no:     fg("1"),
		other:  fg("5"),
		level: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): fg("4"),
			slog.LevelDebug:        fg("4"),
			slog.LevelInfo:         fg("2"),
			slog.LevelWarn:         fg("3"),
			slog.LevelError:        fg("1").Bold(true),
		},
	}
}

// prettyHandler writes records for a human reader.
// In [FormatText] each record is one line of key=value pairs. In [FormatJSON]
// each record is an indented object with unquoted values.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	format Format
	style  palette
	attrs  []slog.Attr
	group  string
}

func newPrettyHandler(
	w io.Writer,
	format Format,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		mu:     &sync.Mutex{},
		w:      w,
		format: format,
		style:  makePalette(w),
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], h.qualify(attrs)...)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.group = h.prefix(name)

	return &c
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	builtin := []slog.Attr{
		slog.Time(slog.TimeKey, r.Time),
		slog.Any(slog.LevelKey, r.Level),
	}

	if h.opts.AddSource && r.PC != 0 {
		if src := r.Source(); src != nil {
			builtin = append(builtin,
				slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	builtin = append(builtin, slog.String(slog.MessageKey, r.Message))

	for _, a := range builtin {
		if a.Key == slog.TimeKey && r.Time.IsZero() {
			continue
		}

		if h.opts.ReplaceAttr != nil {
			a = h.opts.ReplaceAttr(nil, a)
		}

		if a.Key != "" {
			fields = append(fields, a)
		}
	}

	fields = append(fields, h.attrs...)

	var record []slog.Attr

	r.Attrs(func(a slog.Attr) bool {
		record = append(record, a)

		return true
	})

	fields = append(fields, h.qualify(record)...)

	var buf bytes.Buffer

	if h.format == FormatJSON {
		h.writeObject(&buf, r.Level, fields)
	} else {
		h.writeLine(&buf, r.Level, fields)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) writeLine(buf *bytes.Buffer, level slog.Level, fields []slog.Attr) {
	for i, a := range fields {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.style.key.Render(a.Key))
		buf.WriteByte('=')
		buf.WriteString(h.value(level, a))
	}

	buf.WriteByte('\n')
}

func (h *prettyHandler) writeObject(buf *bytes.Buffer, level slog.Level, fields []slog.Attr) {
	buf.WriteString("{\n")

	for i, a := range fields {
		buf.WriteString("  ")
		buf.WriteString(h.style.key.Render(a.Key))
		buf.WriteString(": ")
		buf.WriteString(h.value(level, a))

		if i < len(fields)-1 {
			buf.WriteByte(',')
		}

		buf.WriteByte('\n')
	}

	buf.WriteString("}\n")
}

func (h *prettyHandler) value(level slog.Level, a slog.Attr) string {
	v := a.Value.Resolve()

	if a.Key == slog.LevelKey {
		if s, ok := h.style.level[level]; ok {
			return s.Render(v.String())
		}
	}

	switch v.Kind() {
	case slog.KindString:
		return h.style.text.Render(v.String())

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return h.style.number.Render(v.String())

	case slog.KindBool:
		if v.Bool() {
			return h.style.yes.Render("true")
		}

		return h.style.no.Render("false")

	case slog.KindGroup:
		parts := make([]string, 0, len(v.Group()))
		for _, g := range v.Group() {
			parts = append(parts, g.Key+"="+g.Value.Resolve().String())
		}

		return h.style.other.Render("{" + strings.Join(parts, " ") + "}")

	default:
		return h.style.other.Render(v.String())
	}
}

// qualify prefixes attribute keys with the open group and drops empty
// attributes.
func (h *prettyHandler) qualify(attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, 0, len(attrs))

	for _, a := range attrs {
		if a.Equal(slog.Attr{}) {
			continue
		}

		a.Key = h.prefix(a.Key)
		out = append(out, a)
	}

	return out
}

func (h *prettyHandler) prefix(key string) string {
	if h.group == "" {
		return key
	}

	return h.group + "." + key
}
