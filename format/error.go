package format

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrCompile          = NewError("compile template")
	ErrNotFound         = NewError("name not found")
	ErrWrite            = NewError("write output")
	ErrLookup           = NewError("lookup failed")
	ErrInvalidUTF8      = NewError("rendered output is not valid UTF-8")
	ErrUnsupportedValue = NewError("unsupported value type")
	ErrExprCompile      = NewError("compile expression")
	ErrExprEvaluate     = NewError("evaluate expression")
	ErrReadInput        = NewError("read template input")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
// Errors created with [Error.Wrap] or [Error.With] share the message of
// their sentinel and therefore match it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.err != nil || len(t.attrs) > 0 {
		return false
	}

	return t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// Position identifies a location in a template source.
type Position struct {
	Offset int // byte offset, starting at 0
	Line   int // line number, starting at 1
	Column int // column in runes, starting at 1
}

// String returns the position as "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// CompileError reports malformed template syntax.
type CompileError struct {
	Source   string   // The template source
	Pos      Position // Where parsing failed
	Expected string   // Description of the expected construct
	Found    string   // The offending input, empty at end of input
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	var buf strings.Builder

	buf.WriteString(ErrCompile.msg)
	buf.WriteString(": at ")
	buf.WriteString(e.Pos.String())
	buf.WriteString(": expected ")
	buf.WriteString(e.Expected)

	if e.Found == "" {
		buf.WriteString(", found end of input")
	} else {
		buf.WriteString(", found ")
		buf.WriteString(strconv.Quote(e.Found))
	}

	return buf.String()
}

// Is matches [ErrCompile].
func (e *CompileError) Is(target error) bool { return target == ErrCompile }

// Snippet returns the offending source line followed by a line with a caret
// pointing at the error column.
func (e *CompileError) Snippet() string {
	lines := strings.Split(e.Source, "\n")
	if e.Pos.Line < 1 || e.Pos.Line > len(lines) {
		return ""
	}

	var src strings.Builder

	line := lines[e.Pos.Line-1]

	// Print the line with line number
	src.WriteString("  ")
	src.WriteString(strconv.Itoa(e.Pos.Line))
	src.WriteString(" | ")
	src.WriteString(line)
	src.WriteRune('\n')

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	lineNumWidth := len(strconv.Itoa(e.Pos.Line))
	padding := strings.Repeat(" ", lineNumWidth+5)

	if e.Pos.Column > 0 {
		padding += strings.Repeat(" ", e.Pos.Column-1)
	}

	src.WriteString(padding + "^\n")

	return src.String()
}

// LogValue implements slog.LogValuer.
func (e *CompileError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrCompile.msg),
		slog.Int("offset", e.Pos.Offset),
		slog.Int("line", e.Pos.Line),
		slog.Int("column", e.Pos.Column),
		slog.String("expected", e.Expected),
		slog.String("found", e.Found),
	)
}

// NotFoundError reports a placeholder name that a [Lookup] could not resolve.
type NotFoundError struct {
	Name string
}

// NotFound returns the error a [Lookup] reports for an unknown name.
func NotFound(name string) error {
	return &NotFoundError{Name: name}
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return ErrNotFound.msg + ": " + strconv.Quote(e.Name)
}

// Is matches [ErrNotFound].
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// LogValue implements slog.LogValuer.
func (e *NotFoundError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrNotFound.msg),
		slog.String("name", e.Name),
	)
}

// WriteError reports a failure of the output sink. Name is the placeholder
// being written, or empty when writing literal text.
type WriteError struct {
	Name string
	Err  error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	if e.Name == "" {
		return ErrWrite.msg + ": literal: " + e.Err.Error()
	}

	return ErrWrite.msg + ": " + strconv.Quote(e.Name) + ": " + e.Err.Error()
}

// Unwrap returns the sink error.
func (e *WriteError) Unwrap() error { return e.Err }

// Is matches [ErrWrite].
func (e *WriteError) Is(target error) bool { return target == ErrWrite }

// LogValue implements slog.LogValuer.
func (e *WriteError) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("error", ErrWrite.msg)}
	if e.Name != "" {
		attrs = append(attrs, slog.String("name", e.Name))
	}

	return slog.GroupValue(append(attrs, slog.String("cause", e.Err.Error()))...)
}
