package format

import "strings"

// TokenKind classifies a [Token].
type TokenKind int

const (
	// TokenLiteral is a run of text written verbatim.
	TokenLiteral TokenKind = iota

	// TokenEscape is the two-character sequence "{{", written as "{".
	TokenEscape

	// TokenPlaceholder is a named value with an optional [Spec].
	TokenPlaceholder
)

// String returns a lower-case name of the kind.
func (k TokenKind) String() string {
	switch k {
	case TokenLiteral:
		return "literal"
	case TokenEscape:
		return "escape"
	case TokenPlaceholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

const escape = "{{"

// Token is one element of a compiled [Template].
//
// Literal and name text are substrings of the template source and share
// its memory.
type Token struct {
	text string
	spec *Spec
	pos  Position
	kind TokenKind
}

// Kind returns the token kind.
func (t Token) Kind() TokenKind { return t.kind }

// Text returns the literal text, the escape sequence, or the placeholder
// name, exactly as written in the source.
func (t Token) Text() string { return t.text }

// Name returns the placeholder name, or the empty string for other kinds.
func (t Token) Name() string {
	if t.kind != TokenPlaceholder {
		return ""
	}

	return t.text
}

// Spec returns the layout of a placeholder, or nil if none was written.
func (t Token) Spec() *Spec { return t.spec }

// Pos returns the position of the token in the source.
func (t Token) Pos() Position { return t.pos }

// String returns the source form of the token.
func (t Token) String() string {
	if t.kind != TokenPlaceholder {
		return t.text
	}

	var sb strings.Builder

	sb.WriteByte('{')
	sb.WriteString(t.text)

	if t.spec != nil {
		sb.WriteByte(':')
		sb.WriteString(t.spec.String())
	}

	sb.WriteByte('}')

	return sb.String()
}

// rendered returns the bytes a non-placeholder token writes.
func (t Token) rendered() string {
	if t.kind == TokenEscape {
		return "{"
	}

	return t.text
}
