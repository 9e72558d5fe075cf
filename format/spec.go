package format

//go:generate go tool stringer -type=Alignment -linecomment -output=alignment_string.go

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Alignment positions a value within its field.
type Alignment int

const (
	AlignLeft   Alignment = iota // <
	AlignCenter                  // ^
	AlignRight                   // >
)

// Sign selects how the sign of a numeric value is written.
type Sign int

const (
	// SignNone writes only the minus sign of negative values.
	SignNone Sign = iota

	// SignPlus also writes a plus sign before non-negative values.
	SignPlus

	// SignMinus is accepted for compatibility and behaves like SignNone.
	SignMinus
)

// String returns the flag character, or the empty string for SignNone.
func (s Sign) String() string {
	switch s {
	case SignPlus:
		return "+"
	case SignMinus:
		return "-"
	default:
		return ""
	}
}

const (
	defaultFill = ' '
	zeroFill    = '0'
)

// Spec is the layout of a single placeholder: fill, alignment, sign, zero
// padding, width and precision. A Spec is immutable once parsed.
type Spec struct {
	fill      rune
	align     Alignment
	sign      Sign
	width     int
	precision int

	hasFill      bool
	hasAlign     bool
	zeroPad      bool
	hasWidth     bool
	hasPrecision bool
}

// Fill returns the fill character and alignment. The fill character
// defaults to a space. The result is false if the spec has no alignment, in
// which case values are left-aligned.
func (s *Spec) Fill() (rune, Alignment, bool) {
	if !s.hasFill {
		return defaultFill, s.align, s.hasAlign
	}

	return s.fill, s.align, s.hasAlign
}

// Sign returns the sign flag.
func (s *Spec) Sign() Sign { return s.sign }

// ZeroPad reports whether the zero flag makes the layout number-aware.
func (s *Spec) ZeroPad() bool { return s.zeroPad }

// Width returns the minimum field width in characters.
func (s *Spec) Width() (int, bool) { return s.width, s.hasWidth }

// Precision returns the precision. It is parsed and retained but does not
// affect rendering.
func (s *Spec) Precision() (int, bool) { return s.precision, s.hasPrecision }

// String returns the spec as it would appear after the colon of a
// placeholder.
func (s *Spec) String() string {
	var sb strings.Builder

	if s.hasAlign {
		if s.hasFill {
			sb.WriteRune(s.fill)
		}

		sb.WriteString(s.align.String())
	}

	sb.WriteString(s.sign.String())

	if s.zeroPad {
		sb.WriteByte('0')
	}

	if s.hasWidth {
		sb.WriteString(strconv.Itoa(s.width))
	}

	if s.hasPrecision {
		sb.WriteByte('.')
		sb.WriteString(strconv.Itoa(s.precision))
	}

	return sb.String()
}

// Append appends v to dst laid out according to s and returns the extended
// buffer. A nil Spec appends the default representation of v.
//
// Widths are measured in runes. A value whose signed representation is at
// least as wide as the field is written unpadded and never truncated.
func (s *Spec) Append(dst []byte, v Value) []byte {
	repr := v.String()
	if s == nil {
		return append(dst, repr...)
	}

	sign := ""

	if s.sign == SignPlus {
		if n, ok := v.sign(); ok && n >= 0 {
			sign = "+"
		}
	}

	numeric := s.zeroPad && v.IsNumeric()

	// Number-aware layout places the sign before the zero padding, so the
	// minus embedded in the representation moves into the sign column.
	if numeric && strings.HasPrefix(repr, "-") {
		sign, repr = "-", repr[1:]
	}

	size := len(sign) + utf8.RuneCountInString(repr)

	if !s.hasWidth || size >= s.width {
		dst = append(dst, sign...)

		return append(dst, repr...)
	}

	pad := s.width - size

	if numeric {
		dst = append(dst, sign...)
		dst = appendFill(dst, zeroFill, pad)

		return append(dst, repr...)
	}

	fill, align, _ := s.Fill()

	var left, right int

	switch align {
	case AlignRight:
		left = pad
	case AlignCenter:
		left = pad / 2
		right = pad - left
	default:
		right = pad
	}

	dst = appendFill(dst, fill, left)
	dst = append(dst, sign...)
	dst = append(dst, repr...)

	return appendFill(dst, fill, right)
}

func appendFill(dst []byte, fill rune, n int) []byte {
	for range n {
		dst = utf8.AppendRune(dst, fill)
	}

	return dst
}
