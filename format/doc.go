// Package format compiles format strings at run time and renders them
// against named, typed values.
//
// A template is compiled once with [Compile] and rendered any number of
// times with [Template.Render] or [Template.RenderString], each time
// against a [Lookup] that resolves placeholder names to values.
//
// # Grammar
//
// Informal EBNF:
//
//	Template    → (Escape | Placeholder | Literal)* EOF
//	Escape      → '{{'
//	Placeholder → '{' Identifier ','? (':' Spec)? '}'
//	Spec        → (Fill? Align)? Sign? '0'? Width? ('.' Precision)?
//	Fill        → <any character>
//	Align       → '<' | '^' | '>'
//	Sign        → '+' | '-'
//	Width       → Digit+
//	Precision   → Digit+
//	Literal     → <any characters up to the next '{'>
//
// Identifiers start with a Unicode letter and continue with letters, marks,
// decimal digits and connector punctuation such as '_'. There is no escape
// for '}'; outside a placeholder it is ordinary text.
//
// # Layout
//
// Without a spec a value is written in its default representation (see
// [Value.String]). With a spec:
//
//   - '+' writes a plus sign before non-negative numbers. NaN and
//     infinities never receive a forced sign.
//   - Width is the minimum number of characters. Values at least as wide
//     as the field are written as they are, never truncated.
//   - '0' makes the layout number-aware for numeric values: the sign comes
//     first and zeros pad the gap between sign and digits. Any fill and
//     alignment are ignored.
//   - Otherwise the gap is filled with the fill character (a space by
//     default) on the right ('<', the default), on the left ('>') or on
//     both sides ('^', with the extra character on the right).
//   - Precision is parsed and reported by [Spec.Precision] but does not
//     change the output.
//
// # Example
//
//	t := format.MustCompile("{name:>8}: {score:+06}")
//	s, err := t.RenderString(format.Map{
//		"name":  format.String("ferris"),
//		"score": format.Int(-42),
//	})
//	// s == "  ferris: -00042"
//
// # Ownership
//
// Token text is a substring of the template source and shares its memory,
// so the source stays reachable for as long as the template or any of its
// tokens is. Templates are immutable and may be rendered concurrently.
package format
