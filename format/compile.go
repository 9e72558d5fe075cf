package format

import (
	"log/slog"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Compile parses source into a [Template].
//
// The template is a sequence of literal text, "{{" escapes and placeholders
// of the form {name[,][:spec]}. The returned error is a [*CompileError]
// describing the first syntax error; no partial template is returned.
func Compile(source string, opts ...Option) (*Template, error) {
	t := &Template{source: source}

	for _, opt := range opts {
		opt(t)
	}

	p := newParser(source)

	tokens, err := p.parseTemplate()
	if err != nil {
		t.logger.Trace("compile failed", slog.Any("error", err))

		return nil, err
	}

	t.tokens = tokens
	t.names = uniqueNames(tokens)

	t.logger.Trace("compile complete",
		slog.Int("token_count", len(t.tokens)),
		slog.Int("placeholder_count", len(t.names)),
		slog.Int("source_bytes", len(source)),
	)

	return t, nil
}

// MustCompile is like [Compile] but panics if source cannot be compiled.
func MustCompile(source string, opts ...Option) *Template {
	t, err := Compile(source, opts...)
	if err != nil {
		panic(err)
	}

	return t
}

// ParseSpec parses the text following the colon of a placeholder.
func ParseSpec(s string) (*Spec, error) {
	p := newParser(s)

	spec, err := p.parseSpec()
	if err != nil {
		return nil, err
	}

	if !p.eof() {
		return nil, p.fail("end of format spec")
	}

	return spec, nil
}

func uniqueNames(tokens []Token) []string {
	var names []string

	seen := make(map[string]struct{})

	for _, tok := range tokens {
		if tok.kind != TokenPlaceholder {
			continue
		}

		if _, ok := seen[tok.text]; ok {
			continue
		}

		seen[tok.text] = struct{}{}
		names = append(names, tok.text)
	}

	return names
}

// parser holds the parser state.
type parser struct {
	input string
	pos   int
	line  int
	col   int
}

func newParser(input string) *parser {
	return &parser{input: input, line: 1, col: 1}
}

// parseTemplate parses the entire input as a token sequence.
func (p *parser) parseTemplate() ([]Token, error) {
	tokens := make([]Token, 0)

	for !p.eof() {
		pos := p.position()

		switch {
		case p.peekN(len(escape)) == escape:
			p.advance()
			p.advance()

			tokens = append(tokens, Token{
				kind: TokenEscape,
				text: p.input[pos.Offset:p.pos],
				pos:  pos,
			})

		case p.peek() == '{':
			tok, err := p.parsePlaceholder()
			if err != nil {
				return nil, err
			}

			tokens = append(tokens, tok)

		default:
			for !p.eof() && p.peek() != '{' {
				p.advance()
			}

			tokens = append(tokens, Token{
				kind: TokenLiteral,
				text: p.input[pos.Offset:p.pos],
				pos:  pos,
			})
		}
	}

	return tokens, nil
}

// parsePlaceholder parses: '{' Identifier [','] [':' Spec] '}'.
func (p *parser) parsePlaceholder() (Token, error) {
	pos := p.position()

	p.advance() // skip '{'

	name, err := p.parseIdentifier()
	if err != nil {
		return Token{}, err
	}

	p.expect(',')

	var spec *Spec

	if p.expect(':') {
		spec, err = p.parseSpec()
		if err != nil {
			return Token{}, err
		}
	}

	if !p.expect('}') {
		if spec == nil {
			return Token{}, p.fail("':' or '}'")
		}

		return Token{}, p.fail("'}'")
	}

	return Token{
		kind: TokenPlaceholder,
		text: name,
		spec: spec,
		pos:  pos,
	}, nil
}

// parseIdentifier parses an identifier and returns it as a substring of the
// input.
func (p *parser) parseIdentifier() (string, error) {
	start := p.pos

	if p.eof() || !isIdentifierStart(p.peek()) {
		return "", p.fail("identifier")
	}

	p.advance()

	for !p.eof() && isIdentifierContinue(p.peek()) {
		p.advance()
	}

	return p.input[start:p.pos], nil
}

// parseSpec parses: [[fill] align] [sign] ['0'] [width] ['.' precision].
func (p *parser) parseSpec() (*Spec, error) {
	spec := new(Spec)

	if fill, size := p.peekRune(); size > 0 {
		next, _ := utf8.DecodeRuneInString(p.input[p.pos+size:])

		if align, ok := alignment(next); ok {
			spec.fill, spec.hasFill = fill, true
			spec.align, spec.hasAlign = align, true

			p.advance()
			p.advance()
		} else if align, ok := alignment(fill); ok {
			spec.align, spec.hasAlign = align, true

			p.advance()
		}
	}

	switch p.peek() {
	case '+':
		spec.sign = SignPlus

		p.advance()

	case '-':
		spec.sign = SignMinus

		p.advance()
	}

	spec.zeroPad = p.expect('0')

	if isDigit(p.peek()) {
		width, err := p.parseUint("width")
		if err != nil {
			return nil, err
		}

		spec.width, spec.hasWidth = width, true
	}

	if p.expect('.') {
		if !isDigit(p.peek()) {
			return nil, p.fail("precision")
		}

		precision, err := p.parseUint("precision")
		if err != nil {
			return nil, err
		}

		spec.precision, spec.hasPrecision = precision, true
	}

	return spec, nil
}

// parseUint parses a run of decimal digits that must fit in 32 bits.
func (p *parser) parseUint(what string) (int, error) {
	pos := p.position()

	for !p.eof() && isDigit(p.peek()) {
		p.advance()
	}

	digits := p.input[pos.Offset:p.pos]

	n, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, p.failAt(pos, what+" in 32-bit range", digits)
	}

	return int(n), nil
}

func (p *parser) peek() rune {
	r, _ := p.peekRune()

	return r
}

func (p *parser) peekRune() (rune, int) {
	if p.eof() {
		return 0, 0
	}

	return utf8.DecodeRuneInString(p.input[p.pos:])
}

func (p *parser) peekN(n int) string {
	if p.pos+n > len(p.input) {
		return p.input[p.pos:]
	}

	return p.input[p.pos : p.pos+n]
}

func (p *parser) advance() {
	if p.eof() {
		return
	}

	r, size := utf8.DecodeRuneInString(p.input[p.pos:])

	p.pos += size
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
}

func (p *parser) expect(ch rune) bool {
	if !p.eof() && p.peek() == ch {
		p.advance()

		return true
	}

	return false
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) position() Position {
	return Position{
		Offset: p.pos,
		Line:   p.line,
		Column: p.col,
	}
}

// fail reports that expected was not found at the current position.
func (p *parser) fail(expected string) *CompileError {
	r, size := p.peekRune()
	if size == 0 {
		return p.failAt(p.position(), expected, "")
	}

	if r == utf8.RuneError && size == 1 {
		return p.failAt(p.position(), expected, p.input[p.pos:p.pos+1])
	}

	return p.failAt(p.position(), expected, string(r))
}

func (p *parser) failAt(pos Position, expected, found string) *CompileError {
	return &CompileError{
		Source:   p.input,
		Pos:      pos,
		Expected: expected,
		Found:    found,
	}
}

// Character classification

func alignment(r rune) (Alignment, bool) {
	switch r {
	case '<':
		return AlignLeft, true
	case '^':
		return AlignCenter, true
	case '>':
		return AlignRight, true
	default:
		return 0, false
	}
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isIdentifierStart(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
	)
}

func isIdentifierContinue(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
		unicode.Mn, // Mark, Nonspacing
		unicode.Mc, // Mark, Spacing Combining
		unicode.Nd, // Number, Decimal Digit
		unicode.Pc, // Punctuation, Connector
		unicode.Other_ID_Continue,
	)
}
