package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "edit", "clear", "quit"}

// cursorContext describes where the cursor sits within a template.
type cursorContext struct {
	inPlaceholder bool
	inSpec        bool
	nameStart     int // byte offset of the placeholder name
	nameEnd       int
	specStart     int // byte offset of the spec text after ':'
	specEnd       int // offset of the closing '}' or end of input
}

// onName reports whether cursor is within or adjacent to the placeholder name.
func (c cursorContext) onName(cursor int) bool {
	return c.inPlaceholder && !c.inSpec && cursor >= c.nameStart && cursor <= c.nameEnd
}

// isNameRune reports whether r may appear in a placeholder name while typing.
// It is looser than the compiler so that partial input still completes.
func isNameRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) ||
		unicode.In(r, unicode.Mn, unicode.Mc, unicode.Pc)
}

// contextAt inspects input up to cursor and reports whether the cursor is
// inside an unclosed placeholder, and if so where its name and spec lie.
// A "{{" outside a placeholder is an escape and never opens one.
func contextAt(input string, cursor int) cursorContext {
	cursor = min(max(cursor, 0), len(input))

	open := -1

	for i := 0; i < cursor; i++ {
		switch input[i] {
		case '{':
			if open < 0 && i+1 < len(input) && input[i+1] == '{' {
				i++

				continue
			}

			open = i

		case '}':
			open = -1
		}
	}

	if open < 0 {
		return cursorContext{}
	}

	c := cursorContext{inPlaceholder: true, nameStart: open + 1}

	c.nameEnd = c.nameStart
	for c.nameEnd < len(input) {
		r, size := utf8.DecodeRuneInString(input[c.nameEnd:])
		if !isNameRune(r) {
			break
		}

		c.nameEnd += size
	}

	if cursor <= c.nameEnd {
		return c
	}

	if colon := strings.IndexByte(input[c.nameEnd:cursor], ':'); colon >= 0 {
		c.inSpec = true
		c.specStart = c.nameEnd + colon + 1

		c.specEnd = len(input)
		if end := strings.IndexByte(input[c.specStart:], '}'); end >= 0 {
			c.specEnd = c.specStart + end
		}
	}

	return c
}

// byteOffset converts a rune position within s to a byte offset.
func byteOffset(s string, pos int) int {
	for i := range s {
		if pos <= 0 {
			return i
		}

		pos--
	}

	return len(s)
}

// wordBounds returns the whitespace-delimited word at cursor and its byte
// boundaries within input. It is used for control-mode commands.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 && input[start-1] != ' ' {
		start--
	}

	end = cursor
	for end < len(input) && input[end] != ' ' {
		end++
	}

	return input[start:end], start, end
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, and the word
// boundaries.
//
// In render mode, completions are offered only while the cursor is on a
// placeholder name; an empty name lists every known value name.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := byteOffset(input, m.input.Position())

	var word string

	if m.mode == modeCtrl {
		word, wordStart, wordEnd = wordBounds(input, cursor)
		if word == "" {
			return nil, nil, wordStart, wordEnd
		}

		candidates = ctrlCommands
	} else {
		c := contextAt(input, cursor)
		if !c.onName(cursor) || len(m.names) == 0 {
			return nil, nil, cursor, cursor
		}

		wordStart, wordEnd = c.nameStart, c.nameEnd
		word = input[wordStart:wordEnd]
		candidates = m.names

		if word == "" {
			matches = make(fuzzy.Matches, len(candidates))
			for i, name := range candidates {
				matches[i] = fuzzy.Match{Str: name, Index: i}
			}

			return matches, candidates, wordStart, wordEnd
		}
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. MatchedIndexes are byte offsets into the candidate.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := suggestionStyle.Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = selectedStyle.Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	return b.String()
}
