package repl

import (
	"errors"
	"strconv"
	"strings"

	"github.com/ardnew/dynfmt/format"
)

var alignName = map[format.Alignment]string{
	format.AlignLeft:   "left",
	format.AlignCenter: "center",
	format.AlignRight:  "right",
}

// describeSpec summarizes the layout requested by spec in words.
func describeSpec(spec *format.Spec) string {
	var parts []string

	if fill, align, ok := spec.Fill(); ok {
		parts = append(parts, "align "+alignName[align])
		if fill != ' ' {
			parts = append(parts, "fill "+strconv.QuoteRune(fill))
		}
	}

	switch spec.Sign() {
	case format.SignPlus:
		parts = append(parts, "always signed")
	case format.SignMinus:
		parts = append(parts, "'-' has no effect")
	}

	if width, ok := spec.Width(); ok {
		parts = append(parts, "width "+strconv.Itoa(width))
	}

	if spec.ZeroPad() {
		parts = append(parts, "zero-padded numbers")
	}

	if precision, ok := spec.Precision(); ok {
		parts = append(parts, "precision "+strconv.Itoa(precision)+" ignored")
	}

	if len(parts) == 0 {
		return "default layout"
	}

	return strings.Join(parts, ", ")
}

// specHint describes the spec of the placeholder at c, or the reason it
// does not parse.
func specHint(input string, c cursorContext) string {
	name := input[c.nameStart:c.nameEnd]

	spec, err := format.ParseSpec(input[c.specStart:c.specEnd])
	if err != nil {
		msg := err.Error()

		var ce *format.CompileError
		if errors.As(err, &ce) {
			msg = "expected " + ce.Expected
		}

		return errorStyle.Render(name + ": " + msg)
	}

	return hintNameStyle.Render(name) + hintStyle.Render(": "+describeSpec(spec))
}
