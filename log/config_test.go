package log

import (
	"slices"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"trace", LevelTrace},
		{" TRACE ", LevelTrace},
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"info+2", Level(2)},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"json", FormatJSON},
		{" Text ", FormatText},
		{"xml", DefaultFormat},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.input); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLevels(t *testing.T) {
	want := []string{"trace", "debug", "info", "warn", "error"}
	if got := slices.Collect(Levels()); !slices.Equal(got, want) {
		t.Errorf("Levels() = %v, want %v", got, want)
	}

	if got := Level(3).String(); got != "Level(3)" {
		t.Errorf("Level(3).String() = %q", got)
	}
}

func TestFormats(t *testing.T) {
	want := []string{"json", "text"}
	if got := slices.Collect(Formats()); !slices.Equal(got, want) {
		t.Errorf("Formats() = %v, want %v", got, want)
	}

	if got := Format(9).String(); got != "Format(9)" {
		t.Errorf("Format(9).String() = %q", got)
	}
}

func TestMakeFormatTimeFunc(t *testing.T) {
	now := time.Date(2023, 10, 15, 14, 30, 45, 123456789, time.UTC)

	tests := []struct {
		name   string
		layout string
		want   string
	}{
		{"rfc3339", "RFC3339", "2023-10-15T14:30:45Z"},
		{"rfc3339 nano", "rfc-3339-nano", "2023-10-15T14:30:45.123456789Z"},
		{"datetime", "DateTime", "2023-10-15 14:30:45"},
		{"milli alias", "ms", "Oct 15 14:30:45.123"},
		{"custom", "2006/01/02", "2023/10/15"},
		{"none", "none", ""},
		{"empty", "  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := makeFormatTimeFunc(tt.layout)(now); got != tt.want {
				t.Errorf("format = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	c := makeConfig(nil,
		WithLevel(LevelWarn),
		WithFormat(FormatText),
		WithCaller(true),
		WithPretty(false),
		nil,
	)

	if c.output == nil {
		t.Error("nil writer was not replaced")
	}

	if c.level != LevelWarn || c.format != FormatText || !c.caller || c.pretty {
		t.Errorf("unexpected config: %+v", c)
	}

	d := apply(c, WithDefaults(nil))
	if d.level != DefaultLevel || d.format != DefaultFormat || d.caller != DefaultCaller || d.pretty != DefaultPretty {
		t.Errorf("WithDefaults did not reset: %+v", d)
	}
}
