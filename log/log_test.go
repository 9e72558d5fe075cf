package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// plain returns options producing one machine-readable line per record.
func plain(opts ...Option) []Option {
	return append([]Option{WithPretty(false), WithTimeLayout("none")}, opts...)
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	return m
}

func TestMake_Defaults(t *testing.T) {
	logger := Make(&bytes.Buffer{})

	if logger.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", logger.Level(), DefaultLevel)
	}

	if logger.Format() != DefaultFormat {
		t.Errorf("Format() = %v, want %v", logger.Format(), DefaultFormat)
	}

	if logger.caller != DefaultCaller || logger.pretty != DefaultPretty {
		t.Errorf("unexpected defaults: caller %v, pretty %v", logger.caller, logger.pretty)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name     string
		logFunc  func(Logger, string, ...slog.Attr)
		minLevel Level
		logged   bool
	}{
		{"trace at trace", Logger.Trace, LevelTrace, true},
		{"trace at debug", Logger.Trace, LevelDebug, false},
		{"debug at debug", Logger.Debug, LevelDebug, true},
		{"debug at info", Logger.Debug, LevelInfo, false},
		{"info at info", Logger.Info, LevelInfo, true},
		{"info at warn", Logger.Info, LevelWarn, false},
		{"warn at warn", Logger.Warn, LevelWarn, true},
		{"warn at error", Logger.Warn, LevelError, false},
		{"error at trace", Logger.Error, LevelTrace, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			tt.logFunc(Make(&buf, plain(WithLevel(tt.minLevel))...), "message")

			if logged := buf.Len() > 0; logged != tt.logged {
				t.Errorf("logged = %v, want %v (output %q)", logged, tt.logged, buf.String())
			}
		})
	}
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, plain(WithLevel(LevelTrace))...).
		Trace("compile complete", slog.Int("tokens", 3))

	m := decode(t, &buf)

	if m["level"] != "TRACE" || m["msg"] != "compile complete" || m["tokens"] != float64(3) {
		t.Errorf("unexpected record: %v", m)
	}

	if _, ok := m["time"]; ok {
		t.Errorf("time present with layout none: %v", m)
	}
}

func TestLogger_Text(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, plain(WithFormat(FormatText))...).Info("hello", slog.String("key", "value"))

	if got, want := buf.String(), "level=INFO msg=hello key=value\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, plain(WithCaller(true))...).Info("where")

	src, ok := decode(t, &buf)["source"].(map[string]any)
	if !ok {
		t.Fatalf("source missing: %s", buf.String())
	}

	if file, _ := src["file"].(string); !strings.HasSuffix(file, "log_test.go") {
		t.Errorf("source file = %v, want log_test.go", src["file"])
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, plain()...).With(slog.String("component", "render"))
	logger.Warn("slow")

	m := decode(t, &buf)
	if m["component"] != "render" || m["level"] != "WARN" {
		t.Errorf("unexpected record: %v", m)
	}
}

func TestLogger_Wrap(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, plain()...)
	debug := base.Wrap(WithLevel(LevelDebug))

	base.Debug("hidden")

	if buf.Len() != 0 {
		t.Fatalf("base logger wrote at debug: %q", buf.String())
	}

	debug.Debug("shown")

	if m := decode(t, &buf); m["msg"] != "shown" {
		t.Errorf("unexpected record: %v", m)
	}

	if base.Level() != DefaultLevel || debug.Level() != LevelDebug {
		t.Errorf("levels = %v, %v", base.Level(), debug.Level())
	}
}

func TestLogger_Zero(t *testing.T) {
	var logger Logger

	logger.Error("discarded")
	logger.With(slog.Int("n", 1)).Info("discarded")

	if logger.Enabled(context.Background(), LevelError) {
		t.Error("zero logger reports enabled")
	}

	if logger.Level() != DefaultLevel || logger.Format() != DefaultFormat {
		t.Errorf("zero logger level/format = %v/%v", logger.Level(), logger.Format())
	}

	var buf bytes.Buffer

	logger.Wrap(WithOutput(&buf), WithPretty(false)).Info("revived")

	if !strings.Contains(buf.String(), "revived") {
		t.Errorf("wrapped zero logger output = %q", buf.String())
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, plain()...)

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Go(func() { logger.Info("concurrent", slog.Int("id", i)) })
	}

	wg.Wait()

	if lines := strings.Split(strings.TrimSpace(buf.String()), "\n"); len(lines) != 100 {
		t.Errorf("got %d lines, want 100", len(lines))
	}
}
