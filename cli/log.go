package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/dynfmt/log"
)

// logFormat is a custom type that configures the logger format as a side
// effect of parsing via encoding.TextUnmarshaler.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
// As Kong parses the --log-format flag, this method is called, allowing us
// to configure the logger early enough to affect error messages during parsing.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel is a custom type that configures the logger level as a side
// effect of parsing via encoding.TextUnmarshaler.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"${logLevelDefault}"  enum:"${logLevelEnum}"  help:"Set log level (${enum})."`
	Format     logFormat `default:"${logFormatDefault}" enum:"${logFormatEnum}" help:"Set log format (${enum})."`
	TimeLayout string    `default:"RFC3339"                                      help:"Set timestamp format."`
	Caller     bool      `default:"false"                                        help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                                         help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelEnum":     strings.Join(slices.Collect(log.Levels()), ","),
		"logLevelDefault":  log.DefaultLevel.String(),
		"logFormatEnum":    strings.Join(slices.Collect(log.Formats()), ","),
		"logFormatDefault": log.DefaultFormat.String(),
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

// start applies the complete logger configuration. The returned function
// is deferred by the caller.
func (f *logConfig) start(ctx context.Context) (stop func()) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)

	return func() {}
}

// scan performs an early pass over command-line arguments to extract and
// apply logger configuration before Kong begins parsing. This ensures the
// logger is configured properly regardless of flag position on the command
// line.
//
// While logFormat and logLevel types implement encoding.TextUnmarshaler to
// configure the logger as flags are encountered during parsing, boolean flags
// like Pretty don't go through that interface. This pre-scan ensures all logger
// flags are applied early.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if arg == "--" {
			return
		}

		negated := strings.HasPrefix(arg, "--no-log-")
		if !negated && !strings.HasPrefix(arg, "--log-") {
			continue
		}

		name, value, assigned := strings.Cut(arg, "=")

		// takeValue consumes the next argument for flags that require one.
		takeValue := func() string {
			if !assigned && i+1 < len(args) && args[i+1] != "" && args[i+1][0] != '-' {
				i++

				return args[i]
			}

			return value
		}

		// boolValue reports the value of a boolean flag, which is only
		// read from the argument itself when given with '='.
		boolValue := func() (bool, bool) {
			if !assigned {
				return !negated, true
			}

			v, err := strconv.ParseBool(value)
			if err != nil {
				return false, false
			}

			return v != negated, true
		}

		switch strings.TrimPrefix(strings.TrimPrefix(name, "--"), "no-") {
		case "log-level":
			if !negated {
				_ = f.Level.UnmarshalText([]byte(takeValue()))
			}

		case "log-format":
			if !negated {
				_ = f.Format.UnmarshalText([]byte(takeValue()))
			}

		case "log-pretty":
			if v, ok := boolValue(); ok {
				f.Pretty = v
				log.Config(log.WithPretty(v))
			}

		case "log-caller":
			if v, ok := boolValue(); ok {
				f.Caller = v
				log.Config(log.WithCaller(v))
			}
		}
	}
}
