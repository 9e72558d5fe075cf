package format

import "github.com/ardnew/dynfmt/log"

// Option configures a [Template] when it is compiled.
type Option func(*Template)

// WithLogger sets the structured logger for trace-level debugging of
// compile and render.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(t *Template) {
		t.logger = logger
	}
}
