package lang

import (
	"github.com/ardnew/acs/log"
)

// DefaultMaxDepth is the default limit on rule nesting while parsing and on
// expression nesting and call depth while evaluating.
// Users may modify this before parsing to change the default.
var DefaultMaxDepth = 1000

// options holds parser and evaluator configuration.
type options struct {
	maxDepth int
	logger   log.Logger
	noCache  bool
}

// Option configures parsing or evaluation behavior.
type Option func(*options)

// WithMaxDepth sets the maximum nesting depth. A depth of zero or less
// disables the limit.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithCache sets whether [ParseString] shares parsed programs through the
// process-wide cache. It is enabled by default.
func WithCache(enable bool) Option {
	return func(o *options) {
		o.noCache = !enable
	}
}

// makeOptions applies functional options over the defaults.
func makeOptions(opts ...Option) options {
	o := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
