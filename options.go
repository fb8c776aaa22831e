package annogo

import "github.com/hupe1980/annogo/index"

// options holds store construction settings.
type options struct {
	logger          *Logger
	metrics         MetricsCollector
	descriptor      *index.Descriptor
	initialViewName string
}

func defaultOptions() options {
	return options{
		logger:          NoopLogger(),
		metrics:         NoopMetricsCollector{},
		initialViewName: InitialViewName,
	}
}

// Option customizes store construction.
type Option func(*options)

// WithLogger sets the logger used by the store and all of its views.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetricsCollector sets the metrics sink.
func WithMetricsCollector(c MetricsCollector) Option {
	return func(o *options) {
		if c != nil {
			o.metrics = c
		}
	}
}

// WithIndexDescriptor installs the descriptor's index definitions into every
// view the store creates.
func WithIndexDescriptor(d *index.Descriptor) Option {
	return func(o *options) {
		o.descriptor = d
	}
}

// WithInitialViewName overrides the name of the view the store starts with.
func WithInitialViewName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.initialViewName = name
		}
	}
}
