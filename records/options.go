package records

import (
	"log/slog"

	"github.com/hupe1980/hstrat"
	"github.com/hupe1980/hstrat/codec"
)

type options struct {
	codec            codec.Codec
	compression      CompressionType
	envelope         bool
	logger           *hstrat.Logger
	metricsCollector hstrat.MetricsCollector
	columnOptions    []hstrat.Option
}

// Option configures encoding and ingestion.
type Option func(*options)

// WithCodec selects the codec used by Marshal and Unmarshal.
// The default is codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithCompression makes Marshal wrap its output in an envelope compressed
// with t. CompressionNone still writes a checksummed envelope.
func WithCompression(t CompressionType) Option {
	return func(o *options) {
		o.compression = t
		o.envelope = true
	}
}

// WithLogger configures the logger that reports version mismatches.
func WithLogger(logger *hstrat.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel sets a text logger at the given level.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = hstrat.NewTextLogger(level)
	}
}

// WithMetricsCollector records every ingestion attempt.
func WithMetricsCollector(mc hstrat.MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithColumnOptions passes options through to hstrat.RestoreColumn.
func WithColumnOptions(optFns ...hstrat.Option) Option {
	return func(o *options) {
		o.columnOptions = append(o.columnOptions, optFns...)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		logger:           hstrat.NoopLogger(),
		metricsCollector: hstrat.NoopMetricsCollector{},
	}

	for _, fn := range optFns {
		fn(&o)
	}

	if o.codec == nil {
		o.codec = codec.Default
	}
	if o.logger == nil {
		o.logger = hstrat.NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = hstrat.NoopMetricsCollector{}
	}

	return o
}
