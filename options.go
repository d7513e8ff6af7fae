package hstrat

import (
	"log/slog"

	"github.com/hupe1980/hstrat/differentia"
)

// DefaultDifferentiaBitWidth is the fingerprint width used when none is configured.
const DefaultDifferentiaBitWidth = 64

// StoreKind selects the stratum store backing a column.
type StoreKind int

const (
	// StoreList is a dense slice. Ranks are omitted when the policy has a
	// closed form, unless WithAlwaysStoreRank is set.
	StoreList StoreKind = iota
	// StoreBitmap is an ordered map indexed by a roaring64 bitmap.
	StoreBitmap
)

func (k StoreKind) String() string {
	switch k {
	case StoreList:
		return "list"
	case StoreBitmap:
		return "bitmap"
	default:
		return "unknown"
	}
}

type options struct {
	width             int
	storeKind         StoreKind
	alwaysStoreRank   bool
	generator         *differentia.Generator
	initialAnnotation any
	skipInitial       bool
	metricsCollector  MetricsCollector
	logger            *Logger
}

// Option configures column construction.
type Option func(*options)

// WithDifferentiaBitWidth sets the fingerprint width in bits.
// Widths above 64 are supported. Width < 1 panics at construction.
func WithDifferentiaBitWidth(width int) Option {
	return func(o *options) {
		o.width = width
	}
}

// WithStore selects the stratum store.
func WithStore(kind StoreKind) Option {
	return func(o *options) {
		o.storeKind = kind
	}
}

// WithAlwaysStoreRank keeps ranks in every stratum even when the policy can
// compute them.
func WithAlwaysStoreRank() Option {
	return func(o *options) {
		o.alwaysStoreRank = true
	}
}

// WithSeed draws fingerprints from a new generator seeded with seed.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.generator = differentia.NewGenerator(seed)
	}
}

// WithGenerator draws fingerprints from g. Columns sharing g draw
// independent fingerprints.
//
// If nil is passed, a randomly seeded generator is used.
func WithGenerator(g *differentia.Generator) Option {
	return func(o *options) {
		o.generator = g
	}
}

// WithInitialAnnotation attaches annotation to the stratum deposited at
// construction.
func WithInitialAnnotation(annotation any) Option {
	return func(o *options) {
		o.initialAnnotation = annotation
	}
}

// WithoutInitialStratum starts the column empty instead of depositing rank 0
// at construction.
func WithoutInitialStratum() Option {
	return func(o *options) {
		o.skipInitial = true
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &hstrat.BasicMetricsCollector{}
//	c := hstrat.NewColumn(policy.Perfect(), hstrat.WithMetricsCollector(metrics))
//	c.DepositStrata(10)
//	stats := metrics.GetStats()
//	fmt.Printf("Deposits: %d, Avg latency: %dns\n", stats.DepositCount, stats.DepositAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := hstrat.NewJSONLogger(slog.LevelDebug)
//	c := hstrat.NewColumn(p, hstrat.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		width:            DefaultDifferentiaBitWidth,
		storeKind:        StoreList,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
