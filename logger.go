package hstrat

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with hstrat-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithPolicy adds the policy spec to the logger.
func (l *Logger) WithPolicy(spec string) *Logger {
	return &Logger{
		Logger: l.Logger.With("policy", spec),
	}
}

// WithWidth adds a differentia bit width field to the logger.
func (l *Logger) WithWidth(width int) *Logger {
	return &Logger{
		Logger: l.Logger.With("width", width),
	}
}

// WithName adds a column name field to the logger.
func (l *Logger) WithName(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("name", name),
	}
}

// LogColumnCreated logs the construction of a column.
func (l *Logger) LogColumnCreated(ctx context.Context, spec string, width int, store StoreKind, compact bool) {
	l.DebugContext(ctx, "column created",
		"policy", spec,
		"width", width,
		"store", store.String(),
		"compact", compact,
	)
}

// LogColumnRestored logs a column rebuilt from a snapshot.
func (l *Logger) LogColumnRestored(ctx context.Context, spec string, numDeposited uint64, numRetained int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "column restore failed",
			"policy", spec,
			"num_deposited", numDeposited,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "column restored",
			"policy", spec,
			"num_deposited", numDeposited,
			"num_retained", numRetained,
		)
	}
}

// LogVersionMismatch warns that ingested data was produced by another version.
func (l *Logger) LogVersionMismatch(ctx context.Context, want, got string) {
	l.WarnContext(ctx, "records version mismatch",
		"want", want,
		"got", got,
	)
}

// LogComparison logs the outcome of a pairwise comparison.
func (l *Logger) LogComparison(ctx context.Context, c Comparison) {
	l.DebugContext(ctx, "comparison completed",
		"has_common_ancestor", c.HasCommonAncestor,
		"mrca_lower", c.MRCALower,
		"mrca_upper", c.MRCAUpper,
	)
}
