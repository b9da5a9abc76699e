package sdk

import (
	"context"

	"go.uber.org/zap"
)

// Logger is the minimal logging surface the pipeline needs. Transient chain
// fetch failures are logged and degraded, never escalated.
type Logger interface {
	Infof(template string, args ...any)
	Errorf(template string, args ...any)
}

type contextLoggerValueT string

const ContextLoggerValue = contextLoggerValueT("msigview-logger")

// LoggerFrom extracts the logger installed in ctx, falling back to a zap
// production logger when none is set.
func LoggerFrom(ctx context.Context) Logger {
	value := ctx.Value(ContextLoggerValue)
	logger, ok := value.(Logger)
	if !ok {
		logger = zap.Must(zap.NewProduction()).Sugar()
	}

	return logger
}

// WithLogger installs a logger in the context for LoggerFrom to find.
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, ContextLoggerValue, logger)
}
