package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

// loggerKey keys the command logger in a context.
type loggerKey struct{}

// WithLogger returns ctx carrying logger. The CLI attaches the logger once
// flags are parsed so that runners and watchers log at the chosen level.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger attached by WithLogger, or Default.
func FromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(*log.Logger); ok && logger != nil {
			return logger
		}
	}
	return Default()
}
