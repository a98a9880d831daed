package logging

import (
	"context"
	"io"

	log "github.com/sirupsen/logrus"
)

type loggerKeyType int

const LoggerKey loggerKeyType = iota

// WithLogger returns a new context with the provided logger. Use in
// combination with logger.WithField(s) for great effect.
func WithLogger(ctx context.Context, logger *log.Entry) context.Context {
	l := logger.WithContext(ctx)
	return context.WithValue(ctx, LoggerKey, l)
}

// FromContext retrieves the current logger from the context. If no logger is
// available, the default logger is returned.
func FromContext(ctx context.Context) *log.Entry {
	if ctx != nil {
		if logger, ok := ctx.Value(LoggerKey).(*log.Entry); ok {
			return logger
		}
	}
	log.Warn("Logger is missing in the context, create a backup one")
	return log.NewEntry(log.StandardLogger())
}

// Null returns an entry that discards everything written to it. Stores use it
// when no logger was supplied.
func Null() *log.Entry {
	l := log.New()
	l.SetOutput(io.Discard)
	l.SetLevel(log.PanicLevel)
	return log.NewEntry(l)
}

// New builds the service logger with the given prefix field, the way the
// service binaries tag their output.
func New(prefix string, level string) *log.Entry {
	l := log.New()
	l.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if lvl, err := log.ParseLevel(level); err == nil {
		l.SetLevel(lvl)
	}
	return l.WithField("component", prefix)
}
