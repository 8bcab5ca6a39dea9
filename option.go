package boggle

import (
	"time"
)

// options holds the configuration for a connection.
type options struct {
	logger Logger

	maxLineLength int           // maximum size of a single inbound line
	flushTimeout  time.Duration // how long Close waits for queued sends
}

// Option is a function that configures connection options.
type Option func(*options)

// MaxLineLengthOption returns an Option that sets the maximum inbound line size.
// Longer lines fail the pending receive with ErrLineTooLong.
func MaxLineLengthOption(size int) Option {
	return func(o *options) {
		o.maxLineLength = size
	}
}

// FlushTimeoutOption returns an Option that bounds how long Close keeps writing
// already queued sends before discarding them.
func FlushTimeoutOption(timeout time.Duration) Option {
	return func(o *options) {
		o.flushTimeout = timeout
	}
}

// LoggerOption returns an Option that sets the logger.
// If not set, the default slog logger will be used.
func LoggerOption(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
