package boggle

import "log/slog"

// Logger is the structured logger used across the server.
// *slog.Logger satisfies it, and cmd/boggle-server adapts zerolog to it.
// Arguments after msg are alternating key-value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// defaultLogger returns the process-wide slog logger.
func defaultLogger() Logger {
	return slog.Default()
}

// DiscardLogger returns a Logger that drops everything.
func DiscardLogger() Logger {
	return discardLogger{}
}

type discardLogger struct{}

func (discardLogger) Debug(string, ...any) {}
func (discardLogger) Info(string, ...any)  {}
func (discardLogger) Warn(string, ...any)  {}
func (discardLogger) Error(string, ...any) {}
