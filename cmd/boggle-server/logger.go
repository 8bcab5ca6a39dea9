package main

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/Zereker/boggle"
)

// zerologLogger adapts a zerolog.Logger to boggle.Logger. Arguments are
// alternating key-value pairs, as with slog.
type zerologLogger struct {
	l zerolog.Logger
}

var _ boggle.Logger = zerologLogger{}

func newLogger(level, format string) (zerologLogger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerologLogger{}, err
	}
	zerolog.SetGlobalLevel(lvl)

	var w io.Writer = os.Stderr
	if format == "console" {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	return zerologLogger{l: zerolog.New(w).With().Timestamp().Logger()}, nil
}

func (z zerologLogger) Debug(msg string, args ...any) { z.l.Debug().Fields(args).Msg(msg) }
func (z zerologLogger) Info(msg string, args ...any)  { z.l.Info().Fields(args).Msg(msg) }
func (z zerologLogger) Warn(msg string, args ...any)  { z.l.Warn().Fields(args).Msg(msg) }
func (z zerologLogger) Error(msg string, args ...any) { z.l.Error().Fields(args).Msg(msg) }
