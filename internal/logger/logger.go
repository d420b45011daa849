package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type implLogger struct {
	zl zerolog.Logger
}

// New creates a new Logger instance writing JSON to stdout
func New(level string) Logger {
	return NewWithWriter(level, "json", os.Stdout)
}

// NewWithWriter creates a Logger with an explicit output format ("json" or "console")
func NewWithWriter(level, format string, w io.Writer) Logger {
	var out io.Writer = w
	if strings.ToLower(format) == "console" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	zl := zerolog.New(out).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()

	return &implLogger{zl: zl}
}

// Nop returns a Logger that discards everything
func Nop() Logger {
	return &implLogger{zl: zerolog.Nop()}
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel // default to info
	}
	return lvl
}

func (l *implLogger) With(component string) Logger {
	return &implLogger{zl: l.zl.With().Str("component", component).Logger()}
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.zl.Debug().Ctx(ctx).Msgf(msg, args...)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.zl.Info().Ctx(ctx).Msgf(msg, args...)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.zl.Warn().Ctx(ctx).Msgf(msg, args...)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.zl.Error().Ctx(ctx).Msgf(msg, args...)
}
