// Package logging builds the slog loggers used across tasktrack.
//
// Commands log to stderr through a tint console handler. The interactive UI
// owns the terminal, so it logs JSON to a file instead. Either sink can be
// fanned out to fluentd.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/lmittmann/tint"

	"tasktrack/internal/config"
)

// Options selects the sink and level.
type Options struct {
	// Writer receives console records. Defaults to os.Stderr.
	Writer io.Writer

	// FilePath, when set, replaces the console handler with a JSON file handler.
	FilePath string

	Level   slog.Leveler
	NoColor bool

	Fluent config.FluentSettings
}

// Logger is a configured slog logger plus the resources it holds open.
type Logger struct {
	*slog.Logger
	closers []io.Closer
}

// Close releases log files and the fluent connection.
func (l *Logger) Close() error {
	var firstErr error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", s)
	}
	return level, nil
}

// LevelFor returns the level configured for cfg; --debug wins.
func LevelFor(cfg *config.Config) slog.Level {
	if cfg.Debug {
		return slog.LevelDebug
	}
	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// New builds a logger from opts.
func New(opts Options) (*Logger, error) {
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}
	l := &Logger{}

	var local slog.Handler
	if opts.FilePath != "" {
		f, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("logging: open log file: %w", err)
		}
		l.closers = append(l.closers, f)
		local = slog.NewJSONHandler(f, &slog.HandlerOptions{Level: opts.Level})
	} else {
		w := opts.Writer
		if w == nil {
			w = os.Stderr
		}
		local = tint.NewHandler(w, &tint.Options{
			Level:      opts.Level,
			TimeFormat: "15:04:05",
			NoColor:    opts.NoColor,
		})
	}

	handler := local
	if opts.Fluent.Enabled {
		client, err := fluent.New(fluent.Config{
			FluentHost: opts.Fluent.Host,
			FluentPort: opts.Fluent.Port,
			Async:      true,
		})
		if err != nil {
			l.Close()
			return nil, fmt.Errorf("logging: connect fluent: %w", err)
		}
		l.closers = append(l.closers, client)
		handler = NewFanout(local, NewFluentHandler(client, opts.Fluent.Tag, opts.Level))
	}

	l.Logger = slog.New(handler)
	return l, nil
}
