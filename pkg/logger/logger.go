// Package logger builds the slog loggers used across switchboard: colorized
// output for the CLI, JSON for the service and Lambda.
package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// Format selects the handler behind a logger.
type Format int

const (
	// FormatText is slog's key=value handler.
	FormatText Format = iota

	// FormatJSON is slog's JSON handler, one object per line.
	FormatJSON

	// FormatPretty is the charmbracelet/log handler for terminals.
	FormatPretty
)

type config struct {
	format    Format
	level     slog.Level
	source    bool
	component string
	w         io.Writer
}

// New creates a *slog.Logger. Without options it logs text at Info level
// to os.Stderr, leaving stdout to command output.
func New(opts ...Option) *slog.Logger {
	c := &config{level: slog.LevelInfo, w: os.Stderr}
	for _, opt := range opts {
		opt(c)
	}

	l := slog.New(c.handler())
	if c.component != "" {
		l = l.With("component", c.component)
	}
	return l
}

func (c *config) handler() slog.Handler {
	switch c.format {
	case FormatPretty:
		return charmlog.NewWithOptions(c.w, charmlog.Options{
			Level:           charmLevel(c.level),
			ReportTimestamp: true,
			TimeFormat:      time.Kitchen,
			ReportCaller:    c.source,
		})
	case FormatJSON:
		return slog.NewJSONHandler(c.w, &slog.HandlerOptions{Level: c.level, AddSource: c.source})
	default:
		return slog.NewTextHandler(c.w, &slog.HandlerOptions{Level: c.level, AddSource: c.source})
	}
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func charmLevel(level slog.Level) charmlog.Level {
	switch {
	case level <= slog.LevelDebug:
		return charmlog.DebugLevel
	case level >= slog.LevelError:
		return charmlog.ErrorLevel
	case level >= slog.LevelWarn:
		return charmlog.WarnLevel
	default:
		return charmlog.InfoLevel
	}
}
