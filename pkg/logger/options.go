package logger

import (
	"io"
	"log/slog"
)

// Option configures a logger built by New.
type Option func(*config)

// WithFormat picks the output handler.
func WithFormat(f Format) Option {
	return func(c *config) { c.format = f }
}

// WithDebug lowers the level to Debug. Upstream status lines and queued
// events are only logged at Debug.
func WithDebug(debug bool) Option {
	return func(c *config) {
		c.level = slog.LevelInfo
		if debug {
			c.level = slog.LevelDebug
		}
	}
}

// WithWriter redirects output from os.Stderr to w.
func WithWriter(w io.Writer) Option {
	return func(c *config) { c.w = w }
}

// WithSource adds the caller's file:line to every record.
func WithSource(source bool) Option {
	return func(c *config) { c.source = source }
}

// WithComponent tags every record with component=name, so a shared log
// stream can tell the gateway, the Lambda and the CLI apart.
func WithComponent(name string) Option {
	return func(c *config) { c.component = name }
}
