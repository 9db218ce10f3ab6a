// Package api provides the HTTP surface of the switchboard gateway.
package api

import "time"

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string

	// BodyLimit caps request bodies in bytes. Zero uses fiber's default.
	BodyLimit int

	// IdleTimeout for keep-alive connections. Zero disables it.
	IdleTimeout time.Duration
}
