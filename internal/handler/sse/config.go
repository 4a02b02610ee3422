package sse

import "time"

// Config holds configuration for change streams
type Config struct {
	// KeepAliveInterval is how often an idle stream sends a comment line so
	// proxies do not drop it
	KeepAliveInterval time.Duration
}

// DefaultConfig returns a 15 second keep-alive, short enough for common proxies
func DefaultConfig() *Config {
	return &Config{
		KeepAliveInterval: 15 * time.Second,
	}
}
