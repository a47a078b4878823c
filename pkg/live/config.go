package live

import (
	"net/http"
	"time"
)

// Config holds configuration for live sessions.
type Config struct {
	// ReadTimeout is the maximum time to wait for a message or pong from
	// the client.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// HeartbeatInterval is the time between heartbeat pings. It must be
	// shorter than ReadTimeout.
	// Default: 30 seconds.
	HeartbeatInterval time.Duration

	// PrerenderTimeout bounds the static render done on connect, including
	// async components.
	// Default: 5 seconds.
	PrerenderTimeout time.Duration

	// MaxMessageSize is the maximum size of an incoming WebSocket message.
	// Default: 64KB.
	MaxMessageSize int64

	// SendQueue is the number of outgoing messages buffered per session.
	// A session whose queue is full is closed.
	// Default: 256.
	SendQueue int

	// MaxSessions is the maximum number of concurrent sessions.
	// 0 means no limit.
	MaxSessions int

	// ReadBufferSize and WriteBufferSize size the WebSocket buffers.
	// Default: 4096.
	ReadBufferSize  int
	WriteBufferSize int

	// CheckOrigin is called to validate the request origin.
	// Default: same origin only.
	CheckOrigin func(r *http.Request) bool

	// IdleTimeout bounds how long idle effects wait on a busy session
	// loop. Zero uses the loop default.
	IdleTimeout time.Duration

	// Debug sends error details to the client.
	Debug bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		PrerenderTimeout:  5 * time.Second,
		MaxMessageSize:    64 * 1024,
		SendQueue:         256,
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = d.HeartbeatInterval
	}
	if c.PrerenderTimeout <= 0 {
		c.PrerenderTimeout = d.PrerenderTimeout
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = d.MaxMessageSize
	}
	if c.SendQueue <= 0 {
		c.SendQueue = d.SendQueue
	}
	if c.ReadBufferSize <= 0 {
		c.ReadBufferSize = d.ReadBufferSize
	}
	if c.WriteBufferSize <= 0 {
		c.WriteBufferSize = d.WriteBufferSize
	}
	return c
}
