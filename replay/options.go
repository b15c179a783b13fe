package replay

import (
	"log/slog"
	"net/http"
	"time"
)

// Option configures an Engine
type Option func(*Engine)

// WithTimeout bounds each replay, including redirects
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithPrivateNetworkGuard refuses connections to loopback, private and link-local addresses
func WithPrivateNetworkGuard() Option {
	return func(e *Engine) {
		e.blockPrivate = true
	}
}

// WithHTTPClient replaces the outbound client. Timeout and guard options are then ignored.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Engine) {
		e.client = c
	}
}

// WithLogger sets the engine logger
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver reports replay results to o
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithClock sets the time source used for last_replay_at
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}
