package browser

import (
	"context"
	"time"
)

// Runtime manages headless browser sessions.
type Runtime interface {
	NewSession(ctx context.Context, cfg SessionConfig) (Session, error)
	Close() error
}

// Session is the port implemented by browser runtime adapters. A
// session is a single tab with its own page state; callers must not
// use one session from multiple goroutines (see Manager).
type Session interface {
	ID() string
	Navigate(ctx context.Context, url string) error
	WaitVisible(ctx context.Context, selector string) error
	HTML(ctx context.Context) (string, error)
	Close() error
}

// SessionConfig configures a browser session.
type SessionConfig struct {
	SessionID   string
	InitialURL  string
	WaitTimeout time.Duration
}

// DefaultWaitTimeout bounds every wait-for-element step.
const DefaultWaitTimeout = 30 * time.Second

// DefaultSessionConfig returns the recommended session defaults.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		WaitTimeout: DefaultWaitTimeout,
	}
}
