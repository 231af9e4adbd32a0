package browser

import (
	"context"
	"sync"
)

// Handle wraps a Session with a mutex so only one acquisition run can
// drive the underlying tab at a time. Page state (current URL, DOM) is
// not safely shareable across concurrent callers.
type Handle struct {
	mu   sync.Mutex
	sess Session
}

// Do runs fn with exclusive ownership of the session.
func (h *Handle) Do(ctx context.Context, fn func(Session) error) error {
	if h == nil || h.sess == nil {
		return ErrSessionClosed
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(h.sess)
}

// Manager owns long-lived browser sessions for a runtime. Sessions are
// created lazily the first time a widget asks for one and held open
// for the process lifetime; independent sessions may be driven
// concurrently.
type Manager struct {
	runtime Runtime
	handles map[string]*Handle
	metrics *Metrics
	mu      sync.Mutex
}

// NewManager creates a Manager backed by the provided runtime.
func NewManager(runtime Runtime) *Manager {
	return &Manager{
		runtime: runtime,
		handles: make(map[string]*Handle),
		metrics: NewMetrics(),
	}
}

// Metrics exposes the manager's counters.
func (m *Manager) Metrics() *Metrics {
	if m == nil {
		return nil
	}
	return m.metrics
}

// Acquire returns the handle for cfg.SessionID, creating the session
// on first use.
func (m *Manager) Acquire(ctx context.Context, cfg SessionConfig) (*Handle, error) {
	if m == nil || m.runtime == nil {
		return nil, ErrUnavailable
	}
	if cfg.SessionID == "" {
		return nil, ErrSessionClosed
	}

	m.mu.Lock()
	if h, ok := m.handles[cfg.SessionID]; ok {
		m.mu.Unlock()
		return h, nil
	}
	m.mu.Unlock()

	sess, err := m.runtime.NewSession(ctx, cfg)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.handles[cfg.SessionID]; ok {
		// Lost the race; keep the first session.
		go sess.Close()
		return h, nil
	}
	h := &Handle{sess: sess}
	m.handles[cfg.SessionID] = h
	m.metrics.RecordSessionCreated()
	return h, nil
}

// Close closes all sessions and releases the runtime. Called once at
// process shutdown.
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	handles := make([]*Handle, 0, len(m.handles))
	for _, h := range m.handles {
		handles = append(handles, h)
	}
	m.handles = make(map[string]*Handle)
	m.mu.Unlock()

	var lastErr error
	for _, h := range handles {
		h.mu.Lock()
		sess := h.sess
		h.sess = nil
		h.mu.Unlock()
		if sess == nil {
			continue
		}
		if err := sess.Close(); err != nil {
			lastErr = err
		}
		m.metrics.RecordSessionClosed()
	}
	if m.runtime != nil {
		if err := m.runtime.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
