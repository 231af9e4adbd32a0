package browser

import "sync/atomic"

// Metrics tracks browser runtime performance counters.
type Metrics struct {
	SessionsCreated atomic.Int64
	SessionsClosed  atomic.Int64
	ActiveSessions  atomic.Int64

	NavigateCount atomic.Int64
	WaitCount     atomic.Int64
	WaitTimeouts  atomic.Int64
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordSessionCreated increments session creation counters.
func (m *Metrics) RecordSessionCreated() {
	if m == nil {
		return
	}
	m.SessionsCreated.Add(1)
	m.ActiveSessions.Add(1)
}

// RecordSessionClosed increments session close counters.
func (m *Metrics) RecordSessionClosed() {
	if m == nil {
		return
	}
	m.SessionsClosed.Add(1)
	m.ActiveSessions.Add(-1)
}

// RecordNavigate increments the navigation counter.
func (m *Metrics) RecordNavigate() {
	if m == nil {
		return
	}
	m.NavigateCount.Add(1)
}

// RecordWait increments the wait counter, noting timeouts separately.
func (m *Metrics) RecordWait(timedOut bool) {
	if m == nil {
		return
	}
	m.WaitCount.Add(1)
	if timedOut {
		m.WaitTimeouts.Add(1)
	}
}
