package scrape

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "speculo_scrape_fetch_total",
		Help: "Static document fetches by source host and outcome.",
	}, []string{"source", "outcome"})

	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "speculo_scrape_fetch_duration_seconds",
		Help:    "Static document fetch latency by source host.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})

	dynamicRunTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "speculo_scrape_dynamic_run_total",
		Help: "Dynamic (headless browser) acquisition runs by session and outcome.",
	}, []string{"session", "outcome"})

	waitTimeoutTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "speculo_scrape_wait_timeout_total",
		Help: "Bounded waits that expired before the target element appeared.",
	}, []string{"session"})
)

const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

func outcomeLabel(err error) string {
	if err != nil {
		return outcomeError
	}
	return outcomeOK
}
