package scrape

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hyunsoo-k/speculo/pkg/browser"
	serrors "github.com/hyunsoo-k/speculo/pkg/errors"
	"github.com/hyunsoo-k/speculo/pkg/logging"
)

// DynamicFetcher acquires documents from pages that only materialize
// after JavaScript runs, observed through a headless browser session.
// Sessions are long-lived and serialized by the browser manager; one
// acquisition run owns the session tab for its whole duration.
type DynamicFetcher struct {
	manager *browser.Manager
	log     *logging.Logger
}

// NewDynamicFetcher creates a DynamicFetcher on top of a session
// manager.
func NewDynamicFetcher(manager *browser.Manager, log *logging.Logger) *DynamicFetcher {
	return &DynamicFetcher{manager: manager, log: log}
}

// Page is the view of a held browser session handed to an acquisition
// run. Valid only inside the Run callback.
type Page struct {
	sess    browser.Session
	metrics *browser.Metrics
	log     *logging.Logger
}

// Run acquires (lazily creating) the session named sessionID and runs
// fn with exclusive ownership of it.
func (d *DynamicFetcher) Run(ctx context.Context, sessionID string, fn func(ctx context.Context, page *Page) error) error {
	cfg := browser.DefaultSessionConfig()
	cfg.SessionID = sessionID

	handle, err := d.manager.Acquire(ctx, cfg)
	if err != nil {
		dynamicRunTotal.WithLabelValues(sessionID, outcomeError).Inc()
		d.log.Error(logging.CategoryBrowser, "session_failed", err.Error(), map[string]any{"session": sessionID})
		return serrors.Wrap(err, serrors.ErrCodeBrowserSession, "acquiring browser session").WithContext("session", sessionID)
	}

	err = handle.Do(ctx, func(sess browser.Session) error {
		return fn(ctx, &Page{sess: sess, metrics: d.manager.Metrics(), log: d.log})
	})
	dynamicRunTotal.WithLabelValues(sessionID, outcomeLabel(err)).Inc()
	if err != nil {
		if browser.IsTimeout(err) {
			waitTimeoutTotal.WithLabelValues(sessionID).Inc()
		}
		d.log.Error(logging.CategoryBrowser, "dynamic_run_failed", err.Error(), map[string]any{"session": sessionID})
	}
	return err
}

// Navigate drives the session tab to url.
func (p *Page) Navigate(ctx context.Context, url string) error {
	p.metrics.RecordNavigate()
	return p.sess.Navigate(ctx, url)
}

// WaitAndParse blocks until selector is present (bounded by the
// session wait timeout), then snapshots the rendered document and
// parses it. On timeout the caller gets ErrWaitTimeout wrapped, never
// a hang.
func (p *Page) WaitAndParse(ctx context.Context, selector string) (*goquery.Document, error) {
	err := p.sess.WaitVisible(ctx, selector)
	p.metrics.RecordWait(browser.IsTimeout(err))
	if err != nil {
		if browser.IsTimeout(err) {
			return nil, serrors.Wrap(err, serrors.ErrCodeBrowserTimeout, "element never appeared").WithContext("selector", selector)
		}
		return nil, serrors.Wrap(err, serrors.ErrCodeBrowserSession, "wait failed").WithContext("selector", selector)
	}

	html, err := p.sess.HTML(ctx)
	if err != nil {
		return nil, serrors.Wrap(err, serrors.ErrCodeBrowserSession, "snapshot failed")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, serrors.Wrap(err, serrors.ErrCodeScrapeParse, "failed to parse snapshot")
	}
	return doc, nil
}
