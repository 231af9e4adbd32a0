package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
)

// chromedpRuntime drives a local headless Chrome through the DevTools
// protocol. One exec allocator is shared by every session (tab).
type chromedpRuntime struct {
	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewChromedpRuntime starts a headless Chrome allocator. userAgent, if
// non-empty, is applied to every session so scraped sites see a
// realistic client identity.
func NewChromedpRuntime(userAgent string) Runtime {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if userAgent != "" {
		opts = append(opts, chromedp.UserAgent(userAgent))
	}
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &chromedpRuntime{allocCtx: allocCtx, cancel: cancel}
}

func (r *chromedpRuntime) NewSession(ctx context.Context, cfg SessionConfig) (Session, error) {
	if r == nil {
		return nil, ErrUnavailable
	}
	if cfg.SessionID == "" {
		cfg.SessionID = uuid.NewString()
	}
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = DefaultWaitTimeout
	}

	tabCtx, tabCancel := chromedp.NewContext(r.allocCtx)
	sess := &chromedpSession{
		id:          cfg.SessionID,
		ctx:         tabCtx,
		cancel:      tabCancel,
		waitTimeout: cfg.WaitTimeout,
	}

	if cfg.InitialURL != "" {
		if err := sess.Navigate(ctx, cfg.InitialURL); err != nil {
			sess.Close()
			return nil, err
		}
	}
	return sess, nil
}

func (r *chromedpRuntime) Close() error {
	if r == nil {
		return nil
	}
	r.cancel()
	return nil
}

type chromedpSession struct {
	id          string
	ctx         context.Context
	cancel      context.CancelFunc
	waitTimeout time.Duration
}

func (s *chromedpSession) ID() string { return s.id }

// runCtx derives a bounded context from the tab context, honoring the
// tighter of the caller's deadline and the session wait timeout.
func (s *chromedpSession) runCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.waitTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if rem := time.Until(deadline); rem < timeout {
			timeout = rem
		}
	}
	return context.WithTimeout(s.ctx, timeout)
}

func (s *chromedpSession) Navigate(ctx context.Context, url string) error {
	runCtx, cancel := s.runCtx(ctx)
	defer cancel()
	if err := chromedp.Run(runCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (s *chromedpSession) WaitVisible(ctx context.Context, selector string) error {
	runCtx, cancel := s.runCtx(ctx)
	defer cancel()
	err := chromedp.Run(runCtx, chromedp.WaitVisible(selector, chromedp.ByQuery))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("selector %q: %w", selector, ErrWaitTimeout)
		}
		return fmt.Errorf("wait for %q: %w", selector, err)
	}
	return nil
}

func (s *chromedpSession) HTML(ctx context.Context) (string, error) {
	runCtx, cancel := s.runCtx(ctx)
	defer cancel()
	var html string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("snapshot page: %w", err)
	}
	return html, nil
}

func (s *chromedpSession) Close() error {
	s.cancel()
	return nil
}
