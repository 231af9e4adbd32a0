// Command speculo serves a smart-mirror display: a single page of
// configured widgets plus one JSON endpoint per data-backed widget.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hyunsoo-k/speculo/pkg/browser"
	"github.com/hyunsoo-k/speculo/pkg/config"
	"github.com/hyunsoo-k/speculo/pkg/logging"
	"github.com/hyunsoo-k/speculo/pkg/scrape"
	"github.com/hyunsoo-k/speculo/pkg/server"
	"github.com/hyunsoo-k/speculo/pkg/widget"
	"github.com/hyunsoo-k/speculo/pkg/widget/builtin"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "speculo:", err)
		os.Exit(1)
	}
}

func run() error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(settings.LogDir)
	if err != nil {
		return err
	}
	defer logger.Close()

	layout, err := config.LoadLayout(settings.LayoutPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		logger.Info(logging.CategoryConfig, "layout_default", "no layout file, using stock layout", map[string]any{
			"path": settings.LayoutPath,
		})
		layout = config.DefaultLayout()
	}

	var runtime browser.Runtime
	if settings.Headless {
		runtime = browser.NewChromedpRuntime(scrape.DefaultUserAgent)
	}
	manager := browser.NewManager(runtime)
	defer manager.Close()

	deps := widget.Deps{
		Settings: settings,
		Fetcher:  scrape.NewFetcher(logger),
		Dynamic:  scrape.NewDynamicFetcher(manager, logger),
		Log:      logger,
	}
	registry := widget.NewRegistry(layout, deps)
	builtin.RegisterAll(registry)

	srv := server.New(layout, registry, logger)
	bound := srv.BindAPIs()
	logger.Info(logging.CategoryServer, "start", "serving mirror", map[string]any{
		"bind":      settings.BindAddress,
		"endpoints": bound,
	})

	httpServer := &http.Server{
		Addr:              settings.BindAddress,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
