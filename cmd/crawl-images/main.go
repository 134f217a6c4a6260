package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maltedev/county-image-crawler/internal/browser"
	"github.com/maltedev/county-image-crawler/internal/config"
	"github.com/maltedev/county-image-crawler/internal/crawler"
	"github.com/maltedev/county-image-crawler/internal/downloader"
	"github.com/maltedev/county-image-crawler/internal/events"
	"github.com/maltedev/county-image-crawler/internal/logger"
	"github.com/maltedev/county-image-crawler/internal/mapasset"
	"github.com/maltedev/county-image-crawler/internal/metrics"
	"github.com/maltedev/county-image-crawler/internal/ratelimit"
	"github.com/maltedev/county-image-crawler/internal/scraper"
	"github.com/maltedev/county-image-crawler/internal/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	items, err := storage.LoadWorkItems(cfg.Paths.DataFile)
	if err != nil {
		log.Error("failed to load dataset", "path", cfg.Paths.DataFile, "error", err)
		return 1
	}

	cache := storage.NewAssetCache(cfg.Paths.AssetsDir)
	if err := cache.Prepare(); err != nil {
		log.Error("failed to prepare asset directories", "dir", cfg.Paths.AssetsDir, "error", err)
		return 1
	}

	m := metrics.New()
	if cfg.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warn("metrics listener stopped", "error", err)
			}
		}()
		defer srv.Close()
		log.Info("metrics listening", "addr", cfg.Metrics.Addr)
	}

	b, err := browser.New(&browser.Options{
		Headless:       cfg.Browser.Headless,
		Timeout:        cfg.Browser.Timeout,
		IdleTimeout:    cfg.Browser.IdleTimeout,
		UserAgent:      cfg.Browser.UserAgent,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
		Locale:         cfg.Browser.Locale,
	})
	if err != nil {
		log.Error("failed to launch browser; install it with: go run github.com/playwright-community/playwright-go/cmd/playwright install --with-deps chromium",
			"error", err)
		return 1
	}
	defer func() {
		if err := b.Close(); err != nil {
			log.Warn("failed to close browser", "error", err)
		}
	}()

	fetch := downloader.New(downloader.Options{
		Timeout:   cfg.Download.Timeout,
		UserAgent: cfg.Download.UserAgent,
	})

	processor := crawler.NewProcessor(
		scraper.NewExtractor(b, nil, log),
		fetch,
		cache,
		ratelimit.NewFixedDelay(cfg.Crawl.Delay),
		m,
		log,
		crawler.ProcessorOptions{MaxRetries: cfg.Crawl.MaxRetries, RetryMode: cfg.Crawl.RetryFailed},
	)

	orch := crawler.NewOrchestrator(
		crawler.Options{Limit: cfg.Crawl.Limit, RetryFailed: cfg.Crawl.RetryFailed},
		processor,
		storage.NewResultFile(cfg.Paths.OutputFile),
		mapasset.NewResolver(fetch, cfg.Paths.AssetsDir, nil, m, log),
		log,
	)

	if cfg.Redis.Addr != "" {
		client, err := events.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("run events disabled", "error", err)
		} else {
			publisher := events.NewPublisher(client, cfg.Redis.Stream, log)
			defer publisher.Close()
			orch.WithPublisher(publisher)
		}
	}

	log.Info("crawl starting",
		"items", len(items),
		"limit", cfg.Crawl.Limit,
		"retry_failed", cfg.Crawl.RetryFailed,
		"retries", cfg.Crawl.MaxRetries,
		"delay", cfg.Crawl.Delay,
	)

	if _, err := orch.Run(ctx, items); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("crawl interrupted, results not written")
			return 130
		}
		log.Error("crawl failed", "error", err)
		return 1
	}
	return 0
}
