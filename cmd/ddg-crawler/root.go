package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kitbuilder587/ddg-crawler/internal/cache/memory"
	"github.com/kitbuilder587/ddg-crawler/internal/config"
	"github.com/kitbuilder587/ddg-crawler/internal/metrics"
	"github.com/kitbuilder587/ddg-crawler/internal/ratelimit"
	"github.com/kitbuilder587/ddg-crawler/internal/search/duckduckgo"
	"github.com/kitbuilder587/ddg-crawler/internal/service"
)

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "ddg-crawler <query>",
		Short:         "Search DuckDuckGo and print the top results as JSON records",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}
}

func run(cmd *cobra.Command, query string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	var m *metrics.Metrics
	if cfg.Metrics.Addr != "" {
		m = metrics.New()
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Addr, metrics.Handler()); err != nil {
				logger.Warn("metrics listener stopped", zap.Error(err))
			}
		}()
	}

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.RequestsPerMinute > 0 {
		limiter = ratelimit.New(ratelimit.Config{
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		})
	}

	client := duckduckgo.New(duckduckgo.Config{
		BaseURL: cfg.Search.BaseURL,
		Timeout: cfg.Search.Timeout,
	}, limiter, logger)

	cacheClient := memory.New()
	defer cacheClient.Stop()

	crawler := service.NewCrawlerService(service.CrawlerDeps{
		Search:  client,
		Cache:   cacheClient,
		Logger:  logger,
		Metrics: m,
		Config: service.CrawlerConfig{
			MaxResults:   cfg.Search.MaxResults,
			MaxRetries:   cfg.Search.MaxRetries,
			InitialDelay: cfg.Search.InitialDelay,
			Region:       cfg.Search.Region,
			CacheTTL:     cfg.Cache.TTL,
		},
	})

	records := crawler.Crawl(cmd.Context(), query)

	out, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
