package service

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/ddg-crawler/internal/cache"
	"github.com/kitbuilder587/ddg-crawler/internal/domain"
	"github.com/kitbuilder587/ddg-crawler/internal/metrics"
	"github.com/kitbuilder587/ddg-crawler/internal/search"
)

type CrawlerService interface {
	// Crawl runs a search and returns normalized records. It never fails:
	// any provider or extraction error degrades to an empty slice.
	Crawl(ctx context.Context, query string) []domain.Record
}

type CrawlerConfig struct {
	MaxResults   int
	MaxRetries   int
	InitialDelay time.Duration
	TopResults   int
	Region       string
	CacheTTL     time.Duration
}

type CrawlerDeps struct {
	Search search.SearchClient
	Logger *zap.Logger
	Config CrawlerConfig

	// опциональные компоненты
	Cache   cache.Cache
	Metrics *metrics.Metrics
}

type crawlerService struct {
	search  search.SearchClient
	cache   cache.Cache
	logger  *zap.Logger
	metrics *metrics.Metrics
	config  CrawlerConfig

	sleep func(ctx context.Context, d time.Duration) error
}

func NewCrawlerService(deps CrawlerDeps) CrawlerService {
	if deps.Config.MaxResults <= 0 {
		deps.Config.MaxResults = 10
	}
	if deps.Config.MaxRetries <= 0 {
		deps.Config.MaxRetries = 3
	}
	if deps.Config.InitialDelay <= 0 {
		deps.Config.InitialDelay = time.Second
	}
	if deps.Config.TopResults <= 0 {
		deps.Config.TopResults = 3
	}
	if deps.Config.CacheTTL <= 0 {
		deps.Config.CacheTTL = time.Hour
	}

	return &crawlerService{
		search:  deps.Search,
		cache:   deps.Cache,
		logger:  deps.Logger,
		metrics: deps.Metrics,
		config:  deps.Config,
		sleep:   sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func (s *crawlerService) Crawl(ctx context.Context, query string) []domain.Record {
	start := time.Now()

	records, err := s.crawl(ctx, query)
	if err != nil {
		s.logger.Error("crawl failed, returning empty result",
			zap.Error(err),
			zap.String("query", query),
		)
		if s.metrics != nil {
			s.metrics.RecordCrawl("error", time.Since(start))
		}
		return []domain.Record{}
	}

	if s.metrics != nil {
		s.metrics.RecordCrawl("success", time.Since(start))
	}
	return records
}

func (s *crawlerService) crawl(ctx context.Context, query string) ([]domain.Record, error) {
	if err := domain.ValidateQuery(query); err != nil {
		return nil, err
	}

	key := s.cacheKey(query)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if s.metrics != nil {
				s.metrics.RecordCacheHit()
			}
			s.logger.Debug("crawl cache hit", zap.String("query", query))
			return cached, nil
		}
		if s.metrics != nil {
			s.metrics.RecordCacheMiss()
		}
	}

	results, err := s.searchWithRetry(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	docs, err := extractDocuments(results)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	if len(docs) > s.config.TopResults {
		docs = docs[:s.config.TopResults]
	}

	records := make([]domain.Record, 0, len(docs))
	for _, doc := range docs {
		rec, err := domain.NewRecord(doc)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if s.cache != nil {
		s.cache.Set(key, records, s.config.CacheTTL)
	}

	return records, nil
}

// searchWithRetry runs the provider call with exponential backoff. Only the
// rate-limit class is retried; everything else propagates from the first
// failing attempt, as does a rate limit on the final one.
func (s *crawlerService) searchWithRetry(ctx context.Context, query string) ([]search.SearchResult, error) {
	s.logger.Info("searching duckduckgo", zap.String("query", query))

	delay := s.config.InitialDelay
	for attempt := 0; attempt < s.config.MaxRetries; attempt++ {
		start := time.Now()
		resp, err := s.search.Search(ctx, search.SearchRequest{
			Query:      query,
			MaxResults: s.config.MaxResults,
			Region:     s.config.Region,
		})
		if err == nil {
			if s.metrics != nil {
				s.metrics.RecordSearchRequest("success", time.Since(start))
			}
			s.logger.Info("found search results", zap.Int("count", len(resp.Results)))
			return resp.Results, nil
		}

		if s.metrics != nil {
			s.metrics.RecordSearchRequest("error", time.Since(start))
		}

		if !search.IsRateLimit(err) || attempt == s.config.MaxRetries-1 {
			return nil, err
		}

		s.logger.Warn("rate limit hit, retrying",
			zap.Duration("delay", delay),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", s.config.MaxRetries),
		)
		if s.metrics != nil {
			s.metrics.RecordRetry()
		}

		if err := s.sleep(ctx, delay); err != nil {
			return nil, err
		}
		delay *= 2
	}

	return nil, search.ErrSearchFailed
}

// extractDocuments projects raw results in order; the first incomplete
// result aborts the whole batch.
func extractDocuments(results []search.SearchResult) ([]domain.Document, error) {
	docs := make([]domain.Document, len(results))
	for i, r := range results {
		doc := domain.Document{
			Title:   r.Title,
			Link:    r.URL,
			Snippet: r.Snippet,
		}
		if err := doc.Validate(); err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}
		docs[i] = doc
	}
	return docs, nil
}

func (s *crawlerService) cacheKey(query string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(query))), " ")
	hash := sha256.Sum256([]byte(normalized + "|" + s.config.Region))
	return fmt.Sprintf("crawl:%x", hash[:8])
}
