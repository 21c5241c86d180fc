package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	CrawlsTotal   *prometheus.CounterVec
	CrawlDuration *prometheus.HistogramVec

	SearchRequestsTotal   *prometheus.CounterVec
	SearchRequestDuration *prometheus.HistogramVec
	SearchRetriesTotal    prometheus.Counter

	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		CrawlsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ddg_crawler_crawls_total",
				Help: "Total number of crawl operations",
			},
			[]string{"status"},
		),
		CrawlDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ddg_crawler_crawl_duration_seconds",
				Help:    "Crawl duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{},
		),

		SearchRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ddg_crawler_search_requests_total",
				Help: "Total number of search provider requests",
			},
			[]string{"status"},
		),
		SearchRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ddg_crawler_search_request_duration_seconds",
				Help:    "Search request duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{},
		),
		SearchRetriesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "ddg_crawler_search_retries_total",
				Help: "Total number of rate-limited search attempts that were retried",
			},
		),

		CacheHitsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "ddg_crawler_cache_hits_total",
				Help: "Total number of cache hits",
			},
		),
		CacheMissesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "ddg_crawler_cache_misses_total",
				Help: "Total number of cache misses",
			},
		),
	}

	return m
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func (m *Metrics) RecordCrawl(status string, duration time.Duration) {
	m.CrawlsTotal.WithLabelValues(status).Inc()
	m.CrawlDuration.WithLabelValues().Observe(duration.Seconds())
}

func (m *Metrics) RecordSearchRequest(status string, duration time.Duration) {
	m.SearchRequestsTotal.WithLabelValues(status).Inc()
	m.SearchRequestDuration.WithLabelValues().Observe(duration.Seconds())
}

func (m *Metrics) RecordRetry() {
	m.SearchRetriesTotal.Inc()
}

func (m *Metrics) RecordCacheHit() {
	m.CacheHitsTotal.Inc()
}

func (m *Metrics) RecordCacheMiss() {
	m.CacheMissesTotal.Inc()
}
