package cache

import (
	"time"

	"github.com/kitbuilder587/ddg-crawler/internal/domain"
)

// Cache stores crawl results keyed by normalized query hash.
type Cache interface {
	Get(key string) ([]domain.Record, bool)
	Set(key string, records []domain.Record, ttl time.Duration)
	Delete(key string)
	Stop()
}
