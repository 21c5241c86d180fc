package search

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrRateLimit      = errors.New("rate limit exceeded")
	ErrInvalidRequest = errors.New("invalid request parameters")
	ErrSearchFailed   = errors.New("search request failed")
	ErrNoResults      = errors.New("no results found")
)

type SearchClient interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

type SearchRequest struct {
	Query      string
	MaxResults int
	Region     string
}

type SearchResponse struct {
	Query   string
	Results []SearchResult
}

type SearchResult struct {
	Title   string
	URL     string
	Snippet string
}

// IsRateLimit reports whether err belongs to the retryable throttling class.
// Besides the tagged sentinel, errors whose message contains "Ratelimit" are
// accepted as a compatibility shim for backends we don't control.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimit) {
		return true
	}
	return strings.Contains(err.Error(), "Ratelimit")
}
