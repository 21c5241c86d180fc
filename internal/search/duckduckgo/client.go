package duckduckgo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/kitbuilder587/ddg-crawler/internal/ratelimit"
	"github.com/kitbuilder587/ddg-crawler/internal/search"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *ratelimit.Limiter
	logger    *zap.Logger
}

func New(cfg Config, limiter *ratelimit.Limiter, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://html.duckduckgo.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.Timeout},
		limiter:   limiter,
		logger:    logger,
	}
}

func (c *Client) Search(ctx context.Context, req search.SearchRequest) (*search.SearchResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%w: empty query", search.ErrInvalidRequest)
	}
	if req.MaxResults <= 0 {
		req.MaxResults = 10
	}

	// local budget check before touching the network; surfaces as the same
	// throttling class the backend itself reports
	if c.limiter != nil && !c.limiter.Allow() {
		c.logger.Debug("local rate limit budget exhausted",
			zap.Time("reset_at", c.limiter.ResetTime()),
		)
		return nil, fmt.Errorf("%w: local request budget exhausted", search.ErrRateLimit)
	}

	form := url.Values{}
	form.Set("q", req.Query)
	form.Set("b", "")
	if req.Region != "" {
		form.Set("kl", req.Region)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/html/", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to parsing

	case http.StatusAccepted, http.StatusForbidden, http.StatusTooManyRequests:
		// DuckDuckGo answers 202/403 instead of 429 when it decides the
		// caller is a bot; all three mean "back off"
		return nil, fmt.Errorf("%w: status %d", search.ErrRateLimit, resp.StatusCode)

	case http.StatusBadRequest:
		return nil, search.ErrInvalidRequest

	default:
		return nil, fmt.Errorf("%w: status %d", search.ErrSearchFailed, resp.StatusCode)
	}

	results, err := parseResults(resp.Body, req.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", search.ErrSearchFailed, err)
	}

	if len(results) == 0 {
		return nil, search.ErrNoResults
	}

	c.logger.Debug("duckduckgo search completed",
		zap.String("query", req.Query),
		zap.Int("results", len(results)),
	)

	return &search.SearchResponse{
		Query:   req.Query,
		Results: results,
	}, nil
}

func parseResults(body io.Reader, maxResults int) ([]search.SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	var results []search.SearchResult
	doc.Find("div.result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(results) >= maxResults {
			return false
		}

		link := sel.Find("a.result__a").First()
		href, ok := link.Attr("href")
		if !ok {
			return true
		}

		results = append(results, search.SearchResult{
			Title:   strings.TrimSpace(link.Text()),
			URL:     unwrapRedirect(href),
			Snippet: strings.TrimSpace(sel.Find(".result__snippet").First().Text()),
		})
		return true
	})

	return results, nil
}

// unwrapRedirect resolves DuckDuckGo's //duckduckgo.com/l/?uddg=... redirect
// links to the target URL.
func unwrapRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if !strings.HasSuffix(u.Hostname(), "duckduckgo.com") && u.Hostname() != "" {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
