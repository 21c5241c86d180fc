package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/ddg-crawler/internal/search"
)

type Client struct {
	Results []search.SearchResult
	Error   error
	// Errors scripts per-call outcomes: call n returns Errors[n] when set.
	// Calls past the end of the slice fall back to Error / Results.
	Errors []error
	Delay  time.Duration

	CallCount   int
	LastRequest search.SearchRequest
	AllRequests []search.SearchRequest

	mu sync.Mutex
}

func New() *Client {
	return &Client{}
}

func (c *Client) WithResults(results []search.SearchResult) *Client {
	c.Results = results
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

func (c *Client) WithErrorSequence(errs ...error) *Client {
	c.Errors = errs
	return c
}

func (c *Client) WithDelay(delay time.Duration) *Client {
	c.Delay = delay
	return c
}

func (c *Client) Search(ctx context.Context, req search.SearchRequest) (*search.SearchResponse, error) {
	c.mu.Lock()
	callIdx := c.CallCount
	c.CallCount++
	c.LastRequest = req
	c.AllRequests = append(c.AllRequests, req)
	delay := c.Delay
	err := c.Error
	if callIdx < len(c.Errors) {
		err = c.Errors[callIdx]
	}
	results := c.Results
	c.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, search.ErrNoResults
	}

	if req.MaxResults > 0 && len(results) > req.MaxResults {
		results = results[:req.MaxResults]
	}

	return &search.SearchResponse{
		Query:   req.Query,
		Results: results,
	}, nil
}

func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CallCount = 0
	c.LastRequest = search.SearchRequest{}
	c.AllRequests = nil
	c.Errors = nil
}
