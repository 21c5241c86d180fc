package domain

import "errors"

var (
	ErrEmptyQuery   = errors.New("empty query")
	ErrQueryTooLong = errors.New("query too long")
)

var (
	ErrMissingTitle   = errors.New("result missing title")
	ErrMissingLink    = errors.New("result missing link")
	ErrMissingSnippet = errors.New("result missing snippet")
)

var (
	ErrInvalidMaxRetries = errors.New("max retries must be positive")
	ErrInvalidDelay      = errors.New("initial delay must be positive")
)
