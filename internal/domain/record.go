package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

const MaxQueryLength = 500

// Document is the projection of a raw search result that ends up in the
// output record content.
type Document struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

func (d Document) Validate() error {
	if d.Title == "" {
		return ErrMissingTitle
	}
	if d.Link == "" {
		return ErrMissingLink
	}
	if d.Snippet == "" {
		return ErrMissingSnippet
	}
	return nil
}

type Metadata struct {
	SourceURL string `json:"sourceURL"`
}

// Record is the externally visible output unit: content carries the
// JSON-encoded document, metadata.sourceURL duplicates its link.
type Record struct {
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

func NewRecord(doc Document) (Record, error) {
	content, err := json.Marshal(doc)
	if err != nil {
		return Record{}, fmt.Errorf("encode document: %w", err)
	}

	return Record{
		Content:  string(content),
		Metadata: Metadata{SourceURL: doc.Link},
	}, nil
}

func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return ErrEmptyQuery
	}
	if len(query) > MaxQueryLength {
		return ErrQueryTooLong
	}
	return nil
}
