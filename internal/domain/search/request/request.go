// Package request holds the validated search request.
package request

import "fmt"

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultLimit   = 10
	MaxLimit       = 100
)

// Request is a validated natural-language search request.
type Request struct {
	query           string
	limit           int
	useVectorSearch bool
}

// New validates and normalizes search parameters.
// Defaults: limit=10, vector search enabled.
func New(query string, limit int, useVectorSearch *bool) (Request, error) {
	if query == "" {
		return Request{}, fmt.Errorf("query is required")
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	useVector := true
	if useVectorSearch != nil {
		useVector = *useVectorSearch
	}
	return Request{query: query, limit: limit, useVectorSearch: useVector}, nil
}

// Query returns the raw query text.
func (r *Request) Query() string { return r.query }

// Limit returns the maximum number of results.
func (r *Request) Limit() int { return r.limit }

// UseVectorSearch reports whether the vector strategy may be attempted.
func (r *Request) UseVectorSearch() bool { return r.useVectorSearch }
