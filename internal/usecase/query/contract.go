package query

import (
	"context"

	"github.com/halcyon-cloud/contactdex/internal/domain"
	"github.com/halcyon-cloud/contactdex/internal/domain/search/result"
	"github.com/halcyon-cloud/contactdex/internal/domain/search/spec"
)

// Interpreter extracts a filter spec from a natural-language query.
type Interpreter interface {
	Parse(ctx context.Context, query string) spec.Parsed
}

// VectorSearcher runs nearest-neighbor lookups over indexed contacts.
type VectorSearcher interface {
	Enabled() bool
	Query(ctx context.Context, text string, limit int) ([]result.Hit, error)
}

// ContactRepository reads contacts for hydration and structured search.
type ContactRepository interface {
	Search(ctx context.Context, f *spec.FilterSpec, limit int) ([]domain.Contact, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Contact, error)
}

// HistoryRecorder appends executed queries to the history log.
type HistoryRecorder interface {
	Append(ctx context.Context, queryText string, resultsCount, executionTimeMs int) error
}
