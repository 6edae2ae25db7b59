// Package query orchestrates hybrid contact search: a vector attempt first,
// then a structured database fallback driven by the query interpreter.
package query

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/halcyon-cloud/contactdex/internal/domain"
	"github.com/halcyon-cloud/contactdex/internal/domain/search/request"
	"github.com/halcyon-cloud/contactdex/internal/domain/search/result"
	"github.com/halcyon-cloud/contactdex/internal/metrics"
)

// Match is one hydrated search result.
type Match struct {
	Contact     domain.Contact
	Score       float64
	MatchReason string
}

// Response is the uniform envelope both search strategies produce.
type Response struct {
	Query           string
	Results         []Match
	ResultsCount    int
	ExecutionTimeMs int
	SearchMethod    result.Method
	Explanation     string
}

// Service coordinates the two search strategies.
type Service struct {
	interpreter Interpreter
	vectors     VectorSearcher
	contacts    ContactRepository
	history     HistoryRecorder
	logger      *zap.Logger
}

// New creates a query orchestrator.
func New(
	interpreter Interpreter,
	vectors VectorSearcher,
	contacts ContactRepository,
	history HistoryRecorder,
	logger *zap.Logger,
) *Service {
	return &Service{
		interpreter: interpreter,
		vectors:     vectors,
		contacts:    contacts,
		history:     history,
		logger:      logger,
	}
}

// Execute runs a natural-language search. The vector strategy is attempted
// first when the request allows it and a provider is configured; any vector
// failure or empty result falls back to the structured database path.
// Relational store errors do not fall back: they surface to the caller.
func (s *Service) Execute(ctx context.Context, req *request.Request) (Response, error) {
	start := time.Now()

	if req.UseVectorSearch() && s.vectors.Enabled() {
		resp, ok := s.tryVector(ctx, req, start)
		if ok {
			return resp, nil
		}
		metrics.SearchFallbacksTotal.Inc()
	}

	return s.searchDatabase(ctx, req, start)
}

// tryVector runs the vector strategy. ok is false when the attempt failed or
// matched nothing and the caller should fall back.
func (s *Service) tryVector(ctx context.Context, req *request.Request, start time.Time) (Response, bool) {
	hits, err := s.vectors.Query(ctx, req.Query(), req.Limit())
	if err != nil {
		s.logger.Warn("Vector search failed, falling back to database",
			zap.String("query", req.Query()), zap.Error(err))
		return Response{}, false
	}
	if len(hits) == 0 {
		s.logger.Debug("Vector search returned no results, falling back to database",
			zap.String("query", req.Query()))
		return Response{}, false
	}

	ids := make([]int64, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.ContactID())
	}

	contacts, err := s.contacts.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("Contact hydration failed, falling back to database",
			zap.String("query", req.Query()), zap.Error(err))
		return Response{}, false
	}

	lookup := make(map[int64]domain.Contact, len(contacts))
	for _, c := range contacts {
		lookup[c.ID] = c
	}

	// Hits whose contact no longer exists in the relational store are
	// dropped rather than surfaced half-hydrated.
	matches := make([]Match, 0, len(hits))
	for _, h := range hits {
		c, found := lookup[h.ContactID()]
		if !found {
			continue
		}
		matches = append(matches, Match{
			Contact:     c,
			Score:       h.Score(),
			MatchReason: h.MatchedText(),
		})
	}

	resp := s.finish(ctx, req, start, result.MethodVector, matches,
		fmt.Sprintf("Semantic search found %d relevant contacts", len(matches)))
	return resp, true
}

// searchDatabase interprets the query and runs the structured predicate path.
func (s *Service) searchDatabase(ctx context.Context, req *request.Request, start time.Time) (Response, error) {
	parsed := s.interpreter.Parse(ctx, req.Query())

	contacts, err := s.contacts.Search(ctx, &parsed.Filters, req.Limit())
	if err != nil {
		metrics.SearchQueriesTotal.WithLabelValues(string(result.MethodDatabase), "error").Inc()
		return Response{}, fmt.Errorf("%w: search contacts: %w", domain.ErrStoreUnavailable, err)
	}

	matches := make([]Match, 0, len(contacts))
	for _, c := range contacts {
		matches = append(matches, Match{
			Contact:     c,
			Score:       result.DatabaseScore,
			MatchReason: result.DatabaseReason,
		})
	}

	explanation := parsed.Explanation
	if explanation == "" {
		explanation = "Database search completed"
	}

	return s.finish(ctx, req, start, result.MethodDatabase, matches, explanation), nil
}

// finish stamps timing, records metrics, and appends history best-effort.
func (s *Service) finish(
	ctx context.Context,
	req *request.Request,
	start time.Time,
	method result.Method,
	matches []Match,
	explanation string,
) Response {
	elapsed := int(time.Since(start).Milliseconds())

	metrics.SearchQueriesTotal.WithLabelValues(string(method), "ok").Inc()
	metrics.SearchDuration.WithLabelValues(string(method)).Observe(time.Since(start).Seconds())

	if err := s.history.Append(ctx, req.Query(), len(matches), elapsed); err != nil {
		s.logger.Warn("Failed to append query history",
			zap.String("query", req.Query()), zap.Error(err))
	}

	return Response{
		Query:           req.Query(),
		Results:         matches,
		ResultsCount:    len(matches),
		ExecutionTimeMs: elapsed,
		SearchMethod:    method,
		Explanation:     explanation,
	}
}
