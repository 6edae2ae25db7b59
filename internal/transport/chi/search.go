package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/halcyon-cloud/contactdex/internal/domain"
	"github.com/halcyon-cloud/contactdex/internal/domain/search/request"
	"github.com/halcyon-cloud/contactdex/internal/domain/search/result"
)

const defaultSimilarLimit = 5

// SemanticSearch handles POST /api/v1/search/semantic.
func (s *Server) SemanticSearch(w http.ResponseWriter, r *http.Request) {
	var body semanticSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if body.Query == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "query is required")
		return
	}
	limit := body.Limit
	if limit <= 0 {
		limit = request.DefaultLimit
	}
	if limit > request.MaxLimit {
		limit = request.MaxLimit
	}

	hits, err := s.index.Query(r.Context(), body.Query, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	results, err := s.hydrateHits(r.Context(), hits)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, semanticSearchResponse{
		Query:        body.Query,
		Results:      results,
		TotalResults: len(results),
	})
}

// SimilarContacts handles GET /api/v1/search/similar/{id}.
func (s *Server) SimilarContacts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	limit := queryInt(r, "limit", defaultSimilarLimit)
	if limit > request.MaxLimit {
		limit = request.MaxLimit
	}

	// Verify the contact exists so a missing row reads as 404, not an
	// empty result.
	if _, err := s.contacts.Get(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	hits, err := s.index.SimilarTo(r.Context(), id, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	results, err := s.hydrateHits(r.Context(), hits)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, semanticSearchResponse{
		Results:      results,
		TotalResults: len(results),
	})
}

// SearchStats handles GET /api/v1/search/stats.
func (s *Server) SearchStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.index.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"collection":    stats.Collection,
		"total_vectors": stats.Vectors,
		"enabled":       stats.Enabled,
	})
}

// hydrateHits loads full contacts for hits, dropping hits whose contact no
// longer exists.
func (s *Server) hydrateHits(ctx context.Context, hits []result.Hit) ([]matchItem, error) {
	ids := make([]int64, 0, len(hits))
	for i := range hits {
		ids = append(ids, hits[i].ContactID())
	}

	contacts, err := s.reader.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	lookup := make(map[int64]domain.Contact, len(contacts))
	for _, c := range contacts {
		lookup[c.ID] = c
	}

	results := make([]matchItem, 0, len(hits))
	for i := range hits {
		h := &hits[i]
		c, found := lookup[h.ContactID()]
		if !found {
			continue
		}
		results = append(results, matchItem{
			Contact:         contactToSummary(&c),
			SimilarityScore: h.Score(),
			MatchReason:     h.MatchedText(),
		})
	}
	return results, nil
}

// pathID parses the {id} path parameter, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid contact id")
		return 0, false
	}
	return id, true
}
