package chi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/halcyon-cloud/contactdex/internal/domain/search/request"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// Query handles POST /api/v1/query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var body queryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	req, err := request.New(body.Query, body.Limit, body.UseVectorSearch)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	resp, err := s.query.Execute(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, queryResponseFromResult(&resp))
}

// QueryHistory handles GET /api/v1/query/history.
func (s *Server) QueryHistory(w http.ResponseWriter, r *http.Request) {
	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", defaultHistoryLimit)
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	entries, err := s.history.List(r.Context(), skip, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]historyItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, historyItem{
			ID:              e.ID,
			QueryText:       e.QueryText,
			ResultsCount:    e.ResultsCount,
			ExecutionTimeMs: e.ExecutionTimeMs,
			CreatedAt:       e.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, items)
}

// QuerySuggestions handles GET /api/v1/query/suggestions.
func (s *Server) QuerySuggestions(w http.ResponseWriter, r *http.Request) {
	sugg, err := s.contacts.Suggestions(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, suggestionsResponse{
		Suggestions:   sugg.Suggestions,
		TotalContacts: sugg.TotalContacts,
		Stats: suggestionsStats{
			TopLocations: valueStatsToItems(sugg.TopLocations),
			TopCompanies: valueStatsToItems(sugg.TopCompanies),
			TopJobs:      valueStatsToItems(sugg.TopJobTitles),
		},
	})
}

// queryInt reads an integer query parameter with a default.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
