// Package chi exposes the HTTP API: natural-language query, semantic search,
// contact CRUD, history, and operational endpoints.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/halcyon-cloud/contactdex/internal/domain"
	logpkg "github.com/halcyon-cloud/contactdex/internal/logger"
	contactuc "github.com/halcyon-cloud/contactdex/internal/usecase/contact"
	healthuc "github.com/halcyon-cloud/contactdex/internal/usecase/health"
	indexuc "github.com/halcyon-cloud/contactdex/internal/usecase/index"
	queryuc "github.com/halcyon-cloud/contactdex/internal/usecase/query"
)

// errorCode is the machine-readable error class in error responses.
type errorCode string

const (
	codeBadRequest       errorCode = "bad_request"
	codeUnauthorized     errorCode = "unauthorized"
	codeNotFound         errorCode = "contact_not_found"
	codeProviderError    errorCode = "embedding_provider_error"
	codeProviderNotReady errorCode = "vector_search_unavailable"
	codeStoreUnavailable errorCode = "store_unavailable"
	codeInternalError    errorCode = "internal_error"
)

// errorResponse is the uniform error envelope.
type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// HistoryLister pages through recorded queries.
type HistoryLister interface {
	List(ctx context.Context, offset, limit int) ([]domain.QueryHistoryEntry, error)
}

// ContactReader batch-loads contacts for hit hydration.
type ContactReader interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Contact, error)
}

// Server holds the HTTP handlers. Handlers log through the request-scoped
// logger stored in the request context by the wide-event middleware.
type Server struct {
	query         *queryuc.Service
	contacts      *contactuc.Service
	index         *indexuc.Service
	history       HistoryLister
	reader        ContactReader
	health        *healthuc.Service
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	query *queryuc.Service,
	contacts *contactuc.Service,
	index *indexuc.Service,
	history HistoryLister,
	reader ContactReader,
	health *healthuc.Service,
) *Server {
	s := &Server{
		query:    query,
		contacts: contacts,
		index:    index,
		history:  history,
		reader:   reader,
		health:   health,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrContactNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrProviderNotConfigured, http.StatusServiceUnavailable, codeProviderNotReady),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeProviderError),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, codeStoreUnavailable),
	}
	return s
}

// Mount attaches all routes to the router.
func (s *Server) Mount(r chi.Router) {
	r.Get("/health", s.Health)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/query", s.Query)
		r.Get("/query/history", s.QueryHistory)
		r.Get("/query/suggestions", s.QuerySuggestions)

		r.Post("/search/semantic", s.SemanticSearch)
		r.Get("/search/similar/{id}", s.SimilarContacts)
		r.Get("/search/stats", s.SearchStats)

		r.Route("/contacts", func(r chi.Router) {
			r.Post("/", s.CreateContact)
			r.Get("/", s.ListContacts)
			r.Get("/{id}", s.GetContact)
			r.Put("/{id}", s.UpdateContact)
			r.Delete("/{id}", s.DeleteContact)
		})
	})
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrContactNotFound,
		domain.ErrInvalidRequest,
		domain.ErrProviderNotConfigured,
		domain.ErrEmbeddingProviderError,
		domain.ErrStoreUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	logpkg.FromContext(r.Context()).Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
