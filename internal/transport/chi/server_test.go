package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	chiRouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/halcyon-cloud/contactdex/internal/domain"
	"github.com/halcyon-cloud/contactdex/internal/domain/search/result"
	"github.com/halcyon-cloud/contactdex/internal/domain/search/spec"
	contactrepo "github.com/halcyon-cloud/contactdex/internal/repository/contact"
	contactuc "github.com/halcyon-cloud/contactdex/internal/usecase/contact"
	healthuc "github.com/halcyon-cloud/contactdex/internal/usecase/health"
	indexuc "github.com/halcyon-cloud/contactdex/internal/usecase/index"
	interpretuc "github.com/halcyon-cloud/contactdex/internal/usecase/interpret"
	queryuc "github.com/halcyon-cloud/contactdex/internal/usecase/query"
)

// fakeContacts is an in-memory contact store shared by the usecases under test.
type fakeContacts struct {
	byID map[int64]domain.Contact
}

func (f *fakeContacts) Create(_ context.Context, c *domain.Contact) (int64, error) {
	id := int64(len(f.byID) + 1)
	c.ID = id
	f.byID[id] = *c
	return id, nil
}

func (f *fakeContacts) Update(_ context.Context, c *domain.Contact) error {
	if _, ok := f.byID[c.ID]; !ok {
		return domain.ErrContactNotFound
	}
	f.byID[c.ID] = *c
	return nil
}

func (f *fakeContacts) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrContactNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeContacts) Get(_ context.Context, id int64) (domain.Contact, error) {
	c, ok := f.byID[id]
	if !ok {
		return domain.Contact{}, domain.ErrContactNotFound
	}
	return c, nil
}

func (f *fakeContacts) GetByIDs(_ context.Context, ids []int64) ([]domain.Contact, error) {
	var out []domain.Contact
	for _, id := range ids {
		if c, ok := f.byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeContacts) Search(_ context.Context, sp *spec.FilterSpec, limit int) ([]domain.Contact, error) {
	var out []domain.Contact
	for _, c := range f.byID {
		if sp.Keyword == "" || strings.Contains(strings.ToLower(c.FirstName), strings.ToLower(sp.Keyword)) {
			out = append(out, c)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeContacts) List(_ context.Context, _ string, _, limit int) ([]domain.Contact, error) {
	var out []domain.Contact
	for _, c := range f.byID {
		out = append(out, c)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeContacts) Count(_ context.Context) (int, error) { return len(f.byID), nil }

func (f *fakeContacts) TopValues(_ context.Context, _ string, _ int) ([]contactrepo.ValueCount, error) {
	return nil, nil
}

type fakeHistory struct {
	entries []domain.QueryHistoryEntry
}

func (f *fakeHistory) Append(_ context.Context, queryText string, resultsCount, executionTimeMs int) error {
	f.entries = append(f.entries, domain.QueryHistoryEntry{
		ID:              int64(len(f.entries) + 1),
		QueryText:       queryText,
		ResultsCount:    resultsCount,
		ExecutionTimeMs: executionTimeMs,
		CreatedAt:       time.Now(),
	})
	return nil
}

func (f *fakeHistory) List(_ context.Context, _, _ int) ([]domain.QueryHistoryEntry, error) {
	return f.entries, nil
}

type fakeVectorRepo struct{}

func (fakeVectorRepo) Upsert(context.Context, int64, []float32, string, map[string]string) error {
	return nil
}
func (fakeVectorRepo) KNN(context.Context, []float32, int) ([]result.Hit, error) { return nil, nil }
func (fakeVectorRepo) Vector(context.Context, int64) ([]float32, error)          { return nil, nil }
func (fakeVectorRepo) Delete(context.Context, int64) error                       { return nil }
func (fakeVectorRepo) Count(context.Context) (int, error)                        { return 0, nil }
func (fakeVectorRepo) CollectionName() string                                    { return "contacts_embeddings" }

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func newTestRouter(t *testing.T) (*chiRouter.Mux, *fakeContacts, *fakeHistory) {
	t.Helper()
	logger := zap.NewNop()

	contacts := &fakeContacts{byID: map[int64]domain.Contact{
		1: {ID: 1, FirstName: "Jane", LastName: "Miller", JobTitle: "Engineer"},
	}}
	history := &fakeHistory{}

	// No embedder configured: queries take the database path.
	indexSvc := indexuc.New(fakeVectorRepo{}, nil, logger)
	interpreter := interpretuc.New(nil, logger)
	querySvc := queryuc.New(interpreter, indexSvc, contacts, history, logger)
	contactSvc := contactuc.New(contacts, indexSvc, logger)
	healthSvc := healthuc.New(okPinger{}, okPinger{}, nil)

	server := NewServer(querySvc, contactSvc, indexSvc, history, contacts, healthSvc)
	r := chiRouter.NewRouter()
	server.Mount(r)
	return r, contacts, history
}

func TestQueryEndpoint_DatabasePath(t *testing.T) {
	r, _, history := newTestRouter(t)

	body := `{"query": "jane", "limit": 10}`
	req := httptest.NewRequest("POST", "/api/v1/query", strings.NewReader(body))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp queryResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SearchMethod != "database" {
		t.Errorf("search_method = %q, want database", resp.SearchMethod)
	}
	if resp.ResultsCount != 1 || len(resp.Results) != 1 {
		t.Fatalf("results_count = %d, want 1", resp.ResultsCount)
	}
	if resp.Results[0].SimilarityScore != result.DatabaseScore {
		t.Errorf("similarity_score = %f, want %f", resp.Results[0].SimilarityScore, result.DatabaseScore)
	}
	if resp.Results[0].Contact.Name != "Jane Miller" {
		t.Errorf("contact name = %q", resp.Results[0].Contact.Name)
	}
	if resp.Explanation == "" {
		t.Error("expected an explanation")
	}
	if len(history.entries) != 1 {
		t.Errorf("history entries = %d, want 1", len(history.entries))
	}
}

func TestQueryEndpoint_EmptyQuery400(t *testing.T) {
	r, _, _ := newTestRouter(t)

	req := httptest.NewRequest("POST", "/api/v1/query", strings.NewReader(`{"query": ""}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}

	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeBadRequest {
		t.Errorf("code = %q, want %q", errResp.Code, codeBadRequest)
	}
}

func TestGetContact_NotFound404(t *testing.T) {
	r, _, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/api/v1/contacts/99", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}

	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeNotFound {
		t.Errorf("code = %q, want %q", errResp.Code, codeNotFound)
	}
}

func TestCreateContact_MissingFirstName400(t *testing.T) {
	r, _, _ := newTestRouter(t)

	req := httptest.NewRequest("POST", "/api/v1/contacts/", strings.NewReader(`{"last_name": "Miller"}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestSemanticSearch_NoProvider503(t *testing.T) {
	r, _, _ := newTestRouter(t)

	req := httptest.NewRequest("POST", "/api/v1/search/semantic", strings.NewReader(`{"query": "engineers"}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
}

func TestQueryHistoryEndpoint(t *testing.T) {
	r, _, history := newTestRouter(t)
	_ = history.Append(context.Background(), "earlier search", 3, 12)

	req := httptest.NewRequest("GET", "/api/v1/query/history", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var items []historyItem
	if err := json.NewDecoder(rr.Body).Decode(&items); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(items) != 1 || items[0].QueryText != "earlier search" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestHealthEndpoint(t *testing.T) {
	r, _, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected health body: %s", rr.Body.String())
	}
}
