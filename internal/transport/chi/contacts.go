package chi

import (
	"encoding/json"
	"net/http"
)

const (
	defaultContactsLimit = 100
	maxContactsLimit     = 1000
)

// CreateContact handles POST /api/v1/contacts.
func (s *Server) CreateContact(w http.ResponseWriter, r *http.Request) {
	var body contactPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if body.FirstName == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "first_name is required")
		return
	}

	c := contactFromPayload(&body)
	c.ID = 0

	created, err := s.contacts.Create(r.Context(), &c)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, contactToPayload(&created))
}

// ListContacts handles GET /api/v1/contacts.
func (s *Server) ListContacts(w http.ResponseWriter, r *http.Request) {
	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", defaultContactsLimit)
	if limit > maxContactsLimit {
		limit = maxContactsLimit
	}
	search := r.URL.Query().Get("search")

	contacts, err := s.contacts.List(r.Context(), search, skip, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]contactPayload, 0, len(contacts))
	for i := range contacts {
		items = append(items, contactToPayload(&contacts[i]))
	}

	writeJSON(w, http.StatusOK, items)
}

// GetContact handles GET /api/v1/contacts/{id}.
func (s *Server) GetContact(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	c, err := s.contacts.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, contactToPayload(&c))
}

// UpdateContact handles PUT /api/v1/contacts/{id}.
func (s *Server) UpdateContact(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var body contactPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if body.FirstName == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "first_name is required")
		return
	}

	c := contactFromPayload(&body)
	c.ID = id

	updated, err := s.contacts.Update(r.Context(), &c)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, contactToPayload(&updated))
}

// DeleteContact handles DELETE /api/v1/contacts/{id}.
func (s *Server) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.contacts.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "contact deleted"})
}
