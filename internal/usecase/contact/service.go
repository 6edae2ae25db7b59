// Package contact handles contact CRUD and keeps the vector index in sync
// with writes. Index maintenance is best-effort: a provider outage never
// fails a write.
package contact

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/halcyon-cloud/contactdex/internal/domain"
)

// Suggestions holds generated query suggestions plus the stats behind them.
type Suggestions struct {
	Suggestions   []string
	TotalContacts int
	TopLocations  []ValueStat
	TopCompanies  []ValueStat
	TopJobTitles  []ValueStat
}

// ValueStat is one grouped column value with its frequency.
type ValueStat struct {
	Value string
	Count int
}

const maxSuggestions = 12

// staticSuggestions seed the suggestion list before data-derived entries.
var staticSuggestions = []string{
	"Show me all contacts",
	"Who has pets?",
	"Find people interested in music",
	"Show me contacts with business needs",
	"Find musicians and artists",
	"Who works in technology?",
	"Show me people in healthcare",
}

// Service handles contact writes and reads.
type Service struct {
	repo   Repository
	index  Indexer
	logger *zap.Logger
}

// New creates a contact service.
func New(repo Repository, index Indexer, logger *zap.Logger) *Service {
	return &Service{repo: repo, index: index, logger: logger}
}

// Create stores a contact and indexes it best-effort.
func (s *Service) Create(ctx context.Context, c *domain.Contact) (domain.Contact, error) {
	id, err := s.repo.Create(ctx, c)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("create contact: %w", err)
	}

	created, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("load created contact: %w", err)
	}

	s.reindex(ctx, &created)
	return created, nil
}

// Update replaces a contact's fields and re-indexes it best-effort.
func (s *Service) Update(ctx context.Context, c *domain.Contact) (domain.Contact, error) {
	if err := s.repo.Update(ctx, c); err != nil {
		return domain.Contact{}, fmt.Errorf("update contact: %w", err)
	}

	updated, err := s.repo.Get(ctx, c.ID)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("load updated contact: %w", err)
	}

	s.reindex(ctx, &updated)
	return updated, nil
}

// Delete removes a contact and its vector.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.index.Remove(ctx, id); err != nil {
		s.logger.Warn("Failed to remove contact from vector index",
			zap.Int64("contact_id", id), zap.Error(err))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}

// Get returns one contact.
func (s *Service) Get(ctx context.Context, id int64) (domain.Contact, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

// List pages through contacts with an optional search term.
func (s *Service) List(ctx context.Context, search string, offset, limit int) ([]domain.Contact, error) {
	contacts, err := s.repo.List(ctx, search, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

// Suggestions builds query suggestions from the most frequent locations,
// companies, and job titles.
func (s *Service) Suggestions(ctx context.Context) (Suggestions, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return Suggestions{}, fmt.Errorf("count contacts: %w", err)
	}

	locations, err := s.topValues(ctx, "location")
	if err != nil {
		return Suggestions{}, err
	}
	companies, err := s.topValues(ctx, "company")
	if err != nil {
		return Suggestions{}, err
	}
	jobs, err := s.topValues(ctx, "job_title")
	if err != nil {
		return Suggestions{}, err
	}

	suggestions := make([]string, 0, maxSuggestions)
	suggestions = append(suggestions, staticSuggestions...)
	for _, l := range locations {
		suggestions = append(suggestions, "Find people in "+l.Value)
	}
	for _, c := range companies {
		suggestions = append(suggestions, "Show me people from "+c.Value)
	}
	for _, j := range jobs {
		suggestions = append(suggestions, "Find "+j.Value+"s")
	}
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}

	return Suggestions{
		Suggestions:   suggestions,
		TotalContacts: total,
		TopLocations:  locations,
		TopCompanies:  companies,
		TopJobTitles:  jobs,
	}, nil
}

func (s *Service) topValues(ctx context.Context, column string) ([]ValueStat, error) {
	values, err := s.repo.TopValues(ctx, column, 3)
	if err != nil {
		return nil, fmt.Errorf("top %s values: %w", column, err)
	}
	stats := make([]ValueStat, 0, len(values))
	for _, v := range values {
		stats = append(stats, ValueStat{Value: v.Value, Count: v.Count})
	}
	return stats, nil
}

func (s *Service) reindex(ctx context.Context, c *domain.Contact) {
	if !s.index.Enabled() {
		return
	}
	if err := s.index.Index(ctx, c); err != nil {
		s.logger.Warn("Failed to index contact",
			zap.Int64("contact_id", c.ID), zap.Error(err))
	}
}
