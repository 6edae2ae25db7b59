// Package index maintains the contact vector index and serves
// nearest-neighbor lookups over it.
package index

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/halcyon-cloud/contactdex/internal/db"
	"github.com/halcyon-cloud/contactdex/internal/domain"
	"github.com/halcyon-cloud/contactdex/internal/domain/search/result"
)

// Stats describes the current state of the vector index.
type Stats struct {
	Collection string
	Vectors    int
	Enabled    bool
}

// Service embeds contacts and keeps the vector index in sync.
// embed may be nil when no provider is configured; the service then
// reports Enabled() == false and every lookup fails fast.
type Service struct {
	vectors VectorRepository
	embed   Embedder
	logger  *zap.Logger
}

// New creates an index service. embed can be nil.
func New(vectors VectorRepository, embed Embedder, logger *zap.Logger) *Service {
	return &Service{vectors: vectors, embed: embed, logger: logger}
}

// Enabled reports whether an embedding provider is configured.
func (s *Service) Enabled() bool { return s.embed != nil }

// Index embeds the contact's searchable text and upserts it into the index.
// Contacts with no searchable text are skipped.
func (s *Service) Index(ctx context.Context, c *domain.Contact) error {
	if !s.Enabled() {
		return domain.ErrProviderNotConfigured
	}

	text := c.SearchableText()
	if strings.TrimSpace(text) == "" {
		s.logger.Debug("Skipping contact with empty searchable text", zap.Int64("contact_id", c.ID))
		return nil
	}

	embResult, err := s.embed.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed contact %d: %w", c.ID, err)
	}

	if err := s.vectors.Upsert(ctx, c.ID, embResult.Embedding, text, c.IndexMetadata()); err != nil {
		return fmt.Errorf("upsert contact %d: %w", c.ID, err)
	}

	return nil
}

// Remove deletes the contact's vector. Removing an unindexed contact is a no-op.
func (s *Service) Remove(ctx context.Context, contactID int64) error {
	if err := s.vectors.Delete(ctx, contactID); err != nil {
		return fmt.Errorf("remove contact %d: %w", contactID, err)
	}
	return nil
}

// Query embeds the text and returns the k nearest contacts.
func (s *Service) Query(ctx context.Context, text string, limit int) ([]result.Hit, error) {
	if !s.Enabled() {
		return nil, domain.ErrProviderNotConfigured
	}

	embResult, err := s.embed.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.vectors.KNN(ctx, embResult.Embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}
	return hits, nil
}

// SimilarTo returns the contacts nearest to an already-indexed contact,
// excluding the contact itself.
func (s *Service) SimilarTo(ctx context.Context, contactID int64, limit int) ([]result.Hit, error) {
	vec, err := s.vectors.Vector(ctx, contactID)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrContactNotFound
		}
		return nil, fmt.Errorf("load vector for contact %d: %w", contactID, err)
	}

	// Ask for one extra hit so the contact itself can be dropped.
	hits, err := s.vectors.KNN(ctx, vec, limit+1)
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}

	filtered := make([]result.Hit, 0, len(hits))
	for _, h := range hits {
		if h.ContactID() == contactID {
			continue
		}
		filtered = append(filtered, h)
	}
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

// Stats reports collection name, vector count, and provider availability.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	count, err := s.vectors.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count vectors: %w", err)
	}
	return Stats{
		Collection: s.vectors.CollectionName(),
		Vectors:    count,
		Enabled:    s.Enabled(),
	}, nil
}
