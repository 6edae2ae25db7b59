// Package vector persists contact embeddings and runs nearest-neighbor search.
package vector

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/halcyon-cloud/contactdex/internal/db"
	dbredis "github.com/halcyon-cloud/contactdex/internal/db/redis"
	"github.com/halcyon-cloud/contactdex/internal/domain"
	"github.com/halcyon-cloud/contactdex/internal/domain/search/result"
)

const (
	keyPrefix  = domain.KeyPrefix + "contacts:"
	indexName  = keyPrefix + "idx"
	collection = "contacts_embeddings"
)

// Reserved hash fields; everything else in the hash is treated as metadata.
const (
	fieldVector    = "vector"
	fieldText      = "text"
	fieldContactID = "contact_id"
)

// store is the consumer interface for vector index operations.
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// HNSWConfig tunes the FT vector index build.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Repo implements the vector index over a Redis FT index.
type Repo struct {
	store store
	dim   int
	hnsw  HNSWConfig
}

// New creates a vector repository for vectors of the given dimension.
func New(s store, dim int) *Repo {
	return &Repo{store: s, dim: dim, hnsw: HNSWConfig{M: 16, EFConstruct: 200}}
}

// WithHNSW overrides HNSW build parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	if cfg.M > 0 {
		r.hnsw.M = cfg.M
	}
	if cfg.EFConstruct > 0 {
		r.hnsw.EFConstruct = cfg.EFConstruct
	}
	return r
}

// EnsureIndex creates the FT index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, indexName)
	if err != nil {
		return fmt.Errorf("probe index: %w", err)
	}
	if exists {
		return nil
	}

	def, err := db.NewIndex(indexName).
		Prefix(keyPrefix).
		Numeric(fieldContactID).
		VectorHNSW(fieldVector, r.dim, db.DistanceCosine, r.hnsw.M, r.hnsw.EFConstruct).
		Build()
	if err != nil {
		return fmt.Errorf("build index definition: %w", err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// Upsert stores or replaces the embedding document for a contact.
func (r *Repo) Upsert(ctx context.Context, contactID int64, vec []float32, text string, metadata map[string]string) error {
	fields := make(map[string]string, len(metadata)+3)
	for k, v := range metadata {
		if k == fieldVector || k == fieldText {
			continue
		}
		fields[k] = v
	}
	fields[fieldContactID] = strconv.FormatInt(contactID, 10)
	fields[fieldVector] = dbredis.VectorToBlob(vec)
	fields[fieldText] = text

	if err := r.store.HSet(ctx, key(contactID), fields); err != nil {
		return fmt.Errorf("upsert embedding %d: %w", contactID, err)
	}
	return nil
}

// KNN returns up to k nearest neighbors of vec, best first.
func (r *Repo) KNN(ctx context.Context, vec []float32, k int) ([]result.Hit, error) {
	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    indexName,
		Vector:       vec,
		K:            k,
		ReturnFields: []string{fieldContactID, fieldText, "name", "job_title", "company", "location", "__vector_score"},
	})
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	hits := make([]result.Hit, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		id, ok := entryContactID(entry)
		if !ok {
			continue
		}

		text := entry.Fields[fieldText]
		metadata := make(map[string]string, len(entry.Fields))
		for k, v := range entry.Fields {
			if k == fieldText || k == fieldContactID {
				continue
			}
			metadata[k] = v
		}

		hits = append(hits, result.New(id, entry.Score, text, metadata))
	}
	return hits, nil
}

// Vector returns the stored embedding for a contact, or db.ErrKeyNotFound.
func (r *Repo) Vector(ctx context.Context, contactID int64) ([]float32, error) {
	fields, err := r.store.HGetAll(ctx, key(contactID))
	if err != nil {
		return nil, fmt.Errorf("load embedding %d: %w", contactID, err)
	}
	blob, ok := fields[fieldVector]
	if !ok || blob == "" {
		return nil, db.ErrKeyNotFound
	}

	vec, err := dbredis.BlobToVector(blob)
	if err != nil {
		return nil, fmt.Errorf("decode embedding %d: %w", contactID, err)
	}
	return vec, nil
}

// Delete removes a contact's embedding. Deleting an absent id is not an error.
func (r *Repo) Delete(ctx context.Context, contactID int64) error {
	if err := r.store.Del(ctx, key(contactID)); err != nil {
		return fmt.Errorf("delete embedding %d: %w", contactID, err)
	}
	return nil
}

// Count returns the number of indexed embeddings.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, indexName, "*")
	if err != nil {
		return 0, fmt.Errorf("count embeddings: %w", err)
	}
	return n, nil
}

// CollectionName identifies the backing collection in stats responses.
func (r *Repo) CollectionName() string { return collection }

func key(contactID int64) string {
	return keyPrefix + strconv.FormatInt(contactID, 10)
}

// entryContactID extracts the contact id from the returned field, falling
// back to the key suffix when RETURN fields were dropped by the server.
func entryContactID(entry db.SearchEntry) (int64, bool) {
	if raw, ok := entry.Fields[fieldContactID]; ok {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return id, true
		}
	}
	suffix := strings.TrimPrefix(entry.Key, keyPrefix)
	id, err := strconv.ParseInt(suffix, 10, 64)
	return id, err == nil
}
