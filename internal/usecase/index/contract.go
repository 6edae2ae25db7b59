package index

import (
	"context"

	"github.com/halcyon-cloud/contactdex/internal/domain"
	"github.com/halcyon-cloud/contactdex/internal/domain/search/result"
)

// VectorRepository defines the storage contract for the contact vector index.
type VectorRepository interface {
	Upsert(ctx context.Context, contactID int64, vec []float32, text string, metadata map[string]string) error
	KNN(ctx context.Context, vec []float32, k int) ([]result.Hit, error)
	Vector(ctx context.Context, contactID int64) ([]float32, error)
	Delete(ctx context.Context, contactID int64) error
	Count(ctx context.Context) (int, error)
	CollectionName() string
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
