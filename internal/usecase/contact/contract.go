package contact

import (
	"context"

	"github.com/halcyon-cloud/contactdex/internal/domain"
	"github.com/halcyon-cloud/contactdex/internal/repository/contact"
)

// Repository defines the storage contract for contacts.
type Repository interface {
	Create(ctx context.Context, c *domain.Contact) (int64, error)
	Update(ctx context.Context, c *domain.Contact) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (domain.Contact, error)
	List(ctx context.Context, search string, offset, limit int) ([]domain.Contact, error)
	Count(ctx context.Context) (int, error)
	TopValues(ctx context.Context, column string, n int) ([]contact.ValueCount, error)
}

// Indexer keeps the vector index in sync with contact writes.
type Indexer interface {
	Enabled() bool
	Index(ctx context.Context, c *domain.Contact) error
	Remove(ctx context.Context, contactID int64) error
}
