package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/jobdesk/services/item/domain/models"
)

// ItemRepository is the persistence interface for the Item aggregate.
// The domain layer owns this interface; infrastructure implements it.
// Every method is scoped to one owner.
type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error

	// GetByID returns ErrItemNotFound when no item matches both id and owner.
	GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*models.Item, error)

	// GetByIDs returns the subset of the given ids that exist for the owner,
	// keyed by id. Missing ids are simply absent from the result.
	GetByIDs(ctx context.Context, ownerID string, ids []uuid.UUID) (map[uuid.UUID]*models.Item, error)

	// List returns the owner's items, newest first. A non-empty search
	// matches name or code as a case-insensitive substring.
	List(ctx context.Context, ownerID, search string) ([]*models.Item, error)

	// Update persists the full record; ErrItemNotFound when id+owner match nothing.
	Update(ctx context.Context, item *models.Item) error

	// Delete removes and returns the item; ErrItemNotFound when absent.
	Delete(ctx context.Context, ownerID string, id uuid.UUID) (*models.Item, error)

	// Exists reports whether an item with the given ID exists for the owner.
	Exists(ctx context.Context, ownerID string, id uuid.UUID) (bool, error)
}
