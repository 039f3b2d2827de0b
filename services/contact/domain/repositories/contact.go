package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/jobdesk/services/contact/domain/models"
)

// ContactRepository is the persistence interface for the Contact aggregate.
// The domain layer owns this interface; infrastructure implements it.
//
// Every method is scoped to one owner. The store is the sole arbiter of the
// account-name uniqueness constraint: Create and Update surface a violation
// as ErrAccountExists, reported atomically at write time.
type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error

	// GetByID returns ErrContactNotFound when no contact matches both id and
	// owner; absent and foreign-owned are indistinguishable.
	GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*models.Contact, error)

	// List returns the owner's contacts, newest first. A non-empty search
	// matches account or company as a case-insensitive substring.
	List(ctx context.Context, ownerID, search string) ([]*models.Contact, error)

	// Update persists the full record; ErrContactNotFound when id+owner match nothing.
	Update(ctx context.Context, contact *models.Contact) error

	// Delete removes and returns the contact; ErrContactNotFound when absent.
	Delete(ctx context.Context, ownerID string, id uuid.UUID) (*models.Contact, error)

	// Exists reports whether a contact with the given ID exists for the owner.
	Exists(ctx context.Context, ownerID string, id uuid.UUID) (bool, error)
}
