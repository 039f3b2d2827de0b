package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/jobdesk/services/job/domain/models"
)

// JobRepository is the persistence interface for the Job aggregate.
// The domain layer owns this interface; infrastructure implements it.
//
// Every method is scoped to one owner. The store is the sole arbiter of the
// (reference, owner) uniqueness constraint: Create and Update surface a
// violation as ErrReferenceExists, reported atomically at write time.
// Referential checks against contacts and items are the coordinator's job,
// not the repository's.
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error

	// GetByID returns ErrJobNotFound when no job matches both id and owner.
	GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*models.Job, error)

	// List returns the owner's jobs ordered by date, newest first.
	List(ctx context.Context, ownerID string) ([]*models.Job, error)

	// Update persists the full record; ErrJobNotFound when id+owner match nothing.
	Update(ctx context.Context, job *models.Job) error

	// Delete removes and returns the job; ErrJobNotFound when absent.
	Delete(ctx context.Context, ownerID string, id uuid.UUID) (*models.Job, error)
}
