package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/jobdesk/pkg/logger"
	"github.com/ghuser/jobdesk/pkg/notifier"
	contactdomain "github.com/ghuser/jobdesk/services/contact/domain"
	contactmodels "github.com/ghuser/jobdesk/services/contact/domain/models"
	contactrepos "github.com/ghuser/jobdesk/services/contact/domain/repositories"
	itemrepos "github.com/ghuser/jobdesk/services/item/domain/repositories"
	jobdomain "github.com/ghuser/jobdesk/services/job/domain"
	"github.com/ghuser/jobdesk/services/job/domain/models"
	"github.com/ghuser/jobdesk/services/job/domain/repositories"
)

// JobService coordinates job mutations and reads. Writes run referential
// checks against the caller's contacts and items before anything is
// persisted; reads expand references to full sub-records and degrade
// gracefully when a reference was deleted after the fact.
//
// The checks are not atomic with concurrent deletes of the referenced
// entities. A job can end up pointing at a contact or item removed moments
// after validation; reads tolerate that instead of erroring.
type JobService struct {
	repo     repositories.JobRepository
	contacts contactrepos.ContactRepository
	items    itemrepos.ItemRepository
	bus      notifier.Publisher
	log      logger.Logger
}

// NewJobService returns a JobService wired with the given repositories and bus.
func NewJobService(
	repo repositories.JobRepository,
	contacts contactrepos.ContactRepository,
	items itemrepos.ItemRepository,
	bus notifier.Publisher,
	log logger.Logger,
) *JobService {
	return &JobService{repo: repo, contacts: contacts, items: items, bus: bus, log: log}
}

// Create persists a new job owned by ownerID and publishes job.added with the
// resolved representation. Supplier, customer, and every line item must
// resolve to entities owned by the caller; the first failure aborts the whole
// create with nothing persisted. Uniqueness of (reference, owner) is
// arbitrated by the store alone.
func (s *JobService) Create(ctx context.Context, ownerID string, in *models.CreateJobInput) (*models.ResolvedJob, error) {
	lines := normalizeLines(in.Lines)

	if err := s.checkReferences(ctx, ownerID, in.SupplierID, in.CustomerID, lines); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	j := &models.Job{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Reference:  strings.TrimSpace(in.Reference),
		SupplierID: in.SupplierID,
		CustomerID: in.CustomerID,
		Date:       in.Date.UTC(),
		Lines:      lines,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, j); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	resolved, err := s.resolve(ctx, ownerID, j)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.publish(ctx, notifier.TopicJobAdded, resolved)
	return resolved, nil
}

// Update merges the non-nil input fields into the stored job, re-runs the
// same referential checks as create, and publishes job.updated. Absent and
// foreign-owned ids both yield ErrJobNotFound.
func (s *JobService) Update(ctx context.Context, ownerID string, id uuid.UUID, in *models.UpdateJobInput) (*models.ResolvedJob, error) {
	j, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}

	if in.Reference != nil {
		j.Reference = strings.TrimSpace(*in.Reference)
	}
	if in.SupplierID != nil {
		j.SupplierID = *in.SupplierID
	}
	if in.CustomerID != nil {
		j.CustomerID = *in.CustomerID
	}
	if in.Date != nil {
		j.Date = in.Date.UTC()
	}
	if in.Lines != nil {
		j.Lines = normalizeLines(*in.Lines)
	}
	j.UpdatedAt = time.Now().UTC()

	if err := s.checkReferences(ctx, ownerID, j.SupplierID, j.CustomerID, j.Lines); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, j); err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}

	resolved, err := s.resolve(ctx, ownerID, j)
	if err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}

	s.publish(ctx, notifier.TopicJobUpdated, resolved)
	return resolved, nil
}

// Delete removes the job and publishes job.deleted carrying only the id.
// Unlike the other entities, the deleted job itself is returned, resolved.
func (s *JobService) Delete(ctx context.Context, ownerID string, id uuid.UUID) (*models.ResolvedJob, error) {
	deleted, err := s.repo.Delete(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("delete job: %w", err)
	}

	resolved, err := s.resolve(ctx, ownerID, deleted)
	if err != nil {
		return nil, fmt.Errorf("delete job: %w", err)
	}

	s.publish(ctx, notifier.TopicJobDeleted, notifier.Deleted{ID: deleted.ID})
	return resolved, nil
}

// Get retrieves one job scoped to the owner, with references expanded. A
// supplier or customer deleted since the last write comes back null; line
// entries whose item no longer resolves are dropped.
func (s *JobService) Get(ctx context.Context, ownerID string, id uuid.UUID) (*models.ResolvedJob, error) {
	j, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	resolved, err := s.resolve(ctx, ownerID, j)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return resolved, nil
}

// List returns the owner's jobs by date, newest first. Jobs survive the
// deletion of a referenced contact: the supplier or customer comes back null
// rather than the job vanishing from the result.
func (s *JobService) List(ctx context.Context, ownerID string) ([]*models.ResolvedJob, error) {
	jobs, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	resolved := make([]*models.ResolvedJob, 0, len(jobs))
	for _, j := range jobs {
		rj, err := s.resolve(ctx, ownerID, j)
		if err != nil {
			return nil, fmt.Errorf("list jobs: %w", err)
		}
		resolved = append(resolved, rj)
	}
	return resolved, nil
}

// checkReferences verifies that supplier, customer, and every line item
// resolve to entities owned by the caller. The first failure is returned as
// a NotFound sentinel naming the reference.
func (s *JobService) checkReferences(ctx context.Context, ownerID string, supplierID, customerID uuid.UUID, lines []models.Line) error {
	ok, err := s.contacts.Exists(ctx, ownerID, supplierID)
	if err != nil {
		return fmt.Errorf("check supplier: %w", err)
	}
	if !ok {
		return jobdomain.ErrSupplierNotFound
	}

	ok, err = s.contacts.Exists(ctx, ownerID, customerID)
	if err != nil {
		return fmt.Errorf("check customer: %w", err)
	}
	if !ok {
		return jobdomain.ErrCustomerNotFound
	}

	if len(lines) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ItemID)
	}
	found, err := s.items.GetByIDs(ctx, ownerID, ids)
	if err != nil {
		return fmt.Errorf("check line items: %w", err)
	}
	for _, l := range lines {
		if _, ok := found[l.ItemID]; !ok {
			return jobdomain.ErrLineItemNotFound
		}
	}
	return nil
}

// resolve expands a stored job into its read model. Unresolvable supplier or
// customer references are left nil; unresolvable line entries are dropped.
func (s *JobService) resolve(ctx context.Context, ownerID string, j *models.Job) (*models.ResolvedJob, error) {
	supplier, err := s.resolveContact(ctx, ownerID, j.SupplierID)
	if err != nil {
		return nil, err
	}
	customer, err := s.resolveContact(ctx, ownerID, j.CustomerID)
	if err != nil {
		return nil, err
	}

	lines := make([]models.ResolvedLine, 0, len(j.Lines))
	if len(j.Lines) > 0 {
		ids := make([]uuid.UUID, 0, len(j.Lines))
		for _, l := range j.Lines {
			ids = append(ids, l.ItemID)
		}
		found, err := s.items.GetByIDs(ctx, ownerID, ids)
		if err != nil {
			return nil, fmt.Errorf("resolve line items: %w", err)
		}
		for _, l := range j.Lines {
			item, ok := found[l.ItemID]
			if !ok {
				continue
			}
			lines = append(lines, models.ResolvedLine{Item: item, Price: l.Price, Quantity: l.Quantity})
		}
	}

	return &models.ResolvedJob{
		ID:        j.ID,
		Reference: j.Reference,
		Supplier:  supplier,
		Customer:  customer,
		Date:      j.Date,
		Lines:     lines,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}, nil
}

func (s *JobService) resolveContact(ctx context.Context, ownerID string, id uuid.UUID) (*contactmodels.Contact, error) {
	c, err := s.contacts.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, contactdomain.ErrContactNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve contact: %w", err)
	}
	return c, nil
}

// normalizeLines applies the quantity default of 1.
func normalizeLines(in []models.LineInput) []models.Line {
	lines := make([]models.Line, 0, len(in))
	for _, l := range in {
		q := l.Quantity
		if q == 0 {
			q = 1
		}
		lines = append(lines, models.Line{ItemID: l.ItemID, Price: l.Price, Quantity: q})
	}
	return lines
}

// publish is best-effort: a notification failure never fails the mutation
// that triggered it.
func (s *JobService) publish(ctx context.Context, topic string, payload any) {
	if err := s.bus.Publish(ctx, topic, payload); err != nil {
		s.log.WarnContext(ctx, "change notification dropped", "topic", topic, "error", err)
	}
}
