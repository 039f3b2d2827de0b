package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ghuser/jobdesk/pkg/logger"
	"github.com/ghuser/jobdesk/pkg/notifier"
	"github.com/ghuser/jobdesk/services/contact/domain/models"
	"github.com/ghuser/jobdesk/services/contact/domain/repositories"
)

// ContactService coordinates contact mutations: field normalization,
// ownership scoping, and change notification. Uniqueness of the account name
// is arbitrated by the store alone; there is no read-before-write check here.
type ContactService struct {
	repo repositories.ContactRepository
	bus  notifier.Publisher
	log  logger.Logger
}

// NewContactService returns a ContactService wired with the given repository and bus.
func NewContactService(repo repositories.ContactRepository, bus notifier.Publisher, log logger.Logger) *ContactService {
	return &ContactService{repo: repo, bus: bus, log: log}
}

// Create persists a new contact owned by ownerID and publishes contact.added.
func (s *ContactService) Create(ctx context.Context, ownerID string, in *models.CreateContactInput) (*models.Contact, error) {
	now := time.Now().UTC()

	typ := in.Type
	if typ == "" {
		typ = models.TypeCustomer
	}

	c := &models.Contact{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Account:   strings.TrimSpace(in.Account),
		Company:   strings.TrimSpace(in.Company),
		Email:     normalizeEmail(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Type:      typ,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}

	s.publish(ctx, notifier.TopicContactAdded, c)
	return c, nil
}

// Update merges the non-nil input fields into the stored contact and
// publishes contact.updated. Absent and foreign-owned ids both yield
// ErrContactNotFound.
func (s *ContactService) Update(ctx context.Context, ownerID string, id uuid.UUID, in *models.UpdateContactInput) (*models.Contact, error) {
	c, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}

	if in.Account != nil {
		c.Account = strings.TrimSpace(*in.Account)
	}
	if in.Company != nil {
		c.Company = strings.TrimSpace(*in.Company)
	}
	if in.Email != nil {
		c.Email = normalizeEmail(*in.Email)
	}
	if in.Phone != nil {
		c.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.FirstName != nil {
		c.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		c.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Type != nil {
		c.Type = *in.Type
	}
	c.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}

	s.publish(ctx, notifier.TopicContactUpdated, c)
	return c, nil
}

// Delete removes the contact and publishes contact.deleted carrying only the
// id. No cascade: jobs referencing the contact are left untouched.
func (s *ContactService) Delete(ctx context.Context, ownerID string, id uuid.UUID) (uuid.UUID, error) {
	deleted, err := s.repo.Delete(ctx, ownerID, id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("delete contact: %w", err)
	}

	s.publish(ctx, notifier.TopicContactDeleted, notifier.Deleted{ID: deleted.ID})
	return deleted.ID, nil
}

// Get retrieves one contact scoped to the owner.
func (s *ContactService) Get(ctx context.Context, ownerID string, id uuid.UUID) (*models.Contact, error) {
	c, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

// List returns the owner's contacts. The search filter only applies from two
// characters up; shorter queries return the full owner-scoped set.
func (s *ContactService) List(ctx context.Context, ownerID, search string) ([]*models.Contact, error) {
	if utf8.RuneCountInString(search) < 2 {
		search = ""
	}
	contacts, err := s.repo.List(ctx, ownerID, search)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

// publish is best-effort: a notification failure never fails the mutation
// that triggered it.
func (s *ContactService) publish(ctx context.Context, topic string, payload any) {
	if err := s.bus.Publish(ctx, topic, payload); err != nil {
		s.log.WarnContext(ctx, "change notification dropped", "topic", topic, "error", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
