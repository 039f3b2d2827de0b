package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/ghuser/jobdesk/pkg/config"
	"github.com/ghuser/jobdesk/pkg/logger"
	"github.com/ghuser/jobdesk/pkg/notifier"
	contactdomain "github.com/ghuser/jobdesk/services/contact/domain"
	"github.com/ghuser/jobdesk/services/contact/domain/models"
)

// fakeContactRepo is an in-memory ContactRepository. It enforces the global
// account uniqueness the way the real store does: at write time.
type fakeContactRepo struct {
	contacts   []*models.Contact
	lastSearch string
}

func (r *fakeContactRepo) Create(_ context.Context, c *models.Contact) error {
	for _, existing := range r.contacts {
		if existing.Account == c.Account {
			return contactdomain.ErrAccountExists
		}
	}
	cp := *c
	r.contacts = append(r.contacts, &cp)
	return nil
}

func (r *fakeContactRepo) GetByID(_ context.Context, ownerID string, id uuid.UUID) (*models.Contact, error) {
	for _, c := range r.contacts {
		if c.ID == id && c.OwnerID == ownerID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, contactdomain.ErrContactNotFound
}

func (r *fakeContactRepo) List(_ context.Context, ownerID, search string) ([]*models.Contact, error) {
	r.lastSearch = search
	var out []*models.Contact
	for _, c := range r.contacts {
		if c.OwnerID != ownerID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Account), strings.ToLower(search)) &&
			!strings.Contains(strings.ToLower(c.Company), strings.ToLower(search)) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeContactRepo) Update(_ context.Context, c *models.Contact) error {
	for i, existing := range r.contacts {
		if existing.ID == c.ID && existing.OwnerID == c.OwnerID {
			for _, other := range r.contacts {
				if other.ID != c.ID && other.Account == c.Account {
					return contactdomain.ErrAccountExists
				}
			}
			cp := *c
			r.contacts[i] = &cp
			return nil
		}
	}
	return contactdomain.ErrContactNotFound
}

func (r *fakeContactRepo) Delete(_ context.Context, ownerID string, id uuid.UUID) (*models.Contact, error) {
	for i, c := range r.contacts {
		if c.ID == id && c.OwnerID == ownerID {
			r.contacts = append(r.contacts[:i], r.contacts[i+1:]...)
			return c, nil
		}
	}
	return nil, contactdomain.ErrContactNotFound
}

func (r *fakeContactRepo) Exists(_ context.Context, ownerID string, id uuid.UUID) (bool, error) {
	for _, c := range r.contacts {
		if c.ID == id && c.OwnerID == ownerID {
			return true, nil
		}
	}
	return false, nil
}

// fakePublisher records published events and optionally fails.
type fakePublisher struct {
	events []publishedEvent
	err    error
}

type publishedEvent struct {
	topic   string
	payload any
}

func (p *fakePublisher) Publish(_ context.Context, topic string, payload any) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{topic: topic, payload: payload})
	return nil
}

func nopLogger() logger.Logger {
	return logger.New(&config.Config{LogLevel: "error"})
}

func newContactFixture() (*ContactService, *fakeContactRepo, *fakePublisher) {
	repo := &fakeContactRepo{}
	bus := &fakePublisher{}
	return NewContactService(repo, bus, nopLogger()), repo, bus
}

// TestContactCreate_Defaults verifies normalization: trimmed fields,
// lowercased email, and the customer type default.
func TestContactCreate_Defaults(t *testing.T) {
	svc, _, bus := newContactFixture()

	c, err := svc.Create(context.Background(), "owner-a", &models.CreateContactInput{
		Account: "  acme  ",
		Company: "Acme Corp",
		Email:   "Sales@ACME.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if c.Account != "acme" {
		t.Errorf("expected trimmed account, got %q", c.Account)
	}
	if c.Email != "sales@acme.com" {
		t.Errorf("expected lowercased email, got %q", c.Email)
	}
	if c.Type != models.TypeCustomer {
		t.Errorf("expected type to default to customer, got %q", c.Type)
	}
	if c.OwnerID != "owner-a" {
		t.Errorf("owner not injected from caller, got %q", c.OwnerID)
	}

	if len(bus.events) != 1 || bus.events[0].topic != "contact.added" {
		t.Fatalf("expected one contact.added event, got %+v", bus.events)
	}
}

// TestContactCreate_DuplicateAccount verifies the store's conflict surfaces
// as ErrAccountExists regardless of owner.
func TestContactCreate_DuplicateAccount(t *testing.T) {
	svc, _, _ := newContactFixture()

	if _, err := svc.Create(context.Background(), "owner-a", &models.CreateContactInput{
		Account: "acme", Company: "Acme", Email: "a@acme.com",
	}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := svc.Create(context.Background(), "owner-b", &models.CreateContactInput{
		Account: "acme", Company: "Other", Email: "b@other.com",
	})
	if !errors.Is(err, contactdomain.ErrAccountExists) {
		t.Errorf("expected ErrAccountExists, got %v", err)
	}
}

// TestContactCreate_PublishFailureDoesNotFailMutation verifies a notifier
// failure is swallowed: the contact is created and returned.
func TestContactCreate_PublishFailureDoesNotFailMutation(t *testing.T) {
	repo := &fakeContactRepo{}
	bus := &fakePublisher{err: errors.New("bus down")}
	svc := NewContactService(repo, bus, nopLogger())

	c, err := svc.Create(context.Background(), "owner-a", &models.CreateContactInput{
		Account: "acme", Company: "Acme", Email: "a@acme.com",
	})
	if err != nil {
		t.Fatalf("create should succeed despite publish failure: %v", err)
	}
	if len(repo.contacts) != 1 || repo.contacts[0].ID != c.ID {
		t.Error("contact not persisted")
	}
}

// TestContactUpdate_PartialMerge verifies only non-nil fields change.
func TestContactUpdate_PartialMerge(t *testing.T) {
	svc, _, bus := newContactFixture()

	c, err := svc.Create(context.Background(), "owner-a", &models.CreateContactInput{
		Account: "acme", Company: "Acme", Email: "a@acme.com", Phone: "+1 555 0100",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	company := "Acme Industries"
	updated, err := svc.Update(context.Background(), "owner-a", c.ID, &models.UpdateContactInput{
		Company: &company,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Company != "Acme Industries" {
		t.Errorf("company not updated: %q", updated.Company)
	}
	if updated.Account != "acme" || updated.Email != "a@acme.com" || updated.Phone != "+1 555 0100" {
		t.Errorf("untouched fields changed: %+v", updated)
	}
	if last := bus.events[len(bus.events)-1]; last.topic != "contact.updated" {
		t.Errorf("expected contact.updated, got %s", last.topic)
	}
}

// TestContactUpdate_ForeignOwner verifies another owner's contact reads as
// not found, indistinguishable from a missing one.
func TestContactUpdate_ForeignOwner(t *testing.T) {
	svc, _, _ := newContactFixture()

	c, err := svc.Create(context.Background(), "owner-a", &models.CreateContactInput{
		Account: "acme", Company: "Acme", Email: "a@acme.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	company := "hijack"
	_, err = svc.Update(context.Background(), "owner-b", c.ID, &models.UpdateContactInput{Company: &company})
	if !errors.Is(err, contactdomain.ErrContactNotFound) {
		t.Errorf("expected ErrContactNotFound, got %v", err)
	}
}

// TestContactDelete verifies deletion returns the id and publishes an
// id-only payload on contact.deleted.
func TestContactDelete(t *testing.T) {
	svc, repo, bus := newContactFixture()

	c, err := svc.Create(context.Background(), "owner-a", &models.CreateContactInput{
		Account: "acme", Company: "Acme", Email: "a@acme.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	deletedID, err := svc.Delete(context.Background(), "owner-a", c.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deletedID != c.ID {
		t.Errorf("expected deleted id %s, got %s", c.ID, deletedID)
	}
	if len(repo.contacts) != 0 {
		t.Error("contact still persisted after delete")
	}

	last := bus.events[len(bus.events)-1]
	if last.topic != "contact.deleted" {
		t.Fatalf("expected contact.deleted, got %s", last.topic)
	}
	payload, ok := last.payload.(notifier.Deleted)
	if !ok {
		t.Fatalf("expected id-only payload, got %T", last.payload)
	}
	if payload.ID != c.ID {
		t.Errorf("expected deleted id %s, got %s", c.ID, payload.ID)
	}
}

// TestContactList_ShortSearchIgnored verifies searches under two characters
// fall back to the unfiltered owner-scoped list.
func TestContactList_ShortSearchIgnored(t *testing.T) {
	svc, repo, _ := newContactFixture()

	if _, err := svc.Create(context.Background(), "owner-a", &models.CreateContactInput{
		Account: "acme", Company: "Acme", Email: "a@acme.com",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	out, err := svc.List(context.Background(), "owner-a", "a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.lastSearch != "" {
		t.Errorf("one-character search should be dropped, repo saw %q", repo.lastSearch)
	}
	if len(out) != 1 {
		t.Errorf("expected 1 contact, got %d", len(out))
	}
}

// TestContactList_SearchApplied verifies a two-character search reaches the
// repository unchanged.
func TestContactList_SearchApplied(t *testing.T) {
	svc, repo, _ := newContactFixture()

	if _, err := svc.List(context.Background(), "owner-a", "ac"); err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.lastSearch != "ac" {
		t.Errorf("expected search to pass through, repo saw %q", repo.lastSearch)
	}
}
