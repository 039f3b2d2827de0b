package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/jobdesk/pkg/database"
	contactdomain "github.com/ghuser/jobdesk/services/contact/domain"
	"github.com/ghuser/jobdesk/services/contact/domain/models"
)

// contactColumns is the select list shared by every read path.
const contactColumns = `id, owner_id, account, company, email,
	COALESCE(phone, ''), COALESCE(first_name, ''), COALESCE(last_name, ''),
	type, created_at, updated_at`

// ContactRepository implements repositories.ContactRepository against PostgreSQL.
type ContactRepository struct {
	db *database.Database
}

// NewContactRepository returns a ContactRepository backed by the given pool.
func NewContactRepository(db *database.Database) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create persists a new Contact. Returns ErrAccountExists when the unique
// index on account rejects the row.
func (r *ContactRepository) Create(ctx context.Context, c *models.Contact) error {
	_, err := r.db.Pool().Exec(ctx, `
		INSERT INTO contacts (id, owner_id, account, company, email, phone, first_name, last_name, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.OwnerID, c.Account, c.Company, c.Email, c.Phone, c.FirstName, c.LastName, c.Type, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return contactdomain.ErrAccountExists
		}
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// GetByID retrieves a Contact scoped to the owner.
func (r *ContactRepository) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*models.Contact, error) {
	row := r.db.Pool().QueryRow(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	c, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contactdomain.ErrContactNotFound
		}
		return nil, fmt.Errorf("query contact: %w", err)
	}
	return c, nil
}

// List retrieves the owner's contacts, newest first, optionally filtered by a
// case-insensitive substring match on account or company.
func (r *ContactRepository) List(ctx context.Context, ownerID, search string) ([]*models.Contact, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if search == "" {
		rows, err = r.db.Pool().Query(ctx,
			`SELECT `+contactColumns+` FROM contacts WHERE owner_id = $1 ORDER BY created_at DESC`,
			ownerID,
		)
	} else {
		rows, err = r.db.Pool().Query(ctx,
			`SELECT `+contactColumns+` FROM contacts
			 WHERE owner_id = $1 AND (account ILIKE '%' || $2 || '%' OR company ILIKE '%' || $2 || '%')
			 ORDER BY created_at DESC`,
			ownerID, search,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}

// Update persists the full record. Returns ErrContactNotFound when id+owner
// match nothing and ErrAccountExists on a unique-index violation.
func (r *ContactRepository) Update(ctx context.Context, c *models.Contact) error {
	tag, err := r.db.Pool().Exec(ctx, `
		UPDATE contacts
		SET account = $3, company = $4, email = $5, phone = $6, first_name = $7, last_name = $8, type = $9, updated_at = $10
		WHERE id = $1 AND owner_id = $2`,
		c.ID, c.OwnerID, c.Account, c.Company, c.Email, c.Phone, c.FirstName, c.LastName, c.Type, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return contactdomain.ErrAccountExists
		}
		return fmt.Errorf("update contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return contactdomain.ErrContactNotFound
	}
	return nil
}

// Delete removes and returns the contact.
func (r *ContactRepository) Delete(ctx context.Context, ownerID string, id uuid.UUID) (*models.Contact, error) {
	row := r.db.Pool().QueryRow(ctx,
		`DELETE FROM contacts WHERE id = $1 AND owner_id = $2 RETURNING `+contactColumns,
		id, ownerID,
	)
	c, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contactdomain.ErrContactNotFound
		}
		return nil, fmt.Errorf("delete contact: %w", err)
	}
	return c, nil
}

// Exists reports whether a contact with the given ID exists for the owner.
func (r *ContactRepository) Exists(ctx context.Context, ownerID string, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.Pool().QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM contacts WHERE id = $1 AND owner_id = $2)`,
		id, ownerID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check contact exists: %w", err)
	}
	return exists, nil
}

func scanContact(row pgx.Row) (*models.Contact, error) {
	var c models.Contact
	err := row.Scan(&c.ID, &c.OwnerID, &c.Account, &c.Company, &c.Email,
		&c.Phone, &c.FirstName, &c.LastName, &c.Type, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
