package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ghuser/jobdesk/pkg/database"
	itemdomain "github.com/ghuser/jobdesk/services/item/domain"
	"github.com/ghuser/jobdesk/services/item/domain/models"
)

const itemColumns = `id, owner_id, name, code, available, weight, created_at, updated_at`

// ItemRepository implements repositories.ItemRepository against PostgreSQL.
type ItemRepository struct {
	db *database.Database
}

// NewItemRepository returns an ItemRepository backed by the given pool.
func NewItemRepository(db *database.Database) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create persists a new Item.
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	_, err := r.db.Pool().Exec(ctx, `
		INSERT INTO items (id, owner_id, name, code, available, weight, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		item.ID, item.OwnerID, item.Name, item.Code, item.Available, item.Weight, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID retrieves an Item scoped to the owner.
func (r *ItemRepository) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*models.Item, error) {
	row := r.db.Pool().QueryRow(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, itemdomain.ErrItemNotFound
		}
		return nil, fmt.Errorf("query item: %w", err)
	}
	return item, nil
}

// GetByIDs retrieves the owner's items among the given ids, keyed by id.
func (r *ItemRepository) GetByIDs(ctx context.Context, ownerID string, ids []uuid.UUID) (map[uuid.UUID]*models.Item, error) {
	result := make(map[uuid.UUID]*models.Item, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := r.db.Pool().Query(ctx,
		`SELECT `+itemColumns+` FROM items WHERE owner_id = $1 AND id = ANY($2)`,
		ownerID, ids,
	)
	if err != nil {
		return nil, fmt.Errorf("query items by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		result[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return result, nil
}

// List retrieves the owner's items, newest first, optionally filtered by a
// case-insensitive substring match on name or code.
func (r *ItemRepository) List(ctx context.Context, ownerID, search string) ([]*models.Item, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if search == "" {
		rows, err = r.db.Pool().Query(ctx,
			`SELECT `+itemColumns+` FROM items WHERE owner_id = $1 ORDER BY created_at DESC`,
			ownerID,
		)
	} else {
		rows, err = r.db.Pool().Query(ctx,
			`SELECT `+itemColumns+` FROM items
			 WHERE owner_id = $1 AND (name ILIKE '%' || $2 || '%' OR code ILIKE '%' || $2 || '%')
			 ORDER BY created_at DESC`,
			ownerID, search,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// Update persists the full record.
func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	tag, err := r.db.Pool().Exec(ctx, `
		UPDATE items
		SET name = $3, code = $4, available = $5, weight = $6, updated_at = $7
		WHERE id = $1 AND owner_id = $2`,
		item.ID, item.OwnerID, item.Name, item.Code, item.Available, item.Weight, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return itemdomain.ErrItemNotFound
	}
	return nil
}

// Delete removes and returns the item.
func (r *ItemRepository) Delete(ctx context.Context, ownerID string, id uuid.UUID) (*models.Item, error) {
	row := r.db.Pool().QueryRow(ctx,
		`DELETE FROM items WHERE id = $1 AND owner_id = $2 RETURNING `+itemColumns,
		id, ownerID,
	)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, itemdomain.ErrItemNotFound
		}
		return nil, fmt.Errorf("delete item: %w", err)
	}
	return item, nil
}

// Exists reports whether an item with the given ID exists for the owner.
func (r *ItemRepository) Exists(ctx context.Context, ownerID string, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.Pool().QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM items WHERE id = $1 AND owner_id = $2)`,
		id, ownerID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check item exists: %w", err)
	}
	return exists, nil
}

func scanItem(row pgx.Row) (*models.Item, error) {
	var item models.Item
	err := row.Scan(&item.ID, &item.OwnerID, &item.Name, &item.Code,
		&item.Available, &item.Weight, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
