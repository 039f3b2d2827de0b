package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/jobdesk/pkg/database"
	jobdomain "github.com/ghuser/jobdesk/services/job/domain"
	"github.com/ghuser/jobdesk/services/job/domain/models"
)

// jobColumns is the select list shared by every read path.
const jobColumns = `id, owner_id, reference, supplier_id, customer_id, date, lines, created_at, updated_at`

// JobRepository implements repositories.JobRepository against PostgreSQL.
// Line entries are stored as a jsonb array inside the job row.
type JobRepository struct {
	db *database.Database
}

// NewJobRepository returns a JobRepository backed by the given pool.
func NewJobRepository(db *database.Database) *JobRepository {
	return &JobRepository{db: db}
}

// Create persists a new Job. Returns ErrReferenceExists when the unique
// index on (reference, owner_id) rejects the row.
func (r *JobRepository) Create(ctx context.Context, j *models.Job) error {
	lines, err := marshalLines(j.Lines)
	if err != nil {
		return err
	}
	_, err = r.db.Pool().Exec(ctx, `
		INSERT INTO jobs (id, owner_id, reference, supplier_id, customer_id, date, lines, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		j.ID, j.OwnerID, j.Reference, j.SupplierID, j.CustomerID, j.Date, lines, j.CreatedAt, j.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return jobdomain.ErrReferenceExists
		}
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// GetByID retrieves a Job scoped to the owner.
func (r *JobRepository) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*models.Job, error) {
	row := r.db.Pool().QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, jobdomain.ErrJobNotFound
		}
		return nil, fmt.Errorf("query job: %w", err)
	}
	return j, nil
}

// List retrieves the owner's jobs ordered by date, newest first.
func (r *JobRepository) List(ctx context.Context, ownerID string) ([]*models.Job, error) {
	rows, err := r.db.Pool().Query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE owner_id = $1 ORDER BY date DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}

// Update persists the full record. Returns ErrJobNotFound when id+owner
// match nothing and ErrReferenceExists on a unique-index violation.
func (r *JobRepository) Update(ctx context.Context, j *models.Job) error {
	lines, err := marshalLines(j.Lines)
	if err != nil {
		return err
	}
	tag, err := r.db.Pool().Exec(ctx, `
		UPDATE jobs
		SET reference = $3, supplier_id = $4, customer_id = $5, date = $6, lines = $7, updated_at = $8
		WHERE id = $1 AND owner_id = $2`,
		j.ID, j.OwnerID, j.Reference, j.SupplierID, j.CustomerID, j.Date, lines, j.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return jobdomain.ErrReferenceExists
		}
		return fmt.Errorf("update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return jobdomain.ErrJobNotFound
	}
	return nil
}

// Delete removes and returns the job.
func (r *JobRepository) Delete(ctx context.Context, ownerID string, id uuid.UUID) (*models.Job, error) {
	row := r.db.Pool().QueryRow(ctx,
		`DELETE FROM jobs WHERE id = $1 AND owner_id = $2 RETURNING `+jobColumns,
		id, ownerID,
	)
	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, jobdomain.ErrJobNotFound
		}
		return nil, fmt.Errorf("delete job: %w", err)
	}
	return j, nil
}

func scanJob(row pgx.Row) (*models.Job, error) {
	var (
		j     models.Job
		lines []byte
	)
	err := row.Scan(&j.ID, &j.OwnerID, &j.Reference, &j.SupplierID, &j.CustomerID,
		&j.Date, &lines, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(lines, &j.Lines); err != nil {
		return nil, fmt.Errorf("decode job lines: %w", err)
	}
	return &j, nil
}

func marshalLines(lines []models.Line) ([]byte, error) {
	if lines == nil {
		lines = []models.Line{}
	}
	b, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("encode job lines: %w", err)
	}
	return b, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
