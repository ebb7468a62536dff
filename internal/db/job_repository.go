package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrJobNotFound = errors.New("job not found")

type Job struct {
	ID            uuid.UUID
	Title         string
	Company       string
	Location      string
	Category      string
	Salary        string
	Description   string
	AttachmentKey sql.NullString
	PostedBy      uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// JobFilter narrows List results. Zero values mean "no filter".
type JobFilter struct {
	Query    string
	Category string
	Location string
	Limit    int
	Offset   int
}

type JobRepository struct {
	db *DB
}

func NewJobRepository(db *DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, job *Job) error {
	query := `
		INSERT INTO jobs (id, title, company, location, category, salary, description, attachment_key, posted_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.Title, job.Company, job.Location, job.Category,
		job.Salary, job.Description, job.AttachmentKey, job.PostedBy,
		job.CreatedAt, job.UpdatedAt,
	)
	return err
}

func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	query := `
		SELECT id, title, company, location, category, salary, description, attachment_key, posted_by, created_at, updated_at
		FROM jobs
		WHERE id = $1
	`

	job := &Job{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&job.ID, &job.Title, &job.Company, &job.Location, &job.Category,
		&job.Salary, &job.Description, &job.AttachmentKey, &job.PostedBy,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	return job, nil
}

// List returns jobs matching the filter, newest first, plus the total count
// for pagination. The free-text query is normalized before matching so that
// accented or oddly cased input still finds postings.
func (r *JobRepository) List(ctx context.Context, filter JobFilter) ([]Job, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	argn := 0

	if filter.Query != "" {
		normalized := NormalizeSearchTerm(filter.Query)
		argn++
		where += fmt.Sprintf(" AND (title ILIKE '%%' || $%d || '%%' OR company ILIKE '%%' || $%d || '%%' OR description ILIKE '%%' || $%d || '%%')", argn, argn, argn)
		args = append(args, normalized)
	}
	if filter.Category != "" {
		argn++
		where += fmt.Sprintf(" AND category ILIKE $%d", argn)
		args = append(args, filter.Category)
	}
	if filter.Location != "" {
		argn++
		where += fmt.Sprintf(" AND location ILIKE '%%' || $%d || '%%'", argn)
		args = append(args, filter.Location)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM jobs " + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	listQuery := `
		SELECT id, title, company, location, category, salary, description, attachment_key, posted_by, created_at, updated_at
		FROM jobs ` + where + fmt.Sprintf(`
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, argn+1, argn+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	jobs := []Job{}
	for rows.Next() {
		var job Job
		if err := rows.Scan(
			&job.ID, &job.Title, &job.Company, &job.Location, &job.Category,
			&job.Salary, &job.Description, &job.AttachmentKey, &job.PostedBy,
			&job.CreatedAt, &job.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, job)
	}

	return jobs, total, rows.Err()
}

func (r *JobRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Job, error) {
	query := `
		SELECT id, title, company, location, category, salary, description, attachment_key, posted_by, created_at, updated_at
		FROM jobs
		WHERE posted_by = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []Job{}
	for rows.Next() {
		var job Job
		if err := rows.Scan(
			&job.ID, &job.Title, &job.Company, &job.Location, &job.Category,
			&job.Salary, &job.Description, &job.AttachmentKey, &job.PostedBy,
			&job.CreatedAt, &job.UpdatedAt,
		); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

func (r *JobRepository) Update(ctx context.Context, job *Job) error {
	query := `
		UPDATE jobs
		SET title = $2, company = $3, location = $4, category = $5, salary = $6, description = $7, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		job.ID, job.Title, job.Company, job.Location, job.Category, job.Salary, job.Description,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrJobNotFound
	}

	return nil
}

func (r *JobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrJobNotFound
	}

	return nil
}
