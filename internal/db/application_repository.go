package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrApplicationNotFound = errors.New("application not found")
var ErrAlreadyApplied = errors.New("already applied for this job")

type Application struct {
	ID        uuid.UUID
	JobID     uuid.UUID
	UserID    uuid.UUID
	JobTitle  string
	Company   string
	AppliedAt time.Time
}

type ApplicationRepository struct {
	db *DB
}

func NewApplicationRepository(db *DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts an application. The unique (job_id, user_id) constraint
// enforces one application per user per job; violations map to
// ErrAlreadyApplied.
func (r *ApplicationRepository) Create(ctx context.Context, app *Application) error {
	query := `
		INSERT INTO job_applications (id, job_id, user_id, job_title, company, applied_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		app.ID, app.JobID, app.UserID, app.JobTitle, app.Company, app.AppliedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyApplied
		}
		return err
	}

	return nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*Application, error) {
	query := `
		SELECT id, job_id, user_id, job_title, company, applied_at
		FROM job_applications
		WHERE id = $1
	`

	app := &Application{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&app.ID, &app.JobID, &app.UserID, &app.JobTitle, &app.Company, &app.AppliedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}

	return app, nil
}

func (r *ApplicationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Application, error) {
	query := `
		SELECT id, job_id, user_id, job_title, company, applied_at
		FROM job_applications
		WHERE user_id = $1
		ORDER BY applied_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := []Application{}
	for rows.Next() {
		var app Application
		if err := rows.Scan(
			&app.ID, &app.JobID, &app.UserID, &app.JobTitle, &app.Company, &app.AppliedAt,
		); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}

	return apps, rows.Err()
}

func (r *ApplicationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM job_applications WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrApplicationNotFound
	}

	return nil
}
