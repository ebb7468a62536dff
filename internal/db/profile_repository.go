package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrProfileNotFound = errors.New("profile not found")

type Profile struct {
	UserID       uuid.UUID
	Phone        sql.NullString
	Age          sql.NullInt32
	Location     sql.NullString
	GroupLink    sql.NullString
	Description  sql.NullString
	ProfileImage sql.NullString
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type ProfileRepository struct {
	db *DB
}

func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Upsert creates or replaces the profile for a user. Profiles are keyed by
// user ID, one per identity.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *Profile) error {
	query := `
		INSERT INTO profiles (user_id, phone, age, location, group_link, description, profile_image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			phone = EXCLUDED.phone,
			age = EXCLUDED.age,
			location = EXCLUDED.location,
			group_link = EXCLUDED.group_link,
			description = EXCLUDED.description,
			profile_image = EXCLUDED.profile_image,
			updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query,
		profile.UserID, profile.Phone, profile.Age, profile.Location,
		profile.GroupLink, profile.Description, profile.ProfileImage,
	)
	return err
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	query := `
		SELECT user_id, phone, age, location, group_link, description, profile_image, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	profile := &Profile{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID, &profile.Phone, &profile.Age, &profile.Location,
		&profile.GroupLink, &profile.Description, &profile.ProfileImage,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return profile, nil
}
