package db

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

type DB struct {
	*sql.DB
}

func New(host, port, user, password, dbname string) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{db}, nil
}

func (db *DB) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		profile_image VARCHAR(512),
		refresh_token TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

	CREATE TABLE IF NOT EXISTS jobs (
		id UUID PRIMARY KEY,
		title VARCHAR(200) NOT NULL,
		company VARCHAR(200) NOT NULL,
		location VARCHAR(200) NOT NULL,
		category VARCHAR(100) NOT NULL,
		salary VARCHAR(100) NOT NULL,
		description TEXT NOT NULL,
		attachment_key VARCHAR(512),
		posted_by UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_jobs_posted_by ON jobs(posted_by);
	CREATE INDEX IF NOT EXISTS idx_jobs_category ON jobs(category);

	CREATE TABLE IF NOT EXISTS job_applications (
		id UUID PRIMARY KEY,
		job_id UUID NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		job_title VARCHAR(200) NOT NULL,
		company VARCHAR(200) NOT NULL,
		applied_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(job_id, user_id)
	);

	CREATE INDEX IF NOT EXISTS idx_job_applications_user_id ON job_applications(user_id);

	CREATE TABLE IF NOT EXISTS profiles (
		user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		phone VARCHAR(30),
		age INT,
		location VARCHAR(200),
		group_link VARCHAR(512),
		description TEXT,
		profile_image VARCHAR(512),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
