package db

import (
	"context"

	"github.com/maulidiphilip/money-manager-api/internal/model"
)

func (db *Postgres) EnsureProfileSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS tbl_profiles (
			id BIGSERIAL PRIMARY KEY,
			full_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			profile_image_url TEXT,
			is_active BOOLEAN NOT NULL DEFAULT FALSE,
			activation_token TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		`CREATE INDEX IF NOT EXISTS tbl_profiles_activation_token_idx ON tbl_profiles(activation_token)`,
	}

	for _, query := range queries {
		if _, err := db.Pool.Exec(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

func (db *Postgres) CreateProfile(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	query := `
		INSERT INTO tbl_profiles (full_name, email, password_hash, profile_image_url, is_active, activation_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, full_name, email, password_hash, profile_image_url, is_active, activation_token, created_at, updated_at
	`
	var created model.Profile
	err := db.Pool.QueryRow(ctx, query,
		p.FullName,
		p.Email,
		p.PasswordHash,
		p.ProfileImageURL,
		p.IsActive,
		p.ActivationToken,
	).Scan(
		&created.ID,
		&created.FullName,
		&created.Email,
		&created.PasswordHash,
		&created.ProfileImageURL,
		&created.IsActive,
		&created.ActivationToken,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (db *Postgres) GetProfileByEmail(ctx context.Context, email string) (*model.Profile, error) {
	return db.getProfile(ctx, `email = $1`, email)
}

func (db *Postgres) GetProfileByActivationToken(ctx context.Context, token string) (*model.Profile, error) {
	return db.getProfile(ctx, `activation_token = $1`, token)
}

func (db *Postgres) getProfile(ctx context.Context, where string, arg any) (*model.Profile, error) {
	query := `
		SELECT id, full_name, email, password_hash, profile_image_url, is_active, activation_token, created_at, updated_at
		FROM tbl_profiles
		WHERE ` + where
	var p model.Profile
	err := db.Pool.QueryRow(ctx, query, arg).Scan(
		&p.ID,
		&p.FullName,
		&p.Email,
		&p.PasswordHash,
		&p.ProfileImageURL,
		&p.IsActive,
		&p.ActivationToken,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SetProfileActive marks a profile active. The activation token is left in
// place so a repeated activation with the same link still resolves.
func (db *Postgres) SetProfileActive(ctx context.Context, profileID int64) error {
	query := `
		UPDATE tbl_profiles
		SET is_active = TRUE, updated_at = NOW()
		WHERE id = $1
	`
	_, err := db.Pool.Exec(ctx, query, profileID)
	return err
}
