package db

import (
	"context"

	"github.com/maulidiphilip/money-manager-api/internal/model"
)

func (db *Postgres) EnsureCategorySchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS tbl_categories (
			id BIGSERIAL PRIMARY KEY,
			profile_id BIGINT NOT NULL REFERENCES tbl_profiles(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			description TEXT,
			icon TEXT,
			type TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (name, profile_id)
		)
	`
	_, err := db.Pool.Exec(ctx, query)
	return err
}

func (db *Postgres) CreateCategory(ctx context.Context, c *model.Category) (*model.Category, error) {
	query := `
		INSERT INTO tbl_categories (profile_id, name, description, icon, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, profile_id, name, description, icon, type, created_at, updated_at
	`
	var created model.Category
	err := db.Pool.QueryRow(ctx, query,
		c.ProfileID,
		c.Name,
		c.Description,
		c.Icon,
		c.Type,
	).Scan(
		&created.ID,
		&created.ProfileID,
		&created.Name,
		&created.Description,
		&created.Icon,
		&created.Type,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (db *Postgres) ListCategoriesByProfile(ctx context.Context, profileID int64) ([]model.Category, error) {
	query := `
		SELECT id, profile_id, name, description, icon, type, created_at, updated_at
		FROM tbl_categories
		WHERE profile_id = $1
		ORDER BY created_at DESC
	`
	rows, err := db.Pool.Query(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(
			&c.ID,
			&c.ProfileID,
			&c.Name,
			&c.Description,
			&c.Icon,
			&c.Type,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if list == nil {
		list = []model.Category{}
	}
	return list, nil
}
