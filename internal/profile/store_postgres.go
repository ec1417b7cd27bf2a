package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"veriportal/pkg/platform/sentinel"
)

// PostgresStore persists overrides in PostgreSQL. One row per principal; the
// upsert uses NULLIF/COALESCE so an empty input field keeps the stored value,
// all in a single atomic statement.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, principal string) (*Override, error) {
	query := `
		SELECT principal, display_name, avatar_url, updated_at
		FROM profile_overrides
		WHERE principal = $1
	`
	var override Override
	err := s.db.QueryRowContext(ctx, query, principal).Scan(
		&override.Principal,
		&override.DisplayName,
		&override.AvatarURL,
		&override.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get profile override: %w: %v", sentinel.ErrUnavailable, err)
	}
	return &override, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, override Override) error {
	query := `
		INSERT INTO profile_overrides (principal, display_name, avatar_url, updated_at)
		VALUES ($1, COALESCE(NULLIF($2, ''), ''), COALESCE(NULLIF($3, ''), ''), $4)
		ON CONFLICT (principal) DO UPDATE SET
			display_name = COALESCE(NULLIF(EXCLUDED.display_name, ''), profile_overrides.display_name),
			avatar_url = COALESCE(NULLIF(EXCLUDED.avatar_url, ''), profile_overrides.avatar_url),
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		override.Principal,
		override.DisplayName,
		override.AvatarURL,
		override.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert profile override: %w: %v", sentinel.ErrUnavailable, err)
	}
	return nil
}
