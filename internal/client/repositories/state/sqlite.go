package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/promptify/internal/client/models"
	"github.com/dmitrijs2005/promptify/internal/common"
	"github.com/dmitrijs2005/promptify/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetProfile(ctx context.Context) (*models.Profile, error) {
	p := &models.Profile{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, avatar_url, coins, role
		FROM cached_profile LIMIT 1
	`).Scan(&p.ID, &p.Email, &p.DisplayName, &p.AvatarURL, &p.Coins, &p.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached profile: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) ReplaceProfile(ctx context.Context, p *models.Profile) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cached_profile`); err != nil {
		return fmt.Errorf("failed to drop cached profile: %w", err)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cached_profile (id, email, display_name, avatar_url, coins, role, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, p.ID, p.Email, p.DisplayName, p.AvatarURL, p.Coins, p.Role)
	if err != nil {
		return fmt.Errorf("failed to cache profile: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SetCoins(ctx context.Context, coins int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE cached_profile SET coins = ?, synced_at = CURRENT_TIMESTAMP`, coins)
	if err != nil {
		return fmt.Errorf("failed to set cached coins: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to set cached coins: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) ListGrants(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT prompt_id FROM cached_grants ORDER BY prompt_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached grants: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan cached grant: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cached grants: %w", err)
	}
	return ids, nil
}

func (r *SQLiteRepository) AddGrant(ctx context.Context, promptID string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO cached_grants (prompt_id) VALUES (?) ON CONFLICT(prompt_id) DO NOTHING`, promptID)
	if err != nil {
		return fmt.Errorf("failed to cache grant %s: %w", promptID, err)
	}
	return nil
}

func (r *SQLiteRepository) ReplaceGrants(ctx context.Context, promptIDs []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cached_grants`); err != nil {
		return fmt.Errorf("failed to drop cached grants: %w", err)
	}
	for _, id := range promptIDs {
		if err := r.AddGrant(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cached_grants`); err != nil {
		return fmt.Errorf("failed to clear cached grants: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cached_profile`); err != nil {
		return fmt.Errorf("failed to clear cached profile: %w", err)
	}
	return nil
}
