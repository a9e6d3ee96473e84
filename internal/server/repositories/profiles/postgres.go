package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/promptify/internal/common"
	"github.com/dmitrijs2005/promptify/internal/dbx"
	"github.com/dmitrijs2005/promptify/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	query :=
		`SELECT id, email, display_name, avatar_url, coins, role, created_at FROM profiles
		 WHERE id = $1
		 `

	var (
		p                         models.Profile
		email, name, avatar, role sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&p.ID, &email, &name, &avatar, &p.Coins, &role, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	p.Email = email.String
	p.DisplayName = name.String
	if p.DisplayName == "" {
		p.DisplayName = models.DefaultDisplayName
	}
	p.AvatarURL = avatar.String
	p.Role = models.Role(role.String)
	if p.Role == "" {
		p.Role = models.RoleUser
	}

	return &p, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, p *models.Profile) (bool, error) {
	query :=
		`INSERT INTO profiles (id, email, display_name, avatar_url, coins, role)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query,
		p.ID, nullIfEmpty(p.Email), p.DisplayName, nullIfEmpty(p.AvatarURL), p.Coins, string(p.Role))
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return n == 1, nil
}

func (r *PostgresRepository) LockCoins(ctx context.Context, id string) (int64, error) {
	query :=
		`SELECT coins FROM profiles
		 WHERE id = $1
		 FOR UPDATE
		 `

	var coins int64
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&coins); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return coins, nil
}

func (r *PostgresRepository) DebitCoin(ctx context.Context, id string) (int64, error) {
	query :=
		`UPDATE profiles SET coins = coins - 1
		 WHERE id = $1 AND coins >= 1
		 RETURNING coins
		 `

	var coins int64
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&coins); err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.PgCode(err) == dbx.CodeCheckViolation {
			return 0, common.ErrInsufficientBalance
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return coins, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
