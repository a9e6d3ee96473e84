package grants

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/promptify/internal/common"
	"github.com/dmitrijs2005/promptify/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Exists(ctx context.Context, userID, promptID string) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM grants WHERE user_id = $1 AND prompt_id = $2)
		 `

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, userID, promptID).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return ok, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, userID, promptID string) error {
	query :=
		`INSERT INTO grants (user_id, prompt_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, prompt_id) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query, userID, promptID)
	if err != nil {
		switch dbx.PgCode(err) {
		case dbx.CodeForeignKeyViolation:
			return common.ErrorNotFound
		case dbx.CodeUniqueViolation:
			return common.ErrConflict
		}
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrConflict
	}

	return nil
}

func (r *PostgresRepository) ListPromptIDs(ctx context.Context, userID string) ([]string, error) {
	query :=
		`SELECT prompt_id FROM grants
		 WHERE user_id = $1
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return ids, nil
}
