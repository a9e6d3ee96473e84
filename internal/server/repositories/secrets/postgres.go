package secrets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/promptify/internal/common"
	"github.com/dmitrijs2005/promptify/internal/dbx"
)

// ViewerSetting is the configuration parameter the RLS policy reads.
const ViewerSetting = "promptify.user_id"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) SetViewer(ctx context.Context, userID string) error {
	query :=
		`SELECT set_config($1, $2, true)
		 `

	var v string
	if err := r.db.QueryRowContext(ctx, query, ViewerSetting, userID).Scan(&v); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetForViewer(ctx context.Context, userID, promptID string) (string, error) {
	query :=
		`SELECT s.secret_text FROM prompt_secrets s
		 JOIN grants g ON g.prompt_id = s.prompt_id
		 WHERE s.prompt_id = $1 AND g.user_id = $2
		 `

	var text string
	if err := r.db.QueryRowContext(ctx, query, promptID, userID).Scan(&text); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrForbidden
		}
		return "", fmt.Errorf("db error: %w", err)
	}

	return text, nil
}
