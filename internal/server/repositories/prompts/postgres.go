package prompts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/promptify/internal/common"
	"github.com/dmitrijs2005/promptify/internal/dbx"
	"github.com/dmitrijs2005/promptify/internal/server/models"
)

const selectColumns = `SELECT id, title, description, image_url, ai_model, category, author,
		        is_trending, rating_avg::float8, unlock_count, created_at
		 FROM prompts`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanPrompt reads one row and substitutes defaults for NULL columns.
func scanPrompt(row rowScanner) (*models.Prompt, error) {
	var (
		p                                      models.Prompt
		description, image, model, cat, author sql.NullString
		trending                               sql.NullBool
		rating                                 sql.NullFloat64
		unlocks                                sql.NullInt64
	)

	err := row.Scan(&p.ID, &p.Title, &description, &image, &model, &cat, &author,
		&trending, &rating, &unlocks, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	p.Description = description.String
	p.ImageURL = image.String
	p.AIModel = orDefault(model, models.DefaultAIModel)
	p.Category = orDefault(cat, models.DefaultCategory)
	p.Author = orDefault(author, models.DefaultAuthor)
	p.IsTrending = trending.Bool
	p.RatingAvg = rating.Float64
	p.UnlockCount = unlocks.Int64

	return &p, nil
}

func orDefault(s sql.NullString, def string) string {
	if !s.Valid || s.String == "" {
		return def
	}
	return s.String
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Prompt, error) {
	query := selectColumns + `
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Prompt, 0)
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Prompt, error) {
	query := selectColumns + `
		 WHERE id = $1
		 `

	p, err := scanPrompt(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, id string) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM prompts WHERE id = $1)
		 `

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return ok, nil
}

func (r *PostgresRepository) IncrementUnlockCount(ctx context.Context, id string) error {
	query :=
		`UPDATE prompts SET unlock_count = unlock_count + 1
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
