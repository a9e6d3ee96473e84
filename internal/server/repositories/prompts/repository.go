// Package prompts reads the public prompt catalog and maintains the
// per-prompt unlock counter.
package prompts

import (
	"context"

	"github.com/dmitrijs2005/promptify/internal/server/models"
)

type Repository interface {
	// List returns the catalog newest first.
	List(ctx context.Context) ([]*models.Prompt, error)
	// GetByID returns common.ErrorNotFound when the prompt does not exist.
	GetByID(ctx context.Context, id string) (*models.Prompt, error)
	Exists(ctx context.Context, id string) (bool, error)
	IncrementUnlockCount(ctx context.Context, id string) error
}
