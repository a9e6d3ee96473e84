// Package profiles persists per-user profiles and their coin balance.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/promptify/internal/server/models"
)

type Repository interface {
	// GetByID returns common.ErrorNotFound when no profile exists.
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	// Insert creates the profile unless one with the same id exists.
	// It reports whether a row was written.
	Insert(ctx context.Context, p *models.Profile) (bool, error)
	// LockCoins reads the balance and holds the profile row lock until the
	// surrounding transaction ends.
	LockCoins(ctx context.Context, id string) (int64, error)
	// DebitCoin subtracts one coin and returns the new balance.
	// common.ErrInsufficientBalance is returned when the balance is zero.
	DebitCoin(ctx context.Context, id string) (int64, error)
}
