// Package state caches the signed-in profile and the set of owned prompts
// in the local SQLite file. The cache is a UX accelerator only; it is
// always overwritten with server-reported values.
package state

import (
	"context"

	"github.com/dmitrijs2005/promptify/internal/client/models"
)

type Repository interface {
	// GetProfile returns common.ErrorNotFound when nothing is cached.
	GetProfile(ctx context.Context) (*models.Profile, error)
	// ReplaceProfile drops any cached profile and stores p.
	ReplaceProfile(ctx context.Context, p *models.Profile) error
	SetCoins(ctx context.Context, coins int64) error

	ListGrants(ctx context.Context) ([]string, error)
	AddGrant(ctx context.Context, promptID string) error
	ReplaceGrants(ctx context.Context, promptIDs []string) error

	Clear(ctx context.Context) error
}
