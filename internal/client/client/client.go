package client

import (
	"context"

	"github.com/dmitrijs2005/promptify/internal/client/models"
)

type Client interface {
	Close() error
	// SetToken replaces the identity token attached to outgoing calls.
	SetToken(token string)
	Ping(ctx context.Context) error
	EnsureProfile(ctx context.Context) (*models.Profile, error)
	ListPrompts(ctx context.Context) ([]*models.Prompt, error)
	GetPrompt(ctx context.Context, promptID string) (*models.Prompt, error)
	UnlockPrompt(ctx context.Context, promptID string) (*models.UnlockOutcome, error)
	GetPromptSecret(ctx context.Context, promptID string) (string, error)
	ListUnlockedPromptIDs(ctx context.Context) ([]string, error)
}
