// Package grants stores the append-only ledger of (user, prompt) unlocks.
package grants

import "context"

type Repository interface {
	Exists(ctx context.Context, userID, promptID string) (bool, error)
	// Insert records a grant. common.ErrConflict is returned when the grant
	// already exists, common.ErrorNotFound when user or prompt is missing.
	Insert(ctx context.Context, userID, promptID string) error
	// ListPromptIDs returns the prompts owned by userID, oldest grant first.
	ListPromptIDs(ctx context.Context, userID string) ([]string, error)
}
