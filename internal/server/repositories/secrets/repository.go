// Package secrets reads prompt secret text on behalf of a viewer.
//
// Reads are filtered twice: by a join on the grant ledger and by the
// row-level-security policy on prompt_secrets, which keys on the
// transaction-local promptify.user_id setting. SetViewer must therefore run
// in the same transaction as GetForViewer.
package secrets

import "context"

type Repository interface {
	SetViewer(ctx context.Context, userID string) error
	// GetForViewer returns common.ErrForbidden when userID holds no grant
	// for promptID (or the secret row is missing).
	GetForViewer(ctx context.Context, userID, promptID string) (string, error)
}
