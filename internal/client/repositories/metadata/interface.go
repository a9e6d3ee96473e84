// Package metadata stores small string settings of the local CLI cache,
// such as the identity token of the signed-in user.
package metadata

import (
	"context"
)

// Known keys.
const (
	KeyAccessToken = "access_token"
	KeyLastSync    = "last_sync"
)

// Repository is a string key/value store. Get reports ok=false for a missing
// key rather than an error.
type Repository interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
