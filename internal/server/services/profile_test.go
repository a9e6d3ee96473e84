package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/promptify/internal/common"
	"github.com/dmitrijs2005/promptify/internal/dbx"
	"github.com/dmitrijs2005/promptify/internal/logging"
	"github.com/dmitrijs2005/promptify/internal/server/auth"
	"github.com/dmitrijs2005/promptify/internal/server/models"
	"github.com/dmitrijs2005/promptify/internal/server/repositories/memstore"
	"github.com/dmitrijs2005/promptify/internal/server/repositories/profiles"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileService(f *fixture) *ProfileService {
	svc := NewProfileService(f.store, f.manager, common.DefaultStartingCoins, logging.NewNop())
	svc.retryDelay = time.Millisecond
	return svc
}

func TestEnsureProfile_CreatesOnce(t *testing.T) {
	f := newFixture()
	svc := newProfileService(f)
	ctx := context.Background()
	id := auth.Identity{ID: "u1", Email: "ann@example.com"}

	p, err := svc.EnsureProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(10), p.Coins)
	assert.Equal(t, models.RoleUser, p.Role)
	assert.Equal(t, "ann", p.DisplayName)

	// spend a coin, then bootstrap again: the balance is not reset
	_, err = newLedger(f, nil).Unlock(ctx, "u1", f.addPrompt(t))
	require.NoError(t, err)

	p, err = svc.EnsureProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(9), p.Coins)
}

func TestEnsureProfile_ConcurrentFirstSignIn(t *testing.T) {
	f := newFixture()
	svc := newProfileService(f)

	const sessions = 10
	var wg sync.WaitGroup
	results := make([]*models.Profile, sessions)
	errs := make([]error, sessions)
	for i := range sessions {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = svc.EnsureProfile(context.Background(), auth.Identity{ID: "u1"})
		}()
	}
	wg.Wait()

	for i := range sessions {
		require.NoError(t, errs[i])
		assert.Equal(t, "u1", results[i].ID)
		assert.Equal(t, int64(10), results[i].Coins)
	}
}

func TestEnsureProfile_StartingCoinsFromConfig(t *testing.T) {
	f := newFixture()
	svc := NewProfileService(f.store, f.manager, 3, logging.NewNop())

	p, err := svc.EnsureProfile(context.Background(), auth.Identity{ID: "u1", DisplayName: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.Coins)
	assert.Equal(t, "Ann", p.DisplayName)
}

func TestEnsureProfile_EmptyIdentity(t *testing.T) {
	svc := newProfileService(newFixture())

	_, err := svc.EnsureProfile(context.Background(), auth.Identity{})
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ann", displayName(auth.Identity{DisplayName: "Ann", Email: "x@y"}))
	assert.Equal(t, "bob", displayName(auth.Identity{Email: "bob@example.com"}))
	assert.Equal(t, models.DefaultDisplayName, displayName(auth.Identity{}))
	assert.Equal(t, models.DefaultDisplayName, displayName(auth.Identity{Email: "@nohost"}))
}

// flakyManager fails the first profile reads with the given error.
type flakyManager struct {
	*memstore.Manager
	failures atomic.Int32
	err      error
}

func (m *flakyManager) Profiles(db dbx.DBTX) profiles.Repository {
	return &flakyProfiles{Repository: m.Manager.Profiles(db), m: m}
}

type flakyProfiles struct {
	profiles.Repository
	m *flakyManager
}

func (r *flakyProfiles) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	if r.m.failures.Add(-1) >= 0 {
		return nil, r.m.err
	}
	return r.Repository.GetByID(ctx, id)
}

func TestEnsureProfile_RetriesTransientErrors(t *testing.T) {
	f := newFixture()
	m := &flakyManager{Manager: f.manager, err: &pgconn.PgError{Code: dbx.CodeSerializationFailure}}
	m.failures.Store(2)

	svc := NewProfileService(f.store, m, 10, logging.NewNop())
	svc.retryDelay = time.Millisecond

	p, err := svc.EnsureProfile(context.Background(), auth.Identity{ID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), p.Coins)
}

func TestEnsureProfile_DoesNotRetryPermanentErrors(t *testing.T) {
	f := newFixture()
	boom := errors.New("boom")
	m := &flakyManager{Manager: f.manager, err: boom}
	m.failures.Store(1)

	svc := NewProfileService(f.store, m, 10, logging.NewNop())
	svc.retryDelay = time.Millisecond

	_, err := svc.EnsureProfile(context.Background(), auth.Identity{ID: "u1"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(0), m.failures.Load(), "exactly one attempt")
}

func TestEnsureProfile_GivesUpAfterAttempts(t *testing.T) {
	f := newFixture()
	transient := &pgconn.PgError{Code: dbx.CodeDeadlockDetected}
	m := &flakyManager{Manager: f.manager, err: transient}
	m.failures.Store(100)

	svc := NewProfileService(f.store, m, 10, logging.NewNop())
	svc.retryDelay = time.Millisecond

	_, err := svc.EnsureProfile(context.Background(), auth.Identity{ID: "u1"})
	assert.ErrorIs(t, err, transient)
	assert.Equal(t, int32(97), m.failures.Load())
}
