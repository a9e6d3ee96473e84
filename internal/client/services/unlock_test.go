package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/promptify/internal/client/client"
	"github.com/dmitrijs2005/promptify/internal/client/models"
	"github.com/dmitrijs2005/promptify/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestUnlock_NoSession(t *testing.T) {
	f := &fakeClient{}
	s := NewUnlockService(f, setupCache(t), logging.NewNop())

	_, err := s.RequestUnlock(context.Background(), "p1")
	assert.ErrorIs(t, err, client.ErrNotAuthenticated)
	assert.Zero(t, f.unlockCalls.Load())
}

func TestRequestUnlock_ShortCircuitsOnCachedZeroBalance(t *testing.T) {
	db := setupCache(t)
	seedSession(t, db, 0)
	f := &fakeClient{}
	s := NewUnlockService(f, db, logging.NewNop())

	_, err := s.RequestUnlock(context.Background(), "p1")
	assert.ErrorIs(t, err, client.ErrInsufficientBalance)
	assert.Zero(t, f.unlockCalls.Load())
}

func TestRequestUnlock_OwnedPromptWithZeroBalanceStillAsksServer(t *testing.T) {
	db := setupCache(t)
	seedSession(t, db, 0, "p1")
	f := &fakeClient{
		unlockOut: &models.UnlockOutcome{AlreadyOwned: true, CoinsLeft: 0},
		secrets:   map[string]string{"p1": "text"},
	}
	s := NewUnlockService(f, db, logging.NewNop())

	r, err := s.RequestUnlock(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, r.AlreadyOwned)
	assert.True(t, r.Available)
	assert.Equal(t, int32(1), f.unlockCalls.Load())
}

func TestRequestUnlock_SuccessTakesServerBalance(t *testing.T) {
	db := setupCache(t)
	seedSession(t, db, 10)
	// Server balance differs from the cache: another device spent coins.
	f := &fakeClient{
		unlockOut: &models.UnlockOutcome{Unlocked: true, CoinsLeft: 6},
		secrets:   map[string]string{"p1": "the prompt"},
	}
	s := NewUnlockService(f, db, logging.NewNop())

	r, err := s.RequestUnlock(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, &models.Reveal{PromptID: "p1", CoinsLeft: 6, Secret: "the prompt", Available: true}, r)

	assert.Equal(t, int64(6), cachedCoins(t, db))
	assert.Equal(t, []string{"p1"}, cachedGrants(t, db))
}

func TestRequestUnlock_InsufficientLeavesCache(t *testing.T) {
	db := setupCache(t)
	seedSession(t, db, 2, "p0")
	f := &fakeClient{unlockErr: client.ErrInsufficientBalance}
	s := NewUnlockService(f, db, logging.NewNop())

	_, err := s.RequestUnlock(context.Background(), "p1")
	assert.ErrorIs(t, err, client.ErrInsufficientBalance)

	assert.Equal(t, int64(2), cachedCoins(t, db))
	assert.Equal(t, []string{"p0"}, cachedGrants(t, db))
}

func TestRequestUnlock_TransientErrorLeavesCache(t *testing.T) {
	db := setupCache(t)
	seedSession(t, db, 2)
	f := &fakeClient{unlockErr: client.ErrUnavailable}
	s := NewUnlockService(f, db, logging.NewNop())

	_, err := s.RequestUnlock(context.Background(), "p1")
	assert.ErrorIs(t, err, client.ErrUnavailable)
	assert.Equal(t, int64(2), cachedCoins(t, db))
	assert.Empty(t, cachedGrants(t, db))
}

func TestRequestUnlock_ForbiddenSecretDegrades(t *testing.T) {
	db := setupCache(t)
	seedSession(t, db, 3)
	f := &fakeClient{
		unlockOut: &models.UnlockOutcome{Unlocked: true, CoinsLeft: 2},
		secrets:   map[string]string{},
	}
	s := NewUnlockService(f, db, logging.NewNop())

	r, err := s.RequestUnlock(context.Background(), "p1")
	require.NoError(t, err)
	assert.False(t, r.Available)
	assert.Empty(t, r.Secret)
	assert.Equal(t, int64(2), r.CoinsLeft)
	assert.Equal(t, []string{"p1"}, cachedGrants(t, db))
}

func TestRequestUnlock_CoalescesConcurrentCalls(t *testing.T) {
	db := setupCache(t)
	seedSession(t, db, 5)
	f := &fakeClient{
		unlockOut: &models.UnlockOutcome{Unlocked: true, CoinsLeft: 4},
		secrets:   map[string]string{"p1": "text"},
		gate:      make(chan struct{}),
	}
	s := NewUnlockService(f, db, logging.NewNop())

	const callers = 5
	var wg sync.WaitGroup
	results := make([]*models.Reveal, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.RequestUnlock(context.Background(), "p1")
		}(i)
	}

	require.Eventually(t, func() bool { return f.unlockCalls.Load() == 1 }, time.Second, 5*time.Millisecond)
	// Let the remaining callers join the in-flight call.
	time.Sleep(50 * time.Millisecond)
	close(f.gate)
	wg.Wait()

	assert.Equal(t, int32(1), f.unlockCalls.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, int64(4), results[i].CoinsLeft)
	}
	assert.Equal(t, int64(4), cachedCoins(t, db))
}

func TestRequestUnlock_AbandonedCallStillCompletes(t *testing.T) {
	db := setupCache(t)
	seedSession(t, db, 5)
	f := &fakeClient{
		unlockOut: &models.UnlockOutcome{Unlocked: true, CoinsLeft: 4},
		secrets:   map[string]string{"p1": "text"},
		gate:      make(chan struct{}),
	}
	s := NewUnlockService(f, db, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := s.RequestUnlock(ctx, "p1")
		done <- err
	}()

	require.Eventually(t, func() bool { return f.unlockCalls.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(f.gate)
	require.Eventually(t, func() bool {
		ids := cachedGrants(t, db)
		return len(ids) == 1 && ids[0] == "p1"
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(4), cachedCoins(t, db))
}

func TestReveal(t *testing.T) {
	db := setupCache(t)
	seedSession(t, db, 3, "p1")
	f := &fakeClient{secrets: map[string]string{"p1": "owned text"}}
	s := NewUnlockService(f, db, logging.NewNop())

	r, err := s.Reveal(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "owned text", r.Secret)
	assert.Equal(t, int64(3), r.CoinsLeft)

	_, err = s.Reveal(context.Background(), "p2")
	assert.ErrorIs(t, err, client.ErrForbidden)
	assert.Zero(t, f.unlockCalls.Load())
}

func TestReveal_NoSession(t *testing.T) {
	s := NewUnlockService(&fakeClient{}, setupCache(t), logging.NewNop())

	_, err := s.Reveal(context.Background(), "p1")
	assert.ErrorIs(t, err, client.ErrNotAuthenticated)
}

func TestRequestUnlock_CachesServerSpellingOfID(t *testing.T) {
	const id = "6b0f4f3c-1d8e-4b6a-9d3e-2a4c5e7f8a01"
	db := setupCache(t)
	seedSession(t, db, 2)
	f := &fakeClient{
		unlockOut: &models.UnlockOutcome{Unlocked: true, CoinsLeft: 0},
		secrets:   map[string]string{id: "text"},
	}
	s := NewUnlockService(f, db, logging.NewNop())

	r, err := s.RequestUnlock(context.Background(), strings.ToUpper(id))
	require.NoError(t, err)
	assert.Equal(t, id, r.PromptID)
	assert.True(t, r.Available)
	assert.Equal(t, []string{id}, cachedGrants(t, db))

	// the cached grant is found under any spelling, so a zero balance
	// does not short-circuit the owned prompt
	f.unlockOut = &models.UnlockOutcome{Unlocked: true, AlreadyOwned: true, CoinsLeft: 0}
	r, err = s.RequestUnlock(context.Background(), "{"+id+"}")
	require.NoError(t, err)
	assert.True(t, r.AlreadyOwned)
	assert.Equal(t, int32(2), f.unlockCalls.Load())
	assert.Equal(t, []string{id}, cachedGrants(t, db))
}

func TestRequestUnlock_CacheWriteFailureMarksStale(t *testing.T) {
	db := setupCache(t)
	seedSession(t, db, 3)
	_, err := db.Exec(`CREATE TRIGGER reject_grant BEFORE INSERT ON cached_grants
		BEGIN SELECT RAISE(ABORT, 'disk full'); END`)
	require.NoError(t, err)

	f := &fakeClient{
		unlockOut: &models.UnlockOutcome{Unlocked: true, CoinsLeft: 2},
		secrets:   map[string]string{"p1": "text"},
	}
	s := NewUnlockService(f, db, logging.NewNop())

	r, err := s.RequestUnlock(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, r.CacheStale)
	assert.Equal(t, int64(2), r.CoinsLeft)
	assert.True(t, r.Available)

	// the failed transaction rolled back the coin update too
	assert.Equal(t, int64(3), cachedCoins(t, db))
	assert.Empty(t, cachedGrants(t, db))
}
