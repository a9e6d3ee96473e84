package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/promptify/internal/server/models"
	"github.com/dmitrijs2005/promptify/internal/server/repositories/memstore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *recordingObserver) ObserveUnlock(outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func (o *recordingObserver) count(outcome string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, v := range o.outcomes {
		if v == outcome {
			n++
		}
	}
	return n
}

type fixture struct {
	store   *memstore.Store
	manager *memstore.Manager
}

func newFixture() *fixture {
	s := memstore.New()
	return &fixture{store: s, manager: memstore.NewManager(s)}
}

func (f *fixture) addUser(t *testing.T, id string, coins int64) {
	t.Helper()
	_, err := f.manager.Profiles(f.store.Conn()).Insert(context.Background(),
		&models.Profile{ID: id, DisplayName: "User", Coins: coins, Role: models.RoleUser})
	require.NoError(t, err)
}

func (f *fixture) addPrompt(t *testing.T) string {
	t.Helper()
	id := uuid.NewString()
	f.store.AddPrompt(models.Prompt{ID: id, Title: "prompt " + id[:8]}, "secret of "+id)
	return id
}

func (f *fixture) coins(t *testing.T, userID string) int64 {
	t.Helper()
	p, err := f.manager.Profiles(f.store.Conn()).GetByID(context.Background(), userID)
	require.NoError(t, err)
	return p.Coins
}

func (f *fixture) owns(t *testing.T, userID, promptID string) bool {
	t.Helper()
	ok, err := f.manager.Grants(f.store.Conn()).Exists(context.Background(), userID, promptID)
	require.NoError(t, err)
	return ok
}

func (f *fixture) unlockCount(t *testing.T, promptID string) int64 {
	t.Helper()
	p, err := f.manager.Prompts(f.store.Conn()).GetByID(context.Background(), promptID)
	require.NoError(t, err)
	return p.UnlockCount
}
