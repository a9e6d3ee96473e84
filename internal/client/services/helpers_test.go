package services

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/promptify/internal/client/client"
	"github.com/dmitrijs2005/promptify/internal/client/models"
	"github.com/dmitrijs2005/promptify/internal/client/repositories/state"
	"github.com/stretchr/testify/require"
)

// fakeClient is an in-memory client.Client. Unlock calls block on gate when
// it is non-nil.
type fakeClient struct {
	mu     sync.Mutex
	token  string
	tokens []string

	profile    *models.Profile
	profileErr error
	grants     []string
	grantsErr  error
	prompts    []*models.Prompt

	unlockOut   *models.UnlockOutcome
	unlockErr   error
	unlockCalls atomic.Int32
	gate        chan struct{}

	secrets   map[string]string
	secretErr error

	pingErr error
	closed  bool
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeClient) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
	f.tokens = append(f.tokens, token)
}

func (f *fakeClient) currentToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeClient) Ping(context.Context) error { return f.pingErr }

func (f *fakeClient) EnsureProfile(context.Context) (*models.Profile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	p := *f.profile
	return &p, nil
}

func (f *fakeClient) ListPrompts(context.Context) ([]*models.Prompt, error) {
	out := make([]*models.Prompt, 0, len(f.prompts))
	for _, p := range f.prompts {
		c := *p
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeClient) GetPrompt(_ context.Context, id string) (*models.Prompt, error) {
	for _, p := range f.prompts {
		if p.ID == id {
			c := *p
			return &c, nil
		}
	}
	return nil, client.ErrNotFound
}

func (f *fakeClient) UnlockPrompt(ctx context.Context, _ string) (*models.UnlockOutcome, error) {
	f.unlockCalls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.unlockErr != nil {
		return nil, f.unlockErr
	}
	out := *f.unlockOut
	return &out, nil
}

func (f *fakeClient) GetPromptSecret(_ context.Context, id string) (string, error) {
	if f.secretErr != nil {
		return "", f.secretErr
	}
	text, ok := f.secrets[id]
	if !ok {
		return "", client.ErrForbidden
	}
	return text, nil
}

func (f *fakeClient) ListUnlockedPromptIDs(context.Context) ([]string, error) {
	if f.grantsErr != nil {
		return nil, f.grantsErr
	}
	return append([]string{}, f.grants...), nil
}

func setupCache(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// seedSession caches a signed-in profile with coins and grants.
func seedSession(t *testing.T, db *sql.DB, coins int64, grants ...string) {
	t.Helper()
	ctx := context.Background()
	st := state.NewSQLiteRepository(db)
	require.NoError(t, st.ReplaceProfile(ctx, &models.Profile{ID: "u1", DisplayName: "Ann", Coins: coins, Role: "user"}))
	require.NoError(t, st.ReplaceGrants(ctx, grants))
}

func cachedCoins(t *testing.T, db *sql.DB) int64 {
	t.Helper()
	p, err := state.NewSQLiteRepository(db).GetProfile(context.Background())
	require.NoError(t, err)
	return p.Coins
}

func cachedGrants(t *testing.T, db *sql.DB) []string {
	t.Helper()
	ids, err := state.NewSQLiteRepository(db).ListGrants(context.Background())
	require.NoError(t, err)
	return ids
}
