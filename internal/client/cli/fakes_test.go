package cli

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/promptify/internal/client/client"
	"github.com/dmitrijs2005/promptify/internal/client/models"
)

type fakeSession struct {
	mu       sync.Mutex
	sess     *models.Session
	stored   bool
	signInFn func(token string) (*models.Session, error)
	pingErr  error
	recErr   error
	tokens   []string
	signOuts int
}

func (f *fakeSession) SignIn(ctx context.Context, token string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	if f.signInFn != nil {
		s, err := f.signInFn(token)
		if err == nil {
			f.sess = s
		}
		return s, err
	}
	return f.sess, nil
}

func (f *fakeSession) Restore(ctx context.Context) (bool, error) { return f.stored, nil }

func (f *fakeSession) Reconcile(ctx context.Context) (*models.Session, error) {
	if f.recErr != nil {
		return nil, f.recErr
	}
	return f.Current(ctx)
}

func (f *fakeSession) Current(ctx context.Context) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sess == nil {
		return nil, client.ErrNotAuthenticated
	}
	return f.sess, nil
}

func (f *fakeSession) SignOut(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sess = nil
	f.signOuts++
	return nil
}

func (f *fakeSession) Ping(ctx context.Context) error  { return f.pingErr }
func (f *fakeSession) Close(ctx context.Context) error { return nil }

type fakeUnlocks struct {
	reveal *models.Reveal
	err    error
	calls  []string
}

func (f *fakeUnlocks) RequestUnlock(ctx context.Context, promptID string) (*models.Reveal, error) {
	f.calls = append(f.calls, "unlock "+promptID)
	return f.reveal, f.err
}

func (f *fakeUnlocks) Reveal(ctx context.Context, promptID string) (*models.Reveal, error) {
	f.calls = append(f.calls, "reveal "+promptID)
	return f.reveal, f.err
}

type fakeCatalog struct {
	prompts []*models.Prompt
	err     error
}

func (f *fakeCatalog) List(ctx context.Context) ([]*models.Prompt, error) {
	return f.prompts, f.err
}

func (f *fakeCatalog) Get(ctx context.Context, promptID string) (*models.Prompt, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.prompts {
		if p.ID == promptID {
			return p, nil
		}
	}
	return nil, client.ErrNotFound
}

var errBoom = errors.New("boom")

func newTestApp(sess *fakeSession, unl *fakeUnlocks, cat *fakeCatalog) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{session: sess, unlocks: unl, catalog: cat, out: &out}, &out
}

func aliceSession(coins int64, grants ...string) *models.Session {
	return models.NewSession(&models.Profile{
		ID:          "u-1",
		Email:       "alice@example.com",
		DisplayName: "Alice",
		Coins:       coins,
		Role:        "USER",
	}, grants)
}
