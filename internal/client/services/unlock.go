package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/promptify/internal/client/client"
	"github.com/dmitrijs2005/promptify/internal/client/models"
	"github.com/dmitrijs2005/promptify/internal/client/repositories/state"
	"github.com/dmitrijs2005/promptify/internal/dbx"
	"github.com/dmitrijs2005/promptify/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const defaultUnlockTimeout = 15 * time.Second

// UnlockService spends coins on prompts and reveals their text.
type UnlockService interface {
	// RequestUnlock asks the server to unlock promptID and, on success,
	// fetches its text. Concurrent requests for one prompt share one RPC.
	RequestUnlock(ctx context.Context, promptID string) (*models.Reveal, error)
	// Reveal fetches the text of a prompt the user already owns.
	Reveal(ctx context.Context, promptID string) (*models.Reveal, error)
}

type unlockService struct {
	client  client.Client
	db      *sql.DB
	logger  logging.Logger
	group   singleflight.Group
	timeout time.Duration
}

func NewUnlockService(c client.Client, db *sql.DB, l logging.Logger) UnlockService {
	return &unlockService{
		client:  c,
		db:      db,
		logger:  l.With("module", "unlock_service"),
		timeout: defaultUnlockTimeout,
	}
}

func (s *unlockService) RequestUnlock(ctx context.Context, promptID string) (*models.Reveal, error) {
	promptID = canonicalPromptID(promptID)
	sess, err := currentSession(ctx, s.db)
	if err != nil {
		return nil, err
	}
	// The cached balance only saves a round-trip; the server decides.
	if !sess.Owns(promptID) && sess.Profile.Coins < 1 {
		return nil, client.ErrInsufficientBalance
	}

	ch := s.group.DoChan(promptID, func() (any, error) {
		// Detached: an abandoned request still completes and lands in the cache.
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.unlock(callCtx, promptID)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		r := *res.Val.(*models.Reveal)
		return &r, nil
	}
}

func (s *unlockService) unlock(ctx context.Context, promptID string) (*models.Reveal, error) {
	out, err := s.client.UnlockPrompt(ctx, promptID)
	if err != nil {
		return nil, err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		st := state.NewSQLiteRepository(tx)
		if err := st.AddGrant(ctx, promptID); err != nil {
			return err
		}
		return st.SetCoins(ctx, out.CoinsLeft)
	})
	reveal := &models.Reveal{
		PromptID:     promptID,
		CoinsLeft:    out.CoinsLeft,
		AlreadyOwned: out.AlreadyOwned,
	}
	if err != nil {
		s.logger.Warn(ctx, "unlock cache update failed", "prompt_id", promptID, "error", err)
		reveal.CacheStale = true
	}

	text, err := s.client.GetPromptSecret(ctx, promptID)
	switch {
	case err == nil:
		reveal.Secret = text
		reveal.Available = true
	case errors.Is(err, client.ErrForbidden):
		s.logger.Warn(ctx, "secret withheld after unlock", "prompt_id", promptID)
	default:
		s.logger.Warn(ctx, "secret fetch failed", "prompt_id", promptID, "error", err)
	}

	return reveal, nil
}

func (s *unlockService) Reveal(ctx context.Context, promptID string) (*models.Reveal, error) {
	promptID = canonicalPromptID(promptID)
	sess, err := currentSession(ctx, s.db)
	if err != nil {
		return nil, err
	}

	text, err := s.client.GetPromptSecret(ctx, promptID)
	if err != nil {
		return nil, err
	}

	return &models.Reveal{
		PromptID:     promptID,
		CoinsLeft:    sess.Profile.Coins,
		Secret:       text,
		Available:    true,
		AlreadyOwned: true,
	}, nil
}

// canonicalPromptID spells uuid ids the way the server returns them so cached
// grants and coalescing keys match. Anything else is left for the server to
// reject.
func canonicalPromptID(id string) string {
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return id
}
