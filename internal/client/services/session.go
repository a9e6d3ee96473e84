package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/promptify/internal/client/client"
	"github.com/dmitrijs2005/promptify/internal/client/models"
	"github.com/dmitrijs2005/promptify/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/promptify/internal/client/repositories/state"
	"github.com/dmitrijs2005/promptify/internal/common"
	"github.com/dmitrijs2005/promptify/internal/dbx"
)

// SessionService manages the signed-in identity and its cached state.
//
// All methods honor context cancellation.
type SessionService interface {
	// SignIn stores token and loads the profile and grant set from the server.
	SignIn(ctx context.Context, token string) (*models.Session, error)
	// Restore hands a previously stored token to the API client. It reports
	// whether a token was found.
	Restore(ctx context.Context) (bool, error)
	// Reconcile re-reads authoritative state with the stored token.
	Reconcile(ctx context.Context) (*models.Session, error)
	// Current returns the cached session or client.ErrNotAuthenticated.
	Current(ctx context.Context) (*models.Session, error)
	SignOut(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type sessionService struct {
	client client.Client
	db     *sql.DB
}

func NewSessionService(c client.Client, db *sql.DB) SessionService {
	return &sessionService{client: c, db: db}
}

func (s *sessionService) SignIn(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, client.ErrNotAuthenticated
	}

	previous, _, err := metadata.NewSQLiteRepository(s.db).Get(ctx, metadata.KeyAccessToken)
	if err != nil {
		return nil, err
	}

	s.client.SetToken(token)
	sess, err := s.load(ctx, token)
	if err != nil {
		s.client.SetToken(previous)
		return nil, err
	}
	return sess, nil
}

func (s *sessionService) Restore(ctx context.Context) (bool, error) {
	token, ok, err := metadata.NewSQLiteRepository(s.db).Get(ctx, metadata.KeyAccessToken)
	if err != nil || !ok {
		return false, err
	}
	s.client.SetToken(token)
	return true, nil
}

func (s *sessionService) Reconcile(ctx context.Context) (*models.Session, error) {
	token, ok, err := metadata.NewSQLiteRepository(s.db).Get(ctx, metadata.KeyAccessToken)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, client.ErrNotAuthenticated
	}

	s.client.SetToken(token)
	sess, err := s.load(ctx, token)
	if errors.Is(err, client.ErrNotAuthenticated) {
		if clearErr := s.SignOut(ctx); clearErr != nil {
			return nil, errors.Join(err, clearErr)
		}
	}
	return sess, err
}

// load fetches profile and grants, then replaces the cache in one transaction.
func (s *sessionService) load(ctx context.Context, token string) (*models.Session, error) {
	profile, err := s.client.EnsureProfile(ctx)
	if err != nil {
		return nil, err
	}
	grants, err := s.client.ListUnlockedPromptIDs(ctx)
	if err != nil {
		return nil, err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		meta := metadata.NewSQLiteRepository(tx)
		st := state.NewSQLiteRepository(tx)

		if err := meta.Set(ctx, metadata.KeyAccessToken, token); err != nil {
			return err
		}
		if err := st.ReplaceProfile(ctx, profile); err != nil {
			return err
		}
		if err := st.ReplaceGrants(ctx, grants); err != nil {
			return err
		}
		return meta.Set(ctx, metadata.KeyLastSync, time.Now().UTC().Format(time.RFC3339))
	})
	if err != nil {
		return nil, fmt.Errorf("cache update: %w", err)
	}

	return models.NewSession(profile, grants), nil
}

func (s *sessionService) Current(ctx context.Context) (*models.Session, error) {
	return currentSession(ctx, s.db)
}

func currentSession(ctx context.Context, db dbx.DBTX) (*models.Session, error) {
	st := state.NewSQLiteRepository(db)

	profile, err := st.GetProfile(ctx)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, client.ErrNotAuthenticated
	}
	if err != nil {
		return nil, err
	}

	grants, err := st.ListGrants(ctx)
	if err != nil {
		return nil, err
	}

	return models.NewSession(profile, grants), nil
}

func (s *sessionService) SignOut(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := state.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		return metadata.NewSQLiteRepository(tx).Clear(ctx)
	})
	if err != nil {
		return err
	}
	s.client.SetToken("")
	return nil
}

// Ping proxies a liveness check to the underlying client.
func (s *sessionService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (s *sessionService) Close(ctx context.Context) error {
	return s.client.Close()
}
